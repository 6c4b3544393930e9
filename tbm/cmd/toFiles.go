package cmd

import (
	"path/filepath"

	"github.com/paulmatencio/tbm/gLog"
	"github.com/paulmatencio/tbm/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	text       bool
	toFilesCmd = &cobra.Command{
		Use:   "toFiles",
		Short: "Command to extract the files of tape archives to a local directory",
		Long: `Command to recover every file of the matching tape archives and write each one to
<output directory>/<archive>/<n>.<data set id>`,
		Run: func(cmd *cobra.Command, args []string) {
			exit(toFilesFunc())
		},
	}
)

func init() {
	RootCmd.AddCommand(toFilesCmd)
	toFilesCmd.Flags().StringVarP(&ifile, "ifile", "i", "", "tape archive images: comma separated list of files or ** patterns")
	toFilesCmd.Flags().StringVarP(&odir, "odir", "O", "", "output directory of the extraction")
	toFilesCmd.Flags().BoolVarP(&text, "text", "t", false, "decode the files as display code text")
	toFilesCmd.Flags().StringVarP(&DB, "DB", "D", "", "directory of the badger status database")
}

func toFilesFunc() error {
	if len(ifile) == 0 {
		gLog.Info.Printf("%s", missingInputFile)
		return nil
	}
	if len(odir) == 0 {
		gLog.Info.Printf("%s", missingOutputFolder)
		return nil
	}
	files, err := utils.Glob(ifile)
	if err != nil {
		return err
	}
	store, err := openStore(DB, utils.GetDBDirectory(viper.GetViper()))
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}
	c := &converter{text: text, store: store, write: fileWriter(odir)}

	var first error
	for _, file := range files {
		if _, err := c.convert(file); err != nil {
			gLog.Error.Printf("Archive %s: %s", file, describe(err))
			if first == nil {
				first = err
			}
		}
	}
	return first
}

// fileWriter writes recovered files under dir.
func fileWriter(dir string) writer {
	return func(r *recovered) (string, error) {
		path := filepath.Join(dir, filepath.FromSlash(r.Key()))
		if err := utils.MakeDir(filepath.Dir(path)); err != nil {
			return "", err
		}
		return path, utils.WriteFile(path, r.Data, 0644)
	}
}
