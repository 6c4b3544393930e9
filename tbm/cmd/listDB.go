package cmd

import (
	"fmt"
	"io"

	"github.com/paulmatencio/tbm/gLog"
	"github.com/paulmatencio/tbm/tbm/db"
	"github.com/paulmatencio/tbm/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	prefix    string
	files     bool
	listDBCmd = &cobra.Command{
		Use:   "listDB",
		Short: "Command to list the conversion status database",
		Long:  `Command to list the archives converted by toFiles and toS3 and, with --files, every file written`,
		Run: func(cmd *cobra.Command, args []string) {
			exit(listDBFunc(cmd.OutOrStdout()))
		},
	}
)

func init() {
	RootCmd.AddCommand(listDBCmd)
	listDBCmd.Flags().StringVarP(&DB, "DB", "D", "", "directory of the badger status database")
	listDBCmd.Flags().StringVarP(&prefix, "prefix", "p", "", "list only the archives whose name starts with prefix")
	listDBCmd.Flags().BoolVarP(&files, "files", "f", false, "list the files of the archives")
}

func listDBFunc(w io.Writer) error {
	store, err := openStore(DB, utils.GetDBDirectory(viper.GetViper()))
	if err != nil {
		return err
	}
	if store == nil {
		gLog.Info.Printf("%s", missingDB)
		return nil
	}
	defer store.Close()
	return listStatus(w, store, prefix, files)
}

func listStatus(w io.Writer, store db.DB, prefix string, files bool) error {
	return db.ListArchives(store, prefix, func(a *db.ArchiveStatus) error {
		fmt.Fprintf(w, "%-20s %-7s %4d/%-4d files  %s", a.Name, a.State, a.Files, a.Catalog, a.Start.Format("2006-01-02 15:04:05"))
		if !a.End.IsZero() {
			fmt.Fprintf(w, "  %s", a.End.Sub(a.Start))
		}
		if a.Error != "" {
			fmt.Fprintf(w, "  %s", a.Error)
		}
		fmt.Fprintln(w)
		if !files {
			return nil
		}
		return db.ListFiles(store, a.Name+"#", func(f *db.FileStatus) error {
			fmt.Fprintf(w, "  %4d %-17s %10d %s %s\n", f.Index, f.DataSetID, f.Size, f.XXHash, f.Destination)
			return nil
		})
	})
}
