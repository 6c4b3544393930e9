package cmd

import (
	"fmt"
	"io"

	"github.com/paulmatencio/tbm/gLog"
	"github.com/paulmatencio/tbm/tbm/lib"
	"github.com/paulmatencio/tbm/utils"
	"github.com/spf13/cobra"
)

var (
	history bool
	lsCmd   = &cobra.Command{
		Use:   "ls",
		Short: "Command to list the files of a tape archive",
		Long:  `Command to print the file control pointer chain of a tape archive and the files recovered by walking its data`,
		Run: func(cmd *cobra.Command, args []string) {
			exit(list(cmd.OutOrStdout()))
		},
	}
)

func init() {
	RootCmd.AddCommand(lsCmd)
	lsCmd.Flags().StringVarP(&ifile, "ifile", "i", "", "tape archive image, optionally xz compressed")
	lsCmd.Flags().BoolVarP(&history, "history", "H", false, "print the file history words of each catalog entry")
}

func list(w io.Writer) error {
	if len(ifile) == 0 {
		gLog.Info.Printf("%s", missingInputFile)
		return nil
	}
	buf, err := utils.ReadArchive(ifile)
	if err != nil {
		return err
	}
	return listArchive(w, buf, options(), history)
}

// listArchive prints the catalog and the recovered files, the ones recovered
// before a failure included.
func listArchive(w io.Writer, buf []byte, opt lib.Options, history bool) error {
	a, err := lib.Open(buf, opt)
	if a == nil {
		return err
	}
	fmt.Fprintf(w, "Catalog: %d files\n", len(a.Catalog))
	printCatalog(w, a.Catalog)
	if history {
		for i, e := range a.Catalog {
			fmt.Fprintf(w, "File history %d\n", i)
			printHistory(w, e.History)
		}
	}
	fmt.Fprintf(w, "Recovered: %d files\n", len(a.Files))
	printFiles(w, a.Files)
	return err
}
