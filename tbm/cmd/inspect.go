package cmd

import (
	"fmt"
	"io"

	"github.com/paulmatencio/tbm/gLog"
	"github.com/paulmatencio/tbm/tbm/lib"
	"github.com/paulmatencio/tbm/utils"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Command to validate and print the system label of a tape archive",
	Long:  `Command to read the SYSLBN at the start of a tape archive, check its label magic numbers and print it`,
	Run: func(cmd *cobra.Command, args []string) {
		exit(inspect(cmd.OutOrStdout()))
	},
}

func init() {
	RootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVarP(&ifile, "ifile", "i", "", "tape archive image, optionally xz compressed")
}

func inspect(w io.Writer) error {
	if len(ifile) == 0 {
		gLog.Info.Printf("%s", missingInputFile)
		return nil
	}
	buf, err := utils.ReadArchive(ifile)
	if err != nil {
		return err
	}
	return inspectLabel(w, buf)
}

func inspectLabel(w io.Writer, buf []byte) error {
	label, err := lib.ReadSystemLabel(buf, 0)
	if err != nil {
		return err
	}
	printSystemLabel(w, label)
	if err := label.Validate(); err != nil {
		return err
	}
	fmt.Fprintln(w, "System label is valid")
	return nil
}
