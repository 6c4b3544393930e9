package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/paulmatencio/tbm/tbm/lib"
	"github.com/paulmatencio/tbm/utils"
	"github.com/spf13/cobra"
)

var diffCmd = &cobra.Command{
	Use:   "diff <image> <longer image>",
	Short: "Command to locate where two tape images diverge",
	Long: `Command to compare two images as 4-bit nibbles and report the nibble offsets
where the second image carries extra data`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		exit(diffFunc(cmd.OutOrStdout(), args[0], args[1]))
	},
}

func init() {
	RootCmd.AddCommand(diffCmd)
}

func diffFunc(w io.Writer, a, b string) error {
	ba, err := utils.ReadArchive(a)
	if err != nil {
		return err
	}
	bb, err := utils.ReadArchive(b)
	if err != nil {
		return err
	}
	return diffImages(w, ba, bb)
}

func diffImages(w io.Writer, a, b []byte) error {
	if len(a) > len(b) {
		fmt.Fprintln(os.Stderr, "first image is the longer one, comparing the other way round")
		a, b = b, a
	}
	shifts, err := lib.Compare(a, b)
	if err != nil {
		return err
	}
	total := 0
	for _, s := range shifts {
		total += s.Advance
		fmt.Fprintf(w, "nibble %d (bit %d): %+d nibbles, %d in total\n", s.At, s.At*4, s.Advance, total)
	}
	fmt.Fprintf(w, "%d shifts\n", len(shifts))
	return nil
}
