package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/paulmatencio/tbm/gLog"
	"github.com/paulmatencio/tbm/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Command to browse the records of a tape archive interactively",
	Long: `Command reading "<offset> <units> <kind> [chars]" lines from the standard input and
displaying the record found there, until end of input or "quit"`,
	Run: func(cmd *cobra.Command, args []string) {
		exit(exploreFunc(os.Stdin, cmd.OutOrStdout()))
	},
}

func init() {
	RootCmd.AddCommand(exploreCmd)
	exploreCmd.Flags().StringVarP(&ifile, "ifile", "i", "", "tape archive image, optionally xz compressed")
}

func exploreFunc(r io.Reader, w io.Writer) error {
	if len(ifile) == 0 {
		gLog.Info.Printf("%s", missingInputFile)
		return nil
	}
	buf, err := utils.ReadArchive(ifile)
	if err != nil {
		return err
	}
	v := &viewer{buf: buf, lineLength: utils.GetLineLength(viper.GetViper())}
	return v.explore(r, w)
}

// explore runs one command per input line. Errors of a command are printed
// and do not stop the loop.
func (v *viewer) explore(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	prompt := func() { fmt.Fprintf(w, "%d bits> ", len(v.buf)*8) }
	prompt()
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		switch {
		case len(fields) == 0:
		case fields[0] == "quit" || fields[0] == "q":
			return nil
		case len(fields) < 3:
			fmt.Fprintln(w, "usage: <offset> <units> <kind> [chars]")
		default:
			if err := v.command(w, fields); err != nil {
				fmt.Fprintln(w, describe(err))
			}
		}
		prompt()
	}
	return scanner.Err()
}

func (v *viewer) command(w io.Writer, fields []string) error {
	off, err := strconv.ParseUint(fields[0], 0, 64)
	if err != nil {
		return fmt.Errorf("offset %q: %w", fields[0], err)
	}
	n := 0
	if len(fields) > 3 {
		if n, err = strconv.Atoi(fields[3]); err != nil {
			return fmt.Errorf("chars %q: %w", fields[3], err)
		}
	}
	return v.show(w, off, fields[1], fields[2], n)
}
