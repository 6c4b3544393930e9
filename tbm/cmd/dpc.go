package cmd

import (
	"fmt"
	"io"

	"github.com/paulmatencio/tbm/dpc"
	"github.com/paulmatencio/tbm/gLog"
	"github.com/paulmatencio/tbm/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	start  uint64
	dpcCmd = &cobra.Command{
		Use:   "dpc",
		Short: "Command to dump a tape archive as display code text",
		Long:  `Command to decode a tape archive, or a part of it, as 6-bit display code characters`,
		Run: func(cmd *cobra.Command, args []string) {
			exit(dpcFunc(cmd.OutOrStdout()))
		},
	}
)

func init() {
	RootCmd.AddCommand(dpcCmd)
	dpcCmd.Flags().StringVarP(&ifile, "ifile", "i", "", "tape archive image, optionally xz compressed")
	dpcCmd.Flags().Uint64VarP(&start, "offset", "o", 0, "bit offset of the first character")
	dpcCmd.Flags().IntVarP(&chars, "chars", "n", 0, "number of characters, default up to the end of the image")
}

func dpcFunc(w io.Writer) error {
	if len(ifile) == 0 {
		gLog.Info.Printf("%s", missingInputFile)
		return nil
	}
	buf, err := utils.ReadArchive(ifile)
	if err != nil {
		return err
	}
	return dumpText(w, buf, start, chars, utils.GetLineLength(viper.GetViper()))
}

// dumpText writes n characters decoded from bit start, lineLength per line.
// n <= 0 decodes every whole character left in buf.
func dumpText(w io.Writer, buf []byte, start uint64, n, lineLength int) error {
	total := uint64(len(buf)) * 8
	if start > total {
		start = total
	}
	if n <= 0 {
		n = int((total - start) / dpc.Width)
	}
	for n > 0 {
		k := lineLength
		if k > n {
			k = n
		}
		line, err := dpc.Unpack(buf, start, k)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, line)
		start += uint64(k) * dpc.Width
		n -= k
	}
	return nil
}
