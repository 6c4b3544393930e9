package cmd

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/paulmatencio/tbm/dpc"
	"github.com/paulmatencio/tbm/gLog"
	"github.com/paulmatencio/tbm/tbm/lib"
	"github.com/paulmatencio/tbm/unpack"
	"github.com/paulmatencio/tbm/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// bits per offset unit
var units = map[string]uint64{
	"bits":   1,
	"six":    dpc.Width,
	"words":  lib.WordBits,
	"bytes":  8,
	"dwords": 64,
}

var kinds = []string{"dpc", "dbf", "bcp", "fcp", "fhw", "syslbn"}

var (
	offset     uint64
	unit, kind string
	chars      int
	showCmd    = &cobra.Command{
		Use:   "show",
		Short: "Command to display one record of a tape archive",
		Long: `Command to display the record at an offset of a tape archive as display code text,
data buffer flags, block control pointer, file control pointer, file history words or system label`,
		Run: func(cmd *cobra.Command, args []string) {
			exit(showFunc(cmd.OutOrStdout()))
		},
	}
)

func init() {
	RootCmd.AddCommand(showCmd)
	showCmd.Flags().StringVarP(&ifile, "ifile", "i", "", "tape archive image, optionally xz compressed")
	showCmd.Flags().Uint64VarP(&offset, "offset", "o", 0, "offset of the record")
	showCmd.Flags().StringVarP(&unit, "units", "u", "words", "units of the offset: "+unitNames())
	showCmd.Flags().StringVarP(&kind, "kind", "k", "dbf", "record kind: "+strings.Join(kinds, "|"))
	showCmd.Flags().IntVarP(&chars, "chars", "n", 0, "number of characters to decode for dpc, default one line")
}

func unitNames() string {
	var names []string
	for k := range units {
		names = append(names, k)
	}
	sort.Strings(names)
	return strings.Join(names, "|")
}

func showFunc(w io.Writer) error {
	if len(ifile) == 0 {
		gLog.Info.Printf("%s", missingInputFile)
		return nil
	}
	buf, err := utils.ReadArchive(ifile)
	if err != nil {
		return err
	}
	v := &viewer{buf: buf, lineLength: utils.GetLineLength(viper.GetViper())}
	return v.show(w, offset, unit, kind, chars)
}

// viewer displays records of an archive image.
type viewer struct {
	buf        []byte
	lineLength int
}

func (v *viewer) show(w io.Writer, off uint64, unit, kind string, n int) error {
	scale, ok := units[unit]
	if !ok {
		return fmt.Errorf("unknown unit %q, expected %s", unit, unitNames())
	}
	if off > math.MaxUint64/scale {
		return &unpack.RangeError{Start: off, Width: uint(scale), Count: 1, Len: len(v.buf)}
	}
	off *= scale
	switch kind {
	case "dpc":
		if n <= 0 {
			n = v.lineLength
		}
		s, err := dpc.Unpack(v.buf, off, n)
		if err != nil {
			return err
		}
		for len(s) > 0 {
			line := s
			if len(line) > v.lineLength {
				line = s[:v.lineLength]
			}
			fmt.Fprintln(w, line)
			s = s[len(line):]
		}
	case "dbf":
		d, err := lib.ReadDBF(v.buf, off)
		if err != nil {
			return err
		}
		printValues(w, d.Data)
		fmt.Fprintf(w, "  previous DBF at word %d, next DBF at word %d\n",
			int64(off/lib.WordBits)-int64(d.PrevPtrOffset), d.Next()/lib.WordBits)
		fmt.Fprintf(w, "  data mode %s\n", lib.DataTypeName(d.RecordDataMode))
	case "bcp":
		b, err := lib.ReadBCP(v.buf, off)
		if err != nil {
			return err
		}
		printValues(w, b.Data)
	case "fcp":
		f, err := lib.ReadFCP(v.buf, off)
		if err != nil {
			return err
		}
		printValues(w, f.Data)
		fmt.Fprintf(w, "  %s, %s, %s\n", lib.FileTypeName(f.FileType),
			lib.SecondaryFileTypeName(f.SecondaryFileType), lib.FileDispositionName(f.FileDisposition))
	case "fhw":
		h, err := lib.ReadFileHistory(v.buf, off)
		if err != nil {
			return err
		}
		printValues(w, h.Data)
		printText(w, h.Text)
		printHistory(w, h)
	case "syslbn":
		s, err := lib.ReadSystemLabel(v.buf, off)
		if err != nil {
			return err
		}
		printValues(w, s.Data)
		printText(w, s.Text)
		printSystemLabel(w, s)
		if err := s.Validate(); err != nil {
			fmt.Fprintln(w, describe(err))
		}
	default:
		return fmt.Errorf("unknown record kind %q, expected %s", kind, strings.Join(kinds, "|"))
	}
	return nil
}
