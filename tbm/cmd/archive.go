package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/paulmatencio/tbm/dpc"
	"github.com/paulmatencio/tbm/gLog"
	"github.com/paulmatencio/tbm/tbm/lib"
	"github.com/paulmatencio/tbm/unpack"
	"github.com/paulmatencio/tbm/utils"
	"github.com/spf13/viper"
)

// options returns the traversal options set in the configuration.
func options() lib.Options {
	return lib.Options{
		Start:    utils.GetStartWord(viper.GetViper()) * lib.WordBits,
		MaxFiles: utils.GetMaxFiles(viper.GetViper()),
	}
}

func openArchive(path string) (*lib.Archive, error) {
	buf, err := utils.ReadArchive(path)
	if err != nil {
		return nil, err
	}
	gLog.Trace.Printf("Read %s: %d bytes", path, len(buf))
	return lib.Open(buf, options())
}

// describe names the kind of err and where it was detected.
func describe(err error) string {
	var (
		ce *lib.CorruptError
		re *unpack.RangeError
		de *dpc.CodeError
	)
	switch {
	case errors.As(err, &ce) && errors.Is(err, lib.ErrIterationLimit):
		return fmt.Sprintf("iteration limit: %s at bit %d (word %d)", ce.Detail, ce.Offset, ce.Offset/lib.WordBits)
	case errors.As(err, &ce):
		return fmt.Sprintf("corrupt archive: check %s failed at bit %d (word %d): %s", ce.Check, ce.Offset, ce.Offset/lib.WordBits, ce.Detail)
	case errors.As(err, &re):
		return fmt.Sprintf("out of range: %v", re)
	case errors.As(err, &de):
		return fmt.Sprintf("invalid display code: %v", de)
	}
	return err.Error()
}

// exit logs err and terminates with a non-zero status.
func exit(err error) {
	if err == nil {
		return
	}
	gLog.Error.Println(describe(err))
	for _, f := range logFiles {
		f.Close()
	}
	os.Exit(1)
}

func printSystemLabel(w io.Writer, s *lib.SystemLabel) {
	fmt.Fprintf(w, "Machine type:      %s\n", lib.MachineTypeName(s.MachineType))
	fmt.Fprintf(w, "Density:           %s\n", lib.DensityName(s.Density))
	fmt.Fprintf(w, "Data type:         %s\n", lib.DataTypeName(s.DataType))
	fmt.Fprintf(w, "Tracks:            %d\n", s.NumTracks)
	fmt.Fprintf(w, "Block size:        %d x %d words\n", s.BK, lib.BlockSize)
	fmt.Fprintf(w, "BK blocks:         %d\n", s.NumBKBlocks)
	fmt.Fprintf(w, "Label buffer:      %d words\n", s.LabelBufLen)
	fmt.Fprintf(w, "Volume serial:     %s\n", s.Volume.VolSerialName)
	fmt.Fprintf(w, "Accounting number: %s\n", s.Volume.AccountingNum)
	fmt.Fprintf(w, "TBM volume serial: %s\n", s.Volume.TBMVolSerial)
	fmt.Fprintf(w, "Data set id:       %s\n", s.Header1.Name())
	fmt.Fprintf(w, "Creation date:     %s\n", s.Header1.CreationDate)
	fmt.Fprintf(w, "Expiration date:   %s\n", s.Header1.ExpirationDate)
	fmt.Fprintf(w, "System code:       %s\n", s.Header1.SysCode)
	fmt.Fprintf(w, "HDR2:              %s\n", strings.TrimRight(s.Header2.Label, " "))
	fmt.Fprintf(w, "First FCP:         word %d\n", s.FirstFCPOff)
	fmt.Fprintf(w, "Data start:        word %d\n", s.DataStart()/lib.WordBits)
}

func printValues(w io.Writer, v lib.Values) {
	fmt.Fprintf(w, "%s at bit %d (word %d)\n", v.Layout.Name, v.Offset, v.Offset/lib.WordBits)
	v.Each(func(f lib.Field, val uint64) {
		fmt.Fprintf(w, "  %-22s %d (%#x)\n", f.Name, val, val)
	})
}

func printText(w io.Writer, t lib.Text) {
	t.Each(func(f lib.Field, s string) {
		fmt.Fprintf(w, "  %-22s %q\n", f.Name, s)
	})
}

func printHistory(w io.Writer, h *lib.FileHistory) {
	fmt.Fprintf(w, "  data set id %s  use count %d  version %d\n", h.Name(), h.UseCount, h.VersionNum)
	fmt.Fprintf(w, "  last read %s  last write %s\n", h.LastRead, h.LastWrite)
	fmt.Fprintf(w, "  record length %d  max records %d\n", h.RecordLen, h.MaxRecordNum)
	fmt.Fprintf(w, "  created %s/%s  expires %s/%s\n", h.CreationYear, h.CreationDay, h.ExpirationYear, h.ExpirationDay)
}

func printCatalog(w io.Writer, entries []lib.CatalogEntry) {
	for i, e := range entries {
		fmt.Fprintf(w, "%4d %-17s %-17s %-21s block %4d at word %d\n", i, e.History.Name(),
			lib.FileTypeName(e.FCP.FileType), lib.FileDispositionName(e.FCP.FileDisposition),
			e.FCP.DataBlkNum, e.FCP.Offset/lib.WordBits)
	}
}

func printFiles(w io.Writer, files []*lib.File) {
	for _, f := range files {
		fmt.Fprintf(w, "%4d %-17s data at word %-8d %6d records %10d bytes\n",
			f.Index, f.Name(), f.DataStart/lib.WordBits, f.Records, f.Size)
	}
}
