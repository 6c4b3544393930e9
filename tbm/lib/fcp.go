package lib

import (
	"github.com/paulmatencio/tbm/gLog"
)

// CatalogEntry is one file of the archive catalog: its control pointer and
// the history words that follow it.
type CatalogEntry struct {
	FCP     *FileControlPointer
	History *FileHistory
}

// WalkFCP follows the file control pointer chain starting at bit start and
// returns one entry per file. The terminating end-of-file pointer is not
// part of the result. maxSteps <= 0 bounds the walk by the buffer size.
func WalkFCP(buf []byte, start uint64, maxSteps int) ([]CatalogEntry, error) {
	if maxSteps <= 0 {
		maxSteps = stepLimit(buf)
	}
	var (
		entries []CatalogEntry
		off     = start
	)
	for step := 0; ; step++ {
		if step >= maxSteps {
			return entries, iterationLimit(off, step)
		}
		fcp, err := ReadFCP(buf, off)
		if err != nil {
			return entries, err
		}
		if fcp.IsEOF {
			gLog.Trace.Printf("fcp chain ends at bit %d after %d files", off, len(entries))
			return entries, nil
		}
		if fcp.NextFCPOff == 0 {
			return entries, corrupt(CheckNextFCP, off, "zero distance to next file control pointer")
		}
		hist, err := ReadFileHistory(buf, off+WordBits)
		if err != nil {
			return entries, err
		}
		gLog.Trace.Printf("fcp %d at bit %d: %s next %d", len(entries), off, hist.Name(), fcp.NextFCPOff)
		entries = append(entries, CatalogEntry{FCP: fcp, History: hist})
		off += uint64(fcp.NextFCPOff) * WordBits
	}
}

// stepLimit is the largest number of one-word records that fit in buf.
func stepLimit(buf []byte) int {
	return len(buf)*8/WordBits + 1
}
