package lib

import (
	"github.com/paulmatencio/tbm/gLog"
)

// Archive is a decoded tape image: its system label, the file catalog from
// the control pointer chain and the files recovered by the DBF walk.
type Archive struct {
	Label   *SystemLabel
	Catalog []CatalogEntry
	Files   []*File
	buf     []byte
	opt     Options
}

// Open reads and validates the system label of buf, walks the file catalog
// and traverses the data. A zero opt.Start begins at the first data block;
// a zero opt.MaxFiles stops after as many files as the catalog lists.
//
// When the traversal fails, the returned archive holds what was recovered
// before the failure.
func Open(buf []byte, opt Options) (*Archive, error) {
	label, err := ReadSystemLabel(buf, 0)
	if err != nil {
		return nil, err
	}
	a := &Archive{Label: label, buf: buf}
	if err := label.Validate(); err != nil {
		return a, err
	}
	gLog.Trace.Printf("system label: %s %s bk %d, first fcp at word %d",
		MachineTypeName(label.MachineType), DataTypeName(label.DataType), label.BK, label.FirstFCPOff)

	if a.Catalog, err = WalkFCP(buf, uint64(label.FirstFCPOff)*WordBits, opt.MaxSteps); err != nil {
		return a, err
	}
	if opt.Start == 0 {
		if label.BK == 0 {
			return a, corrupt(CheckBlockSize, label.Offset, "zero block size, no data start")
		}
		opt.Start = label.DataStart()
	}
	if opt.MaxFiles == 0 {
		opt.MaxFiles = len(a.Catalog)
	}
	a.opt = opt
	a.Files, err = Traverse(buf, opt)
	if err == nil && len(a.Files) < opt.MaxFiles {
		gLog.Warning.Printf("end of data after %d of %d files", len(a.Files), opt.MaxFiles)
	}
	return a, err
}

// Extract returns the payload of the file as bytes.
func (a *Archive) Extract(f *File) ([]byte, error) {
	return Extract(a.buf, f, a.opt.MaxSteps)
}

// ExtractText returns the payload of the file decoded as display code lines.
func (a *Archive) ExtractText(f *File) ([]byte, error) {
	return ExtractText(a.buf, f, a.opt.MaxSteps)
}

// History returns the catalog entry of the file, matched by position.
func (a *Archive) History(f *File) *FileHistory {
	if f.Index < len(a.Catalog) {
		return a.Catalog[f.Index].History
	}
	return nil
}
