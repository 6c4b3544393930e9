package lib

import (
	"fmt"
	"strings"

	"github.com/paulmatencio/tbm/gLog"
)

// State is the position of the archive walk within the label and data groups.
type State int

const (
	ExpectVolumeLabel State = iota
	ExpectHeader1
	ExpectHeader2
	ExpectEndLabelGroup
	ExpectData
	ExpectEOFHeader1
	ExpectDBFAfterEOFHeader1
)

var stateNames = [...]string{
	"ExpectVolumeLabel",
	"ExpectHeader1",
	"ExpectHeader2",
	"ExpectEndLabelGroup",
	"ExpectData",
	"ExpectEOFHeader1",
	"ExpectDBFAfterEOFHeader1",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Shape of the tape mark DBF that closes a label group: it follows an
// 8-word label and points to the very next word.
const (
	labelGroupNext = 1
	labelGroupPrev = 9
)

type Options struct {
	Start    uint64 // bit offset of the DBF preceding the volume label
	MaxFiles int    // stop once this many files are complete, 0 for no limit
	MaxSteps int    // bound on the number of DBFs visited, 0 derives it from the buffer size
}

// File is one logical file recovered from the archive.
type File struct {
	Index     int
	Header1   *Header1
	Header2   *Header2
	EOF1      *Header1 // nil when the walk stopped right after the data
	DataStart uint64   // bit offset of the DBF closing the header label group
	Bits      uint64   // decoded length in bits, a multiple of 64
	Size      int64    // decoded length in bytes
	Records   int      // data records, the closing tape mark excluded
}

// Name returns the data set identifier of the file.
func (f *File) Name() string {
	if f.Header1 == nil {
		return ""
	}
	return f.Header1.Name()
}

type traversal struct {
	buf   []byte
	opt   Options
	state State
	files []*File
	cur   *File
	w     uint64
	first bool
}

// Traverse walks the DBF chain from opt.Start and returns the files found.
// On failure the files completed before the failing record are returned
// with the error.
func Traverse(buf []byte, opt Options) ([]*File, error) {
	t := &traversal{buf: buf, opt: opt, state: ExpectVolumeLabel}
	err := t.run()
	return t.files, err
}

func (t *traversal) run() error {
	maxSteps := t.opt.MaxSteps
	if maxSteps <= 0 {
		maxSteps = stepLimit(t.buf)
	}
	off := t.opt.Start
	for step := 0; ; step++ {
		if step >= maxSteps {
			return iterationLimit(off, step)
		}
		dbf, err := ReadDBF(t.buf, off)
		if err != nil {
			return err
		}
		if dbf.IsEOD {
			gLog.Trace.Printf("end of data at bit %d in state %v, %d files", off, t.state, len(t.files))
			return nil
		}
		done, err := t.step(dbf)
		if err != nil || done {
			return err
		}
		if dbf.NextPtrOffset == 0 {
			return corrupt(CheckNextPointer, off, "zero distance to next DBF in state %v", t.state)
		}
		off = dbf.Next()
	}
}

// step applies one DBF to the state machine. It returns true once the
// requested number of files has been recovered.
func (t *traversal) step(dbf *DBF) (bool, error) {
	label := dbf.Offset + WordBits
	switch t.state {

	case ExpectVolumeLabel:
		vol, err := ReadVolumeLabel(t.buf, label)
		if err != nil {
			return false, err
		}
		if vol.Magic != MagicVOL1 {
			return false, corrupt(CheckVolumeLabel, label, "got %#x, want %#x", vol.Magic, MagicVOL1)
		}
		gLog.Trace.Printf("volume %s at bit %d", vol.VolSerialName, label)
		t.state = ExpectHeader1

	case ExpectHeader1:
		h, err := ReadHeader1(t.buf, label)
		if err != nil {
			return false, err
		}
		if err := checkHeader1(h, MagicHDR1, CheckHeader1, CheckNCARSY, CheckSTEMHD); err != nil {
			return false, err
		}
		t.cur = &File{Index: len(t.files), Header1: h}
		gLog.Trace.Printf("file %d %s header at bit %d", t.cur.Index, h.Name(), label)
		t.state = ExpectHeader2

	case ExpectHeader2:
		h, err := ReadHeader2(t.buf, label)
		if err != nil {
			return false, err
		}
		if h.Magic != MagicHDR2 {
			return false, corrupt(CheckHeader2, label, "got %#x, want %#x", h.Magic, MagicHDR2)
		}
		t.cur.Header2 = h
		t.state = ExpectEndLabelGroup

	case ExpectEndLabelGroup:
		if !dbf.IsEOF || !dbf.EndLabelGroup || !dbf.IsRecordStart ||
			dbf.NextPtrOffset != labelGroupNext || dbf.PrevPtrOffset != labelGroupPrev {
			return false, corrupt(CheckEndLabelGroup, dbf.Offset, "%s", flags(dbf))
		}
		t.cur.DataStart = dbf.Offset
		t.w = 0
		t.first = true
		t.state = ExpectData

	case ExpectData:
		if dbf.IsEOF && dbf.EndLabelGroup {
			return false, corrupt(CheckDataFlags, dbf.Offset, "label group mark inside data: %s", flags(dbf))
		}
		t.w = advance(t.w, dbf.Payload(), t.first, dbf.IsEOF)
		t.first = false
		if !dbf.IsEOF {
			t.cur.Records++
			break
		}
		t.cur.Bits = t.w
		t.cur.Size = int64(t.w / 8)
		t.files = append(t.files, t.cur)
		gLog.Trace.Printf("file %d %s complete: data at bit %d, %d records, %d bytes",
			t.cur.Index, t.cur.Name(), t.cur.DataStart, t.cur.Records, t.cur.Size)
		t.state = ExpectEOFHeader1
		if t.opt.MaxFiles > 0 && len(t.files) >= t.opt.MaxFiles {
			return true, nil
		}

	case ExpectEOFHeader1:
		h, err := ReadHeader1(t.buf, label)
		if err != nil {
			return false, err
		}
		if err := checkHeader1(h, MagicEOF1, CheckEOFHeader1, CheckEOFDataSetID, CheckEOFDataSetID); err != nil {
			return false, err
		}
		t.cur.EOF1 = h
		t.state = ExpectDBFAfterEOFHeader1

	case ExpectDBFAfterEOFHeader1:
		if !dbf.IsEOF || !dbf.EndLabelGroup {
			return false, corrupt(CheckEOFLabelGroup, dbf.Offset, "%s", flags(dbf))
		}
		t.cur = nil
		t.state = ExpectHeader1

	default:
		return false, fmt.Errorf("invalid traversal state %v", t.state)
	}
	return false, nil
}

func checkHeader1(h *Header1, magic uint64, magicCheck, idCheck1, idCheck2 string) error {
	if h.Magic != magic {
		return corrupt(magicCheck, h.Offset, "got %#x, want %#x", h.Magic, magic)
	}
	if v := h.Data.Get("dataSetID1_6"); v != MagicNCARSY {
		return corrupt(idCheck1, h.Offset, "got %#x, want %#x", v, MagicNCARSY)
	}
	if v := h.Data.Get("dataSetID7_12"); v != MagicSTEMHD {
		return corrupt(idCheck2, h.Offset, "got %#x, want %#x", v, MagicSTEMHD)
	}
	return nil
}

// advance returns the write offset, in bits, following a record of payload
// bits written at w. Records start on 64-bit boundaries; a record that ends
// aligned is followed by one empty 64-bit word unless it is the first record
// of the file or the end-of-file mark.
func advance(w, payload uint64, first, eof bool) uint64 {
	w += payload
	switch {
	case w%64 != 0:
		return (w/64 + 1) * 64
	case first || eof:
		return w
	default:
		return w + 64
	}
}

func flags(d *DBF) string {
	var set []string
	for _, f := range []struct {
		name string
		on   bool
	}{
		{"recordStart", d.IsRecordStart},
		{"EOD", d.IsEOD},
		{"EOF", d.IsEOF},
		{"loadPoint", d.IsLoadPoint},
		{"labelFollows", d.LabelRecordFollows},
		{"endLabelGroup", d.EndLabelGroup},
		{"parityError", d.SourceParityError},
		{"notWritten", d.RecordNotWritten},
		{"shorter", d.RecordIsShorter},
	} {
		if f.on {
			set = append(set, f.name)
		}
	}
	return fmt.Sprintf("flags [%s] next %d prev %d", strings.Join(set, " "), d.NextPtrOffset, d.PrevPtrOffset)
}
