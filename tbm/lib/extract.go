package lib

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/paulmatencio/tbm/dpc"
	"github.com/paulmatencio/tbm/unpack"
)

// Extract copies the data records of f into a linear buffer of f.Size bytes,
// each record at the write offset computed during traversal.
func Extract(buf []byte, f *File, maxSteps int) ([]byte, error) {
	out := make([]byte, f.Size)
	err := walkData(buf, f, maxSteps, func(d *DBF, w uint64) error {
		payload := d.Payload()
		if w+payload > uint64(len(out))*8 {
			return corrupt(CheckDataFlags, d.Offset, "record of %d bits at %d overflows file of %d bytes", payload, w, f.Size)
		}
		src := d.Offset + WordBits
		n := payload / 8
		b, err := unpack.Bytes(buf, src, int(n))
		if err != nil {
			return err
		}
		copy(out[w/8:], b)
		if rem := uint(payload % 8); rem > 0 {
			v, err := unpack.Field(buf, src+n*8, rem)
			if err != nil {
				return err
			}
			out[w/8+n] = byte(v << (8 - rem))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ExtractText decodes every data record of f as display code, one line per
// record with trailing blanks removed.
func ExtractText(buf []byte, f *File, maxSteps int) ([]byte, error) {
	var out bytes.Buffer
	err := walkData(buf, f, maxSteps, func(d *DBF, _ uint64) error {
		if d.IsEOF && d.Payload() == 0 {
			return nil
		}
		line, err := dpc.Unpack(buf, d.Offset+WordBits, int(d.Payload()/dpc.Width))
		if err != nil {
			return err
		}
		out.WriteString(strings.TrimRight(line, " "))
		out.WriteByte('\n')
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// walkData calls fn for each data DBF of f with its write offset, the end of
// file mark included.
func walkData(buf []byte, f *File, maxSteps int, fn func(d *DBF, w uint64) error) error {
	if maxSteps <= 0 {
		maxSteps = stepLimit(buf)
	}
	mark, err := ReadDBF(buf, f.DataStart)
	if err != nil {
		return err
	}
	var (
		off   = mark.Next()
		w     uint64
		first = true
	)
	for step := 0; ; step++ {
		if step >= maxSteps {
			return iterationLimit(off, step)
		}
		d, err := ReadDBF(buf, off)
		if err != nil {
			return err
		}
		if d.IsEOD || d.IsEOF && d.EndLabelGroup {
			return corrupt(CheckDataFlags, off, "file %d ends without an end of file mark: %s", f.Index, flags(d))
		}
		if err := fn(d, w); err != nil {
			return err
		}
		w = advance(w, d.Payload(), first, d.IsEOF)
		first = false
		if d.IsEOF {
			if w != f.Bits {
				return fmt.Errorf("file %d: extracted %d bits, traversal found %d", f.Index, w, f.Bits)
			}
			return nil
		}
		if d.NextPtrOffset == 0 {
			return corrupt(CheckNextPointer, off, "zero distance to next DBF")
		}
		off = d.Next()
	}
}
