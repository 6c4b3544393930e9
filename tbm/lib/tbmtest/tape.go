// Package tbmtest builds synthetic tape archives for tests.
package tbmtest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/paulmatencio/tbm/dpc"
	"github.com/paulmatencio/tbm/unpack"
)

const (
	wordBits  = 60
	blockSize = 2048
)

// DBF flag bits in a 60-bit word.
const (
	RecordStart  = 1 << 59
	EOD          = 1 << 58
	EOF          = 1 << 57
	LoadPoint    = 1 << 56
	LabelFollows = 1 << 55
	ELG          = 1 << 54
)

// Geometry of the archives written by Build, in words.
const (
	FirstFCP = 32
	BK       = 1
)

func DBFWord(flags, prev, next uint64) uint64 { return flags | prev<<21 | next }

// Tape writes 60-bit words and display code text into a bit buffer.
type Tape struct {
	t   testing.TB
	buf []byte
	pos uint64
}

func NewTape(t testing.TB, words int) *Tape {
	t.Helper()
	return &Tape{t: t, buf: make([]byte, words*wordBits/8+8)}
}

// Word writes v and returns its bit offset.
func (p *Tape) Word(v uint64) uint64 {
	p.t.Helper()
	off := p.pos
	if err := unpack.Pack(p.buf, p.pos, wordBits, []uint64{v}); err != nil {
		p.t.Fatal(err)
	}
	p.pos += wordBits
	return off
}

// Text writes s padded with blanks to the given number of words.
func (p *Tape) Text(s string, words int) uint64 {
	p.t.Helper()
	off := p.pos
	n := words * wordBits / dpc.Width
	if len(s) > n {
		p.t.Fatalf("%q does not fit %d words", s, words)
	}
	codes, err := dpc.Encode(s + strings.Repeat(" ", n-len(s)))
	if err != nil {
		p.t.Fatal(err)
	}
	if err := unpack.Pack(p.buf, p.pos, dpc.Width, codes); err != nil {
		p.t.Fatal(err)
	}
	p.pos += uint64(words) * wordBits
	return off
}

func (p *Tape) Seek(word int) { p.pos = uint64(word) * wordBits }

func (p *Tape) Bytes() []byte { return p.buf[:(p.pos+7)/8] }

// Set overwrites the word at bit offset off.
func Set(t testing.TB, buf []byte, off uint64, v uint64) {
	t.Helper()
	if err := unpack.Pack(buf, off, wordBits, []uint64{v}); err != nil {
		t.Fatal(err)
	}
}

type FileSpec struct {
	ID      string   // last 5 characters of the data set identifier
	Records []int    // payload words of each binary record
	Lines   []string // text records, used when Records is nil
}

type Archive struct {
	Buf        []byte
	Start      uint64     // first DBF
	Vol1       uint64     // VOL1 label of the data area
	DataStarts []uint64   // closing DBF of each header label group
	Records    [][]uint64 // data DBFs of each file
	Payload    [][]uint64 // binary payload words of each file
}

func Header1Text(magic, id string) string {
	return fmt.Sprintf("%sNCARSYSTEMHD%-5sTAPE0100010001000100790101991231 000000CRAY1SYSTEM01", magic, id)
}

// Build writes a system label, a catalog and a data area holding files.
func Build(t testing.TB, files ...FileSpec) *Archive {
	t.Helper()
	p := NewTape(t, blockSize*BK+1024)
	b := &Archive{}

	p.Word(1<<56 | 3<<52 | 9<<40 | BK<<32 | 5<<20 | 32)
	p.Word(0)
	p.Word(0)
	p.Word(0)
	p.Text("VOL1TAPE01 "+strings.Repeat(" ", 26)+"1234567842"+strings.Repeat(" ", 23)+"T00001   A", 8)
	p.Text(Header1Text("HDR1", "10001"), 8)
	p.Text("HDR2SYSTEM LABEL", 8)
	p.Word(FirstFCP << 30)
	p.Word(FirstFCP << 30)
	p.Word(0)
	p.Word(0)

	p.Seek(FirstFCP)
	for i, f := range files {
		p.Word(2<<55 | 1<<49 | uint64(i+1)<<12 | 9)
		p.Text(fmt.Sprintf("NCARSYSTEMHD%-5s", f.ID)+strings.Repeat(" ", 19)+"0102WPASSRPASS0008000100"+"79123"+"80001", 8)
	}
	p.Word(1 << 59)

	p.Seek(blockSize * BK)
	b.Start = p.Word(DBFWord(RecordStart|LoadPoint|LabelFollows, 0, 9))
	b.Vol1 = p.Text("VOL1TAPE01", 8)

	for i, f := range files {
		p.Word(DBFWord(RecordStart|LabelFollows, 1, 9))
		p.Text(Header1Text("HDR1", f.ID), 8)
		p.Word(DBFWord(RecordStart|LabelFollows, 9, 9))
		p.Text("HDR2", 8)
		b.DataStarts = append(b.DataStarts, p.Word(DBFWord(RecordStart|EOF|ELG, 9, 1)))

		var dbfs, words []uint64
		prev := uint64(1)
		if f.Records != nil {
			for r, n := range f.Records {
				dbfs = append(dbfs, p.Word(DBFWord(RecordStart, prev, uint64(n+1))))
				for k := 0; k < n; k++ {
					w := uint64(i+1)<<48 | uint64(r)<<24 | uint64(k) | 0x800000000000000
					words = append(words, w)
					p.Word(w)
				}
				prev = uint64(n + 1)
			}
		} else {
			for _, line := range f.Lines {
				n := (len(line) + 9) / 10
				dbfs = append(dbfs, p.Word(DBFWord(RecordStart, prev, uint64(n+1))))
				p.Text(line, n)
				prev = uint64(n + 1)
			}
		}
		dbfs = append(dbfs, p.Word(DBFWord(RecordStart|EOF, prev, 1)))
		b.Records = append(b.Records, dbfs)
		b.Payload = append(b.Payload, words)

		p.Word(DBFWord(LabelFollows, 1, 9))
		p.Text(Header1Text("EOF1", f.ID), 8)
		p.Word(DBFWord(EOF|ELG, 9, 1))
	}
	p.Word(DBFWord(EOD, 1, 1))
	b.Buf = p.Bytes()
	return b
}
