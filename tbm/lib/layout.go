package lib

import (
	"fmt"

	"github.com/paulmatencio/tbm/dpc"
	"github.com/paulmatencio/tbm/unpack"
)

const (
	WordBits  = 60
	BlockSize = 2048 // archive words
)

// Field is one entry of a record layout. Width is in bits for a binary
// layout and in characters for a text layout. Fields without a name are
// blank or reserved and are skipped when reading.
type Field struct {
	Name  string
	Width uint
}

// Layout is the binary projection of a record: an ordered list of fields in
// stream order, most significant bit first.
type Layout struct {
	Name   string
	Fields []Field
	index  map[string]int
	bits   uint64
}

func NewLayout(name string, fields ...Field) *Layout {
	l := &Layout{Name: name, Fields: fields, index: make(map[string]int, len(fields))}
	for i, f := range fields {
		if f.Width == 0 || f.Width > 64 {
			panic(fmt.Sprintf("layout %s: field %q has width %d", name, f.Name, f.Width))
		}
		if f.Name != "" {
			if _, dup := l.index[f.Name]; dup {
				panic(fmt.Sprintf("layout %s: duplicate field %q", name, f.Name))
			}
			l.index[f.Name] = i
		}
		l.bits += uint64(f.Width)
	}
	return l
}

// Bits returns the size of the record in bits.
func (l *Layout) Bits() uint64 { return l.bits }

// Words returns the size of the record in archive words.
func (l *Layout) Words() int { return int(l.bits / WordBits) }

// Read materializes every named field of the record starting at bit off.
func (l *Layout) Read(buf []byte, off uint64) (Values, error) {
	v := Values{Layout: l, Offset: off, vals: make([]uint64, len(l.Fields))}
	pos := off
	for i, f := range l.Fields {
		if f.Name != "" {
			x, err := unpack.Field(buf, pos, f.Width)
			if err != nil {
				return Values{}, fmt.Errorf("reading %s.%s: %w", l.Name, f.Name, err)
			}
			v.vals[i] = x
		}
		pos += uint64(f.Width)
	}
	return v, nil
}

// Values holds the binary projection of one record.
type Values struct {
	Layout *Layout
	Offset uint64
	vals   []uint64
}

// Get returns the value of the named field. It panics on an unknown name.
func (v Values) Get(name string) uint64 {
	i, ok := v.Layout.index[name]
	if !ok {
		panic(fmt.Sprintf("layout %s has no field %q", v.Layout.Name, name))
	}
	return v.vals[i]
}

func (v Values) Bool(name string) bool { return v.Get(name) != 0 }

// Each calls fn for every named field in stream order.
func (v Values) Each(fn func(f Field, val uint64)) {
	for i, f := range v.Layout.Fields {
		if f.Name != "" {
			fn(f, v.vals[i])
		}
	}
}

// TextLayout is the text projection of a record: consecutive display-code
// character runs. Widths are in characters.
type TextLayout struct {
	Name   string
	Fields []Field
	index  map[string][2]int
	chars  int
}

func NewTextLayout(name string, fields ...Field) *TextLayout {
	l := &TextLayout{Name: name, Fields: fields, index: make(map[string][2]int, len(fields))}
	for _, f := range fields {
		if f.Name != "" {
			if _, dup := l.index[f.Name]; dup {
				panic(fmt.Sprintf("text layout %s: duplicate field %q", name, f.Name))
			}
			l.index[f.Name] = [2]int{l.chars, l.chars + int(f.Width)}
		}
		l.chars += int(f.Width)
	}
	return l
}

// Bits returns the size of the record in bits.
func (l *TextLayout) Bits() uint64 { return uint64(l.chars) * dpc.Width }

func (l *TextLayout) Chars() int { return l.chars }

func (l *TextLayout) Read(buf []byte, off uint64) (Text, error) {
	s, err := dpc.Unpack(buf, off, l.chars)
	if err != nil {
		return Text{}, fmt.Errorf("reading %s text: %w", l.Name, err)
	}
	return Text{Layout: l, Offset: off, s: s}, nil
}

// Text holds the translated text projection of one record.
type Text struct {
	Layout *TextLayout
	Offset uint64
	s      string
}

func (t Text) Get(name string) string {
	r, ok := t.Layout.index[name]
	if !ok {
		panic(fmt.Sprintf("text layout %s has no field %q", t.Layout.Name, name))
	}
	return t.s[r[0]:r[1]]
}

// String returns the whole record as text, blanks included.
func (t Text) String() string { return t.s }

func (t Text) Each(fn func(f Field, s string)) {
	pos := 0
	for _, f := range t.Layout.Fields {
		end := pos + int(f.Width)
		if f.Name != "" {
			fn(f, t.s[pos:end])
		}
		pos = end
	}
}

func blank(width uint) Field { return Field{Width: width} }

// prefixed returns fields with every name qualified by prefix.
func prefixed(prefix string, fields []Field) []Field {
	out := make([]Field, len(fields))
	for i, f := range fields {
		out[i] = f
		if f.Name != "" {
			out[i].Name = prefix + "." + f.Name
		}
	}
	return out
}

func concat(parts ...[]Field) []Field {
	var out []Field
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
