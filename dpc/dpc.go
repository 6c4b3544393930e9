// Package dpc translates CDC 6-bit display code to ASCII.
package dpc

import (
	"errors"
	"fmt"

	"github.com/paulmatencio/tbm/unpack"
)

// Table is the 64-character display code set, indexed by code.
// Code 0 has no graphic in the 63-character set and prints as a space.
const Table = " " +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"0123456789" +
	"+-*/()$= ,.#[]%\"_!&'?<>@\\^;"

const Width = 6

var ErrInvalidCode = errors.New("invalid display code")

type CodeError struct {
	Index int
	Code  byte
}

func (e *CodeError) Error() string {
	return fmt.Sprintf("%v %#02x at index %d", ErrInvalidCode, e.Code, e.Index)
}

func (e *CodeError) Unwrap() error { return ErrInvalidCode }

var reverse = func() (r [256]int16) {
	for i := range r {
		r[i] = -1
	}
	// code 0 is never produced by Encode
	for c := 1; c < len(Table); c++ {
		r[Table[c]] = int16(c)
	}
	return
}()

// Decode replaces every code in b by its ASCII character.
// If any byte is not a 6-bit code, b is left untouched and a *CodeError is returned.
func Decode(b []byte) error {
	for i, c := range b {
		if int(c) >= len(Table) {
			return &CodeError{Index: i, Code: c}
		}
	}
	for i, c := range b {
		b[i] = Table[c]
	}
	return nil
}

// Unpack extracts n display-code characters starting at bit start of src and decodes them.
func Unpack(src []byte, start uint64, n int) (string, error) {
	if err := unpack.Check(src, start, Width, n); err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if err := unpack.Extract(buf, src, start, Width); err != nil {
		return "", err
	}
	if err := Decode(buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// Encode maps ASCII text to display codes, one code per byte.
// A space encodes as code 45, the blank of the 63-character set.
func Encode(s string) ([]byte, error) {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := reverse[s[i]]
		if c < 0 {
			return nil, fmt.Errorf("dpc: no display code for %q at index %d", s[i], i)
		}
		out[i] = byte(c)
	}
	return out, nil
}

// Word packs up to ten characters into the low-order bits of an integer,
// first character most significant, which is how labels appear in a 60-bit word.
func Word(s string) (uint64, error) {
	if len(s) > 10 {
		return 0, fmt.Errorf("dpc: %q does not fit a 60-bit word", s)
	}
	codes, err := Encode(s)
	if err != nil {
		return 0, err
	}
	var v uint64
	for _, c := range codes {
		v = v<<Width | uint64(c)
	}
	return v, nil
}

// MustWord is like Word but panics on error. It is meant for constant tables.
func MustWord(s string) uint64 {
	v, err := Word(s)
	if err != nil {
		panic(err)
	}
	return v
}
