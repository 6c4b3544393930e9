// Package unpack reads and writes fixed-width bit fields packed MSB-first in a byte buffer.
//
// Bit 0 is the most significant bit of byte 0. A field of width w starting at
// bit b covers bits b..b+w-1 and is materialized right-aligned in its unit,
// upper bits zero.
package unpack

import (
	"errors"
	"fmt"
	"unsafe"
)

var ErrOutOfRange = errors.New("bit range outside of buffer")

// Unit is a destination storage unit for extracted fields.
type Unit interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

type RangeError struct {
	Start uint64 // first bit requested
	Width uint   // width of each field
	Count int    // number of fields
	Len   int    // buffer length in bytes
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%v: %d fields of %d bits at bit %d, buffer holds %d bits",
		ErrOutOfRange, e.Count, e.Width, e.Start, e.Len*8)
}

func (e *RangeError) Unwrap() error { return ErrOutOfRange }

// UnitBits returns the width in bits of the unit type T.
func UnitBits[T Unit]() uint {
	var u T
	return uint(unsafe.Sizeof(u)) * 8
}

// Extract fills dst with len(dst) consecutive fields of width bits each, starting at bit start of src.
//
// width must be between 1 and the bit size of T. If the fields do not all lie inside src,
// Extract returns a *RangeError and dst is left untouched.
func Extract[T Unit](dst []T, src []byte, start uint64, width uint) error {
	if width == 0 || width > UnitBits[T]() {
		return fmt.Errorf("unpack: field width %d does not fit a %d-bit unit", width, UnitBits[T]())
	}
	if err := Check(src, start, width, len(dst)); err != nil {
		return err
	}
	for i := range dst {
		dst[i] = T(field(src, start+uint64(i)*uint64(width), width))
	}
	return nil
}

// Field extracts a single field of up to 64 bits.
func Field(src []byte, start uint64, width uint) (uint64, error) {
	var v [1]uint64
	err := Extract(v[:], src, start, width)
	return v[0], err
}

// Bytes extracts count consecutive 8-bit units starting at an arbitrary bit offset.
func Bytes(src []byte, start uint64, count int) ([]byte, error) {
	if err := Check(src, start, 8, count); err != nil {
		return nil, err
	}
	out := make([]byte, count)
	if err := Extract(out, src, start, 8); err != nil {
		return nil, err
	}
	return out, nil
}

// Pack is the inverse of Extract: it stores the low width bits of each value of vals
// into dst starting at bit start. Bits of dst outside the written fields are preserved.
func Pack[T Unit](dst []byte, start uint64, width uint, vals []T) error {
	if width == 0 || width > 64 {
		return fmt.Errorf("unpack: field width %d out of range", width)
	}
	if err := Check(dst, start, width, len(vals)); err != nil {
		return err
	}
	for i, v := range vals {
		put(dst, start+uint64(i)*uint64(width), width, uint64(v))
	}
	return nil
}

// Check returns a *RangeError unless count fields of width bits starting at
// bit start all lie inside buf. A zero count always fits.
func Check(buf []byte, start uint64, width uint, count int) error {
	if count == 0 {
		return nil
	}
	total := uint64(len(buf)) * 8
	if count < 0 || width == 0 || start > total || uint64(count) > (total-start)/uint64(width) {
		return &RangeError{Start: start, Width: width, Count: count, Len: len(buf)}
	}
	return nil
}

// field accumulates the bytes overlapping [start, start+width) into a 64-bit value.
func field(src []byte, start uint64, width uint) uint64 {
	var v uint64
	pos := start / 8
	off := uint(start % 8)
	for width > 0 {
		take := 8 - off
		if take > width {
			take = width
		}
		b := uint64(src[pos]>>(8-off-take)) & (1<<take - 1)
		v = v<<take | b
		width -= take
		off += take
		if off == 8 {
			pos++
			off = 0
		}
	}
	return v
}

func put(dst []byte, start uint64, width uint, v uint64) {
	pos := start / 8
	off := uint(start % 8)
	for width > 0 {
		take := 8 - off
		if take > width {
			take = width
		}
		width -= take
		shift := 8 - off - take
		mask := byte(1<<take-1) << shift
		bits := byte(v>>width) << shift
		dst[pos] = dst[pos]&^mask | bits&mask
		off += take
		if off == 8 {
			pos++
			off = 0
		}
	}
}
