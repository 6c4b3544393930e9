package lib

import (
	"github.com/paulmatencio/tbm/unpack"
)

// Shift is a point where two images diverge: from nibble At of the first
// image on, the second image is Advance nibbles further ahead than before.
type Shift struct {
	At      int
	Advance int
}

// Compare unpacks a and b as 4-bit nibbles and locates the runs of extra
// nibbles in b, the longer image, that have no counterpart in a.
func Compare(a, b []byte) ([]Shift, error) {
	na := make([]uint8, len(a)*2)
	nb := make([]uint8, len(b)*2)
	if err := unpack.Extract(na, a, 0, 4); err != nil {
		return nil, err
	}
	if err := unpack.Extract(nb, b, 0, 4); err != nil {
		return nil, err
	}
	var (
		shifts []Shift
		total  int
		i, j   int
	)
	for i < len(na) && j < len(nb) {
		if na[i] != nb[j] {
			for j < len(nb) && na[i] != nb[j] {
				j++
			}
			shifts = append(shifts, Shift{At: i, Advance: j - i - total})
			total = j - i
			if j == len(nb) {
				break
			}
		}
		i++
		j++
	}
	return shifts, nil
}
