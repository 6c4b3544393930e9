package utils

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Checksum returns the xxhash64 of b as 16 hexadecimal digits.
func Checksum(b []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(b))
}
