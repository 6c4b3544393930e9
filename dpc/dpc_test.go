package dpc

import (
	"errors"
	"strings"
	"testing"

	"github.com/paulmatencio/tbm/unpack"
)

func TestDecode(t *testing.T) {
	b := []byte{0, 1, 26, 27, 36}
	if err := Decode(b); err != nil {
		t.Fatal(err)
	}
	if string(b) != " AZ09" {
		t.Errorf("expected %q got %q", " AZ09", b)
	}
}

func TestTotalMapping(t *testing.T) {
	for c := 0; c < 64; c++ {
		b := []byte{byte(c)}
		if err := Decode(b); err != nil {
			t.Fatalf("code %d: %v", c, err)
		}
		if !strings.ContainsRune(Table, rune(b[0])) {
			t.Errorf("code %d decoded to %q, not in the character set", c, b[0])
		}
	}
	if len(Table) != 64 {
		t.Errorf("table holds %d characters", len(Table))
	}
}

func TestInvalidCode(t *testing.T) {
	b := []byte{1, 2, 64, 3}
	err := Decode(b)
	if !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("expected ErrInvalidCode, got %v", err)
	}
	var ce *CodeError
	if !errors.As(err, &ce) || ce.Index != 2 || ce.Code != 64 {
		t.Errorf("unexpected error detail %#v", ce)
	}
	if b[0] != 1 || b[1] != 2 {
		t.Errorf("buffer modified on failure: %v", b)
	}
}

func TestWord(t *testing.T) {
	for _, tc := range []struct {
		s    string
		want uint64
	}{
		{"VOL1", 0x58F31C},
		{"HDR1", 0x20449C},
		{"HDR2", 0x20449D},
		{"EOF1", 0x14F19C},
		{"NCARSY", 0x3830524D9},
		{"1", 0x1C},
	} {
		got, err := Word(tc.s)
		if err != nil {
			t.Fatal(err)
		}
		if got != tc.want {
			t.Errorf("%s: expected %#x got %#x", tc.s, tc.want, got)
		}
	}
	if _, err := Word("ELEVENCHARS"); err == nil {
		t.Error("expected an error for an 11-character word")
	}
}

func TestEncodeUnpack(t *testing.T) {
	text := "HELLO, WORLD 1979"
	codes, err := Encode(text)
	if err != nil {
		t.Fatal(err)
	}
	if codes[5] != 46 || codes[6] != 45 {
		t.Errorf("punctuation encoded as %d %d", codes[5], codes[6])
	}
	buf := make([]byte, 16)
	if err := unpack.Pack(buf, 3, Width, codes); err != nil {
		t.Fatal(err)
	}
	got, err := Unpack(buf, 3, len(text))
	if err != nil {
		t.Fatal(err)
	}
	if got != text {
		t.Errorf("expected %q got %q", text, got)
	}
	if _, err := Encode("lower"); err == nil {
		t.Error("expected an error for lower case text")
	}
}

func TestUnpackOutOfRange(t *testing.T) {
	buf := make([]byte, 64)
	for _, n := range []int{1 << 62, -1, 86} {
		if _, err := Unpack(buf, 0, n); !errors.Is(err, unpack.ErrOutOfRange) {
			t.Errorf("%d characters: expected ErrOutOfRange, got %v", n, err)
		}
	}
	if s, err := Unpack(buf, 0, 85); err != nil || len(s) != 85 {
		t.Errorf("85 characters: %q %v", s, err)
	}
}
