package utils

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/iotest"
)

// xz stream of "VOL1TAPE01" with a CRC32 check
const xzImage = "\xfd\x37\x7a\x58\x5a\x00\x00\x01\x69\x22\xde\x36\x02\x00\x21\x01\x16\x00\x00\x00\x74\x2f\xe5\xa3\x01\x00\x09\x56\x4f\x4c\x31\x54\x41\x50\x45\x30\x31\x00\x00\x00\xb3\x66\xc5\xe7\x00\x01\x1e\x0a\xea\x63\x12\x14\x90\x42\x99\x0d\x01\x00\x00\x00\x00\x01\x59\x5a"

func TestReadImage(t *testing.T) {
	for _, tc := range []struct {
		name, in, want string
	}{
		{"plain", "VOL1TAPE01", "VOL1TAPE01"},
		{"short", "\xfd7", "\xfd7"},
		{"empty", "", ""},
		{"xz", xzImage, "VOL1TAPE01"},
	} {
		got, err := ReadImage(bytes.NewReader([]byte(tc.in)))
		if err != nil {
			t.Errorf("%s: %v", tc.name, err)
			continue
		}
		if string(got) != tc.want {
			t.Errorf("%s: got %q want %q", tc.name, got, tc.want)
		}
	}
}

func TestReadImageError(t *testing.T) {
	boom := errors.New("boom")
	if _, err := ReadImage(iotest.ErrReader(boom)); !errors.Is(err, boom) {
		t.Errorf("expected the reader error, got %v", err)
	}
}

func TestReadArchive(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "T00001.tbm.xz")
	if err := os.WriteFile(path, []byte(xzImage), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := ReadArchive(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "VOL1TAPE01" {
		t.Errorf("got %q", got)
	}
	if ArchiveName(path) != "T00001.tbm" {
		t.Errorf("archive name %q", ArchiveName(path))
	}
	if _, err := ReadArchive(filepath.Join(dir, "missing")); !os.IsNotExist(err) {
		t.Errorf("expected a missing file, got %v", err)
	}
}

func TestGlob(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a/T1.tbm", "a/b/T2.tbm", "a/b/notes.txt", "c/T3.tbm"} {
		path := filepath.Join(dir, name)
		if err := MakeDir(filepath.Dir(path)); err != nil {
			t.Fatal(err)
		}
		if err := WriteFile(path, nil, 0644); err != nil {
			t.Fatal(err)
		}
	}

	files, err := Glob(filepath.Join(dir, "a/**/*.tbm") + "," + filepath.Join(dir, "c/T3.tbm") + "," + filepath.Join(dir, "a/T1.tbm"))
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]bool{
		filepath.Join(dir, "a/T1.tbm"):   true,
		filepath.Join(dir, "a/b/T2.tbm"): true,
		filepath.Join(dir, "c/T3.tbm"):   true,
	}
	if len(files) != len(want) {
		t.Fatalf("got %q", files)
	}
	for _, f := range files {
		if !want[f] {
			t.Errorf("unexpected match %q", f)
		}
	}

	if _, err := Glob(filepath.Join(dir, "z/*.tbm")); err == nil {
		t.Error("expected an error for a pattern without match")
	}
	if _, err := Glob(filepath.Join(dir, "[")); err == nil {
		t.Error("expected an error for a bad pattern")
	}
	if !Exist(filepath.Join(dir, "a")) || Exist(filepath.Join(dir, "b")) {
		t.Error("Exist")
	}
}

func TestChecksum(t *testing.T) {
	if got := Checksum(nil); got != "ef46db3751d8e999" {
		t.Errorf("checksum of nothing: %s", got)
	}
	if Checksum([]byte("HDR1")) == Checksum([]byte("EOF1")) {
		t.Error("distinct inputs collide")
	}
	if len(Checksum([]byte("VOL1"))) != 16 {
		t.Error("checksum width")
	}
}

func TestMakeDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "T00001.tbm")
	if err := MakeDir(dir); err != nil || !Exist(dir) {
		t.Fatalf("MakeDir: %v", err)
	}
	if err := MakeDir(dir); err != nil {
		t.Errorf("existing directory: %v", err)
	}
	file := filepath.Join(dir, "0000.NCARSYSTEMHD00001")
	if err := WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := MakeDir(filepath.Join(file, "sub")); err == nil {
		t.Error("expected an error below a regular file")
	}
}
