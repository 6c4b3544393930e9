package utils

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/paulmatencio/tbm/gLog"
	"github.com/therootcompany/xz"
)

var xzMagic = []byte("\xfd7zXZ\x00")

// ReadArchive reads a whole tape image. Images compressed with xz are
// decompressed on the fly.
func ReadArchive(filename string) ([]byte, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadImage(f)
}

// ReadImage reads r to the end, decompressing it when it starts with the xz magic.
func ReadImage(r io.Reader) ([]byte, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(xzMagic))
	if err != nil && err != io.EOF {
		return nil, err
	}
	if !bytes.Equal(head, xzMagic) {
		return io.ReadAll(br)
	}
	xr, err := xz.NewReader(br, xz.DefaultDictMax)
	if err != nil {
		return nil, fmt.Errorf("xz: %w", err)
	}
	gLog.Trace.Printf("Decompressing xz image")
	return io.ReadAll(xr)
}

// Glob expands a comma separated list of file names or ** patterns.
// Plain names are returned as is, patterns matching nothing are an error.
func Glob(patterns string) ([]string, error) {
	var files []string
	seen := map[string]bool{}
	for _, p := range strings.Split(patterns, ",") {
		if p = strings.TrimSpace(p); p == "" {
			continue
		}
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("%s: %w", p, doublestar.ErrBadPattern)
		}
		matches := []string{p}
		if strings.ContainsAny(p, "*?[{") {
			m, err := doublestar.FilepathGlob(p, doublestar.WithFilesOnly())
			if err != nil {
				return nil, err
			}
			if len(m) == 0 {
				return nil, fmt.Errorf("%s: no matching file", p)
			}
			matches = m
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	return files, nil
}

// ArchiveName returns the base name of an image without its .xz suffix.
func ArchiveName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".xz")
}

// Exist reports whether path can be stat'ed.
func Exist(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// MakeDir creates dir if it does not exist.
func MakeDir(dir string) error {
	if Exist(dir) {
		return nil
	}
	return os.MkdirAll(dir, 0755)
}

func WriteFile(filename string, buf []byte, mode os.FileMode) error {
	var err error
	if err = os.WriteFile(filename, buf, mode); err != nil {
		gLog.Warning.Printf("Err %v Writing %s", err, filename)
	}
	return err
}
