package gLog

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func TestInitLogFiles(t *testing.T) {
	dir := t.TempDir()
	files := InitLog("tbm", 3, dir)
	defer Init(io.Discard, io.Discard, io.Discard, io.Discard, io.Discard, io.Discard)
	if len(files) != 4 {
		t.Fatalf("expected error, fatal, warning and info files, got %d", len(files))
	}
	Info.Printf("converted %d files", 2)
	Trace.Printf("not written")
	for _, f := range files {
		f.Close()
	}

	pdir := filepath.Join(dir, "pid_"+strconv.Itoa(os.Getpid()))
	b, err := os.ReadFile(filepath.Join(pdir, "tbm_info.log"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "INFO: ") || !strings.Contains(string(b), "converted 2 files") {
		t.Errorf("info log %q", b)
	}
	if _, err := os.Stat(filepath.Join(pdir, "tbm_trace.log")); !os.IsNotExist(err) {
		t.Errorf("trace log must not exist at level 3, got %v", err)
	}
}

func TestInitLogTerminal(t *testing.T) {
	defer Init(io.Discard, io.Discard, io.Discard, io.Discard, io.Discard, io.Discard)
	if files := InitLog("tbm", 1, "terminal"); files != nil {
		t.Errorf("terminal output opens no file, got %d", len(files))
	}
	if Info.Writer() != io.Discard || Error.Writer() != os.Stderr {
		t.Error("level 1 keeps errors only")
	}
}
