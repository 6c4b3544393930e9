package db

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v3"
)

// Namespaces of the conversion status store.
const (
	ArchiveNS = "archive"
	FileNS    = "file"
)

const (
	StateRunning = "running"
	StateDone    = "done"
	StateFailed  = "failed"
)

// ArchiveStatus records the conversion of one tape image.
type ArchiveStatus struct {
	Name    string    `json:"name"`
	Path    string    `json:"path"`
	State   string    `json:"state"`
	Files   int       `json:"files"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end,omitempty"`
	Error   string    `json:"error,omitempty"`
	Catalog int       `json:"catalog"`
}

// FileStatus records one file written out of a tape image.
type FileStatus struct {
	Archive     string    `json:"archive"`
	Index       int       `json:"index"`
	DataSetID   string    `json:"dataSetId"`
	Size        int64     `json:"size"`
	Text        bool      `json:"text"`
	XXHash      string    `json:"xxhash"`
	Destination string    `json:"destination"`
	Time        time.Time `json:"time"`
}

func FileKey(archive string, index int) string {
	return fmt.Sprintf("%s#%04d", archive, index)
}

func PutArchive(d DB, s *ArchiveStatus) error {
	return put(d, ArchiveNS, s.Name, s)
}

// GetArchive returns nil, nil when the archive was never converted.
func GetArchive(d DB, name string) (*ArchiveStatus, error) {
	var s ArchiveStatus
	if ok, err := get(d, ArchiveNS, name, &s); !ok || err != nil {
		return nil, err
	}
	return &s, nil
}

func PutFile(d DB, s *FileStatus) error {
	return put(d, FileNS, FileKey(s.Archive, s.Index), s)
}

// GetFile returns nil, nil when the file was never written.
func GetFile(d DB, archive string, index int) (*FileStatus, error) {
	var s FileStatus
	if ok, err := get(d, FileNS, FileKey(archive, index), &s); !ok || err != nil {
		return nil, err
	}
	return &s, nil
}

func ListArchives(d DB, prefix string, fn func(*ArchiveStatus) error) error {
	return d.List([]byte(ArchiveNS), []byte(prefix), func(k, v []byte) error {
		var s ArchiveStatus
		if err := json.Unmarshal(v, &s); err != nil {
			return fmt.Errorf("archive %s: %w", k, err)
		}
		return fn(&s)
	})
}

func ListFiles(d DB, prefix string, fn func(*FileStatus) error) error {
	return d.List([]byte(FileNS), []byte(prefix), func(k, v []byte) error {
		var s FileStatus
		if err := json.Unmarshal(v, &s); err != nil {
			return fmt.Errorf("file %s: %w", k, err)
		}
		return fn(&s)
	})
}

func put(d DB, ns, key string, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return d.Set([]byte(ns), []byte(key), b)
}

func get(d DB, ns, key string, v interface{}) (bool, error) {
	b, err := d.Get([]byte(ns), []byte(key))
	if err == badger.ErrKeyNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(b, v)
}
