package db

import (
	"testing"
	"time"
)

func openTest(t *testing.T) *BadgerDB {
	t.Helper()
	bdb, err := NewBadgerDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { bdb.Close() })
	return bdb
}

func TestSetGetHas(t *testing.T) {
	bdb := openTest(t)
	ns := []byte("test")
	if ok, err := bdb.Has(ns, []byte("k")); ok || err != nil {
		t.Fatalf("empty store: has=%v err=%v", ok, err)
	}
	if err := bdb.Set(ns, []byte("k"), []byte("v")); err != nil {
		t.Fatal(err)
	}
	v, err := bdb.Get(ns, []byte("k"))
	if err != nil || string(v) != "v" {
		t.Fatalf("get: %q %v", v, err)
	}
	if ok, _ := bdb.Has([]byte("other"), []byte("k")); ok {
		t.Error("namespaces must not overlap")
	}
	if err := bdb.Delete(ns, []byte("k")); err != nil {
		t.Fatal(err)
	}
	if ok, _ := bdb.Has(ns, []byte("k")); ok {
		t.Error("key still present after delete")
	}
}

func TestFileStatus(t *testing.T) {
	bdb := openTest(t)
	now := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 3; i++ {
		if err := PutFile(bdb, &FileStatus{Archive: "tape1", Index: i, Size: int64(i * 8), Time: now}); err != nil {
			t.Fatal(err)
		}
	}
	if err := PutFile(bdb, &FileStatus{Archive: "tape2", Index: 0}); err != nil {
		t.Fatal(err)
	}

	s, err := GetFile(bdb, "tape1", 2)
	if err != nil || s == nil || s.Size != 16 || !s.Time.Equal(now) {
		t.Fatalf("get: %+v %v", s, err)
	}
	if s, err := GetFile(bdb, "tape1", 9); s != nil || err != nil {
		t.Errorf("missing file: %+v %v", s, err)
	}

	var indexes []int
	err = ListFiles(bdb, "tape1#", func(s *FileStatus) error {
		indexes = append(indexes, s.Index)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(indexes) != 3 || indexes[0] != 0 || indexes[2] != 2 {
		t.Errorf("listed %v", indexes)
	}
}

func TestArchiveStatus(t *testing.T) {
	bdb := openTest(t)
	if s, err := GetArchive(bdb, "tape1"); s != nil || err != nil {
		t.Fatalf("unknown archive: %+v %v", s, err)
	}
	if err := PutArchive(bdb, &ArchiveStatus{Name: "tape1", Path: "/data/tape1.xz", State: StateDone, Files: 2}); err != nil {
		t.Fatal(err)
	}
	s, err := GetArchive(bdb, "tape1")
	if err != nil || s.State != StateDone || s.Files != 2 {
		t.Errorf("get: %+v %v", s, err)
	}
	n := 0
	if err := ListArchives(bdb, "", func(*ArchiveStatus) error { n++; return nil }); err != nil || n != 1 {
		t.Errorf("listed %d archives, err %v", n, err)
	}
}
