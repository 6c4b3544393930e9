package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/paulmatencio/tbm/gLog"
	"github.com/paulmatencio/tbm/tbm/db"
	"github.com/paulmatencio/tbm/tbm/lib"
	"github.com/paulmatencio/tbm/utils"
)

// recovered is one file extracted from an archive, ready to be written out.
type recovered struct {
	File   *lib.File
	Status *db.FileStatus
	Data   []byte
}

// Key returns the name of the file relative to its archive.
func (r *recovered) Key() string {
	name := strings.TrimSpace(r.Status.DataSetID)
	if name == "" {
		name = "UNNAMED"
	}
	return fmt.Sprintf("%s/%04d.%s", r.Status.Archive, r.Status.Index, name)
}

// writer stores one recovered file and returns its destination.
type writer func(r *recovered) (string, error)

type converter struct {
	text  bool
	store db.DB // nil when no status is kept
	write writer
}

// convert recovers every file of the archive at path and hands it to c.write.
// It returns the number of files written. Files recovered before a corruption
// are written before the corruption is reported.
func (c *converter) convert(path string) (int, error) {
	var (
		name   = utils.ArchiveName(path)
		status = &db.ArchiveStatus{Name: name, Path: path, State: db.StateRunning, Start: time.Now()}
		n      int
	)
	c.putArchive(status)

	buf, err := utils.ReadArchive(path)
	if err != nil {
		return 0, c.fail(status, err)
	}
	a, err := lib.Open(buf, options())
	if a == nil {
		return 0, c.fail(status, err)
	}
	status.Catalog = len(a.Catalog)
	for _, f := range a.Files {
		r, ferr := c.extract(a, name, f)
		if ferr == nil {
			r.Status.Destination, ferr = c.write(r)
		}
		if ferr != nil {
			gLog.Error.Printf("Archive %s file %d %s: %s", name, f.Index, f.Name(), describe(ferr))
			if err == nil {
				err = ferr
			}
			continue
		}
		n++
		gLog.Trace.Printf("Archive %s file %d: %d bytes to %s", name, f.Index, r.Status.Size, r.Status.Destination)
		if c.store != nil {
			if err := db.PutFile(c.store, r.Status); err != nil {
				gLog.Warning.Printf("Error %v recording %s", err, r.Key())
			}
		}
	}
	status.Files = n
	if err != nil {
		return n, c.fail(status, err)
	}
	status.State = db.StateDone
	status.End = time.Now()
	c.putArchive(status)
	gLog.Info.Printf("Archive %s: %d files converted in %s", name, n, status.End.Sub(status.Start))
	return n, nil
}

func (c *converter) extract(a *lib.Archive, name string, f *lib.File) (*recovered, error) {
	var (
		data []byte
		err  error
	)
	if c.text {
		data, err = a.ExtractText(f)
	} else {
		data, err = a.Extract(f)
	}
	if err != nil {
		return nil, err
	}
	return &recovered{
		File: f,
		Data: data,
		Status: &db.FileStatus{
			Archive:   name,
			Index:     f.Index,
			DataSetID: f.Name(),
			Size:      int64(len(data)),
			Text:      c.text,
			XXHash:    utils.Checksum(data),
			Time:      time.Now(),
		},
	}, nil
}

func (c *converter) fail(status *db.ArchiveStatus, err error) error {
	status.State = db.StateFailed
	status.Error = describe(err)
	status.End = time.Now()
	c.putArchive(status)
	return err
}

func (c *converter) putArchive(status *db.ArchiveStatus) {
	if c.store == nil {
		return
	}
	if err := db.PutArchive(c.store, status); err != nil {
		gLog.Warning.Printf("Error %v recording archive %s", err, status.Name)
	}
}

// openStore opens the status database in dir, falling back to db.directory.
// An empty directory means no status is kept.
func openStore(dir, fallback string) (db.DB, error) {
	if dir == "" {
		dir = fallback
	}
	if dir == "" {
		return nil, nil
	}
	bdb, err := db.NewBadgerDB(dir)
	if err != nil {
		return nil, err
	}
	return bdb, nil
}
