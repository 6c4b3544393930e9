package db

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/paulmatencio/tbm/gLog"
)

const (
	// Ref: https://godoc.org/github.com/dgraph-io/badger#DB.RunValueLogGC
	badgerDiscardRatio = 0.5
	// Default BadgerDB GC interval
	badgerGCInterval = 10 * time.Minute
)

type (
	// DB defines an embedded key/value store database interface.
	DB interface {
		Get(namespace, key []byte) (value []byte, err error)
		Set(namespace, key, value []byte) error
		Delete(namespace, key []byte) error
		Has(namespace, key []byte) (bool, error)
		List(namespace, prefix []byte, fn func(key, value []byte) error) error
		Close() error
	}

	// BadgerDB is a wrapper around a BadgerDB backend database that implements
	// the DB interface.
	BadgerDB struct {
		db         *badger.DB
		ctx        context.Context
		cancelFunc context.CancelFunc
	}
)

// NewBadgerDB returns a new initialized BadgerDB database implementing the DB
// interface. If the database cannot be initialized, an error will be returned.
func NewBadgerDB(dataDir string) (*BadgerDB, error) {

	if err := os.MkdirAll(dataDir, 0774); err != nil {
		return nil, err
	}
	opts := badger.DefaultOptions(dataDir)
	opts.Logger = nil //  disable logging
	opts.SyncWrites = true
	badgerDB, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	bdb := &BadgerDB{
		db: badgerDB,
	}
	bdb.ctx, bdb.cancelFunc = context.WithCancel(context.Background())
	//start Garbage collector with a go routine
	go bdb.runGC()
	return bdb, nil
}

func (bdb *BadgerDB) Get(namespace, key []byte) (value []byte, err error) {

	var (
		item *badger.Item
	)
	err = bdb.db.View(func(txn *badger.Txn) error {
		if item, err = txn.Get(namespaceKey(namespace, key)); err == nil {
			value, err = item.ValueCopy(nil)
		}
		return err
	})
	return value, err
}

func (bdb *BadgerDB) Set(namespace, key, value []byte) error {

	return bdb.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(namespaceKey(namespace, key), value))
	})
}

func (bdb *BadgerDB) Delete(namespace, key []byte) error {

	return bdb.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(namespaceKey(namespace, key))
	})
}

func (bdb *BadgerDB) Has(namespace, key []byte) (ok bool, err error) {
	_, err = bdb.Get(namespace, key)
	switch err {
	case badger.ErrKeyNotFound:
		ok, err = false, nil
	case nil:
		ok, err = true, nil
	}
	return ok, err
}

// Close implements the DB interface. It closes the connection to the underlying
// BadgerDB database as well as invoking the context's cancel function.
func (bdb *BadgerDB) Close() error {
	bdb.cancelFunc()
	return bdb.db.Close()
}

// runGC triggers the garbage collection for the BadgerDB backend database. It
// should be run in a goroutine.
func (bdb *BadgerDB) runGC() {
	ticker := time.NewTicker(badgerGCInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			err := bdb.db.RunValueLogGC(badgerDiscardRatio)
			if err != nil && err != badger.ErrNoRewrite {
				gLog.Warning.Printf("failed to GC BadgerDB: %v", err)
			}
		case <-bdb.ctx.Done():
			return
		}
	}
}

/*
	Prefix scans, keys are passed without their namespace
*/
func (bdb *BadgerDB) List(namespace, prefix []byte, fn func(key, value []byte) error) error {

	return bdb.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		pref := namespaceKey(namespace, prefix)
		skip := len(namespace) + 1
		for it.Seek(pref); it.ValidForPrefix(pref); it.Next() {
			item := it.Item()
			k := item.KeyCopy(nil)[skip:]
			if err := item.Value(func(v []byte) error {
				return fn(k, v)
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

// namespaceKey returns a composite key used for lookup and storage for a
// given namespace and key.
func namespaceKey(namespace, key []byte) []byte {
	prefix := []byte(fmt.Sprintf("%s/", namespace))
	return append(prefix, key...)
}
