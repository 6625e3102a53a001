// Package changelog journals catalog snapshot revisions in a local
// bbolt file so the admin UI can show recent store activity.
package changelog

import (
	"encoding/binary"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.etcd.io/bbolt"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var bucketRevisions = []byte("revisions")

type Entry struct {
	Revision  uint64 `json:"revision"`
	Timestamp int64  `json:"timestamp"` // epoch milliseconds
	Products  int    `json:"products"`
}

type Journal struct {
	db *bbolt.DB
}

func Open(path string) (*Journal, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketRevisions)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Journal{db: db}, nil
}

// Append records one snapshot revision. Keys are big-endian revision
// numbers so cursor order is chronological.
func (j *Journal) Append(revision uint64, products int) error {
	entry := Entry{
		Revision:  revision,
		Timestamp: time.Now().UnixMilli(),
		Products:  products,
	}
	value, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return j.db.Update(func(tx *bbolt.Tx) error {
		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, revision)
		return tx.Bucket(bucketRevisions).Put(key, value)
	})
}

// Recent returns up to n entries, newest first.
func (j *Journal) Recent(n int) ([]Entry, error) {
	if n <= 0 {
		n = 20
	}
	entries := make([]Entry, 0, n)
	err := j.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketRevisions).Cursor()
		for k, v := c.Last(); k != nil && len(entries) < n; k, v = c.Prev() {
			var e Entry
			if err := json.Unmarshal(v, &e); err != nil {
				continue
			}
			entries = append(entries, e)
		}
		return nil
	})
	return entries, err
}

func (j *Journal) Close() error {
	return j.db.Close()
}
