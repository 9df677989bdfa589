// Copyright (c) 2017 OysterPack, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package store provides the bbolt-backed durable stores used for the destination
// catalog and for persistent queue messages. Each store is a single file with a
// root bucket named after the store - the store's existence is determined by the
// existence of that root bucket.
package store

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	READ_WRITE_MODE os.FileMode = 0600

	CREATED = "created"
	RECORDS = "records"
)

// Database provides a read-write view of one durable store.
// Records are JSON documents keyed by string.
type Database interface {
	// Name returns the store name - also the name of the root bucket
	Name() string

	// Put sets the value for a key. If the key exists then its previous value is overwritten.
	Put(key string, value []byte) error

	// Get returns a copy of the value for the key, or nil if the key does not exist
	Get(key string) ([]byte, error)

	// Delete removes the keys. Missing keys are ignored.
	// All or none are deleted within the same transaction.
	Delete(keys ...string) error

	// ForEach iterates over all records in key order.
	// The value passed to fn is only valid for the duration of the call.
	ForEach(fn func(key string, value []byte) error) error

	// Count returns the number of records
	Count() (int, error)

	// Created returns when the store was created, or an error if it cannot be determined
	Created() (time.Time, error)

	// Close releases all store resources
	Close() error
}

// OpenDatabase opens an existing store in read-write mode.
// The file must contain a root bucket matching the store name.
func OpenDatabase(filePath string, dbName string) (Database, error) {
	db, err := openBolt(filePath, dbName)
	if err != nil {
		return nil, err
	}

	err = db.View(func(tx *bolt.Tx) error {
		if tx.Bucket([]byte(dbName)) == nil {
			return errRootBucketDoesNotExist(dbName)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &database{name: dbName, db: db}, nil
}

// CreateDatabase creates a new store with the specified name at the specified path.
// ifNotExists = true  -> an existing store is simply opened
// ifNotExists = false -> an existing store results in ErrDatabaseAlreadyExists
// Creation is idempotent when ifNotExists is set, which is what store provisioning relies on.
func CreateDatabase(filePath string, dbName string, ifNotExists bool) (Database, error) {
	db, err := openBolt(filePath, dbName)
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		root := tx.Bucket([]byte(dbName))
		if root != nil {
			if !ifNotExists {
				return ErrDatabaseAlreadyExists
			}
			return nil
		}
		root, e := tx.CreateBucket([]byte(dbName))
		if e != nil {
			return e
		}
		if _, e := root.CreateBucket([]byte(RECORDS)); e != nil {
			return e
		}
		created, e := time.Now().MarshalBinary()
		if e != nil {
			return e
		}
		return root.Put([]byte(CREATED), created)
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &database{name: dbName, db: db}, nil
}

func openBolt(filePath string, dbName string) (*bolt.DB, error) {
	filePath = strings.TrimSpace(filePath)
	if filePath == "" {
		return nil, ErrFilePathIsBlank
	}
	if strings.TrimSpace(dbName) == "" {
		return nil, ErrDatabaseNameMustNotBeBlank
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, err
	}
	options := &bolt.Options{
		Timeout: time.Second * 30,
	}
	return bolt.Open(filePath, READ_WRITE_MODE, options)
}

type database struct {
	name string
	db   *bolt.DB
}

func (a *database) Name() string {
	return a.name
}

func (a *database) Put(key string, value []byte) error {
	if key == "" {
		return ErrKeyMustNotBeBlank
	}
	return a.db.Update(func(tx *bolt.Tx) error {
		records := a.records(tx)
		if records == nil {
			return errRootBucketDoesNotExist(a.name)
		}
		return records.Put([]byte(key), value)
	})
}

func (a *database) Get(key string) (value []byte, err error) {
	err = a.db.View(func(tx *bolt.Tx) error {
		records := a.records(tx)
		if records == nil {
			return errRootBucketDoesNotExist(a.name)
		}
		v := records.Get([]byte(key))
		if v != nil {
			value = make([]byte, len(v))
			copy(value, v)
		}
		return nil
	})
	return
}

func (a *database) Delete(keys ...string) error {
	return a.db.Update(func(tx *bolt.Tx) error {
		records := a.records(tx)
		if records == nil {
			return errRootBucketDoesNotExist(a.name)
		}
		for _, key := range keys {
			if err := records.Delete([]byte(key)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (a *database) ForEach(fn func(key string, value []byte) error) error {
	return a.db.View(func(tx *bolt.Tx) error {
		records := a.records(tx)
		if records == nil {
			return errRootBucketDoesNotExist(a.name)
		}
		return records.ForEach(func(k, v []byte) error {
			return fn(string(k), v)
		})
	})
}

func (a *database) Count() (count int, err error) {
	err = a.db.View(func(tx *bolt.Tx) error {
		records := a.records(tx)
		if records == nil {
			return errRootBucketDoesNotExist(a.name)
		}
		count = records.Stats().KeyN
		return nil
	})
	return
}

func (a *database) Created() (created time.Time, err error) {
	err = a.db.View(func(tx *bolt.Tx) error {
		root := tx.Bucket([]byte(a.name))
		if root == nil {
			return errRootBucketDoesNotExist(a.name)
		}
		value := root.Get([]byte(CREATED))
		if value == nil {
			return ErrCreatedNotRecorded
		}
		return created.UnmarshalBinary(value)
	})
	return
}

func (a *database) Close() error {
	return a.db.Close()
}

func (a *database) records(tx *bolt.Tx) *bolt.Bucket {
	root := tx.Bucket([]byte(a.name))
	if root == nil {
		return nil
	}
	return root.Bucket([]byte(RECORDS))
}
