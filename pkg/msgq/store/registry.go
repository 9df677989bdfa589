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

package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Registry tracks open stores by name under a common data directory.
// Stores are provisioned lazily on first reference and reused thereafter -
// at most one Database instance exists per store name.
type Registry struct {
	sync.Mutex
	dir       string
	databases map[string]Database
}

// NewRegistry creates a Registry rooted at the given data directory
func NewRegistry(dir string) *Registry {
	return &Registry{dir: dir, databases: make(map[string]Database)}
}

// Database returns the store with the given name, provisioning it on first reference.
// Provisioning is idempotent - an existing store file is simply opened.
func (a *Registry) Database(name string) (Database, error) {
	a.Lock()
	defer a.Unlock()
	if db := a.databases[name]; db != nil {
		return db, nil
	}
	db, err := CreateDatabase(a.filePath(name), name, true)
	if err != nil {
		return nil, err
	}
	a.databases[name] = db
	return db, nil
}

// DatabaseNames returns the names of all open stores
func (a *Registry) DatabaseNames() []string {
	a.Lock()
	defer a.Unlock()
	names := make([]string, len(a.databases))
	i := 0
	for name := range a.databases {
		names[i] = name
		i++
	}
	return names
}

// Remove closes the named store, drops it from the registry, and deletes its
// file. It is invoked when the owning destination is deleted from the catalog -
// durable messages must not outlive the catalog record, or recreating a queue
// under the same name would revive them.
func (a *Registry) Remove(name string) error {
	a.Lock()
	defer a.Unlock()
	if db := a.databases[name]; db != nil {
		delete(a.databases, name)
		if err := db.Close(); err != nil {
			return err
		}
	}
	if err := os.Remove(a.filePath(name)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// CloseAll closes all open stores
func (a *Registry) CloseAll() {
	a.Lock()
	defer a.Unlock()
	for name, db := range a.databases {
		if err := db.Close(); err != nil {
			logger.Error().Err(err).Str("name", name).Msg("failed to close store")
		}
		delete(a.databases, name)
	}
}

func (a *Registry) filePath(name string) string {
	// store names come from destination names - keep the file name safe
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, name)
	return filepath.Join(a.dir, fmt.Sprintf("%s.db", safe))
}
