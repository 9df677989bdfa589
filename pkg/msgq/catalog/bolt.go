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

package catalog

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nats-io/nuid"
	"github.com/oysterpack/msgq.go/pkg/msgq"
	"github.com/oysterpack/msgq.go/pkg/msgq/store"
)

// DATABASE_NAME is the name of the catalog's backing store
const DATABASE_NAME = "catalog"

// NewBoltCatalog creates a Catalog backed by the given store.
// Records are stored as JSON documents keyed by "{type}/{name}".
func NewBoltCatalog(db store.Database) Catalog {
	return &boltCatalog{db: db}
}

type boltCatalog struct {
	db store.Database
}

func recordKey(dest *msgq.Destination) string {
	return fmt.Sprintf("%s/%s", dest.Type, dest.Name)
}

func (a *boltCatalog) Query(filter Filter) ([]*msgq.Destination, error) {
	destinations := []*msgq.Destination{}
	err := a.db.ForEach(func(key string, value []byte) error {
		dest := &msgq.Destination{}
		if e := json.Unmarshal(value, dest); e != nil {
			return errCorruptRecord(key, e)
		}
		if filter.Matches(dest) {
			destinations = append(destinations, dest)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return destinations, nil
}

func (a *boltCatalog) QueryOne(filter Filter) (*msgq.Destination, error) {
	destinations, err := a.Query(filter)
	if err != nil {
		return nil, err
	}
	if len(destinations) != 1 {
		return nil, nil
	}
	return destinations[0], nil
}

func (a *boltCatalog) Insert(dest *msgq.Destination) (*msgq.Destination, error) {
	if err := validate(dest); err != nil {
		return nil, err
	}
	existing, err := a.db.Get(recordKey(dest))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDestinationAlreadyExists
	}

	dest.ID = nuid.Next()
	value, err := json.Marshal(dest)
	if err != nil {
		return nil, err
	}
	if err := a.db.Put(recordKey(dest), value); err != nil {
		return nil, err
	}
	logger.Debug().Str("key", recordKey(dest)).Str("id", dest.ID).Msg("destination inserted")
	return dest, nil
}

func (a *boltCatalog) Update(dest *msgq.Destination) error {
	if err := validate(dest); err != nil {
		return err
	}
	existing, err := a.db.Get(recordKey(dest))
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrDestinationNotFound
	}

	value, err := json.Marshal(dest)
	if err != nil {
		return err
	}
	return a.db.Put(recordKey(dest), value)
}

func (a *boltCatalog) Delete(dest *msgq.Destination) error {
	if err := validate(dest); err != nil {
		return err
	}
	existing, err := a.db.Get(recordKey(dest))
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrDestinationNotFound
	}
	return a.db.Delete(recordKey(dest))
}

func validate(dest *msgq.Destination) error {
	if dest == nil {
		return ErrDestinationIsNil
	}
	if err := dest.Type.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(dest.Name) == "" {
		return msgq.ErrDestinationNameMustNotBeBlank
	}
	return nil
}
