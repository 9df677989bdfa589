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

// Package catalog provides the durable catalog of destinations.
// The engine and the administration server consume the Catalog contract -
// they never touch the underlying store directly.
package catalog

import (
	"github.com/oysterpack/msgq.go/pkg/msgq"
)

// Filter selects destinations by equality on type and name.
// Zero values match any - the conjunction of the set fields applies.
type Filter struct {
	Type msgq.DestinationType
	Name string
}

// Matches reports whether the destination satisfies the filter
func (a Filter) Matches(dest *msgq.Destination) bool {
	if a.Type != "" && dest.Type != a.Type {
		return false
	}
	if a.Name != "" && dest.Name != a.Name {
		return false
	}
	return true
}

// Catalog is the destination catalog contract.
// Destination names are unique within their type.
type Catalog interface {
	// Query returns all destinations matching the filter
	Query(filter Filter) ([]*msgq.Destination, error)

	// QueryOne returns the single destination matching the filter, or nil if there is no match
	QueryOne(filter Filter) (*msgq.Destination, error)

	// Insert adds a new destination record and assigns its ID.
	// ErrDestinationAlreadyExists is returned on a type+name collision.
	Insert(dest *msgq.Destination) (*msgq.Destination, error)

	// Update replaces an existing destination record.
	// ErrDestinationNotFound is returned if no record exists for the destination's type+name.
	Update(dest *msgq.Destination) error

	// Delete removes an existing destination record.
	// ErrDestinationNotFound is returned if no record exists for the destination's type+name.
	Delete(dest *msgq.Destination) error
}
