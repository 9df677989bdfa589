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
	"errors"
	"fmt"
)

var (
	// ErrDestinationIsNil a nil destination was passed to a catalog operation
	ErrDestinationIsNil = errors.New("Destination is nil")
	// ErrDestinationAlreadyExists a destination with the same type and name already exists
	ErrDestinationAlreadyExists = errors.New("Destination already exists")
	// ErrDestinationNotFound no destination exists for the given type and name
	ErrDestinationNotFound = errors.New("Destination was not found in catalog")
)

func errCorruptRecord(key string, cause error) error {
	return fmt.Errorf("Corrupt catalog record : %s : %v", key, cause)
}
