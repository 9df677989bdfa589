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
	"errors"
	"fmt"
)

var (
	// ErrFilePathIsBlank the store file path is required
	ErrFilePathIsBlank = errors.New("Path must not be blank")
	// ErrDatabaseNameMustNotBeBlank the store name is required
	ErrDatabaseNameMustNotBeBlank = errors.New("Database name must not be blank")
	// ErrDatabaseAlreadyExists the store already exists and ifNotExists was not set
	ErrDatabaseAlreadyExists = errors.New("Database already exists")
	// ErrKeyMustNotBeBlank record keys must not be blank
	ErrKeyMustNotBeBlank = errors.New("Key must not be blank")
	// ErrCreatedNotRecorded the store is missing its created timestamp
	ErrCreatedNotRecorded = errors.New("Database created timestamp was not recorded")
)

func errRootBucketDoesNotExist(dbName string) error {
	return fmt.Errorf("Root database bucket does not exist : %s", dbName)
}
