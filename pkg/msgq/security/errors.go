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

package security

import "errors"

var (
	// ErrKeyMustNotBeBlank the cryptographic key is required
	ErrKeyMustNotBeBlank = errors.New("Cryptographic key must not be blank")
	// ErrKeyTooLong the cryptographic key exceeds the keyed MAC's key size limit
	ErrKeyTooLong = errors.New("Cryptographic key must not exceed 64 bytes")
	// ErrAdminTokenMustNotBeBlank the administrative token is required
	ErrAdminTokenMustNotBeBlank = errors.New("Administrative token must not be blank")
)
