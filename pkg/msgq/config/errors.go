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

package config

import "errors"

var (
	// ErrMaxQueueLengthMustBePositive maxQueueLength must be > 0
	ErrMaxQueueLengthMustBePositive = errors.New("maxQueueLength must be positive")
	// ErrCheckIntervalMustBePositive checkInterval must be > 0
	ErrCheckIntervalMustBePositive = errors.New("checkInterval must be positive")
	// ErrDefaultExpirationMustBePositive defaultExpirationTimeout must be > 0
	ErrDefaultExpirationMustBePositive = errors.New("defaultExpirationTimeout must be positive")
	// ErrCryptographicKeyMustNotBeBlank the cryptographic key is required
	ErrCryptographicKeyMustNotBeBlank = errors.New("cryptographicKey must not be blank")
	// ErrAdministrativeTokenMustNotBeBlank the administrative token is required
	ErrAdministrativeTokenMustNotBeBlank = errors.New("administrativeToken must not be blank")
)
