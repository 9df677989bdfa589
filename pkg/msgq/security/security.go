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

// Package security implements the token derivation and the gates that protect every broker operation.
//
// A destination token is a keyed BLAKE2b-256 MAC of the destination name under the
// process-wide cryptographic key. The derivation is deterministic - same key, same
// name, same token - so tokens issued at destination creation time remain valid
// across process restarts.
package security

import (
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"github.com/oysterpack/msgq.go/pkg/msgq"
	"golang.org/x/crypto/blake2b"
)

// blake2b keys are capped at 64 bytes
const MAX_KEY_SIZE = 64

// TokenService derives security tokens from plaintext under a fixed key
type TokenService struct {
	key []byte
}

// NewTokenService creates a TokenService for the given key.
// Keys longer than MAX_KEY_SIZE bytes are rejected.
func NewTokenService(key string) (*TokenService, error) {
	if strings.TrimSpace(key) == "" {
		return nil, ErrKeyMustNotBeBlank
	}
	if len(key) > MAX_KEY_SIZE {
		return nil, ErrKeyTooLong
	}
	return &TokenService{key: []byte(key)}, nil
}

// Derive returns the hex-encoded keyed MAC of the plaintext
func (a *TokenService) Derive(plaintext string) string {
	mac, err := blake2b.New256(a.key)
	if err != nil {
		// key size was validated at construction time
		panic(err)
	}
	mac.Write([]byte(plaintext))
	return hex.EncodeToString(mac.Sum(nil))
}

// CheckDestinationToken recomputes the token for the destination name and
// compares it to the token presented by the caller.
func (a *TokenService) CheckDestinationToken(dest *msgq.DestinationRef) bool {
	if dest == nil {
		return false
	}
	expected := a.Derive(dest.Name)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(dest.Token)) == 1
}

// AdminGate protects administrative actions with a single process-wide token.
// The configured token is itself a derived value - the caller presents the
// plaintext pass phrase and the gate compares its derivation to the configured token.
type AdminGate struct {
	tokens     *TokenService
	adminToken string
}

// NewAdminGate creates the gate for the configured administrative token
func NewAdminGate(tokens *TokenService, adminToken string) (*AdminGate, error) {
	if strings.TrimSpace(adminToken) == "" {
		return nil, ErrAdminTokenMustNotBeBlank
	}
	return &AdminGate{tokens: tokens, adminToken: adminToken}, nil
}

// Check derives a token from the presented pass phrase and compares it to the
// configured administrative token. No distinction is made between a wrong
// pass phrase and a missing one.
func (a *AdminGate) Check(passPhrase string) bool {
	if passPhrase == "" {
		return false
	}
	derived := a.tokens.Derive(passPhrase)
	return subtle.ConstantTimeCompare([]byte(derived), []byte(a.adminToken)) == 1
}
