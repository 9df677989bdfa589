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

package logging

import (
	"reflect"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// logger fields
const (
	PACKAGE = "pkg"
	TYPE    = "type"
	FUNC    = "func"
	NAME    = "name"
	EVENT   = "event"
	ID      = "id"

	DESTINATION = "dest"
	QUEUE       = "queue"
	TOPIC       = "topic"
	SUBSCRIBER  = "sub"
	MESSAGE_ID  = "msg_id"
)

// Event is a structured log event code, logged under the EVENT field
type Event string

// Log adds the event code to the zerolog event
func (a Event) Log(event *zerolog.Event) *zerolog.Event {
	return event.Str(EVENT, string(a))
}

// NewPackageLogger returns a new logger with pkg={pkg}
// where {pkg} is o's package path
// o must be a struct - the pattern is to use an empty struct
func NewPackageLogger(o interface{}) zerolog.Logger {
	t := reflect.TypeOf(o)
	if t.Kind() != reflect.Struct {
		panic("NewPackageLogger can only be created for a struct")
	}
	return log.With().Str(PACKAGE, t.PkgPath()).Logger()
}

// NewTypeLogger returns a new logger with pkg={pkg}, type={type}
// where {pkg} is o's package path and {type} is o's type name
func NewTypeLogger(o interface{}) zerolog.Logger {
	t := reflect.TypeOf(o)
	if t.Kind() != reflect.Struct {
		panic("NewTypeLogger can only be created for a struct")
	}
	return log.With().
		Str(PACKAGE, t.PkgPath()).
		Str(TYPE, t.Name()).
		Logger()
}

// SetGlobalLevel sets the global zerolog level
func SetGlobalLevel(level string) error {
	l, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(l)
	return nil
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
}
