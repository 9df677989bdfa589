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

package msgq

import "errors"

var (
	// ErrInvalidMessageStructure indicates the message failed structural validation
	ErrInvalidMessageStructure = errors.New("invalid message structure")
	// ErrUnknownDestinationType indicates the destination type is neither queue nor topic
	ErrUnknownDestinationType = errors.New("Destination type must be queue or topic")
	// ErrInvalidSubscriber indicates the subscriber is missing its name or endpoint
	ErrInvalidSubscriber = errors.New("Subscriber must have a name and an endpoint")
	// ErrDestinationNameMustNotBeBlank indicates a blank destination name
	ErrDestinationNameMustNotBeBlank = errors.New("Destination name must not be blank")
)
