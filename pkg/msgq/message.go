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

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TIMESTAMP_FORMAT is the format used for message created / expire timestamps
const TIMESTAMP_FORMAT = "2006/01/02 15:04:05"

// DestinationType partitions the destination namespace - names are unique per type
type DestinationType string

// destination types
const (
	QUEUE DestinationType = "queue"
	TOPIC DestinationType = "topic"
)

// Validate checks that the destination type is known
func (a DestinationType) Validate() error {
	switch a {
	case QUEUE, TOPIC:
		return nil
	default:
		return ErrUnknownDestinationType
	}
}

// Destination is a catalog record describing a queue or a topic.
// Token is derived deterministically from Name and the process-wide cryptographic key -
// it is recomputed on demand, never generated independently of that derivation.
type Destination struct {
	ID          string          `json:"id,omitempty"`
	Type        DestinationType `json:"type"`
	Name        string          `json:"name"`
	Token       string          `json:"token,omitempty"`
	Persistent  bool            `json:"persistent,omitempty"`
	Subscribers []*Subscriber   `json:"subscribers,omitempty"`
}

// Subscriber is a topic push target. Name is unique within the owning topic.
type Subscriber struct {
	Name     string `json:"name"`
	Endpoint string `json:"endpoint"`
}

// Validate checks that the subscriber has a name and an endpoint
func (a *Subscriber) Validate() error {
	if a == nil || strings.TrimSpace(a.Name) == "" || strings.TrimSpace(a.Endpoint) == "" {
		return ErrInvalidSubscriber
	}
	return nil
}

// DestinationRef is the destination reference presented by a client on publish / pickup requests
type DestinationRef struct {
	Type  DestinationType `json:"type"`
	Name  string          `json:"name"`
	Token string          `json:"token"`
}

// MessageRequest is the JSON body of a publish or pickup request.
// UUID is only used on pickup, to pick a specific message instead of the FIFO head.
type MessageRequest struct {
	Destination *DestinationRef `json:"destination"`
	UUID        string          `json:"uuid,omitempty"`
	MaxAge      int64           `json:"maxAge,omitempty"`
	Expire      string          `json:"expire,omitempty"`
	Content     json.RawMessage `json:"content,omitempty"`
}

// Validate checks the structural preconditions :
// a destination with type, name and token must be present, and
// if either expiry field is present then content must be present as well.
func (a *MessageRequest) Validate() error {
	if a == nil || a.Destination == nil {
		return ErrInvalidMessageStructure
	}
	dest := a.Destination
	if dest.Type == "" || dest.Name == "" || dest.Token == "" {
		return ErrInvalidMessageStructure
	}
	if (a.MaxAge != 0 || a.Expire != "") && len(a.Content) == 0 {
		return ErrInvalidMessageStructure
	}
	return nil
}

// Message is a published message. Messages are never mutated in place -
// they are created at publish time and removed at pickup or eviction time.
type Message struct {
	UUID    string          `json:"uuid"`
	Created string          `json:"created"`
	MaxAge  int64           `json:"maxAge,omitempty"`
	Expire  string          `json:"expire,omitempty"`
	Content json.RawMessage `json:"content,omitempty"`
}

// NewMessage creates the stored message for a publish request :
// a fresh uuid is assigned and created is stamped with now.
func NewMessage(request *MessageRequest, now time.Time) *Message {
	return &Message{
		UUID:    uuid.NewString(),
		Created: now.Format(TIMESTAMP_FORMAT),
		MaxAge:  request.MaxAge,
		Expire:  request.Expire,
		Content: request.Content,
	}
}

// CreatedTime parses the created timestamp
func (a *Message) CreatedTime() (time.Time, error) {
	return time.Parse(TIMESTAMP_FORMAT, a.Created)
}

// Expired reports whether the message is eligible for eviction at the given time.
// Relative expiry triggers when now - created > maxAge seconds.
// Absolute expiry triggers when now >= expire.
// A message with neither field never expires.
func (a *Message) Expired(now time.Time) bool {
	if a.MaxAge > 0 {
		if created, err := a.CreatedTime(); err == nil {
			if now.Sub(created) > time.Duration(a.MaxAge)*time.Second {
				return true
			}
		}
	}
	if a.Expire != "" {
		if expire, err := time.Parse(TIMESTAMP_FORMAT, a.Expire); err == nil {
			if !now.Before(expire) {
				return true
			}
		}
	}
	return false
}

// receipt statuses
const (
	RECEIPT_SUCCESS = "success"
	RECEIPT_FAILURE = "failure"
)

// Receipt is the structured acknowledgment returned by a publish operation.
// A failure Receipt is a normal policy outcome, not an error - it travels inside a 200 envelope.
type Receipt struct {
	Status  string `json:"status"`
	UUID    string `json:"uuid,omitempty"`
	Created string `json:"created,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// SuccessReceipt acknowledges the stored / dispatched message
func SuccessReceipt(msg *Message) *Receipt {
	return &Receipt{Status: RECEIPT_SUCCESS, UUID: msg.UUID, Created: msg.Created}
}

// FailureReceipt reports a publish policy rejection
func FailureReceipt(reason string) *Receipt {
	return &Receipt{Status: RECEIPT_FAILURE, Reason: reason}
}
