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

package msgq_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/oysterpack/msgq.go/pkg/msgq"
)

func TestMessageRequest_Validate(t *testing.T) {
	valid := &msgq.MessageRequest{
		Destination: &msgq.DestinationRef{Type: msgq.QUEUE, Name: "Q1", Token: "abc"},
		Content:     json.RawMessage(`{"hello":"world"}`),
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("request should be valid : %v", err)
	}

	invalid := []*msgq.MessageRequest{
		nil,
		{},
		{Destination: &msgq.DestinationRef{Type: msgq.QUEUE, Name: "Q1"}},
		{Destination: &msgq.DestinationRef{Type: msgq.QUEUE, Token: "abc"}},
		{Destination: &msgq.DestinationRef{Name: "Q1", Token: "abc"}},
		// expiry fields without content
		{Destination: &msgq.DestinationRef{Type: msgq.QUEUE, Name: "Q1", Token: "abc"}, MaxAge: 60},
		{Destination: &msgq.DestinationRef{Type: msgq.QUEUE, Name: "Q1", Token: "abc"}, Expire: "2030/01/01 00:00:00"},
	}
	for i, request := range invalid {
		if err := request.Validate(); err != msgq.ErrInvalidMessageStructure {
			t.Errorf("request[%d] should be invalid : %v", i, err)
		}
	}

	// a request with no expiry fields and no content is structurally valid - the engine applies the default maxAge
	noContent := &msgq.MessageRequest{Destination: &msgq.DestinationRef{Type: msgq.QUEUE, Name: "Q1", Token: "abc"}}
	if err := noContent.Validate(); err != nil {
		t.Errorf("request without expiry fields does not require content : %v", err)
	}
}

func TestNewMessage(t *testing.T) {
	now := time.Date(2017, 11, 5, 10, 30, 0, 0, time.UTC)
	request := &msgq.MessageRequest{
		Destination: &msgq.DestinationRef{Type: msgq.QUEUE, Name: "Q1", Token: "abc"},
		MaxAge:      60,
		Content:     json.RawMessage(`"hello"`),
	}

	msg := msgq.NewMessage(request, now)
	if msg.UUID == "" {
		t.Error("a uuid should be assigned")
	}
	if msg.Created != "2017/11/05 10:30:00" {
		t.Errorf("created timestamp format mismatch : %s", msg.Created)
	}
	if msg.MaxAge != 60 {
		t.Errorf("maxAge was not copied : %d", msg.MaxAge)
	}

	msg2 := msgq.NewMessage(request, now)
	if msg2.UUID == msg.UUID {
		t.Error("uuids must be unique across messages")
	}

	created, err := msg.CreatedTime()
	if err != nil {
		t.Fatal(err)
	}
	if !created.Equal(now) {
		t.Errorf("round-tripped created time mismatch : %v", created)
	}
}

func TestMessage_Expired(t *testing.T) {
	now := time.Date(2017, 11, 5, 10, 30, 0, 0, time.UTC)

	maxAge := &msgq.Message{Created: now.Format(msgq.TIMESTAMP_FORMAT), MaxAge: 60}
	if maxAge.Expired(now.Add(59 * time.Second)) {
		t.Error("message should be retained before maxAge elapses")
	}
	if !maxAge.Expired(now.Add(61 * time.Second)) {
		t.Error("message should expire after maxAge elapses")
	}

	expire := &msgq.Message{Created: now.Format(msgq.TIMESTAMP_FORMAT), Expire: now.Add(time.Minute).Format(msgq.TIMESTAMP_FORMAT)}
	if expire.Expired(now) {
		t.Error("message should be retained before the absolute expire timestamp")
	}
	if !expire.Expired(now.Add(time.Minute)) {
		t.Error("message should expire at the absolute expire timestamp")
	}
	if !expire.Expired(now.Add(time.Hour)) {
		t.Error("message should expire after the absolute expire timestamp")
	}

	immortal := &msgq.Message{Created: now.Format(msgq.TIMESTAMP_FORMAT)}
	if immortal.Expired(now.Add(24 * 365 * time.Hour)) {
		t.Error("message with neither expiry field never expires")
	}
}

func TestDestinationType_Validate(t *testing.T) {
	if err := msgq.QUEUE.Validate(); err != nil {
		t.Error(err)
	}
	if err := msgq.TOPIC.Validate(); err != nil {
		t.Error(err)
	}
	if err := msgq.DestinationType("mailbox").Validate(); err != msgq.ErrUnknownDestinationType {
		t.Errorf("unknown destination type should be rejected : %v", err)
	}
}
