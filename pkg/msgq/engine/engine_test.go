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

package engine_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/oysterpack/msgq.go/pkg/msgq"
	"github.com/oysterpack/msgq.go/pkg/msgq/catalog"
	"github.com/oysterpack/msgq.go/pkg/msgq/config"
	"github.com/oysterpack/msgq.go/pkg/msgq/engine"
	"github.com/oysterpack/msgq.go/pkg/msgq/security"
	"github.com/oysterpack/msgq.go/pkg/msgq/store"
	"github.com/oysterpack/msgq.go/pkg/msgq/topic"
)

type noopTransport struct{}

func (a *noopTransport) Call(request *topic.Request) (*topic.Response, error) {
	return &topic.Response{StatusCode: 200}, nil
}

type fixture struct {
	engine  *engine.Engine
	catalog catalog.Catalog
	tokens  *security.TokenService
}

func newFixture(t *testing.T, cfg *config.Config) *fixture {
	t.Helper()
	dir := t.TempDir()
	db, err := store.CreateDatabase(filepath.Join(dir, "catalog.db"), catalog.DATABASE_NAME, true)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	tokens, err := security.NewTokenService("engine-test-key")
	if err != nil {
		t.Fatal(err)
	}
	stores := store.NewRegistry(filepath.Join(dir, "queues"))
	t.Cleanup(stores.CloseAll)

	cat := catalog.NewBoltCatalog(db)
	return &fixture{
		engine:  engine.New(cat, tokens, stores, &noopTransport{}, cfg),
		catalog: cat,
		tokens:  tokens,
	}
}

// createQueue registers the queue in the catalog and returns a valid publish request for it
func (a *fixture) createQueue(t *testing.T, name string, persistent bool) *msgq.MessageRequest {
	t.Helper()
	_, err := a.catalog.Insert(&msgq.Destination{
		Type:       msgq.QUEUE,
		Name:       name,
		Token:      a.tokens.Derive(name),
		Persistent: persistent,
	})
	if err != nil {
		t.Fatal(err)
	}
	return &msgq.MessageRequest{
		Destination: &msgq.DestinationRef{Type: msgq.QUEUE, Name: name, Token: a.tokens.Derive(name)},
		Content:     json.RawMessage(`{"n":1}`),
	}
}

func TestHandlePublish_InvalidRequest(t *testing.T) {
	f := newFixture(t, config.Default())

	for _, request := range []*msgq.MessageRequest{
		nil,
		{},
		{Destination: &msgq.DestinationRef{Type: msgq.QUEUE, Name: "Q1"}},
	} {
		envelope := f.engine.HandlePublish(request)
		if envelope.Status != 400 {
			t.Errorf("expected 400 : %+v", envelope)
		}
		if envelope.Data != "invalid message structure" {
			t.Errorf("reason : %v", envelope.Data)
		}
	}
}

func TestHandlePublish_InvalidToken(t *testing.T) {
	f := newFixture(t, config.Default())
	request := f.createQueue(t, "Q1", false)
	request.Destination.Token = "forged"

	envelope := f.engine.HandlePublish(request)
	if envelope.Status != 401 {
		t.Fatalf("expected 401 : %+v", envelope)
	}
	if envelope.Data != engine.INVALID_SECURITY_TOKEN {
		t.Errorf("reason : %v", envelope.Data)
	}
}

func TestHandlePublish_UnknownDestination(t *testing.T) {
	f := newFixture(t, config.Default())

	envelope := f.engine.HandlePublish(&msgq.MessageRequest{
		Destination: &msgq.DestinationRef{Type: msgq.QUEUE, Name: "ghost", Token: f.tokens.Derive("ghost")},
		Content:     json.RawMessage(`{}`),
	})
	if envelope.Status != 406 || envelope.Data != engine.UNKNOWN_QUEUE_NAME {
		t.Errorf("expected 406 unknown queue : %+v", envelope)
	}

	envelope = f.engine.HandlePublish(&msgq.MessageRequest{
		Destination: &msgq.DestinationRef{Type: msgq.TOPIC, Name: "ghost", Token: f.tokens.Derive("ghost")},
		Content:     json.RawMessage(`{}`),
	})
	if envelope.Status != 406 || envelope.Data != engine.UNKNOWN_TOPIC_NAME {
		t.Errorf("expected 406 unknown topic : %+v", envelope)
	}
}

func TestHandlePublish_And_Pickup_RoundTrip(t *testing.T) {
	for _, persistent := range []bool{false, true} {
		f := newFixture(t, config.Default())
		request := f.createQueue(t, "orders", persistent)

		envelope := f.engine.HandlePublish(request)
		if envelope.Status != 200 {
			t.Fatalf("persistent=%v publish : %+v", persistent, envelope)
		}
		receipt := envelope.Data.(*msgq.Receipt)
		if receipt.Status != msgq.RECEIPT_SUCCESS {
			t.Fatalf("persistent=%v receipt : %+v", persistent, receipt)
		}

		pickup := &msgq.MessageRequest{Destination: request.Destination}
		envelope = f.engine.HandlePickup(pickup)
		if envelope.Status != 200 {
			t.Fatalf("persistent=%v pickup : %+v", persistent, envelope)
		}
		msg := envelope.Data.(*msgq.Message)
		if msg.UUID != receipt.UUID {
			t.Errorf("persistent=%v picked up the wrong message : %v != %v", persistent, msg.UUID, receipt.UUID)
		}

		// queue is drained
		envelope = f.engine.HandlePickup(pickup)
		if envelope.Status != 404 || envelope.Data != engine.NO_MESSAGE_FOUND {
			t.Errorf("persistent=%v expected 404 : %+v", persistent, envelope)
		}
	}
}

func TestHandlePublish_DefaultExpiry(t *testing.T) {
	cfg := config.Default()
	cfg.DefaultExpirationTimeout = 120
	f := newFixture(t, cfg)
	request := f.createQueue(t, "Q1", false)

	envelope := f.engine.HandlePublish(request)
	if envelope.Status != 200 {
		t.Fatalf("publish : %+v", envelope)
	}

	envelope = f.engine.HandlePickup(&msgq.MessageRequest{Destination: request.Destination})
	msg := envelope.Data.(*msgq.Message)
	if msg.MaxAge != 120 {
		t.Errorf("the default maxAge should have been applied : %v", msg.MaxAge)
	}

	// an explicit expiry is left alone
	request.Content = json.RawMessage(`{"n":2}`)
	request.MaxAge = 30
	if envelope := f.engine.HandlePublish(request); envelope.Status != 200 {
		t.Fatalf("publish : %+v", envelope)
	}
	envelope = f.engine.HandlePickup(&msgq.MessageRequest{Destination: request.Destination})
	msg = envelope.Data.(*msgq.Message)
	if msg.MaxAge != 30 {
		t.Errorf("an explicit maxAge must not be overridden : %v", msg.MaxAge)
	}
}

func TestHandlePublish_CapacityRejectionInsideOkEnvelope(t *testing.T) {
	cfg := config.Default()
	cfg.MaxQueueLength = 1
	f := newFixture(t, cfg)
	request := f.createQueue(t, "tiny", false)

	if envelope := f.engine.HandlePublish(request); envelope.Status != 200 {
		t.Fatalf("publish : %+v", envelope)
	}
	envelope := f.engine.HandlePublish(request)
	if envelope.Status != 200 {
		t.Fatalf("a capacity rejection still travels in a 200 envelope : %+v", envelope)
	}
	receipt := envelope.Data.(*msgq.Receipt)
	if receipt.Status != msgq.RECEIPT_FAILURE {
		t.Fatalf("receipt : %+v", receipt)
	}
	if receipt.Reason != "maximum queue length reached" {
		t.Errorf("reason : %v", receipt.Reason)
	}
}

func TestHandlePickup_TopicRejected(t *testing.T) {
	f := newFixture(t, config.Default())

	envelope := f.engine.HandlePickup(&msgq.MessageRequest{
		Destination: &msgq.DestinationRef{Type: msgq.TOPIC, Name: "alerts", Token: f.tokens.Derive("alerts")},
	})
	if envelope.Status != 400 {
		t.Errorf("pickup only applies to queues : %+v", envelope)
	}
}

func TestHandlePublish_Topic(t *testing.T) {
	f := newFixture(t, config.Default())
	if _, err := f.catalog.Insert(&msgq.Destination{
		Type:  msgq.TOPIC,
		Name:  "alerts",
		Token: f.tokens.Derive("alerts"),
		Subscribers: []*msgq.Subscriber{
			{Name: "S1", Endpoint: "http://s1.example.com/push"},
		},
	}); err != nil {
		t.Fatal(err)
	}

	envelope := f.engine.HandlePublish(&msgq.MessageRequest{
		Destination: &msgq.DestinationRef{Type: msgq.TOPIC, Name: "alerts", Token: f.tokens.Derive("alerts")},
		Content:     json.RawMessage(`{"alert":"up"}`),
	})
	if envelope.Status != 200 {
		t.Fatalf("topic publish : %+v", envelope)
	}
	receipt := envelope.Data.(*msgq.Receipt)
	if receipt.Status != msgq.RECEIPT_SUCCESS {
		t.Errorf("receipt : %+v", receipt)
	}
}

func TestStart_PreloadsPersistentQueues(t *testing.T) {
	f := newFixture(t, config.Default())
	request := f.createQueue(t, "durable-q", true)
	f.createQueue(t, "volatile-q", false)

	if err := f.engine.Start(); err != nil {
		t.Fatal(err)
	}
	defer f.engine.Stop()

	// the durable store was provisioned at startup - publish goes straight through
	if envelope := f.engine.HandlePublish(request); envelope.Status != 200 {
		t.Fatalf("publish : %+v", envelope)
	}
}

func TestEvictManager_DropsQueueState(t *testing.T) {
	f := newFixture(t, config.Default())
	request := f.createQueue(t, "Q1", false)

	if envelope := f.engine.HandlePublish(request); envelope.Status != 200 {
		t.Fatalf("publish : %+v", envelope)
	}
	f.engine.EvictManager("Q1")

	// in-memory state is gone - the recreated manager is empty
	envelope := f.engine.HandlePickup(&msgq.MessageRequest{Destination: request.Destination})
	if envelope.Status != 404 {
		t.Errorf("expected 404 after the manager was evicted : %+v", envelope)
	}
}
