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

package queue_test

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/oysterpack/msgq.go/pkg/msgq"
	"github.com/oysterpack/msgq.go/pkg/msgq/queue"
	"github.com/oysterpack/msgq.go/pkg/msgq/store"
)

const maxLength = 5

func newRequest(content string) *msgq.MessageRequest {
	return &msgq.MessageRequest{
		Destination: &msgq.DestinationRef{Type: msgq.QUEUE, Name: "Q1", Token: "tok"},
		MaxAge:      300,
		Content:     json.RawMessage(fmt.Sprintf("%q", content)),
	}
}

// both variants share one contract - run the contract tests against each
func managers(t *testing.T) map[string]queue.Manager {
	t.Helper()
	db, err := store.CreateDatabase(filepath.Join(t.TempDir(), "Q1.db"), "Q1", true)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return map[string]queue.Manager{
		"inmemory": queue.NewInMemoryManager("Q1", maxLength),
		"durable":  queue.NewDurableManager("Q1", maxLength, db),
	}
}

func TestPublishPickupFIFO(t *testing.T) {
	for variant, manager := range managers(t) {
		t.Run(variant, func(t *testing.T) {
			receipts := []*msgq.Receipt{}
			for i := 0; i < 3; i++ {
				receipt := manager.Publish(newRequest(fmt.Sprintf("msg-%d", i)))
				if receipt.Status != msgq.RECEIPT_SUCCESS {
					t.Fatalf("publish failed : %+v", receipt)
				}
				for _, prior := range receipts {
					if prior.UUID == receipt.UUID {
						t.Errorf("receipt uuids must be unique : %s", receipt.UUID)
					}
				}
				receipts = append(receipts, receipt)
			}

			depth, err := manager.Depth()
			if err != nil {
				t.Fatal(err)
			}
			if depth != 3 {
				t.Errorf("depth : %d", depth)
			}

			for i := 0; i < 3; i++ {
				msg, err := manager.Pickup("")
				if err != nil {
					t.Fatal(err)
				}
				if msg == nil {
					t.Fatalf("message %d is missing", i)
				}
				if msg.UUID != receipts[i].UUID {
					t.Errorf("messages must be picked up in publish order : %d : %s != %s", i, msg.UUID, receipts[i].UUID)
				}
				if string(msg.Content) != fmt.Sprintf("%q", fmt.Sprintf("msg-%d", i)) {
					t.Errorf("content mismatch : %s", msg.Content)
				}
			}

			msg, err := manager.Pickup("")
			if err != nil {
				t.Fatal(err)
			}
			if msg != nil {
				t.Errorf("empty queue should yield nil : %+v", msg)
			}
		})
	}
}

func TestPublishAtCapacity(t *testing.T) {
	for variant, manager := range managers(t) {
		t.Run(variant, func(t *testing.T) {
			for i := 0; i < maxLength; i++ {
				if receipt := manager.Publish(newRequest("x")); receipt.Status != msgq.RECEIPT_SUCCESS {
					t.Fatalf("publish %d failed : %+v", i, receipt)
				}
			}

			receipt := manager.Publish(newRequest("overflow"))
			if receipt.Status != msgq.RECEIPT_FAILURE {
				t.Fatalf("publish at capacity must be rejected : %+v", receipt)
			}
			if receipt.Reason != queue.MAX_QUEUE_LENGTH_REACHED {
				t.Errorf("rejection reason : %s", receipt.Reason)
			}

			depth, err := manager.Depth()
			if err != nil {
				t.Fatal(err)
			}
			if depth != maxLength {
				t.Errorf("a rejected publish must not alter the stored message count : %d", depth)
			}
		})
	}
}

func TestPickupByUUID(t *testing.T) {
	for variant, manager := range managers(t) {
		t.Run(variant, func(t *testing.T) {
			receipts := []*msgq.Receipt{}
			for i := 0; i < 3; i++ {
				receipts = append(receipts, manager.Publish(newRequest(fmt.Sprintf("msg-%d", i))))
			}

			// pick the middle message by uuid
			msg, err := manager.Pickup(receipts[1].UUID)
			if err != nil {
				t.Fatal(err)
			}
			if msg == nil || msg.UUID != receipts[1].UUID {
				t.Fatalf("pickup by uuid mismatch : %+v", msg)
			}

			// picking it again behaves as if it was never published
			msg, err = manager.Pickup(receipts[1].UUID)
			if err != nil {
				t.Fatal(err)
			}
			if msg != nil {
				t.Errorf("message should be gone : %+v", msg)
			}

			// an unknown uuid yields nil
			msg, err = manager.Pickup("00000000-0000-0000-0000-000000000000")
			if err != nil {
				t.Fatal(err)
			}
			if msg != nil {
				t.Errorf("unknown uuid should yield nil : %+v", msg)
			}

			// remaining messages preserve FIFO order
			first, err := manager.Pickup("")
			if err != nil {
				t.Fatal(err)
			}
			second, err := manager.Pickup("")
			if err != nil {
				t.Fatal(err)
			}
			if first.UUID != receipts[0].UUID || second.UUID != receipts[2].UUID {
				t.Error("order among remaining messages must be preserved")
			}
		})
	}
}

func TestEvict(t *testing.T) {
	for variant, manager := range managers(t) {
		t.Run(variant, func(t *testing.T) {
			shortLived := manager.Publish(&msgq.MessageRequest{
				Destination: &msgq.DestinationRef{Type: msgq.QUEUE, Name: "Q1", Token: "tok"},
				MaxAge:      60,
				Content:     json.RawMessage(`"short"`),
			})
			longLived := manager.Publish(&msgq.MessageRequest{
				Destination: &msgq.DestinationRef{Type: msgq.QUEUE, Name: "Q1", Token: "tok"},
				MaxAge:      3600,
				Content:     json.RawMessage(`"long"`),
			})
			expired := manager.Publish(&msgq.MessageRequest{
				Destination: &msgq.DestinationRef{Type: msgq.QUEUE, Name: "Q1", Token: "tok"},
				Expire:      time.Now().Add(-time.Hour).Format(msgq.TIMESTAMP_FORMAT),
				Content:     json.RawMessage(`"expired"`),
			})
			for _, receipt := range []*msgq.Receipt{shortLived, longLived, expired} {
				if receipt.Status != msgq.RECEIPT_SUCCESS {
					t.Fatalf("publish failed : %+v", receipt)
				}
			}

			// before any expiry elapses only the past-dated message is eligible
			manager.Evict(time.Now())
			depth, err := manager.Depth()
			if err != nil {
				t.Fatal(err)
			}
			if depth != 2 {
				t.Errorf("only the past-dated message should have been evicted : depth=%d", depth)
			}

			// after 61 seconds the short-lived message is eligible as well
			manager.Evict(time.Now().Add(61 * time.Second))
			depth, err = manager.Depth()
			if err != nil {
				t.Fatal(err)
			}
			if depth != 1 {
				t.Errorf("the short-lived message should have been evicted : depth=%d", depth)
			}

			msg, err := manager.Pickup("")
			if err != nil {
				t.Fatal(err)
			}
			if msg == nil || msg.UUID != longLived.UUID {
				t.Errorf("the long-lived message should survive : %+v", msg)
			}
		})
	}
}

func TestDurable_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	dbFile := filepath.Join(dir, "Q1.db")

	db, err := store.CreateDatabase(dbFile, "Q1", true)
	if err != nil {
		t.Fatal(err)
	}
	manager := queue.NewDurableManager("Q1", maxLength, db)
	receipt := manager.Publish(newRequest("persisted"))
	if receipt.Status != msgq.RECEIPT_SUCCESS {
		t.Fatalf("publish failed : %+v", receipt)
	}
	db.Close()

	db, err = store.OpenDatabase(dbFile, "Q1")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	manager = queue.NewDurableManager("Q1", maxLength, db)

	msg, err := manager.Pickup("")
	if err != nil {
		t.Fatal(err)
	}
	if msg == nil || msg.UUID != receipt.UUID {
		t.Fatalf("message should survive a store reopen : %+v", msg)
	}
}
