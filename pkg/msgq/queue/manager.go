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

// Package queue implements the per-queue delivery managers.
//
// Two variants share one contract : the in-memory variant holds the ordered
// message set in process memory, the durable variant persists each message as
// a record in a per-queue store and holds no authoritative local copy.
// The variant is selected once at manager creation time from the catalog
// record's persistent flag.
package queue

import (
	"time"

	"github.com/oysterpack/msgq.go/pkg/msgq"
)

// MAX_QUEUE_LENGTH_REACHED is the publish rejection reason when the queue is at capacity.
// It is a policy outcome, not an error - it travels inside a success envelope.
const MAX_QUEUE_LENGTH_REACHED = "maximum queue length reached"

// Manager holds and accesses the ordered message set for one queue.
// All mutations on one queue are serialized by the manager - different
// queues are fully independent.
type Manager interface {
	// Name returns the queue name
	Name() string

	// Publish appends a new message - a fresh uuid is assigned and created is stamped.
	// At capacity the publish is rejected with a failure Receipt.
	Publish(request *msgq.MessageRequest) *msgq.Receipt

	// Pickup removes and returns a message - the FIFO head when uuid is blank,
	// otherwise the message with the matching uuid. nil is returned when there
	// is no matching message. Order among remaining messages is preserved.
	Pickup(uuid string) (*msgq.Message, error)

	// Evict drops all messages that are expired at the given time.
	// Surviving messages retain their original order.
	// The reaper invokes this periodically - errors are logged, never surfaced.
	Evict(now time.Time)

	// Depth returns the current number of queued messages
	Depth() (int, error)
}
