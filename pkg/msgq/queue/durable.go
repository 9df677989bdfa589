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

package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/oysterpack/msgq.go/pkg/logging"
	"github.com/oysterpack/msgq.go/pkg/msgq"
	"github.com/oysterpack/msgq.go/pkg/msgq/store"
	"github.com/rs/zerolog"
)

// errStop terminates a store iteration early - it is never surfaced
var errStop = errors.New("stop iteration")

// NewDurableManager creates a Manager whose messages are persisted as records
// in the given per-queue store. The manager holds no authoritative message
// list in memory - messages survive process restarts.
//
// Records are keyed by "{created}|{seq}" : the timestamp format sorts
// lexicographically in chronological order and the sequence breaks ties
// within the same second, so iteration order is publish order. The sequence
// resumes past the highest persisted value when the store is reopened.
func NewDurableManager(name string, maxLength int, db store.Database) Manager {
	manager := &durableManager{
		name:      name,
		maxLength: maxLength,
		db:        db,
		logger:    logger.With().Str(logging.QUEUE, name).Logger(),
	}
	manager.seq = manager.maxSeq()
	return manager
}

type durableManager struct {
	name      string
	maxLength int
	db        store.Database
	logger    zerolog.Logger

	// serializes publish / pickup / evict on this queue
	mutex sync.Mutex
	seq   uint64
}

// record is the persisted message envelope - the key carries the FIFO position
type record struct {
	UUID    string          `json:"uuid"`
	Created string          `json:"created"`
	MaxAge  int64           `json:"maxAge,omitempty"`
	Expire  string          `json:"expire,omitempty"`
	Content json.RawMessage `json:"content,omitempty"`
}

func (a *record) message() *msgq.Message {
	return &msgq.Message{UUID: a.UUID, Created: a.Created, MaxAge: a.MaxAge, Expire: a.Expire, Content: a.Content}
}

func recordKey(created string, seq uint64) string {
	return fmt.Sprintf("%s|%012d", created, seq)
}

func (a *durableManager) maxSeq() uint64 {
	var max uint64
	err := a.db.ForEach(func(key string, value []byte) error {
		if i := strings.LastIndex(key, "|"); i >= 0 {
			if seq, e := strconv.ParseUint(key[i+1:], 10, 64); e == nil && seq > max {
				max = seq
			}
		}
		return nil
	})
	if err != nil {
		a.logger.Error().Err(err).Msg("failed to scan for the highest sequence")
	}
	return max
}

func (a *durableManager) Name() string {
	return a.name
}

func (a *durableManager) Publish(request *msgq.MessageRequest) *msgq.Receipt {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	count, err := a.db.Count()
	if err != nil {
		return msgq.FailureReceipt(err.Error())
	}
	if count >= a.maxLength {
		publishRejectedCounter.WithLabelValues(a.name).Inc()
		return msgq.FailureReceipt(MAX_QUEUE_LENGTH_REACHED)
	}

	msg := msgq.NewMessage(request, time.Now())
	value, err := json.Marshal(&record{UUID: msg.UUID, Created: msg.Created, MaxAge: msg.MaxAge, Expire: msg.Expire, Content: msg.Content})
	if err != nil {
		return msgq.FailureReceipt(err.Error())
	}
	a.seq++
	if err := a.db.Put(recordKey(msg.Created, a.seq), value); err != nil {
		return msgq.FailureReceipt(err.Error())
	}
	publishedCounter.WithLabelValues(a.name).Inc()
	a.logger.Debug().Str(logging.MESSAGE_ID, msg.UUID).Int("len", count+1).Msg("published")
	return msgq.SuccessReceipt(msg)
}

func (a *durableManager) Pickup(uuid string) (*msgq.Message, error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	var key string
	var found *record

	var err error
	if uuid == "" {
		// iteration order is FIFO order - the first record is the earliest
		err = a.db.ForEach(func(k string, value []byte) error {
			r := &record{}
			if e := json.Unmarshal(value, r); e != nil {
				return e
			}
			key, found = k, r
			return errStop
		})
	} else {
		err = a.db.ForEach(func(k string, value []byte) error {
			r := &record{}
			if e := json.Unmarshal(value, r); e != nil {
				return e
			}
			if r.UUID == uuid {
				key, found = k, r
				return errStop
			}
			return nil
		})
	}
	if err != nil && err != errStop {
		return nil, err
	}
	if found == nil {
		return nil, nil
	}

	if err := a.db.Delete(key); err != nil {
		return nil, err
	}
	pickedUpCounter.WithLabelValues(a.name).Inc()
	a.logger.Debug().Str(logging.MESSAGE_ID, found.UUID).Msg("picked up")
	return found.message(), nil
}

// Evict deletes eligible records one at a time, tolerating individual delete
// failures - no caller is waiting on the reaper, so failures are only logged.
func (a *durableManager) Evict(now time.Time) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	type eligible struct {
		key  string
		uuid string
	}
	expired := []eligible{}
	err := a.db.ForEach(func(key string, value []byte) error {
		r := &record{}
		if e := json.Unmarshal(value, r); e != nil {
			a.logger.Error().Err(e).Str("key", key).Msg("skipping corrupt record")
			return nil
		}
		if r.message().Expired(now) {
			expired = append(expired, eligible{key: key, uuid: r.UUID})
		}
		return nil
	})
	if err != nil {
		a.logger.Error().Err(err).Msg("eviction sweep failed")
		return
	}

	for _, e := range expired {
		if err := a.db.Delete(e.key); err != nil {
			a.logger.Error().Err(err).Str(logging.MESSAGE_ID, e.uuid).Msg("failed to evict message")
			continue
		}
		evictedCounter.WithLabelValues(a.name).Inc()
		LOG_EVENT_MESSAGE_EVICTED.Log(a.logger.Info()).Str(logging.MESSAGE_ID, e.uuid).Msg("")
	}
}

func (a *durableManager) Depth() (int, error) {
	return a.db.Count()
}
