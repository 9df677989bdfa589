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
	"sync"
	"time"

	"github.com/oysterpack/msgq.go/pkg/logging"
	"github.com/oysterpack/msgq.go/pkg/msgq"
	"github.com/rs/zerolog"
)

// NewInMemoryManager creates a Manager that keeps messages in process memory.
// Messages do not survive a process restart.
func NewInMemoryManager(name string, maxLength int) Manager {
	return &inMemoryManager{
		name:      name,
		maxLength: maxLength,
		logger:    logger.With().Str(logging.QUEUE, name).Logger(),
	}
}

type inMemoryManager struct {
	name      string
	maxLength int
	logger    zerolog.Logger

	// guards messages - publish, pickup and evict may interleave across goroutines
	mutex    sync.Mutex
	messages []*msgq.Message
}

func (a *inMemoryManager) Name() string {
	return a.name
}

func (a *inMemoryManager) Publish(request *msgq.MessageRequest) *msgq.Receipt {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	if len(a.messages) >= a.maxLength {
		publishRejectedCounter.WithLabelValues(a.name).Inc()
		return msgq.FailureReceipt(MAX_QUEUE_LENGTH_REACHED)
	}
	msg := msgq.NewMessage(request, time.Now())
	a.messages = append(a.messages, msg)
	publishedCounter.WithLabelValues(a.name).Inc()
	a.logger.Debug().Str(logging.MESSAGE_ID, msg.UUID).Int("len", len(a.messages)).Msg("published")
	return msgq.SuccessReceipt(msg)
}

func (a *inMemoryManager) Pickup(uuid string) (*msgq.Message, error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	if uuid == "" {
		if len(a.messages) == 0 {
			return nil, nil
		}
		msg := a.messages[0]
		a.messages = a.messages[1:]
		pickedUpCounter.WithLabelValues(a.name).Inc()
		a.logger.Debug().Str(logging.MESSAGE_ID, msg.UUID).Int("len", len(a.messages)).Msg("picked up")
		return msg, nil
	}

	for i, msg := range a.messages {
		if msg.UUID == uuid {
			a.messages = append(a.messages[:i], a.messages[i+1:]...)
			pickedUpCounter.WithLabelValues(a.name).Inc()
			a.logger.Debug().Str(logging.MESSAGE_ID, msg.UUID).Int("len", len(a.messages)).Msg("picked up")
			return msg, nil
		}
	}
	return nil, nil
}

func (a *inMemoryManager) Evict(now time.Time) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	surviving := a.messages[:0]
	for _, msg := range a.messages {
		if msg.Expired(now) {
			evictedCounter.WithLabelValues(a.name).Inc()
			LOG_EVENT_MESSAGE_EVICTED.Log(a.logger.Info()).Str(logging.MESSAGE_ID, msg.UUID).Msg("")
			continue
		}
		surviving = append(surviving, msg)
	}
	a.messages = surviving
}

func (a *inMemoryManager) Depth() (int, error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return len(a.messages), nil
}
