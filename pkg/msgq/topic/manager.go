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

// Package topic implements topic fan-out : each published message is pushed to
// every registered subscriber endpoint independently, at most once, best effort.
// Messages are not retained after fan-out - topics are push-only.
package topic

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/oysterpack/msgq.go/pkg/logging"
	"github.com/oysterpack/msgq.go/pkg/msgq"
	"github.com/rs/zerolog"
)

// Manager fans a published message out to the topic's subscribers.
// It is constructed per lookup from the catalog record, so subscriber
// changes are picked up on the next publish cycle.
type Manager struct {
	dest      *msgq.Destination
	transport Transport
	logger    zerolog.Logger
}

// NewManager creates the fan-out manager for the given topic record
func NewManager(dest *msgq.Destination, transport Transport) *Manager {
	return &Manager{
		dest:      dest,
		transport: transport,
		logger:    logger.With().Str(logging.TOPIC, dest.Name).Logger(),
	}
}

// Name returns the topic name
func (a *Manager) Name() string {
	return a.dest.Name
}

// Publish assigns the message uuid and created timestamp, then dispatches one
// push per subscriber in its own goroutine. Deliveries are fire-and-forget
// relative to each other : a failure to reach one subscriber is logged and
// never blocks, retries, or fails delivery to any other subscriber. The
// Receipt is always success once fan-out has been dispatched.
func (a *Manager) Publish(request *msgq.MessageRequest) *msgq.Receipt {
	msg := msgq.NewMessage(request, time.Now())
	payload, err := json.Marshal(msg)
	if err != nil {
		return msgq.FailureReceipt(err.Error())
	}

	for _, sub := range a.dest.Subscribers {
		go a.deliver(sub, msg.UUID, payload)
	}
	return msgq.SuccessReceipt(msg)
}

func (a *Manager) deliver(sub *msgq.Subscriber, uuid string, payload []byte) {
	deliveryCounter.WithLabelValues(a.dest.Name, sub.Name).Inc()

	endpoint, err := ParseEndpoint(sub.Endpoint)
	if err != nil {
		deliveryFailedCounter.WithLabelValues(a.dest.Name, sub.Name).Inc()
		LOG_EVENT_DELIVERY_FAILED.Log(a.logger.Error()).Err(err).
			Str(logging.SUBSCRIBER, sub.Name).
			Str(logging.MESSAGE_ID, uuid).
			Msg("invalid subscriber endpoint")
		return
	}

	_, err = a.transport.Call(&Request{
		Host:    endpoint.Host,
		Port:    endpoint.Port,
		Secured: endpoint.Secured,
		Path:    endpoint.Path,
		Method:  http.MethodPost,
		Payload: payload,
	})
	if err != nil {
		deliveryFailedCounter.WithLabelValues(a.dest.Name, sub.Name).Inc()
		LOG_EVENT_DELIVERY_FAILED.Log(a.logger.Error()).Err(err).
			Str(logging.SUBSCRIBER, sub.Name).
			Str(logging.MESSAGE_ID, uuid).
			Msg("")
		return
	}
	a.logger.Debug().Str(logging.SUBSCRIBER, sub.Name).Str(logging.MESSAGE_ID, uuid).Msg("delivered")
}
