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

// Package engine routes publish and pickup requests to the right destination
// manager, owns the queue manager registry, and runs the background reaper
// that evicts expired messages.
package engine

import (
	"sync"
	"time"

	"github.com/oysterpack/msgq.go/pkg/logging"
	"github.com/oysterpack/msgq.go/pkg/msgq"
	"github.com/oysterpack/msgq.go/pkg/msgq/catalog"
	"github.com/oysterpack/msgq.go/pkg/msgq/config"
	"github.com/oysterpack/msgq.go/pkg/msgq/queue"
	"github.com/oysterpack/msgq.go/pkg/msgq/security"
	"github.com/oysterpack/msgq.go/pkg/msgq/store"
	"github.com/oysterpack/msgq.go/pkg/msgq/topic"
	"golang.org/x/sync/errgroup"
	"gopkg.in/tomb.v2"
)

// envelope reason strings
const (
	INVALID_SECURITY_TOKEN  = "Invalid security token"
	UNKNOWN_QUEUE_NAME      = "Unknown queue name"
	UNKNOWN_TOPIC_NAME      = "Unknown topic name"
	NO_MESSAGE_FOUND        = "No message found"
	UNABLE_TO_QUERY_CATALOG = "unable to query the catalog"
)

// Engine is the message broker core. It dispatches publish and pickup
// requests to queue and topic managers, creating queue managers lazily on
// first access - at most one manager exists per queue name. Topic managers
// are constructed per publish from the current catalog record so subscriber
// changes take effect immediately.
type Engine struct {
	catalog   catalog.Catalog
	tokens    *security.TokenService
	stores    *store.Registry
	transport topic.Transport

	maxQueueLength    int
	defaultExpiration int64
	checkInterval     time.Duration

	sync.RWMutex
	managers map[string]queue.Manager

	t tomb.Tomb
}

// New creates the engine. Start must be called before serving traffic.
func New(cat catalog.Catalog, tokens *security.TokenService, stores *store.Registry, transport topic.Transport, cfg *config.Config) *Engine {
	return &Engine{
		catalog:           cat,
		tokens:            tokens,
		stores:            stores,
		transport:         transport,
		maxQueueLength:    cfg.MaxQueueLength,
		defaultExpiration: cfg.DefaultExpirationTimeout,
		checkInterval:     cfg.CheckIntervalDuration(),
		managers:          make(map[string]queue.Manager),
	}
}

// Start preloads managers for all persistent queues, so that durable stores
// are provisioned before traffic arrives, and then spawns the reaper.
func (a *Engine) Start() error {
	queues, err := a.catalog.Query(catalog.Filter{Type: msgq.QUEUE})
	catalogHealth(err)
	if err != nil {
		return err
	}
	g := new(errgroup.Group)
	for _, dest := range queues {
		if !dest.Persistent {
			continue
		}
		dest := dest
		g.Go(func() error {
			_, err := a.queueManager(dest)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	a.t.Go(a.reap)
	LOG_EVENT_ENGINE_STARTED.Log(logger.Info()).Msg("")
	return nil
}

// Stop kills the reaper and waits for it to die
func (a *Engine) Stop() error {
	a.t.Kill(nil)
	err := a.t.Wait()
	LOG_EVENT_ENGINE_STOPPED.Log(logger.Info()).Msg("")
	return err
}

// HandlePublish validates and routes a publish request.
// The envelope status carries the logical outcome :
// 400 on a structurally invalid request, 401 on a token mismatch,
// 406 on an unknown destination, 500 on a catalog failure, otherwise
// 200 with the publish Receipt - a capacity rejection is a failure
// Receipt inside the 200 envelope, not an envelope error.
func (a *Engine) HandlePublish(request *msgq.MessageRequest) *msgq.Envelope {
	if err := request.Validate(); err != nil {
		return msgq.BadRequest(err.Error())
	}
	dest := request.Destination
	if err := dest.Type.Validate(); err != nil {
		return msgq.BadRequest(err.Error())
	}
	if !a.tokens.CheckDestinationToken(dest) {
		return msgq.Unauthorized(INVALID_SECURITY_TOKEN)
	}

	record, err := a.catalog.QueryOne(catalog.Filter{Type: dest.Type, Name: dest.Name})
	catalogHealth(err)
	if err != nil {
		LOG_EVENT_CATALOG_QUERY_FAILED.Log(logger.Error()).Err(err).Str(logging.DESTINATION, dest.Name).Msg("")
		return msgq.InternalServerError(UNABLE_TO_QUERY_CATALOG)
	}

	if dest.Type == msgq.TOPIC {
		if record == nil {
			return msgq.NotAcceptable(UNKNOWN_TOPIC_NAME)
		}
		return msgq.Ok(topic.NewManager(record, a.transport).Publish(request))
	}

	if record == nil {
		return msgq.NotAcceptable(UNKNOWN_QUEUE_NAME)
	}
	// a message with no expiry of its own gets the configured default maxAge
	if request.MaxAge == 0 && request.Expire == "" {
		request.MaxAge = a.defaultExpiration
	}
	manager, err := a.queueManager(record)
	if err != nil {
		LOG_EVENT_MANAGER_CREATE_FAILED.Log(logger.Error()).Err(err).Str(logging.QUEUE, record.Name).Msg("")
		return msgq.InternalServerError(err.Error())
	}
	return msgq.Ok(manager.Publish(request))
}

// HandlePickup validates and routes a pickup request. Pickup only applies to
// queues. A blank uuid picks the FIFO head, otherwise the matching message.
// 404 "No message found" reports an empty queue or an unmatched uuid.
func (a *Engine) HandlePickup(request *msgq.MessageRequest) *msgq.Envelope {
	if err := request.Validate(); err != nil {
		return msgq.BadRequest(err.Error())
	}
	dest := request.Destination
	if dest.Type != msgq.QUEUE {
		return msgq.BadRequest(msgq.ErrInvalidMessageStructure.Error())
	}
	if !a.tokens.CheckDestinationToken(dest) {
		return msgq.Unauthorized(INVALID_SECURITY_TOKEN)
	}

	record, err := a.catalog.QueryOne(catalog.Filter{Type: msgq.QUEUE, Name: dest.Name})
	catalogHealth(err)
	if err != nil {
		LOG_EVENT_CATALOG_QUERY_FAILED.Log(logger.Error()).Err(err).Str(logging.DESTINATION, dest.Name).Msg("")
		return msgq.InternalServerError(UNABLE_TO_QUERY_CATALOG)
	}
	if record == nil {
		return msgq.NotAcceptable(UNKNOWN_QUEUE_NAME)
	}

	manager, err := a.queueManager(record)
	if err != nil {
		LOG_EVENT_MANAGER_CREATE_FAILED.Log(logger.Error()).Err(err).Str(logging.QUEUE, record.Name).Msg("")
		return msgq.InternalServerError(err.Error())
	}
	msg, err := manager.Pickup(request.UUID)
	if err != nil {
		return msgq.InternalServerError(err.Error())
	}
	if msg == nil {
		return msgq.NotFound(NO_MESSAGE_FOUND)
	}
	return msgq.Ok(msg)
}

// queueManager returns the manager for the queue, creating it on first
// access. The manager variant is chosen from the catalog record's Persistent
// flag - durable managers get their bbolt store provisioned here, which makes
// a previously failed provisioning retryable on the next access.
func (a *Engine) queueManager(dest *msgq.Destination) (queue.Manager, error) {
	a.RLock()
	manager := a.managers[dest.Name]
	a.RUnlock()
	if manager != nil {
		return manager, nil
	}

	a.Lock()
	defer a.Unlock()
	if manager := a.managers[dest.Name]; manager != nil {
		return manager, nil
	}
	if dest.Persistent {
		db, err := a.stores.Database(dest.Name)
		if err != nil {
			return nil, err
		}
		manager = queue.NewDurableManager(dest.Name, a.maxQueueLength, db)
	} else {
		manager = queue.NewInMemoryManager(dest.Name, a.maxQueueLength)
	}
	a.managers[dest.Name] = manager
	managerGauge.Inc()
	LOG_EVENT_MANAGER_CREATED.Log(logger.Info()).
		Str(logging.QUEUE, dest.Name).
		Bool("persistent", dest.Persistent).
		Msg("")
	return manager, nil
}

// EvictManager drops the queue's manager, so that its state does not outlive
// the catalog record on an admin delete. It is a no-op for unknown names.
func (a *Engine) EvictManager(name string) {
	a.Lock()
	defer a.Unlock()
	if _, exists := a.managers[name]; exists {
		delete(a.managers, name)
		managerGauge.Dec()
		LOG_EVENT_MANAGER_EVICTED.Log(logger.Info()).Str(logging.QUEUE, name).Msg("")
	}
}
