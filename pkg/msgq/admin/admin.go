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

// Package admin implements the administrative actions : catalog CRUD for
// queues and topics, subscriber registration, token generation, and server
// shutdown. Every action is gated by the administrative token.
package admin

import (
	"strings"
	"time"

	"github.com/oysterpack/msgq.go/pkg/logging"
	"github.com/oysterpack/msgq.go/pkg/msgq"
	"github.com/oysterpack/msgq.go/pkg/msgq/catalog"
	"github.com/oysterpack/msgq.go/pkg/msgq/security"
	"github.com/oysterpack/msgq.go/pkg/msgq/store"
)

// action codes dispatched via POST /admin/{actionId}
const (
	ACTION_SHUTDOWN            = "shutdown"
	ACTION_GENERATE_TOKEN      = "generateToken"
	ACTION_CREATE_QUEUE        = "createQueue"
	ACTION_GET_QUEUES          = "getQueues"
	ACTION_DELETE_QUEUE        = "deleteQueue"
	ACTION_CREATE_TOPIC        = "createTopic"
	ACTION_GET_TOPICS          = "getTopics"
	ACTION_DELETE_TOPIC        = "deleteTopic"
	ACTION_GET_DESTINATION     = "getDestination"
	ACTION_REGISTER_SUBSCRIBER = "registerSubscriber"
)

// envelope reason strings
const (
	INVALID_SECURITY_TOKEN = "Invalid security token"
	ACTION_NOT_SUPPORTED   = "Action code not supported!"
	QUEUE_ALREADY_EXISTS   = "Queue name already exists"
	TOPIC_ALREADY_EXISTS   = "Topic name already exists"
	QUEUE_NOT_FOUND        = "Queue name was not found in catalog"
	TOPIC_NOT_FOUND        = "Topic name was not found in catalog"
	DESTINATION_NOT_FOUND  = "Destination name was not found in catalog"
	SHUTDOWN_INITIATED     = "Server shutdown initiated!"
	PASSPHRASE_REQUIRED    = "Request body should contain a passPhrase attribute"
)

// SHUTDOWN_DELAY gives the shutdown response time to flush before termination
const SHUTDOWN_DELAY = time.Second

// ManagerEvictor drops broker-side queue state when its catalog record is
// deleted. The messaging engine satisfies it.
type ManagerEvictor interface {
	EvictManager(name string)
}

// Request is the JSON body of an administrative action.
// Token is the plaintext administrative pass phrase - the gate derives and
// compares it to the configured administrative token.
type Request struct {
	Token      string           `json:"token,omitempty"`
	Name       string           `json:"name,omitempty"`
	Persistent bool             `json:"persistent,omitempty"`
	PassPhrase string           `json:"passPhrase,omitempty"`
	Subscriber *msgq.Subscriber `json:"subscriber,omitempty"`
}

// Server handles administrative actions
type Server struct {
	gate     *security.AdminGate
	tokens   *security.TokenService
	catalog  catalog.Catalog
	stores   *store.Registry
	evictor  ManagerEvictor
	shutdown func()
}

// New creates the administration server. The shutdown func is invoked
// SHUTDOWN_DELAY after a shutdown action passes the gate - main injects it,
// the package never terminates the process itself.
func New(gate *security.AdminGate, tokens *security.TokenService, cat catalog.Catalog, stores *store.Registry, evictor ManagerEvictor, shutdown func()) *Server {
	return &Server{
		gate:     gate,
		tokens:   tokens,
		catalog:  cat,
		stores:   stores,
		evictor:  evictor,
		shutdown: shutdown,
	}
}

// Dispatch routes an action code to its handler.
// Unknown action codes report 400 - authorization is per-handler, so an
// unknown action never leaks whether the token was valid.
func (a *Server) Dispatch(actionID string, request *Request) *msgq.Envelope {
	actionCounter.WithLabelValues(actionID).Inc()
	switch actionID {
	case ACTION_SHUTDOWN:
		return a.Shutdown(request)
	case ACTION_GENERATE_TOKEN:
		return a.GenerateToken(request)
	case ACTION_CREATE_QUEUE:
		return a.CreateQueue(request)
	case ACTION_GET_QUEUES:
		return a.GetQueues(request)
	case ACTION_DELETE_QUEUE:
		return a.DeleteQueue(request)
	case ACTION_CREATE_TOPIC:
		return a.CreateTopic(request)
	case ACTION_GET_TOPICS:
		return a.GetTopics(request)
	case ACTION_DELETE_TOPIC:
		return a.DeleteTopic(request)
	case ACTION_GET_DESTINATION:
		return a.GetDestination(request)
	case ACTION_REGISTER_SUBSCRIBER:
		return a.RegisterSubscriber(request)
	default:
		return msgq.BadRequest(ACTION_NOT_SUPPORTED)
	}
}

func (a *Server) authorized(request *Request) bool {
	return request != nil && a.gate.Check(request.Token)
}

// CreateQueue inserts a queue record with a derived token. For persistent
// queues the durable store is provisioned immediately - a provisioning
// failure is surfaced as 500 with the catalog record left in place, and
// provisioning is retried lazily on the queue's first use.
func (a *Server) CreateQueue(request *Request) *msgq.Envelope {
	if !a.authorized(request) {
		return msgq.Unauthorized(INVALID_SECURITY_TOKEN)
	}
	if strings.TrimSpace(request.Name) == "" {
		return msgq.BadRequest(msgq.ErrDestinationNameMustNotBeBlank.Error())
	}

	existing, err := a.catalog.QueryOne(catalog.Filter{Type: msgq.QUEUE, Name: request.Name})
	if err != nil {
		return msgq.InternalServerError(err.Error())
	}
	if existing != nil {
		return msgq.BadRequest(QUEUE_ALREADY_EXISTS)
	}

	dest, err := a.catalog.Insert(&msgq.Destination{
		Type:       msgq.QUEUE,
		Name:       request.Name,
		Token:      a.tokens.Derive(request.Name),
		Persistent: request.Persistent,
	})
	if err == catalog.ErrDestinationAlreadyExists {
		return msgq.BadRequest(QUEUE_ALREADY_EXISTS)
	}
	if err != nil {
		return msgq.InternalServerError(err.Error())
	}
	LOG_EVENT_DESTINATION_CREATED.Log(logger.Info()).Str(logging.QUEUE, dest.Name).Msg("")

	if dest.Persistent {
		if _, err := a.stores.Database(dest.Name); err != nil {
			LOG_EVENT_STORE_PROVISIONING_FAILED.Log(logger.Error()).Err(err).Str(logging.QUEUE, dest.Name).Msg("")
			return msgq.InternalServerError(err.Error())
		}
	}
	return msgq.Ok(dest)
}

// GetQueues lists all queue records
func (a *Server) GetQueues(request *Request) *msgq.Envelope {
	if !a.authorized(request) {
		return msgq.Unauthorized(INVALID_SECURITY_TOKEN)
	}
	queues, err := a.catalog.Query(catalog.Filter{Type: msgq.QUEUE})
	if err != nil {
		return msgq.InternalServerError(err.Error())
	}
	return msgq.Ok(queues)
}

// DeleteQueue removes the queue record, evicts its manager, and removes its
// durable store. Broker-side message state does not outlive the record.
func (a *Server) DeleteQueue(request *Request) *msgq.Envelope {
	if !a.authorized(request) {
		return msgq.Unauthorized(INVALID_SECURITY_TOKEN)
	}
	dest, err := a.catalog.QueryOne(catalog.Filter{Type: msgq.QUEUE, Name: request.Name})
	if err != nil {
		return msgq.InternalServerError(err.Error())
	}
	if dest == nil {
		return msgq.NotFound(QUEUE_NOT_FOUND)
	}
	if err := a.catalog.Delete(dest); err != nil {
		if err == catalog.ErrDestinationNotFound {
			return msgq.NotFound(QUEUE_NOT_FOUND)
		}
		return msgq.InternalServerError(err.Error())
	}

	a.evictor.EvictManager(dest.Name)
	if dest.Persistent {
		if err := a.stores.Remove(dest.Name); err != nil {
			LOG_EVENT_STORE_REMOVE_FAILED.Log(logger.Error()).Err(err).Str(logging.QUEUE, dest.Name).Msg("")
		}
	}
	LOG_EVENT_DESTINATION_DELETED.Log(logger.Info()).Str(logging.QUEUE, dest.Name).Msg("")
	return msgq.Ok(dest)
}

// CreateTopic inserts a topic record with a derived token and an empty
// subscriber list
func (a *Server) CreateTopic(request *Request) *msgq.Envelope {
	if !a.authorized(request) {
		return msgq.Unauthorized(INVALID_SECURITY_TOKEN)
	}
	if strings.TrimSpace(request.Name) == "" {
		return msgq.BadRequest(msgq.ErrDestinationNameMustNotBeBlank.Error())
	}

	existing, err := a.catalog.QueryOne(catalog.Filter{Type: msgq.TOPIC, Name: request.Name})
	if err != nil {
		return msgq.InternalServerError(err.Error())
	}
	if existing != nil {
		return msgq.BadRequest(TOPIC_ALREADY_EXISTS)
	}

	dest, err := a.catalog.Insert(&msgq.Destination{
		Type:        msgq.TOPIC,
		Name:        request.Name,
		Token:       a.tokens.Derive(request.Name),
		Subscribers: []*msgq.Subscriber{},
	})
	if err == catalog.ErrDestinationAlreadyExists {
		return msgq.BadRequest(TOPIC_ALREADY_EXISTS)
	}
	if err != nil {
		return msgq.InternalServerError(err.Error())
	}
	LOG_EVENT_DESTINATION_CREATED.Log(logger.Info()).Str(logging.TOPIC, dest.Name).Msg("")
	return msgq.Ok(dest)
}

// GetTopics lists all topic records
func (a *Server) GetTopics(request *Request) *msgq.Envelope {
	if !a.authorized(request) {
		return msgq.Unauthorized(INVALID_SECURITY_TOKEN)
	}
	topics, err := a.catalog.Query(catalog.Filter{Type: msgq.TOPIC})
	if err != nil {
		return msgq.InternalServerError(err.Error())
	}
	return msgq.Ok(topics)
}

// DeleteTopic removes the topic record
func (a *Server) DeleteTopic(request *Request) *msgq.Envelope {
	if !a.authorized(request) {
		return msgq.Unauthorized(INVALID_SECURITY_TOKEN)
	}
	dest, err := a.catalog.QueryOne(catalog.Filter{Type: msgq.TOPIC, Name: request.Name})
	if err != nil {
		return msgq.InternalServerError(err.Error())
	}
	if dest == nil {
		return msgq.NotFound(TOPIC_NOT_FOUND)
	}
	if err := a.catalog.Delete(dest); err != nil {
		if err == catalog.ErrDestinationNotFound {
			return msgq.NotFound(TOPIC_NOT_FOUND)
		}
		return msgq.InternalServerError(err.Error())
	}
	LOG_EVENT_DESTINATION_DELETED.Log(logger.Info()).Str(logging.TOPIC, dest.Name).Msg("")
	return msgq.Ok(dest)
}

// GetDestination looks up a destination of either type by name.
// Exactly one match is required - a queue and a topic sharing the name is
// reported as not found rather than returning an arbitrary one.
func (a *Server) GetDestination(request *Request) *msgq.Envelope {
	if !a.authorized(request) {
		return msgq.Unauthorized(INVALID_SECURITY_TOKEN)
	}
	dest, err := a.catalog.QueryOne(catalog.Filter{Name: request.Name})
	if err != nil {
		return msgq.InternalServerError(err.Error())
	}
	if dest == nil {
		return msgq.NotFound(DESTINATION_NOT_FOUND)
	}
	return msgq.Ok(dest)
}

// RegisterSubscriber upserts a subscriber on the topic : a subscriber with
// the same name gets its endpoint updated in place, otherwise it is appended.
func (a *Server) RegisterSubscriber(request *Request) *msgq.Envelope {
	if !a.authorized(request) {
		return msgq.Unauthorized(INVALID_SECURITY_TOKEN)
	}
	if err := request.Subscriber.Validate(); err != nil {
		return msgq.BadRequest(err.Error())
	}

	dest, err := a.catalog.QueryOne(catalog.Filter{Type: msgq.TOPIC, Name: request.Name})
	if err != nil {
		return msgq.InternalServerError(err.Error())
	}
	if dest == nil {
		return msgq.NotFound(TOPIC_NOT_FOUND)
	}

	registered := false
	for _, sub := range dest.Subscribers {
		if sub.Name == request.Subscriber.Name {
			sub.Endpoint = request.Subscriber.Endpoint
			registered = true
			break
		}
	}
	if !registered {
		dest.Subscribers = append(dest.Subscribers, request.Subscriber)
	}

	if err := a.catalog.Update(dest); err != nil {
		return msgq.InternalServerError(err.Error())
	}
	LOG_EVENT_SUBSCRIBER_REGISTERED.Log(logger.Info()).
		Str(logging.TOPIC, dest.Name).
		Str(logging.SUBSCRIBER, request.Subscriber.Name).
		Msg("")
	return msgq.Ok(dest)
}

// GenerateToken derives a token for the presented pass phrase
func (a *Server) GenerateToken(request *Request) *msgq.Envelope {
	if !a.authorized(request) {
		return msgq.Unauthorized(INVALID_SECURITY_TOKEN)
	}
	if request.PassPhrase == "" {
		return msgq.BadRequest(PASSPHRASE_REQUIRED)
	}
	return msgq.Ok(a.tokens.Derive(request.PassPhrase))
}

// Shutdown schedules termination after SHUTDOWN_DELAY so the response can
// flush, then invokes the injected shutdown func
func (a *Server) Shutdown(request *Request) *msgq.Envelope {
	if !a.authorized(request) {
		return msgq.Unauthorized(INVALID_SECURITY_TOKEN)
	}
	LOG_EVENT_SHUTDOWN_INITIATED.Log(logger.Info()).Msg("")
	time.AfterFunc(SHUTDOWN_DELAY, a.shutdown)
	return msgq.Ok(SHUTDOWN_INITIATED)
}
