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

// Package rest exposes the broker over HTTP :
//
//	POST /msg/publish        - publish a message to a queue or topic
//	POST /msg/pickup         - pick up a message from a queue
//	POST /admin/{actionId}   - administrative actions
//	GET  /metrics            - prometheus metrics
//
// Every handler responds HTTP 200 with the JSON envelope carrying the logical
// status - clients inspect the envelope, not the transport status.
package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	restful "github.com/emicklei/go-restful/v3"
	"github.com/oysterpack/msgq.go/pkg/metrics"
	"github.com/oysterpack/msgq.go/pkg/msgq"
	"github.com/oysterpack/msgq.go/pkg/msgq/admin"
	"github.com/oysterpack/msgq.go/pkg/msgq/engine"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/tomb.v2"
)

// SHUTDOWN_TIMEOUT bounds the graceful drain of in-flight requests
const SHUTDOWN_TIMEOUT = 30 * time.Second

// Server is the broker's HTTP front
type Server struct {
	engine *engine.Engine
	admin  *admin.Server

	httpServer *http.Server
	t          tomb.Tomb
}

// New creates the HTTP server listening on the given port
func New(eng *engine.Engine, adminServer *admin.Server, port int) *Server {
	a := &Server{engine: eng, admin: adminServer}

	container := restful.NewContainer()
	container.Add(a.messagingWebService())
	container.Add(a.adminWebService())
	container.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	}))

	a.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: container,
	}
	return a
}

// Handler returns the routing handler - exposed for in-process testing
func (a *Server) Handler() http.Handler {
	return a.httpServer.Handler
}

// Start begins serving. The listener runs until Stop is called.
func (a *Server) Start() {
	a.t.Go(a.run)
	LOG_EVENT_SERVER_STARTED.Log(logger.Info()).Str("addr", a.httpServer.Addr).Msg("")
}

// Stop shuts the listener down gracefully, draining in-flight requests up to
// SHUTDOWN_TIMEOUT
func (a *Server) Stop() error {
	a.t.Kill(nil)
	err := a.t.Wait()
	LOG_EVENT_SERVER_STOPPED.Log(logger.Info()).Msg("")
	return err
}

func (a *Server) run() error {
	listenErr := make(chan error, 1)
	go func() {
		listenErr <- a.httpServer.ListenAndServe()
	}()

	select {
	case <-a.t.Dying():
		ctx, cancel := context.WithTimeout(context.Background(), SHUTDOWN_TIMEOUT)
		defer cancel()
		if err := a.httpServer.Shutdown(ctx); err != nil {
			LOG_EVENT_SHUTDOWN_FAILED.Log(logger.Error()).Err(err).Msg("")
		}
		return nil
	case err := <-listenErr:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func (a *Server) messagingWebService() *restful.WebService {
	ws := new(restful.WebService)
	ws.Path("/msg").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	ws.Route(ws.POST("/publish").To(a.publish).
		Doc("publish a message to a queue or topic").
		Reads(msgq.MessageRequest{}).
		Writes(msgq.Envelope{}))
	ws.Route(ws.POST("/pickup").To(a.pickup).
		Doc("pick up a message from a queue").
		Reads(msgq.MessageRequest{}).
		Writes(msgq.Envelope{}))
	return ws
}

func (a *Server) adminWebService() *restful.WebService {
	ws := new(restful.WebService)
	ws.Path("/admin").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	ws.Route(ws.POST("/{actionId}").To(a.adminAction).
		Doc("dispatch an administrative action").
		Param(ws.PathParameter("actionId", "administrative action code").DataType("string")).
		Reads(admin.Request{}).
		Writes(msgq.Envelope{}))
	return ws
}

func (a *Server) publish(req *restful.Request, res *restful.Response) {
	request := &msgq.MessageRequest{}
	if err := req.ReadEntity(request); err != nil {
		writeEnvelope(res, msgq.BadRequest(msgq.ErrInvalidMessageStructure.Error()))
		return
	}
	writeEnvelope(res, a.engine.HandlePublish(request))
}

func (a *Server) pickup(req *restful.Request, res *restful.Response) {
	request := &msgq.MessageRequest{}
	if err := req.ReadEntity(request); err != nil {
		writeEnvelope(res, msgq.BadRequest(msgq.ErrInvalidMessageStructure.Error()))
		return
	}
	writeEnvelope(res, a.engine.HandlePickup(request))
}

func (a *Server) adminAction(req *restful.Request, res *restful.Response) {
	request := &admin.Request{}
	if err := req.ReadEntity(request); err != nil {
		writeEnvelope(res, msgq.BadRequest(err.Error()))
		return
	}
	writeEnvelope(res, a.admin.Dispatch(req.PathParameter("actionId"), request))
}

func writeEnvelope(res *restful.Response, envelope *msgq.Envelope) {
	if err := res.WriteHeaderAndEntity(http.StatusOK, envelope); err != nil {
		LOG_EVENT_WRITE_RESPONSE_FAILED.Log(logger.Error()).Err(err).Msg("")
	}
}
