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

package topic

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Request describes one outbound push call to a subscriber endpoint
type Request struct {
	Host    string
	Port    int
	Secured bool
	Path    string
	Method  string
	Payload []byte
}

// URL renders the request target
func (a *Request) URL() string {
	scheme := "http"
	if a.Secured {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s:%d%s", scheme, a.Host, a.Port, a.Path)
}

// Response is the outcome of an outbound push call
type Response struct {
	StatusCode int
	Body       []byte
}

// Transport performs outbound push calls.
// Calls are expected to enforce their own timeout - an unresponsive endpoint
// must not block the caller indefinitely.
type Transport interface {
	Call(request *Request) (*Response, error)
}

// NewHTTPTransport creates a Transport over net/http with the given per-call timeout
func NewHTTPTransport(timeout time.Duration) Transport {
	return &httpTransport{
		client: &http.Client{Timeout: timeout},
	}
}

type httpTransport struct {
	client *http.Client
}

func (a *httpTransport) Call(request *Request) (*Response, error) {
	req, err := http.NewRequest(request.Method, request.URL(), bytes.NewReader(request.Payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}
