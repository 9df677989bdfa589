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
	"net/url"
	"strconv"
)

// default ports per scheme
const (
	HTTP_PORT  = 80
	HTTPS_PORT = 443
)

// Endpoint is a parsed subscriber push target
type Endpoint struct {
	Host    string
	Port    int
	Secured bool
	Path    string
}

// ParseEndpoint parses a subscriber endpoint URL.
// The scheme must be http or https - https implies TLS and a default port of 443.
// An absent explicit port falls back to the scheme default, an absent path to "/".
func ParseEndpoint(endpoint string) (*Endpoint, error) {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, err
	}

	secured := false
	port := HTTP_PORT
	switch parsed.Scheme {
	case "http":
	case "https":
		secured = true
		port = HTTPS_PORT
	default:
		return nil, errUnsupportedScheme(endpoint, parsed.Scheme)
	}

	host := parsed.Hostname()
	if host == "" {
		return nil, errEndpointHostMissing(endpoint)
	}
	if p := parsed.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
	}

	path := parsed.Path
	if path == "" {
		path = "/"
	}

	return &Endpoint{Host: host, Port: port, Secured: secured, Path: path}, nil
}
