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

package topic_test

import (
	"testing"

	"github.com/oysterpack/msgq.go/pkg/msgq/topic"
)

func TestParseEndpoint(t *testing.T) {
	endpoint, err := topic.ParseEndpoint("http://alerts.example.com/hooks/msgq")
	if err != nil {
		t.Fatal(err)
	}
	if endpoint.Host != "alerts.example.com" {
		t.Errorf("host : %v", endpoint.Host)
	}
	if endpoint.Port != topic.HTTP_PORT {
		t.Errorf("port : %v", endpoint.Port)
	}
	if endpoint.Secured {
		t.Error("http endpoint should not be secured")
	}
	if endpoint.Path != "/hooks/msgq" {
		t.Errorf("path : %v", endpoint.Path)
	}
}

func TestParseEndpoint_HTTPS(t *testing.T) {
	endpoint, err := topic.ParseEndpoint("https://alerts.example.com")
	if err != nil {
		t.Fatal(err)
	}
	if !endpoint.Secured {
		t.Error("https endpoint should be secured")
	}
	if endpoint.Port != topic.HTTPS_PORT {
		t.Errorf("port : %v", endpoint.Port)
	}
	if endpoint.Path != "/" {
		t.Errorf("path should default to / : %v", endpoint.Path)
	}
}

func TestParseEndpoint_ExplicitPort(t *testing.T) {
	endpoint, err := topic.ParseEndpoint("http://localhost:9090/push")
	if err != nil {
		t.Fatal(err)
	}
	if endpoint.Host != "localhost" {
		t.Errorf("host : %v", endpoint.Host)
	}
	if endpoint.Port != 9090 {
		t.Errorf("port : %v", endpoint.Port)
	}
}

func TestParseEndpoint_Invalid(t *testing.T) {
	for _, endpoint := range []string{
		"",
		"ftp://host/path",
		"http://",
		"://missing-scheme",
	} {
		if _, err := topic.ParseEndpoint(endpoint); err == nil {
			t.Errorf("endpoint should have been rejected : %q", endpoint)
		}
	}
}
