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
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/oysterpack/msgq.go/pkg/msgq"
	"github.com/oysterpack/msgq.go/pkg/msgq/topic"
)

// fakeTransport records every push call and can be told to fail for specific hosts
type fakeTransport struct {
	sync.Mutex
	calls     []*topic.Request
	failHosts map[string]bool
	called    chan struct{}
}

func newFakeTransport(expectedCalls int, failHosts ...string) *fakeTransport {
	fail := map[string]bool{}
	for _, host := range failHosts {
		fail[host] = true
	}
	return &fakeTransport{failHosts: fail, called: make(chan struct{}, expectedCalls)}
}

func (a *fakeTransport) Call(request *topic.Request) (*topic.Response, error) {
	a.Lock()
	a.calls = append(a.calls, request)
	a.Unlock()
	a.called <- struct{}{}
	if a.failHosts[request.Host] {
		return nil, errors.New("connection refused")
	}
	return &topic.Response{StatusCode: 200}, nil
}

func (a *fakeTransport) waitForCalls(t *testing.T, n int) []*topic.Request {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-a.called:
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for push call %d of %d", i+1, n)
		}
	}
	a.Lock()
	defer a.Unlock()
	calls := make([]*topic.Request, len(a.calls))
	copy(calls, a.calls)
	return calls
}

func alertsTopic() *msgq.Destination {
	return &msgq.Destination{
		ID:   "topic-1",
		Type: msgq.TOPIC,
		Name: "alerts",
		Subscribers: []*msgq.Subscriber{
			{Name: "S1", Endpoint: "http://s1.example.com/push"},
			{Name: "S2", Endpoint: "https://s2.example.com:8443/hooks"},
		},
	}
}

func TestManager_Publish_FansOutToAllSubscribers(t *testing.T) {
	transport := newFakeTransport(2)
	manager := topic.NewManager(alertsTopic(), transport)

	receipt := manager.Publish(&msgq.MessageRequest{Content: json.RawMessage(`{"alert":"disk full"}`)})
	if receipt.Status != msgq.RECEIPT_SUCCESS {
		t.Fatalf("publish should have succeeded : %v", receipt.Reason)
	}
	if receipt.UUID == "" {
		t.Error("receipt should carry the assigned message uuid")
	}

	calls := transport.waitForCalls(t, 2)
	hosts := map[string]*topic.Request{}
	for _, call := range calls {
		hosts[call.Host] = call
	}
	s1, ok := hosts["s1.example.com"]
	if !ok {
		t.Fatal("S1 was not pushed to")
	}
	if s1.Port != topic.HTTP_PORT || s1.Secured || s1.Path != "/push" {
		t.Errorf("S1 request : %+v", s1)
	}
	s2, ok := hosts["s2.example.com"]
	if !ok {
		t.Fatal("S2 was not pushed to")
	}
	if s2.Port != 8443 || !s2.Secured || s2.Path != "/hooks" {
		t.Errorf("S2 request : %+v", s2)
	}

	// pushed payload is the enveloped message, not the raw request content
	msg := &msgq.Message{}
	if err := json.Unmarshal(s1.Payload, msg); err != nil {
		t.Fatal(err)
	}
	if msg.UUID != receipt.UUID {
		t.Errorf("pushed message uuid should match the receipt : %v != %v", msg.UUID, receipt.UUID)
	}
	if string(msg.Content) != `{"alert":"disk full"}` {
		t.Errorf("pushed content : %s", msg.Content)
	}
}

func TestManager_Publish_SubscriberFailureIsIsolated(t *testing.T) {
	transport := newFakeTransport(2, "s2.example.com")
	manager := topic.NewManager(alertsTopic(), transport)

	receipt := manager.Publish(&msgq.MessageRequest{Content: json.RawMessage(`{"n":1}`)})
	if receipt.Status != msgq.RECEIPT_SUCCESS {
		t.Fatalf("an unreachable subscriber must not fail the publish : %v", receipt.Reason)
	}

	calls := transport.waitForCalls(t, 2)
	if len(calls) != 2 {
		t.Fatalf("both subscribers should have been attempted : %d", len(calls))
	}
}

func TestManager_Publish_InvalidEndpointIsIsolated(t *testing.T) {
	dest := alertsTopic()
	dest.Subscribers = append(dest.Subscribers, &msgq.Subscriber{Name: "S3", Endpoint: "ftp://nope"})
	transport := newFakeTransport(2)
	manager := topic.NewManager(dest, transport)

	receipt := manager.Publish(&msgq.MessageRequest{Content: json.RawMessage(`{"n":2}`)})
	if receipt.Status != msgq.RECEIPT_SUCCESS {
		t.Fatalf("an invalid subscriber endpoint must not fail the publish : %v", receipt.Reason)
	}

	// only the two valid subscribers produce transport calls
	calls := transport.waitForCalls(t, 2)
	for _, call := range calls {
		if call.Host == "nope" {
			t.Error("the invalid endpoint should never reach the transport")
		}
	}
}

func TestManager_Publish_NoSubscribers(t *testing.T) {
	dest := alertsTopic()
	dest.Subscribers = nil
	transport := newFakeTransport(0)
	manager := topic.NewManager(dest, transport)

	receipt := manager.Publish(&msgq.MessageRequest{Content: json.RawMessage(`{"n":3}`)})
	if receipt.Status != msgq.RECEIPT_SUCCESS {
		t.Fatalf("publishing to a topic with no subscribers succeeds : %v", receipt.Reason)
	}
}
