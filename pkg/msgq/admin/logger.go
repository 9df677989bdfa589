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

package admin

import "github.com/oysterpack/msgq.go/pkg/logging"

type pkgobject struct{}

var logger = logging.NewPackageLogger(pkgobject{})

const (
	LOG_EVENT_DESTINATION_CREATED       logging.Event = "DESTINATION_CREATED"
	LOG_EVENT_DESTINATION_DELETED       logging.Event = "DESTINATION_DELETED"
	LOG_EVENT_SUBSCRIBER_REGISTERED     logging.Event = "SUBSCRIBER_REGISTERED"
	LOG_EVENT_STORE_PROVISIONING_FAILED logging.Event = "STORE_PROVISIONING_FAILED"
	LOG_EVENT_STORE_REMOVE_FAILED       logging.Event = "STORE_REMOVE_FAILED"
	LOG_EVENT_SHUTDOWN_INITIATED        logging.Event = "SHUTDOWN_INITIATED"
)
