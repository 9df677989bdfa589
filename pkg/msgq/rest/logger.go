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

package rest

import "github.com/oysterpack/msgq.go/pkg/logging"

type pkgobject struct{}

var logger = logging.NewPackageLogger(pkgobject{})

const (
	LOG_EVENT_SERVER_STARTED        logging.Event = "SERVER_STARTED"
	LOG_EVENT_SERVER_STOPPED        logging.Event = "SERVER_STOPPED"
	LOG_EVENT_SHUTDOWN_FAILED       logging.Event = "SHUTDOWN_FAILED"
	LOG_EVENT_WRITE_RESPONSE_FAILED logging.Event = "WRITE_RESPONSE_FAILED"
)
