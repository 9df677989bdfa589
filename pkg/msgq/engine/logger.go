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

package engine

import "github.com/oysterpack/msgq.go/pkg/logging"

type pkgobject struct{}

var logger = logging.NewPackageLogger(pkgobject{})

const (
	LOG_EVENT_ENGINE_STARTED        logging.Event = "ENGINE_STARTED"
	LOG_EVENT_ENGINE_STOPPED        logging.Event = "ENGINE_STOPPED"
	LOG_EVENT_MANAGER_CREATED       logging.Event = "MANAGER_CREATED"
	LOG_EVENT_MANAGER_EVICTED       logging.Event = "MANAGER_EVICTED"
	LOG_EVENT_MANAGER_CREATE_FAILED logging.Event = "MANAGER_CREATE_FAILED"
	LOG_EVENT_CATALOG_QUERY_FAILED  logging.Event = "CATALOG_QUERY_FAILED"
	LOG_EVENT_EVICTION_PANIC        logging.Event = "EVICTION_PANIC"
)
