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

import (
	"time"

	"github.com/oysterpack/msgq.go/pkg/logging"
	"github.com/oysterpack/msgq.go/pkg/msgq/queue"
)

// reap runs the eviction cycle at the configured check interval until the
// engine is stopped. A cycle never fails the loop - the next tick always runs.
func (a *Engine) reap() error {
	ticker := time.NewTicker(a.checkInterval)
	defer ticker.Stop()
	for {
		select {
		case <-a.t.Dying():
			return nil
		case <-ticker.C:
			a.evictExpired(time.Now())
		}
	}
}

// evictExpired snapshots the manager set and evicts expired messages per
// manager. Request handling proceeds concurrently - each manager serializes
// its own mutations.
func (a *Engine) evictExpired(now time.Time) {
	reapCounter.Inc()

	a.RLock()
	managers := make([]queue.Manager, 0, len(a.managers))
	for _, manager := range a.managers {
		managers = append(managers, manager)
	}
	a.RUnlock()

	for _, manager := range managers {
		a.evict(manager, now)
	}
}

// evict isolates one manager's eviction - a panic is logged and the cycle
// continues with the remaining managers
func (a *Engine) evict(manager queue.Manager, now time.Time) {
	defer func() {
		if p := recover(); p != nil {
			LOG_EVENT_EVICTION_PANIC.Log(logger.Error()).
				Str(logging.QUEUE, manager.Name()).
				Msgf("%v", p)
		}
	}()
	manager.Evict(now)
}
