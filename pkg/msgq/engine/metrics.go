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
	"github.com/oysterpack/msgq.go/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	METRIC_NAMESPACE = "msgq"
	METRIC_SUBSYSTEM = "engine"
)

var (
	reapCounter = metrics.GetOrMustRegisterCounter(&prometheus.CounterOpts{
		Namespace: METRIC_NAMESPACE,
		Subsystem: METRIC_SUBSYSTEM,
		Name:      "reaper_cycles_total",
		Help:      "Number of eviction cycles run by the reaper",
	})

	managerGauge = metrics.GetOrMustRegisterGauge(&prometheus.GaugeOpts{
		Namespace: METRIC_NAMESPACE,
		Subsystem: METRIC_SUBSYSTEM,
		Name:      "queue_managers",
		Help:      "Number of active queue managers",
	})

	catalogUpGauge = metrics.GetOrMustRegisterGauge(&prometheus.GaugeOpts{
		Namespace: METRIC_NAMESPACE,
		Subsystem: METRIC_SUBSYSTEM,
		Name:      "catalog_up",
		Help:      "Whether the last catalog operation succeeded : 1 = up, 0 = down",
	})
)

// reports the outcome of a catalog operation on the catalog_up gauge
func catalogHealth(err error) {
	if err != nil {
		catalogUpGauge.Set(0)
		return
	}
	catalogUpGauge.Set(1)
}
