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
	"github.com/oysterpack/msgq.go/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	METRIC_NAMESPACE = "msgq"
	METRIC_SUBSYSTEM = "topic"
)

var (
	deliveryCounter = metrics.GetOrMustRegisterCounterVec(&metrics.CounterVecOpts{
		CounterOpts: &prometheus.CounterOpts{
			Namespace: METRIC_NAMESPACE,
			Subsystem: METRIC_SUBSYSTEM,
			Name:      "deliveries_total",
			Help:      "Number of subscriber push deliveries attempted",
		},
		Labels: []string{"topic", "subscriber"},
	})

	deliveryFailedCounter = metrics.GetOrMustRegisterCounterVec(&metrics.CounterVecOpts{
		CounterOpts: &prometheus.CounterOpts{
			Namespace: METRIC_NAMESPACE,
			Subsystem: METRIC_SUBSYSTEM,
			Name:      "deliveries_failed_total",
			Help:      "Number of subscriber push deliveries that failed",
		},
		Labels: []string{"topic", "subscriber"},
	})
)
