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

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Counter pairs the registered counter with the opts it was registered with
type Counter struct {
	prometheus.Counter
	*prometheus.CounterOpts
}

// CounterVec pairs the registered counter vector with the opts it was registered with
type CounterVec struct {
	*prometheus.CounterVec
	*CounterVecOpts
}

// Gauge pairs the registered gauge with the opts it was registered with
type Gauge struct {
	prometheus.Gauge
	*prometheus.GaugeOpts
}

// GaugeVec pairs the registered gauge vector with the opts it was registered with
type GaugeVec struct {
	*prometheus.GaugeVec
	*GaugeVecOpts
}

// CounterVecOpts counter vector metric options
type CounterVecOpts struct {
	*prometheus.CounterOpts
	Labels []string
}

// GaugeVecOpts gauge vector metric options
type GaugeVecOpts struct {
	*prometheus.GaugeOpts
	Labels []string
}

// CounterFQName returns the fully qualified name for the counter.
func CounterFQName(opts *prometheus.CounterOpts) string {
	o := prometheus.Opts(*opts)
	return MetricFQName(&o)
}

// GaugeFQName returns the fully qualified name for the gauge.
func GaugeFQName(opts *prometheus.GaugeOpts) string {
	o := prometheus.Opts(*opts)
	return MetricFQName(&o)
}

// MetricFQName builds the metric fully qualified name from its opts
func MetricFQName(opts *prometheus.Opts) string {
	return prometheus.BuildFQName(opts.Namespace, opts.Subsystem, opts.Name)
}

// FindMetricFamilyByName finds a MetricFamily by name.
// nil is returned if no match is found
func FindMetricFamilyByName(gatheredMetrics []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, m := range gatheredMetrics {
		if *m.Name == name {
			return m
		}
	}
	return nil
}
