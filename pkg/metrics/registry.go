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
	"sync"

	"github.com/oysterpack/msgq.go/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	mutex sync.Mutex

	// Registry is the global registry
	Registry = NewRegistry(true)

	countersMap    = map[string]*Counter{}
	counterVecsMap = map[string]*CounterVec{}
	gaugesMap      = map[string]*Gauge{}
	gaugeVecsMap   = map[string]*GaugeVec{}
)

// NewRegistry creates a new registry.
// If collectProcessMetrics = true, then the prometheus GoCollector and ProcessCollector are registered.
func NewRegistry(collectProcessMetrics bool) *prometheus.Registry {
	registry := prometheus.NewRegistry()
	if collectProcessMetrics {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return registry
}

// ResetRegistry resets the prometheus Registry and clears all cached metrics.
// It is intended for tests.
func ResetRegistry() {
	mutex.Lock()
	defer mutex.Unlock()
	Registry = NewRegistry(true)
	countersMap = map[string]*Counter{}
	counterVecsMap = map[string]*CounterVec{}
	gaugesMap = map[string]*Gauge{}
	gaugeVecsMap = map[string]*GaugeVec{}
}

// Registered returns true if a metric is registered with the same name
func Registered(name string) bool {
	mutex.Lock()
	defer mutex.Unlock()
	return registered(name)
}

func registered(name string) bool {
	if _, exists := countersMap[name]; exists {
		return true
	}
	if _, exists := counterVecsMap[name]; exists {
		return true
	}
	if _, exists := gaugesMap[name]; exists {
		return true
	}
	if _, exists := gaugeVecsMap[name]; exists {
		return true
	}
	return false
}

// GetOrMustRegisterCounter first checks if a counter with the same name is already registered.
// If the counter is already registered, then the cached counter is returned.
// If the name is already registered as a different metric type, then a panic is triggered.
func GetOrMustRegisterCounter(opts *prometheus.CounterOpts) prometheus.Counter {
	const FUNC = "GetOrMustRegisterCounter"
	mutex.Lock()
	defer mutex.Unlock()
	name := CounterFQName(opts)
	if counter := countersMap[name]; counter != nil {
		return counter
	}
	if registered(name) {
		logger.Panic().Str(logging.FUNC, FUNC).
			Str("name", name).
			Err(MetricNameUsedByDifferentMetricType).
			Msg("")
	}

	counter := prometheus.NewCounter(*opts)
	Registry.MustRegister(counter)
	countersMap[name] = &Counter{counter, opts}
	return counter
}

// GetOrMustRegisterCounterVec first checks if a counter vector with the same name is already registered.
// If the counter vector is already registered, then the cached counter vector is returned.
// If the name is already registered as a different metric type, then a panic is triggered.
func GetOrMustRegisterCounterVec(opts *CounterVecOpts) *prometheus.CounterVec {
	const FUNC = "GetOrMustRegisterCounterVec"
	mutex.Lock()
	defer mutex.Unlock()
	name := CounterFQName(opts.CounterOpts)
	if counterVec := counterVecsMap[name]; counterVec != nil {
		return counterVec.CounterVec
	}
	if registered(name) {
		logger.Panic().Str(logging.FUNC, FUNC).
			Str("name", name).
			Err(MetricNameUsedByDifferentMetricType).
			Msg("")
	}

	counterVec := prometheus.NewCounterVec(*opts.CounterOpts, opts.Labels)
	Registry.MustRegister(counterVec)
	counterVecsMap[name] = &CounterVec{counterVec, opts}
	return counterVec
}

// GetOrMustRegisterGauge first checks if a gauge with the same name is already registered.
// If the gauge is already registered, then the cached gauge is returned.
// If the name is already registered as a different metric type, then a panic is triggered.
func GetOrMustRegisterGauge(opts *prometheus.GaugeOpts) prometheus.Gauge {
	const FUNC = "GetOrMustRegisterGauge"
	mutex.Lock()
	defer mutex.Unlock()
	name := GaugeFQName(opts)
	if gauge := gaugesMap[name]; gauge != nil {
		return gauge
	}
	if registered(name) {
		logger.Panic().Str(logging.FUNC, FUNC).
			Str("name", name).
			Err(MetricNameUsedByDifferentMetricType).
			Msg("")
	}

	gauge := prometheus.NewGauge(*opts)
	Registry.MustRegister(gauge)
	gaugesMap[name] = &Gauge{gauge, opts}
	return gauge
}

// GetOrMustRegisterGaugeVec first checks if a gauge vector with the same name is already registered.
// If the gauge vector is already registered, then the cached gauge vector is returned.
// If the name is already registered as a different metric type, then a panic is triggered.
func GetOrMustRegisterGaugeVec(opts *GaugeVecOpts) *prometheus.GaugeVec {
	const FUNC = "GetOrMustRegisterGaugeVec"
	mutex.Lock()
	defer mutex.Unlock()
	name := GaugeFQName(opts.GaugeOpts)
	if gaugeVec := gaugeVecsMap[name]; gaugeVec != nil {
		return gaugeVec.GaugeVec
	}
	if registered(name) {
		logger.Panic().Str(logging.FUNC, FUNC).
			Str("name", name).
			Err(MetricNameUsedByDifferentMetricType).
			Msg("")
	}

	gaugeVec := prometheus.NewGaugeVec(*opts.GaugeOpts, opts.Labels)
	Registry.MustRegister(gaugeVec)
	gaugeVecsMap[name] = &GaugeVec{gaugeVec, opts}
	return gaugeVec
}

// CounterNames returns the names of all registered counters
func CounterNames() []string {
	mutex.Lock()
	defer mutex.Unlock()
	names := make([]string, len(countersMap))
	i := 0
	for name := range countersMap {
		names[i] = name
		i++
	}
	return names
}
