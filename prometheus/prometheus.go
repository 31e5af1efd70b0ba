// Hornsolve
// Copyright (C) 2024+ the project contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package prometheus provides functions that are useful to control and manage
// the built-in prometheus instance.
package prometheus

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultPrometheusListen is the listen address used when none is specified.
const DefaultPrometheusListen = "127.0.0.1:9233"

// SolveKinds are the possible outcomes of a solve, as used in the kind label.
var SolveKinds = []string{"none", "unique", "multiple", "ambiguous", "overflow", "error"}

// CoherenceKinds are the possible kinds of coherence errors.
var CoherenceKinds = []string{"overlap", "orphan"}

// Prometheus is the struct that contains information about the prometheus
// instance. Run Init() on it.
type Prometheus struct {
	Listen string // the listen address of the net/http server

	solveTotal              *prometheus.CounterVec // total of solves that have run
	coherenceErrorsTotal    *prometheus.CounterVec // total of coherence errors found
	processStartTimeSeconds prometheus.Gauge       // process start time in seconds since unix epoch

	server *http.Server
}

// Init some parameters - currently the Listen address.
func (obj *Prometheus) Init() error {
	if len(obj.Listen) == 0 {
		obj.Listen = DefaultPrometheusListen
	}
	obj.solveTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hornsolve_solve_total",
			Help: "Number of goals that have been solved.",
		},
		// Labels for this metric.
		// strategy: name of the search strategy: Rust, DepthFirstSearch
		// kind: outcome of the solve: unique, ambiguous, ...
		[]string{"strategy", "kind"},
	)
	prometheus.MustRegister(obj.solveTotal)

	obj.coherenceErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hornsolve_coherence_errors_total",
			Help: "Number of coherence errors that were found.",
		},
		// Labels for this metric.
		// kind: overlap or orphan
		[]string{"kind"},
	)
	prometheus.MustRegister(obj.coherenceErrorsTotal)

	obj.processStartTimeSeconds = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "hornsolve_process_start_time_seconds",
			Help: "Start time of the process since unix epoch in seconds.",
		},
	)
	prometheus.MustRegister(obj.processStartTimeSeconds)
	// directly set the processStartTimeSeconds
	obj.processStartTimeSeconds.SetToCurrentTime()

	return nil
}

// InitStrategyMetrics creates the solve metrics of every strategy, so that
// they are exported with a zero value before the first solve happens.
func (obj *Prometheus) InitStrategyMetrics(strategies []string) error {
	for _, strategy := range strategies {
		for _, kind := range SolveKinds {
			obj.solveTotal.With(prometheus.Labels{"strategy": strategy, "kind": kind})
		}
	}
	for _, kind := range CoherenceKinds {
		obj.coherenceErrorsTotal.With(prometheus.Labels{"kind": kind})
	}
	return nil
}

// Start runs a http server in a go routine, that responds to /metrics as
// prometheus would expect.
func (obj *Prometheus) Start() error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	obj.server = &http.Server{
		Addr:    obj.Listen,
		Handler: mux,
	}
	go obj.server.ListenAndServe()
	return nil
}

// Stop the http server.
func (obj *Prometheus) Stop() error {
	if obj.server == nil {
		return nil
	}
	return obj.server.Shutdown(context.Background())
}

// UpdateSolveTotal counts a solve with the given strategy and outcome.
func (obj *Prometheus) UpdateSolveTotal(strategy, kind string) error {
	labels := prometheus.Labels{"strategy": strategy, "kind": kind}
	metric := obj.solveTotal.With(labels)
	metric.Inc()
	return nil
}

// UpdateCoherenceErrorsTotal counts a coherence error of the given kind.
func (obj *Prometheus) UpdateCoherenceErrorsTotal(kind string) error {
	labels := prometheus.Labels{"kind": kind}
	metric := obj.coherenceErrorsTotal.With(labels)
	metric.Inc()
	return nil
}
