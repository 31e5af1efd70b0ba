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

//go:build !root

package prometheus

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

// TestInitStrategyMetrics tests that we are initializing the Prometheus metrics
// correctly for all of the strategies, and that updates are counted.
func TestInitStrategyMetrics(t *testing.T) {
	var prom Prometheus
	if err := prom.Init(); err != nil {
		t.Errorf("init failed with: %+v", err)
		return
	}
	prom.InitStrategyMetrics([]string{"DepthFirstSearch", "Rust"})
	prom.UpdateSolveTotal("Rust", "unique")
	prom.UpdateSolveTotal("Rust", "unique")
	prom.UpdateCoherenceErrorsTotal("orphan")

	// Get a list of metrics collected by Prometheus. This is the only way
	// to get Prometheus metrics without implicitly creating them.
	gatherer := prometheus.DefaultGatherer
	metrics, err := gatherer.Gather()
	if err != nil {
		t.Errorf("error while gathering metrics: %s", err)
		return
	}

	// expectedMetrics is a map: keys are metrics name and values are
	// expected and actual count of metrics with that name.
	expectedMetrics := map[string][2]int{
		"hornsolve_solve_total": {
			12, 0,
		},
		"hornsolve_coherence_errors_total": {
			2, 0,
		},
		"hornsolve_process_start_time_seconds": {
			1, 0,
		},
	}

	sum := func(name string) float64 {
		total := 0.0
		for _, metric := range metrics {
			if metric.GetName() != name {
				continue
			}
			for _, m := range metric.Metric {
				total += m.GetCounter().GetValue()
			}
		}
		return total
	}

	for _, metric := range metrics {
		for name, count := range expectedMetrics {
			if metric.GetName() == name {
				value := len(metric.Metric)
				expectedMetrics[name] = [2]int{count[0], value}
			}
		}
	}

	for name, count := range expectedMetrics {
		if count[1] != count[0] {
			t.Errorf("with: %s, expected %d metrics, got %d metrics", name, count[0], count[1])
		}
	}

	if total := sum("hornsolve_solve_total"); total != 2 {
		t.Errorf("expected 2 solves, got: %f", total)
	}
	if total := sum("hornsolve_coherence_errors_total"); total != 1 {
		t.Errorf("expected 1 coherence error, got: %f", total)
	}
}
