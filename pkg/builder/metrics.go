// Copyright (c) 2026, winsock-http authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package builder

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Phase names used in metrics and history.
const (
	PhaseGenerate  = "generate"
	PhaseConfigure = "configure"
	PhaseBuild     = "build"
)

// metrics are registered on a per-Builder registry so that several builders
// (and tests) never collide on the default registerer.
type metrics struct {
	registry      *prometheus.Registry
	phaseDuration *prometheus.HistogramVec
	invocations   *prometheus.CounterVec
	artifacts     *prometheus.GaugeVec
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &metrics{
		registry: reg,
		phaseDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wsbuild_phase_duration_seconds",
				Help:    "Time taken by each build phase",
				Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 30, 60, 300, 1200},
			},
			[]string{"phase"}, // generate, configure, build
		),
		invocations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wsbuild_phase_invocations_total",
				Help: "Total number of phase invocations",
			},
			[]string{"phase", "status"}, // success or error
		),
		artifacts: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "wsbuild_artifacts",
				Help: "Number of libraries produced by the last build",
			},
			[]string{"kind"},
		),
	}
}

func (m *metrics) observe(phase string, seconds float64, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.phaseDuration.WithLabelValues(phase).Observe(seconds)
	m.invocations.WithLabelValues(phase, status).Inc()
}
