// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package cooklang

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/NVIDIA/cooklang/pkg/diag"
)

var (
	// Recipe parsing metrics
	recipeParseDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cookd_recipe_parse_duration_seconds",
			Help:    "Duration of parsing and analyzing one recipe in seconds",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
		},
	)

	recipesParsed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cookd_recipes_parsed_total",
			Help: "Total number of parsed recipes by result",
		},
		[]string{"result"},
	)

	recipeDiagnostics = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cookd_recipe_diagnostics_total",
			Help: "Total number of diagnostics reported by severity and code",
		},
		[]string{"severity", "code"},
	)

	// Conversion metrics
	conversions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cookd_conversions_total",
			Help: "Total number of unit conversion requests by result",
		},
		[]string{"result"},
	)
)

func observeParse(r diag.Report, d time.Duration) {
	recipeParseDuration.Observe(d.Seconds())
	result := "ok"
	if r.HasErrors() {
		result = "invalid"
	}
	recipesParsed.WithLabelValues(result).Inc()
	for _, e := range r.Errors {
		recipeDiagnostics.WithLabelValues("error", e.Code).Inc()
	}
	for _, w := range r.Warnings {
		recipeDiagnostics.WithLabelValues("warning", w.Code).Inc()
	}
}
