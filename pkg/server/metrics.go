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

package server

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace  = "cookd"
	metricsSubsystem  = "http"
	methodLabelOther  = "OTHER"
	routeLabelUnnamed = "unnamed"
)

// Reasons a request is answered by the middleware instead of its handler.
const (
	rejectRateLimit = "rate_limit"
	rejectBodySize  = "body_too_large"
	rejectVersion   = "unsupported_version"
	rejectPanic     = "panic"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "requests_total",
			Help:      "Requests answered, by route pattern, method and status class",
		},
		[]string{"route", "method", "class"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "request_duration_seconds",
			Help:      "Time to answer a request, by route pattern",
			Buckets:   []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"route"},
	)

	// Recipes are sent as request bodies, so this is the recipe size
	// distribution for the parse and scale routes.
	requestBodyBytes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "request_body_bytes",
			Help:      "Bytes read from request bodies, by route pattern",
			Buckets:   prometheus.ExponentialBuckets(64, 4, 8),
		},
		[]string{"route"},
	)

	requestsInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "requests_in_flight",
			Help:      "Requests being processed, by route pattern",
		},
		[]string{"route"},
	)

	requestsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "requests_rejected_total",
			Help:      "Requests answered by the middleware, by route pattern and reason",
		},
		[]string{"route", "reason"},
	)
)

// instrument records the metrics of one route. Labels use the registered
// pattern, never the request path, so unknown paths served by "/" do not
// grow the series count.
func instrument(route string) middleware {
	if route == "" {
		route = routeLabelUnnamed
	}
	inFlight := requestsInFlight.WithLabelValues(route)
	duration := requestDuration.WithLabelValues(route)
	bodySize := requestBodyBytes.WithLabelValues(route)

	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			inFlight.Inc()
			defer inFlight.Dec()

			var body *countingBody
			if r.Body != nil && r.Body != http.NoBody {
				body = &countingBody{ReadCloser: r.Body}
				r.Body = body
			}

			rw := newResponseWriter(w)
			next(rw, r)

			requestsTotal.WithLabelValues(route, methodLabel(r.Method), statusClass(rw.Status())).Inc()
			duration.Observe(time.Since(start).Seconds())
			if body != nil && body.n > 0 {
				bodySize.Observe(float64(body.n))
			}
		}
	}
}

func reject(route, reason string) {
	if route == "" {
		route = routeLabelUnnamed
	}
	requestsRejected.WithLabelValues(route, reason).Inc()
}

// methodLabel keeps the method label to the standard verbs.
func methodLabel(m string) string {
	switch m {
	case http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
		http.MethodPatch, http.MethodDelete, http.MethodOptions:
		return m
	default:
		return methodLabelOther
	}
}

// statusClass turns 404 into "4xx".
func statusClass(code int) string {
	if code < 100 || code > 599 {
		return "unknown"
	}
	return strconv.Itoa(code/100) + "xx"
}

// countingBody counts the bytes a handler reads from a request body.
type countingBody struct {
	io.ReadCloser
	n int64
}

func (b *countingBody) Read(p []byte) (int, error) {
	n, err := b.ReadCloser.Read(p)
	b.n += int64(n)
	return n, err
}
