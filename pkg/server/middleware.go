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
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	cerrors "github.com/NVIDIA/cooklang/pkg/errors"
)

const headerRequestID = "X-Request-Id"

// middleware decorates a handler.
type middleware func(http.HandlerFunc) http.HandlerFunc

// chain wraps h so that the first middleware runs first.
func chain(h http.HandlerFunc, mws ...middleware) http.HandlerFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// wrap puts an application route behind the middleware stack. The request
// id comes before anything that can answer with an error, and panics are
// recovered before a rate limit token is spent.
func (s *Server) wrap(route string, h http.HandlerFunc) http.HandlerFunc {
	return chain(h,
		instrument(route),
		assignRequestID,
		recoverPanic(route),
		negotiateVersion(route),
		s.limitRate(route),
		s.limitBody(route),
		logRequest(route),
	)
}

// assignRequestID keeps a client supplied UUID, normalized, and generates
// one otherwise.
func assignRequestID(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		if given, err := uuid.Parse(r.Header.Get(headerRequestID)); err == nil {
			id = given.String()
		}

		w.Header().Set(headerRequestID, id)
		next(w, r.WithContext(context.WithValue(r.Context(), contextKeyRequestID, id)))
	}
}

func recoverPanic(route string) middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}
				reject(route, rejectPanic)
				slog.Error("panic recovered",
					"error", fmt.Sprint(v),
					"requestID", RequestID(r.Context()),
					"route", route,
					"method", r.Method,
				)
				WriteError(w, r, http.StatusInternalServerError, cerrors.ErrCodeInternal,
					"Internal server error", true, map[string]any{"route": route})
			}()
			next(w, r)
		}
	}
}

// limitRate takes one token per request. A request that would have to wait
// is rejected with the wait as Retry-After.
func (s *Server) limitRate(route string) middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			res := s.rateLimiter.Reserve()
			if delay := res.Delay(); !res.OK() || delay > 0 {
				res.Cancel()
				retry := 1
				if res.OK() {
					retry = max(1, int(math.Ceil(delay.Seconds())))
				}
				reject(route, rejectRateLimit)
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				WriteError(w, r, http.StatusTooManyRequests, cerrors.ErrCodeRateLimitExceeded,
					"Rate limit exceeded", true, map[string]any{
						"limit":      float64(s.config.RateLimit),
						"burst":      s.config.RateLimitBurst,
						"retryAfter": retry,
					})
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.FormatFloat(float64(s.config.RateLimit), 'f', -1, 64))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(0, int(s.rateLimiter.Tokens()))))
			next(w, r)
		}
	}
}

// limitBody caps request bodies at MaxBodyBytes. Requests that announce a
// larger body are rejected before the handler runs; others fail on read once
// the limit is crossed.
func (s *Server) limitBody(route string) middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			limit := s.config.MaxBodyBytes
			if limit <= 0 || r.Body == nil || r.Body == http.NoBody {
				next(w, r)
				return
			}
			if r.ContentLength > limit {
				reject(route, rejectBodySize)
				WriteError(w, r, http.StatusRequestEntityTooLarge, cerrors.ErrCodeInvalidRequest,
					"Request body too large", false, map[string]any{
						"limit":         limit,
						"contentLength": r.ContentLength,
					})
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next(w, r)
		}
	}
}

// logRequest logs every completed request at debug level and server errors
// at warn level.
func logRequest(route string) middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := newResponseWriter(w)
			next(rw, r)

			level := slog.LevelDebug
			if rw.Status() >= http.StatusInternalServerError {
				level = slog.LevelWarn
			}
			slog.Log(r.Context(), level, "request completed",
				"requestID", RequestID(r.Context()),
				"apiVersion", APIVersion(r.Context()),
				"route", route,
				"method", r.Method,
				"path", r.URL.Path,
				"status", rw.Status(),
				"bytes", rw.Written(),
				"duration", time.Since(start).String(),
			)
		}
	}
}
