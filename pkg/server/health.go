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
	"net/http"
	"time"

	cerrors "github.com/NVIDIA/cooklang/pkg/errors"
	"github.com/NVIDIA/cooklang/pkg/serializer"
)

// readyCheckTimeout bounds all readiness checks of one /ready request.
const readyCheckTimeout = 2 * time.Second

// ReadyCheck reports whether a dependency of the service can take traffic.
type ReadyCheck func(ctx context.Context) error

// HealthResponse is the body of the liveness and readiness endpoints.
type HealthResponse struct {
	Status    string            `json:"status" yaml:"status"`
	Timestamp time.Time         `json:"timestamp" yaml:"timestamp"`
	Reason    string            `json:"reason,omitempty" yaml:"reason,omitempty"`
	Checks    map[string]string `json:"checks,omitempty" yaml:"checks,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	serializer.RespondJSON(w, http.StatusOK, HealthResponse{Status: "healthy", Timestamp: time.Now().UTC()})
}

// handleReady answers 200 once the server is serving and every check
// passes. Checks run in registration order and all of them are reported.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	resp := HealthResponse{Status: "ready", Timestamp: time.Now().UTC()}
	if !s.isReady() {
		resp.Status = "not_ready"
		resp.Reason = "server is not serving"
		serializer.RespondJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	if len(s.checks) > 0 {
		ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
		defer cancel()

		resp.Checks = make(map[string]string, len(s.checks))
		for _, c := range s.checks {
			if err := c.check(ctx); err != nil {
				resp.Checks[c.name] = err.Error()
				if resp.Status == "ready" {
					resp.Status = "not_ready"
					resp.Reason = "check " + c.name + " failed"
				}
				continue
			}
			resp.Checks[c.name] = "ok"
		}
	}

	status := http.StatusOK
	if resp.Status != "ready" {
		status = http.StatusServiceUnavailable
	}
	serializer.RespondJSON(w, status, resp)
}

// allowGet writes a 405 and returns false for anything but GET.
func allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet {
		return true
	}
	w.Header().Set("Allow", http.MethodGet)
	WriteError(w, r, http.StatusMethodNotAllowed, cerrors.ErrCodeMethodNotAllowed,
		"Method not allowed", false, map[string]any{"method": r.Method})
	return false
}
