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
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "github.com/NVIDIA/cooklang/pkg/errors"
)

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decodeHealth(t *testing.T, rec *httptest.ResponseRecorder) HealthResponse {
	t.Helper()
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

func TestNew(t *testing.T) {
	s := New()

	require.NotNil(t, s.config)
	require.NotNil(t, s.rateLimiter)
	assert.Equal(t, "server", s.config.Name)
	assert.Equal(t, ":8080", s.httpServer.Addr)
	assert.Contains(t, s.routes, "/", "default root is registered")
	assert.False(t, s.isReady())
}

func TestNew_Options(t *testing.T) {
	cfg := testConfig()
	cfg.Name = "cookd"

	s := New(
		WithHandler(map[string]http.HandlerFunc{parseRoute: countSteps}),
		WithConfig(cfg),
		WithVersion("1.2.3"),
		WithAddress("127.0.0.1"),
		WithPort(9090),
	)

	assert.Same(t, cfg, s.config)
	assert.Equal(t, "1.2.3", s.config.Version)
	assert.Equal(t, "127.0.0.1:9090", s.httpServer.Addr)
	assert.Contains(t, s.routes, parseRoute, "routes survive a later WithConfig")
	assert.Equal(t, []string{routeHealth, routeMetrics, routeReady, parseRoute}, s.routeList())
}

func TestWithHandler_LaterWins(t *testing.T) {
	teapot := func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) }
	s := newRecipeServer(testConfig(), WithHandler(map[string]http.HandlerFunc{parseRoute: teapot}))

	assert.Equal(t, http.StatusTeapot, postRecipe(s.Handler(), parseRoute, soupRecipe, nil).Code)
}

func TestHealthEndpoint(t *testing.T) {
	s := New()

	rec := get(s.Handler(), routeHealth)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "healthy", decodeHealth(t, rec).Status)

	post := postRecipe(s.Handler(), routeHealth, "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, post.Code)
	assert.Equal(t, http.MethodGet, post.Header().Get("Allow"))
}

func TestReadyEndpoint(t *testing.T) {
	failing := errors.New("units not loaded")

	tests := []struct {
		name       string
		serving    bool
		checks     map[string]error
		wantStatus int
		wantReason string
		wantChecks map[string]string
	}{
		{
			name:       "not serving",
			wantStatus: http.StatusServiceUnavailable,
			wantReason: "server is not serving",
		},
		{
			name:       "serving without checks",
			serving:    true,
			wantStatus: http.StatusOK,
		},
		{
			name:       "checks pass",
			serving:    true,
			checks:     map[string]error{"parser": nil},
			wantStatus: http.StatusOK,
			wantChecks: map[string]string{"parser": "ok"},
		},
		{
			name:       "check fails",
			serving:    true,
			checks:     map[string]error{"parser": nil, "units": failing},
			wantStatus: http.StatusServiceUnavailable,
			wantReason: "check units failed",
			wantChecks: map[string]string{"parser": "ok", "units": "units not loaded"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts []Option
			for name, err := range tt.checks {
				opts = append(opts, WithReadyCheck(name, func(ctx context.Context) error {
					_, ok := ctx.Deadline()
					assert.True(t, ok, "checks run with a deadline")
					return err
				}))
			}
			s := New(opts...)
			s.setReady(tt.serving)

			rec := get(s.Handler(), routeReady)
			require.Equal(t, tt.wantStatus, rec.Code)
			resp := decodeHealth(t, rec)
			assert.Equal(t, tt.wantReason, resp.Reason)
			assert.Equal(t, tt.wantChecks, resp.Checks)
		})
	}
}

func TestDefaultRootHandler(t *testing.T) {
	cfg := testConfig()
	cfg.Name = "cookd"
	cfg.Version = "1.2.3"
	s := newRecipeServer(cfg)
	s.setReady(true)

	rec := get(s.Handler(), "/")
	require.Equal(t, http.StatusOK, rec.Code)

	var info rootInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "cookd", info.Name)
	assert.Equal(t, "1.2.3", info.Version)
	assert.Equal(t, DefaultAPIVersion, info.APIVersion)
	assert.True(t, info.Ready)
	assert.Contains(t, info.Routes, parseRoute)
	assert.NotContains(t, info.Routes, "/")
	assert.NotEmpty(t, rec.Header().Get(headerRequestID), "root goes through the middleware")

	post := postRecipe(s.Handler(), "/", soupRecipe, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, post.Code)
	assert.Equal(t, string(cerrors.ErrCodeMethodNotAllowed), decodeErrorResponse(t, post).Code)
}

func TestDefaultRootHandler_UnknownPath(t *testing.T) {
	s := newRecipeServer(testConfig())

	rec := get(s.Handler(), "/v1/recipes/bake")
	require.Equal(t, http.StatusNotFound, rec.Code)

	resp := decodeErrorResponse(t, rec)
	assert.Equal(t, string(cerrors.ErrCodeNotFound), resp.Code)
	assert.Equal(t, "/v1/recipes/bake", resp.Details["path"])
	assert.Contains(t, resp.Details["routes"], parseRoute)
}

func TestCustomRootHandlerNotOverridden(t *testing.T) {
	s := New(WithHandler(map[string]http.HandlerFunc{
		"/": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		},
	}))

	assert.Equal(t, http.StatusTeapot, get(s.Handler(), "/").Code)
	assert.Equal(t, http.StatusTeapot, get(s.Handler(), "/v1/recipes/bake").Code)
}

func TestSystemRoutesBypassMiddleware(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = 1
	cfg.RateLimitBurst = 1
	s := newRecipeServer(cfg)
	s.setReady(true)

	for range 3 {
		for _, route := range []string{routeHealth, routeReady, routeMetrics} {
			rec := get(s.Handler(), route)
			assert.Equal(t, http.StatusOK, rec.Code, route)
			assert.Empty(t, rec.Header().Get(headerRequestID), route)
		}
	}
	assert.Equal(t, http.StatusOK, postRecipe(s.Handler(), parseRoute, soupRecipe, nil).Code)
}

func TestServe(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	cfg := testConfig()
	cfg.ShutdownTimeout = time.Second
	s := newRecipeServer(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- s.Serve(ctx, ln) }()

	base := "http://" + ln.Addr().String()
	client := &http.Client{Timeout: time.Second}
	require.Eventually(t, func() bool {
		resp, err := client.Get(base + routeReady)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	resp, err := client.Post(base+parseRoute, "text/plain", strings.NewReader(soupRecipe))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got lineCount
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, 3, got.Lines)
	assert.Equal(t, resp.Header.Get(headerRequestID), got.RequestID)

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown timed out")
	}
	assert.False(t, s.isReady())
}

func TestStart_AddressInUse(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	port := ln.Addr().(*net.TCPAddr).Port
	s := New(WithAddress("127.0.0.1"), WithPort(port))

	err = s.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), fmt.Sprintf("127.0.0.1:%d", port))
	assert.False(t, s.isReady())
}
