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
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNegotiateAPIVersion(t *testing.T) {
	tests := []struct {
		name   string
		accept string
		want   string
		ok     bool
	}{
		{"no accept header", "", "v1", true},
		{"any type", "*/*", "v1", true},
		{"plain json", "application/json", "v1", true},
		{"vendor v1", "application/vnd.cooklang.v1+json", "v1", true},
		{"vendor v1 with quality", "application/vnd.cooklang.v1+json; q=0.9", "v1", true},
		{"vendor without suffix", "application/vnd.cooklang.v1", "v1", true},
		{"unsupported vendor only", "application/vnd.cooklang.v9+json", "", false},
		{"unsupported vendor with generic fallback", "application/vnd.cooklang.v9+json, application/json;q=0.5", "v1", true},
		{"first supported vendor wins", "application/vnd.cooklang.v9+json, application/vnd.cooklang.v1+json", "v1", true},
		{"malformed parts ignored", ";;, text/plain", "v1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := negotiateAPIVersion(tt.accept)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNegotiateVersion_SetsContext(t *testing.T) {
	var seen string
	h := negotiateVersion(parseRoute)(func(_ http.ResponseWriter, r *http.Request) {
		seen = APIVersion(r.Context())
	})

	req := httptest.NewRequest(http.MethodPost, parseRoute, nil)
	req.Header.Set("Accept", "application/vnd.cooklang.v1+json")
	rec := httptest.NewRecorder()
	h(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "v1", seen)
	assert.Equal(t, "v1", rec.Header().Get(headerAPIVersion))
}

func TestAPIVersion_Default(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, DefaultAPIVersion, APIVersion(req.Context()))
	assert.Empty(t, RequestID(req.Context()))
}
