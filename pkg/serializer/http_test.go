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

package serializer

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type testData struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func TestRespondJSON_Success(t *testing.T) {
	w := httptest.NewRecorder()
	RespondJSON(w, http.StatusCreated, testData{Message: "success", Code: 201})

	if w.Code != http.StatusCreated {
		t.Errorf("expected status %d, got %d", http.StatusCreated, w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", ct)
	}
	var result testData
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if result.Message != "success" {
		t.Errorf("unexpected body: %+v", result)
	}
}

func TestRespondJSON_EncodingError(t *testing.T) {
	w := httptest.NewRecorder()
	RespondJSON(w, http.StatusOK, math.Inf(1))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
}

func TestNewHttpReader_Defaults(t *testing.T) {
	r := NewHttpReader()
	if r.UserAgent != HttpReaderUserAgent {
		t.Errorf("unexpected user agent %q", r.UserAgent)
	}
	if r.Client == nil || r.Client.Timeout <= 0 {
		t.Error("expected a client with a timeout")
	}
	if r.MaxBytes <= 0 {
		t.Error("expected a body limit")
	}
}

func TestNewHttpReader_WithOptions(t *testing.T) {
	r := NewHttpReader(
		WithUserAgent("test-agent"),
		WithTotalTimeout(3*time.Second),
		WithConnectTimeout(time.Second),
		WithMaxBytes(10),
	)
	if r.UserAgent != "test-agent" {
		t.Errorf("unexpected user agent %q", r.UserAgent)
	}
	if r.Client.Timeout != 3*time.Second {
		t.Errorf("expected client timeout 3s, got %v", r.Client.Timeout)
	}
	if r.MaxBytes != 10 {
		t.Errorf("expected MaxBytes 10, got %d", r.MaxBytes)
	}

	custom := &http.Client{Timeout: time.Minute}
	if got := NewHttpReader(WithClient(custom)); got.Client != custom {
		t.Error("expected custom client to be kept")
	}
}

func TestHttpReader_Read(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			_, _ = w.Write([]byte(r.Header.Get("User-Agent")))
		case "/big":
			_, _ = w.Write([]byte(strings.Repeat("x", 64)))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	r := NewHttpReader(WithUserAgent("ua"), WithMaxBytes(32))

	data, err := r.Read(srv.URL + "/ok")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(data) != "ua" {
		t.Errorf("expected user agent echoed, got %q", data)
	}

	if _, err := r.Read(srv.URL + "/missing"); err == nil {
		t.Error("expected error for 404")
	}
	if _, err := r.Read(srv.URL + "/big"); err == nil {
		t.Error("expected error for oversized body")
	}
	if _, err := r.Read(""); err == nil {
		t.Error("expected error for empty url")
	}
}

func TestHttpReader_ReadWithContext_Canceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewHttpReader().ReadWithContext(ctx, srv.URL); err == nil {
		t.Error("expected error for canceled context")
	}
}
