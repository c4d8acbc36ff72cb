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
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/NVIDIA/cooklang/pkg/defaults"
)

// Environment variables read by NewConfig.
const (
	EnvPort            = "PORT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT_SECONDS"
	EnvRateLimit       = "COOK_RATE_LIMIT"
	EnvMaxBodyBytes    = "COOK_MAX_BODY_BYTES"
	EnvUnits           = "COOK_UNITS"
)

const (
	defaultPort      = 8080
	defaultRateLimit = 100
)

// Config holds server configuration
type Config struct {
	// Server identity
	Name    string
	Version string

	Address string
	Port    int

	// RateLimit is in requests per second. The burst is twice the limit
	// unless set on its own.
	RateLimit      rate.Limit
	RateLimitBurst int

	// MaxBodyBytes caps request bodies; 0 disables the cap.
	MaxBodyBytes int64

	// UnitsFiles are units documents, paths or URLs, layered over the
	// bundled units by the service.
	UnitsFiles []string

	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
}

// NewConfig returns the defaults overridden by the environment. Invalid
// values are logged and ignored.
func NewConfig() *Config {
	return parseConfig()
}

func parseConfig() *Config {
	cfg := &Config{
		Name:              "server",
		Version:           "undefined",
		Port:              defaultPort,
		RateLimit:         defaultRateLimit,
		RateLimitBurst:    2 * defaultRateLimit,
		MaxBodyBytes:      defaults.MaxRecipeBytes,
		ReadTimeout:       defaults.ServerReadTimeout,
		ReadHeaderTimeout: defaults.ServerReadHeaderTimeout,
		WriteTimeout:      defaults.ServerWriteTimeout,
		IdleTimeout:       defaults.ServerIdleTimeout,
		ShutdownTimeout:   defaults.ServerShutdownTimeout,
	}

	if port, ok := envInt(EnvPort, 1, 65535); ok {
		cfg.Port = port
	}
	// Match the shutdown timeout to the orchestrator's termination grace
	// period.
	if seconds, ok := envInt(EnvShutdownTimeout, 1, 3600); ok {
		cfg.ShutdownTimeout = time.Duration(seconds) * time.Second
	}
	if limit, ok := envFloat(EnvRateLimit); ok {
		cfg.RateLimit = rate.Limit(limit)
		cfg.RateLimitBurst = max(1, int(limit*2))
	}
	if n, ok := envInt(EnvMaxBodyBytes, 0, 1<<30); ok {
		cfg.MaxBodyBytes = int64(n)
	}
	cfg.UnitsFiles = envList(EnvUnits)

	return cfg
}

// envInt reads an integer in [lo, hi].
func envInt(key string, lo, hi int) (int, bool) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < lo || n > hi {
		slog.Warn("ignoring invalid environment value", "key", key, "value", s)
		return 0, false
	}
	return n, true
}

// envFloat reads a positive number.
func envFloat(key string) (float64, bool) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || !(f > 0) || f > 1e6 {
		slog.Warn("ignoring invalid environment value", "key", key, "value", s)
		return 0, false
	}
	return f, true
}

// envList reads a comma separated list, dropping empty entries.
func envList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
