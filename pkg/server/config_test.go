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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"

	"github.com/NVIDIA/cooklang/pkg/defaults"
)

func TestParseConfig_Defaults(t *testing.T) {
	cfg := parseConfig()

	assert.Empty(t, cfg.Address)
	assert.Equal(t, defaultPort, cfg.Port)
	assert.Equal(t, rate.Limit(defaultRateLimit), cfg.RateLimit)
	assert.Equal(t, 2*defaultRateLimit, cfg.RateLimitBurst)
	assert.Equal(t, int64(defaults.MaxRecipeBytes), cfg.MaxBodyBytes)
	assert.Empty(t, cfg.UnitsFiles)
	assert.Equal(t, defaults.ServerReadTimeout, cfg.ReadTimeout)
	assert.Equal(t, defaults.ServerWriteTimeout, cfg.WriteTimeout)
	assert.Equal(t, defaults.ServerIdleTimeout, cfg.IdleTimeout)
	assert.Equal(t, defaults.ServerShutdownTimeout, cfg.ShutdownTimeout)
}

func TestParseConfig_Environment(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		check func(t *testing.T, cfg *Config)
	}{
		{
			name: "port",
			env:  map[string]string{EnvPort: "9090"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Port)
			},
		},
		{
			name: "invalid port ignored",
			env:  map[string]string{EnvPort: "soup"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, defaultPort, cfg.Port)
			},
		},
		{
			name: "port out of range ignored",
			env:  map[string]string{EnvPort: "70000"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, defaultPort, cfg.Port)
			},
		},
		{
			name: "rate limit doubles burst",
			env:  map[string]string{EnvRateLimit: "5"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, rate.Limit(5), cfg.RateLimit)
				assert.Equal(t, 10, cfg.RateLimitBurst)
			},
		},
		{
			name: "fractional rate limit keeps a burst of one",
			env:  map[string]string{EnvRateLimit: "0.2"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, rate.Limit(0.2), cfg.RateLimit)
				assert.Equal(t, 1, cfg.RateLimitBurst)
			},
		},
		{
			name: "non positive rate limit ignored",
			env:  map[string]string{EnvRateLimit: "-1"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, rate.Limit(defaultRateLimit), cfg.RateLimit)
			},
		},
		{
			name: "nan rate limit ignored",
			env:  map[string]string{EnvRateLimit: "NaN"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, rate.Limit(defaultRateLimit), cfg.RateLimit)
			},
		},
		{
			name: "max body bytes",
			env:  map[string]string{EnvMaxBodyBytes: "4096"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, int64(4096), cfg.MaxBodyBytes)
			},
		},
		{
			name: "zero max body bytes disables the cap",
			env:  map[string]string{EnvMaxBodyBytes: "0"},
			check: func(t *testing.T, cfg *Config) {
				assert.Zero(t, cfg.MaxBodyBytes)
			},
		},
		{
			name: "negative max body bytes ignored",
			env:  map[string]string{EnvMaxBodyBytes: "-5"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, int64(defaults.MaxRecipeBytes), cfg.MaxBodyBytes)
			},
		},
		{
			name: "units files",
			env:  map[string]string{EnvUnits: " extra.toml, ,https://example.com/units.toml "},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"extra.toml", "https://example.com/units.toml"}, cfg.UnitsFiles)
			},
		},
		{
			name: "shutdown timeout",
			env:  map[string]string{EnvShutdownTimeout: "3"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			tt.check(t, parseConfig())
		})
	}
}
