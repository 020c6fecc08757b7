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
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/NVIDIA/scanwatch/pkg/defaults"
)

// Environment variables read by NewConfig.
const (
	EnvPort                   = "PORT"
	EnvShutdownTimeoutSeconds = "SHUTDOWN_TIMEOUT_SECONDS"
	EnvRateLimit              = "API_RATE_LIMIT"
)

// Config holds server configuration.
type Config struct {
	Name    string
	Version string

	// Handlers are served behind the middleware chain, keyed by mux pattern.
	Handlers map[string]http.HandlerFunc

	Address string
	Port    int

	// RateLimit is in requests per second, shared by all API routes.
	RateLimit      rate.Limit
	RateLimitBurst int

	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
}

// NewConfig returns the defaults overlaid with PORT, SHUTDOWN_TIMEOUT_SECONDS
// and API_RATE_LIMIT. Invalid values are logged and ignored.
func NewConfig() *Config {
	return parseConfig()
}

func parseConfig() *Config {
	cfg := &Config{
		Name:              "server",
		Version:           "undefined",
		Address:           defaults.ServerAddress,
		Port:              defaults.ServerPort,
		RateLimit:         rate.Limit(defaults.ServerRateLimit),
		RateLimitBurst:    defaults.ServerRateLimitBurst,
		ReadTimeout:       defaults.ServerReadTimeout,
		ReadHeaderTimeout: defaults.ServerReadHeaderTimeout,
		WriteTimeout:      defaults.ServerWriteTimeout,
		IdleTimeout:       defaults.ServerIdleTimeout,
		ShutdownTimeout:   defaults.ServerShutdownTimeout,
	}

	if v, ok := positiveEnv(EnvPort); ok {
		cfg.Port = v
	}
	if v, ok := positiveEnv(EnvShutdownTimeoutSeconds); ok {
		cfg.ShutdownTimeout = time.Duration(v) * time.Second
	}
	if v, ok := positiveEnv(EnvRateLimit); ok {
		cfg.RateLimit = rate.Limit(v)
		cfg.RateLimitBurst = 2 * v
	}

	return cfg
}

func positiveEnv(key string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		slog.Warn("ignoring invalid environment value", "variable", key, "value", raw)
		return 0, false
	}
	return v, true
}
