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

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	cnserrors "github.com/NVIDIA/scanwatch/pkg/errors"
	"github.com/NVIDIA/scanwatch/pkg/serializer"
	"k8s.io/utils/ptr"
)

// Environment variables read by ApplyEnv.
const (
	EnvIntervalSeconds            = "SCHEDULER_INTERVAL_SECONDS"
	EnvMaxCycles                  = "SCHEDULER_MAX_CYCLES"
	EnvDBPath                     = "SCHEDULER_DB_PATH"
	EnvEnableSecuritySweep        = "SCHEDULER_ENABLE_SECURITY_SWEEP"
	EnvSecurityMaxTargets         = "SCHEDULER_SECURITY_MAX_TARGETS"
	EnvRetentionDays              = "SCHEDULER_RETENTION_DAYS"
	EnvRetentionKeepRecentPerType = "SCHEDULER_RETENTION_KEEP_RECENT_PER_TYPE"
	EnvCompactEveryCycles         = "SCHEDULER_COMPACT_EVERY_CYCLES"
	EnvLogPayloads                = "SCHEDULER_LOG_PAYLOADS"
	EnvLogPayloadMaxChars         = "SCHEDULER_LOG_PAYLOAD_MAX_CHARS"
	EnvListenAddress              = "SCHEDULER_LISTEN_ADDRESS"
	EnvKubeconfig                 = "KUBECONFIG"
)

// Default values.
const (
	DefaultIntervalSeconds            = 300
	DefaultDBPath                     = "./data/scan_history.db"
	DefaultSecurityMaxTargets         = 8
	DefaultRetentionDays              = 30
	DefaultRetentionKeepRecentPerType = 3
	DefaultCompactEveryCycles         = 24
	DefaultLogPayloadMaxChars         = 120000
)

// Config is the scheduler configuration.
type Config struct {
	IntervalSeconds            int    `json:"interval_seconds" yaml:"interval_seconds"`
	MaxCycles                  *int   `json:"max_cycles,omitempty" yaml:"max_cycles,omitempty"`
	DBPath                     string `json:"db_path" yaml:"db_path"`
	EnableSecuritySweep        bool   `json:"enable_security_sweep" yaml:"enable_security_sweep"`
	SecurityMaxTargets         int    `json:"security_max_targets" yaml:"security_max_targets"`
	RetentionDays              int    `json:"retention_days" yaml:"retention_days"`
	RetentionKeepRecentPerType int    `json:"retention_keep_recent_per_type" yaml:"retention_keep_recent_per_type"`
	CompactEveryCycles         int    `json:"compact_every_cycles" yaml:"compact_every_cycles"`
	LogPayloads                bool   `json:"log_payloads" yaml:"log_payloads"`
	LogPayloadMaxChars         int    `json:"log_payload_max_chars" yaml:"log_payload_max_chars"`
	ListenAddress              string `json:"listen_address,omitempty" yaml:"listen_address,omitempty"`
	Kubeconfig                 string `json:"kubeconfig,omitempty" yaml:"kubeconfig,omitempty"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		IntervalSeconds:            DefaultIntervalSeconds,
		DBPath:                     DefaultDBPath,
		SecurityMaxTargets:         DefaultSecurityMaxTargets,
		RetentionDays:              DefaultRetentionDays,
		RetentionKeepRecentPerType: DefaultRetentionKeepRecentPerType,
		CompactEveryCycles:         DefaultCompactEveryCycles,
		LogPayloads:                true,
		LogPayloadMaxChars:         DefaultLogPayloadMaxChars,
	}
}

// Load returns Default overlaid with the YAML or JSON file at path.
// An empty path returns the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	if err := serializer.DecodeInto(path, &cfg, serializer.WithStrictFields()); err != nil {
		return cfg, cnserrors.WrapWithContext(cnserrors.ErrCodeInvalidRequest,
			"failed to load config", err, map[string]any{"path": path})
	}
	return cfg, nil
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides fields from environment variables. Unset or empty
// variables leave the current value untouched. Booleans accept 1, true,
// yes and on (case-insensitive); anything else is false.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	ints := []struct {
		key    string
		target *int
	}{
		{EnvIntervalSeconds, &c.IntervalSeconds},
		{EnvSecurityMaxTargets, &c.SecurityMaxTargets},
		{EnvRetentionDays, &c.RetentionDays},
		{EnvRetentionKeepRecentPerType, &c.RetentionKeepRecentPerType},
		{EnvCompactEveryCycles, &c.CompactEveryCycles},
		{EnvLogPayloadMaxChars, &c.LogPayloadMaxChars},
	}
	for _, item := range ints {
		raw, ok := envValue(lookup, item.key)
		if !ok {
			continue
		}
		v, err := parseInt(item.key, raw)
		if err != nil {
			return err
		}
		*item.target = v
	}

	if raw, ok := envValue(lookup, EnvMaxCycles); ok {
		v, err := parseInt(EnvMaxCycles, raw)
		if err != nil {
			return err
		}
		c.MaxCycles = ptr.To(v)
	}

	if raw, ok := envValue(lookup, EnvEnableSecuritySweep); ok {
		c.EnableSecuritySweep = ParseBool(raw)
	}
	if raw, ok := envValue(lookup, EnvLogPayloads); ok {
		c.LogPayloads = ParseBool(raw)
	}

	if raw, ok := envValue(lookup, EnvDBPath); ok {
		c.DBPath = raw
	}
	if raw, ok := envValue(lookup, EnvListenAddress); ok {
		c.ListenAddress = raw
	}
	if raw, ok := envValue(lookup, EnvKubeconfig); ok {
		c.Kubeconfig = raw
	}
	return nil
}

func envValue(lookup LookupFunc, key string) (string, bool) {
	raw, ok := lookup(key)
	if !ok {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}

func parseInt(key, raw string) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, cnserrors.WrapWithContext(cnserrors.ErrCodeInvalidRequest,
			"environment variable is not an integer", err,
			map[string]any{"variable": key, "value": raw})
	}
	return v, nil
}

// ParseBool reports whether raw is one of 1, true, yes or on.
func ParseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	switch {
	case c.IntervalSeconds <= 0:
		return invalid("interval_seconds must be positive", c.IntervalSeconds)
	case c.MaxCycles != nil && *c.MaxCycles < 0:
		return invalid("max_cycles must not be negative", *c.MaxCycles)
	case strings.TrimSpace(c.DBPath) == "":
		return cnserrors.New(cnserrors.ErrCodeInvalidRequest, "db_path is required")
	case c.SecurityMaxTargets < 0:
		return invalid("security_max_targets must not be negative", c.SecurityMaxTargets)
	case c.RetentionDays < 0:
		return invalid("retention_days must not be negative", c.RetentionDays)
	case c.LogPayloadMaxChars < 0:
		return invalid("log_payload_max_chars must not be negative", c.LogPayloadMaxChars)
	}
	return nil
}

func invalid(msg string, value int) error {
	return cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest, msg, map[string]any{"value": value})
}

// Interval returns IntervalSeconds as a duration.
func (c Config) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

// RetentionEnabled reports whether retention runs after every cycle.
func (c Config) RetentionEnabled() bool {
	return c.RetentionDays > 0
}

// ResolvedDBPath returns DBPath made absolute against the working directory.
func (c Config) ResolvedDBPath() (string, error) {
	if filepath.IsAbs(c.DBPath) {
		return c.DBPath, nil
	}
	abs, err := filepath.Abs(c.DBPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve db path %q: %w", c.DBPath, err)
	}
	return abs, nil
}
