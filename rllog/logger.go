// Copyright 2025 Kadir Pekel
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

package rllog

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Environment variable names consulted by FromEnv.
const (
	EnvLevel  = "RESEARCH_LOOP_LOG_LEVEL"
	EnvFormat = "RESEARCH_LOOP_LOG_FORMAT"
)

// Config configures a Logger's level and output format.
type Config struct {
	// Level is one of "debug", "info", "warn", "error". Default: "info".
	Level string `yaml:"level,omitempty"`

	// Format is "text" or "json". Default: "text".
	Format string `yaml:"format,omitempty"`

	// Output is where records are written. Default: os.Stderr.
	Output io.Writer `yaml:"-"`
}

// SetDefaults fills in zero-valued fields.
func (c *Config) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "text"
	}
	if c.Output == nil {
		c.Output = os.Stderr
	}
}

// ParseLevel converts a string log level to slog.Level. Unrecognized
// values fall back to LevelInfo rather than erroring, so a typo in an
// environment variable degrades logging verbosity instead of crashing
// the host process.
func ParseLevel(levelStr string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds a *slog.Logger from Config, applying defaults for any
// zero-valued field.
func New(cfg Config) *slog.Logger {
	cfg.SetDefaults()

	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(cfg.Output, opts)
	} else {
		handler = slog.NewTextHandler(cfg.Output, opts)
	}

	return slog.New(handler).With("component", "researchloop")
}

// FromEnv builds a Logger from RESEARCH_LOOP_LOG_LEVEL and
// RESEARCH_LOOP_LOG_FORMAT, defaulting to info/text/stderr when unset.
func FromEnv() *slog.Logger {
	return New(Config{
		Level:  os.Getenv(EnvLevel),
		Format: os.Getenv(EnvFormat),
	})
}

// ForLoop returns a child logger scoped to a single loop, so every
// subsequent call carries loopId and ownerAgentId without repeating
// them at each call site.
func ForLoop(log *slog.Logger, loopID, ownerAgentID string) *slog.Logger {
	return log.With("loopId", loopID, "ownerAgentId", ownerAgentID)
}

// Noop returns a Logger that discards all output, for tests and for
// callers that don't want registry logging at all.
func Noop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
