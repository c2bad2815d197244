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

package rlconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sree-akkineni/researchloop/looprecord"
)

// Environment variable names consulted by FromEnv.
const (
	EnvStateDir         = "RESEARCH_LOOP_STATE_DIR"
	EnvLockTimeoutMS    = "RESEARCH_LOOP_LOCK_TIMEOUT_MS"
	EnvStaleLockAfterMS = "RESEARCH_LOOP_STALE_LOCK_AFTER_MS"
)

// defaultStateDirName is appended to the user's home directory when
// EnvStateDir is unset and no StateDir was configured programmatically.
const defaultStateDirName = ".researchloop"

// Config configures the registry's persistence layer.
type Config struct {
	// StateDir is the root directory under which the registry document
	// is stored, at <StateDir>/research/loops.json.
	// Default: "$HOME/.researchloop", overridable via RESEARCH_LOOP_STATE_DIR.
	StateDir string `yaml:"state_dir,omitempty"`

	// LockTimeout bounds how long a mutating operation waits to acquire
	// the exclusive lock before failing.
	// Default: 10s.
	LockTimeout time.Duration `yaml:"-"`
	LockTimeoutMS int `yaml:"lock_timeout_ms,omitempty"`

	// StaleLockAfter is the configured age after which an uncontested
	// lock file counts as abandoned. Default: 30s. The registry does not
	// pass this value to its store: store.FileStore reclaims a lock after
	// store.DefaultStaleLockAge whatever this field holds.
	StaleLockAfter time.Duration `yaml:"-"`
	StaleLockAfterMS int `yaml:"stale_lock_after_ms,omitempty"`

	// DefaultMaxRounds and DefaultPriority seed new loops when start
	// doesn't supply them.
	DefaultMaxRounds int                 `yaml:"default_max_rounds,omitempty"`
	DefaultPriority  looprecord.Priority `yaml:"default_priority,omitempty"`
}

// SetDefaults fills in zero-valued fields. A positive LockTimeoutMS or
// StaleLockAfterMS takes precedence and overwrites LockTimeout or
// StaleLockAfter even when those are already set. Safe to call more than
// once.
func (c *Config) SetDefaults() {
	if c.StateDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.StateDir = filepath.Join(home, defaultStateDirName)
		} else {
			c.StateDir = defaultStateDirName
		}
	}
	if c.LockTimeoutMS > 0 {
		c.LockTimeout = time.Duration(c.LockTimeoutMS) * time.Millisecond
	} else if c.LockTimeout == 0 {
		c.LockTimeout = 10 * time.Second
	}
	if c.StaleLockAfterMS > 0 {
		c.StaleLockAfter = time.Duration(c.StaleLockAfterMS) * time.Millisecond
	} else if c.StaleLockAfter == 0 {
		c.StaleLockAfter = 30 * time.Second
	}
	if c.DefaultMaxRounds <= 0 {
		c.DefaultMaxRounds = looprecord.DefaultMaxRounds
	}
	if c.DefaultPriority == "" {
		c.DefaultPriority = looprecord.PriorityNormal
	}
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if c.StateDir == "" {
		return fmt.Errorf("state dir must not be empty")
	}
	if c.LockTimeout < 0 {
		return fmt.Errorf("lock timeout must be non-negative")
	}
	if c.StaleLockAfter < 0 {
		return fmt.Errorf("stale lock age must be non-negative")
	}
	if c.DefaultMaxRounds < looprecord.MinMaxRounds || c.DefaultMaxRounds > looprecord.MaxMaxRounds {
		return fmt.Errorf("default max rounds must be in [%d, %d]", looprecord.MinMaxRounds, looprecord.MaxMaxRounds)
	}
	return nil
}

// DocumentPath returns the resolved path to the registry's JSON document.
func (c *Config) DocumentPath() string {
	return filepath.Join(c.StateDir, "research", "loops.json")
}

// FromEnv builds a Config from environment variables, applying defaults
// for anything unset. Call LoadDotEnv first if .env support is wanted.
func FromEnv() *Config {
	cfg := &Config{
		StateDir: os.Getenv(EnvStateDir),
	}
	if v := os.Getenv(EnvLockTimeoutMS); v != "" {
		if ms, err := parsePositiveInt(v); err == nil {
			cfg.LockTimeoutMS = ms
		}
	}
	if v := os.Getenv(EnvStaleLockAfterMS); v != "" {
		if ms, err := parsePositiveInt(v); err == nil {
			cfg.StaleLockAfterMS = ms
		}
	}
	cfg.SetDefaults()
	return cfg
}

func parsePositiveInt(s string) (int, error) {
	var v int
	_, err := fmt.Sscanf(s, "%d", &v)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("value must be positive: %s", s)
	}
	return v, nil
}
