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

// Package rlconfig is the registry's typed configuration: where the
// document lives, how long to wait for the lock, how stale a lock must
// be before reclaiming it, and the defaults applied to a new loop when
// the caller doesn't supply one. Values can be set programmatically, read
// from environment variables by FromEnv (with optional .env support via
// LoadDotEnv, which never overrides variables already present in the
// process environment), or read from a YAML file by LoadYAMLFile. FromEnv
// builds a fresh Config and does not merge onto one set in code.
// SetDefaults then fills fields left at their zero value, the same "don't
// overwrite what's already set" rule checkpoint.Config uses.
package rlconfig
