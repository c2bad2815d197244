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

// Package rllog is the registry's structured logging layer, built on
// log/slog the way hector's pkg/logger package is: a level and format
// are resolved once (programmatically or from environment variables),
// and every subsequent log call goes through the resulting *slog.Logger
// with the registry's own attributes (loopId, ownerAgentId, operation)
// attached consistently rather than interpolated into free-text
// messages.
//
// Unlike hector's CLI logger, there is no third-party-package filtering
// or ANSI coloring here: a library embedded in a host process shouldn't
// assume it owns the terminal. Format selection (text vs json) and level
// parsing are kept, since both are useful regardless of host.
package rllog
