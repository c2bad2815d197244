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

// Package looprecord defines the research loop data model: the Document
// envelope, Loop/Checkpoint/Decision records, the per-loop state machine,
// and the normalization rules applied on every read and write.
//
// # Lifecycle
//
// A Loop moves through three states:
//
//	active ---checkpoint---> awaiting_decision ---continue---> active
//	   |                            |
//	   +-----------close------------+
//	                 |
//	                 v
//	              closed (terminal, idempotent)
//
// Checkpoint requires active and appends a Checkpoint record; Continue
// requires awaiting_decision and room under MaxRounds, and appends a
// Decision record while advancing CurrentRound; Close is accepted from any
// non-closed state and is a no-op when already closed.
//
// # Normalization
//
// Document.Normalize applies the field-level clamping and truncation rules
// whose bounds are the constants in types.go (ratings clamp to [1,5],
// whyNow and list entries truncate to their documented maxima, lists cap
// at their documented lengths) and recomputes both derived scores on every
// checkpoint, which also heals legacy records missing them. It is idempotent:
// calling it twice produces the same document as calling it once.
package looprecord
