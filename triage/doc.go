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

// Package triage derives the registry's list and advice views from a
// looprecord.Document: the sorted, filtered projections an agent
// framework polls to decide what to look at next, and the per-checkpoint
// "does this need a human/agent to look at it" and "should I spawn a
// continuation" signals a checkpoint response carries alongside the raw
// loop state.
//
// Every function here is a pure read over a Document; nothing in this
// package mutates a Loop or touches the store.
package triage
