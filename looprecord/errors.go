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

package looprecord

import (
	"errors"
	"fmt"
)

// Sentinel error categories. Callers should use errors.Is against these
// rather than comparing error strings, even though the concrete messages
// below are also part of this package's external contract.
var (
	// ErrLoopIDRequired is returned when an operation requires a loopId
	// and none was supplied.
	ErrLoopIDRequired = errors.New("loopId required")

	// ErrNotFound categorizes NotFoundError.
	ErrNotFound = errors.New("research loop not found")

	// ErrNotAccessible categorizes NotAccessibleError.
	ErrNotAccessible = errors.New("research loop not accessible")

	// ErrClosed categorizes ClosedError.
	ErrClosed = errors.New("loop is closed")

	// ErrWrongState categorizes CheckpointStateError and ContinueStateError.
	ErrWrongState = errors.New("loop is not in the required state")

	// ErrMaxRoundsReached categorizes MaxRoundsError.
	ErrMaxRoundsReached = errors.New("cannot continue: max rounds reached")
)

// NotFoundError is returned when a loopId does not exist in the document
// at all (as opposed to existing but owned by a different agent).
type NotFoundError struct {
	LoopID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("research loop not found: %s", e.LoopID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NotAccessibleError is returned when a loopId exists but is owned by a
// different agent than the requester. Deliberately distinct from
// NotFoundError so owners get a diagnosable message while other agents
// learn nothing about the loop's existence.
type NotAccessibleError struct {
	LoopID string
}

func (e *NotAccessibleError) Error() string {
	return fmt.Sprintf("research loop not accessible: %s", e.LoopID)
}

func (e *NotAccessibleError) Unwrap() error { return ErrNotAccessible }

// ClosedError is returned when a mutating operation other than Close is
// attempted against a loop that is already closed.
type ClosedError struct{}

func (e *ClosedError) Error() string { return "loop is closed" }

func (e *ClosedError) Unwrap() error { return ErrClosed }

// CheckpointStateError is returned when Checkpoint is called on a loop
// that is not active (and not already closed; see ClosedError).
type CheckpointStateError struct {
	Current State
}

func (e *CheckpointStateError) Error() string {
	return fmt.Sprintf("loop must be active to checkpoint (current state: %s)", e.Current)
}

func (e *CheckpointStateError) Unwrap() error { return ErrWrongState }

// ContinueStateError is returned when Continue is called on a loop that
// is not awaiting_decision (and not already closed; see ClosedError).
type ContinueStateError struct {
	Current State
}

func (e *ContinueStateError) Error() string {
	return fmt.Sprintf("loop is not awaiting_decision (current state: %s)", e.Current)
}

func (e *ContinueStateError) Unwrap() error { return ErrWrongState }

// MaxRoundsError is returned when Continue is called but CurrentRound has
// already reached MaxRounds.
type MaxRoundsError struct {
	MaxRounds int
}

func (e *MaxRoundsError) Error() string {
	return fmt.Sprintf("cannot continue: max rounds reached (%d)", e.MaxRounds)
}

func (e *MaxRoundsError) Unwrap() error { return ErrMaxRoundsReached }

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsNotAccessible reports whether err is (or wraps) a NotAccessibleError.
func IsNotAccessible(err error) bool { return errors.Is(err, ErrNotAccessible) }
