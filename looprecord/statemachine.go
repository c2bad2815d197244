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

// NewLoop constructs a new Loop in the active state at round 1. now and
// loopID are injected by the caller (the registry's Clock and
// IDGenerator) so the state machine itself stays free of I/O and clock
// reads.
func NewLoop(loopID, topic, ownerAgentID, sessionKey string, maxRounds int, priority Priority, now int64) *Loop {
	loop := &Loop{
		LoopID:              loopID,
		Topic:               topic,
		OwnerAgentID:        ownerAgentID,
		State:               StateActive,
		CurrentRound:        1,
		MaxRounds:           normalizeMaxRounds(maxRounds),
		Priority:            normalizePriority(priority),
		CreatedAt:           now,
		UpdatedAt:           now,
		StartedBySessionKey: sessionKey,
		Checkpoints:         make([]Checkpoint, 0, 1),
		Decisions:           make([]Decision, 0, 1),
	}
	return loop
}

// Checkpoint appends cp to the loop's checkpoint history and transitions
// the loop to awaiting_decision. cp.Round is forced to the loop's current
// round; any derived-score fields on cp are recomputed by the caller's
// normalization pass, not here. Requires state == active.
func (l *Loop) Checkpoint(cp Checkpoint, now int64) error {
	if l.State == StateClosed {
		return &ClosedError{}
	}
	if l.State != StateActive {
		return &CheckpointStateError{Current: l.State}
	}

	cp.Round = l.CurrentRound
	cp.CreatedAt = now
	l.Checkpoints = append(l.Checkpoints, cp)
	l.State = StateAwaitingDecision
	l.UpdatedAt = now
	return nil
}

// Continue records a continue Decision tagged with the pre-increment
// round, advances CurrentRound by one, and returns the loop to active.
// Requires state == awaiting_decision and CurrentRound < MaxRounds.
func (l *Loop) Continue(reason string, now int64) error {
	if l.State == StateClosed {
		return &ClosedError{}
	}
	if l.State != StateAwaitingDecision {
		return &ContinueStateError{Current: l.State}
	}
	if l.CurrentRound >= l.MaxRounds {
		return &MaxRoundsError{MaxRounds: l.MaxRounds}
	}

	l.Decisions = append(l.Decisions, Decision{
		Round:     l.CurrentRound,
		Decision:  DecisionContinue,
		Reason:    reason,
		CreatedAt: now,
	})
	l.CurrentRound++
	l.State = StateActive
	l.UpdatedAt = now
	return nil
}

// Close transitions the loop to closed and records a close Decision.
// Accepted from any non-closed state; idempotent when already closed (no
// mutation, no error).
func (l *Loop) Close(reason string, now int64) {
	if l.State == StateClosed {
		return
	}

	l.Decisions = append(l.Decisions, Decision{
		Round:     l.CurrentRound,
		Decision:  DecisionClose,
		Reason:    reason,
		CreatedAt: now,
	})
	l.State = StateClosed
	l.CloseReason = reason
	closedAt := now
	l.ClosedAt = &closedAt
	l.UpdatedAt = now
}

// CanContinue reports whether a continue operation would currently
// succeed (state is awaiting_decision and CurrentRound < MaxRounds).
func (l *Loop) CanContinue() bool {
	return l.State == StateAwaitingDecision && l.CurrentRound < l.MaxRounds
}
