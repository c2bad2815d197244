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

// SchemaVersion is the current persisted document schema version. The
// store treats any document with a different version as empty on load.
const SchemaVersion = 1

// State is the lifecycle state of a Loop.
type State string

const (
	StateActive           State = "active"
	StateAwaitingDecision State = "awaiting_decision"
	StateClosed           State = "closed"
)

// Priority is the operator-assigned priority band of a Loop, distinct
// from the derived per-checkpoint PriorityScore.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// Recommendation is an agent's suggested next action at a checkpoint.
type Recommendation string

const (
	RecommendationContinue    Recommendation = "continue"
	RecommendationStop        Recommendation = "stop"
	RecommendationNeedsInput  Recommendation = "needs_input"
)

// DecisionKind is the operator decision recorded against a round.
type DecisionKind string

const (
	DecisionContinue DecisionKind = "continue"
	DecisionClose    DecisionKind = "close"
)

// Bounds shared by the state machine and normalization.
const (
	MinMaxRounds = 1
	MaxMaxRounds = 20
	DefaultMaxRounds = 2

	MinRating = 1
	MaxRating = 5

	MaxProposedTasks     = 20
	MaxProposedTaskChars = 280

	MaxCitationLinks     = 20
	MaxCitationLinkChars = 500

	MaxCounterpoints     = 10
	MaxCounterpointChars = 280

	MaxWhyNowChars = 280
)

// Document is the top-level persisted store shape:
// {"version": 1, "loops": {"<loopId>": {...}}}.
type Document struct {
	Version int             `json:"version"`
	Loops   map[string]*Loop `json:"loops"`
}

// NewDocument returns an empty, current-version document.
func NewDocument() *Document {
	return &Document{
		Version: SchemaVersion,
		Loops:   make(map[string]*Loop),
	}
}

// Loop is a single research loop's full record.
type Loop struct {
	LoopID       string `json:"loopId"`
	Topic        string `json:"topic"`
	OwnerAgentID string `json:"ownerAgentId"`

	State        State    `json:"state"`
	CurrentRound int      `json:"currentRound"`
	MaxRounds    int      `json:"maxRounds"`
	Priority     Priority `json:"priority"`

	CreatedAt int64 `json:"createdAt"`
	UpdatedAt int64 `json:"updatedAt"`

	StartedBySessionKey string `json:"startedBySessionKey,omitempty"`

	ClosedAt    *int64 `json:"closedAt,omitempty"`
	CloseReason string `json:"closeReason,omitempty"`

	Checkpoints []Checkpoint `json:"checkpoints"`
	Decisions   []Decision   `json:"decisions"`
}

// Checkpoint is a single agent-produced analysis at the end of a round.
type Checkpoint struct {
	Round int `json:"round"`

	Summary        string          `json:"summary"`
	Critique       string          `json:"critique,omitempty"`
	Recommendation Recommendation  `json:"recommendation,omitempty"`
	ProposedTasks  []string        `json:"proposedTasks,omitempty"`

	Importance      *int `json:"importance,omitempty"`
	Urgency         *int `json:"urgency,omitempty"`
	Confidence      *int `json:"confidence,omitempty"`
	EvidenceQuality *int `json:"evidenceQuality,omitempty"`

	CitationLinks []string `json:"citationLinks,omitempty"`
	Counterpoints []string `json:"counterpoints,omitempty"`
	WhyNow        string   `json:"whyNow,omitempty"`

	AnalysisQualityScore int  `json:"analysisQualityScore"`
	PriorityScore        *int `json:"priorityScore,omitempty"`

	CreatedAt int64 `json:"createdAt"`
}

// Decision is an operator-recorded choice against a round.
type Decision struct {
	Round     int          `json:"round"`
	Decision  DecisionKind `json:"decision"`
	Reason    string       `json:"reason,omitempty"`
	CreatedAt int64        `json:"createdAt"`
}

// LastCheckpoint returns the most recently appended checkpoint, or nil if
// none has been recorded yet.
func (l *Loop) LastCheckpoint() *Checkpoint {
	if len(l.Checkpoints) == 0 {
		return nil
	}
	return &l.Checkpoints[len(l.Checkpoints)-1]
}

// IntRating dereferences a rating pointer, returning 0 when unset. Useful
// for sort keys and comparisons where "undefined sorts as 0" is the
// documented behavior.
func IntRating(r *int) int {
	if r == nil {
		return 0
	}
	return *r
}
