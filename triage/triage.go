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

package triage

import (
	"fmt"
	"sort"

	"github.com/sree-akkineni/researchloop/looprecord"
)

// View selects one of the named list projections.
type View string

const (
	ViewAll           View = "all"
	ViewNeedsDecision View = "needs_decision"
	ViewNeedsReview   View = "needs_review"
	ViewHot           View = "hot"
	ViewStale         View = "stale"
)

const (
	DefaultLimit = 20
	MinLimit     = 1
	MaxLimit     = 100

	DefaultStaleHours = 24
	MinStaleHours     = 1
	MaxStaleHours     = 720

	minCitationsForReview = 1
	minQualityForReview   = 65
)

// Options configures List.
type Options struct {
	// State, if non-empty, filters to loops in that state before the
	// view's own filter is applied.
	State looprecord.State

	// View selects the projection. Empty defaults to ViewAll.
	View View

	// StaleHours is only consulted by ViewStale. Clamped to
	// [MinStaleHours, MaxStaleHours]; zero uses DefaultStaleHours.
	StaleHours int

	// Limit caps the number of rows returned. Clamped to
	// [MinLimit, MaxLimit]; zero uses DefaultLimit.
	Limit int
}

// Row is the list projection of a single loop.
type Row struct {
	LoopID       string             `json:"loopId"`
	Topic        string             `json:"topic"`
	State        looprecord.State   `json:"state"`
	CurrentRound int                `json:"currentRound"`
	MaxRounds    int                `json:"maxRounds"`
	Priority     looprecord.Priority `json:"priority"`
	UpdatedAt    int64              `json:"updatedAt"`

	LastCheckpointAt         *int64                        `json:"lastCheckpointAt,omitempty"`
	LastRecommendation       looprecord.Recommendation      `json:"lastRecommendation,omitempty"`
	LastAnalysisQualityScore *int                           `json:"lastAnalysisQualityScore,omitempty"`
	LastCitationCount        int                            `json:"lastCitationCount"`
	LastPriorityScore        *int                           `json:"lastPriorityScore,omitempty"`

	NeedsReview bool `json:"needsReview"`
}

// Advice is the spawn recommendation returned alongside a checkpoint
// response.
type Advice struct {
	ShouldSpawn   bool   `json:"shouldSpawn"`
	Reason        string `json:"reason"`
	SuggestedTask string `json:"suggestedTask,omitempty"`
}

// List filters loops owned by ownerAgentID, applies opts.State and
// opts.View, sorts per the view's documented order, and clamps to
// opts.Limit rows.
func List(doc *looprecord.Document, ownerAgentID string, opts Options, now int64) []Row {
	view := opts.View
	if view == "" {
		view = ViewAll
	}
	limit := clamp(opts.Limit, MinLimit, MaxLimit, DefaultLimit)
	staleHours := clamp(opts.StaleHours, MinStaleHours, MaxStaleHours, DefaultStaleHours)

	var loops []*looprecord.Loop
	for _, loop := range doc.Loops {
		if loop.OwnerAgentID != ownerAgentID {
			continue
		}
		if opts.State != "" && loop.State != opts.State {
			continue
		}
		loops = append(loops, loop)
	}

	switch view {
	case ViewNeedsDecision:
		loops = filterState(loops, looprecord.StateAwaitingDecision)
		sort.SliceStable(loops, byUpdatedAtDesc(loops))
	case ViewNeedsReview:
		loops = filterState(loops, looprecord.StateAwaitingDecision)
		loops = filterNeedsReview(loops)
		sort.SliceStable(loops, byUpdatedAtDesc(loops))
	case ViewHot:
		loops = filterState(loops, looprecord.StateAwaitingDecision)
		sort.SliceStable(loops, byHot(loops))
	case ViewStale:
		cutoff := now - int64(staleHours)*3600
		loops = filterState(loops, looprecord.StateActive)
		loops = filterStale(loops, cutoff)
		sort.SliceStable(loops, byUpdatedAtDesc(loops))
	default:
		sort.SliceStable(loops, byUpdatedAtDesc(loops))
	}

	if len(loops) > limit {
		loops = loops[:limit]
	}

	rows := make([]Row, len(loops))
	for i, loop := range loops {
		rows[i] = toRow(loop)
	}
	return rows
}

func toRow(loop *looprecord.Loop) Row {
	row := Row{
		LoopID:       loop.LoopID,
		Topic:        loop.Topic,
		State:        loop.State,
		CurrentRound: loop.CurrentRound,
		MaxRounds:    loop.MaxRounds,
		Priority:     loop.Priority,
		UpdatedAt:    loop.UpdatedAt,
	}
	if cp := loop.LastCheckpoint(); cp != nil {
		createdAt := cp.CreatedAt
		row.LastCheckpointAt = &createdAt
		row.LastRecommendation = cp.Recommendation
		score := cp.AnalysisQualityScore
		row.LastAnalysisQualityScore = &score
		row.LastCitationCount = len(cp.CitationLinks)
		row.LastPriorityScore = cp.PriorityScore
		row.NeedsReview = CheckpointNeedsReview(loop)
	}
	return row
}

// CheckpointNeedsReview reports whether the loop's last checkpoint
// needs a human/agent look: low analysis quality, a missing critique,
// or too few citations.
func CheckpointNeedsReview(loop *looprecord.Loop) bool {
	cp := loop.LastCheckpoint()
	if cp == nil {
		return false
	}
	if cp.AnalysisQualityScore < minQualityForReview {
		return true
	}
	if cp.Critique == "" {
		return true
	}
	if len(cp.CitationLinks) < minCitationsForReview {
		return true
	}
	return false
}

// SpawnAdvice derives whether a continuation agent should be spawned
// after a checkpoint, per the documented priority-ordered conditions.
// canContinue must be computed by the caller as
// recommendation == continue && currentRound < maxRounds.
func SpawnAdvice(loop *looprecord.Loop, canContinue bool) Advice {
	cp := loop.LastCheckpoint()
	if cp == nil {
		return Advice{ShouldSpawn: false, Reason: "no checkpoint recorded"}
	}

	if cp.Recommendation != looprecord.RecommendationContinue {
		return Advice{ShouldSpawn: false, Reason: "last recommendation is not continue"}
	}
	if !canContinue {
		return Advice{ShouldSpawn: false, Reason: "loop cannot continue"}
	}
	if len(cp.ProposedTasks) == 0 {
		return Advice{ShouldSpawn: false, Reason: "no proposed task to spawn"}
	}
	if cp.AnalysisQualityScore < 40 {
		return Advice{ShouldSpawn: false, Reason: fmt.Sprintf("analysis quality score too low (%d)", cp.AnalysisQualityScore)}
	}
	if cp.Confidence != nil && *cp.Confidence >= 4 {
		return Advice{ShouldSpawn: false, Reason: "confidence already high"}
	}

	priorityScore := looprecord.IntRating(cp.PriorityScore)
	if priorityScore < 12 && loop.Priority != looprecord.PriorityHigh {
		return Advice{ShouldSpawn: false, Reason: "priority score and loop priority both too low"}
	}

	return Advice{
		ShouldSpawn:   true,
		Reason:        "checkpoint recommends continuing with a proposed task",
		SuggestedTask: cp.ProposedTasks[0],
	}
}

func filterState(loops []*looprecord.Loop, state looprecord.State) []*looprecord.Loop {
	out := loops[:0:0]
	for _, loop := range loops {
		if loop.State == state {
			out = append(out, loop)
		}
	}
	return out
}

func filterNeedsReview(loops []*looprecord.Loop) []*looprecord.Loop {
	out := loops[:0:0]
	for _, loop := range loops {
		if CheckpointNeedsReview(loop) {
			out = append(out, loop)
		}
	}
	return out
}

func filterStale(loops []*looprecord.Loop, cutoff int64) []*looprecord.Loop {
	out := loops[:0:0]
	for _, loop := range loops {
		if loop.UpdatedAt <= cutoff {
			out = append(out, loop)
		}
	}
	return out
}

func byUpdatedAtDesc(loops []*looprecord.Loop) func(i, j int) bool {
	return func(i, j int) bool { return loops[i].UpdatedAt > loops[j].UpdatedAt }
}

func byHot(loops []*looprecord.Loop) func(i, j int) bool {
	return func(i, j int) bool {
		a, b := loops[i], loops[j]
		aPriority, bPriority := lastPriorityScore(a), lastPriorityScore(b)
		if aPriority != bPriority {
			return aPriority > bPriority
		}
		aQuality, bQuality := lastAnalysisQualityScore(a), lastAnalysisQualityScore(b)
		if aQuality != bQuality {
			return aQuality > bQuality
		}
		return a.UpdatedAt > b.UpdatedAt
	}
}

func lastPriorityScore(loop *looprecord.Loop) int {
	cp := loop.LastCheckpoint()
	if cp == nil {
		return 0
	}
	return looprecord.IntRating(cp.PriorityScore)
}

func lastAnalysisQualityScore(loop *looprecord.Loop) int {
	cp := loop.LastCheckpoint()
	if cp == nil {
		return 0
	}
	return cp.AnalysisQualityScore
}

func clamp(v, min, max, def int) int {
	if v == 0 {
		return def
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
