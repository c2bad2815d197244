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
	"math"
	"strings"

	"github.com/sree-akkineni/researchloop/scoring"
)

// Normalize applies every field-level clamping/truncation rule to d in
// place and recomputes derived scores. It is idempotent and safe to call
// on every load and before every write, per looprecord's package doc.
func (d *Document) Normalize() {
	if d == nil {
		return
	}
	if d.Loops == nil {
		d.Loops = make(map[string]*Loop)
	}
	for _, loop := range d.Loops {
		loop.normalize()
	}
}

func (l *Loop) normalize() {
	l.State = normalizeState(l.State)
	l.Priority = normalizePriority(l.Priority)
	l.MaxRounds = normalizeMaxRounds(l.MaxRounds)

	for i := range l.Checkpoints {
		l.Checkpoints[i].normalize()
	}
}

func (c *Checkpoint) normalize() {
	c.Importance = ClampRating(c.Importance)
	c.Urgency = ClampRating(c.Urgency)
	c.Confidence = ClampRating(c.Confidence)
	c.EvidenceQuality = ClampRating(c.EvidenceQuality)

	c.WhyNow = normalizeWhyNow(c.WhyNow)
	c.ProposedTasks = normalizeStringList(c.ProposedTasks, MaxProposedTasks, MaxProposedTaskChars)
	c.CitationLinks = normalizeStringList(c.CitationLinks, MaxCitationLinks, MaxCitationLinkChars)
	c.Counterpoints = normalizeStringList(c.Counterpoints, MaxCounterpoints, MaxCounterpointChars)
	c.Recommendation = normalizeRecommendation(c.Recommendation)

	c.AnalysisQualityScore = scoring.AnalysisQuality(scoring.AnalysisQualityInput{
		Summary:         c.Summary,
		Critique:        c.Critique,
		CitationLinks:   c.CitationLinks,
		Counterpoints:   c.Counterpoints,
		ProposedTasks:   c.ProposedTasks,
		EvidenceQuality: c.EvidenceQuality,
		WhyNow:          c.WhyNow,
	})
	c.PriorityScore = scoring.Priority(c.Importance, c.Urgency)
}

// ClampRating clamps an integer rating to [MinRating, MaxRating]. A nil
// input passes through as nil. Flooring of fractional input happens in
// ParseRating, before this is called.
func ClampRating(v *int) *int {
	if v == nil {
		return nil
	}
	clamped := *v
	if clamped < MinRating {
		clamped = MinRating
	}
	if clamped > MaxRating {
		clamped = MaxRating
	}
	return &clamped
}

// ParseRating converts a raw decoded JSON value (typically float64 from a
// map[string]any) into a clamped rating pointer. Non-numeric or
// non-finite values normalize to nil, per looprecord's normalization
// rules.
func ParseRating(raw any) *int {
	f, ok := asFinite(raw)
	if !ok {
		return nil
	}
	v := int(math.Floor(f))
	return ClampRating(&v)
}

func asFinite(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return v, true
	case float32:
		return asFinite(float64(v))
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func normalizeWhyNow(s string) string {
	s = strings.TrimSpace(s)
	return truncate(s, MaxWhyNowChars)
}

func normalizeStringList(items []string, maxItems, maxChars int) []string {
	if len(items) == 0 {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, truncate(item, maxChars))
		if len(out) >= maxItems {
			break
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

func normalizeMaxRounds(v int) int {
	if v <= 0 {
		return DefaultMaxRounds
	}
	if v < MinMaxRounds {
		return MinMaxRounds
	}
	if v > MaxMaxRounds {
		return MaxMaxRounds
	}
	return v
}

func normalizeState(s State) State {
	switch s {
	case StateActive, StateAwaitingDecision, StateClosed:
		return s
	default:
		return StateActive
	}
}

func normalizePriority(p Priority) Priority {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh:
		return p
	default:
		return PriorityNormal
	}
}

func normalizeRecommendation(r Recommendation) Recommendation {
	switch r {
	case "", RecommendationContinue, RecommendationStop, RecommendationNeedsInput:
		return r
	default:
		return RecommendationNeedsInput
	}
}
