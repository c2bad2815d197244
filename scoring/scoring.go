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

package scoring

import "strings"

// AnalysisQualityInput is the subset of a checkpoint's fields that feed
// into AnalysisQuality. It intentionally holds only primitives so this
// package stays dependency-free and importable from looprecord without a
// cycle.
type AnalysisQualityInput struct {
	Summary         string
	Critique        string
	CitationLinks   []string
	Counterpoints   []string
	ProposedTasks   []string
	EvidenceQuality *int
	WhyNow          string
}

// AnalysisQuality computes the 0-100 analysis-quality heuristic for a
// checkpoint. It is a pure function: identical inputs always yield the
// identical score.
func AnalysisQuality(in AnalysisQualityInput) int {
	total := 0
	total += summaryLengthTier(len(strings.TrimSpace(in.Summary)))

	if strings.TrimSpace(in.Critique) != "" {
		total += 20
	}

	switch {
	case len(in.CitationLinks) >= 3:
		total += 25
	case len(in.CitationLinks) >= 1:
		total += 15
	}

	switch {
	case len(in.Counterpoints) >= 2:
		total += 15
	case len(in.Counterpoints) == 1:
		total += 10
	}

	switch {
	case len(in.ProposedTasks) >= 2:
		total += 10
	case len(in.ProposedTasks) == 1:
		total += 6
	}

	if in.EvidenceQuality != nil {
		total += 2 * (*in.EvidenceQuality)
	}

	if strings.TrimSpace(in.WhyNow) != "" {
		total += 5
	}

	return clamp(total, 0, 100)
}

func summaryLengthTier(n int) int {
	switch {
	case n >= 160:
		return 20
	case n >= 80:
		return 16
	case n >= 40:
		return 12
	case n >= 20:
		return 8
	default:
		return 0
	}
}

// Priority computes importance*urgency, returning nil when either rating
// is absent. The result is in [1, 25] when defined.
func Priority(importance, urgency *int) *int {
	if importance == nil || urgency == nil {
		return nil
	}
	v := (*importance) * (*urgency)
	return &v
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
