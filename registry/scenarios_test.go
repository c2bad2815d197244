package registry

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sree-akkineni/researchloop/identity"
	"github.com/sree-akkineni/researchloop/looprecord"
	"github.com/sree-akkineni/researchloop/rllog"
	"github.com/sree-akkineni/researchloop/store"
)

func newTestRegistry(t *testing.T, sessionKey string, clock Clock) *Registry {
	t.Helper()
	dir := t.TempDir()
	s := store.New(filepath.Join(dir, "loops.json"))
	return New(sessionKey,
		WithStore(s),
		WithResolver(identity.StaticResolver("agent-"+sessionKey)),
		WithClock(clock),
		WithLogger(rllog.Noop()),
	)
}

func fixedClock(t int64) Clock {
	return func() int64 { return t }
}

// Scenario 1: lifecycle cap.
func TestScenario_LifecycleCap(t *testing.T) {
	ctx := context.Background()
	now := int64(1000)
	r := newTestRegistry(t, "alpha", func() int64 { return now })

	start := r.Execute(ctx, "t1", ActionStart, map[string]any{"topic": "M", "maxRounds": 2})
	if start.Status != StatusStarted || start.Loop.State != looprecord.StateActive || start.Loop.CurrentRound != 1 {
		t.Fatalf("start: %+v", start)
	}
	loopID := start.Loop.LoopID

	now++
	cp1 := r.Execute(ctx, "t2", ActionCheckpoint, map[string]any{
		"loopId": loopID, "summary": "s1", "recommendation": "continue",
	})
	if cp1.Status != StatusCheckpoint || cp1.Loop.State != looprecord.StateAwaitingDecision {
		t.Fatalf("checkpoint 1: %+v", cp1)
	}
	if cp1.CanContinue == nil || !*cp1.CanContinue {
		t.Fatalf("checkpoint 1 canContinue = %v, want true", cp1.CanContinue)
	}

	now++
	cont1 := r.Execute(ctx, "t3", ActionContinue, map[string]any{"loopId": loopID})
	if cont1.Status != StatusContinued || cont1.Loop.State != looprecord.StateActive || cont1.Loop.CurrentRound != 2 {
		t.Fatalf("continue 1: %+v", cont1)
	}

	now++
	cp2 := r.Execute(ctx, "t4", ActionCheckpoint, map[string]any{
		"loopId": loopID, "summary": "s2", "recommendation": "continue",
	})
	if cp2.Status != StatusCheckpoint {
		t.Fatalf("checkpoint 2: %+v", cp2)
	}
	if cp2.CanContinue == nil || *cp2.CanContinue {
		t.Fatalf("checkpoint 2 canContinue = %v, want false", cp2.CanContinue)
	}

	now++
	cont2 := r.Execute(ctx, "t5", ActionContinue, map[string]any{"loopId": loopID})
	if cont2.Status != StatusError || cont2.Error != "cannot continue: max rounds reached (2)" {
		t.Fatalf("continue 2: %+v", cont2)
	}

	now++
	closeEnv := r.Execute(ctx, "t6", ActionClose, map[string]any{"loopId": loopID, "reason": "done"})
	if closeEnv.Status != StatusClosed || closeEnv.Loop.State != looprecord.StateClosed {
		t.Fatalf("close: %+v", closeEnv)
	}
}

// Scenario 2: hot ordering.
func TestScenario_HotOrdering(t *testing.T) {
	ctx := context.Background()
	now := int64(1000)
	r := newTestRegistry(t, "alpha", func() int64 { return now })

	type fixture struct {
		topic           string
		importance, urgency int
	}
	fixtures := []fixture{
		{"a", 5, 5},
		{"b", 3, 3},
		{"c", 1, 4},
	}

	for _, f := range fixtures {
		start := r.Execute(ctx, "", ActionStart, map[string]any{"topic": f.topic})
		r.Execute(ctx, "", ActionCheckpoint, map[string]any{
			"loopId": start.Loop.LoopID, "summary": "summary text here",
			"importance": float64(f.importance), "urgency": float64(f.urgency),
		})
		now++
	}

	list := r.Execute(ctx, "", ActionList, map[string]any{"view": "hot"})
	if list.Status != StatusOK || len(list.Loops) != 3 {
		t.Fatalf("list: %+v", list)
	}
	wantScores := []int{25, 9, 4}
	for i, row := range list.Loops {
		if row.LastPriorityScore == nil || *row.LastPriorityScore != wantScores[i] {
			t.Errorf("row[%d].LastPriorityScore = %v, want %d", i, row.LastPriorityScore, wantScores[i])
		}
	}
}

// Scenario 3: agent isolation.
func TestScenario_AgentIsolation(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "loops.json")

	alpha := New("alpha",
		WithStore(store.New(path)),
		WithResolver(identity.NewHashResolver()),
		WithLogger(rllog.Noop()),
	)
	beta := New("beta",
		WithStore(store.New(path)),
		WithResolver(identity.NewHashResolver()),
		WithLogger(rllog.Noop()),
	)

	start := alpha.Execute(ctx, "", ActionStart, map[string]any{"topic": "secret"})
	loopID := start.Loop.LoopID

	statusFromBeta := beta.Execute(ctx, "", ActionStatus, map[string]any{"loopId": loopID})
	wantErr := "research loop not accessible: " + loopID
	if statusFromBeta.Status != StatusError || statusFromBeta.Error != wantErr {
		t.Fatalf("status from beta = %+v, want error %q", statusFromBeta, wantErr)
	}

	betaList := beta.Execute(ctx, "", ActionList, map[string]any{})
	for _, row := range betaList.Loops {
		if row.LoopID == loopID {
			t.Fatalf("beta's list leaked alpha's loop: %+v", betaList.Loops)
		}
	}

	alphaList := alpha.Execute(ctx, "", ActionList, map[string]any{})
	found := false
	for _, row := range alphaList.Loops {
		if row.LoopID == loopID {
			found = true
		}
	}
	if !found {
		t.Fatalf("alpha's list is missing its own loop: %+v", alphaList.Loops)
	}
}

// Scenario 4: needs-review.
func TestScenario_NeedsReview(t *testing.T) {
	ctx := context.Background()
	r := newTestRegistry(t, "alpha", fixedClock(1000))

	thin := r.Execute(ctx, "", ActionStart, map[string]any{"topic": "thin"})
	r.Execute(ctx, "", ActionCheckpoint, map[string]any{
		"loopId": thin.Loop.LoopID, "summary": "short",
	})

	thorough := r.Execute(ctx, "", ActionStart, map[string]any{"topic": "thorough"})
	longSummary := ""
	for len(longSummary) < 160 {
		longSummary += "evidence gathered from a primary source review. "
	}
	r.Execute(ctx, "", ActionCheckpoint, map[string]any{
		"loopId":        thorough.Loop.LoopID,
		"summary":       longSummary,
		"critique":      "the analysis holds up under scrutiny",
		"citationLinks": []any{"http://a", "http://b", "http://c"},
	})

	list := r.Execute(ctx, "", ActionList, map[string]any{"view": "needs_review"})
	if len(list.Loops) != 1 || list.Loops[0].LoopID != thin.Loop.LoopID {
		t.Fatalf("needs_review list: %+v", list.Loops)
	}
}

// Scenario 5: spawn advice.
func TestScenario_SpawnAdvice(t *testing.T) {
	ctx := context.Background()

	checkpointParams := func(confidence float64) map[string]any {
		return map[string]any{
			"summary":         "a sufficiently detailed summary of findings so far in this round",
			"critique":        "the evidence is solid but has some gaps",
			"counterpoints":   []any{"a", "b"},
			"citationLinks":   []any{"http://a", "http://b"},
			"proposedTasks":   []any{"dig into source X", "cross check Y"},
			"recommendation":  "continue",
			"importance":      float64(5),
			"urgency":         float64(5),
			"confidence":      confidence,
			"evidenceQuality": float64(4),
		}
	}

	r1 := newTestRegistry(t, "alpha", fixedClock(1000))
	start1 := r1.Execute(ctx, "", ActionStart, map[string]any{"topic": "spawn-ok", "maxRounds": 2})
	params1 := checkpointParams(3)
	params1["loopId"] = start1.Loop.LoopID
	cp1 := r1.Execute(ctx, "", ActionCheckpoint, params1)
	if cp1.SpawnAdvice == nil || !cp1.SpawnAdvice.ShouldSpawn {
		t.Fatalf("expected shouldSpawn=true: %+v", cp1.SpawnAdvice)
	}
	if cp1.SpawnAdvice.SuggestedTask != "dig into source X" {
		t.Errorf("SuggestedTask = %s", cp1.SpawnAdvice.SuggestedTask)
	}

	r2 := newTestRegistry(t, "alpha", fixedClock(1000))
	start2 := r2.Execute(ctx, "", ActionStart, map[string]any{"topic": "spawn-blocked", "maxRounds": 2})
	params2 := checkpointParams(4)
	params2["loopId"] = start2.Loop.LoopID
	cp2 := r2.Execute(ctx, "", ActionCheckpoint, params2)
	if cp2.SpawnAdvice == nil || cp2.SpawnAdvice.ShouldSpawn {
		t.Fatalf("expected shouldSpawn=false: %+v", cp2.SpawnAdvice)
	}
	if cp2.SpawnAdvice.Reason != "confidence already high" {
		t.Errorf("Reason = %s, want mention of confidence", cp2.SpawnAdvice.Reason)
	}
}

// Scenario 6: stress fixture.
func TestScenario_StressFixture(t *testing.T) {
	ctx := context.Background()
	r := newTestRegistry(t, "alpha", fixedClock(1000))

	for i := 0; i < 40; i++ {
		start := r.Execute(ctx, "", ActionStart, map[string]any{"topic": "topic"})
		r.Execute(ctx, "", ActionCheckpoint, map[string]any{
			"loopId":         start.Loop.LoopID,
			"summary":        "a fixture-generated summary",
			"recommendation": "needs_input",
			"importance":     float64(2),
			"urgency":        float64(3),
		})
	}

	needsDecision := r.Execute(ctx, "", ActionList, map[string]any{"view": "needs_decision", "limit": 100})
	if len(needsDecision.Loops) != 40 {
		t.Fatalf("len(needsDecision.Loops) = %d, want 40", len(needsDecision.Loops))
	}
	for _, row := range needsDecision.Loops {
		if row.State != looprecord.StateAwaitingDecision {
			t.Errorf("row %s state = %s, want awaiting_decision", row.LoopID, row.State)
		}
	}

	hot := r.Execute(ctx, "", ActionList, map[string]any{"view": "hot", "limit": 100})
	for i := 1; i < len(hot.Loops); i++ {
		prev := looprecord.IntRating(hot.Loops[i-1].LastPriorityScore)
		cur := looprecord.IntRating(hot.Loops[i].LastPriorityScore)
		if cur > prev {
			t.Fatalf("hot view not sorted: index %d (%d) > index %d (%d)", i, cur, i-1, prev)
		}
	}
}

func TestExecute_UnsupportedAction(t *testing.T) {
	r := newTestRegistry(t, "alpha", fixedClock(1000))
	env := r.Execute(context.Background(), "", "bogus", nil)
	if env.Status != StatusError || env.Error != "unsupported action: bogus" {
		t.Fatalf("got %+v", env)
	}
}

func TestExecute_MissingLoopID(t *testing.T) {
	r := newTestRegistry(t, "alpha", fixedClock(1000))
	env := r.Execute(context.Background(), "", ActionStatus, map[string]any{})
	if env.Status != StatusError || env.Error != "loopId required" {
		t.Fatalf("got %+v", env)
	}
}

func TestExecute_NotFound(t *testing.T) {
	r := newTestRegistry(t, "alpha", fixedClock(1000))
	env := r.Execute(context.Background(), "", ActionStatus, map[string]any{"loopId": "does-not-exist"})
	if env.Status != StatusError || env.Error != "research loop not found: does-not-exist" {
		t.Fatalf("got %+v", env)
	}
}
