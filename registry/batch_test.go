package registry

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sree-akkineni/researchloop/identity"
	"github.com/sree-akkineni/researchloop/rllog"
	"github.com/sree-akkineni/researchloop/store"
)

func TestExecuteBatch_RunsConcurrentlyAndPreservesOrder(t *testing.T) {
	dir := t.TempDir()
	r := New("alpha",
		WithStore(store.New(filepath.Join(dir, "loops.json"))),
		WithResolver(identity.StaticResolver("agent-alpha")),
		WithLogger(rllog.Noop()),
	)

	requests := make([]Request, 10)
	for i := range requests {
		requests[i] = Request{
			ToolCallID: "call",
			Action:     ActionStart,
			Params:     map[string]any{"topic": "batch-" + string(rune('a'+i))},
		}
	}

	envelopes, err := r.ExecuteBatch(context.Background(), requests)
	if err != nil {
		t.Fatalf("ExecuteBatch: %v", err)
	}
	if len(envelopes) != len(requests) {
		t.Fatalf("len(envelopes) = %d, want %d", len(envelopes), len(requests))
	}

	seen := make(map[string]bool)
	for i, env := range envelopes {
		if env.Status != StatusStarted {
			t.Fatalf("envelope %d status = %s", i, env.Status)
		}
		if env.Loop.Topic != requests[i].Params["topic"] {
			t.Fatalf("envelope %d topic = %s, want %v", i, env.Loop.Topic, requests[i].Params["topic"])
		}
		if seen[env.Loop.LoopID] {
			t.Fatalf("duplicate loop id from batch start: %s", env.Loop.LoopID)
		}
		seen[env.Loop.LoopID] = true
	}

	list := r.Execute(context.Background(), "", ActionList, map[string]any{"limit": 100})
	if len(list.Loops) != len(requests) {
		t.Fatalf("len(list.Loops) = %d, want %d", len(list.Loops), len(requests))
	}
}

func TestExecuteBatch_MixedReadsAndWrites(t *testing.T) {
	dir := t.TempDir()
	r := New("alpha",
		WithStore(store.New(filepath.Join(dir, "loops.json"))),
		WithResolver(identity.StaticResolver("agent-alpha")),
		WithLogger(rllog.Noop()),
	)

	start := r.Execute(context.Background(), "", ActionStart, map[string]any{"topic": "pre-existing"})
	loopID := start.Loop.LoopID

	requests := []Request{
		{Action: ActionStatus, Params: map[string]any{"loopId": loopID}},
		{Action: ActionList, Params: map[string]any{}},
		{Action: ActionStart, Params: map[string]any{"topic": "new-one"}},
	}

	envelopes, err := r.ExecuteBatch(context.Background(), requests)
	if err != nil {
		t.Fatalf("ExecuteBatch: %v", err)
	}
	if envelopes[0].Status != StatusOK || envelopes[0].Loop.LoopID != loopID {
		t.Errorf("status envelope: %+v", envelopes[0])
	}
	if envelopes[1].Status != StatusOK {
		t.Errorf("list envelope: %+v", envelopes[1])
	}
	if envelopes[2].Status != StatusStarted {
		t.Errorf("start envelope: %+v", envelopes[2])
	}
}
