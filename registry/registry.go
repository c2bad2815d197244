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

package registry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sree-akkineni/researchloop/identity"
	"github.com/sree-akkineni/researchloop/looprecord"
	"github.com/sree-akkineni/researchloop/rlconfig"
	"github.com/sree-akkineni/researchloop/rllog"
	"github.com/sree-akkineni/researchloop/store"
	"github.com/sree-akkineni/researchloop/triage"
)

// Action selectors accepted by Execute.
const (
	ActionStart      = "start"
	ActionCheckpoint = "checkpoint"
	ActionContinue   = "continue"
	ActionStatus     = "status"
	ActionList       = "list"
	ActionClose      = "close"
)

// Envelope status values.
const (
	StatusStarted     = "started"
	StatusCheckpoint  = "checkpointed"
	StatusContinued   = "continued"
	StatusClosed      = "closed"
	StatusOK          = "ok"
	StatusError       = "error"
)

// Clock returns the current time as a Unix timestamp (seconds). Injected
// so tests can control time deterministically, the same role hector's
// session package gives an injected clock.
type Clock func() int64

// IDGenerator mints a new, unique loop id.
type IDGenerator func() string

func defaultClock() int64 { return time.Now().Unix() }

func defaultIDGenerator() string { return uuid.NewString() }

// Envelope is the response shape returned by Execute. Only the fields
// relevant to the action and outcome are populated; the rest are left
// at their zero value and omitted from JSON.
type Envelope struct {
	Status     string `json:"status"`
	ToolCallID string `json:"toolCallId,omitempty"`
	Error      string `json:"error,omitempty"`

	Loop *looprecord.Loop `json:"loop,omitempty"`

	CanContinue *bool          `json:"canContinue,omitempty"`
	SpawnAdvice *triage.Advice `json:"spawnAdvice,omitempty"`

	Loops []triage.Row `json:"loops,omitempty"`
}

// Registry is the agent-facing entry point described in this package's
// doc comment.
type Registry struct {
	store        *store.FileStore
	resolver     identity.Resolver
	sessionKey   string
	ownerAgentID string
	clock        Clock
	idGen        IDGenerator
	defaults     rlconfig.Config
	log          *slog.Logger
}

// Option configures a Registry at construction time.
type Option func(*Registry)

// WithStore overrides the persistence layer. Default: a store.FileStore
// at cfg.DocumentPath() using the configured lock timeout.
func WithStore(s *store.FileStore) Option {
	return func(r *Registry) { r.store = s }
}

// WithResolver overrides the session-key-to-agent-id resolver. Default:
// identity.NewHashResolver().
func WithResolver(resolver identity.Resolver) Option {
	return func(r *Registry) { r.resolver = resolver }
}

// WithClock overrides the time source. Default: time.Now().Unix.
func WithClock(clock Clock) Option {
	return func(r *Registry) { r.clock = clock }
}

// WithIDGenerator overrides loop id generation. Default: google/uuid.
func WithIDGenerator(gen IDGenerator) Option {
	return func(r *Registry) { r.idGen = gen }
}

// WithConfig overrides the default max rounds/priority and lock/state-dir
// settings applied when no explicit store was supplied via WithStore.
func WithConfig(cfg rlconfig.Config) Option {
	return func(r *Registry) { r.defaults = cfg }
}

// WithLogger overrides the Registry's logger. Default: rllog.FromEnv().
func WithLogger(log *slog.Logger) Option {
	return func(r *Registry) { r.log = log }
}

// New constructs a Registry scoped to sessionKey. sessionKey is resolved
// once, at construction, into the ownerAgentId used to scope every
// subsequent operation.
func New(sessionKey string, opts ...Option) *Registry {
	r := &Registry{
		sessionKey: sessionKey,
		resolver:   identity.NewHashResolver(),
		clock:      defaultClock,
		idGen:      defaultIDGenerator,
	}
	r.defaults.SetDefaults()

	for _, opt := range opts {
		opt(r)
	}

	if r.store == nil {
		r.store = store.New(r.defaults.DocumentPath()).WithLockTimeout(r.defaults.LockTimeout)
	}
	if r.log == nil {
		r.log = rllog.FromEnv()
	}

	r.ownerAgentID = r.resolver.Resolve(sessionKey)
	return r
}

// OwnerAgentID returns the agent id this Registry's operations are
// scoped to.
func (r *Registry) OwnerAgentID() string { return r.ownerAgentID }

// Execute dispatches the action argument against the registry; an
// "action" key inside params is not consulted. toolCallID is echoed back
// unchanged for the caller's own correlation/logging; it has no effect on
// behavior. A panic raised while handling the action is recovered and
// returned as a status "error" envelope.
func (r *Registry) Execute(ctx context.Context, toolCallID string, action string, params map[string]any) (result Envelope) {
	log := r.log.With("action", action, "toolCallId", toolCallID, "ownerAgentId", r.ownerAgentID)
	defer func() {
		if p := recover(); p != nil {
			log.Warn("operation panicked", "panic", p)
			result = Envelope{Status: StatusError, ToolCallID: toolCallID, Error: fmt.Sprint(p)}
		}
	}()

	var env Envelope
	var err error

	switch action {
	case ActionStart:
		env, err = r.start(ctx, params)
	case ActionCheckpoint:
		env, err = r.checkpoint(ctx, params)
	case ActionContinue:
		env, err = r.continueLoop(ctx, params)
	case ActionStatus:
		env, err = r.status(ctx, params)
	case ActionList:
		env, err = r.list(ctx, params)
	case ActionClose:
		env, err = r.close(ctx, params)
	default:
		err = fmt.Errorf("unsupported action: %s", action)
	}

	env.ToolCallID = toolCallID
	if err != nil {
		log.Warn("operation failed", "error", err)
		return Envelope{Status: StatusError, ToolCallID: toolCallID, Error: err.Error()}
	}
	log.Debug("operation succeeded", "status", env.Status)
	return env
}

func (r *Registry) start(ctx context.Context, params map[string]any) (Envelope, error) {
	topic, _ := getString(params, "topic")
	if topic == "" {
		return Envelope{}, fmt.Errorf("topic required")
	}
	maxRounds := getInt(params, "maxRounds", r.defaults.DefaultMaxRounds)
	priority := looprecord.Priority(getStringDefault(params, "priority", string(r.defaults.DefaultPriority)))

	var loop *looprecord.Loop
	now := r.clock()
	err := r.store.WithLock(ctx, func(doc *looprecord.Document) error {
		loop = looprecord.NewLoop(r.idGen(), topic, r.ownerAgentID, r.sessionKey, maxRounds, priority, now)
		doc.Loops[loop.LoopID] = loop
		return nil
	})
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Status: StatusStarted, Loop: loop}, nil
}

func (r *Registry) checkpoint(ctx context.Context, params map[string]any) (Envelope, error) {
	loopID, _ := getString(params, "loopId")
	if loopID == "" {
		return Envelope{}, looprecord.ErrLoopIDRequired
	}
	summary, _ := getString(params, "summary")
	if summary == "" {
		return Envelope{}, fmt.Errorf("summary required")
	}

	cp := looprecord.Checkpoint{
		Summary:         summary,
		Critique:        getStringDefault(params, "critique", ""),
		Recommendation:  looprecord.Recommendation(getStringDefault(params, "recommendation", "")),
		ProposedTasks:   getStringSlice(params, "proposedTasks"),
		Importance:      looprecord.ParseRating(params["importance"]),
		Urgency:         looprecord.ParseRating(params["urgency"]),
		Confidence:      looprecord.ParseRating(params["confidence"]),
		EvidenceQuality: looprecord.ParseRating(params["evidenceQuality"]),
		CitationLinks:   getStringSlice(params, "citationLinks"),
		Counterpoints:   getStringSlice(params, "counterpoints"),
		WhyNow:          getStringDefault(params, "whyNow", ""),
	}

	var loop *looprecord.Loop
	now := r.clock()
	err := r.store.WithLock(ctx, func(doc *looprecord.Document) error {
		l, lookupErr := r.lookup(doc, loopID)
		if lookupErr != nil {
			return lookupErr
		}
		if cpErr := l.Checkpoint(cp, now); cpErr != nil {
			return cpErr
		}
		loop = l
		return nil
	})
	if err != nil {
		return Envelope{}, err
	}

	last := loop.LastCheckpoint()
	canContinue := last.Recommendation == looprecord.RecommendationContinue && loop.CurrentRound < loop.MaxRounds
	advice := triage.SpawnAdvice(loop, canContinue)

	return Envelope{
		Status:      StatusCheckpoint,
		Loop:        loop,
		CanContinue: &canContinue,
		SpawnAdvice: &advice,
	}, nil
}

func (r *Registry) continueLoop(ctx context.Context, params map[string]any) (Envelope, error) {
	loopID, _ := getString(params, "loopId")
	if loopID == "" {
		return Envelope{}, looprecord.ErrLoopIDRequired
	}
	reason := getStringDefault(params, "reason", "")

	var loop *looprecord.Loop
	now := r.clock()
	err := r.store.WithLock(ctx, func(doc *looprecord.Document) error {
		l, lookupErr := r.lookup(doc, loopID)
		if lookupErr != nil {
			return lookupErr
		}
		if contErr := l.Continue(reason, now); contErr != nil {
			return contErr
		}
		loop = l
		return nil
	})
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Status: StatusContinued, Loop: loop}, nil
}

func (r *Registry) close(ctx context.Context, params map[string]any) (Envelope, error) {
	loopID, _ := getString(params, "loopId")
	if loopID == "" {
		return Envelope{}, looprecord.ErrLoopIDRequired
	}
	reason := getStringDefault(params, "reason", "")

	var loop *looprecord.Loop
	now := r.clock()
	err := r.store.WithLock(ctx, func(doc *looprecord.Document) error {
		l, lookupErr := r.lookup(doc, loopID)
		if lookupErr != nil {
			return lookupErr
		}
		l.Close(reason, now)
		loop = l
		return nil
	})
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Status: StatusClosed, Loop: loop}, nil
}

func (r *Registry) status(ctx context.Context, params map[string]any) (Envelope, error) {
	loopID, _ := getString(params, "loopId")
	if loopID == "" {
		return Envelope{}, looprecord.ErrLoopIDRequired
	}

	doc, err := r.store.Read(ctx)
	if err != nil {
		return Envelope{}, err
	}
	loop, err := r.lookup(doc, loopID)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Status: StatusOK, Loop: loop}, nil
}

func (r *Registry) list(ctx context.Context, params map[string]any) (Envelope, error) {
	doc, err := r.store.Read(ctx)
	if err != nil {
		return Envelope{}, err
	}

	opts := triage.Options{
		State:      looprecord.State(getStringDefault(params, "state", "")),
		View:       triage.View(getStringDefault(params, "view", "")),
		StaleHours: getInt(params, "staleHours", 0),
		Limit:      getInt(params, "limit", 0),
	}
	rows := triage.List(doc, r.ownerAgentID, opts, r.clock())
	return Envelope{Status: StatusOK, Loops: rows}, nil
}

// lookup resolves loopID against doc, enforcing ownership. A loop that
// doesn't exist at all returns NotFoundError; a loop owned by a
// different agent returns NotAccessibleError, never revealing that the
// loop exists.
func (r *Registry) lookup(doc *looprecord.Document, loopID string) (*looprecord.Loop, error) {
	loop, ok := doc.Loops[loopID]
	if !ok {
		return nil, &looprecord.NotFoundError{LoopID: loopID}
	}
	if loop.OwnerAgentID != r.ownerAgentID {
		return nil, &looprecord.NotAccessibleError{LoopID: loopID}
	}
	return loop, nil
}
