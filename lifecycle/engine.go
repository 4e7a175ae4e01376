package lifecycle

import (
	"context"
	"fmt"
	"maps"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/atomic"
)

// Engine executes guarded transitions against a single Definition. It is the
// reusable part of the lifecycle machinery: one engine per entity type,
// driven entirely by the definition passed at construction.
//
// Engines are cheap and intended to be constructed per request or command.
// The in-flight latch only has to catch same-stack reentrancy (a hook
// calling back into the engine); it is not a substitute for cross-request
// mutual exclusion on the underlying entity record, which remains the
// caller's persistence concern. Sharing one engine across goroutines is a
// caller error that the latch surfaces as ErrReentrantTransition instead of
// state corruption.
type Engine struct {
	def      *Definition
	logger   Logger
	clock    func() time.Time
	inFlight atomic.Bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for transition outcomes. The default logs
// through slog.
func WithLogger(logger Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithClock overrides the time source used for timestamps and records.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

// NewEngine creates an engine for the given definition. The definition is
// validated; a broken definition is a startup error, not something to
// discover on the first transition.
func NewEngine(def *Definition, opts ...Option) (*Engine, error) {
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("invalid definition: %w", err)
	}

	engine := &Engine{
		def:    def,
		logger: NewDefaultLogger(),
		clock:  time.Now,
	}

	for _, opt := range opts {
		opt(engine)
	}

	return engine, nil
}

// Definition returns the definition the engine executes.
func (e *Engine) Definition() *Definition {
	return e.def
}

// StateMetadata returns presentation hints for a state.
func (e *Engine) StateMetadata(state State) Metadata {
	return e.def.Metadata(state)
}

// GetHistory returns the entity's retained transition records, oldest-first.
// A positive limit restricts the result to the most recent limit records.
func (e *Engine) GetHistory(entity Entity, limit int) []Record {
	return entity.History().All(limit)
}

// Transition attempts to move the entity to req.TargetState. On success the
// entity's state field is mutated, any bound timestamp field is stamped, and
// exactly one Record is appended to the entity's history. On rejection the
// entity is left untouched and a *TransitionError wrapping one of the
// rejection sentinels is returned.
func (e *Engine) Transition(ctx context.Context, entity Entity, req Request) (Record, error) {
	return e.run(ctx, entity, req, false)
}

// ForceTransition is the audited escape hatch: it moves the entity to
// req.TargetState bypassing the edge table, guards, and validators entirely.
// It still rejects no-op and stale requests, still requires the target to be
// a defined state, still runs hooks, and still stamps timestamps and
// history. A non-empty reason is mandatory; the resulting record's context
// carries "force": true so the bypass is visible in the audit trail.
func (e *Engine) ForceTransition(ctx context.Context, entity Entity, req Request) (Record, error) {
	if req.Reason == "" {
		terr := newTransitionError(req.CurrentState, req.TargetState, ErrReasonRequired)
		e.observeRejection(ctx, terr)

		return Record{}, terr
	}

	forced := maps.Clone(req.Context)
	if forced == nil {
		forced = make(map[string]any, 1)
	}

	forced[forceContextKey] = true
	req.Context = forced

	return e.run(ctx, entity, req, true)
}

// CanTransitionTo is a non-mutating dry run of the legality checks: state
// membership, no-op, edge lookup, guard, and validator. It never touches
// history and never invokes hooks.
func (e *Engine) CanTransitionTo(ctx context.Context, entity Entity, target State, reqCtx map[string]any) bool {
	req := Request{
		CurrentState: entity.CurrentState(),
		TargetState:  target,
		Context:      reqCtx,
	}

	if !e.def.HasState(target) || req.CurrentState == target {
		return false
	}

	edge, terr := e.selectEdge(ctx, entity, req)
	if terr != nil {
		return false
	}

	if edge.Validator != nil {
		return edge.Validator(ctx, entity, req).Valid
	}

	return true
}

// AllowedTransitions returns the target states reachable from the entity's
// current state, in natural sort order. Guards are evaluated; validators are
// deliberately not, since their reasons do not matter when deciding which
// actions to offer.
func (e *Engine) AllowedTransitions(ctx context.Context, entity Entity, reqCtx map[string]any) []State {
	current := entity.CurrentState()
	req := Request{
		CurrentState: current,
		Context:      reqCtx,
	}

	reachable := NewStateSet()

	for _, edge := range e.def.edges {
		if !edge.HasSource(current) || edge.To == current {
			continue
		}

		if edge.Guard != nil && !edge.Guard(ctx, entity, req) {
			continue
		}

		reachable.Add(edge.To)
	}

	return reachable.NaturalSortedEntries()
}

// run is the shared transition path. Steps follow a strict order: latch,
// preconditions, edge selection (skipped when forced), validator, before
// hooks, mutation, timestamp, history, after hooks.
func (e *Engine) run(ctx context.Context, entity Entity, req Request, forced bool) (Record, error) {
	// Reentrancy latch. Set for the duration of the call and cleared on
	// every exit path; a hook calling back into the engine lands here.
	if !e.inFlight.CompareAndSwap(false, true) {
		terr := newTransitionError(req.CurrentState, req.TargetState, ErrReentrantTransition)
		e.observeRejection(ctx, terr)

		return Record{}, terr
	}
	defer e.inFlight.Store(false)

	start := e.clock()

	ctx, span := startTransitionSpan(ctx, e.def.name, req, forced)
	defer span.End()

	record, terr := e.attempt(ctx, entity, req, forced)
	if terr != nil {
		span.RecordError(terr)
		span.SetStatus(codes.Error, terr.Error())
		e.observeRejection(ctx, terr)

		return Record{}, terr
	}

	span.SetStatus(codes.Ok, "committed")

	transitionsTotal.WithLabelValues(e.def.name, string(record.From), string(record.To), outcomeSuccess).Inc()
	transitionDuration.WithLabelValues(e.def.name, outcomeSuccess).Observe(e.clock().Sub(start).Seconds())

	if forced {
		forceOverridesTotal.WithLabelValues(e.def.name, string(record.From), string(record.To)).Inc()
	}

	if e.logger != nil {
		e.logger.TransitionExecuted(ctx, e.def.name, record)
	}

	return record, nil
}

// attempt performs the checks and, if they all pass, commits the mutation.
func (e *Engine) attempt(ctx context.Context, entity Entity, req Request, forced bool) (Record, *TransitionError) {
	current := entity.CurrentState()

	if !e.def.HasState(req.TargetState) {
		return Record{}, newTransitionError(current, req.TargetState, ErrUnknownState)
	}

	// Cross-check the caller's believed state against the live entity state
	// to catch stale-read bugs before any legality reasoning.
	if req.CurrentState != current {
		return Record{}, newTransitionError(req.CurrentState, req.TargetState, ErrStaleState)
	}

	if current == req.TargetState {
		return Record{}, newTransitionError(current, req.TargetState, ErrNoOpTransition)
	}

	if !forced {
		edge, terr := e.selectEdge(ctx, entity, req)
		if terr != nil {
			return Record{}, terr
		}

		if edge.Validator != nil {
			result := edge.Validator(ctx, entity, req)
			if !result.Valid {
				return Record{}, newValidationError(current, req.TargetState, result.Reasons)
			}
		}
	}

	for _, hook := range e.def.beforeHooks(req.TargetState) {
		if !hook(ctx, entity, current, req.TargetState, req) {
			return Record{}, newTransitionError(current, req.TargetState, ErrHookRejected)
		}
	}

	record := e.commit(entity, current, req)

	e.runAfterHooks(ctx, entity, current, req)

	return record, nil
}

// selectEdge scans the edge table in declaration order for the first edge
// matching the requested pair whose guard accepts. When edges match the pair
// but every guard rejects, the first rejecting guard's name is surfaced.
func (e *Engine) selectEdge(ctx context.Context, entity Entity, req Request) (Edge, *TransitionError) {
	matched := false
	rejectedGuard := ""

	for _, edge := range e.def.edges {
		if edge.To != req.TargetState || !edge.HasSource(req.CurrentState) {
			continue
		}

		matched = true

		if edge.Guard == nil || edge.Guard(ctx, entity, req) {
			return edge, nil
		}

		if rejectedGuard == "" {
			rejectedGuard = edge.GuardName
		}
	}

	if !matched {
		return Edge{}, newTransitionError(req.CurrentState, req.TargetState, ErrIllegalTransition)
	}

	return Edge{}, newGuardError(req.CurrentState, req.TargetState, rejectedGuard)
}

// commit applies the state mutation, timestamp stamping, and history append
// as one unit. The accessor calls cannot fail by contract; if one of them
// panics anyway, the state assignment is rolled back before the panic
// propagates so the entity never observes a half-applied transition.
func (e *Engine) commit(entity Entity, from State, req Request) Record {
	now := e.clock()

	entity.SetCurrentState(req.TargetState)

	committed := false
	defer func() {
		if !committed {
			entity.SetCurrentState(from)
		}
	}()

	if field, ok := e.def.TimestampField(req.TargetState); ok {
		entity.SetTimestampField(field, now)
	}

	record := newRecord(from, req.TargetState, now, req)
	entity.History().Append(record)

	committed = true

	return record
}

// runAfterHooks invokes after-hooks best-effort. The mutation has already
// committed, so a failing hook is logged and skipped, never propagated.
func (e *Engine) runAfterHooks(ctx context.Context, entity Entity, from State, req Request) {
	for _, hook := range e.def.afterHooks(req.TargetState) {
		func() {
			defer func() {
				if r := recover(); r != nil && e.logger != nil {
					e.logger.AfterHookFailed(ctx, e.def.name, from, req.TargetState, fmt.Errorf("after-hook panic: %v", r))
				}
			}()

			hook(ctx, entity, from, req.TargetState, req)
		}()
	}
}

// observeRejection records metrics, span-independent logging, and rejection
// counters for a failed transition.
func (e *Engine) observeRejection(ctx context.Context, terr *TransitionError) {
	rejectionsTotal.WithLabelValues(e.def.name, string(terr.From), string(terr.To), rejectionKind(terr)).Inc()

	if e.logger != nil {
		e.logger.TransitionRejected(ctx, e.def.name, terr)
	}
}

// spanAttributes returns the common span attributes for a transition.
func spanAttributes(definition string, req Request, forced bool) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("definition", definition),
		attribute.String("from", string(req.CurrentState)),
		attribute.String("to", string(req.TargetState)),
		attribute.Bool("forced", forced),
	}
}
