package lifecycle

import (
	"maps"
	"time"

	"github.com/google/uuid"
)

// forceContextKey marks a record's context as produced by a force override.
// It is written by ForceTransition so the audit trail reflects that
// validation was bypassed.
const forceContextKey = "force"

// Request describes one attempted transition. CurrentState is the state the
// caller believes the entity is in; it is cross-checked against the live
// entity state to catch stale reads.
type Request struct {
	CurrentState State
	TargetState  State
	Reason       string
	ActorID      int64
	Context      map[string]any
}

// ContextBool reads a boolean flag from the request context.
func (r Request) ContextBool(key string) bool {
	v, ok := r.Context[key].(bool)

	return ok && v
}

// Record is the immutable account of one committed transition. Its context
// is a snapshot copy taken at commit time, never a live reference.
type Record struct {
	ID        uuid.UUID
	From      State
	To        State
	Timestamp time.Time
	Reason    string
	ActorID   int64
	Context   map[string]any
}

// Forced reports whether the record was produced by a force override.
func (r Record) Forced() bool {
	v, ok := r.Context[forceContextKey].(bool)

	return ok && v
}

// newRecord builds a Record from a request, snapshotting the request
// context.
func newRecord(from, to State, at time.Time, req Request) Record {
	var snapshot map[string]any
	if len(req.Context) > 0 {
		snapshot = maps.Clone(req.Context)
	}

	return Record{
		ID:        uuid.New(),
		From:      from,
		To:        to,
		Timestamp: at,
		Reason:    req.Reason,
		ActorID:   req.ActorID,
		Context:   snapshot,
	}
}
