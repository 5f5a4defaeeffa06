package gateway

import (
	"context"
	"sync/atomic"
)

type outcomeKey struct{}

// Outcome records whether any lookup made with its context failed. An
// absent value from a failed lookup is a fallback, not an answer, and must
// not be cached as one.
type Outcome struct {
	failed atomic.Bool
}

// TrackOutcome returns a context whose failed lookups are recorded in the
// returned Outcome.
func TrackOutcome(ctx context.Context) (context.Context, *Outcome) {
	o := &Outcome{}
	return context.WithValue(ctx, outcomeKey{}, o), o
}

// MarkDegraded records a failed lookup against ctx, if it is tracked.
func MarkDegraded(ctx context.Context) {
	if o, ok := ctx.Value(outcomeKey{}).(*Outcome); ok {
		o.failed.Store(true)
	}
}

// Degraded reports whether a tracked lookup fell back after a failure.
func (o *Outcome) Degraded() bool {
	return o.failed.Load()
}
