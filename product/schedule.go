package product

import (
	"errors"
	"time"
)

// MaxScheduleAhead is how far into the future a publish may be scheduled.
const MaxScheduleAhead = 30 * 24 * time.Hour

// Schedule validation errors.
var (
	ErrScheduleNotFuture   = errors.New("scheduled time must be in the future")
	ErrScheduleTooFarAhead = errors.New("scheduled time must be within 30 days")
)

// Schedule is a future-effective publish request. The workflow engine never
// acts on it; callers validate the schedule up front, store it on the
// product, and an external scheduler performs an ordinary publish transition
// when the time arrives.
type Schedule struct {
	PublishAt time.Time
}

// Validate checks the schedule against the given current time: strictly in
// the future and no more than MaxScheduleAhead ahead.
func (s Schedule) Validate(now time.Time) error {
	if !s.PublishAt.After(now) {
		return ErrScheduleNotFuture
	}

	if s.PublishAt.After(now.Add(MaxScheduleAhead)) {
		return ErrScheduleTooFarAhead
	}

	return nil
}

// Apply records the validated schedule on the product.
func (s Schedule) Apply(p *Product) {
	at := s.PublishAt
	p.ScheduledAt = &at
}
