package service

import (
	"time"

	"outreach/internal/models"
)

// Advancer computes the enrollment's next state after a processing
// attempt. It is the only component that mutates enrollments, and it
// never advances current_step on a failed send.
//
// Failed-send policy: retry with exponential backoff up to maxAttempts,
// then move the enrollment to the terminal error state.
type Advancer struct {
	maxAttempts  int
	retryBackoff time.Duration // base delay for the first retry
}

// NewAdvancer creates an advancer with the given retry policy
func NewAdvancer(maxAttempts int, retryBackoff time.Duration) *Advancer {
	return &Advancer{
		maxAttempts:  maxAttempts,
		retryBackoff: retryBackoff,
	}
}

// Defer reschedules the enrollment to the quiet-hours end without
// progressing or counting an attempt.
func (a *Advancer) Defer(e *models.Enrollment, resumeAt time.Time) {
	e.Status = models.EnrollmentStatusActive
	e.NextRunAt = &resumeAt
}

// Advance records a successful dispatch of step. next is the step that
// follows, or nil when step was the last one.
func (a *Advancer) Advance(e *models.Enrollment, step, next *models.Step, now time.Time) {
	e.CurrentStep = step.Index
	e.AttemptCount = 0
	e.LastError = nil

	if next == nil {
		e.Status = models.EnrollmentStatusDone
		e.NextRunAt = nil
		return
	}

	runAt := now.Add(time.Duration(next.DelayMinutes) * time.Minute)
	e.Status = models.EnrollmentStatusActive
	e.NextRunAt = &runAt
}

// Fail records a failed dispatch: the step is retried with backoff until
// the attempt limit, after which the enrollment terminates in error.
func (a *Advancer) Fail(e *models.Enrollment, reason string, now time.Time) {
	e.LastError = &reason
	e.AttemptCount++

	if e.AttemptCount >= a.maxAttempts {
		e.Status = models.EnrollmentStatusError
		e.NextRunAt = nil
		return
	}

	backoff := a.retryBackoff << (e.AttemptCount - 1)
	runAt := now.Add(backoff)
	e.Status = models.EnrollmentStatusActive
	e.NextRunAt = &runAt
}

// Terminate moves the enrollment to the terminal error state. Used for
// configuration errors, which are never retried.
func (a *Advancer) Terminate(e *models.Enrollment, reason string) {
	e.LastError = &reason
	e.Status = models.EnrollmentStatusError
	e.NextRunAt = nil
}
