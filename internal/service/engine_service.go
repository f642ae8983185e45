package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"outreach/internal/metrics"
	"outreach/internal/models"
	"outreach/internal/repository"
)

// Engine is the batch scheduler: each pass claims a bounded batch of due
// enrollments and drives the quiet-hours gate, personalizer, dispatcher,
// event recorder and advancer for each one. Failures are isolated per
// enrollment; one bad enrollment never aborts the batch.
type Engine struct {
	enrollments repository.EnrollmentRepository
	campaigns   repository.CampaignRepository
	templates   repository.TemplateRepository
	leads       repository.LeadRepository
	recorder    *EventRecorder
	renderer    *TemplateService
	dispatcher  *Dispatcher
	advancer    *Advancer

	batchSize int
	workers   int
	claimTTL  time.Duration

	// Now is the engine clock, overridable in tests
	Now func() time.Time
}

// EngineOptions bounds a batch pass
type EngineOptions struct {
	BatchSize int
	Workers   int
	ClaimTTL  time.Duration
}

// NewEngine creates the batch scheduler
func NewEngine(
	enrollments repository.EnrollmentRepository,
	campaigns repository.CampaignRepository,
	templates repository.TemplateRepository,
	leads repository.LeadRepository,
	recorder *EventRecorder,
	renderer *TemplateService,
	dispatcher *Dispatcher,
	advancer *Advancer,
	opts EngineOptions,
) *Engine {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 50
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.ClaimTTL <= 0 {
		opts.ClaimTTL = 10 * time.Minute
	}

	return &Engine{
		enrollments: enrollments,
		campaigns:   campaigns,
		templates:   templates,
		leads:       leads,
		recorder:    recorder,
		renderer:    renderer,
		dispatcher:  dispatcher,
		advancer:    advancer,
		batchSize:   opts.BatchSize,
		workers:     opts.Workers,
		claimTTL:    opts.ClaimTTL,
		Now:         time.Now,
	}
}

// RunPass executes one batch pass and returns the number of enrollments
// attempted, regardless of per-item outcome. Passes may overlap: the
// claim step guarantees at most one dispatch per due step.
func (s *Engine) RunPass(ctx context.Context) (int, error) {
	start := time.Now()
	metrics.EnginePasses.Inc()
	defer func() {
		metrics.PassDuration.Observe(time.Since(start).Seconds())
	}()

	released, err := s.enrollments.ReleaseStale(ctx, s.claimTTL)
	if err != nil {
		return 0, &PersistenceError{Op: "release stale claims", Err: err}
	}
	if released > 0 {
		log.Printf("Released %d stale enrollment claim(s)", released)
	}

	due, err := s.enrollments.ListDue(ctx, s.Now(), s.batchSize)
	if err != nil {
		return 0, &PersistenceError{Op: "list due enrollments", Err: err}
	}

	var (
		wg        sync.WaitGroup
		processed int64
	)
	sem := make(chan struct{}, s.workers)

	for _, enrollment := range due {
		// Shutdown between enrollments: the rest of the batch stays due and
		// is picked up by a later pass.
		if ctx.Err() != nil {
			break
		}

		sem <- struct{}{}
		wg.Add(1)
		go func(e *models.Enrollment) {
			defer wg.Done()
			defer func() { <-sem }()

			if s.processOne(ctx, e) {
				atomic.AddInt64(&processed, 1)
			}
		}(enrollment)
	}
	wg.Wait()

	return int(processed), nil
}

// processOne claims and processes a single enrollment. Returns whether the
// enrollment was attempted; a lost claim means another pass took it and is
// skipped silently.
func (s *Engine) processOne(ctx context.Context, e *models.Enrollment) (attempted bool) {
	claimed, err := s.enrollments.Claim(ctx, e.ID)
	if err != nil {
		log.Printf("Failed to claim enrollment %d: %v", e.ID, err)
		return false
	}
	if !claimed {
		return false
	}
	attempted = true

	defer func() {
		if r := recover(); r != nil {
			log.Printf("PANIC processing enrollment %d: %v", e.ID, r)
			s.terminate(ctx, e, "", fmt.Sprintf("panic: %v", r))
		}
	}()

	outcome := s.process(ctx, e)
	metrics.EnrollmentsProcessed.WithLabelValues(outcome).Inc()
	return attempted
}

// process runs the per-enrollment pipeline for an already-claimed
// enrollment and returns the outcome label.
func (s *Engine) process(ctx context.Context, e *models.Enrollment) string {
	now := s.Now()

	// Run time to restore when a persistence failure aborts the attempt
	prior := now
	if e.NextRunAt != nil {
		prior = *e.NextRunAt
	}

	campaign, err := s.campaigns.GetByID(ctx, e.CampaignID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return s.terminate(ctx, e, "", fmt.Sprintf("campaign %d does not exist", e.CampaignID))
		}
		return s.release(ctx, e, prior, err)
	}

	dueIndex := e.DueStep()
	step, err := s.campaigns.GetStep(ctx, e.CampaignID, dueIndex)
	if err != nil {
		return s.release(ctx, e, prior, err)
	}
	if step == nil {
		return s.terminate(ctx, e, "", fmt.Sprintf("campaign %d has no step %d", e.CampaignID, dueIndex))
	}

	// Loaded before dispatch so that nothing but writes remains afterwards
	next, err := s.campaigns.GetStep(ctx, e.CampaignID, dueIndex+1)
	if err != nil {
		return s.release(ctx, e, prior, err)
	}

	template, err := s.templates.GetByID(ctx, step.TemplateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return s.terminate(ctx, e, step.Channel, fmt.Sprintf("step %d references missing template %d", step.Index, step.TemplateID))
		}
		return s.release(ctx, e, prior, err)
	}

	lead, err := s.leads.GetByID(ctx, e.LeadID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return s.terminate(ctx, e, step.Channel, fmt.Sprintf("lead %d does not exist", e.LeadID))
		}
		return s.release(ctx, e, prior, err)
	}

	decision, err := EvaluateQuietHours(campaign.QuietStart, campaign.QuietEnd, now)
	if err != nil {
		return s.terminate(ctx, e, step.Channel, fmt.Sprintf("campaign %d quiet hours: %v", e.CampaignID, err))
	}
	if decision.Deferred {
		if _, err := s.recorder.Record(ctx, e.ID, step.Index, step.Channel, models.OutcomeQueuedQuiet, nil, nil); err != nil {
			return s.release(ctx, e, prior, err)
		}
		s.advancer.Defer(e, decision.ResumeAt)
		s.update(ctx, e)
		return "deferred"
	}

	content := s.renderer.Render(template.Body, s.renderer.Vars(lead, campaign))
	outcome := s.dispatcher.Dispatch(ctx, step.Channel, lead.Recipient(step.Channel), content)

	if outcome.Err != nil {
		reason := outcome.Err.Error()
		if _, err := s.recorder.Record(ctx, e.ID, step.Index, step.Channel, models.OutcomeError, nil, &reason); err != nil {
			return s.failRun(ctx, e, prior, err)
		}
		s.advancer.Fail(e, reason, now)
		s.update(ctx, e)
		return "failed"
	}

	var deliveryID *string
	if outcome.DeliveryID != "" {
		deliveryID = &outcome.DeliveryID
	}
	if _, err := s.recorder.Record(ctx, e.ID, step.Index, step.Channel, models.OutcomeSent, deliveryID, nil); err != nil {
		return s.failRun(ctx, e, prior, err)
	}
	s.advancer.Advance(e, step, next, now)
	s.update(ctx, e)
	return "sent"
}

// release rolls the claim back after a persistence failure: the enrollment
// stays active with its prior run time and is retried on a later pass.
func (s *Engine) release(ctx context.Context, e *models.Enrollment, prior time.Time, cause error) string {
	log.Printf("Aborting enrollment %d for this pass: %v", e.ID, cause)
	if err := s.enrollments.Release(ctx, e.ID, prior); err != nil {
		// The stale-claim reaper will revert it
		log.Printf("Failed to release enrollment %d: %v", e.ID, err)
	}
	return "aborted"
}

// failRun handles an event-append failure: the run for this enrollment is
// considered failed and the cause lands in last_error, best-effort.
func (s *Engine) failRun(ctx context.Context, e *models.Enrollment, prior time.Time, cause error) string {
	log.Printf("Failed to record event for enrollment %d: %v", e.ID, cause)

	msg := cause.Error()
	e.LastError = &msg
	e.Status = models.EnrollmentStatusActive
	e.NextRunAt = &prior
	s.update(ctx, e)
	return "aborted"
}

// terminate records an error event and moves the enrollment to the
// terminal error state. No dispatch is attempted.
func (s *Engine) terminate(ctx context.Context, e *models.Enrollment, channel models.Channel, reason string) string {
	if _, err := s.recorder.Record(ctx, e.ID, e.DueStep(), channel, models.OutcomeError, nil, &reason); err != nil {
		log.Printf("Failed to record error event for enrollment %d: %v", e.ID, err)
	}
	s.advancer.Terminate(e, reason)
	s.update(ctx, e)
	return "error"
}

func (s *Engine) update(ctx context.Context, e *models.Enrollment) {
	if err := s.enrollments.Update(ctx, e); err != nil {
		log.Printf("Failed to update enrollment %d: %v", e.ID, err)
	}
}
