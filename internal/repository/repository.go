package repository

import (
	"context"
	"errors"
	"time"

	"outreach/internal/models"
)

// ErrNotFound is returned when a referenced row does not exist. Callers
// distinguish it from transient query failures with errors.Is.
var ErrNotFound = errors.New("not found")

// EnrollmentRepository defines enrollment data access operations.
// Claim/Release implement the optimistic-concurrency token that guarantees
// at-most-one dispatch per step under overlapping engine passes.
type EnrollmentRepository interface {
	// ListDue returns up to limit active enrollments with next_run_at <= now,
	// oldest due first.
	ListDue(ctx context.Context, now time.Time, limit int) ([]*models.Enrollment, error)
	// Claim atomically transitions the enrollment from active to processing.
	// Returns false when another worker already holds it.
	Claim(ctx context.Context, id int) (bool, error)
	// Release rolls a claim back, restoring active with the given run time.
	Release(ctx context.Context, id int, nextRunAt time.Time) error
	// ReleaseStale reverts enrollments stuck in processing longer than ttl,
	// so a crashed worker's claims are retried on a later pass.
	ReleaseStale(ctx context.Context, ttl time.Duration) (int, error)
	// Update persists current_step, status, next_run_at, last_error and
	// attempt_count for a claimed enrollment.
	Update(ctx context.Context, enrollment *models.Enrollment) error
	GetByID(ctx context.Context, id int) (*models.Enrollment, error)
}

// CampaignRepository defines read-only campaign and step access
type CampaignRepository interface {
	GetByID(ctx context.Context, id int) (*models.Campaign, error)
	// GetStep returns the step at the given 1-based index, or nil when no
	// such step exists (a missing index terminates the sequence).
	GetStep(ctx context.Context, campaignID, index int) (*models.Step, error)
}

// TemplateRepository defines read-only template access
type TemplateRepository interface {
	GetByID(ctx context.Context, id int) (*models.Template, error)
}

// LeadRepository defines read-only lead access
type LeadRepository interface {
	GetByID(ctx context.Context, id int) (*models.Lead, error)
}

// EventRepository defines append-only event access
type EventRepository interface {
	Append(ctx context.Context, event *models.Event) error
	ListByEnrollment(ctx context.Context, enrollmentID int) ([]*models.Event, error)
}
