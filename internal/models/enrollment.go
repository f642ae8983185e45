package models

import "time"

// EnrollmentStatus represents valid enrollment statuses
type EnrollmentStatus string

const (
	EnrollmentStatusActive EnrollmentStatus = "active"
	// EnrollmentStatusProcessing is the transient claim state: a worker has
	// taken exclusive right to the enrollment's due step. Rows in this state
	// are invisible to due-enrollment selection.
	EnrollmentStatusProcessing EnrollmentStatus = "processing"
	EnrollmentStatusDone       EnrollmentStatus = "done"
	EnrollmentStatusError      EnrollmentStatus = "error"
)

// Enrollment is the progress record of one lead moving through one
// campaign's steps. CurrentStep is 0 before the first send and only ever
// increases. NextRunAt is non-null iff the enrollment is active.
// Terminal rows (done, error) persist for audit and are never deleted.
type Enrollment struct {
	ID           int              `json:"id" db:"id"`
	OrgID        int              `json:"org_id" db:"org_id"`
	CampaignID   int              `json:"campaign_id" db:"campaign_id"`
	LeadID       int              `json:"lead_id" db:"lead_id"`
	CurrentStep  int              `json:"current_step" db:"current_step"`
	Status       EnrollmentStatus `json:"status" db:"status"`
	NextRunAt    *time.Time       `json:"next_run_at,omitempty" db:"next_run_at"`
	LastError    *string          `json:"last_error,omitempty" db:"last_error"`
	AttemptCount int              `json:"attempt_count" db:"attempt_count"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at" db:"updated_at"`
}

// Terminal reports whether the enrollment is in a terminal state
func (e *Enrollment) Terminal() bool {
	return e.Status == EnrollmentStatusDone || e.Status == EnrollmentStatusError
}

// DueStep returns the index of the step that should be dispatched next
func (e *Enrollment) DueStep() int {
	return e.CurrentStep + 1
}
