package models

import "time"

// EventOutcome represents the result of one processing attempt
type EventOutcome string

const (
	OutcomeSent        EventOutcome = "sent"
	OutcomeQueuedQuiet EventOutcome = "queued_quiet_hours"
	OutcomeError       EventOutcome = "error"
)

// Event is an append-only fact: one row per processing attempt of one
// enrollment step, including deferrals. Events are never updated or
// deleted; they form the audit trail and feed delivery analytics.
type Event struct {
	ID           string       `json:"id" db:"id"`
	EnrollmentID int          `json:"enrollment_id" db:"enrollment_id"`
	StepIndex    int          `json:"step_index" db:"step_index"`
	Channel      Channel      `json:"channel" db:"channel"`
	Outcome      EventOutcome `json:"outcome" db:"outcome"`
	DeliveryID   *string      `json:"delivery_id,omitempty" db:"delivery_id"`
	Error        *string      `json:"error,omitempty" db:"error"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
}
