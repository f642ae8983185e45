package repository

import (
	"context"
	"database/sql"
	"fmt"

	"outreach/internal/models"
)

type eventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *sql.DB) EventRepository {
	return &eventRepository{db: db}
}

// Append inserts one immutable event row. Events are never updated or
// deleted afterwards.
func (r *eventRepository) Append(ctx context.Context, event *models.Event) error {
	query := `
		INSERT INTO enrollment_events (id, enrollment_id, step_index, channel, outcome, delivery_id, error)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		event.ID,
		event.EnrollmentID,
		event.StepIndex,
		event.Channel,
		event.Outcome,
		event.DeliveryID,
		event.Error,
	).Scan(&event.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}

	return nil
}

// ListByEnrollment retrieves the audit trail for one enrollment in append order
func (r *eventRepository) ListByEnrollment(ctx context.Context, enrollmentID int) ([]*models.Event, error) {
	query := `
		SELECT id, enrollment_id, step_index, channel, outcome, delivery_id, error, created_at
		FROM enrollment_events
		WHERE enrollment_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, enrollmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events := []*models.Event{}
	for rows.Next() {
		event := &models.Event{}
		err := rows.Scan(
			&event.ID,
			&event.EnrollmentID,
			&event.StepIndex,
			&event.Channel,
			&event.Outcome,
			&event.DeliveryID,
			&event.Error,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}

	return events, nil
}
