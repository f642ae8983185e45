package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"outreach/internal/models"
)

type enrollmentRepository struct {
	db *sql.DB
}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository(db *sql.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

const enrollmentColumns = `id, org_id, campaign_id, lead_id, current_step, status, next_run_at, last_error, attempt_count, created_at, updated_at`

func scanEnrollment(row interface {
	Scan(dest ...interface{}) error
}) (*models.Enrollment, error) {
	e := &models.Enrollment{}
	err := row.Scan(
		&e.ID,
		&e.OrgID,
		&e.CampaignID,
		&e.LeadID,
		&e.CurrentStep,
		&e.Status,
		&e.NextRunAt,
		&e.LastError,
		&e.AttemptCount,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// ListDue returns active enrollments whose next_run_at has passed, oldest
// due first to bound staleness.
func (r *enrollmentRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]*models.Enrollment, error) {
	query := `
		SELECT ` + enrollmentColumns + `
		FROM enrollments
		WHERE status = 'active' AND next_run_at <= $1
		ORDER BY next_run_at ASC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list due enrollments: %w", err)
	}
	defer rows.Close()

	enrollments := []*models.Enrollment{}
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan enrollment: %w", err)
		}
		enrollments = append(enrollments, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate enrollments: %w", err)
	}

	return enrollments, nil
}

// Claim performs the atomic active -> processing transition. The status
// predicate makes the update conditional, so two concurrent passes cannot
// both take the same enrollment: exactly one sees rows affected.
func (r *enrollmentRepository) Claim(ctx context.Context, id int) (bool, error) {
	query := `
		UPDATE enrollments
		SET status = 'processing', updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND status = 'active'
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to claim enrollment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows == 1, nil
}

// Release rolls a claim back without recording progress
func (r *enrollmentRepository) Release(ctx context.Context, id int, nextRunAt time.Time) error {
	query := `
		UPDATE enrollments
		SET status = 'active', next_run_at = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND status = 'processing'
	`

	_, err := r.db.ExecContext(ctx, query, id, nextRunAt)
	if err != nil {
		return fmt.Errorf("failed to release enrollment: %w", err)
	}

	return nil
}

// ReleaseStale reverts claims abandoned by crashed or cancelled workers
func (r *enrollmentRepository) ReleaseStale(ctx context.Context, ttl time.Duration) (int, error) {
	query := `
		UPDATE enrollments
		SET status = 'active', next_run_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		WHERE status = 'processing' AND updated_at < $1
	`

	result, err := r.db.ExecContext(ctx, query, time.Now().Add(-ttl))
	if err != nil {
		return 0, fmt.Errorf("failed to release stale claims: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rows), nil
}

// Update persists the advancer's decision for a claimed enrollment
func (r *enrollmentRepository) Update(ctx context.Context, enrollment *models.Enrollment) error {
	query := `
		UPDATE enrollments
		SET current_step = $1,
			status = $2,
			next_run_at = $3,
			last_error = $4,
			attempt_count = $5,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $6
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		enrollment.CurrentStep,
		enrollment.Status,
		enrollment.NextRunAt,
		enrollment.LastError,
		enrollment.AttemptCount,
		enrollment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update enrollment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("enrollment %d: %w", enrollment.ID, ErrNotFound)
	}

	return nil
}

// GetByID retrieves an enrollment by ID
func (r *enrollmentRepository) GetByID(ctx context.Context, id int) (*models.Enrollment, error) {
	query := `
		SELECT ` + enrollmentColumns + `
		FROM enrollments
		WHERE id = $1
	`

	e, err := scanEnrollment(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("enrollment %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}

	return e, nil
}
