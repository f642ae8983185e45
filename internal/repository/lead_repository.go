package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"outreach/internal/models"
)

type leadRepository struct {
	db *sql.DB
}

// NewLeadRepository creates a new lead repository
func NewLeadRepository(db *sql.DB) LeadRepository {
	return &leadRepository{db: db}
}

// GetByID retrieves a lead with its contact attributes
func (r *leadRepository) GetByID(ctx context.Context, id int) (*models.Lead, error) {
	query := `
		SELECT id, org_id, first_name, last_name, phone, email, attributes, created_at
		FROM leads
		WHERE id = $1
	`

	lead := &models.Lead{}
	var attributes []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&lead.ID,
		&lead.OrgID,
		&lead.FirstName,
		&lead.LastName,
		&lead.Phone,
		&lead.Email,
		&attributes,
		&lead.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("lead %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}

	if len(attributes) > 0 {
		if err := json.Unmarshal(attributes, &lead.Attributes); err != nil {
			return nil, fmt.Errorf("failed to decode lead attributes: %w", err)
		}
	}

	return lead, nil
}
