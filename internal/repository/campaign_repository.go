package repository

import (
	"context"
	"database/sql"
	"fmt"

	"outreach/internal/models"
)

type campaignRepository struct {
	db *sql.DB
}

// NewCampaignRepository creates a new campaign repository
func NewCampaignRepository(db *sql.DB) CampaignRepository {
	return &campaignRepository{db: db}
}

// GetByID retrieves a campaign by ID
func (r *campaignRepository) GetByID(ctx context.Context, id int) (*models.Campaign, error) {
	query := `
		SELECT id, org_id, name, quiet_start, quiet_end, created_at, updated_at
		FROM campaigns
		WHERE id = $1
	`

	campaign := &models.Campaign{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&campaign.ID,
		&campaign.OrgID,
		&campaign.Name,
		&campaign.QuietStart,
		&campaign.QuietEnd,
		&campaign.CreatedAt,
		&campaign.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("campaign %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}

	return campaign, nil
}

// GetStep retrieves the step at the given 1-based index. A nil step with a
// nil error means the campaign has no step at that index: the sequence ends
// there.
func (r *campaignRepository) GetStep(ctx context.Context, campaignID, index int) (*models.Step, error) {
	query := `
		SELECT id, campaign_id, step_index, channel, template_id, delay_minutes
		FROM campaign_steps
		WHERE campaign_id = $1 AND step_index = $2
	`

	step := &models.Step{}
	err := r.db.QueryRowContext(ctx, query, campaignID, index).Scan(
		&step.ID,
		&step.CampaignID,
		&step.Index,
		&step.Channel,
		&step.TemplateID,
		&step.DelayMinutes,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get step: %w", err)
	}

	return step, nil
}
