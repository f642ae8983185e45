package models

import (
	"fmt"
	"time"
)

// Channel represents valid outreach channels
type Channel string

const (
	ChannelSMS   Channel = "sms"
	ChannelEmail Channel = "email"
	ChannelVoice Channel = "voice"
)

// Valid reports whether the channel is one of the supported variants
func (c Channel) Valid() bool {
	return c == ChannelSMS || c == ChannelEmail || c == ChannelVoice
}

// Campaign represents an outreach campaign: an ordered sequence of steps,
// with an optional daily do-not-contact window. The engine only reads
// campaigns; authoring happens elsewhere.
type Campaign struct {
	ID         int       `json:"id" db:"id"`
	OrgID      int       `json:"org_id" db:"org_id"`
	Name       string    `json:"name" db:"name"`
	QuietStart *string   `json:"quiet_start,omitempty" db:"quiet_start"` // "HH:MM" local wall clock
	QuietEnd   *string   `json:"quiet_end,omitempty" db:"quiet_end"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// HasQuietHours reports whether both window bounds are configured.
// Quiet hours are disabled unless both are present.
func (c *Campaign) HasQuietHours() bool {
	return c.QuietStart != nil && c.QuietEnd != nil
}

// Step is one ordered action within a campaign: a channel, a template,
// and the delay applied before the step that follows it. Step indexes
// are 1-based and contiguous; a missing index ends the sequence.
type Step struct {
	ID           int     `json:"id" db:"id"`
	CampaignID   int     `json:"campaign_id" db:"campaign_id"`
	Index        int     `json:"index" db:"step_index"`
	Channel      Channel `json:"channel" db:"channel"`
	TemplateID   int     `json:"template_id" db:"template_id"`
	DelayMinutes int     `json:"delay_minutes" db:"delay_minutes"`
}

// Validate checks step fields the engine depends on
func (s *Step) Validate() error {
	if s.Index < 1 {
		return fmt.Errorf("step index must be 1-based, got %d", s.Index)
	}
	if !s.Channel.Valid() {
		return fmt.Errorf("invalid channel: %q", s.Channel)
	}
	if s.DelayMinutes < 0 {
		return fmt.Errorf("delay_minutes cannot be negative")
	}
	return nil
}
