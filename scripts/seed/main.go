package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"outreach/internal/config"
)

// Seed data: one campaign with quiet hours, one without, three-step
// sequences mixing channels, and a handful of leads with due enrollments.

type seedTemplate struct {
	name string
	body string
}

type seedStep struct {
	index        int
	channel      string
	templateName string
	delayMinutes int
}

type seedCampaign struct {
	name       string
	quietStart *string
	quietEnd   *string
	steps      []seedStep
}

type seedLead struct {
	firstName  *string
	lastName   *string
	phone      string
	email      string
	attributes map[string]string
}

func strPtr(s string) *string { return &s }

var templates = []seedTemplate{
	{"welcome_sms", "Hi {first_name}, thanks for your interest in {campaign_name}! Reply STOP to opt out."},
	{"followup_email", "Hello {full_name},\n\nJust following up on {campaign_name}. Your advisor is {advisor}.\n\nBest regards"},
	{"final_voice", "This is a reminder for {first_name} about {campaign_name}. Please call us back."},
	{"promo_sms", "{first_name}, your {plan} plan offer expires soon. Visit us to claim it."},
}

var campaigns = []seedCampaign{
	{
		name:       "Spring Onboarding",
		quietStart: strPtr("21:00"),
		quietEnd:   strPtr("08:00"),
		steps: []seedStep{
			{1, "sms", "welcome_sms", 0},
			{2, "email", "followup_email", 1440},
			{3, "voice", "final_voice", 2880},
		},
	},
	{
		name: "Plan Upgrade Push",
		steps: []seedStep{
			{1, "sms", "promo_sms", 0},
			{2, "email", "followup_email", 720},
		},
	},
}

var leads = []seedLead{
	{strPtr("Amina"), strPtr("Okoro"), "+254712345001", "amina.okoro@example.com", map[string]string{"advisor": "Joseph", "plan": "gold"}},
	{strPtr("Brian"), strPtr("Mwangi"), "+254712345002", "brian.mwangi@example.com", map[string]string{"advisor": "Lucy", "plan": "silver"}},
	{strPtr("Cynthia"), nil, "+254712345003", "cynthia@example.com", map[string]string{"plan": "bronze"}},
	{nil, nil, "+254712345004", "anon@example.com", nil},
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.GetDatabaseDSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to ping database: %v\n", err)
		os.Exit(1)
	}

	if err := seed(db); err != nil {
		fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("seed complete")
}

func seed(db *sql.DB) error {
	templateIDs := make(map[string]int)
	for _, t := range templates {
		var id int
		err := db.QueryRow(
			`INSERT INTO templates (name, body) VALUES ($1, $2) RETURNING id`,
			t.name, t.body,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("insert template %s: %w", t.name, err)
		}
		templateIDs[t.name] = id
		fmt.Printf("template %-16s id=%d\n", t.name, id)
	}

	var campaignIDs []int
	for _, c := range campaigns {
		var id int
		err := db.QueryRow(
			`INSERT INTO campaigns (org_id, name, quiet_start, quiet_end) VALUES (1, $1, $2, $3) RETURNING id`,
			c.name, c.quietStart, c.quietEnd,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("insert campaign %s: %w", c.name, err)
		}
		campaignIDs = append(campaignIDs, id)
		fmt.Printf("campaign %-20s id=%d\n", c.name, id)

		for _, s := range c.steps {
			templateID, ok := templateIDs[s.templateName]
			if !ok {
				return fmt.Errorf("campaign %s step %d references unknown template %s", c.name, s.index, s.templateName)
			}
			_, err := db.Exec(
				`INSERT INTO campaign_steps (campaign_id, step_index, channel, template_id, delay_minutes)
				 VALUES ($1, $2, $3, $4, $5)`,
				id, s.index, s.channel, templateID, s.delayMinutes,
			)
			if err != nil {
				return fmt.Errorf("insert step %d for campaign %s: %w", s.index, c.name, err)
			}
		}
	}

	var leadIDs []int
	for _, l := range leads {
		attrs := l.attributes
		if attrs == nil {
			attrs = map[string]string{}
		}
		attrJSON, err := json.Marshal(attrs)
		if err != nil {
			return fmt.Errorf("marshal attributes: %w", err)
		}
		var id int
		err = db.QueryRow(
			`INSERT INTO leads (org_id, first_name, last_name, phone, email, attributes)
			 VALUES (1, $1, $2, $3, $4, $5) RETURNING id`,
			l.firstName, l.lastName, l.phone, l.email, attrJSON,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("insert lead %s: %w", l.phone, err)
		}
		leadIDs = append(leadIDs, id)
		fmt.Printf("lead %-16s id=%d\n", l.phone, id)
	}

	// Enroll every lead in the first campaign, due immediately.
	now := time.Now().UTC()
	for _, leadID := range leadIDs {
		_, err := db.Exec(
			`INSERT INTO enrollments (org_id, campaign_id, lead_id, status, current_step, next_run_at, attempt_count)
			 VALUES (1, $1, $2, 'active', 0, $3, 0)`,
			campaignIDs[0], leadID, now,
		)
		if err != nil {
			return fmt.Errorf("insert enrollment for lead %d: %w", leadID, err)
		}
	}
	fmt.Printf("enrolled %d leads in campaign %d\n", len(leadIDs), campaignIDs[0])

	return nil
}
