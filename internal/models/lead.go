package models

import "time"

// Lead is the target of an enrollment. Read-only reference data supplying
// personalization variables and recipient addresses.
type Lead struct {
	ID         int               `json:"id" db:"id"`
	OrgID      int               `json:"org_id" db:"org_id"`
	FirstName  *string           `json:"first_name,omitempty" db:"first_name"`
	LastName   *string           `json:"last_name,omitempty" db:"last_name"`
	Phone      string            `json:"phone" db:"phone"`
	Email      string            `json:"email" db:"email"`
	Attributes map[string]string `json:"attributes,omitempty" db:"attributes"`
	CreatedAt  time.Time         `json:"created_at" db:"created_at"`
}

// FullName returns the lead's display name
func (l *Lead) FullName() string {
	var first, last string
	if l.FirstName != nil {
		first = *l.FirstName
	}
	if l.LastName != nil {
		last = *l.LastName
	}

	switch {
	case first != "" && last != "":
		return first + " " + last
	case first != "":
		return first
	case last != "":
		return last
	}
	return ""
}

// Recipient returns the address used for dispatch on the given channel
func (l *Lead) Recipient(channel Channel) string {
	if channel == ChannelEmail {
		return l.Email
	}
	return l.Phone
}
