package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile holds the self-service account fields, keyed by the user's id.
// first_name/second_name naming follows the stored schema.
type Profile struct {
	UserID     uuid.UUID `json:"id"`
	FirstName  *string   `json:"first_name,omitempty"`
	SecondName *string   `json:"second_name,omitempty"`
	Phone      *string   `json:"phone,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DisplayName renders a human-readable label for assignee lists. Falls back
// to a placeholder derived from the user id when both name fields are empty.
func (p *Profile) DisplayName() string {
	name := ""
	if p.FirstName != nil && *p.FirstName != "" {
		name = *p.FirstName
	}
	if p.SecondName != nil && *p.SecondName != "" {
		if name != "" {
			name += " "
		}
		name += *p.SecondName
	}
	if name == "" {
		return "user " + p.UserID.String()[:8]
	}
	return name
}
