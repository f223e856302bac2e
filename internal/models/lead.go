package models

import (
	"time"

	"github.com/google/uuid"
)

// Lead statuses
const (
	LeadStatusNew       = "new"
	LeadStatusContacted = "contacted"
	LeadStatusQualified = "qualified"
	LeadStatusConverted = "converted"
	LeadStatusLost      = "lost"
)

// Valid state transitions: from -> []to. Converted is terminal; lost leads
// can be re-engaged.
var ValidLeadTransitions = map[string][]string{
	LeadStatusNew:       {LeadStatusContacted, LeadStatusQualified, LeadStatusConverted, LeadStatusLost},
	LeadStatusContacted: {LeadStatusQualified, LeadStatusConverted, LeadStatusLost},
	LeadStatusQualified: {LeadStatusConverted, LeadStatusLost},
	LeadStatusConverted: {},
	LeadStatusLost:      {LeadStatusContacted},
}

func IsValidLeadTransition(from, to string) bool {
	allowed, ok := ValidLeadTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

type Lead struct {
	ID         uuid.UUID  `json:"id"`
	FullName   string     `json:"full_name"`
	Email      string     `json:"email"`
	Phone      *string    `json:"phone,omitempty"`
	CampaignID *uuid.UUID `json:"campaign_id,omitempty"`
	Status     string     `json:"status"`
	Source     *string    `json:"source,omitempty"`
	Notes      *string    `json:"notes,omitempty"`
	CreatedBy  *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
