package models

import (
	"time"

	"github.com/google/uuid"
)

// Campaign statuses
const (
	CampaignStatusDraft     = "draft"
	CampaignStatusActive    = "active"
	CampaignStatusPaused    = "paused"
	CampaignStatusCompleted = "completed"
	CampaignStatusArchived  = "archived"
)

// Valid state transitions: from -> []to. Archived is terminal.
var ValidCampaignTransitions = map[string][]string{
	CampaignStatusDraft:     {CampaignStatusActive, CampaignStatusArchived},
	CampaignStatusActive:    {CampaignStatusPaused, CampaignStatusCompleted, CampaignStatusArchived},
	CampaignStatusPaused:    {CampaignStatusActive, CampaignStatusCompleted, CampaignStatusArchived},
	CampaignStatusCompleted: {CampaignStatusArchived},
	CampaignStatusArchived:  {},
}

func IsValidCampaignTransition(from, to string) bool {
	allowed, ok := ValidCampaignTransitions[from]
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

// Campaign types
const (
	CampaignTypeEmail    = "email"
	CampaignTypeSocial   = "social"
	CampaignTypePaidAds  = "paid_ads"
	CampaignTypeOrganic  = "organic"
	CampaignTypeEvent    = "event"
	CampaignTypeReferral = "referral"
	CampaignTypeOther    = "other"
)

var AllCampaignTypes = []string{
	CampaignTypeEmail, CampaignTypeSocial, CampaignTypePaidAds,
	CampaignTypeOrganic, CampaignTypeEvent, CampaignTypeReferral, CampaignTypeOther,
}

func IsValidCampaignType(t string) bool {
	for _, ct := range AllCampaignTypes {
		if ct == t {
			return true
		}
	}
	return false
}

type Campaign struct {
	ID                uuid.UUID  `json:"id"`
	Name              string     `json:"name"`
	CampaignType      string     `json:"campaign_type"`
	Status            string     `json:"status"`
	StartDate         *time.Time `json:"start_date,omitempty"`
	EndDate           *time.Time `json:"end_date,omitempty"`
	Budget            *float64   `json:"budget,omitempty"`
	TargetLeads       *int       `json:"target_leads,omitempty"`
	TargetEnrollments *int       `json:"target_enrollments,omitempty"`
	UTMSource         *string    `json:"utm_source,omitempty"`
	UTMMedium         *string    `json:"utm_medium,omitempty"`
	UTMCampaign       *string    `json:"utm_campaign,omitempty"`
	UTMTerm           *string    `json:"utm_term,omitempty"`
	UTMContent        *string    `json:"utm_content,omitempty"`
	CreatedBy         *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// CampaignMetrics are derived from leads and enrollments at read time and are
// never writable through the API.
type CampaignMetrics struct {
	TotalLeads       int      `json:"total_leads"`
	TotalConversions int      `json:"total_conversions"`
	ConversionRate   *float64 `json:"conversion_rate,omitempty"` // percent; nil when no leads
	CostPerLead      *float64 `json:"cost_per_lead,omitempty"`   // nil when no leads or no budget
}

// ComputeCampaignMetrics derives the metric block. Rates are absent rather
// than zero when there is nothing to divide by.
func ComputeCampaignMetrics(totalLeads, totalConversions int, budget *float64) CampaignMetrics {
	m := CampaignMetrics{TotalLeads: totalLeads, TotalConversions: totalConversions}
	if totalLeads > 0 {
		rate := float64(totalConversions) / float64(totalLeads) * 100
		m.ConversionRate = &rate
		if budget != nil {
			cpl := *budget / float64(totalLeads)
			m.CostPerLead = &cpl
		}
	}
	return m
}

// CampaignWithMetrics is the read shape returned by the API.
type CampaignWithMetrics struct {
	Campaign
	Metrics CampaignMetrics `json:"metrics"`
}
