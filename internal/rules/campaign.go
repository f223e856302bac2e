package rules

import (
	"time"

	"github.com/campusflow/backend/internal/errs"
	"github.com/campusflow/backend/internal/models"
)

// ValidateCampaign checks the cross-field invariants on a candidate campaign.
// now is injected so draft start-date checks are deterministic.
func ValidateCampaign(c *models.Campaign, now time.Time) error {
	if !models.IsValidCampaignType(c.CampaignType) {
		return errs.Validation("campaign_type", "must be a supported campaign type")
	}

	// Campaigns may start and end the same day, unlike course runs.
	if c.StartDate != nil && c.EndDate != nil && c.EndDate.Before(*c.StartDate) {
		return errs.Invariant("date_order", "end_date must be on or after start_date")
	}

	// Draft campaigns cannot be scheduled in the past.
	if c.Status == models.CampaignStatusDraft && c.StartDate != nil {
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		start := time.Date(c.StartDate.Year(), c.StartDate.Month(), c.StartDate.Day(), 0, 0, 0, 0, now.Location())
		if start.Before(today) {
			return errs.Invariant("start_date", "start_date cannot be in the past for draft campaigns")
		}
	}

	if c.Budget != nil {
		if err := ValidateMoney("budget", *c.Budget); err != nil {
			return err
		}
	}

	if c.TargetLeads != nil && *c.TargetLeads < 0 {
		return errs.Validation("target_leads", "must be greater than or equal to 0")
	}
	if c.TargetEnrollments != nil && *c.TargetEnrollments < 0 {
		return errs.Validation("target_enrollments", "must be greater than or equal to 0")
	}
	if c.TargetLeads != nil && c.TargetEnrollments != nil && *c.TargetEnrollments > *c.TargetLeads {
		return errs.Invariant("targets", "target_enrollments cannot exceed target_leads")
	}

	utm := map[string]*string{
		"utm_source":   c.UTMSource,
		"utm_medium":   c.UTMMedium,
		"utm_campaign": c.UTMCampaign,
		"utm_term":     c.UTMTerm,
		"utm_content":  c.UTMContent,
	}
	anyOther := false
	for field, v := range utm {
		if v == nil {
			continue
		}
		if err := ValidateSlug(field, *v); err != nil {
			return err
		}
		if field != "utm_campaign" {
			anyOther = true
		}
	}
	if anyOther && c.UTMCampaign == nil {
		return errs.Invariant("utm", "utm_campaign is required when any other UTM parameter is provided")
	}

	return nil
}
