package models

import "testing"

func TestIsValidCampaignTransition(t *testing.T) {
	tests := []struct {
		from     string
		to       string
		expected bool
	}{
		{CampaignStatusDraft, CampaignStatusActive, true},
		{CampaignStatusActive, CampaignStatusPaused, true},
		{CampaignStatusPaused, CampaignStatusActive, true},
		{CampaignStatusActive, CampaignStatusCompleted, true},
		{CampaignStatusPaused, CampaignStatusCompleted, true},
		{CampaignStatusCompleted, CampaignStatusArchived, true},
		{CampaignStatusDraft, CampaignStatusArchived, true},
		{CampaignStatusActive, CampaignStatusArchived, true},

		// Archived is terminal
		{CampaignStatusArchived, CampaignStatusActive, false},
		{CampaignStatusArchived, CampaignStatusDraft, false},
		{CampaignStatusArchived, CampaignStatusCompleted, false},
		{CampaignStatusArchived, CampaignStatusArchived, false},

		// Completed can only be archived
		{CampaignStatusCompleted, CampaignStatusActive, false},
		{CampaignStatusCompleted, CampaignStatusPaused, false},

		// Draft can't skip to paused or completed
		{CampaignStatusDraft, CampaignStatusPaused, false},
		{CampaignStatusDraft, CampaignStatusCompleted, false},

		{"nonexistent", CampaignStatusActive, false},
		{CampaignStatusDraft, "nonexistent", false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			result := IsValidCampaignTransition(tt.from, tt.to)
			if result != tt.expected {
				t.Errorf("IsValidCampaignTransition(%q, %q) = %v, want %v", tt.from, tt.to, result, tt.expected)
			}
		})
	}
}

func TestCampaignArchivedDenyIsDeterministic(t *testing.T) {
	// Re-submitting the same terminal request must be rejected identically.
	for i := 0; i < 3; i++ {
		if IsValidCampaignTransition(CampaignStatusArchived, CampaignStatusArchived) {
			t.Fatalf("attempt %d: archived->archived should always be denied", i)
		}
	}
}

func TestComputeCampaignMetrics(t *testing.T) {
	budget := 500.0

	t.Run("no leads means no rates", func(t *testing.T) {
		m := ComputeCampaignMetrics(0, 0, &budget)
		if m.ConversionRate != nil || m.CostPerLead != nil {
			t.Errorf("expected nil rates with zero leads, got %+v", m)
		}
	})

	t.Run("rates computed", func(t *testing.T) {
		m := ComputeCampaignMetrics(100, 25, &budget)
		if m.ConversionRate == nil || *m.ConversionRate != 25.0 {
			t.Errorf("conversion_rate = %v, want 25", m.ConversionRate)
		}
		if m.CostPerLead == nil || *m.CostPerLead != 5.0 {
			t.Errorf("cost_per_lead = %v, want 5", m.CostPerLead)
		}
	})

	t.Run("no budget means no cost per lead", func(t *testing.T) {
		m := ComputeCampaignMetrics(10, 2, nil)
		if m.CostPerLead != nil {
			t.Errorf("cost_per_lead = %v, want nil", m.CostPerLead)
		}
		if m.ConversionRate == nil || *m.ConversionRate != 20.0 {
			t.Errorf("conversion_rate = %v, want 20", m.ConversionRate)
		}
	})
}

func TestIsValidCampaignType(t *testing.T) {
	for _, ct := range AllCampaignTypes {
		if !IsValidCampaignType(ct) {
			t.Errorf("IsValidCampaignType(%q) = false, want true", ct)
		}
	}
	if IsValidCampaignType("billboard") {
		t.Error("IsValidCampaignType(\"billboard\") = true, want false")
	}
}
