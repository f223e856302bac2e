package models

import "testing"

func TestIsValidLeadTransition(t *testing.T) {
	tests := []struct {
		from     string
		to       string
		expected bool
	}{
		{LeadStatusNew, LeadStatusContacted, true},
		{LeadStatusNew, LeadStatusQualified, true},
		{LeadStatusNew, LeadStatusConverted, true},
		{LeadStatusNew, LeadStatusLost, true},
		{LeadStatusContacted, LeadStatusQualified, true},
		{LeadStatusContacted, LeadStatusConverted, true},
		{LeadStatusQualified, LeadStatusConverted, true},
		{LeadStatusQualified, LeadStatusLost, true},

		// Lost leads can be re-engaged, but only via contact
		{LeadStatusLost, LeadStatusContacted, true},
		{LeadStatusLost, LeadStatusQualified, false},
		{LeadStatusLost, LeadStatusConverted, false},

		// Converted is terminal
		{LeadStatusConverted, LeadStatusContacted, false},
		{LeadStatusConverted, LeadStatusLost, false},
		{LeadStatusConverted, LeadStatusConverted, false},

		// No moving backwards through the funnel
		{LeadStatusQualified, LeadStatusContacted, false},
		{LeadStatusContacted, LeadStatusNew, false},

		{"nonexistent", LeadStatusContacted, false},
		{LeadStatusNew, "nonexistent", false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			result := IsValidLeadTransition(tt.from, tt.to)
			if result != tt.expected {
				t.Errorf("IsValidLeadTransition(%q, %q) = %v, want %v", tt.from, tt.to, result, tt.expected)
			}
		})
	}
}
