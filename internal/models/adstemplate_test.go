package models

import "testing"

func TestIsValidTemplateTransition(t *testing.T) {
	tests := []struct {
		from     string
		to       string
		expected bool
	}{
		{TemplateStatusDraft, TemplateStatusActive, true},
		{TemplateStatusActive, TemplateStatusDraft, true},
		{TemplateStatusDraft, TemplateStatusArchived, true},
		{TemplateStatusActive, TemplateStatusArchived, true},

		// Archived is terminal
		{TemplateStatusArchived, TemplateStatusActive, false},
		{TemplateStatusArchived, TemplateStatusDraft, false},
		{TemplateStatusArchived, TemplateStatusArchived, false},

		{"nonexistent", TemplateStatusActive, false},
		{TemplateStatusDraft, "nonexistent", false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			result := IsValidTemplateTransition(tt.from, tt.to)
			if result != tt.expected {
				t.Errorf("IsValidTemplateTransition(%q, %q) = %v, want %v", tt.from, tt.to, result, tt.expected)
			}
		})
	}
}

func TestIsValidTemplateType(t *testing.T) {
	for _, tt := range AllTemplateTypes {
		if !IsValidTemplateType(tt) {
			t.Errorf("IsValidTemplateType(%q) = false, want true", tt)
		}
	}
	if IsValidTemplateType("podcast") {
		t.Error("IsValidTemplateType(\"podcast\") = true, want false")
	}
}

func TestIsValidTemplateLanguage(t *testing.T) {
	for _, l := range AllTemplateLanguages {
		if !IsValidTemplateLanguage(l) {
			t.Errorf("IsValidTemplateLanguage(%q) = false, want true", l)
		}
	}
	if IsValidTemplateLanguage("fr") {
		t.Error("IsValidTemplateLanguage(\"fr\") = true, want false")
	}
}
