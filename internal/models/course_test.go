package models

import "testing"

func TestIsValidCourseTransition(t *testing.T) {
	tests := []struct {
		from     string
		to       string
		expected bool
	}{
		{CourseStatusDraft, CourseStatusPublished, true},
		{CourseStatusDraft, CourseStatusArchived, true},
		{CourseStatusPublished, CourseStatusDraft, true},
		{CourseStatusPublished, CourseStatusArchived, true},

		// Archived is terminal
		{CourseStatusArchived, CourseStatusDraft, false},
		{CourseStatusArchived, CourseStatusPublished, false},
		{CourseStatusArchived, CourseStatusArchived, false},

		// Self-loops are not transitions
		{CourseStatusDraft, CourseStatusDraft, false},
		{CourseStatusPublished, CourseStatusPublished, false},

		{"nonexistent", CourseStatusPublished, false},
		{CourseStatusDraft, "nonexistent", false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			result := IsValidCourseTransition(tt.from, tt.to)
			if result != tt.expected {
				t.Errorf("IsValidCourseTransition(%q, %q) = %v, want %v", tt.from, tt.to, result, tt.expected)
			}
		})
	}
}

func TestCourseArchivedIsTerminal(t *testing.T) {
	if len(ValidCourseTransitions[CourseStatusArchived]) != 0 {
		t.Errorf("archived course should have no transitions, got %v", ValidCourseTransitions[CourseStatusArchived])
	}
	if IsValidCourseTransition(CourseStatusArchived, CourseStatusPublished) {
		t.Error("archived->published should be denied")
	}
}
