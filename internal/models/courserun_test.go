package models

import "testing"

func TestIsValidCourseRunTransition(t *testing.T) {
	tests := []struct {
		from     string
		to       string
		expected bool
	}{
		// Ordered progression
		{CourseRunStatusDraft, CourseRunStatusPublished, true},
		{CourseRunStatusPublished, CourseRunStatusEnrollmentOpen, true},
		{CourseRunStatusEnrollmentOpen, CourseRunStatusEnrollmentClosed, true},
		{CourseRunStatusEnrollmentClosed, CourseRunStatusInProgress, true},
		{CourseRunStatusInProgress, CourseRunStatusCompleted, true},

		// Cancellation paths
		{CourseRunStatusDraft, CourseRunStatusCancelled, true},
		{CourseRunStatusPublished, CourseRunStatusCancelled, true},
		{CourseRunStatusEnrollmentOpen, CourseRunStatusCancelled, true},
		{CourseRunStatusEnrollmentClosed, CourseRunStatusCancelled, true},
		{CourseRunStatusInProgress, CourseRunStatusCancelled, true},

		// Skipping stages is not allowed
		{CourseRunStatusDraft, CourseRunStatusEnrollmentOpen, false},
		{CourseRunStatusDraft, CourseRunStatusCompleted, false},
		{CourseRunStatusPublished, CourseRunStatusInProgress, false},
		{CourseRunStatusEnrollmentOpen, CourseRunStatusCompleted, false},

		// No moving backwards
		{CourseRunStatusPublished, CourseRunStatusDraft, false},
		{CourseRunStatusEnrollmentClosed, CourseRunStatusEnrollmentOpen, false},

		// Sinks
		{CourseRunStatusCompleted, CourseRunStatusInProgress, false},
		{CourseRunStatusCompleted, CourseRunStatusCancelled, false},
		{CourseRunStatusCancelled, CourseRunStatusDraft, false},
		{CourseRunStatusCancelled, CourseRunStatusCompleted, false},

		// Unknown statuses
		{"nonexistent", CourseRunStatusPublished, false},
		{CourseRunStatusDraft, "nonexistent", false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			result := IsValidCourseRunTransition(tt.from, tt.to)
			if result != tt.expected {
				t.Errorf("IsValidCourseRunTransition(%q, %q) = %v, want %v", tt.from, tt.to, result, tt.expected)
			}
		})
	}
}

func TestAllCourseRunStatusesHaveTransitionEntry(t *testing.T) {
	allStatuses := []string{
		CourseRunStatusDraft, CourseRunStatusPublished,
		CourseRunStatusEnrollmentOpen, CourseRunStatusEnrollmentClosed,
		CourseRunStatusInProgress, CourseRunStatusCompleted, CourseRunStatusCancelled,
	}

	for _, status := range allStatuses {
		if _, ok := ValidCourseRunTransitions[status]; !ok {
			t.Errorf("status %q missing from ValidCourseRunTransitions map", status)
		}
	}
}

func TestCourseRunSinksHaveNoTransitions(t *testing.T) {
	for _, status := range []string{CourseRunStatusCompleted, CourseRunStatusCancelled} {
		transitions := ValidCourseRunTransitions[status]
		if len(transitions) != 0 {
			t.Errorf("sink status %q should have no transitions, got %v", status, transitions)
		}
	}
}

func TestCourseRunIsFull(t *testing.T) {
	tests := []struct {
		current  int
		max      int
		expected bool
	}{
		{0, 2, false},
		{1, 2, false},
		{2, 2, true},
		{3, 2, true},
	}

	for _, tt := range tests {
		r := CourseRun{CurrentEnrollments: tt.current, MaxStudents: tt.max}
		if r.IsFull() != tt.expected {
			t.Errorf("IsFull() with %d/%d = %v, want %v", tt.current, tt.max, r.IsFull(), tt.expected)
		}
	}
}

func TestIsValidWeekday(t *testing.T) {
	for _, d := range ValidWeekdays {
		if !IsValidWeekday(d) {
			t.Errorf("IsValidWeekday(%q) = false, want true", d)
		}
	}
	for _, d := range []string{"Monday", "mon", "", "someday"} {
		if IsValidWeekday(d) {
			t.Errorf("IsValidWeekday(%q) = true, want false", d)
		}
	}
}
