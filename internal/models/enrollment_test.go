package models

import "testing"

func TestIsValidEnrollmentTransition(t *testing.T) {
	tests := []struct {
		from     string
		to       string
		expected bool
	}{
		// Happy path
		{EnrollmentStatusPending, EnrollmentStatusConfirmed, true},
		{EnrollmentStatusConfirmed, EnrollmentStatusCompleted, true},

		// Waitlist flow
		{EnrollmentStatusPending, EnrollmentStatusWaitlisted, true},
		{EnrollmentStatusWaitlisted, EnrollmentStatusConfirmed, true},
		{EnrollmentStatusWaitlisted, EnrollmentStatusPending, true},

		// Cancellation and withdrawal from any non-terminal state
		{EnrollmentStatusPending, EnrollmentStatusCancelled, true},
		{EnrollmentStatusPending, EnrollmentStatusWithdrawn, true},
		{EnrollmentStatusConfirmed, EnrollmentStatusCancelled, true},
		{EnrollmentStatusConfirmed, EnrollmentStatusWithdrawn, true},
		{EnrollmentStatusWaitlisted, EnrollmentStatusCancelled, true},
		{EnrollmentStatusWaitlisted, EnrollmentStatusWithdrawn, true},

		// Re-entry into the funnel
		{EnrollmentStatusCancelled, EnrollmentStatusPending, true},
		{EnrollmentStatusCancelled, EnrollmentStatusConfirmed, true},
		{EnrollmentStatusWithdrawn, EnrollmentStatusConfirmed, true},

		// Completed is terminal
		{EnrollmentStatusCompleted, EnrollmentStatusConfirmed, false},
		{EnrollmentStatusCompleted, EnrollmentStatusCancelled, false},
		{EnrollmentStatusCompleted, EnrollmentStatusWithdrawn, false},
		{EnrollmentStatusCompleted, EnrollmentStatusPending, false},

		// Can't complete without confirming first
		{EnrollmentStatusPending, EnrollmentStatusCompleted, false},
		{EnrollmentStatusWaitlisted, EnrollmentStatusCompleted, false},
		{EnrollmentStatusCancelled, EnrollmentStatusCompleted, false},

		// Unknown statuses
		{"nonexistent", EnrollmentStatusConfirmed, false},
		{EnrollmentStatusPending, "nonexistent", false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			result := IsValidEnrollmentTransition(tt.from, tt.to)
			if result != tt.expected {
				t.Errorf("IsValidEnrollmentTransition(%q, %q) = %v, want %v", tt.from, tt.to, result, tt.expected)
			}
		})
	}
}

func TestEnrollmentCompletedIsTerminal(t *testing.T) {
	transitions := ValidEnrollmentTransitions[EnrollmentStatusCompleted]
	if len(transitions) != 0 {
		t.Errorf("completed should have no transitions, got %v", transitions)
	}
}

func TestDerivePaymentStatus(t *testing.T) {
	tests := []struct {
		name     string
		current  string
		paid     float64
		total    float64
		expected string
	}{
		{"nothing paid", PaymentStatusPending, 0, 1000, PaymentStatusPending},
		{"partial payment", PaymentStatusPending, 400, 1000, PaymentStatusPartial},
		{"fully paid", PaymentStatusPartial, 1000, 1000, PaymentStatusPaid},
		{"overpaid still paid", PaymentStatusPartial, 1200, 1000, PaymentStatusPaid},
		{"refunded sticks", PaymentStatusRefunded, 1000, 1000, PaymentStatusRefunded},
		{"waived sticks", PaymentStatusWaived, 0, 1000, PaymentStatusWaived},
		{"zero total fully paid", PaymentStatusPending, 0.01, 0, PaymentStatusPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DerivePaymentStatus(tt.current, tt.paid, tt.total)
			if result != tt.expected {
				t.Errorf("DerivePaymentStatus(%q, %v, %v) = %q, want %q", tt.current, tt.paid, tt.total, result, tt.expected)
			}
		})
	}
}
