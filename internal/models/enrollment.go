package models

import (
	"time"

	"github.com/google/uuid"
)

// Enrollment statuses
const (
	EnrollmentStatusPending    = "pending"
	EnrollmentStatusConfirmed  = "confirmed"
	EnrollmentStatusWaitlisted = "waitlisted"
	EnrollmentStatusCancelled  = "cancelled"
	EnrollmentStatusCompleted  = "completed"
	EnrollmentStatusWithdrawn  = "withdrawn"
)

// Payment statuses
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPartial  = "partial"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
	PaymentStatusWaived   = "waived"
)

// Financial aid statuses
const (
	FinancialAidStatusNone     = "none"
	FinancialAidStatusPending  = "pending"
	FinancialAidStatusApproved = "approved"
	FinancialAidStatusRejected = "rejected"
)

// Valid state transitions: from -> []to. Completed is terminal; cancelled and
// withdrawn are reachable from every non-terminal state and allow re-entry
// into the funnel.
var ValidEnrollmentTransitions = map[string][]string{
	EnrollmentStatusPending:    {EnrollmentStatusConfirmed, EnrollmentStatusWaitlisted, EnrollmentStatusCancelled, EnrollmentStatusWithdrawn},
	EnrollmentStatusConfirmed:  {EnrollmentStatusCompleted, EnrollmentStatusCancelled, EnrollmentStatusWithdrawn},
	EnrollmentStatusWaitlisted: {EnrollmentStatusPending, EnrollmentStatusConfirmed, EnrollmentStatusCancelled, EnrollmentStatusWithdrawn},
	EnrollmentStatusCancelled:  {EnrollmentStatusPending, EnrollmentStatusConfirmed},
	EnrollmentStatusWithdrawn:  {EnrollmentStatusPending, EnrollmentStatusConfirmed},
	EnrollmentStatusCompleted:  {},
}

func IsValidEnrollmentTransition(from, to string) bool {
	allowed, ok := ValidEnrollmentTransitions[from]
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

var validFinancialAidStatuses = []string{
	FinancialAidStatusNone, FinancialAidStatusPending,
	FinancialAidStatusApproved, FinancialAidStatusRejected,
}

func IsValidFinancialAidStatus(s string) bool {
	for _, v := range validFinancialAidStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// DerivePaymentStatus computes the payment status from the amounts. Refunded
// and waived are set manually and survive recalculation.
func DerivePaymentStatus(current string, amountPaid, totalAmount float64) string {
	if current == PaymentStatusRefunded || current == PaymentStatusWaived {
		return current
	}
	switch {
	case amountPaid <= 0:
		return PaymentStatusPending
	case amountPaid >= totalAmount:
		return PaymentStatusPaid
	default:
		return PaymentStatusPartial
	}
}

type Enrollment struct {
	ID                 uuid.UUID  `json:"id"`
	StudentID          uuid.UUID  `json:"student_id"`
	CourseRunID        uuid.UUID  `json:"course_run_id"`
	Status             string     `json:"status"`
	PaymentStatus      string     `json:"payment_status"`
	TotalAmount        float64    `json:"total_amount"`
	AmountPaid         float64    `json:"amount_paid"`
	FinancialAidApplied bool      `json:"financial_aid_applied"`
	FinancialAidAmount float64    `json:"financial_aid_amount"`
	FinancialAidStatus *string    `json:"financial_aid_status,omitempty"`
	AttendancePercent  *float64   `json:"attendance_percentage,omitempty"`
	FinalGrade         *float64   `json:"final_grade,omitempty"`
	Notes              *string    `json:"notes,omitempty"`
	CancellationReason *string    `json:"cancellation_reason,omitempty"`
	EnrolledAt         *time.Time `json:"enrolled_at,omitempty"`  // write-once
	ConfirmedAt        *time.Time `json:"confirmed_at,omitempty"` // write-once
	CompletedAt        *time.Time `json:"completed_at,omitempty"` // write-once
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"` // write-once
	CreatedBy          *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}
