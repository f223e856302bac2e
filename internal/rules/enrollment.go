package rules

import (
	"github.com/campusflow/backend/internal/errs"
	"github.com/campusflow/backend/internal/models"
)

// ValidateEnrollment checks the financial and academic invariants on a
// candidate enrollment.
func ValidateEnrollment(e *models.Enrollment) error {
	if e.TotalAmount < 0 {
		return errs.Validation("total_amount", "must be non-negative")
	}
	if e.AmountPaid < 0 {
		return errs.Validation("amount_paid", "must be non-negative")
	}
	if e.AmountPaid > e.TotalAmount {
		return errs.Invariant("payment", "amount_paid cannot exceed total_amount")
	}

	if e.FinancialAidAmount < 0 {
		return errs.Validation("financial_aid_amount", "must be non-negative")
	}
	if e.FinancialAidAmount > e.TotalAmount {
		return errs.Invariant("financial_aid", "financial_aid_amount cannot exceed total_amount")
	}
	if e.FinancialAidApplied {
		if e.FinancialAidStatus == nil {
			return errs.Invariant("financial_aid", "financial_aid_status is required when financial aid is applied")
		}
		if !models.IsValidFinancialAidStatus(*e.FinancialAidStatus) {
			return errs.Validation("financial_aid_status", "must be a supported financial aid status")
		}
	}

	if e.AttendancePercent != nil {
		if err := ValidatePercent("attendance_percentage", *e.AttendancePercent); err != nil {
			return err
		}
	}
	if e.FinalGrade != nil {
		if err := ValidatePercent("final_grade", *e.FinalGrade); err != nil {
			return err
		}
	}

	return nil
}
