package rules

import (
	"github.com/campusflow/backend/internal/errs"
	"github.com/campusflow/backend/internal/models"
)

// ValidateCourseRun checks every cross-field invariant on a fully populated
// candidate run before it is written.
func ValidateCourseRun(r *models.CourseRun) error {
	// Equal dates are rejected; the order is strict.
	if !r.EndDate.After(r.StartDate) {
		return errs.Invariant("date_order", "end_date must be after start_date")
	}
	if r.EnrollmentDeadline != nil && !r.EnrollmentDeadline.Before(r.StartDate) {
		return errs.Invariant("enrollment_deadline", "enrollment_deadline must be before start_date")
	}

	if r.MinStudents <= 0 {
		return errs.Invariant("capacity", "min_students must be greater than 0")
	}
	if r.MaxStudents <= r.MinStudents {
		return errs.Invariant("capacity", "max_students must be greater than min_students")
	}
	if r.CurrentEnrollments < 0 {
		return errs.Invariant("capacity", "current_enrollments cannot be negative")
	}
	if r.CurrentEnrollments > r.MaxStudents {
		return errs.Invariant("capacity", "current_enrollments cannot exceed max_students")
	}

	if r.PriceOverride != nil {
		if err := ValidateMoney("price_override", *r.PriceOverride); err != nil {
			return err
		}
	}

	seen := map[string]bool{}
	for _, day := range r.ScheduleDays {
		if !models.IsValidWeekday(day) {
			return errs.Validation("schedule_days", "contains an invalid weekday")
		}
		if seen[day] {
			return errs.Invariant("schedule_days", "schedule_days cannot contain duplicate weekdays")
		}
		seen[day] = true
	}

	// Schedule times come as a pair or not at all.
	if (r.ScheduleTimeStart == nil) != (r.ScheduleTimeEnd == nil) {
		return errs.Invariant("schedule_time", "schedule_time_start and schedule_time_end must be provided together")
	}
	if r.ScheduleTimeStart != nil {
		if err := ValidateTimeOfDay("schedule_time_start", *r.ScheduleTimeStart); err != nil {
			return err
		}
		if err := ValidateTimeOfDay("schedule_time_end", *r.ScheduleTimeEnd); err != nil {
			return err
		}
		if timeOfDaySeconds(*r.ScheduleTimeEnd) <= timeOfDaySeconds(*r.ScheduleTimeStart) {
			return errs.Invariant("schedule_time", "schedule_time_end must be after schedule_time_start")
		}
	}

	return nil
}
