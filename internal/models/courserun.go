package models

import (
	"time"

	"github.com/google/uuid"
)

// CourseRun statuses
const (
	CourseRunStatusDraft            = "draft"
	CourseRunStatusPublished        = "published"
	CourseRunStatusEnrollmentOpen   = "enrollment_open"
	CourseRunStatusEnrollmentClosed = "enrollment_closed"
	CourseRunStatusInProgress       = "in_progress"
	CourseRunStatusCompleted        = "completed"
	CourseRunStatusCancelled        = "cancelled"
)

// Valid state transitions: from -> []to. The run moves through an ordered
// progression; cancelled is reachable from every non-sink state, and both
// completed and cancelled are sinks.
var ValidCourseRunTransitions = map[string][]string{
	CourseRunStatusDraft:            {CourseRunStatusPublished, CourseRunStatusCancelled},
	CourseRunStatusPublished:        {CourseRunStatusEnrollmentOpen, CourseRunStatusCancelled},
	CourseRunStatusEnrollmentOpen:   {CourseRunStatusEnrollmentClosed, CourseRunStatusCancelled},
	CourseRunStatusEnrollmentClosed: {CourseRunStatusInProgress, CourseRunStatusCancelled},
	CourseRunStatusInProgress:       {CourseRunStatusCompleted, CourseRunStatusCancelled},
	CourseRunStatusCompleted:        {},
	CourseRunStatusCancelled:        {},
}

func IsValidCourseRunTransition(from, to string) bool {
	allowed, ok := ValidCourseRunTransitions[from]
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

// Weekdays allowed in ScheduleDays
var ValidWeekdays = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

func IsValidWeekday(day string) bool {
	for _, d := range ValidWeekdays {
		if d == day {
			return true
		}
	}
	return false
}

type CourseRun struct {
	ID                 uuid.UUID  `json:"id"`
	CourseID           uuid.UUID  `json:"course_id"`
	CampusID           *uuid.UUID `json:"campus_id,omitempty"`
	StartDate          time.Time  `json:"start_date"`
	EndDate            time.Time  `json:"end_date"`
	EnrollmentDeadline *time.Time `json:"enrollment_deadline,omitempty"`
	ScheduleDays       []string   `json:"schedule_days,omitempty"`
	ScheduleTimeStart  *string    `json:"schedule_time_start,omitempty"` // HH:MM:SS
	ScheduleTimeEnd    *string    `json:"schedule_time_end,omitempty"`
	MaxStudents        int        `json:"max_students"`
	MinStudents        int        `json:"min_students"`
	CurrentEnrollments int        `json:"current_enrollments"` // system-maintained
	Status             string     `json:"status"`
	PriceOverride      *float64   `json:"price_override,omitempty"`
	InstructorName     *string    `json:"instructor_name,omitempty"`
	Notes              *string    `json:"notes,omitempty"`
	CreatedBy          *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// IsFull reports whether the run has no free seats left.
func (r *CourseRun) IsFull() bool {
	return r.CurrentEnrollments >= r.MaxStudents
}

// CourseRunWithCourse embeds CourseRun and adds course info to avoid N+1 queries.
type CourseRunWithCourse struct {
	CourseRun
	CourseTitle *string `json:"course_title,omitempty"`
	CourseCode  *string `json:"course_code,omitempty"`
}
