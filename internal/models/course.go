package models

import (
	"time"

	"github.com/google/uuid"
)

// Course statuses
const (
	CourseStatusDraft     = "draft"
	CourseStatusPublished = "published"
	CourseStatusArchived  = "archived"
)

// Valid state transitions: from -> []to. Archived is terminal.
var ValidCourseTransitions = map[string][]string{
	CourseStatusDraft:     {CourseStatusPublished, CourseStatusArchived},
	CourseStatusPublished: {CourseStatusDraft, CourseStatusArchived},
	CourseStatusArchived:  {},
}

func IsValidCourseTransition(from, to string) bool {
	allowed, ok := ValidCourseTransitions[from]
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

type Course struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Code        string     `json:"code"`
	Description *string    `json:"description,omitempty"`
	Price       float64    `json:"price"`
	Status      string     `json:"status"`
	CreatedBy   *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
