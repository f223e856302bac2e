package models

import (
	"time"

	"github.com/google/uuid"
)

// Entity type tags used in audit entries, events and the access policy.
const (
	EntityCourse      = "course"
	EntityCourseRun   = "course_run"
	EntityEnrollment  = "enrollment"
	EntityCampaign    = "campaign"
	EntityAdsTemplate = "ads_template"
	EntityLead        = "lead"
	EntityCampus      = "campus"
)

type AuditLog struct {
	ID          uuid.UUID  `json:"id"`
	ActorUserID *uuid.UUID `json:"actor_user_id,omitempty"`
	ActorType   string     `json:"actor_type"` // user/system/worker
	Action      string     `json:"action"`
	EntityType  string     `json:"entity_type"`
	EntityID    *uuid.UUID `json:"entity_id,omitempty"`
	Meta        any        `json:"meta,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
