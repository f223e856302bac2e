package events

import "context"

// Event types
const (
	EventStatusChanged        = "status_changed"
	EventEnrollmentCreated    = "enrollment_created"
	EventEnrollmentConfirmed  = "enrollment_confirmed"
	EventEnrollmentWaitlisted = "enrollment_waitlisted"
	EventSeatReleased         = "seat_released"
	EventLeadCaptured         = "lead_captured"
	EventCampaignCompleted    = "campaign_completed"
	EventTemplateUsed         = "template_used"
)

// StreamPlatform is the single pub/sub channel the API publishes on and the
// WebSocket hub and worker subscribe to.
const StreamPlatform = "campusflow:events"

type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, stream string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, stream string, handler func(Event)) error
}
