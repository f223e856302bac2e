package models

import (
	"time"

	"github.com/google/uuid"
)

// AdsTemplate statuses
const (
	TemplateStatusDraft    = "draft"
	TemplateStatusActive   = "active"
	TemplateStatusArchived = "archived"
)

// Valid state transitions: from -> []to. Archived is terminal.
var ValidTemplateTransitions = map[string][]string{
	TemplateStatusDraft:    {TemplateStatusActive, TemplateStatusArchived},
	TemplateStatusActive:   {TemplateStatusDraft, TemplateStatusArchived},
	TemplateStatusArchived: {},
}

func IsValidTemplateTransition(from, to string) bool {
	allowed, ok := ValidTemplateTransitions[from]
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

// Template types
const (
	TemplateTypeEmail       = "email"
	TemplateTypeSocialPost  = "social_post"
	TemplateTypeDisplayAd   = "display_ad"
	TemplateTypeLandingPage = "landing_page"
	TemplateTypeVideoScript = "video_script"
	TemplateTypeOther       = "other"
)

var AllTemplateTypes = []string{
	TemplateTypeEmail, TemplateTypeSocialPost, TemplateTypeDisplayAd,
	TemplateTypeLandingPage, TemplateTypeVideoScript, TemplateTypeOther,
}

func IsValidTemplateType(t string) bool {
	for _, tt := range AllTemplateTypes {
		if tt == t {
			return true
		}
	}
	return false
}

// Supported content languages
var AllTemplateLanguages = []string{"es", "en", "ca"}

func IsValidTemplateLanguage(l string) bool {
	for _, tl := range AllTemplateLanguages {
		if tl == l {
			return true
		}
	}
	return false
}

type AdsTemplate struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	TemplateType string     `json:"template_type"`
	CampaignID   *uuid.UUID `json:"campaign_id,omitempty"`
	Headline     string     `json:"headline"`
	BodyCopy     *string    `json:"body_copy,omitempty"`
	CallToAction *string    `json:"call_to_action,omitempty"`
	CTAURL       *string    `json:"cta_url,omitempty"`
	ImageURL     *string    `json:"image_url,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
	Language     string     `json:"language"`
	Status       string     `json:"status"`
	Version      int        `json:"version"`     // fixed at 1, immutable
	UsageCount   int        `json:"usage_count"` // system-tracked
	LastUsedAt   *time.Time `json:"last_used_at,omitempty"`
	CreatedBy    *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
