package handlers

import (
	"github.com/campusflow/backend/internal/http/dto"
	"github.com/campusflow/backend/internal/models"
	"github.com/campusflow/backend/internal/rbac"
	"github.com/gofiber/fiber/v2"
)

// MetaHandler serves the platform vocabularies so clients can build pickers
// without hardcoding them.
type MetaHandler struct{}

func NewMetaHandler() *MetaHandler {
	return &MetaHandler{}
}

func (h *MetaHandler) GetVocabularies(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: fiber.Map{
		"roles":              rbac.AllRoles,
		"campaign_types":     models.AllCampaignTypes,
		"template_types":     models.AllTemplateTypes,
		"template_languages": models.AllTemplateLanguages,
		"schedule_days":      models.ValidWeekdays,
		"payment_statuses": []string{
			models.PaymentStatusPending, models.PaymentStatusPartial, models.PaymentStatusPaid,
			models.PaymentStatusRefunded, models.PaymentStatusWaived,
		},
		"lead_statuses": []string{
			models.LeadStatusNew, models.LeadStatusContacted, models.LeadStatusQualified,
			models.LeadStatusConverted, models.LeadStatusLost,
		},
	}})
}

// GetTransitions exposes the status graphs per entity. The value for each
// status is the set of statuses it may move to.
func (h *MetaHandler) GetTransitions(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: fiber.Map{
		"course":       models.ValidCourseTransitions,
		"course_run":   models.ValidCourseRunTransitions,
		"enrollment":   models.ValidEnrollmentTransitions,
		"campaign":     models.ValidCampaignTransitions,
		"lead":         models.ValidLeadTransitions,
		"ads_template": models.ValidTemplateTransitions,
	}})
}
