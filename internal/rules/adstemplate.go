package rules

import (
	"github.com/campusflow/backend/internal/errs"
	"github.com/campusflow/backend/internal/models"
)

// ValidateAdsTemplate checks the content constraints on a candidate template.
func ValidateAdsTemplate(t *models.AdsTemplate) error {
	if err := ValidateTemplateName(t.Name); err != nil {
		return err
	}
	if !models.IsValidTemplateType(t.TemplateType) {
		return errs.Validation("template_type", "must be a supported template type")
	}
	if !models.IsValidTemplateLanguage(t.Language) {
		return errs.Validation("language", "must be a supported language code")
	}

	if err := ValidateBoundedString("headline", t.Headline, 1, 100); err != nil {
		return err
	}
	if t.CallToAction != nil {
		if err := ValidateBoundedString("call_to_action", *t.CallToAction, 1, 50); err != nil {
			return err
		}
	}

	if t.CTAURL != nil {
		if err := ValidateURL("cta_url", *t.CTAURL); err != nil {
			return err
		}
	}
	if t.ImageURL != nil {
		if err := ValidateURL("image_url", *t.ImageURL); err != nil {
			return err
		}
	}

	return ValidateTags(t.Tags)
}
