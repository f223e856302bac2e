package rules

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/campusflow/backend/internal/errs"
)

var (
	slugPattern         = regexp.MustCompile(`^[a-z0-9-]+$`)
	templateNamePattern = regexp.MustCompile(`^[a-zA-Z0-9\s\-_]+$`)
	timeOfDayPattern    = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]:[0-5][0-9]$`)
	controlCharPattern  = regexp.MustCompile(`[\r\n\t\x00-\x1F]`)
)

const maxTagsPerTemplate = 10

// ValidateURL accepts absolute http/https URLs only. Malformed or suspicious
// URLs are rejected without echoing the value back.
func ValidateURL(field, raw string) error {
	if raw == "" {
		return nil
	}
	if controlCharPattern.MatchString(raw) || strings.Contains(raw, "///") {
		return errs.Validation(field, "URL contains invalid characters or format")
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return errs.Validation(field, "must be a valid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errs.Validation(field, "URL scheme must be http or https")
	}
	return nil
}

// ValidateSlug enforces the lowercase-alphanumeric-hyphen format shared by
// tags and UTM parameters.
func ValidateSlug(field, value string) error {
	if value == "" {
		return errs.Validation(field, "cannot be empty")
	}
	if len(value) > 255 {
		return errs.Validation(field, "must be 255 characters or less")
	}
	if !slugPattern.MatchString(value) {
		return errs.Validation(field, "must be lowercase alphanumeric with hyphens only")
	}
	return nil
}

// ValidateTags checks the tag count limit and each tag's format.
func ValidateTags(tags []string) error {
	if len(tags) > maxTagsPerTemplate {
		return errs.Validation("tags", "maximum 10 tags per template")
	}
	for _, tag := range tags {
		if err := ValidateSlug("tags", tag); err != nil {
			return err
		}
	}
	return nil
}

// ValidateMoney requires a non-negative amount with at most two decimals.
func ValidateMoney(field string, value float64) error {
	if value < 0 {
		return errs.Validation(field, "must be greater than or equal to 0")
	}
	s := strconv.FormatFloat(value, 'f', -1, 64)
	if i := strings.IndexByte(s, '.'); i >= 0 && len(s)-i-1 > 2 {
		return errs.Validation(field, "must have at most 2 decimal places")
	}
	return nil
}

// ValidateBoundedString enforces min/max rune length.
func ValidateBoundedString(field, value string, min, max int) error {
	n := len([]rune(value))
	if n < min {
		return errs.Validation(field, "must be at least "+strconv.Itoa(min)+" characters")
	}
	if n > max {
		return errs.Validation(field, "must be "+strconv.Itoa(max)+" characters or less")
	}
	return nil
}

// ValidatePercent enforces the 0..100 range used by grades and attendance.
func ValidatePercent(field string, value float64) error {
	if value < 0 || value > 100 {
		return errs.Validation(field, "must be between 0 and 100")
	}
	return nil
}

// ValidateTemplateName enforces the template naming restrictions.
func ValidateTemplateName(value string) error {
	if err := ValidateBoundedString("name", value, 3, 100); err != nil {
		return err
	}
	if !templateNamePattern.MatchString(value) {
		return errs.Validation("name", "can only contain letters, numbers, spaces, hyphens, and underscores")
	}
	return nil
}

// ValidateTimeOfDay checks the HH:MM:SS format used by run schedules.
func ValidateTimeOfDay(field, value string) error {
	if !timeOfDayPattern.MatchString(value) {
		return errs.Validation(field, "must be a time in HH:MM:SS format")
	}
	return nil
}

// timeOfDaySeconds converts an already-validated HH:MM:SS string to seconds
// since midnight.
func timeOfDaySeconds(value string) int {
	parts := strings.SplitN(value, ":", 3)
	h, _ := strconv.Atoi(parts[0])
	m, _ := strconv.Atoi(parts[1])
	s, _ := strconv.Atoi(parts[2])
	return h*3600 + m*60 + s
}
