package rules

import "testing"

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"empty is allowed", "", false},
		{"https", "https://example.com/landing", false},
		{"http", "http://example.com", false},
		{"ftp scheme", "ftp://example.com/file", true},
		{"javascript scheme", "javascript:alert(1)", true},
		{"relative", "/landing-page", true},
		{"triple slash", "https:///example.com", true},
		{"newline injection", "https://example.com/\nSet-Cookie: x", true},
		{"not a url", "not a url", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL("cta_url", tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSlug(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"google-ads", false},
		{"email", false},
		{"spring-2026", false},
		{"", true},
		{"Google-Ads", true},
		{"has space", true},
		{"under_score", true},
		{"semi;colon", true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			err := ValidateSlug("utm_source", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSlug(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestValidateTags(t *testing.T) {
	if err := ValidateTags([]string{"spring", "open-day", "b2c"}); err != nil {
		t.Errorf("valid tags rejected: %v", err)
	}
	if err := ValidateTags(nil); err != nil {
		t.Errorf("nil tags rejected: %v", err)
	}

	eleven := make([]string, 11)
	for i := range eleven {
		eleven[i] = "tag"
	}
	if err := ValidateTags(eleven); err == nil {
		t.Error("11 tags should be rejected")
	}

	if err := ValidateTags([]string{"ok", "Not OK"}); err == nil {
		t.Error("uppercase tag should be rejected")
	}
}

func TestValidateMoney(t *testing.T) {
	tests := []struct {
		value   float64
		wantErr bool
	}{
		{0, false},
		{99.99, false},
		{1500, false},
		{-0.01, true},
		{10.999, true},
	}

	for _, tt := range tests {
		err := ValidateMoney("budget", tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateMoney(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
	}
}

func TestValidateTemplateName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"Spring Open Day Email", false},
		{"promo_2026-v1", false},
		{"ab", true},
		{"name<script>", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateTemplateName(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateTemplateName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestValidateTimeOfDay(t *testing.T) {
	for _, v := range []string{"09:00:00", "23:59:59", "0:15:30"} {
		if err := ValidateTimeOfDay("schedule_time_start", v); err != nil {
			t.Errorf("ValidateTimeOfDay(%q) unexpected error: %v", v, err)
		}
	}
	for _, v := range []string{"24:00:00", "09:60:00", "09:00", "", "noon"} {
		if err := ValidateTimeOfDay("schedule_time_start", v); err == nil {
			t.Errorf("ValidateTimeOfDay(%q) should fail", v)
		}
	}
}
