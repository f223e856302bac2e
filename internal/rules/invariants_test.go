package rules

import (
	"errors"
	"testing"
	"time"

	"github.com/campusflow/backend/internal/errs"
	"github.com/campusflow/backend/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validRun() *models.CourseRun {
	return &models.CourseRun{
		StartDate:   date(2026, 10, 1),
		EndDate:     date(2026, 12, 15),
		MaxStudents: 30,
		MinStudents: 5,
		Status:      models.CourseRunStatusDraft,
	}
}

func TestValidateCourseRunDates(t *testing.T) {
	t.Run("valid run passes", func(t *testing.T) {
		if err := ValidateCourseRun(validRun()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("end before start rejected", func(t *testing.T) {
		r := validRun()
		r.EndDate = date(2026, 9, 1)
		if err := ValidateCourseRun(r); err == nil {
			t.Fatal("expected date order violation")
		}
	})

	t.Run("equal dates rejected", func(t *testing.T) {
		r := validRun()
		r.EndDate = r.StartDate
		err := ValidateCourseRun(r)
		var inv *errs.InvariantViolationError
		if !errors.As(err, &inv) {
			t.Fatalf("expected InvariantViolationError, got %v", err)
		}
	})

	t.Run("deadline must precede start", func(t *testing.T) {
		r := validRun()
		deadline := date(2026, 10, 1) // same day, not before
		r.EnrollmentDeadline = &deadline
		if err := ValidateCourseRun(r); err == nil {
			t.Fatal("expected enrollment_deadline violation")
		}
		earlier := date(2026, 9, 20)
		r.EnrollmentDeadline = &earlier
		if err := ValidateCourseRun(r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestValidateCourseRunCapacity(t *testing.T) {
	tests := []struct {
		name    string
		min     int
		max     int
		current int
		wantErr bool
	}{
		{"defaults fine", 5, 30, 0, false},
		{"max equals min", 5, 5, 0, true},
		{"max below min", 10, 5, 0, true},
		{"zero min", 0, 30, 0, true},
		{"negative counter", 5, 30, -1, true},
		{"counter over max", 5, 30, 31, true},
		{"counter at max", 5, 30, 30, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRun()
			r.MinStudents = tt.min
			r.MaxStudents = tt.max
			r.CurrentEnrollments = tt.current
			err := ValidateCourseRun(r)
			if (err != nil) != tt.wantErr {
				t.Errorf("error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateCourseRunSchedule(t *testing.T) {
	start, end := "09:00:00", "13:00:00"

	t.Run("paired times pass", func(t *testing.T) {
		r := validRun()
		r.ScheduleTimeStart, r.ScheduleTimeEnd = &start, &end
		if err := ValidateCourseRun(r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("lone start rejected", func(t *testing.T) {
		r := validRun()
		r.ScheduleTimeStart = &start
		if err := ValidateCourseRun(r); err == nil {
			t.Fatal("expected paired-time violation")
		}
	})

	t.Run("end before start rejected", func(t *testing.T) {
		r := validRun()
		r.ScheduleTimeStart, r.ScheduleTimeEnd = &end, &start
		if err := ValidateCourseRun(r); err == nil {
			t.Fatal("expected time order violation")
		}
	})

	t.Run("duplicate weekdays rejected", func(t *testing.T) {
		r := validRun()
		r.ScheduleDays = []string{"monday", "wednesday", "monday"}
		if err := ValidateCourseRun(r); err == nil {
			t.Fatal("expected duplicate weekday violation")
		}
	})
}

func validCampaign() *models.Campaign {
	return &models.Campaign{
		Name:         "spring-open-day",
		CampaignType: models.CampaignTypeEmail,
		Status:       models.CampaignStatusActive,
	}
}

func TestValidateCampaignDates(t *testing.T) {
	now := date(2026, 6, 1)

	t.Run("end before start rejected", func(t *testing.T) {
		c := validCampaign()
		start := date(2025, 12, 31)
		end := date(2025, 1, 1)
		c.StartDate, c.EndDate = &start, &end
		var inv *errs.InvariantViolationError
		if err := ValidateCampaign(c, now); !errors.As(err, &inv) {
			t.Fatalf("expected InvariantViolationError, got %v", err)
		}
	})

	t.Run("same day allowed", func(t *testing.T) {
		c := validCampaign()
		d := date(2026, 7, 1)
		c.StartDate, c.EndDate = &d, &d
		if err := ValidateCampaign(c, now); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("draft in the past rejected", func(t *testing.T) {
		c := validCampaign()
		c.Status = models.CampaignStatusDraft
		start := date(2026, 5, 1)
		c.StartDate = &start
		if err := ValidateCampaign(c, now); err == nil {
			t.Fatal("expected past start_date violation for draft")
		}
	})

	t.Run("active in the past allowed", func(t *testing.T) {
		c := validCampaign()
		start := date(2026, 5, 1)
		c.StartDate = &start
		if err := ValidateCampaign(c, now); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestValidateCampaignTargetsAndUTM(t *testing.T) {
	now := date(2026, 6, 1)

	t.Run("enrollments over leads rejected", func(t *testing.T) {
		c := validCampaign()
		leads, enr := 50, 60
		c.TargetLeads, c.TargetEnrollments = &leads, &enr
		if err := ValidateCampaign(c, now); err == nil {
			t.Fatal("expected target violation")
		}
	})

	t.Run("utm_campaign required with other utm fields", func(t *testing.T) {
		c := validCampaign()
		src := "google-ads"
		c.UTMSource = &src
		if err := ValidateCampaign(c, now); err == nil {
			t.Fatal("expected utm_campaign requirement violation")
		}
		camp := "spring-2026"
		c.UTMCampaign = &camp
		if err := ValidateCampaign(c, now); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("malformed utm rejected", func(t *testing.T) {
		c := validCampaign()
		camp := "Spring 2026"
		c.UTMCampaign = &camp
		var v *errs.ValidationError
		if err := ValidateCampaign(c, now); !errors.As(err, &v) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})
}

func TestValidateEnrollmentFinancials(t *testing.T) {
	t.Run("paid over total rejected", func(t *testing.T) {
		e := &models.Enrollment{TotalAmount: 1000, AmountPaid: 1500}
		var inv *errs.InvariantViolationError
		if err := ValidateEnrollment(e); !errors.As(err, &inv) {
			t.Fatalf("expected InvariantViolationError, got %v", err)
		}
	})

	t.Run("aid over total rejected", func(t *testing.T) {
		e := &models.Enrollment{TotalAmount: 1000, FinancialAidAmount: 1200}
		if err := ValidateEnrollment(e); err == nil {
			t.Fatal("expected financial_aid violation")
		}
	})

	t.Run("applied aid requires status", func(t *testing.T) {
		e := &models.Enrollment{TotalAmount: 1000, FinancialAidApplied: true}
		if err := ValidateEnrollment(e); err == nil {
			t.Fatal("expected financial_aid_status requirement")
		}
		st := models.FinancialAidStatusPending
		e.FinancialAidStatus = &st
		if err := ValidateEnrollment(e); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("grade bounds", func(t *testing.T) {
		g := 101.0
		e := &models.Enrollment{TotalAmount: 0, FinalGrade: &g}
		if err := ValidateEnrollment(e); err == nil {
			t.Fatal("expected final_grade range violation")
		}
	})
}

func TestValidateAdsTemplate(t *testing.T) {
	valid := func() *models.AdsTemplate {
		return &models.AdsTemplate{
			Name:         "Spring Email v1",
			TemplateType: models.TemplateTypeEmail,
			Language:     "es",
			Headline:     "Open enrollment is here",
			Status:       models.TemplateStatusDraft,
			Version:      1,
		}
	}

	t.Run("valid template passes", func(t *testing.T) {
		if err := ValidateAdsTemplate(valid()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("long headline rejected", func(t *testing.T) {
		tpl := valid()
		long := make([]byte, 101)
		for i := range long {
			long[i] = 'a'
		}
		tpl.Headline = string(long)
		if err := ValidateAdsTemplate(tpl); err == nil {
			t.Fatal("expected headline length violation")
		}
	})

	t.Run("long call to action rejected", func(t *testing.T) {
		tpl := valid()
		cta := "Enroll today and secure your place in the upcoming cohort!!"
		tpl.CallToAction = &cta
		if err := ValidateAdsTemplate(tpl); err == nil {
			t.Fatal("expected call_to_action length violation")
		}
	})

	t.Run("bad cta url rejected", func(t *testing.T) {
		tpl := valid()
		u := "javascript:alert(1)"
		tpl.CTAURL = &u
		if err := ValidateAdsTemplate(tpl); err == nil {
			t.Fatal("expected url violation")
		}
	})
}
