package dto

import "time"

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type RegisterUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Role     string `json:"role" validate:"required"`
}

// Campuses

type CreateCampusRequest struct {
	Name    string  `json:"name" validate:"required,min=1,max=200"`
	Slug    string  `json:"slug" validate:"required"`
	City    *string `json:"city,omitempty"`
	Address *string `json:"address,omitempty"`
}

type UpdateCampusRequest struct {
	Name    *string `json:"name,omitempty"`
	Slug    *string `json:"slug,omitempty"`
	City    *string `json:"city,omitempty"`
	Address *string `json:"address,omitempty"`
	Active  *bool   `json:"active,omitempty"`
}

// Courses

type CreateCourseRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=200"`
	Code        string  `json:"code" validate:"required,min=1,max=50"`
	Description *string `json:"description,omitempty"`
	Price       float64 `json:"price" validate:"gte=0"`
}

type UpdateCourseRequest struct {
	Title       *string  `json:"title,omitempty"`
	Code        *string  `json:"code,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
}

// Course runs

type CreateCourseRunRequest struct {
	CourseID           string     `json:"course_id" validate:"required,uuid4"`
	CampusID           *string    `json:"campus_id,omitempty" validate:"omitempty,uuid4"`
	StartDate          time.Time  `json:"start_date" validate:"required"`
	EndDate            time.Time  `json:"end_date" validate:"required"`
	EnrollmentDeadline *time.Time `json:"enrollment_deadline,omitempty"`
	ScheduleDays       []string   `json:"schedule_days,omitempty"`
	ScheduleTimeStart  *string    `json:"schedule_time_start,omitempty"`
	ScheduleTimeEnd    *string    `json:"schedule_time_end,omitempty"`
	MaxStudents        int        `json:"max_students" validate:"gt=0"`
	MinStudents        int        `json:"min_students" validate:"gt=0"`
	PriceOverride      *float64   `json:"price_override,omitempty"`
	InstructorName     *string    `json:"instructor_name,omitempty"`
	Notes              *string    `json:"notes,omitempty"`
}

type UpdateCourseRunRequest struct {
	CampusID           *string    `json:"campus_id,omitempty" validate:"omitempty,uuid4"`
	StartDate          *time.Time `json:"start_date,omitempty"`
	EndDate            *time.Time `json:"end_date,omitempty"`
	EnrollmentDeadline *time.Time `json:"enrollment_deadline,omitempty"`
	ScheduleDays       []string   `json:"schedule_days,omitempty"`
	ScheduleTimeStart  *string    `json:"schedule_time_start,omitempty"`
	ScheduleTimeEnd    *string    `json:"schedule_time_end,omitempty"`
	MaxStudents        *int       `json:"max_students,omitempty"`
	MinStudents        *int       `json:"min_students,omitempty"`
	PriceOverride      *float64   `json:"price_override,omitempty"`
	InstructorName     *string    `json:"instructor_name,omitempty"`
	Notes              *string    `json:"notes,omitempty"`
}

// Enrollments

type CreateEnrollmentRequest struct {
	StudentID           string   `json:"student_id" validate:"required,uuid4"`
	CourseRunID         string   `json:"course_run_id" validate:"required,uuid4"`
	TotalAmount         float64  `json:"total_amount" validate:"gte=0"`
	AmountPaid          float64  `json:"amount_paid" validate:"gte=0"`
	FinancialAidApplied bool     `json:"financial_aid_applied"`
	FinancialAidAmount  float64  `json:"financial_aid_amount" validate:"gte=0"`
	FinancialAidStatus  *string  `json:"financial_aid_status,omitempty"`
	Notes               *string  `json:"notes,omitempty"`
}

type UpdateEnrollmentRequest struct {
	TotalAmount         *float64 `json:"total_amount,omitempty"`
	AmountPaid          *float64 `json:"amount_paid,omitempty"`
	FinancialAidApplied *bool    `json:"financial_aid_applied,omitempty"`
	FinancialAidAmount  *float64 `json:"financial_aid_amount,omitempty"`
	FinancialAidStatus  *string  `json:"financial_aid_status,omitempty"`
	AttendancePercent   *float64 `json:"attendance_percentage,omitempty"`
	FinalGrade          *float64 `json:"final_grade,omitempty"`
	Notes               *string  `json:"notes,omitempty"`
}

type SetPaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required"`
}

// Campaigns

type CreateCampaignRequest struct {
	Name              string     `json:"name" validate:"required,min=1,max=200"`
	CampaignType      string     `json:"campaign_type" validate:"required"`
	StartDate         *time.Time `json:"start_date,omitempty"`
	EndDate           *time.Time `json:"end_date,omitempty"`
	Budget            *float64   `json:"budget,omitempty"`
	TargetLeads       *int       `json:"target_leads,omitempty"`
	TargetEnrollments *int       `json:"target_enrollments,omitempty"`
	UTMSource         *string    `json:"utm_source,omitempty"`
	UTMMedium         *string    `json:"utm_medium,omitempty"`
	UTMCampaign       *string    `json:"utm_campaign,omitempty"`
	UTMTerm           *string    `json:"utm_term,omitempty"`
	UTMContent        *string    `json:"utm_content,omitempty"`
}

type UpdateCampaignRequest struct {
	Name              *string    `json:"name,omitempty"`
	CampaignType      *string    `json:"campaign_type,omitempty"`
	StartDate         *time.Time `json:"start_date,omitempty"`
	EndDate           *time.Time `json:"end_date,omitempty"`
	Budget            *float64   `json:"budget,omitempty"`
	TargetLeads       *int       `json:"target_leads,omitempty"`
	TargetEnrollments *int       `json:"target_enrollments,omitempty"`
	UTMSource         *string    `json:"utm_source,omitempty"`
	UTMMedium         *string    `json:"utm_medium,omitempty"`
	UTMCampaign       *string    `json:"utm_campaign,omitempty"`
	UTMTerm           *string    `json:"utm_term,omitempty"`
	UTMContent        *string    `json:"utm_content,omitempty"`
}

// Leads

type CreateLeadRequest struct {
	FullName   string  `json:"full_name" validate:"required,min=1,max=200"`
	Email      string  `json:"email" validate:"required,email"`
	Phone      *string `json:"phone,omitempty"`
	CampaignID *string `json:"campaign_id,omitempty" validate:"omitempty,uuid4"`
	Source     *string `json:"source,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}

type UpdateLeadRequest struct {
	FullName   *string `json:"full_name,omitempty"`
	Email      *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone      *string `json:"phone,omitempty"`
	CampaignID *string `json:"campaign_id,omitempty" validate:"omitempty,uuid4"`
	Source     *string `json:"source,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}

// Ads templates

type CreateAdsTemplateRequest struct {
	Name         string   `json:"name" validate:"required,min=3,max=100"`
	TemplateType string   `json:"template_type" validate:"required"`
	CampaignID   *string  `json:"campaign_id,omitempty" validate:"omitempty,uuid4"`
	Headline     string   `json:"headline" validate:"required,min=1,max=100"`
	BodyCopy     *string  `json:"body_copy,omitempty"`
	CallToAction *string  `json:"call_to_action,omitempty"`
	CTAURL       *string  `json:"cta_url,omitempty"`
	ImageURL     *string  `json:"image_url,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	Language     string   `json:"language" validate:"required"`
}

type UpdateAdsTemplateRequest struct {
	Name          *string `json:"name,omitempty"`
	TemplateType  *string `json:"template_type,omitempty"`
	CampaignID    *string `json:"campaign_id,omitempty" validate:"omitempty,uuid4"`
	ClearCampaign bool    `json:"clear_campaign,omitempty"`
	Headline      *string  `json:"headline,omitempty"`
	BodyCopy      *string  `json:"body_copy,omitempty"`
	CallToAction  *string  `json:"call_to_action,omitempty"`
	CTAURL        *string  `json:"cta_url,omitempty"`
	ImageURL      *string  `json:"image_url,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	Language      *string  `json:"language,omitempty"`
}

// Users

type UpdateUserRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

type SetUserActiveRequest struct {
	Active bool `json:"active"`
}

// Shared

type ChangeStatusRequest struct {
	Status string  `json:"status" validate:"required"`
	Reason *string `json:"reason,omitempty"`
}
