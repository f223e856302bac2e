package rbac

import (
	"testing"

	"github.com/campusflow/backend/internal/models"
	"github.com/google/uuid"
)

func TestCanCreate(t *testing.T) {
	tests := []struct {
		role     string
		entity   string
		expected bool
	}{
		{RoleAdmin, models.EntityCourse, true},
		{RoleGestor, models.EntityCourse, true},
		{RoleMarketing, models.EntityCourse, false},
		{RoleMarketing, models.EntityCampaign, true},
		{RoleMarketing, models.EntityAdsTemplate, true},
		{RoleAsesor, models.EntityEnrollment, true},
		{RoleAsesor, models.EntityCampaign, false},
		{RoleLectura, models.EntityLead, false},
		{RoleLectura, models.EntityEnrollment, false},
		{"", models.EntityCourse, false},
	}

	for _, tt := range tests {
		if got := CanCreate(tt.role, tt.entity); got != tt.expected {
			t.Errorf("CanCreate(%q, %q) = %v, want %v", tt.role, tt.entity, got, tt.expected)
		}
	}
}

func TestCanUpdateFieldOwnership(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		entity   string
		group    string
		owned    bool
		expected bool
	}{
		{"marketing updates own campaign", RoleMarketing, models.EntityCampaign, FieldGroupGeneral, true, true},
		{"marketing blocked on foreign campaign", RoleMarketing, models.EntityCampaign, FieldGroupGeneral, false, false},
		{"admin bypasses ownership", RoleAdmin, models.EntityCampaign, FieldGroupGeneral, false, true},
		{"gestor bypasses ownership", RoleGestor, models.EntityCampaign, FieldGroupGeneral, false, true},
		{"asesor updates own enrollment status", RoleAsesor, models.EntityEnrollment, FieldGroupStatus, true, true},
		{"asesor blocked on enrollment financials even when owned", RoleAsesor, models.EntityEnrollment, FieldGroupFinancial, true, false},
		{"marketing limited to enrollment notes", RoleMarketing, models.EntityEnrollment, FieldGroupNotes, true, true},
		{"marketing blocked on enrollment status", RoleMarketing, models.EntityEnrollment, FieldGroupStatus, true, false},
		{"lectura is read only", RoleLectura, models.EntityCampaign, FieldGroupGeneral, true, false},
		{"unknown role denied", "superuser", models.EntityCampaign, FieldGroupGeneral, true, false},
		{"unknown entity denied", RoleAdmin, "widget", FieldGroupGeneral, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanUpdateField(tt.role, tt.entity, tt.group, tt.owned); got != tt.expected {
				t.Errorf("CanUpdateField(%q, %q, %q, %v) = %v, want %v",
					tt.role, tt.entity, tt.group, tt.owned, got, tt.expected)
			}
		})
	}
}

func TestSystemFieldsImmutableToEveryRole(t *testing.T) {
	checks := map[string][]string{
		models.EntityCourseRun:   {"current_enrollments", "created_by"},
		models.EntityEnrollment:  {"confirmed_at", "completed_at", "enrolled_at"},
		models.EntityAdsTemplate: {"version", "usage_count", "last_used_at"},
		models.EntityCampaign:    {"total_leads", "conversion_rate", "cost_per_lead"},
	}

	for entity, fields := range checks {
		for _, f := range fields {
			if !IsSystemField(entity, f) {
				t.Errorf("IsSystemField(%q, %q) = false, want true", entity, f)
			}
		}
	}

	if IsSystemField(models.EntityCampaign, "budget") {
		t.Error("budget should not be a system field")
	}
}

func TestIsOwner(t *testing.T) {
	me := uuid.New()
	other := uuid.New()
	actor := models.Actor{ID: me, Role: RoleMarketing}

	if !IsOwner(actor, &me) {
		t.Error("actor should own their own record")
	}
	if IsOwner(actor, &other) {
		t.Error("actor should not own a foreign record")
	}
	if IsOwner(actor, nil) {
		t.Error("records without creator are owned by nobody")
	}
}

func TestCanReadOpenToAllKnownRoles(t *testing.T) {
	for _, role := range AllRoles {
		if !CanRead(role) {
			t.Errorf("CanRead(%q) = false, want true", role)
		}
	}
	if CanRead("anonymous") {
		t.Error("unknown roles must not read")
	}
}

func TestHasOwnershipBypass(t *testing.T) {
	for _, role := range []string{RoleAdmin, RoleGestor} {
		if !HasOwnershipBypass(role) {
			t.Errorf("HasOwnershipBypass(%q) = false, want true", role)
		}
	}
	for _, role := range []string{RoleMarketing, RoleAsesor, RoleLectura, ""} {
		if HasOwnershipBypass(role) {
			t.Errorf("HasOwnershipBypass(%q) = true, want false", role)
		}
	}
}

func TestDeleteRestrictedToPrivilegedRoles(t *testing.T) {
	for _, role := range []string{RoleMarketing, RoleAsesor, RoleLectura} {
		if CanDelete(role, models.EntityEnrollment) {
			t.Errorf("role %q should not delete enrollments", role)
		}
	}
	if !CanDelete(RoleGestor, models.EntityEnrollment) {
		t.Error("gestor should delete enrollments")
	}
	if CanDelete(RoleGestor, models.EntityCourse) {
		t.Error("only admin deletes courses")
	}
}
