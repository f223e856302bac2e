package rbac

import (
	"github.com/campusflow/backend/internal/models"
	"github.com/google/uuid"
)

// Role constants
const (
	RoleAdmin     = "admin"
	RoleGestor    = "gestor"
	RoleMarketing = "marketing"
	RoleAsesor    = "asesor"
	RoleLectura   = "lectura"
)

var AllRoles = []string{RoleAdmin, RoleGestor, RoleMarketing, RoleAsesor, RoleLectura}

func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Field groups used by the field-level policy. Every mutable field of every
// entity belongs to exactly one group.
const (
	FieldGroupGeneral   = "general"   // titles, copy, scheduling, relationships
	FieldGroupStatus    = "status"    // the status field itself
	FieldGroupFinancial = "financial" // payment and aid fields
	FieldGroupNotes     = "notes"     // internal notes
)

// createRoles: entity type -> roles allowed to create it.
var createRoles = map[string][]string{
	models.EntityCampus:      {RoleAdmin, RoleGestor},
	models.EntityCourse:      {RoleAdmin, RoleGestor},
	models.EntityCourseRun:   {RoleAdmin, RoleGestor},
	models.EntityEnrollment:  {RoleAdmin, RoleGestor, RoleAsesor, RoleMarketing},
	models.EntityCampaign:    {RoleAdmin, RoleGestor, RoleMarketing},
	models.EntityAdsTemplate: {RoleAdmin, RoleGestor, RoleMarketing},
	models.EntityLead:        {RoleAdmin, RoleGestor, RoleMarketing, RoleAsesor},
}

// deleteRoles: entity type -> roles allowed to delete it.
var deleteRoles = map[string][]string{
	models.EntityCampus:      {RoleAdmin},
	models.EntityCourse:      {RoleAdmin},
	models.EntityCourseRun:   {RoleAdmin, RoleGestor},
	models.EntityEnrollment:  {RoleAdmin, RoleGestor},
	models.EntityCampaign:    {RoleAdmin, RoleGestor},
	models.EntityAdsTemplate: {RoleAdmin, RoleGestor},
	models.EntityLead:        {RoleAdmin, RoleGestor},
}

// fieldRule is one row of the declarative update policy.
type fieldRule struct {
	roles     []string
	ownedOnly bool // the actor must be the record's creator
}

// updatePolicy: entity type -> field group -> rules for the ownership-bound
// roles. Admin and gestor are deliberately absent: HasOwnershipBypass grants
// them every group an entity defines. Lectura never appears: read-only.
var updatePolicy = map[string]map[string][]fieldRule{
	models.EntityCampus: {
		FieldGroupGeneral: {},
	},
	models.EntityCourse: {
		FieldGroupGeneral: {},
		FieldGroupStatus:  {},
	},
	models.EntityCourseRun: {
		FieldGroupGeneral: {},
		FieldGroupStatus:  {},
		FieldGroupNotes:   {{roles: []string{RoleAsesor}, ownedOnly: true}},
	},
	models.EntityEnrollment: {
		FieldGroupGeneral:   {},
		FieldGroupStatus:    {{roles: []string{RoleAsesor}, ownedOnly: true}},
		FieldGroupFinancial: {},
		FieldGroupNotes:     {{roles: []string{RoleAsesor, RoleMarketing}, ownedOnly: true}},
	},
	models.EntityCampaign: {
		FieldGroupGeneral: {{roles: []string{RoleMarketing}, ownedOnly: true}},
		FieldGroupStatus:  {{roles: []string{RoleMarketing}, ownedOnly: true}},
	},
	models.EntityAdsTemplate: {
		FieldGroupGeneral: {{roles: []string{RoleMarketing}, ownedOnly: true}},
		FieldGroupStatus:  {{roles: []string{RoleMarketing}, ownedOnly: true}},
	},
	models.EntityLead: {
		FieldGroupGeneral: {{roles: []string{RoleMarketing, RoleAsesor}, ownedOnly: true}},
		FieldGroupStatus:  {{roles: []string{RoleMarketing, RoleAsesor}, ownedOnly: true}},
		FieldGroupNotes:   {{roles: []string{RoleMarketing, RoleAsesor}, ownedOnly: true}},
	},
}

// systemFields: fields immutable to every role, including admin. The service
// layer re-asserts stored values on top of any write that slips through.
var systemFields = map[string][]string{
	models.EntityCourse:      {"created_by"},
	models.EntityCourseRun:   {"created_by", "current_enrollments"},
	models.EntityEnrollment:  {"created_by", "enrolled_at", "confirmed_at", "completed_at", "cancelled_at"},
	models.EntityCampaign:    {"created_by", "total_leads", "total_conversions", "conversion_rate", "cost_per_lead"},
	models.EntityAdsTemplate: {"created_by", "version", "usage_count", "last_used_at"},
	models.EntityLead:        {"created_by"},
	models.EntityCampus:      {"created_by"},
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// CanRead: every authenticated role reads everything; only the public lead
// form is open to unauthenticated callers, and that is handled at the router.
func CanRead(role string) bool {
	return IsValidRole(role)
}

func CanCreate(role, entityType string) bool {
	return contains(createRoles[entityType], role)
}

func CanDelete(role, entityType string) bool {
	return contains(deleteRoles[entityType], role)
}

// CanUpdateField evaluates the declarative policy for one field group.
func CanUpdateField(role, entityType, fieldGroup string, selfOwned bool) bool {
	groups, ok := updatePolicy[entityType]
	if !ok {
		return false
	}
	rules, ok := groups[fieldGroup]
	if !ok {
		return false
	}
	if HasOwnershipBypass(role) {
		return true
	}
	for _, r := range rules {
		if !contains(r.roles, role) {
			continue
		}
		if r.ownedOnly && !selfOwned {
			continue
		}
		return true
	}
	return false
}

// IsSystemField reports whether a field is immutable to every role.
func IsSystemField(entityType, field string) bool {
	return contains(systemFields[entityType], field)
}

// IsOwner reports whether the actor created the record. A record without a
// creator is owned by nobody.
func IsOwner(actor models.Actor, createdBy *uuid.UUID) bool {
	return createdBy != nil && *createdBy == actor.ID
}

// HasOwnershipBypass reports whether the role may mutate records regardless
// of who created them.
func HasOwnershipBypass(role string) bool {
	return role == RoleAdmin || role == RoleGestor
}
