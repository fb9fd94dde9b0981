// Package policy decides what a caller may see or change. Every route goes
// through these checks instead of carrying its own ad-hoc role logic.
package policy

import "lms/models"

// Denial reasons returned to clients
const (
	ReasonUnauthorized = "Unauthorized"
	ReasonNoInstitute  = "User is not linked to an institute"
	ReasonAccessDenied = "Access denied"
	ReasonModifyCourse = "Unauthorized to modify this course"
	ReasonDeleteCourse = "Unauthorized to delete this course"
)

// Resource kinds with role-specific list narrowing
const (
	KindCourse = "course"
)

// Caller identifies the authenticated user making a request
type Caller struct {
	UserID      uint
	Role        string
	InstituteID uint // 0 means no institute affiliation
}

// Resource describes the record a single-record operation targets
type Resource struct {
	InstituteID uint // 0 when the record carries no institute reference
	OwnerID     uint // Owning user (course instructor), 0 when not applicable
}

// Decision is the outcome of an authorization check
type Decision struct {
	Allowed bool
	Reason  string
}

// Allow returns a permitting decision
func Allow() Decision { return Decision{Allowed: true} }

// Deny returns a denying decision with a client-facing reason
func Deny(reason string) Decision { return Decision{Reason: reason} }

// Scope is the implicit filter a list query must apply for a caller
type Scope struct {
	All           bool // No filtering (unscoped admin)
	Empty         bool // Caller sees nothing
	InstituteID   uint // Restrict to this institute when non-zero
	InstructorID  uint // Restrict courses to this instructor (teachers)
	PublishedOnly bool // Restrict courses to published ones (students)
}

// CanAccess checks a single-record read or write against institute scope.
// Admins are never blocked on a single record, even when they carry an
// institute affiliation; non-admins are denied on any institute mismatch.
func CanAccess(caller Caller, res Resource) Decision {
	if caller.UserID == 0 {
		return Deny(ReasonUnauthorized)
	}
	if caller.Role == models.RoleAdmin {
		return Allow()
	}
	if res.InstituteID != 0 && res.InstituteID != caller.InstituteID {
		return Deny(ReasonAccessDenied)
	}
	return Allow()
}

// ListScope computes the filter for a list query. kind selects role-specific
// narrowing on top of institute scope; only courses have any today.
func ListScope(caller Caller, kind string) Scope {
	if caller.UserID == 0 {
		return Scope{Empty: true}
	}
	var s Scope
	if caller.Role == models.RoleAdmin {
		if caller.InstituteID == 0 {
			s.All = true
		} else {
			s.InstituteID = caller.InstituteID
		}
		return s
	}
	if caller.InstituteID == 0 {
		// No affiliation means the visible set is empty, never everything
		return Scope{Empty: true}
	}
	s.InstituteID = caller.InstituteID
	if kind == KindCourse {
		switch caller.Role {
		case models.RoleStudent:
			s.PublishedOnly = true
		case models.RoleTeacher:
			s.InstructorID = caller.UserID
		}
	}
	return s
}

// RequireInstitute gates writes that must land in an institute. Unscoped
// admins pass; they name the target institute explicitly in the request.
func RequireInstitute(caller Caller) Decision {
	if caller.UserID == 0 {
		return Deny(ReasonUnauthorized)
	}
	if caller.Role != models.RoleAdmin && caller.InstituteID == 0 {
		return Deny(ReasonNoInstitute)
	}
	return Allow()
}

// CanActFor checks whether the caller may read another user's data.
// Students may only act for themselves; staff must share the target's
// institute (or be admin).
func CanActFor(caller Caller, targetUserID, targetInstituteID uint) Decision {
	if caller.UserID == 0 {
		return Deny(ReasonUnauthorized)
	}
	if caller.Role == models.RoleStudent {
		if targetUserID != caller.UserID {
			return Deny(ReasonAccessDenied)
		}
		return Allow()
	}
	return CanAccess(caller, Resource{InstituteID: targetInstituteID})
}

// CanModifyOwned checks mutation of an owned resource: the caller must be
// admin or the recorded owner. reason is the client-facing denial text.
func CanModifyOwned(caller Caller, res Resource, reason string) Decision {
	if caller.UserID == 0 {
		return Deny(ReasonUnauthorized)
	}
	if caller.Role == models.RoleAdmin {
		return Allow()
	}
	if d := CanAccess(caller, res); !d.Allowed {
		return d
	}
	if res.OwnerID != caller.UserID {
		return Deny(reason)
	}
	return Allow()
}
