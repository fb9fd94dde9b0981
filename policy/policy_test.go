package policy

import (
	"testing"

	"lms/models"

	"github.com/stretchr/testify/assert"
)

func TestCanAccess(t *testing.T) {
	tests := []struct {
		name    string
		caller  Caller
		res     Resource
		allowed bool
		reason  string
	}{
		{
			name:   "anonymous denied",
			caller: Caller{},
			res:    Resource{InstituteID: 1},
			reason: ReasonUnauthorized,
		},
		{
			name:    "unscoped admin always allowed",
			caller:  Caller{UserID: 1, Role: models.RoleAdmin},
			res:     Resource{InstituteID: 7},
			allowed: true,
		},
		{
			name:    "scoped admin not blocked on mismatch",
			caller:  Caller{UserID: 1, Role: models.RoleAdmin, InstituteID: 2},
			res:     Resource{InstituteID: 7},
			allowed: true,
		},
		{
			name:   "teacher denied on other institute",
			caller: Caller{UserID: 2, Role: models.RoleTeacher, InstituteID: 2},
			res:    Resource{InstituteID: 7},
			reason: ReasonAccessDenied,
		},
		{
			name:    "student allowed on own institute",
			caller:  Caller{UserID: 3, Role: models.RoleStudent, InstituteID: 7},
			res:     Resource{InstituteID: 7},
			allowed: true,
		},
		{
			name:    "record without institute is open",
			caller:  Caller{UserID: 3, Role: models.RoleStudent, InstituteID: 7},
			res:     Resource{},
			allowed: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := CanAccess(tt.caller, tt.res)
			assert.Equal(t, tt.allowed, d.Allowed)
			if !tt.allowed {
				assert.Equal(t, tt.reason, d.Reason)
			}
		})
	}
}

func TestListScope(t *testing.T) {
	t.Run("unscoped admin sees everything", func(t *testing.T) {
		s := ListScope(Caller{UserID: 1, Role: models.RoleAdmin}, KindCourse)
		assert.True(t, s.All)
		assert.False(t, s.Empty)
	})

	t.Run("scoped admin filtered to own institute", func(t *testing.T) {
		s := ListScope(Caller{UserID: 1, Role: models.RoleAdmin, InstituteID: 4}, KindCourse)
		assert.False(t, s.All)
		assert.Equal(t, uint(4), s.InstituteID)
	})

	t.Run("non-admin without institute sees nothing", func(t *testing.T) {
		for _, role := range []string{models.RoleStudent, models.RoleTeacher, models.RoleManager} {
			s := ListScope(Caller{UserID: 9, Role: role}, KindCourse)
			assert.True(t, s.Empty, role)
			assert.False(t, s.All, role)
		}
	})

	t.Run("student narrowed to published courses", func(t *testing.T) {
		s := ListScope(Caller{UserID: 9, Role: models.RoleStudent, InstituteID: 4}, KindCourse)
		assert.Equal(t, uint(4), s.InstituteID)
		assert.True(t, s.PublishedOnly)
		assert.Zero(t, s.InstructorID)
	})

	t.Run("teacher narrowed to own courses", func(t *testing.T) {
		s := ListScope(Caller{UserID: 9, Role: models.RoleTeacher, InstituteID: 4}, KindCourse)
		assert.Equal(t, uint(9), s.InstructorID)
		assert.False(t, s.PublishedOnly)
	})

	t.Run("manager sees the whole institute", func(t *testing.T) {
		s := ListScope(Caller{UserID: 9, Role: models.RoleManager, InstituteID: 4}, KindCourse)
		assert.Equal(t, uint(4), s.InstituteID)
		assert.Zero(t, s.InstructorID)
		assert.False(t, s.PublishedOnly)
	})

	t.Run("narrowing only applies to courses", func(t *testing.T) {
		s := ListScope(Caller{UserID: 9, Role: models.RoleStudent, InstituteID: 4}, "")
		assert.False(t, s.PublishedOnly)
	})
}

func TestRequireInstitute(t *testing.T) {
	d := RequireInstitute(Caller{UserID: 2, Role: models.RoleTeacher})
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonNoInstitute, d.Reason)

	assert.True(t, RequireInstitute(Caller{UserID: 2, Role: models.RoleTeacher, InstituteID: 1}).Allowed)

	// Unscoped admins pass and name the institute in the request instead
	assert.True(t, RequireInstitute(Caller{UserID: 1, Role: models.RoleAdmin}).Allowed)
}

func TestCanActFor(t *testing.T) {
	t.Run("student self", func(t *testing.T) {
		d := CanActFor(Caller{UserID: 5, Role: models.RoleStudent, InstituteID: 1}, 5, 1)
		assert.True(t, d.Allowed)
	})

	t.Run("student other denied", func(t *testing.T) {
		d := CanActFor(Caller{UserID: 5, Role: models.RoleStudent, InstituteID: 1}, 6, 1)
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonAccessDenied, d.Reason)
	})

	t.Run("teacher same institute", func(t *testing.T) {
		d := CanActFor(Caller{UserID: 5, Role: models.RoleTeacher, InstituteID: 1}, 6, 1)
		assert.True(t, d.Allowed)
	})

	t.Run("teacher cross institute denied", func(t *testing.T) {
		d := CanActFor(Caller{UserID: 5, Role: models.RoleTeacher, InstituteID: 1}, 6, 2)
		assert.False(t, d.Allowed)
	})

	t.Run("admin any target", func(t *testing.T) {
		d := CanActFor(Caller{UserID: 1, Role: models.RoleAdmin, InstituteID: 3}, 6, 2)
		assert.True(t, d.Allowed)
	})
}

func TestCanModifyOwned(t *testing.T) {
	res := Resource{InstituteID: 1, OwnerID: 10}

	t.Run("owner allowed", func(t *testing.T) {
		d := CanModifyOwned(Caller{UserID: 10, Role: models.RoleTeacher, InstituteID: 1}, res, ReasonModifyCourse)
		assert.True(t, d.Allowed)
	})

	t.Run("other teacher denied with given reason", func(t *testing.T) {
		d := CanModifyOwned(Caller{UserID: 11, Role: models.RoleTeacher, InstituteID: 1}, res, ReasonModifyCourse)
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonModifyCourse, d.Reason)
	})

	t.Run("institute mismatch beats ownership reason", func(t *testing.T) {
		d := CanModifyOwned(Caller{UserID: 11, Role: models.RoleTeacher, InstituteID: 2}, res, ReasonDeleteCourse)
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonAccessDenied, d.Reason)
	})

	t.Run("admin overrides ownership", func(t *testing.T) {
		d := CanModifyOwned(Caller{UserID: 1, Role: models.RoleAdmin}, res, ReasonDeleteCourse)
		assert.True(t, d.Allowed)
	})
}
