package service

import (
	"github.com/noah-isme/study-planner-api/internal/models"
	appErrors "github.com/noah-isme/study-planner-api/pkg/errors"
)

// Actor identifies the authenticated caller of a request.
type Actor struct {
	UserID string
	Role   models.UserRole
}

// CanAccess reports whether the actor may read or change data owned by studentID.
func (a Actor) CanAccess(studentID string) bool {
	return a.Role == models.RoleAdmin || (a.UserID != "" && a.UserID == studentID)
}

// ResolveStudentID picks the student a request acts on. A blank id means the
// caller; students may not name anyone else.
func (a Actor) ResolveStudentID(requested string) (string, error) {
	if requested == "" {
		if a.UserID == "" {
			return "", appErrors.Clone(appErrors.ErrUnauthorized, "missing authenticated user")
		}
		return a.UserID, nil
	}
	if !a.CanAccess(requested) {
		return "", appErrors.Clone(appErrors.ErrForbidden, "cannot act on another student's schedule")
	}
	return requested, nil
}
