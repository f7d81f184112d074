package authz

import (
	"github.com/taskhive/taskhive-backend/internal/models"
	"gorm.io/gorm"
)

// Operation names a task-service action for policy decisions.
type Operation string

const (
	OpRead     Operation = "read"
	OpUpdate   Operation = "update"
	OpReplace  Operation = "replace"
	OpDelete   Operation = "delete"
	OpComplete Operation = "complete"
)

// CanAccess decides whether principal may perform op on task. Admins and
// superusers may touch any task; everyone else only their own. Stateless and
// side-effect free. Create and list are not decided here: create is open to
// any authenticated principal (owner is forced to the creator), list uses
// ScopeToPrincipal.
func CanAccess(principal *models.User, task *models.Task, op Operation) bool {
	if principal == nil {
		return false
	}
	if principal.Privileged() {
		return true
	}
	return principal.ID == task.UserID
}

// ScopeToPrincipal returns a GORM scope restricting task queries to what the
// principal may see: all tasks for admins/superusers, own tasks otherwise.
func ScopeToPrincipal(principal *models.User) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if principal.Privileged() {
			return db
		}
		return db.Where("user_id = ?", principal.ID)
	}
}
