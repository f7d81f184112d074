package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an authenticated principal. IsAdmin and IsSuperuser grant visibility
// and control over every task regardless of ownership; both flags are only
// settable through privileged paths, never through the profile-update path.
type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email       string    `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Name        string    `gorm:"size:255" json:"name"`
	Password    string    `gorm:"not null" json:"-"`
	IsAdmin     bool      `gorm:"default:false" json:"is_admin"`
	IsSuperuser bool      `gorm:"default:false" json:"is_superuser"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Privileged reports whether the user may see and control tasks of all owners.
func (u *User) Privileged() bool {
	return u.IsAdmin || u.IsSuperuser
}
