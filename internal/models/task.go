package models

import (
	"time"

	"github.com/google/uuid"
)

// Status is the canonical task status representation. The lower-case tokens
// are stored and sent on the wire; Label returns the human-readable form.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Valid reports whether s is one of the three accepted status tokens.
// Matching is exact: no case folding, no trimming.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusInProgress:
		return "In Progress"
	case StatusCompleted:
		return "Completed"
	}
	return string(s)
}

// Task is a single to-do item owned by exactly one user. TaskID is the
// external correlation key, distinct from the storage primary key; both are
// server-assigned and immutable, as are UserID and CreatedAt. Version backs
// the compare-and-swap used by every mutating operation.
type Task struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TaskID      string    `gorm:"size:64;not null;uniqueIndex" json:"task_id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User        User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	DueDate     time.Time `gorm:"type:date;not null" json:"due_date"`
	Status      Status    `gorm:"size:20;not null" json:"status"`
	Version     int64     `gorm:"not null;default:1" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
