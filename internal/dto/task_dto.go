package dto

import (
	"time"

	"github.com/taskhive/taskhive-backend/internal/models"
)

// CreateTaskRequest is the full field set for create and replace. Owner,
// task_id and timestamps are server-assigned and deliberately absent.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	Status      string `json:"status"`
}

// UpdateTaskRequest is the partial field set for PATCH; nil means "leave as is".
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
	Status      *string `json:"status"`
}

type TaskResponse struct {
	ID          string    `json:"id"`
	TaskID      string    `json:"task_id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     string    `json:"due_date"`
	Status      string    `json:"status"`
	StatusLabel string    `json:"status_label"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type TaskListResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Total int            `json:"total"`
}

func NewTaskResponse(t *models.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID.String(),
		TaskID:      t.TaskID,
		UserID:      t.UserID.String(),
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate.Format("2006-01-02"),
		Status:      string(t.Status),
		StatusLabel: t.Status.Label(),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
