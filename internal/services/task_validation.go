package services

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/taskhive/taskhive-backend/internal/dto"
	"github.com/taskhive/taskhive-backend/internal/models"
)

const dueDateLayout = "2006-01-02"

// ValidationError carries field-level messages for rejected input.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	b, err := json.Marshal(e.Fields)
	if err != nil {
		return "invalid input"
	}
	return "invalid input: " + string(b)
}

func newValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

func (e *ValidationError) add(field, msg string) {
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// validateTaskFields checks the full field set used by create and replace.
// The past-date rule applies on create only: a task already in flight may keep
// or receive a due date that has since gone by.
func validateTaskFields(req *dto.CreateTaskRequest, rejectPast bool) (time.Time, models.Status, error) {
	ve := newValidationError()

	if strings.TrimSpace(req.Title) == "" {
		ve.add("title", "must be provided")
	}

	var due time.Time
	if req.DueDate == "" {
		ve.add("due_date", "must be provided")
	} else {
		var err error
		due, err = time.Parse(dueDateLayout, req.DueDate)
		if err != nil {
			ve.add("due_date", "must be a valid date in YYYY-MM-DD format")
		} else if rejectPast && due.Before(today()) {
			ve.add("due_date", "cannot be in the past")
		}
	}

	status := models.Status(req.Status)
	if req.Status == "" {
		ve.add("status", "must be provided")
	} else if !status.Valid() {
		ve.add("status", "must be one of: pending, in_progress, completed")
	}

	return due, status, ve.orNil()
}

// validateTaskPatch checks only the fields present in a partial update and
// returns them as column assignments.
func validateTaskPatch(req *dto.UpdateTaskRequest) (map[string]interface{}, error) {
	ve := newValidationError()
	changes := make(map[string]interface{})

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			ve.add("title", "must not be empty")
		} else {
			changes["title"] = *req.Title
		}
	}

	if req.Description != nil {
		changes["description"] = *req.Description
	}

	if req.DueDate != nil {
		due, err := time.Parse(dueDateLayout, *req.DueDate)
		if err != nil {
			ve.add("due_date", "must be a valid date in YYYY-MM-DD format")
		} else {
			changes["due_date"] = due
		}
	}

	if req.Status != nil {
		status := models.Status(*req.Status)
		if !status.Valid() {
			ve.add("status", "must be one of: pending, in_progress, completed")
		} else {
			changes["status"] = status
		}
	}

	if err := ve.orNil(); err != nil {
		return nil, err
	}
	return changes, nil
}

// today returns the current UTC calendar date at midnight, the reference point
// for the past-due-date rule.
func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
