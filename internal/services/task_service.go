package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive-backend/internal/authz"
	"github.com/taskhive/taskhive-backend/internal/dto"
	"github.com/taskhive/taskhive-backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrTaskForbidden = errors.New("you are not authorized to access this task")
	ErrTaskConflict  = errors.New("task was modified concurrently, retry the request")
)

// TaskService implements the seven task operations. Every operation takes the
// authenticated principal explicitly; ownership is re-checked against it on
// each call, never cached.
type TaskService struct {
	db *gorm.DB
}

func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{db: db}
}

// Create validates the request and persists a new task owned by the principal.
// The owner is always the creator; any owner value a client might send is
// not even parsed.
func (s *TaskService) Create(principal *models.User, req *dto.CreateTaskRequest) (*models.Task, error) {
	due, status, err := validateTaskFields(req, true)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	task := models.Task{
		ID:          uuid.New(),
		TaskID:      generateTaskID(now, principal.ID),
		UserID:      principal.ID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     due,
		Status:      status,
		Version:     1,
	}

	if err := s.db.Create(&task).Error; err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return &task, nil
}

// List returns the tasks visible to the principal: all tasks for admins and
// superusers, own tasks otherwise. With orderByDueDate the result is sorted
// by due date descending, the ordering the browser listing uses.
func (s *TaskService) List(principal *models.User, orderByDueDate bool) ([]models.Task, error) {
	q := s.db.Scopes(authz.ScopeToPrincipal(principal))
	if orderByDueDate {
		q = q.Order("due_date DESC")
	}

	var tasks []models.Task
	if err := q.Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Get fetches a single task, authorizing the principal against it.
func (s *TaskService) Get(principal *models.User, id uuid.UUID) (*models.Task, error) {
	return s.fetch(principal, id, authz.OpRead)
}

// Update applies a partial field set to the task. Provided fields are
// validated, merged, and persisted; updated_at is bumped even when the patch
// is empty.
func (s *TaskService) Update(principal *models.User, id uuid.UUID, req *dto.UpdateTaskRequest) (*models.Task, error) {
	task, err := s.fetch(principal, id, authz.OpUpdate)
	if err != nil {
		return nil, err
	}

	changes, err := validateTaskPatch(req)
	if err != nil {
		return nil, err
	}

	return s.applyChanges(task, changes)
}

// Replace overwrites all client-settable fields of the task. Every required
// field must be present and valid.
func (s *TaskService) Replace(principal *models.User, id uuid.UUID, req *dto.CreateTaskRequest) (*models.Task, error) {
	task, err := s.fetch(principal, id, authz.OpReplace)
	if err != nil {
		return nil, err
	}

	due, status, err := validateTaskFields(req, false)
	if err != nil {
		return nil, err
	}

	return s.applyChanges(task, map[string]interface{}{
		"title":       req.Title,
		"description": req.Description,
		"due_date":    due,
		"status":      status,
	})
}

// Delete removes the task. The delete is conditional on the version read
// during authorization so a concurrent mutation is not silently discarded.
func (s *TaskService) Delete(principal *models.User, id uuid.UUID) error {
	task, err := s.fetch(principal, id, authz.OpDelete)
	if err != nil {
		return err
	}

	res := s.db.Where("id = ? AND version = ?", task.ID, task.Version).Delete(&models.Task{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrTaskConflict
	}
	return nil
}

// Complete forces the task status to completed regardless of its prior state.
func (s *TaskService) Complete(principal *models.User, id uuid.UUID) (*models.Task, error) {
	task, err := s.fetch(principal, id, authz.OpComplete)
	if err != nil {
		return nil, err
	}

	return s.applyChanges(task, map[string]interface{}{
		"status": models.StatusCompleted,
	})
}

func (s *TaskService) fetch(principal *models.User, id uuid.UUID, op authz.Operation) (*models.Task, error) {
	var task models.Task
	if err := s.db.First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to fetch task: %w", err)
	}

	if !authz.CanAccess(principal, &task, op) {
		return nil, ErrTaskForbidden
	}
	return &task, nil
}

// applyChanges persists the column assignments as a single compare-and-swap
// on the record version, closing the lost-update window between concurrent
// writers to the same task.
func (s *TaskService) applyChanges(task *models.Task, changes map[string]interface{}) (*models.Task, error) {
	changes["version"] = task.Version + 1
	changes["updated_at"] = time.Now().UTC()

	res := s.db.Model(&models.Task{}).
		Where("id = ? AND version = ?", task.ID, task.Version).
		Updates(changes)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrTaskConflict
	}

	var updated models.Task
	if err := s.db.First(&updated, "id = ?", task.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload task: %w", err)
	}
	return &updated, nil
}
