package services

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive-backend/internal/dto"
	"github.com/taskhive/taskhive-backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.New().String() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.RefreshToken{}, &models.Task{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string, admin, superuser bool) *models.User {
	t.Helper()

	user := models.User{
		ID:          uuid.New(),
		Email:       email,
		Name:        email,
		Password:    "x",
		IsAdmin:     admin,
		IsSuperuser: superuser,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return &user
}

func createTask(t *testing.T, svc *TaskService, owner *models.User) *models.Task {
	t.Helper()

	task, err := svc.Create(owner, &dto.CreateTaskRequest{
		Title:       "ship release",
		Description: "cut the final build",
		DueDate:     time.Now().UTC().AddDate(0, 0, 7).Format(dueDateLayout),
		Status:      "pending",
	})
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}
	return task
}

func TestCreateTaskAssignsServerFields(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)
	owner := createTestUser(t, db, "x@example.com", false, false)

	task := createTask(t, svc, owner)

	if task.TaskID == "" {
		t.Fatal("expected generated task_id")
	}
	if task.UserID != owner.ID {
		t.Fatalf("expected owner %s, got %s", owner.ID, task.UserID)
	}
	if task.Status != models.StatusPending {
		t.Fatalf("expected pending, got %s", task.Status)
	}
	if task.CreatedAt.IsZero() || task.UpdatedAt.IsZero() {
		t.Fatal("expected timestamps to be set")
	}
	if task.Version != 1 {
		t.Fatalf("expected version 1, got %d", task.Version)
	}
}

func TestCreateTaskDueToday(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)
	owner := createTestUser(t, db, "x@example.com", false, false)

	_, err := svc.Create(owner, &dto.CreateTaskRequest{
		Title:   "due today",
		DueDate: time.Now().UTC().Format(dueDateLayout),
		Status:  "pending",
	})
	if err != nil {
		t.Fatalf("expected today's date accepted, got %v", err)
	}
}

func TestCreateTaskRejectsPastDueDate(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)
	owner := createTestUser(t, db, "x@example.com", false, false)

	_, err := svc.Create(owner, &dto.CreateTaskRequest{
		Title:   "late already",
		DueDate: "2020-01-01",
		Status:  "pending",
	})

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}

	var count int64
	db.Model(&models.Task{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no task persisted, found %d", count)
	}
}

func TestListScoping(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)
	x := createTestUser(t, db, "x@example.com", false, false)
	y := createTestUser(t, db, "y@example.com", false, false)
	admin := createTestUser(t, db, "admin@example.com", true, false)
	super := createTestUser(t, db, "super@example.com", false, true)

	createTask(t, svc, x)
	createTask(t, svc, y)
	createTask(t, svc, y)

	tasks, err := svc.List(x, false)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected x to see 1 task, got %d", len(tasks))
	}

	tasks, err = svc.List(admin, false)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("expected admin to see 3 tasks, got %d", len(tasks))
	}

	tasks, err = svc.List(super, false)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("expected superuser to see 3 tasks, got %d", len(tasks))
	}
}

func TestListOrderedByDueDate(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)
	owner := createTestUser(t, db, "x@example.com", false, false)

	for _, days := range []int{3, 9, 1} {
		_, err := svc.Create(owner, &dto.CreateTaskRequest{
			Title:   "t",
			DueDate: time.Now().UTC().AddDate(0, 0, days).Format(dueDateLayout),
			Status:  "pending",
		})
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	tasks, err := svc.List(owner, true)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	for i := 1; i < len(tasks); i++ {
		if tasks[i].DueDate.After(tasks[i-1].DueDate) {
			t.Fatalf("expected due_date descending, got %v before %v", tasks[i-1].DueDate, tasks[i].DueDate)
		}
	}
}

func TestGetAuthorization(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)
	x := createTestUser(t, db, "x@example.com", false, false)
	y := createTestUser(t, db, "y@example.com", false, false)
	admin := createTestUser(t, db, "admin@example.com", true, false)

	task := createTask(t, svc, x)

	if _, err := svc.Get(x, task.ID); err != nil {
		t.Fatalf("owner get failed: %v", err)
	}
	if _, err := svc.Get(admin, task.ID); err != nil {
		t.Fatalf("admin get failed: %v", err)
	}
	if _, err := svc.Get(y, task.ID); !errors.Is(err, ErrTaskForbidden) {
		t.Fatalf("expected forbidden for non-owner, got %v", err)
	}
	if _, err := svc.Get(x, uuid.New()); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdatePartial(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)
	owner := createTestUser(t, db, "x@example.com", false, false)

	task := createTask(t, svc, owner)
	prior := task.UpdatedAt

	time.Sleep(10 * time.Millisecond)

	title := "ship hotfix"
	updated, err := svc.Update(owner, task.ID, &dto.UpdateTaskRequest{Title: &title})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if updated.Title != title {
		t.Fatalf("expected title updated, got %q", updated.Title)
	}
	if updated.Description != task.Description {
		t.Fatalf("expected description untouched, got %q", updated.Description)
	}
	if !updated.UpdatedAt.After(prior) {
		t.Fatalf("expected updated_at to advance: %v -> %v", prior, updated.UpdatedAt)
	}
	if updated.Version != task.Version+1 {
		t.Fatalf("expected version bump, got %d", updated.Version)
	}
}

func TestUpdateForbiddenLeavesTaskUnchanged(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)
	x := createTestUser(t, db, "x@example.com", false, false)
	y := createTestUser(t, db, "y@example.com", false, false)

	task := createTask(t, svc, x)

	title := "hijacked"
	if _, err := svc.Update(y, task.ID, &dto.UpdateTaskRequest{Title: &title}); !errors.Is(err, ErrTaskForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if err := svc.Delete(y, task.ID); !errors.Is(err, ErrTaskForbidden) {
		t.Fatalf("expected forbidden delete, got %v", err)
	}
	if _, err := svc.Complete(y, task.ID); !errors.Is(err, ErrTaskForbidden) {
		t.Fatalf("expected forbidden complete, got %v", err)
	}

	var stored models.Task
	if err := db.First(&stored, "id = ?", task.ID).Error; err != nil {
		t.Fatalf("task should still exist: %v", err)
	}
	if stored.Title != task.Title || stored.Status != task.Status {
		t.Fatalf("expected task unchanged, got %+v", stored)
	}
}

func TestReplaceRequiresAllFields(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)
	owner := createTestUser(t, db, "x@example.com", false, false)

	task := createTask(t, svc, owner)

	_, err := svc.Replace(owner, task.ID, &dto.CreateTaskRequest{
		Title:   "replaced",
		DueDate: time.Now().UTC().AddDate(0, 0, 2).Format(dueDateLayout),
		// status missing
	})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}

	replaced, err := svc.Replace(owner, task.ID, &dto.CreateTaskRequest{
		Title:   "replaced",
		DueDate: "2020-06-01", // past is fine once the task exists
		Status:  "in_progress",
	})
	if err != nil {
		t.Fatalf("replace failed: %v", err)
	}
	if replaced.Title != "replaced" || replaced.Status != models.StatusInProgress {
		t.Fatalf("unexpected replace result: %+v", replaced)
	}
	if replaced.Description != "" {
		t.Fatalf("expected description overwritten, got %q", replaced.Description)
	}
	if replaced.TaskID != task.TaskID {
		t.Fatalf("task_id must not change on replace: %s -> %s", task.TaskID, replaced.TaskID)
	}
}

func TestDelete(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)
	owner := createTestUser(t, db, "x@example.com", false, false)

	task := createTask(t, svc, owner)

	if err := svc.Delete(owner, task.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := svc.Delete(owner, task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestCompleteForcesStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)
	owner := createTestUser(t, db, "x@example.com", false, false)

	for _, start := range []string{"pending", "in_progress", "completed"} {
		task, err := svc.Create(owner, &dto.CreateTaskRequest{
			Title:   "finish me",
			DueDate: time.Now().UTC().AddDate(0, 0, 1).Format(dueDateLayout),
			Status:  start,
		})
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		prior := task.UpdatedAt

		time.Sleep(10 * time.Millisecond)

		completed, err := svc.Complete(owner, task.ID)
		if err != nil {
			t.Fatalf("complete failed: %v", err)
		}
		if completed.Status != models.StatusCompleted {
			t.Fatalf("expected completed from %s, got %s", start, completed.Status)
		}
		if !completed.UpdatedAt.After(prior) {
			t.Fatalf("expected updated_at strictly after %v, got %v", prior, completed.UpdatedAt)
		}
	}
}

func TestStatusTransitionsAreFreeForm(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)
	owner := createTestUser(t, db, "x@example.com", false, false)

	task := createTask(t, svc, owner)

	// completed -> pending is legal; no forward-only constraint.
	for _, next := range []string{"completed", "pending", "in_progress"} {
		updated, err := svc.Update(owner, task.ID, &dto.UpdateTaskRequest{Status: &next})
		if err != nil {
			t.Fatalf("transition to %s failed: %v", next, err)
		}
		if updated.Status != models.Status(next) {
			t.Fatalf("expected %s, got %s", next, updated.Status)
		}
	}
}

func TestStaleWriteConflict(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)
	owner := createTestUser(t, db, "x@example.com", false, false)

	task := createTask(t, svc, owner)
	stale := *task

	title := "first writer"
	if _, err := svc.Update(owner, task.ID, &dto.UpdateTaskRequest{Title: &title}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	// A writer holding the pre-update version must not clobber the first write.
	_, err := svc.applyChanges(&stale, map[string]interface{}{"title": "second writer"})
	if !errors.Is(err, ErrTaskConflict) {
		t.Fatalf("expected conflict for stale version, got %v", err)
	}

	var stored models.Task
	if err := db.First(&stored, "id = ?", task.ID).Error; err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if stored.Title != "first writer" {
		t.Fatalf("lost update: got %q", stored.Title)
	}
}

func TestAdminCanMutateAnyTask(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)
	x := createTestUser(t, db, "x@example.com", false, false)
	admin := createTestUser(t, db, "admin@example.com", true, false)

	task := createTask(t, svc, x)

	completed, err := svc.Complete(admin, task.ID)
	if err != nil {
		t.Fatalf("admin complete failed: %v", err)
	}
	if completed.Status != models.StatusCompleted {
		t.Fatalf("expected completed, got %s", completed.Status)
	}
	if completed.UserID != x.ID {
		t.Fatalf("owner must not change, got %s", completed.UserID)
	}

	if err := svc.Delete(admin, task.ID); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}
}
