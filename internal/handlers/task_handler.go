package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/taskhive/taskhive-backend/internal/authz"
	"github.com/taskhive/taskhive-backend/internal/dto"
	"github.com/taskhive/taskhive-backend/internal/services"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// Create handles POST /task.
func (h *TaskHandler) Create(c *fiber.Ctx) error {
	principal, err := authz.PrincipalFromCtx(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	task, err := h.taskService.Create(principal, &req)
	if err != nil {
		return taskError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.NewTaskResponse(task))
}

// List handles GET /task. With ?sort=due_date the result is ordered by due
// date descending, the ordering the browser listing uses.
func (h *TaskHandler) List(c *fiber.Ctx) error {
	principal, err := authz.PrincipalFromCtx(c)
	if err != nil {
		return unauthorized(c)
	}

	orderByDueDate := c.Query("sort") == "due_date"
	tasks, err := h.taskService.List(principal, orderByDueDate)
	if err != nil {
		return taskError(c, err)
	}

	responses := make([]dto.TaskResponse, len(tasks))
	for i := range tasks {
		responses[i] = dto.NewTaskResponse(&tasks[i])
	}

	return c.JSON(dto.TaskListResponse{Tasks: responses, Total: len(responses)})
}

// Get handles GET /task/:id.
func (h *TaskHandler) Get(c *fiber.Ctx) error {
	principal, err := authz.PrincipalFromCtx(c)
	if err != nil {
		return unauthorized(c)
	}

	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return taskNotFound(c)
	}

	task, err := h.taskService.Get(principal, taskID)
	if err != nil {
		return taskError(c, err)
	}

	return c.JSON(dto.NewTaskResponse(task))
}

// Update handles PATCH /task/:id - partial update.
func (h *TaskHandler) Update(c *fiber.Ctx) error {
	principal, err := authz.PrincipalFromCtx(c)
	if err != nil {
		return unauthorized(c)
	}

	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return taskNotFound(c)
	}

	var req dto.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	task, err := h.taskService.Update(principal, taskID, &req)
	if err != nil {
		return taskError(c, err)
	}

	return c.JSON(dto.NewTaskResponse(task))
}

// Replace handles PUT /task/:id - full overwrite.
func (h *TaskHandler) Replace(c *fiber.Ctx) error {
	principal, err := authz.PrincipalFromCtx(c)
	if err != nil {
		return unauthorized(c)
	}

	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return taskNotFound(c)
	}

	var req dto.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	task, err := h.taskService.Replace(principal, taskID, &req)
	if err != nil {
		return taskError(c, err)
	}

	return c.JSON(dto.NewTaskResponse(task))
}

// Delete handles DELETE /task/:id.
func (h *TaskHandler) Delete(c *fiber.Ctx) error {
	principal, err := authz.PrincipalFromCtx(c)
	if err != nil {
		return unauthorized(c)
	}

	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return taskNotFound(c)
	}

	if err := h.taskService.Delete(principal, taskID); err != nil {
		return taskError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Complete handles PATCH /task/:id/completed - forces status to completed.
func (h *TaskHandler) Complete(c *fiber.Ctx) error {
	principal, err := authz.PrincipalFromCtx(c)
	if err != nil {
		return unauthorized(c)
	}

	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return taskNotFound(c)
	}

	task, err := h.taskService.Complete(principal, taskID)
	if err != nil {
		return taskError(c, err)
	}

	return c.JSON(dto.NewTaskResponse(task))
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized",
	})
}

func taskNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
		Error: true, Message: "Task not found",
	})
}

// taskError maps service errors to HTTP responses. Validation failures carry
// their field map; storage errors are never exposed raw.
func taskError(c *fiber.Ctx, err error) error {
	var ve *services.ValidationError
	if errors.As(err, &ve) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Validation failed", Fields: ve.Fields,
		})
	}

	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrTaskForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrTaskConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: "Internal server error",
	})
}
