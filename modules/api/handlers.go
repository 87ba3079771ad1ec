package api

import (
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/example/taskboard/modules/activity"
	"github.com/example/taskboard/modules/auth"
	"github.com/example/taskboard/modules/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/gofiber/fiber/v2"
)

// Handlers contains the HTTP handlers for the API.
type Handlers struct {
	authPort          auth.AuthPort
	taskPort          task.TaskPort
	activityContainer mono.ServiceContainer
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(authPort auth.AuthPort, taskPort task.TaskPort, activityContainer mono.ServiceContainer) *Handlers {
	return &Handlers{
		authPort:          authPort,
		taskPort:          taskPort,
		activityContainer: activityContainer,
	}
}

// Login exchanges the shared credential pair for a bearer token.
func (h *Handlers) Login(c *fiber.Ctx) error {
	fields, violations := loginSchema.validate(c.Body())
	if len(violations) > 0 {
		return writeError(c, fiber.StatusBadRequest, "validation_error", strings.Join(violations, "; "))
	}

	grant, err := h.authPort.Login(c.UserContext(), fields["username"], fields["password"])
	if err != nil {
		if strings.Contains(err.Error(), "invalid username or password") {
			return writeError(c, fiber.StatusUnauthorized, "unauthorized", "Invalid username or password")
		}
		return h.internalError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(LoginResponse{
		Token:     grant.Token,
		ExpiresIn: grant.ExpiresIn,
	})
}

// CreateTask creates a new task.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	fields, violations := createTaskSchema.validate(c.Body())
	if len(violations) > 0 {
		return writeError(c, fiber.StatusBadRequest, "validation_error", strings.Join(violations, "; "))
	}

	created, err := h.taskPort.Create(c.UserContext(), stringField(fields, "title"), optionalField(fields, "description"))
	if err != nil {
		return h.mapTaskError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// ListTasks returns all tasks, newest-created-first.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	tasks, err := h.taskPort.List(c.UserContext())
	if err != nil {
		return h.mapTaskError(c, err)
	}
	if tasks == nil {
		tasks = []task.TaskResponse{}
	}
	return c.Status(fiber.StatusOK).JSON(tasks)
}

// GetTask returns a single task by id.
func (h *Handlers) GetTask(c *fiber.Ctx) error {
	found, err := h.taskPort.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.mapTaskError(c, err)
	}
	if found == nil {
		return writeError(c, fiber.StatusNotFound, "not_found", "Task not found")
	}
	return c.Status(fiber.StatusOK).JSON(found)
}

// UpdateStatus moves a task to a new status.
func (h *Handlers) UpdateStatus(c *fiber.Ctx) error {
	fields, violations := updateStatusSchema.validate(c.Body())
	if len(violations) > 0 {
		return writeError(c, fiber.StatusBadRequest, "validation_error", strings.Join(violations, "; "))
	}

	updated, err := h.taskPort.UpdateStatus(c.UserContext(), c.Params("id"), fields["status"])
	if err != nil {
		return h.mapTaskError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(updated)
}

// UpdateFields replaces a task's title and description (inline edit).
func (h *Handlers) UpdateFields(c *fiber.Ctx) error {
	fields, violations := updateFieldsSchema.validate(c.Body())
	if len(violations) > 0 {
		return writeError(c, fiber.StatusBadRequest, "validation_error", strings.Join(violations, "; "))
	}

	updated, err := h.taskPort.UpdateFields(c.UserContext(), c.Params("id"), stringField(fields, "title"), optionalField(fields, "description"))
	if err != nil {
		return h.mapTaskError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(updated)
}

// Activity returns the recent task lifecycle record.
func (h *Handlers) Activity(c *fiber.Ctx) error {
	req := activity.ListRequest{Limit: c.QueryInt("limit", 50)}
	var resp activity.ListResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.activityContainer,
		"list",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return h.internalError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// mapTaskError translates task service failures into the fixed status
// codes. Failures cross the service container as flat messages, so the
// mapping matches on the known sentinel texts.
func (h *Handlers) mapTaskError(c *fiber.Ctx, err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "title is required"):
		return writeError(c, fiber.StatusBadRequest, "validation_error", "Title is required and cannot be empty")
	case strings.Contains(errStr, "invalid status"):
		return writeError(c, fiber.StatusBadRequest, "validation_error", "Status must be one of PENDING, IN_PROGRESS, COMPLETED")
	case strings.Contains(errStr, "task not found"):
		return writeError(c, fiber.StatusNotFound, "not_found", "Task not found")
	default:
		return h.internalError(c, err)
	}
}

func (h *Handlers) internalError(c *fiber.Ctx, err error) error {
	log.Printf("[api] Internal error: %s %s: %v", c.Method(), c.Path(), err)
	return writeError(c, fiber.StatusInternalServerError, "internal_error", "An internal error occurred")
}

// writeError logs the failure with the request method and path and
// responds with the uniform error envelope.
func writeError(c *fiber.Ctx, status int, kind, message string) error {
	log.Printf("[api] %s %s -> %d %s: %s", c.Method(), c.Path(), status, kind, message)
	return c.Status(status).JSON(ErrorResponse{
		Error:      kind,
		Message:    message,
		StatusCode: status,
		Timestamp:  time.Now().UTC(),
	})
}
