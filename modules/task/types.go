package task

import (
	"time"

	domain "github.com/example/taskboard/domain/task"
)

// CreateTaskRequest is the request for creating a task.
type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}

// ListTasksRequest is the request for listing all tasks.
type ListTasksRequest struct{}

// ListTasksResponse is the response containing the full task list,
// ordered newest-created-first.
type ListTasksResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Total int            `json:"total"`
}

// GetTaskRequest is the request for fetching a single task.
type GetTaskRequest struct {
	ID string `json:"id"`
}

// GetTaskResponse is the response for a single-task lookup. Found is
// false when no task exists for the id; that is not an error.
type GetTaskResponse struct {
	Found bool          `json:"found"`
	Task  *TaskResponse `json:"task,omitempty"`
}

// UpdateTaskStatusRequest is the request for moving a task to a status.
type UpdateTaskStatusRequest struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// UpdateTaskFieldsRequest is the request for replacing title and
// description.
type UpdateTaskFieldsRequest struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}

// TaskResponse represents a task in responses.
type TaskResponse struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description *string       `json:"description,omitempty"`
	Status      domain.Status `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

func toTaskResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
