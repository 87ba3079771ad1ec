package task

import (
	"context"
	"encoding/json"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// TaskPort defines the interface the HTTP surface uses to access task
// operations.
type TaskPort interface {
	Create(ctx context.Context, title string, description *string) (*TaskResponse, error)
	List(ctx context.Context) ([]TaskResponse, error)
	Get(ctx context.Context, id string) (*TaskResponse, error)
	UpdateStatus(ctx context.Context, id, status string) (*TaskResponse, error)
	UpdateFields(ctx context.Context, id, title string, description *string) (*TaskResponse, error)
}

// TaskAdapter implements TaskPort using the service container.
type TaskAdapter struct {
	container mono.ServiceContainer
}

// NewTaskAdapter creates a new TaskAdapter.
func NewTaskAdapter(container mono.ServiceContainer) *TaskAdapter {
	return &TaskAdapter{container: container}
}

// Create creates a new task.
func (a *TaskAdapter) Create(ctx context.Context, title string, description *string) (*TaskResponse, error) {
	req := CreateTaskRequest{Title: title, Description: description}
	var resp TaskResponse
	if err := call(a, ctx, "create", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// List returns all tasks, newest-created-first.
func (a *TaskAdapter) List(ctx context.Context) ([]TaskResponse, error) {
	req := ListTasksRequest{}
	var resp ListTasksResponse
	if err := call(a, ctx, "list", &req, &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

// Get returns the task with the given id, or (nil, nil) when missing.
func (a *TaskAdapter) Get(ctx context.Context, id string) (*TaskResponse, error) {
	req := GetTaskRequest{ID: id}
	var resp GetTaskResponse
	if err := call(a, ctx, "get", &req, &resp); err != nil {
		return nil, err
	}
	if !resp.Found {
		return nil, nil
	}
	return resp.Task, nil
}

// UpdateStatus moves a task to the given status.
func (a *TaskAdapter) UpdateStatus(ctx context.Context, id, status string) (*TaskResponse, error) {
	req := UpdateTaskStatusRequest{ID: id, Status: status}
	var resp TaskResponse
	if err := call(a, ctx, "update-status", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateFields replaces a task's title and description.
func (a *TaskAdapter) UpdateFields(ctx context.Context, id, title string, description *string) (*TaskResponse, error) {
	req := UpdateTaskFieldsRequest{ID: id, Title: title, Description: description}
	var resp TaskResponse
	if err := call(a, ctx, "update-fields", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func call[T1 any, T2 any](a *TaskAdapter, ctx context.Context, service string, req T1, resp *T2) error {
	return helper.CallRequestReplyService(
		ctx,
		a.container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		resp,
	)
}
