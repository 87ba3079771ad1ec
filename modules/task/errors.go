package task

import "errors"

var (
	// ErrTitleRequired is returned when a title is empty after trimming.
	ErrTitleRequired = errors.New("title is required and cannot be empty")
	// ErrInvalidStatus is returned when a status is outside the declared set.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrTaskNotFound is returned when no task exists for the given id.
	ErrTaskNotFound = errors.New("task not found")
)
