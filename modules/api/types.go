package api

import "time"

// LoginRequest represents a login request body.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse represents a successful login response.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
}

// CreateTaskRequest represents a task creation body.
type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}

// UpdateStatusRequest represents a status update body.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateFieldsRequest represents an inline-edit body.
type UpdateFieldsRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}

// ErrorResponse is the uniform error envelope returned by every
// endpoint.
type ErrorResponse struct {
	Error      string    `json:"error"`
	Message    string    `json:"message"`
	StatusCode int       `json:"statusCode"`
	Timestamp  time.Time `json:"timestamp"`
}
