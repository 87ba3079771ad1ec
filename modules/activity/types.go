package activity

// RecordRequest is the request for recording a lifecycle event.
type RecordRequest struct {
	Action string `json:"action"`
	TaskID string `json:"taskId"`
	Detail string `json:"detail,omitempty"`
}

// RecordResponse is the response after recording an event.
type RecordResponse struct {
	Recorded bool `json:"recorded"`
}

// ListRequest is the request for listing recent entries.
type ListRequest struct {
	Limit int `json:"limit"`
}

// ListResponse is the response containing recent entries, newest first.
type ListResponse struct {
	Entries []Entry `json:"entries"`
	Total   int     `json:"total"`
}
