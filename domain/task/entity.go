package task

import (
	"encoding/json"
	"fmt"
	"time"
)

// Status is the lifecycle state of a task. It is a closed set: only the
// three declared values ever reach persistence or the wire.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

// Statuses lists all valid status values in board-column order.
func Statuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusCompleted}
}

// ParseStatus converts a raw string into a Status.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusInProgress, StatusCompleted:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// Valid reports whether the status is one of the declared values.
func (s Status) Valid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

// MarshalJSON encodes the status as its string tag.
func (s Status) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("cannot encode unknown status %q", string(s))
	}
	return json.Marshal(string(s))
}

// UnmarshalJSON decodes a status tag, failing on anything outside the
// declared set. A bad tag is a decode error, never a silently accepted
// string.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Task represents a tracked work item.
//
// Description is a pointer so that "never provided" is distinct from
// "provided empty": an absent description is omitted from the JSON wire
// shape rather than serialized as null or "".
type Task struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Title       string    `gorm:"size:100;not null" json:"title"`
	Description *string   `gorm:"size:500" json:"description,omitempty"`
	Status      Status    `gorm:"size:20;not null" json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TableName returns the table name for the Task model.
func (Task) TableName() string {
	return "tasks"
}
