package activity

import (
	"context"
	"encoding/json"
	"log"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// RecorderAdapter records lifecycle events through the service
// container. Recording is best-effort: a failed record is logged, never
// propagated, so a broken activity log cannot fail a task mutation.
type RecorderAdapter struct {
	container mono.ServiceContainer
}

// NewRecorderAdapter creates a new RecorderAdapter.
func NewRecorderAdapter(container mono.ServiceContainer) *RecorderAdapter {
	return &RecorderAdapter{container: container}
}

// Record sends one lifecycle event to the activity module.
func (a *RecorderAdapter) Record(ctx context.Context, action, taskID, detail string) {
	req := RecordRequest{Action: action, TaskID: taskID, Detail: detail}
	var resp RecordResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"record",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		log.Printf("[activity] record failed: %v", err)
	}
}
