package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// DefaultLimit bounds the in-memory activity record.
const DefaultLimit = 200

// ActivityModule records recent task lifecycle events.
type ActivityModule struct {
	store *Store
}

// Compile-time interface checks.
var _ mono.Module = (*ActivityModule)(nil)
var _ mono.ServiceProviderModule = (*ActivityModule)(nil)

// NewModule creates a new ActivityModule.
func NewModule() *ActivityModule {
	return &ActivityModule{
		store: NewStore(DefaultLimit),
	}
}

// Name returns the module name.
func (m *ActivityModule) Name() string {
	return "activity"
}

// Start initializes the module.
func (m *ActivityModule) Start(_ context.Context) error {
	log.Printf("[activity] Module started (limit: %d entries)", DefaultLimit)
	return nil
}

// Stop shuts down the module.
func (m *ActivityModule) Stop(_ context.Context) error {
	log.Println("[activity] Module stopped")
	return nil
}

// Store returns the underlying activity store.
func (m *ActivityModule) Store() *Store {
	return m.store
}

// RegisterServices registers request-reply services in the service
// container.
func (m *ActivityModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "record", json.Unmarshal, json.Marshal, m.handleRecord,
	); err != nil {
		return fmt.Errorf("failed to register record service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "list", json.Unmarshal, json.Marshal, m.handleList,
	); err != nil {
		return fmt.Errorf("failed to register list service: %w", err)
	}

	log.Printf("[activity] Registered services: record, list")
	return nil
}

func (m *ActivityModule) handleRecord(_ context.Context, req RecordRequest, _ *mono.Msg) (RecordResponse, error) {
	m.store.Add(Entry{
		Action:     req.Action,
		TaskID:     req.TaskID,
		Detail:     req.Detail,
		RecordedAt: time.Now(),
	})
	return RecordResponse{Recorded: true}, nil
}

func (m *ActivityModule) handleList(_ context.Context, req ListRequest, _ *mono.Msg) (ListResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > DefaultLimit {
		limit = DefaultLimit
	}

	entries := m.store.Recent(limit)
	return ListResponse{
		Entries: entries,
		Total:   m.store.Len(),
	}, nil
}
