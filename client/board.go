package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	domain "github.com/example/taskboard/domain/task"
)

// DefaultReloadDelay is how long the board waits after a failed move
// before resyncing from the server.
const DefaultReloadDelay = 2 * time.Second

// BoardAPI is the slice of the REST client the board needs. *Client
// implements it.
type BoardAPI interface {
	ListTasks(ctx context.Context) ([]domain.Task, error)
	CreateTask(ctx context.Context, title string, description *string) (*domain.Task, error)
	UpdateTaskStatus(ctx context.Context, id string, status domain.Status) (*domain.Task, error)
	UpdateTaskFields(ctx context.Context, id, title string, description *string) (*domain.Task, error)
}

// Observers are the notification callbacks a board caller registers at
// construction time, so the flow of "task moved" / "task updated"
// notifications is statically traceable.
type Observers struct {
	OnMoved   func(t domain.Task, from, to domain.Status)
	OnUpdated func(t domain.Task)
	OnError   func(op string, err error)
}

type dragState struct {
	task   domain.Task
	source domain.Status
}

// Board holds the client-side view of the task list: one column per
// status, each task in exactly one column, mirroring the server-side
// single-status invariant. Local state is always a cache of the
// server's list, never the system of record: every mutation is a
// request-response round trip, and a reload replaces all columns
// wholesale.
type Board struct {
	mu          sync.Mutex
	api         BoardAPI
	cache       *SnapshotCache
	columns     map[domain.Status][]domain.Task
	editing     map[string]bool
	drag        *dragState
	obs         Observers
	after       func(time.Duration, func())
	reloadDelay time.Duration
}

// NewBoard creates a board backed by api, painting initial state from
// cache when it holds a fresh snapshot.
func NewBoard(api BoardAPI, cache *SnapshotCache, obs Observers) *Board {
	b := &Board{
		api:         api,
		cache:       cache,
		columns:     emptyColumns(),
		editing:     make(map[string]bool),
		obs:         obs,
		reloadDelay: DefaultReloadDelay,
	}
	b.after = func(d time.Duration, fn func()) {
		time.AfterFunc(d, fn)
	}
	return b
}

// SetReloadScheduler replaces the delayed-reload scheduler.
func (b *Board) SetReloadScheduler(after func(time.Duration, func())) {
	b.after = after
}

// Load paints the board, preferring a fresh cached snapshot over a
// network round trip.
func (b *Board) Load(ctx context.Context) error {
	if tasks, ok := b.cache.Get(); ok {
		b.mu.Lock()
		b.replaceColumns(tasks)
		b.mu.Unlock()
		return nil
	}
	return b.Reload(ctx)
}

// Reload fetches the authoritative list from the server and replaces
// all column contents wholesale; local state is never merged.
func (b *Board) Reload(ctx context.Context) error {
	tasks, err := b.api.ListTasks(ctx)
	if err != nil {
		b.notifyError("reload", err)
		return err
	}

	if err := b.cache.Set(tasks); err != nil {
		b.notifyError("reload", err)
	}

	b.mu.Lock()
	b.replaceColumns(tasks)
	b.drag = nil
	b.mu.Unlock()
	return nil
}

// Column returns a copy of the tasks currently in the given column.
func (b *Board) Column(status domain.Status) []domain.Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.Task(nil), b.columns[status]...)
}

// CreateTask creates a task and places its card in the PENDING column.
// On failure the caller's input is left in place so the user may retry.
func (b *Board) CreateTask(ctx context.Context, title string, description *string) (*domain.Task, error) {
	created, err := b.api.CreateTask(ctx, title, description)
	if err != nil {
		b.notifyError("create", err)
		return nil, err
	}

	b.mu.Lock()
	b.addToColumn(*created, created.Status, true)
	b.mu.Unlock()

	b.cache.Clear()
	if b.obs.OnUpdated != nil {
		b.obs.OnUpdated(*created)
	}
	return created, nil
}

// BeginDrag detaches the card with the given id from its column and
// records its source status.
func (b *Board) BeginDrag(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.drag != nil {
		return fmt.Errorf("a drag is already in progress")
	}

	for status, tasks := range b.columns {
		for i, t := range tasks {
			if t.ID == id {
				b.columns[status] = append(tasks[:i:i], tasks[i+1:]...)
				b.drag = &dragState{task: t, source: status}
				return nil
			}
		}
	}
	return fmt.Errorf("no card with id %q on the board", id)
}

// CancelDrag puts the dragged card back into its source column.
func (b *Board) CancelDrag() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.drag == nil {
		return
	}
	b.addToColumn(b.drag.task, b.drag.source, false)
	b.drag = nil
}

// Drop releases the dragged card onto the column for target.
//
// Dropping on the source column is a no-op: the card is put back and no
// request is issued. Otherwise exactly one status-update request is
// sent; the card joins the target column only after a successful
// response. On failure the card stays out of every column and a full
// reload from the server is scheduled after a short delay: recovery is
// "resync from the source of truth", not a manual rollback.
func (b *Board) Drop(ctx context.Context, target domain.Status) error {
	b.mu.Lock()
	if b.drag == nil {
		b.mu.Unlock()
		return fmt.Errorf("no drag in progress")
	}

	drag := *b.drag
	b.drag = nil

	if !target.Valid() {
		b.addToColumn(drag.task, drag.source, false)
		b.mu.Unlock()
		return fmt.Errorf("unknown drop column %q", string(target))
	}

	if target == drag.source {
		b.addToColumn(drag.task, drag.source, false)
		b.mu.Unlock()
		return nil
	}
	b.mu.Unlock()

	updated, err := b.api.UpdateTaskStatus(ctx, drag.task.ID, target)
	if err != nil {
		b.notifyError("move", err)
		b.after(b.reloadDelay, func() {
			_ = b.Reload(context.Background())
		})
		return err
	}

	b.mu.Lock()
	b.addToColumn(*updated, target, false)
	b.mu.Unlock()

	b.cache.Clear()
	if b.obs.OnMoved != nil {
		b.obs.OnMoved(*updated, drag.source, target)
	}
	return nil
}

// Dragging reports the id of the card currently in hand, if any.
func (b *Board) Dragging() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.drag == nil {
		return "", false
	}
	return b.drag.task.ID, true
}

// StartEdit switches a card into inline-edit state. Editing is
// independent of status.
func (b *Board) StartEdit(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, _, ok := b.find(id); !ok {
		return fmt.Errorf("no card with id %q on the board", id)
	}
	b.editing[id] = true
	return nil
}

// IsEditing reports whether a card is in inline-edit state.
func (b *Board) IsEditing(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.editing[id]
}

// CancelEdit returns a card to read-only state without a request.
func (b *Board) CancelEdit(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.editing, id)
}

// SubmitEdit sends the edited fields to the server. On success the card
// is refreshed in place and leaves edit state; on failure it stays in
// edit state so the user's input remains available for a retry.
func (b *Board) SubmitEdit(ctx context.Context, id, title string, description *string) (*domain.Task, error) {
	updated, err := b.api.UpdateTaskFields(ctx, id, title, description)
	if err != nil {
		b.notifyError("edit", err)
		return nil, err
	}

	b.mu.Lock()
	if _, _, ok := b.find(id); ok {
		b.removeFromColumns(id)
		b.addToColumn(*updated, updated.Status, false)
	}
	delete(b.editing, id)
	b.mu.Unlock()

	b.cache.Clear()
	if b.obs.OnUpdated != nil {
		b.obs.OnUpdated(*updated)
	}
	return updated, nil
}

// replaceColumns rebuilds every column from the given list. Callers
// hold the lock.
func (b *Board) replaceColumns(tasks []domain.Task) {
	b.columns = emptyColumns()
	for _, t := range tasks {
		b.addToColumn(t, t.Status, false)
	}
}

// addToColumn appends (or prepends) a task to the column for status.
// Adding a task whose own status does not match the column is a no-op.
// Callers hold the lock.
func (b *Board) addToColumn(t domain.Task, status domain.Status, prepend bool) {
	if t.Status != status || !status.Valid() {
		return
	}
	if prepend {
		b.columns[status] = append([]domain.Task{t}, b.columns[status]...)
		return
	}
	b.columns[status] = append(b.columns[status], t)
}

func (b *Board) removeFromColumns(id string) {
	for status, tasks := range b.columns {
		for i, t := range tasks {
			if t.ID == id {
				b.columns[status] = append(tasks[:i:i], tasks[i+1:]...)
				return
			}
		}
	}
}

func (b *Board) find(id string) (domain.Task, domain.Status, bool) {
	for status, tasks := range b.columns {
		for _, t := range tasks {
			if t.ID == id {
				return t, status, true
			}
		}
	}
	return domain.Task{}, "", false
}

func (b *Board) notifyError(op string, err error) {
	if b.obs.OnError != nil {
		b.obs.OnError(op, err)
	}
}

func emptyColumns() map[domain.Status][]domain.Task {
	columns := make(map[domain.Status][]domain.Task, 3)
	for _, s := range domain.Statuses() {
		columns[s] = nil
	}
	return columns
}
