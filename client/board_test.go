package client

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "github.com/example/taskboard/domain/task"
)

// fakeBoardAPI is an in-memory BoardAPI with call counters.
type fakeBoardAPI struct {
	tasks       []domain.Task
	listCalls   int
	updateCalls int
	failUpdates bool
}

func (f *fakeBoardAPI) ListTasks(_ context.Context) ([]domain.Task, error) {
	f.listCalls++
	return append([]domain.Task(nil), f.tasks...), nil
}

func (f *fakeBoardAPI) CreateTask(_ context.Context, title string, description *string) (*domain.Task, error) {
	t := domain.Task{
		ID:          "task-created",
		Title:       title,
		Description: description,
		Status:      domain.StatusPending,
	}
	f.tasks = append([]domain.Task{t}, f.tasks...)
	return &t, nil
}

func (f *fakeBoardAPI) UpdateTaskStatus(_ context.Context, id string, status domain.Status) (*domain.Task, error) {
	f.updateCalls++
	if f.failUpdates {
		return nil, errors.New("server unavailable")
	}
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks[i].Status = status
			t := f.tasks[i]
			return &t, nil
		}
	}
	return nil, errors.New("task not found")
}

func (f *fakeBoardAPI) UpdateTaskFields(_ context.Context, id, title string, description *string) (*domain.Task, error) {
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks[i].Title = title
			f.tasks[i].Description = description
			t := f.tasks[i]
			return &t, nil
		}
	}
	return nil, errors.New("task not found")
}

func boardFixture() *fakeBoardAPI {
	return &fakeBoardAPI{
		tasks: []domain.Task{
			{ID: "task-1", Title: "pending one", Status: domain.StatusPending},
			{ID: "task-2", Title: "pending two", Status: domain.StatusPending},
			{ID: "task-3", Title: "in flight", Status: domain.StatusInProgress},
		},
	}
}

func newTestBoard(t *testing.T, api BoardAPI, obs Observers) *Board {
	t.Helper()

	cache := NewSnapshotCache(NewMemoryStore())
	board := NewBoard(api, cache, obs)
	if err := board.Reload(context.Background()); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	return board
}

func columnIDs(board *Board, status domain.Status) []string {
	var ids []string
	for _, t := range board.Column(status) {
		ids = append(ids, t.ID)
	}
	return ids
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func TestBoard_Load(t *testing.T) {
	api := boardFixture()
	cache := NewSnapshotCache(NewMemoryStore())

	t.Run("cold cache fetches from the server", func(t *testing.T) {
		board := NewBoard(api, cache, Observers{})
		if err := board.Load(context.Background()); err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if api.listCalls != 1 {
			t.Errorf("listCalls = %d, want 1", api.listCalls)
		}
		if got := len(board.Column(domain.StatusPending)); got != 2 {
			t.Errorf("PENDING column size = %d, want 2", got)
		}
		if got := len(board.Column(domain.StatusInProgress)); got != 1 {
			t.Errorf("IN_PROGRESS column size = %d, want 1", got)
		}
		if got := len(board.Column(domain.StatusCompleted)); got != 0 {
			t.Errorf("COMPLETED column size = %d, want 0", got)
		}
	})

	t.Run("fresh cache skips the server", func(t *testing.T) {
		board := NewBoard(api, cache, Observers{})
		if err := board.Load(context.Background()); err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if api.listCalls != 1 {
			t.Errorf("listCalls = %d, want 1 (cache should have served)", api.listCalls)
		}
		if got := len(board.Column(domain.StatusPending)); got != 2 {
			t.Errorf("PENDING column size = %d, want 2", got)
		}
	})
}

func TestBoard_DragAndDrop(t *testing.T) {
	var moved []string
	api := boardFixture()
	board := newTestBoard(t, api, Observers{
		OnMoved: func(task domain.Task, from, to domain.Status) {
			moved = append(moved, task.ID+":"+string(from)+">"+string(to))
		},
	})
	ctx := context.Background()

	t.Run("drag detaches the card", func(t *testing.T) {
		if err := board.BeginDrag("task-1"); err != nil {
			t.Fatalf("BeginDrag() error = %v", err)
		}
		if contains(columnIDs(board, domain.StatusPending), "task-1") {
			t.Error("dragged card still present in source column")
		}
		if id, ok := board.Dragging(); !ok || id != "task-1" {
			t.Errorf("Dragging() = %v %v, want task-1 true", id, ok)
		}
	})

	t.Run("drop on another column sends exactly one request", func(t *testing.T) {
		if err := board.Drop(ctx, domain.StatusCompleted); err != nil {
			t.Fatalf("Drop() error = %v", err)
		}
		if api.updateCalls != 1 {
			t.Errorf("updateCalls = %d, want 1", api.updateCalls)
		}
		if !contains(columnIDs(board, domain.StatusCompleted), "task-1") {
			t.Error("card missing from target column after successful drop")
		}
		if contains(columnIDs(board, domain.StatusPending), "task-1") {
			t.Error("card still present in source column after successful drop")
		}
		if len(moved) != 1 || moved[0] != "task-1:PENDING>COMPLETED" {
			t.Errorf("moved notifications = %v", moved)
		}
	})

	t.Run("drop on the source column sends no request", func(t *testing.T) {
		if err := board.BeginDrag("task-2"); err != nil {
			t.Fatalf("BeginDrag() error = %v", err)
		}
		if err := board.Drop(ctx, domain.StatusPending); err != nil {
			t.Fatalf("Drop() error = %v", err)
		}
		if api.updateCalls != 1 {
			t.Errorf("updateCalls = %d, want still 1", api.updateCalls)
		}
		if !contains(columnIDs(board, domain.StatusPending), "task-2") {
			t.Error("card not restored to source column")
		}
	})

	t.Run("cancel restores the card", func(t *testing.T) {
		if err := board.BeginDrag("task-3"); err != nil {
			t.Fatalf("BeginDrag() error = %v", err)
		}
		board.CancelDrag()
		if !contains(columnIDs(board, domain.StatusInProgress), "task-3") {
			t.Error("card not restored after cancel")
		}
	})

	t.Run("second drag while one is in flight is rejected", func(t *testing.T) {
		if err := board.BeginDrag("task-2"); err != nil {
			t.Fatalf("BeginDrag() error = %v", err)
		}
		defer board.CancelDrag()
		if err := board.BeginDrag("task-3"); err == nil {
			t.Error("expected second BeginDrag to fail")
		}
	})
}

func TestBoard_FailedDropResyncs(t *testing.T) {
	var errorOps []string
	api := boardFixture()
	board := newTestBoard(t, api, Observers{
		OnError: func(op string, err error) {
			errorOps = append(errorOps, op)
		},
	})

	// Capture the scheduled reload instead of sleeping.
	var scheduled func()
	board.SetReloadScheduler(func(d time.Duration, fn func()) {
		scheduled = fn
	})

	ctx := context.Background()
	api.failUpdates = true

	if err := board.BeginDrag("task-1"); err != nil {
		t.Fatalf("BeginDrag() error = %v", err)
	}
	if err := board.Drop(ctx, domain.StatusCompleted); err == nil {
		t.Fatal("expected Drop() to fail")
	}

	// Until the resync runs, the card belongs to no column.
	for _, status := range domain.Statuses() {
		if contains(columnIDs(board, status), "task-1") {
			t.Errorf("card present in %s column after failed drop", status)
		}
	}
	if len(errorOps) != 1 || errorOps[0] != "move" {
		t.Errorf("error notifications = %v, want [move]", errorOps)
	}
	if scheduled == nil {
		t.Fatal("expected a reload to be scheduled")
	}

	// The delayed reload replaces all columns from the server, where the
	// move never happened.
	api.failUpdates = false
	listCallsBefore := api.listCalls
	scheduled()

	if api.listCalls != listCallsBefore+1 {
		t.Errorf("listCalls = %d, want %d", api.listCalls, listCallsBefore+1)
	}
	if !contains(columnIDs(board, domain.StatusPending), "task-1") {
		t.Error("card not restored to its server-side column after resync")
	}
}

func TestBoard_CreateTask(t *testing.T) {
	var updated []string
	api := boardFixture()
	board := newTestBoard(t, api, Observers{
		OnUpdated: func(task domain.Task) {
			updated = append(updated, task.ID)
		},
	})

	created, err := board.CreateTask(context.Background(), "brand new", nil)
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}

	ids := columnIDs(board, domain.StatusPending)
	if len(ids) == 0 || ids[0] != created.ID {
		t.Errorf("PENDING column = %v, want %s first", ids, created.ID)
	}
	if len(updated) != 1 || updated[0] != created.ID {
		t.Errorf("updated notifications = %v", updated)
	}
}

func TestBoard_InlineEdit(t *testing.T) {
	api := boardFixture()
	board := newTestBoard(t, api, Observers{})
	ctx := context.Background()

	t.Run("edit state is per card", func(t *testing.T) {
		if err := board.StartEdit("task-1"); err != nil {
			t.Fatalf("StartEdit() error = %v", err)
		}
		if !board.IsEditing("task-1") {
			t.Error("expected task-1 to be in edit state")
		}
		if board.IsEditing("task-2") {
			t.Error("expected task-2 to be read-only")
		}
	})

	t.Run("cancel leaves the card unchanged", func(t *testing.T) {
		board.CancelEdit("task-1")
		if board.IsEditing("task-1") {
			t.Error("expected edit state to be cleared")
		}
	})

	t.Run("submit refreshes the card in place", func(t *testing.T) {
		if err := board.StartEdit("task-1"); err != nil {
			t.Fatalf("StartEdit() error = %v", err)
		}
		edited, err := board.SubmitEdit(ctx, "task-1", "renamed", nil)
		if err != nil {
			t.Fatalf("SubmitEdit() error = %v", err)
		}
		if edited.Title != "renamed" {
			t.Errorf("Title = %v, want renamed", edited.Title)
		}
		if board.IsEditing("task-1") {
			t.Error("expected edit state to be cleared after submit")
		}

		for _, task := range board.Column(domain.StatusPending) {
			if task.ID == "task-1" && task.Title != "renamed" {
				t.Errorf("card title = %v, want renamed", task.Title)
			}
		}
	})

	t.Run("failed submit keeps the card in edit state", func(t *testing.T) {
		if err := board.StartEdit("task-2"); err != nil {
			t.Fatalf("StartEdit() error = %v", err)
		}
		// Make the edit fail: target a card the server does not know.
		if _, err := board.SubmitEdit(ctx, "task-ghost", "x", nil); err == nil {
			t.Fatal("expected SubmitEdit() to fail")
		}
		if !board.IsEditing("task-2") {
			t.Error("expected task-2 to remain in edit state")
		}
	})

	t.Run("editing an unknown card fails", func(t *testing.T) {
		if err := board.StartEdit("task-ghost"); err == nil {
			t.Error("expected StartEdit to fail for unknown card")
		}
	})
}

func TestBoard_DropWithoutDrag(t *testing.T) {
	board := newTestBoard(t, boardFixture(), Observers{})
	if err := board.Drop(context.Background(), domain.StatusCompleted); err == nil {
		t.Error("expected Drop() without a drag to fail")
	}
}
