package task

import (
	"context"
	"fmt"
	"strings"
	"time"

	domain "github.com/example/taskboard/domain/task"
	"github.com/google/uuid"
)

// ListCache is the optional read-through cache for the full task list.
// Cache failures are logged and ignored: the store stays authoritative.
type ListCache interface {
	GetList(ctx context.Context) ([]domain.Task, bool)
	SetList(ctx context.Context, tasks []domain.Task)
	Invalidate(ctx context.Context)
}

// Recorder receives task lifecycle notifications.
type Recorder interface {
	Record(ctx context.Context, action, taskID, detail string)
}

// Service holds the task business rules. Validation lives here, and
// only here, so the same rules apply regardless of caller; the
// repository below persists whatever it is given.
type Service struct {
	repo     *Repository
	cache    ListCache
	recorder Recorder
	now      func() time.Time
}

// NewService creates a new task service.
func NewService(repo *Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// SetCache wires the optional list cache.
func (s *Service) SetCache(c ListCache) {
	s.cache = c
}

// SetRecorder wires the optional lifecycle recorder.
func (s *Service) SetRecorder(r Recorder) {
	s.recorder = r
}

// Create validates and persists a new task. The title must be non-empty
// after trimming; both fields are trimmed; status always starts as
// PENDING.
func (s *Service) Create(ctx context.Context, title string, description *string) (*domain.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if description != nil {
		trimmed := strings.TrimSpace(*description)
		description = &trimmed
	}

	now := s.now()
	t := &domain.Task{
		ID:          uuid.New().String(),
		Title:       title,
		Description: description,
		Status:      domain.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to persist task: %w", err)
	}

	s.invalidate(ctx)
	s.record(ctx, "created", t.ID, t.Title)
	return t, nil
}

// List returns all tasks ordered newest-created-first. An empty store
// yields an empty slice, never an error.
func (s *Service) List(ctx context.Context) ([]domain.Task, error) {
	if s.cache != nil {
		if tasks, ok := s.cache.GetList(ctx); ok {
			return tasks, nil
		}
	}

	tasks, err := s.repo.ListByCreationDesc(ctx)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}

	if s.cache != nil {
		s.cache.SetList(ctx, tasks)
	}
	return tasks, nil
}

// UpdateStatus moves a task to the given status. The status value is
// checked before the existence lookup: an invalid status is rejected
// even for an id that does not exist.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) (*domain.Task, error) {
	parsed, err := domain.ParseStatus(status)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not one of PENDING, IN_PROGRESS, COMPLETED", ErrInvalidStatus, status)
	}

	t, err := s.repo.UpdateStatus(ctx, id, parsed, s.now())
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.record(ctx, "status-changed", t.ID, string(t.Status))
	return t, nil
}

// UpdateFields replaces a task's title and description. The same title
// rule as Create applies.
func (s *Service) UpdateFields(ctx context.Context, id, title string, description *string) (*domain.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if description != nil {
		trimmed := strings.TrimSpace(*description)
		description = &trimmed
	}

	t, err := s.repo.UpdateFields(ctx, id, title, description, s.now())
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.record(ctx, "fields-updated", t.ID, t.Title)
	return t, nil
}

// FindByID returns the task with the given id, or (nil, nil) when no
// such task exists.
func (s *Service) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

func (s *Service) record(ctx context.Context, action, taskID, detail string) {
	if s.recorder != nil {
		s.recorder.Record(ctx, action, taskID, detail)
	}
}
