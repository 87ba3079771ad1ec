package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "github.com/example/taskboard/domain/task"
	"gorm.io/gorm"
)

// Repository handles task persistence using GORM. It performs no
// validation: it persists exactly what it is given and trusts the
// service layer above it.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new task repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate runs database migrations for the tasks table.
func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(&domain.Task{})
}

// Create saves a new task.
func (r *Repository) Create(ctx context.Context, t *domain.Task) error {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// ListByCreationDesc retrieves all tasks ordered newest-created-first.
// Tasks sharing an identical creation timestamp may appear in either
// relative order.
func (r *Repository) ListByCreationDesc(ctx context.Context) ([]domain.Task, error) {
	var tasks []domain.Task
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// FindByID retrieves a task by id. A missing id is reported as
// (nil, nil), not as an error.
func (r *Repository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	var t domain.Task
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &t, nil
}

// UpdateStatus replaces the status and refreshes the update timestamp,
// then returns the refreshed task.
func (r *Repository) UpdateStatus(ctx context.Context, id string, status domain.Status, now time.Time) (*domain.Task, error) {
	result := r.db.WithContext(ctx).Model(&domain.Task{}).Where("id = ?", id).Updates(map[string]any{
		"status":     status,
		"updated_at": now,
	})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update task status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrTaskNotFound
	}
	return r.FindByID(ctx, id)
}

// UpdateFields replaces title and description and refreshes the update
// timestamp, then returns the refreshed task. Description is written
// as given, including nil for "absent".
func (r *Repository) UpdateFields(ctx context.Context, id, title string, description *string, now time.Time) (*domain.Task, error) {
	result := r.db.WithContext(ctx).Model(&domain.Task{}).Where("id = ?", id).Updates(map[string]any{
		"title":       title,
		"description": description,
		"updated_at":  now,
	})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update task fields: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrTaskNotFound
	}
	return r.FindByID(ctx, id)
}
