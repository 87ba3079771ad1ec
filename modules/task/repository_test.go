package task

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "github.com/example/taskboard/domain/task"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&domain.Task{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func newTask(title string, createdAt time.Time) *domain.Task {
	return &domain.Task{
		ID:        uuid.New().String(),
		Title:     title,
		Status:    domain.StatusPending,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestRepository_Create(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	desc := "a description"
	created := newTask("Write report", time.Now())
	created.Description = &desc

	if err := repo.Create(ctx, created); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Verify the row landed
	var found domain.Task
	if err := db.First(&found, "id = ?", created.ID).Error; err != nil {
		t.Fatalf("failed to find created task: %v", err)
	}

	if found.Title != created.Title {
		t.Errorf("expected title %q, got %q", created.Title, found.Title)
	}
	if found.Description == nil || *found.Description != desc {
		t.Errorf("expected description %q, got %v", desc, found.Description)
	}
	if found.Status != domain.StatusPending {
		t.Errorf("expected status %v, got %v", domain.StatusPending, found.Status)
	}
}

func TestRepository_FindByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created := newTask("FindByID test", time.Now())
	if err := db.Create(created).Error; err != nil {
		t.Fatalf("failed to create test task: %v", err)
	}

	t.Run("existing task", func(t *testing.T) {
		found, err := repo.FindByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("FindByID() error = %v", err)
		}
		if found == nil {
			t.Fatal("FindByID() returned nil for existing task")
		}
		if found.ID != created.ID {
			t.Errorf("expected ID %q, got %q", created.ID, found.ID)
		}
	})

	t.Run("missing task is nil, not an error", func(t *testing.T) {
		found, err := repo.FindByID(ctx, "non-existent-id")
		if err != nil {
			t.Fatalf("FindByID() error = %v", err)
		}
		if found != nil {
			t.Errorf("expected nil for missing task, got %+v", found)
		}
	})
}

func TestRepository_ListByCreationDesc(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("empty database", func(t *testing.T) {
		tasks, err := repo.ListByCreationDesc(ctx)
		if err != nil {
			t.Fatalf("ListByCreationDesc() error = %v", err)
		}
		if len(tasks) != 0 {
			t.Errorf("expected 0 tasks, got %d", len(tasks))
		}
	})

	// Insert out of creation order to prove the query sorts.
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	middle := newTask("middle", base.Add(1*time.Minute))
	oldest := newTask("oldest", base)
	newest := newTask("newest", base.Add(2*time.Minute))
	for _, task := range []*domain.Task{middle, oldest, newest} {
		if err := db.Create(task).Error; err != nil {
			t.Fatalf("failed to create test task: %v", err)
		}
	}

	t.Run("newest created first", func(t *testing.T) {
		tasks, err := repo.ListByCreationDesc(ctx)
		if err != nil {
			t.Fatalf("ListByCreationDesc() error = %v", err)
		}
		if len(tasks) != 3 {
			t.Fatalf("expected 3 tasks, got %d", len(tasks))
		}

		want := []string{"newest", "middle", "oldest"}
		for i, title := range want {
			if tasks[i].Title != title {
				t.Errorf("position %d: expected %q, got %q", i, title, tasks[i].Title)
			}
		}
	})
}

func TestRepository_UpdateStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created := newTask("status test", time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	if err := db.Create(created).Error; err != nil {
		t.Fatalf("failed to create test task: %v", err)
	}

	t.Run("existing task", func(t *testing.T) {
		later := created.CreatedAt.Add(time.Hour)
		updated, err := repo.UpdateStatus(ctx, created.ID, domain.StatusInProgress, later)
		if err != nil {
			t.Fatalf("UpdateStatus() error = %v", err)
		}

		if updated.Status != domain.StatusInProgress {
			t.Errorf("expected status %v, got %v", domain.StatusInProgress, updated.Status)
		}
		if !updated.UpdatedAt.After(updated.CreatedAt) {
			t.Errorf("expected updatedAt after createdAt, got %v / %v", updated.UpdatedAt, updated.CreatedAt)
		}
		if !updated.CreatedAt.Equal(created.CreatedAt) {
			t.Errorf("createdAt changed: %v -> %v", created.CreatedAt, updated.CreatedAt)
		}
	})

	t.Run("missing task", func(t *testing.T) {
		_, err := repo.UpdateStatus(ctx, "non-existent-id", domain.StatusCompleted, time.Now())
		if !errors.Is(err, ErrTaskNotFound) {
			t.Errorf("expected ErrTaskNotFound, got %v", err)
		}
	})
}

func TestRepository_UpdateFields(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	desc := "original"
	created := newTask("fields test", time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	created.Description = &desc
	if err := db.Create(created).Error; err != nil {
		t.Fatalf("failed to create test task: %v", err)
	}

	t.Run("replace title and description", func(t *testing.T) {
		newDesc := "rewritten"
		updated, err := repo.UpdateFields(ctx, created.ID, "New title", &newDesc, time.Now())
		if err != nil {
			t.Fatalf("UpdateFields() error = %v", err)
		}

		if updated.Title != "New title" {
			t.Errorf("expected title %q, got %q", "New title", updated.Title)
		}
		if updated.Description == nil || *updated.Description != newDesc {
			t.Errorf("expected description %q, got %v", newDesc, updated.Description)
		}
	})

	t.Run("nil description clears the field", func(t *testing.T) {
		updated, err := repo.UpdateFields(ctx, created.ID, "New title", nil, time.Now())
		if err != nil {
			t.Fatalf("UpdateFields() error = %v", err)
		}
		if updated.Description != nil {
			t.Errorf("expected nil description, got %q", *updated.Description)
		}
	})

	t.Run("missing task", func(t *testing.T) {
		_, err := repo.UpdateFields(ctx, "non-existent-id", "whatever", nil, time.Now())
		if !errors.Is(err, ErrTaskNotFound) {
			t.Errorf("expected ErrTaskNotFound, got %v", err)
		}
	})
}
