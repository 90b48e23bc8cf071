package service

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"campuslife-backend/internal/storages"
)

func TestCreateTaskDefaults(t *testing.T) {
	storage := newMockStorage()
	svc := NewTaskService(storage, newTestLogger())
	user := primitive.NewObjectID()

	task, err := svc.Create(context.Background(), user, TaskInput{Title: "Read chapter 4"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if task.Status != storages.TaskStatusPending {
		t.Errorf("expected pending status, got %s", task.Status)
	}
	if task.Priority != "medium" || task.Category != "general" {
		t.Errorf("unexpected defaults: priority=%s category=%s", task.Priority, task.Category)
	}
}

func TestCompleteTaskOnce(t *testing.T) {
	storage := newMockStorage()
	svc := NewTaskService(storage, newTestLogger())
	user := primitive.NewObjectID()

	task, _ := svc.Create(context.Background(), user, TaskInput{Title: "Submit assignment"})

	completed := storages.TaskStatusCompleted
	updated, err := svc.Update(context.Background(), user, task.ID, TaskUpdate{Status: &completed})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.CompletedAt == nil {
		t.Fatal("expected CompletedAt to be stamped")
	}
	firstCompletedAt := *updated.CompletedAt

	// Flipping the status away and back must not count completion twice or
	// move the original completion time.
	pending := storages.TaskStatusPending
	svc.Update(context.Background(), user, task.ID, TaskUpdate{Status: &pending})
	updated, _ = svc.Update(context.Background(), user, task.ID, TaskUpdate{Status: &completed})
	if !updated.CompletedAt.Equal(firstCompletedAt) {
		t.Error("CompletedAt moved on repeat completion")
	}

	stats, _ := storage.GetStudyStats(context.Background(), user)
	if stats.TotalTasksCompleted != 1 {
		t.Errorf("expected completion counted once, got %d", stats.TotalTasksCompleted)
	}
}

func TestUpdateTaskInvalidStatus(t *testing.T) {
	storage := newMockStorage()
	svc := NewTaskService(storage, newTestLogger())
	user := primitive.NewObjectID()

	task, _ := svc.Create(context.Background(), user, TaskInput{Title: "Revise"})

	bad := "done"
	_, err := svc.Update(context.Background(), user, task.ID, TaskUpdate{Status: &bad})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDeleteTaskIsSoft(t *testing.T) {
	storage := newMockStorage()
	svc := NewTaskService(storage, newTestLogger())
	user := primitive.NewObjectID()

	task, _ := svc.Create(context.Background(), user, TaskInput{Title: "Old task"})

	if err := svc.Delete(context.Background(), user, task.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := svc.Get(context.Background(), user, task.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected deleted task to be hidden, got %v", err)
	}
}

func TestGetTaskOwnership(t *testing.T) {
	storage := newMockStorage()
	svc := NewTaskService(storage, newTestLogger())
	owner := primitive.NewObjectID()

	task, _ := svc.Create(context.Background(), owner, TaskInput{Title: "Private"})

	if _, err := svc.Get(context.Background(), primitive.NewObjectID(), task.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for another user, got %v", err)
	}
}
