package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"campuslife-backend/internal/storages"
)

// TaskService manages the per-user to-do list. Completing a task feeds the
// study counters; deletes are soft.
type TaskService struct {
	storage storages.Storage
	logger  *logrus.Logger
}

// NewTaskService creates the task service.
func NewTaskService(storage storages.Storage, logger *logrus.Logger) *TaskService {
	return &TaskService{storage: storage, logger: logger}
}

// TaskInput is the create payload.
type TaskInput struct {
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	DueDate     *time.Time             `json:"dueDate"`
	DueTime     string                 `json:"dueTime"`
	Priority    string                 `json:"priority"`
	Category    string                 `json:"category"`
	Course      string                 `json:"course"`
	Tags        []string               `json:"tags"`
	Reminder    *storages.TaskReminder `json:"reminder"`
}

// TaskUpdate carries editable fields. Nil means unchanged.
type TaskUpdate struct {
	Title       *string                `json:"title"`
	Description *string                `json:"description"`
	DueDate     *time.Time             `json:"dueDate"`
	DueTime     *string                `json:"dueTime"`
	Priority    *string                `json:"priority"`
	Status      *string                `json:"status"`
	Category    *string                `json:"category"`
	Course      *string                `json:"course"`
	Tags        []string               `json:"tags"`
	Reminder    *storages.TaskReminder `json:"reminder"`
}

var taskStatuses = map[string]bool{
	storages.TaskStatusPending:    true,
	storages.TaskStatusInProgress: true,
	storages.TaskStatusCompleted:  true,
	storages.TaskStatusCancelled:  true,
}

// Create adds a task, defaulting priority to medium and category to
// general.
func (s *TaskService) Create(ctx context.Context, userID primitive.ObjectID, input TaskInput) (*storages.Task, error) {
	if input.Title == "" {
		return nil, validationErr("title is required")
	}

	priority := input.Priority
	if priority == "" {
		priority = "medium"
	}
	category := input.Category
	if category == "" {
		category = "general"
	}

	now := time.Now()
	task := &storages.Task{
		User:        userID,
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		DueTime:     input.DueTime,
		Priority:    priority,
		Status:      storages.TaskStatusPending,
		Category:    category,
		Course:      input.Course,
		Tags:        input.Tags,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if input.Reminder != nil {
		task.Reminder = *input.Reminder
	}

	if err := s.storage.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.Infof("Task created: ID=%s, User=%s", task.ID.Hex(), userID.Hex())
	return task, nil
}

// Get returns one of the user's tasks.
func (s *TaskService) Get(ctx context.Context, userID, taskID primitive.ObjectID) (*storages.Task, error) {
	task, err := s.storage.GetTask(ctx, taskID, userID)
	if err != nil {
		if errors.Is(err, storages.ErrNotFound) {
			return nil, fmt.Errorf("%w: task", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

// List returns a filtered page of the user's tasks.
func (s *TaskService) List(ctx context.Context, userID primitive.ObjectID, filter storages.TaskFilter, page storages.Page) ([]storages.Task, Pagination, error) {
	tasks, total, err := s.storage.ListTasks(ctx, userID, filter, page)
	if err != nil {
		return nil, Pagination{}, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, paginate(page, total), nil
}

// Update applies the provided fields. The first transition into completed
// stamps CompletedAt and bumps the study counter; later status changes do
// not count completion twice.
func (s *TaskService) Update(ctx context.Context, userID, taskID primitive.ObjectID, update TaskUpdate) (*storages.Task, error) {
	task, err := s.Get(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		if *update.Title == "" {
			return nil, validationErr("title cannot be empty")
		}
		task.Title = *update.Title
	}
	if update.Description != nil {
		task.Description = *update.Description
	}
	if update.DueDate != nil {
		task.DueDate = update.DueDate
	}
	if update.DueTime != nil {
		task.DueTime = *update.DueTime
	}
	if update.Priority != nil {
		task.Priority = *update.Priority
	}
	if update.Category != nil {
		task.Category = *update.Category
	}
	if update.Course != nil {
		task.Course = *update.Course
	}
	if update.Tags != nil {
		task.Tags = update.Tags
	}
	if update.Reminder != nil {
		task.Reminder = *update.Reminder
	}

	firstCompletion := false
	if update.Status != nil {
		if !taskStatuses[*update.Status] {
			return nil, validationErr("invalid status: %s", *update.Status)
		}
		if *update.Status == storages.TaskStatusCompleted && task.CompletedAt == nil {
			now := time.Now()
			task.CompletedAt = &now
			firstCompletion = true
		}
		task.Status = *update.Status
	}
	task.UpdatedAt = time.Now()

	if err := s.storage.SaveTask(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}

	if firstCompletion {
		if err := s.storage.IncrementStudyCounters(ctx, userID, 0, 1); err != nil {
			s.logger.Warnf("Failed to increment completed-task counter for %s: %v", userID.Hex(), err)
		}
	}

	return task, nil
}

// Delete soft-deletes the task.
func (s *TaskService) Delete(ctx context.Context, userID, taskID primitive.ObjectID) error {
	task, err := s.Get(ctx, userID, taskID)
	if err != nil {
		return err
	}

	task.IsActive = false
	task.UpdatedAt = time.Now()
	if err := s.storage.SaveTask(ctx, task); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// Upcoming returns uncompleted tasks due within the next days, soonest
// first.
func (s *TaskService) Upcoming(ctx context.Context, userID primitive.ObjectID, days int) ([]storages.Task, error) {
	if days <= 0 {
		days = 7
	}
	now := time.Now()
	tasks, err := s.storage.ListTasksDueBetween(ctx, userID, now, now.AddDate(0, 0, days), 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming tasks: %w", err)
	}
	return tasks, nil
}

// Overdue returns active tasks whose due date has passed without
// completion.
func (s *TaskService) Overdue(ctx context.Context, userID primitive.ObjectID) ([]storages.Task, error) {
	tasks, err := s.storage.ListOverdueTasks(ctx, userID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue tasks: %w", err)
	}
	return tasks, nil
}
