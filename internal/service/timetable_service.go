package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"campuslife-backend/internal/storages"
)

// TimetableService manages the per-user weekly class schedule.
type TimetableService struct {
	storage storages.Storage
	logger  *logrus.Logger
}

// NewTimetableService creates the timetable service.
func NewTimetableService(storage storages.Storage, logger *logrus.Logger) *TimetableService {
	return &TimetableService{storage: storage, logger: logger}
}

// Get returns the user's timetable, creating an empty one on first access.
func (s *TimetableService) Get(ctx context.Context, userID primitive.ObjectID) (*storages.Timetable, error) {
	t, err := s.storage.EnsureTimetable(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get timetable: %w", err)
	}
	return t, nil
}

// Replace swaps the whole schedule. Every item gets a fresh ID.
func (s *TimetableService) Replace(ctx context.Context, userID primitive.ObjectID, semester, academicYear string, schedule []storages.ScheduleItem) (*storages.Timetable, error) {
	for i := range schedule {
		if err := validateScheduleItem(&schedule[i]); err != nil {
			return nil, err
		}
		schedule[i].ID = primitive.NewObjectID()
	}

	t, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	t.Semester = semester
	t.AcademicYear = academicYear
	t.Schedule = schedule
	t.UpdatedAt = time.Now()

	if err := s.storage.SaveTimetable(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to save timetable: %w", err)
	}
	return t, nil
}

// AddItem appends one class slot to the schedule.
func (s *TimetableService) AddItem(ctx context.Context, userID primitive.ObjectID, item storages.ScheduleItem) (*storages.Timetable, error) {
	if err := validateScheduleItem(&item); err != nil {
		return nil, err
	}
	item.ID = primitive.NewObjectID()

	t, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	t.Schedule = append(t.Schedule, item)
	t.UpdatedAt = time.Now()

	if err := s.storage.SaveTimetable(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to save timetable: %w", err)
	}
	return t, nil
}

// UpdateItem replaces the fields of one schedule entry, keeping its ID.
func (s *TimetableService) UpdateItem(ctx context.Context, userID, itemID primitive.ObjectID, item storages.ScheduleItem) (*storages.Timetable, error) {
	if err := validateScheduleItem(&item); err != nil {
		return nil, err
	}

	t, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range t.Schedule {
		if t.Schedule[i].ID == itemID {
			item.ID = itemID
			t.Schedule[i] = item
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: schedule item", ErrNotFound)
	}
	t.UpdatedAt = time.Now()

	if err := s.storage.SaveTimetable(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to save timetable: %w", err)
	}
	return t, nil
}

// RemoveItem deletes one schedule entry.
func (s *TimetableService) RemoveItem(ctx context.Context, userID, itemID primitive.ObjectID) (*storages.Timetable, error) {
	t, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	kept := t.Schedule[:0]
	found := false
	for _, item := range t.Schedule {
		if item.ID == itemID {
			found = true
			continue
		}
		kept = append(kept, item)
	}
	if !found {
		return nil, fmt.Errorf("%w: schedule item", ErrNotFound)
	}

	t.Schedule = kept
	t.UpdatedAt = time.Now()

	if err := s.storage.SaveTimetable(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to save timetable: %w", err)
	}
	return t, nil
}

// Today returns the day's classes sorted by start time.
func (s *TimetableService) Today(ctx context.Context, userID primitive.ObjectID, now time.Time) ([]storages.ScheduleItem, error) {
	if now.IsZero() {
		now = time.Now()
	}

	t, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	day := now.UTC().Weekday().String()
	classes := []storages.ScheduleItem{}
	for _, item := range t.Schedule {
		if item.Day == day {
			classes = append(classes, item)
		}
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].Time < classes[j].Time })
	return classes, nil
}

// validateScheduleItem checks the fields every class slot must carry.
func validateScheduleItem(item *storages.ScheduleItem) error {
	if item.Day == "" || item.Time == "" || item.Course == "" {
		return validationErr("day, time and course are required")
	}
	if item.Type == "" {
		item.Type = "lecture"
	}
	return nil
}
