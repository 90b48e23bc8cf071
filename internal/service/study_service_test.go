package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStreakProgression(t *testing.T) {
	storage := newMockStorage()
	svc := NewStudyService(storage, newTestLogger())
	user := primitive.NewObjectID()
	day := func(n int) time.Time {
		return time.Date(2024, 3, n, 15, 30, 0, 0, time.UTC)
	}

	// First session ever starts the streak at 1.
	stats, err := svc.LogSession(context.Background(), user, 30, "Maths", day(1))
	if err != nil {
		t.Fatalf("LogSession failed: %v", err)
	}
	if stats.StudyStreak != 1 {
		t.Errorf("expected streak 1, got %d", stats.StudyStreak)
	}

	// Next calendar day extends it.
	stats, _ = svc.LogSession(context.Background(), user, 45, "Physics", day(2))
	if stats.StudyStreak != 2 {
		t.Errorf("expected streak 2, got %d", stats.StudyStreak)
	}

	// Same day leaves it unchanged.
	stats, _ = svc.LogSession(context.Background(), user, 20, "", day(2))
	if stats.StudyStreak != 2 {
		t.Errorf("expected streak to stay 2, got %d", stats.StudyStreak)
	}

	// A gap of more than one day resets it to 1.
	stats, _ = svc.LogSession(context.Background(), user, 60, "", day(5))
	if stats.StudyStreak != 1 {
		t.Errorf("expected streak reset to 1, got %d", stats.StudyStreak)
	}
	if stats.LongestStreak != 2 {
		t.Errorf("expected longest streak 2, got %d", stats.LongestStreak)
	}

	if stats.TotalMinutesStudied != 155 {
		t.Errorf("expected 155 total minutes, got %d", stats.TotalMinutesStudied)
	}
	if len(stats.StudySessions) != 4 {
		t.Errorf("expected 4 sessions, got %d", len(stats.StudySessions))
	}
}

func TestStreakAcrossUTCDayBoundary(t *testing.T) {
	storage := newMockStorage()
	svc := NewStudyService(storage, newTestLogger())
	user := primitive.NewObjectID()

	// 23:50 and 00:10 the next day are different UTC days, one apart.
	late := time.Date(2024, 3, 1, 23, 50, 0, 0, time.UTC)
	early := time.Date(2024, 3, 2, 0, 10, 0, 0, time.UTC)

	svc.LogSession(context.Background(), user, 30, "", late)
	stats, _ := svc.LogSession(context.Background(), user, 30, "", early)
	if stats.StudyStreak != 2 {
		t.Errorf("expected streak 2 across midnight, got %d", stats.StudyStreak)
	}
}

func TestLogSessionRejectsNonPositiveDuration(t *testing.T) {
	storage := newMockStorage()
	svc := NewStudyService(storage, newTestLogger())

	_, err := svc.LogSession(context.Background(), primitive.NewObjectID(), 0, "", time.Now())
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAnalyticsWeekBuckets(t *testing.T) {
	storage := newMockStorage()
	svc := NewStudyService(storage, newTestLogger())
	user := primitive.NewObjectID()
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	svc.LogSession(context.Background(), user, 30, "", now.AddDate(0, 0, -1))
	svc.LogSession(context.Background(), user, 45, "", now.AddDate(0, 0, -1))
	svc.LogSession(context.Background(), user, 60, "", now)
	// Outside the window, must not be counted.
	svc.LogSession(context.Background(), user, 90, "", now.AddDate(0, 0, -10))

	analytics, err := svc.GetAnalytics(context.Background(), user, "week", now)
	if err != nil {
		t.Fatalf("GetAnalytics failed: %v", err)
	}
	if analytics.TotalMinutes != 135 {
		t.Errorf("expected 135 minutes in window, got %d", analytics.TotalMinutes)
	}
	if analytics.SessionCount != 3 {
		t.Errorf("expected 3 sessions in window, got %d", analytics.SessionCount)
	}
	if len(analytics.Days) != 7 {
		t.Fatalf("expected 7 day buckets, got %d", len(analytics.Days))
	}
	if analytics.Days[6].Minutes != 60 {
		t.Errorf("expected 60 minutes today, got %d", analytics.Days[6].Minutes)
	}
	if analytics.Days[5].Minutes != 75 {
		t.Errorf("expected 75 minutes yesterday, got %d", analytics.Days[5].Minutes)
	}
}

func TestAnalyticsRejectsUnknownPeriod(t *testing.T) {
	storage := newMockStorage()
	svc := NewStudyService(storage, newTestLogger())

	_, err := svc.GetAnalytics(context.Background(), primitive.NewObjectID(), "decade", time.Now())
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateGoals(t *testing.T) {
	storage := newMockStorage()
	svc := NewStudyService(storage, newTestLogger())
	user := primitive.NewObjectID()

	weekly := 900
	stats, err := svc.UpdateGoals(context.Background(), user, GoalsUpdate{WeeklyGoal: &weekly})
	if err != nil {
		t.Fatalf("UpdateGoals failed: %v", err)
	}
	if stats.WeeklyGoal != 900 {
		t.Errorf("expected weekly goal 900, got %d", stats.WeeklyGoal)
	}
	// Daily goal keeps its default.
	if stats.DailyGoal != 60 {
		t.Errorf("expected daily goal 60, got %d", stats.DailyGoal)
	}

	bad := -5
	if _, err := svc.UpdateGoals(context.Background(), user, GoalsUpdate{DailyGoal: &bad}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
