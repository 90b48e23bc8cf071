package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"campuslife-backend/internal/storages"
	"campuslife-backend/pkg"
)

// StudyService tracks study sessions, the daily streak and the aggregate
// counters shown on the dashboard.
type StudyService struct {
	storage storages.Storage
	logger  *logrus.Logger
}

// NewStudyService creates the study service.
func NewStudyService(storage storages.Storage, logger *logrus.Logger) *StudyService {
	return &StudyService{storage: storage, logger: logger}
}

// GoalsUpdate carries new goal values in minutes. Nil means unchanged.
type GoalsUpdate struct {
	WeeklyGoal *int `json:"weeklyGoal"`
	DailyGoal  *int `json:"dailyGoal"`
}

// DayBucket is one day's total study minutes in an analytics window.
type DayBucket struct {
	Date    time.Time `json:"date"`
	Minutes int       `json:"minutes"`
}

// Analytics summarises study activity over a period.
type Analytics struct {
	Period        string      `json:"period"`
	TotalMinutes  int         `json:"totalMinutes"`
	SessionCount  int         `json:"sessionCount"`
	DailyAverage  float64     `json:"dailyAverage"`
	Days          []DayBucket `json:"days"`
	StudyStreak   int         `json:"studyStreak"`
	LongestStreak int         `json:"longestStreak"`
	WeeklyGoal    int         `json:"weeklyGoal"`
	DailyGoal     int         `json:"dailyGoal"`
}

// GetStats returns the user's study counters, creating the record with
// default goals on first access.
func (s *StudyService) GetStats(ctx context.Context, userID primitive.ObjectID) (*storages.StudyStats, error) {
	stats, err := s.storage.EnsureStudyStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get study stats: %w", err)
	}
	return stats, nil
}

// LogSession records a study sitting and advances the streak. Days are
// compared on UTC calendar boundaries: the first session ever starts the
// streak at 1, a session exactly one day after the last extends it, a
// longer gap resets it to 1, and further sessions on the same day leave it
// unchanged.
func (s *StudyService) LogSession(ctx context.Context, userID primitive.ObjectID, duration int, subject string, at time.Time) (*storages.StudyStats, error) {
	if duration <= 0 {
		return nil, validationErr("duration must be a positive number of minutes")
	}
	if at.IsZero() {
		at = time.Now()
	}

	stats, err := s.storage.EnsureStudyStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get study stats: %w", err)
	}

	today := pkg.DayStart(at)
	switch {
	case stats.LastStudyDate == nil:
		stats.StudyStreak = 1
	default:
		switch pkg.DaysBetween(*stats.LastStudyDate, today) {
		case 0:
			// Same day, streak unchanged.
		case 1:
			stats.StudyStreak++
		default:
			stats.StudyStreak = 1
		}
	}
	if stats.StudyStreak > stats.LongestStreak {
		stats.LongestStreak = stats.StudyStreak
	}

	stats.LastStudyDate = &today
	stats.TotalMinutesStudied += duration
	stats.StudySessions = append(stats.StudySessions, storages.StudySession{
		Date:     at,
		Duration: duration,
		Subject:  subject,
	})
	stats.UpdatedAt = time.Now()

	if err := s.storage.SaveStudyStats(ctx, stats); err != nil {
		return nil, fmt.Errorf("failed to save study stats: %w", err)
	}

	s.logger.Infof("Study session logged: User=%s, Duration=%d, Streak=%d", userID.Hex(), duration, stats.StudyStreak)
	return stats, nil
}

// UpdateGoals sets the weekly and daily study goals.
func (s *StudyService) UpdateGoals(ctx context.Context, userID primitive.ObjectID, update GoalsUpdate) (*storages.StudyStats, error) {
	stats, err := s.storage.EnsureStudyStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get study stats: %w", err)
	}

	if update.WeeklyGoal != nil {
		if *update.WeeklyGoal <= 0 {
			return nil, validationErr("weekly goal must be positive")
		}
		stats.WeeklyGoal = *update.WeeklyGoal
	}
	if update.DailyGoal != nil {
		if *update.DailyGoal <= 0 {
			return nil, validationErr("daily goal must be positive")
		}
		stats.DailyGoal = *update.DailyGoal
	}
	stats.UpdatedAt = time.Now()

	if err := s.storage.SaveStudyStats(ctx, stats); err != nil {
		return nil, fmt.Errorf("failed to save study stats: %w", err)
	}
	return stats, nil
}

// periodDays maps an analytics period to its window length.
func periodDays(period string) (int, error) {
	switch period {
	case "", "week":
		return 7, nil
	case "month":
		return 30, nil
	case "year":
		return 365, nil
	default:
		return 0, validationErr("period must be week, month or year")
	}
}

// GetAnalytics aggregates session minutes into per-day buckets over the
// requested window, ending today (UTC).
func (s *StudyService) GetAnalytics(ctx context.Context, userID primitive.ObjectID, period string, now time.Time) (*Analytics, error) {
	days, err := periodDays(period)
	if err != nil {
		return nil, err
	}
	if period == "" {
		period = "week"
	}
	if now.IsZero() {
		now = time.Now()
	}

	stats, err := s.storage.EnsureStudyStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get study stats: %w", err)
	}

	today := pkg.DayStart(now)
	from := today.AddDate(0, 0, -(days - 1))

	buckets := make([]DayBucket, days)
	for i := range buckets {
		buckets[i].Date = from.AddDate(0, 0, i)
	}

	total := 0
	count := 0
	for _, session := range stats.StudySessions {
		day := pkg.DayStart(session.Date)
		if day.Before(from) || day.After(today) {
			continue
		}
		idx := pkg.DaysBetween(from, day)
		buckets[idx].Minutes += session.Duration
		total += session.Duration
		count++
	}

	return &Analytics{
		Period:        period,
		TotalMinutes:  total,
		SessionCount:  count,
		DailyAverage:  float64(total) / float64(days),
		Days:          buckets,
		StudyStreak:   stats.StudyStreak,
		LongestStreak: stats.LongestStreak,
		WeeklyGoal:    stats.WeeklyGoal,
		DailyGoal:     stats.DailyGoal,
	}, nil
}
