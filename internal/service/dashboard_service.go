package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"campuslife-backend/internal/storages"
	"campuslife-backend/pkg"
)

// DashboardService aggregates the home-screen view from the other domains.
type DashboardService struct {
	storage   storages.Storage
	timetable *TimetableService
	logger    *logrus.Logger
}

// NewDashboardService creates the dashboard aggregator.
func NewDashboardService(storage storages.Storage, timetable *TimetableService, logger *logrus.Logger) *DashboardService {
	return &DashboardService{
		storage:   storage,
		timetable: timetable,
		logger:    logger,
	}
}

// TaskSummary is the task widget on the dashboard.
type TaskSummary struct {
	DueToday       int64 `json:"dueToday"`
	CompletedToday int64 `json:"completedToday"`
	Pending        int64 `json:"pending"`
}

// Dashboard is the aggregated home-screen payload.
type Dashboard struct {
	StudyStreak         int                     `json:"studyStreak"`
	LongestStreak       int                     `json:"longestStreak"`
	TotalMinutesStudied int                     `json:"totalMinutesStudied"`
	TotalTasksCompleted int                     `json:"totalTasksCompleted"`
	TotalDownloads      int                     `json:"totalDownloads"`
	Tasks               TaskSummary             `json:"tasks"`
	TodayClasses        []storages.ScheduleItem `json:"todayClasses"`
	UpcomingTasks       []storages.Task         `json:"upcomingTasks"`
	UnreadNotifications int64                   `json:"unreadNotifications"`
	RecentNews          []storages.News         `json:"recentNews"`
}

// Get fans out the dashboard reads concurrently and fails if any of them
// does.
func (s *DashboardService) Get(ctx context.Context, userID primitive.ObjectID, now time.Time) (*Dashboard, error) {
	if now.IsZero() {
		now = time.Now()
	}
	dayStart := pkg.DayStart(now)
	dayEnd := dayStart.AddDate(0, 0, 1)

	dashboard := &Dashboard{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		stats, err := s.storage.EnsureStudyStats(gctx, userID)
		if err != nil {
			return fmt.Errorf("study stats: %w", err)
		}
		dashboard.StudyStreak = stats.StudyStreak
		dashboard.LongestStreak = stats.LongestStreak
		dashboard.TotalMinutesStudied = stats.TotalMinutesStudied
		dashboard.TotalTasksCompleted = stats.TotalTasksCompleted
		dashboard.TotalDownloads = stats.TotalDownloads
		return nil
	})

	g.Go(func() error {
		dueToday, err := s.storage.CountTasks(gctx, userID, storages.TaskCount{
			ExceptStatuses: []string{storages.TaskStatusCancelled},
			DueFrom:        &dayStart,
			DueBefore:      &dayEnd,
		})
		if err != nil {
			return fmt.Errorf("tasks due today: %w", err)
		}
		completedToday, err := s.storage.CountTasks(gctx, userID, storages.TaskCount{
			Statuses:       []string{storages.TaskStatusCompleted},
			CompletedFrom:  &dayStart,
			CompletedUntil: &dayEnd,
		})
		if err != nil {
			return fmt.Errorf("tasks completed today: %w", err)
		}
		pending, err := s.storage.CountTasks(gctx, userID, storages.TaskCount{
			Statuses: []string{storages.TaskStatusPending, storages.TaskStatusInProgress},
		})
		if err != nil {
			return fmt.Errorf("pending tasks: %w", err)
		}
		dashboard.Tasks = TaskSummary{
			DueToday:       dueToday,
			CompletedToday: completedToday,
			Pending:        pending,
		}
		return nil
	})

	g.Go(func() error {
		classes, err := s.timetable.Today(gctx, userID, now)
		if err != nil {
			return fmt.Errorf("today's classes: %w", err)
		}
		dashboard.TodayClasses = classes
		return nil
	})

	g.Go(func() error {
		tasks, err := s.storage.ListTasksDueBetween(gctx, userID, now, now.AddDate(0, 0, 7), 5)
		if err != nil {
			return fmt.Errorf("upcoming tasks: %w", err)
		}
		dashboard.UpcomingTasks = tasks
		return nil
	})

	g.Go(func() error {
		unread, err := s.storage.CountUnreadNotifications(gctx, userID)
		if err != nil {
			return fmt.Errorf("unread notifications: %w", err)
		}
		dashboard.UnreadNotifications = unread
		return nil
	})

	g.Go(func() error {
		news, err := s.storage.ListRecentNews(gctx, 3)
		if err != nil {
			return fmt.Errorf("recent news: %w", err)
		}
		dashboard.RecentNews = news
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}
	return dashboard, nil
}
