package storages

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Storage-level sentinel errors. The service layer wraps these into its own
// taxonomy; drivers must return them for the conditions below.
var (
	// ErrNotFound is returned when a requested document does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when an insert violates a unique index.
	ErrDuplicate = errors.New("duplicate key")
	// ErrBalanceTooLow is returned when a conditional debit finds no wallet
	// with sufficient balance.
	ErrBalanceTooLow = errors.New("balance too low")
)

// Page is a pagination request.
type Page struct {
	Number int
	Limit  int
}

// Skip returns the number of documents to skip for this page.
func (p Page) Skip() int64 {
	if p.Number < 1 {
		return 0
	}
	return int64(p.Number-1) * int64(p.Limit)
}

// QuestionFilter narrows past-question listings.
type QuestionFilter struct {
	CourseCode string
	CourseName string
	Semester   string
	Level      string
	IsPaid     *bool
	Search     string
	SortBy     string
	SortDesc   bool
}

// TaskFilter narrows task listings.
type TaskFilter struct {
	Status   string
	Priority string
	Category string
	DueOn    *time.Time // matches tasks due within this calendar day (UTC)
	SortBy   string
	SortDesc bool
}

// TaskCount selects tasks for counting.
type TaskCount struct {
	Statuses       []string   // match any of these statuses; empty = all
	ExceptStatuses []string   // exclude these statuses
	DueFrom        *time.Time // inclusive lower bound on due date
	DueBefore      *time.Time // exclusive upper bound on due date
	CompletedFrom  *time.Time
	CompletedUntil *time.Time
}

// NewsFilter narrows news listings.
type NewsFilter struct {
	Category string
	Search   string
	SortBy   string
	SortDesc bool
}

// NotificationFilter narrows notification listings.
type NotificationFilter struct {
	IsRead   *bool
	Category string
}

// Storage is the document-store boundary the services operate against.
type Storage interface {
	// User operations
	CreateUser(ctx context.Context, user *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByStudentID(ctx context.Context, studentID string) (*User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*User, error)
	SaveUser(ctx context.Context, user *User) error

	// Wallet operations. Credit and Debit combine the balance mutation and
	// the ledger append into one atomic document update; Debit fails with
	// ErrBalanceTooLow instead of letting the balance go negative.
	GetWallet(ctx context.Context, owner primitive.ObjectID) (*Wallet, error)
	EnsureWallet(ctx context.Context, owner primitive.ObjectID) (*Wallet, error)
	CreditWallet(ctx context.Context, owner primitive.ObjectID, amount, earnings float64, tx *Transaction) (*Wallet, error)
	DebitWallet(ctx context.Context, owner primitive.ObjectID, amount, withdrawals float64, tx *Transaction) (*Wallet, error)
	SetBankDetails(ctx context.Context, owner primitive.ObjectID, details BankDetails) error

	// Past-question operations
	CreatePastQuestion(ctx context.Context, q *PastQuestion) error
	GetPastQuestion(ctx context.Context, id primitive.ObjectID) (*PastQuestion, error)
	ListPastQuestions(ctx context.Context, filter QuestionFilter, page Page) ([]PastQuestion, int64, error)
	ListUserUploads(ctx context.Context, user primitive.ObjectID) ([]PastQuestion, error)
	IncrementQuestionDownloads(ctx context.Context, id primitive.ObjectID) error
	SetQuestionRating(ctx context.Context, id primitive.ObjectID, rating float64, count int64) error

	// Download receipts
	CreateDownload(ctx context.Context, d *Download) error
	GetDownload(ctx context.Context, user, question primitive.ObjectID) (*Download, error)

	// Subscription operations
	GetSubscription(ctx context.Context, user primitive.ObjectID) (*Subscription, error)
	EnsureSubscription(ctx context.Context, user primitive.ObjectID) (*Subscription, error)
	SaveSubscription(ctx context.Context, sub *Subscription) error

	// Study stats operations
	GetStudyStats(ctx context.Context, user primitive.ObjectID) (*StudyStats, error)
	EnsureStudyStats(ctx context.Context, user primitive.ObjectID) (*StudyStats, error)
	SaveStudyStats(ctx context.Context, stats *StudyStats) error
	IncrementStudyCounters(ctx context.Context, user primitive.ObjectID, downloads, tasksCompleted int) error

	// Timetable operations
	GetTimetable(ctx context.Context, user primitive.ObjectID) (*Timetable, error)
	EnsureTimetable(ctx context.Context, user primitive.ObjectID) (*Timetable, error)
	SaveTimetable(ctx context.Context, t *Timetable) error

	// Task operations
	CreateTask(ctx context.Context, task *Task) error
	GetTask(ctx context.Context, id, user primitive.ObjectID) (*Task, error)
	SaveTask(ctx context.Context, task *Task) error
	ListTasks(ctx context.Context, user primitive.ObjectID, filter TaskFilter, page Page) ([]Task, int64, error)
	CountTasks(ctx context.Context, user primitive.ObjectID, sel TaskCount) (int64, error)
	ListTasksDueBetween(ctx context.Context, user primitive.ObjectID, from, to time.Time, limit int) ([]Task, error)
	ListOverdueTasks(ctx context.Context, user primitive.ObjectID, now time.Time) ([]Task, error)

	// News operations
	CreateNews(ctx context.Context, article *News) error
	GetNews(ctx context.Context, id primitive.ObjectID) (*News, error)
	IncrementNewsViews(ctx context.Context, id primitive.ObjectID) error
	ListNews(ctx context.Context, filter NewsFilter, page Page) ([]News, int64, error)
	ListRecentNews(ctx context.Context, limit int) ([]News, error)
	SaveNews(ctx context.Context, article *News) error
	DeleteNews(ctx context.Context, id primitive.ObjectID) error
	CountNewsByCategory(ctx context.Context) (map[string]int64, error)

	// Notification operations
	CreateNotification(ctx context.Context, n *Notification) error
	GetNotification(ctx context.Context, id, user primitive.ObjectID) (*Notification, error)
	SaveNotification(ctx context.Context, n *Notification) error
	ListNotifications(ctx context.Context, user primitive.ObjectID, filter NotificationFilter, page Page) ([]Notification, int64, error)
	CountUnreadNotifications(ctx context.Context, user primitive.ObjectID) (int64, error)
	MarkAllNotificationsRead(ctx context.Context, user primitive.ObjectID, readAt time.Time) error

	// Health check
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
