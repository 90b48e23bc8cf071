package storages

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlatformWalletOwner is the reserved owner key of the platform revenue
// wallet. It is the zero ObjectID, which can never collide with a real user.
var PlatformWalletOwner = primitive.NilObjectID

// User represents a registered student account.
type User struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName        string             `bson:"full_name" json:"fullName"`
	Email           string             `bson:"email" json:"email"`
	StudentID       string             `bson:"student_id" json:"studentId"`
	PasswordHash    string             `bson:"password_hash" json:"-"`
	AvatarURL       string             `bson:"avatar_url,omitempty" json:"avatarUrl,omitempty"`
	University      string             `bson:"university,omitempty" json:"university,omitempty"`
	Department      string             `bson:"department,omitempty" json:"department,omitempty"`
	Level           string             `bson:"level,omitempty" json:"level,omitempty"`
	IsEmailVerified bool               `bson:"is_email_verified" json:"isEmailVerified"`
	IsActive        bool               `bson:"is_active" json:"isActive"`
	LastLogin       *time.Time         `bson:"last_login,omitempty" json:"lastLogin,omitempty"`
	CreatedAt       time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updatedAt"`
}

// Transaction is one immutable balance-affecting event, embedded in a Wallet.
// Only Status is ever mutated after creation (withdrawal processing).
type Transaction struct {
	Type        string    `bson:"type" json:"type"`
	Amount      float64   `bson:"amount" json:"amount"`
	Source      string    `bson:"source" json:"source"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Reference   string    `bson:"reference" json:"reference"`
	Status      string    `bson:"status" json:"status"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
}

// Transaction types
const (
	TransactionTypeCredit     = "credit"
	TransactionTypeDebit      = "debit"
	TransactionTypeWithdrawal = "withdrawal"
	TransactionTypeEarning    = "earning"
	TransactionTypeRefund     = "refund"
)

// Transaction statuses
const (
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusFailed    = "failed"
	TransactionStatusCancelled = "cancelled"
)

// BankDetails is the withdrawal destination stored on a wallet.
// The first withdrawal that supplies details wins; later ones do not
// overwrite.
type BankDetails struct {
	BankName      string `bson:"bank_name,omitempty" json:"bankName,omitempty"`
	AccountNumber string `bson:"account_number,omitempty" json:"accountNumber,omitempty"`
	AccountName   string `bson:"account_name,omitempty" json:"accountName,omitempty"`
}

// Wallet is the per-user monetary account. Transactions are embedded in
// insertion order, which is the audit trail; they are never deleted or
// reordered. Invariant: Balance >= 0.
type Wallet struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User             primitive.ObjectID `bson:"user" json:"user"`
	Balance          float64            `bson:"balance" json:"balance"`
	Currency         string             `bson:"currency" json:"currency"`
	TotalEarnings    float64            `bson:"total_earnings" json:"totalEarnings"`
	TotalWithdrawals float64            `bson:"total_withdrawals" json:"totalWithdrawals"`
	Transactions     []Transaction      `bson:"transactions" json:"transactions"`
	BankDetails      BankDetails        `bson:"bank_details,omitempty" json:"bankDetails,omitempty"`
	IsActive         bool               `bson:"is_active" json:"isActive"`
	CreatedAt        time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updated_at" json:"updatedAt"`
}

// DefaultCurrency is the single currency the wallet operates in.
const DefaultCurrency = "NGN"

// PastQuestion is an uploaded past-question paper offered on the marketplace.
type PastQuestion struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	CourseName  string             `bson:"course_name" json:"courseName"`
	CourseCode  string             `bson:"course_code" json:"courseCode"`
	Semester    string             `bson:"semester" json:"semester"`
	Level       string             `bson:"level" json:"level"`
	Year        string             `bson:"year,omitempty" json:"year,omitempty"`
	Tags        []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	FileURL     string             `bson:"file_url" json:"fileUrl"`
	FileType    string             `bson:"file_type" json:"fileType"`
	FileSize    int64              `bson:"file_size" json:"fileSize"`
	IsPaid      bool               `bson:"is_paid" json:"isPaid"`
	Price       float64            `bson:"price" json:"price"`
	Downloads   int64              `bson:"downloads" json:"downloads"`
	Rating      float64            `bson:"rating" json:"rating"`
	RatingCount int64              `bson:"rating_count" json:"ratingCount"`
	UploadedBy  primitive.ObjectID `bson:"uploaded_by" json:"uploadedBy"`
	IsApproved  bool               `bson:"is_approved" json:"isApproved"`
	IsActive    bool               `bson:"is_active" json:"isActive"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}

// Download is the purchase/download receipt. Exactly one exists per
// (user, past question) pair, enforced by a unique index.
type Download struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User             primitive.ObjectID `bson:"user" json:"user"`
	PastQuestion     primitive.ObjectID `bson:"past_question" json:"pastQuestion"`
	IsPurchased      bool               `bson:"is_purchased" json:"isPurchased"`
	AmountPaid       float64            `bson:"amount_paid" json:"amountPaid"`
	PaymentReference string             `bson:"payment_reference,omitempty" json:"paymentReference,omitempty"`
	DownloadedAt     time.Time          `bson:"downloaded_at" json:"downloadedAt"`
}

// PlanFeatures are the four feature flags a subscription tier unlocks.
// They are derived from the plan once at subscription time and stored, not
// recomputed later.
type PlanFeatures struct {
	UnlimitedDownloads bool `bson:"unlimited_downloads" json:"unlimitedDownloads"`
	PrioritySupport    bool `bson:"priority_support" json:"prioritySupport"`
	NoAds              bool `bson:"no_ads" json:"noAds"`
	ExclusiveContent   bool `bson:"exclusive_content" json:"exclusiveContent"`
}

// SubscriptionPeriod is one past plan period, pushed into the history log
// immediately before each plan change.
type SubscriptionPeriod struct {
	Plan             string     `bson:"plan" json:"plan"`
	StartsAt         time.Time  `bson:"starts_at" json:"startsAt"`
	ExpiresAt        *time.Time `bson:"expires_at,omitempty" json:"expiresAt,omitempty"`
	PaymentReference string     `bson:"payment_reference,omitempty" json:"paymentReference,omitempty"`
}

// Subscription is the per-user plan state.
type Subscription struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	User             primitive.ObjectID   `bson:"user" json:"user"`
	Plan             string               `bson:"plan" json:"plan"`
	IsActive         bool                 `bson:"is_active" json:"isActive"`
	StartsAt         time.Time            `bson:"starts_at" json:"startsAt"`
	ExpiresAt        *time.Time           `bson:"expires_at,omitempty" json:"expiresAt,omitempty"`
	AutoRenew        bool                 `bson:"auto_renew" json:"autoRenew"`
	PaymentReference string               `bson:"payment_reference,omitempty" json:"paymentReference,omitempty"`
	Features         PlanFeatures         `bson:"features" json:"features"`
	History          []SubscriptionPeriod `bson:"history,omitempty" json:"history,omitempty"`
	CreatedAt        time.Time            `bson:"created_at" json:"createdAt"`
	UpdatedAt        time.Time            `bson:"updated_at" json:"updatedAt"`
}

// Subscription plans
const (
	PlanFree       = "free"
	PlanBasic      = "basic"
	PlanPremium    = "premium"
	PlanEnterprise = "enterprise"
)

// IsValid reports whether the subscription currently grants its plan.
// The free plan is always valid; paid plans require an active state and an
// expiry in the future.
func (s *Subscription) IsValid(now time.Time) bool {
	if s.Plan == PlanFree {
		return true
	}
	if !s.IsActive || s.ExpiresAt == nil {
		return false
	}
	return now.Before(*s.ExpiresAt)
}

// StudySession is one logged study sitting, embedded in StudyStats.
type StudySession struct {
	Date     time.Time `bson:"date" json:"date"`
	Duration int       `bson:"duration" json:"duration"`
	Subject  string    `bson:"subject,omitempty" json:"subject,omitempty"`
}

// StudyStats holds the per-user study counters and streak state.
type StudyStats struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User                primitive.ObjectID `bson:"user" json:"user"`
	StudyStreak         int                `bson:"study_streak" json:"studyStreak"`
	LongestStreak       int                `bson:"longest_streak" json:"longestStreak"`
	LastStudyDate       *time.Time         `bson:"last_study_date,omitempty" json:"lastStudyDate,omitempty"`
	TotalMinutesStudied int                `bson:"total_minutes_studied" json:"totalMinutesStudied"`
	TotalTasksCompleted int                `bson:"total_tasks_completed" json:"totalTasksCompleted"`
	TotalDownloads      int                `bson:"total_downloads" json:"totalDownloads"`
	StudySessions       []StudySession     `bson:"study_sessions,omitempty" json:"studySessions,omitempty"`
	WeeklyGoal          int                `bson:"weekly_goal" json:"weeklyGoal"`
	DailyGoal           int                `bson:"daily_goal" json:"dailyGoal"`
	CreatedAt           time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt           time.Time          `bson:"updated_at" json:"updatedAt"`
}

// Default study goals in minutes.
const (
	DefaultWeeklyGoal = 600
	DefaultDailyGoal  = 60
)

// ScheduleItem is one class slot embedded in a Timetable.
type ScheduleItem struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Day        string             `bson:"day" json:"day"`
	Time       string             `bson:"time" json:"time"`
	EndTime    string             `bson:"end_time,omitempty" json:"endTime,omitempty"`
	Course     string             `bson:"course" json:"course"`
	CourseCode string             `bson:"course_code,omitempty" json:"courseCode,omitempty"`
	Venue      string             `bson:"venue" json:"venue"`
	Lecturer   string             `bson:"lecturer" json:"lecturer"`
	Type       string             `bson:"type" json:"type"`
	Color      string             `bson:"color,omitempty" json:"color,omitempty"`
	Notes      string             `bson:"notes,omitempty" json:"notes,omitempty"`
}

// Timetable is the per-user weekly class schedule.
type Timetable struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User         primitive.ObjectID `bson:"user" json:"user"`
	Semester     string             `bson:"semester,omitempty" json:"semester,omitempty"`
	AcademicYear string             `bson:"academic_year,omitempty" json:"academicYear,omitempty"`
	Schedule     []ScheduleItem     `bson:"schedule" json:"schedule"`
	IsActive     bool               `bson:"is_active" json:"isActive"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updatedAt"`
}

// TaskReminder is the reminder setting on a task.
type TaskReminder struct {
	Enabled bool       `bson:"enabled" json:"enabled"`
	Time    *time.Time `bson:"time,omitempty" json:"time,omitempty"`
}

// Task is a user to-do item.
type Task struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User        primitive.ObjectID `bson:"user" json:"user"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	DueDate     *time.Time         `bson:"due_date,omitempty" json:"dueDate,omitempty"`
	DueTime     string             `bson:"due_time,omitempty" json:"dueTime,omitempty"`
	Priority    string             `bson:"priority" json:"priority"`
	Status      string             `bson:"status" json:"status"`
	Category    string             `bson:"category" json:"category"`
	Course      string             `bson:"course,omitempty" json:"course,omitempty"`
	Tags        []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	Reminder    TaskReminder       `bson:"reminder" json:"reminder"`
	CompletedAt *time.Time         `bson:"completed_at,omitempty" json:"completedAt,omitempty"`
	IsActive    bool               `bson:"is_active" json:"isActive"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}

// Task statuses
const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in-progress"
	TaskStatusCompleted  = "completed"
	TaskStatusCancelled  = "cancelled"
)

// News is a campus news article.
type News struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Content     string             `bson:"content,omitempty" json:"content,omitempty"`
	Category    string             `bson:"category" json:"category"`
	ImageURL    string             `bson:"image_url,omitempty" json:"imageUrl,omitempty"`
	Author      string             `bson:"author" json:"author"`
	AuthorID    primitive.ObjectID `bson:"author_id,omitempty" json:"authorId,omitempty"`
	PublishedAt time.Time          `bson:"published_at" json:"publishedAt"`
	IsPublished bool               `bson:"is_published" json:"isPublished"`
	Views       int64              `bson:"views" json:"views"`
	Tags        []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}

// NewsCategories are the valid article categories.
var NewsCategories = []string{"events", "announcements", "academics", "sports", "entertainment", "general"}

// Notification is one in-app notification for a user.
type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Title     string             `bson:"title" json:"title"`
	Message   string             `bson:"message" json:"message"`
	Type      string             `bson:"type" json:"type"`
	Category  string             `bson:"category" json:"category"`
	IsRead    bool               `bson:"is_read" json:"isRead"`
	ReadAt    *time.Time         `bson:"read_at,omitempty" json:"readAt,omitempty"`
	ActionURL string             `bson:"action_url,omitempty" json:"actionUrl,omitempty"`
	IsActive  bool               `bson:"is_active" json:"isActive"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

// Notification categories
const (
	NotificationCategoryWallet       = "wallet"
	NotificationCategorySubscription = "subscription"
	NotificationCategoryTask         = "task"
	NotificationCategoryGeneral      = "general"
)
