package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"campuslife-backend/internal/storages"
)

// mockStorage is an in-memory Storage for the service tests. It mirrors the
// driver's semantics where they matter: debits are conditional on balance,
// downloads are unique per (user, question), and ensures are upserts.
// Methods not needed by the tests come from the embedded nil interface and
// panic if called.
type mockStorage struct {
	storages.Storage

	users         map[primitive.ObjectID]*storages.User
	wallets       map[primitive.ObjectID]*storages.Wallet
	questions     map[primitive.ObjectID]*storages.PastQuestion
	downloads     map[primitive.ObjectID]map[primitive.ObjectID]*storages.Download
	subscriptions map[primitive.ObjectID]*storages.Subscription
	stats         map[primitive.ObjectID]*storages.StudyStats
	tasks         map[primitive.ObjectID]*storages.Task
}

func newMockStorage() *mockStorage {
	return &mockStorage{
		users:         make(map[primitive.ObjectID]*storages.User),
		wallets:       make(map[primitive.ObjectID]*storages.Wallet),
		questions:     make(map[primitive.ObjectID]*storages.PastQuestion),
		downloads:     make(map[primitive.ObjectID]map[primitive.ObjectID]*storages.Download),
		subscriptions: make(map[primitive.ObjectID]*storages.Subscription),
		stats:         make(map[primitive.ObjectID]*storages.StudyStats),
		tasks:         make(map[primitive.ObjectID]*storages.Task),
	}
}

func (m *mockStorage) CreateUser(ctx context.Context, user *storages.User) error {
	for _, u := range m.users {
		if u.Email == user.Email || u.StudentID == user.StudentID {
			return storages.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	m.users[user.ID] = user
	return nil
}

func (m *mockStorage) GetUserByEmail(ctx context.Context, email string) (*storages.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, storages.ErrNotFound
}

func (m *mockStorage) GetUserByStudentID(ctx context.Context, studentID string) (*storages.User, error) {
	for _, u := range m.users {
		if u.StudentID == studentID {
			return u, nil
		}
	}
	return nil, storages.ErrNotFound
}

func (m *mockStorage) GetUserByID(ctx context.Context, id primitive.ObjectID) (*storages.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, storages.ErrNotFound
}

func (m *mockStorage) SaveUser(ctx context.Context, user *storages.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return storages.ErrNotFound
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockStorage) GetWallet(ctx context.Context, owner primitive.ObjectID) (*storages.Wallet, error) {
	if w, ok := m.wallets[owner]; ok {
		return w, nil
	}
	return nil, storages.ErrNotFound
}

func (m *mockStorage) EnsureWallet(ctx context.Context, owner primitive.ObjectID) (*storages.Wallet, error) {
	if w, ok := m.wallets[owner]; ok {
		return w, nil
	}
	w := &storages.Wallet{
		ID:           primitive.NewObjectID(),
		User:         owner,
		Currency:     storages.DefaultCurrency,
		Transactions: []storages.Transaction{},
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	m.wallets[owner] = w
	return w, nil
}

func (m *mockStorage) CreditWallet(ctx context.Context, owner primitive.ObjectID, amount, earnings float64, tx *storages.Transaction) (*storages.Wallet, error) {
	w, _ := m.EnsureWallet(ctx, owner)
	w.Balance += amount
	w.TotalEarnings += earnings
	w.Transactions = append(w.Transactions, *tx)
	return w, nil
}

func (m *mockStorage) DebitWallet(ctx context.Context, owner primitive.ObjectID, amount, withdrawals float64, tx *storages.Transaction) (*storages.Wallet, error) {
	w, ok := m.wallets[owner]
	if !ok {
		return nil, storages.ErrNotFound
	}
	if w.Balance < amount {
		return nil, storages.ErrBalanceTooLow
	}
	w.Balance -= amount
	w.TotalWithdrawals += withdrawals
	w.Transactions = append(w.Transactions, *tx)
	return w, nil
}

func (m *mockStorage) SetBankDetails(ctx context.Context, owner primitive.ObjectID, details storages.BankDetails) error {
	w, ok := m.wallets[owner]
	if !ok {
		return storages.ErrNotFound
	}
	if w.BankDetails.BankName == "" {
		w.BankDetails = details
	}
	return nil
}

func (m *mockStorage) CreatePastQuestion(ctx context.Context, q *storages.PastQuestion) error {
	q.ID = primitive.NewObjectID()
	m.questions[q.ID] = q
	return nil
}

func (m *mockStorage) GetPastQuestion(ctx context.Context, id primitive.ObjectID) (*storages.PastQuestion, error) {
	if q, ok := m.questions[id]; ok {
		return q, nil
	}
	return nil, storages.ErrNotFound
}

func (m *mockStorage) ListUserUploads(ctx context.Context, user primitive.ObjectID) ([]storages.PastQuestion, error) {
	uploads := []storages.PastQuestion{}
	for _, q := range m.questions {
		if q.UploadedBy == user {
			uploads = append(uploads, *q)
		}
	}
	return uploads, nil
}

func (m *mockStorage) IncrementQuestionDownloads(ctx context.Context, id primitive.ObjectID) error {
	q, ok := m.questions[id]
	if !ok {
		return storages.ErrNotFound
	}
	q.Downloads++
	return nil
}

func (m *mockStorage) SetQuestionRating(ctx context.Context, id primitive.ObjectID, rating float64, count int64) error {
	q, ok := m.questions[id]
	if !ok {
		return storages.ErrNotFound
	}
	q.Rating = rating
	q.RatingCount = count
	return nil
}

func (m *mockStorage) CreateDownload(ctx context.Context, d *storages.Download) error {
	byUser, ok := m.downloads[d.User]
	if !ok {
		byUser = make(map[primitive.ObjectID]*storages.Download)
		m.downloads[d.User] = byUser
	}
	if _, exists := byUser[d.PastQuestion]; exists {
		return storages.ErrDuplicate
	}
	d.ID = primitive.NewObjectID()
	byUser[d.PastQuestion] = d
	return nil
}

func (m *mockStorage) GetDownload(ctx context.Context, user, question primitive.ObjectID) (*storages.Download, error) {
	if d, ok := m.downloads[user][question]; ok {
		return d, nil
	}
	return nil, storages.ErrNotFound
}

func (m *mockStorage) GetSubscription(ctx context.Context, user primitive.ObjectID) (*storages.Subscription, error) {
	if s, ok := m.subscriptions[user]; ok {
		return s, nil
	}
	return nil, storages.ErrNotFound
}

func (m *mockStorage) EnsureSubscription(ctx context.Context, user primitive.ObjectID) (*storages.Subscription, error) {
	if s, ok := m.subscriptions[user]; ok {
		return s, nil
	}
	s := &storages.Subscription{
		ID:        primitive.NewObjectID(),
		User:      user,
		Plan:      storages.PlanFree,
		IsActive:  true,
		StartsAt:  time.Now(),
		CreatedAt: time.Now(),
	}
	m.subscriptions[user] = s
	return s, nil
}

func (m *mockStorage) SaveSubscription(ctx context.Context, sub *storages.Subscription) error {
	m.subscriptions[sub.User] = sub
	return nil
}

func (m *mockStorage) GetStudyStats(ctx context.Context, user primitive.ObjectID) (*storages.StudyStats, error) {
	if s, ok := m.stats[user]; ok {
		return s, nil
	}
	return nil, storages.ErrNotFound
}

func (m *mockStorage) EnsureStudyStats(ctx context.Context, user primitive.ObjectID) (*storages.StudyStats, error) {
	if s, ok := m.stats[user]; ok {
		return s, nil
	}
	s := &storages.StudyStats{
		ID:         primitive.NewObjectID(),
		User:       user,
		WeeklyGoal: storages.DefaultWeeklyGoal,
		DailyGoal:  storages.DefaultDailyGoal,
		CreatedAt:  time.Now(),
	}
	m.stats[user] = s
	return s, nil
}

func (m *mockStorage) SaveStudyStats(ctx context.Context, stats *storages.StudyStats) error {
	m.stats[stats.User] = stats
	return nil
}

func (m *mockStorage) IncrementStudyCounters(ctx context.Context, user primitive.ObjectID, downloads, tasksCompleted int) error {
	s, _ := m.EnsureStudyStats(ctx, user)
	s.TotalDownloads += downloads
	s.TotalTasksCompleted += tasksCompleted
	return nil
}

func (m *mockStorage) CreateTask(ctx context.Context, task *storages.Task) error {
	task.ID = primitive.NewObjectID()
	m.tasks[task.ID] = task
	return nil
}

func (m *mockStorage) GetTask(ctx context.Context, id, user primitive.ObjectID) (*storages.Task, error) {
	task, ok := m.tasks[id]
	if !ok || task.User != user || !task.IsActive {
		return nil, storages.ErrNotFound
	}
	return task, nil
}

func (m *mockStorage) SaveTask(ctx context.Context, task *storages.Task) error {
	if _, ok := m.tasks[task.ID]; !ok {
		return storages.ErrNotFound
	}
	m.tasks[task.ID] = task
	return nil
}
