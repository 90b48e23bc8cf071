package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"campuslife-backend/internal/kafka"
	"campuslife-backend/internal/storages"
	"campuslife-backend/pkg"
)

// MinimumWithdrawal is the smallest amount that can be withdrawn, in NGN.
const MinimumWithdrawal = 1000.0

// EventPublisher publishes wallet events for the notifier pipeline.
type EventPublisher interface {
	PublishWalletEvent(ctx context.Context, event kafka.WalletEvent) error
}

// WalletService owns every balance-affecting mutation. All debits and
// credits go through the storage layer's atomic wallet updates, so the
// ledger append and the balance change are always one write.
type WalletService struct {
	storage  storages.Storage
	producer EventPublisher
	logger   *logrus.Logger
}

// NewWalletService creates the wallet service. The producer may be nil, in
// which case events are dropped.
func NewWalletService(storage storages.Storage, producer EventPublisher, logger *logrus.Logger) *WalletService {
	return &WalletService{
		storage:  storage,
		producer: producer,
		logger:   logger,
	}
}

// EarningEntry is one recent earning shown on the balance view.
type EarningEntry struct {
	Source      string    `json:"source"`
	Amount      float64   `json:"amount"`
	Date        time.Time `json:"date"`
	Description string    `json:"description,omitempty"`
}

// BalanceSummary is the wallet overview returned to the client.
type BalanceSummary struct {
	Balance          float64        `json:"balance"`
	Currency         string         `json:"currency"`
	TotalEarnings    float64        `json:"totalEarnings"`
	TotalWithdrawals float64        `json:"totalWithdrawals"`
	Earnings         []EarningEntry `json:"earnings"`
}

// WithdrawalResult reports a submitted withdrawal request.
type WithdrawalResult struct {
	Amount     float64 `json:"amount"`
	NewBalance float64 `json:"newBalance"`
	Reference  string  `json:"reference"`
	Status     string  `json:"status"`
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

func paginate(page storages.Page, total int64) Pagination {
	pages := int64(0)
	if page.Limit > 0 {
		pages = (total + int64(page.Limit) - 1) / int64(page.Limit)
	}
	return Pagination{Page: page.Number, Limit: page.Limit, Total: total, Pages: pages}
}

// newTransaction builds a ledger entry with a fresh reference. Withdrawals
// start pending; every other type is created completed.
func newTransaction(txType string, amount float64, source, description string) *storages.Transaction {
	status := storages.TransactionStatusCompleted
	if txType == storages.TransactionTypeWithdrawal {
		status = storages.TransactionStatusPending
	}
	return &storages.Transaction{
		Type:        txType,
		Amount:      amount,
		Source:      source,
		Description: description,
		Reference:   pkg.GenerateReference(),
		Status:      status,
		CreatedAt:   time.Now(),
	}
}

// publishEvent sends a wallet event, logging instead of failing the caller
// when the broker is unavailable.
func publishEvent(ctx context.Context, producer EventPublisher, logger *logrus.Logger, event kafka.WalletEvent) {
	if producer == nil {
		return
	}
	if err := producer.PublishWalletEvent(ctx, event); err != nil {
		logger.Warnf("Failed to publish wallet event: %v", err)
	}
}

func (s *WalletService) publish(ctx context.Context, event kafka.WalletEvent) {
	publishEvent(ctx, s.producer, s.logger, event)
}

// GetBalance returns the wallet overview, lazily creating the wallet on
// first access. The ten most recent earnings are included.
func (s *WalletService) GetBalance(ctx context.Context, userID primitive.ObjectID) (*BalanceSummary, error) {
	wallet, err := s.storage.EnsureWallet(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	summary := &BalanceSummary{
		Balance:          wallet.Balance,
		Currency:         wallet.Currency,
		TotalEarnings:    wallet.TotalEarnings,
		TotalWithdrawals: wallet.TotalWithdrawals,
		Earnings:         []EarningEntry{},
	}

	// Transactions are stored in insertion order; walk backwards for the
	// most recent earnings.
	for i := len(wallet.Transactions) - 1; i >= 0 && len(summary.Earnings) < 10; i-- {
		tx := wallet.Transactions[i]
		if tx.Type != storages.TransactionTypeEarning {
			continue
		}
		summary.Earnings = append(summary.Earnings, EarningEntry{
			Source:      tx.Source,
			Amount:      tx.Amount,
			Date:        tx.CreatedAt,
			Description: tx.Description,
		})
	}

	return summary, nil
}

// ListTransactions returns a page of the wallet's audit trail, newest
// first, optionally filtered by transaction type. A user without a wallet
// gets an empty page, not an error.
func (s *WalletService) ListTransactions(ctx context.Context, userID primitive.ObjectID, txType string, page storages.Page) ([]storages.Transaction, Pagination, error) {
	wallet, err := s.storage.GetWallet(ctx, userID)
	if err != nil {
		if errors.Is(err, storages.ErrNotFound) {
			return []storages.Transaction{}, paginate(page, 0), nil
		}
		return nil, Pagination{}, fmt.Errorf("failed to get wallet: %w", err)
	}

	filtered := make([]storages.Transaction, 0, len(wallet.Transactions))
	for i := len(wallet.Transactions) - 1; i >= 0; i-- {
		tx := wallet.Transactions[i]
		if txType != "" && tx.Type != txType {
			continue
		}
		filtered = append(filtered, tx)
	}

	total := int64(len(filtered))
	start := int(page.Skip())
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + page.Limit
	if end > len(filtered) {
		end = len(filtered)
	}

	return filtered[start:end], paginate(page, total), nil
}

// Withdraw submits a withdrawal request: the amount leaves the balance
// immediately and the ledger entry stays pending until processed. Bank
// details are stored on first use and never overwritten.
func (s *WalletService) Withdraw(ctx context.Context, userID primitive.ObjectID, amount float64, bank storages.BankDetails) (*WithdrawalResult, error) {
	if err := pkg.ValidateAmount(amount); err != nil {
		return nil, validationErr("%v", err)
	}
	if amount < MinimumWithdrawal {
		return nil, validationErr("minimum withdrawal amount is %.0f %s", MinimumWithdrawal, storages.DefaultCurrency)
	}
	if bank.BankName == "" || bank.AccountNumber == "" {
		return nil, validationErr("bank name and account number are required")
	}

	tx := newTransaction(
		storages.TransactionTypeWithdrawal,
		amount,
		"bank_withdrawal",
		fmt.Sprintf("Withdrawal to %s - %s", bank.BankName, bank.AccountNumber),
	)

	wallet, err := s.storage.DebitWallet(ctx, userID, amount, amount, tx)
	if err != nil {
		switch {
		case errors.Is(err, storages.ErrNotFound):
			return nil, fmt.Errorf("%w: wallet", ErrNotFound)
		case errors.Is(err, storages.ErrBalanceTooLow):
			return nil, s.insufficientFunds(ctx, userID, amount)
		default:
			return nil, fmt.Errorf("failed to debit wallet: %w", err)
		}
	}

	if err := s.storage.SetBankDetails(ctx, userID, bank); err != nil {
		s.logger.Warnf("Failed to store bank details: %v", err)
	}

	s.publish(ctx, kafka.WalletEvent{
		UserID:    userID.Hex(),
		Type:      kafka.EventTypeWithdrawal,
		Amount:    amount,
		Currency:  wallet.Currency,
		Reference: tx.Reference,
	})

	s.logger.Infof("Withdrawal submitted: User=%s, Amount=%.2f, Ref=%s", userID.Hex(), amount, tx.Reference)

	return &WithdrawalResult{
		Amount:     amount,
		NewBalance: wallet.Balance,
		Reference:  tx.Reference,
		Status:     tx.Status,
	}, nil
}

// Fund credits the wallet, creating it if needed.
func (s *WalletService) Fund(ctx context.Context, userID primitive.ObjectID, amount float64, reference string) (float64, error) {
	if err := pkg.ValidateAmount(amount); err != nil {
		return 0, validationErr("%v", err)
	}

	source := reference
	if source == "" {
		source = "direct deposit"
	}
	tx := newTransaction(
		storages.TransactionTypeCredit,
		amount,
		"wallet_funding",
		fmt.Sprintf("Wallet funded via %s", source),
	)

	wallet, err := s.storage.CreditWallet(ctx, userID, amount, 0, tx)
	if err != nil {
		return 0, fmt.Errorf("failed to credit wallet: %w", err)
	}

	s.publish(ctx, kafka.WalletEvent{
		UserID:    userID.Hex(),
		Type:      kafka.EventTypeFunding,
		Amount:    amount,
		Currency:  wallet.Currency,
		Reference: tx.Reference,
	})

	s.logger.Infof("Wallet funded: User=%s, Amount=%.2f", userID.Hex(), amount)
	return wallet.Balance, nil
}

// insufficientFunds builds the typed error with the current available
// balance.
func (s *WalletService) insufficientFunds(ctx context.Context, userID primitive.ObjectID, required float64) error {
	available := 0.0
	if wallet, err := s.storage.GetWallet(ctx, userID); err == nil {
		available = wallet.Balance
	}
	return &InsufficientFundsError{Required: required, Available: available}
}
