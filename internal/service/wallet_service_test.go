package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"campuslife-backend/internal/storages"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func fundedWallet(m *mockStorage, owner primitive.ObjectID, balance float64) *storages.Wallet {
	w, _ := m.EnsureWallet(context.Background(), owner)
	w.Balance = balance
	return w
}

func TestWithdraw(t *testing.T) {
	storage := newMockStorage()
	svc := NewWalletService(storage, nil, newTestLogger())
	user := primitive.NewObjectID()
	fundedWallet(storage, user, 5000)

	bank := storages.BankDetails{BankName: "GTBank", AccountNumber: "0123456789", AccountName: "Ada"}
	result, err := svc.Withdraw(context.Background(), user, 2000, bank)
	if err != nil {
		t.Fatalf("Withdraw failed: %v", err)
	}

	if result.Status != storages.TransactionStatusPending {
		t.Errorf("expected pending status, got %s", result.Status)
	}
	if result.NewBalance != 3000 {
		t.Errorf("expected balance 3000, got %.2f", result.NewBalance)
	}
	if result.Reference == "" {
		t.Error("expected a transaction reference")
	}

	wallet, _ := storage.GetWallet(context.Background(), user)
	if wallet.TotalWithdrawals != 2000 {
		t.Errorf("expected totalWithdrawals 2000, got %.2f", wallet.TotalWithdrawals)
	}
	if wallet.BankDetails.BankName != "GTBank" {
		t.Errorf("expected bank details to be stored, got %+v", wallet.BankDetails)
	}
	if len(wallet.Transactions) != 1 || wallet.Transactions[0].Type != storages.TransactionTypeWithdrawal {
		t.Fatalf("expected one withdrawal transaction, got %+v", wallet.Transactions)
	}
}

func TestWithdrawBelowMinimum(t *testing.T) {
	storage := newMockStorage()
	svc := NewWalletService(storage, nil, newTestLogger())
	user := primitive.NewObjectID()
	fundedWallet(storage, user, 5000)

	bank := storages.BankDetails{BankName: "GTBank", AccountNumber: "0123456789"}
	_, err := svc.Withdraw(context.Background(), user, 500, bank)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	wallet, _ := storage.GetWallet(context.Background(), user)
	if wallet.Balance != 5000 {
		t.Errorf("balance changed on rejected withdrawal: %.2f", wallet.Balance)
	}
}

func TestWithdrawInsufficientFunds(t *testing.T) {
	storage := newMockStorage()
	svc := NewWalletService(storage, nil, newTestLogger())
	user := primitive.NewObjectID()
	fundedWallet(storage, user, 100)

	bank := storages.BankDetails{BankName: "GTBank", AccountNumber: "0123456789"}
	_, err := svc.Withdraw(context.Background(), user, 1500, bank)

	var insufficient *InsufficientFundsError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientFundsError, got %v", err)
	}
	if insufficient.Required != 1500 || insufficient.Available != 100 {
		t.Errorf("unexpected amounts: required %.2f, available %.2f", insufficient.Required, insufficient.Available)
	}
}

func TestFund(t *testing.T) {
	storage := newMockStorage()
	svc := NewWalletService(storage, nil, newTestLogger())
	user := primitive.NewObjectID()

	balance, err := svc.Fund(context.Background(), user, 250, "paystack")
	if err != nil {
		t.Fatalf("Fund failed: %v", err)
	}
	if balance != 250 {
		t.Errorf("expected balance 250, got %.2f", balance)
	}

	wallet, _ := storage.GetWallet(context.Background(), user)
	tx := wallet.Transactions[0]
	if tx.Type != storages.TransactionTypeCredit || tx.Status != storages.TransactionStatusCompleted {
		t.Errorf("unexpected transaction: %+v", tx)
	}
	if tx.Source != "wallet_funding" {
		t.Errorf("expected source wallet_funding, got %s", tx.Source)
	}
}

func TestListTransactions(t *testing.T) {
	storage := newMockStorage()
	svc := NewWalletService(storage, nil, newTestLogger())
	user := primitive.NewObjectID()
	wallet := fundedWallet(storage, user, 0)

	for i := 0; i < 5; i++ {
		wallet.Transactions = append(wallet.Transactions, storages.Transaction{
			Type:      storages.TransactionTypeCredit,
			Amount:    float64(i + 1),
			Reference: fmt.Sprintf("TXN-C-%d", i),
			CreatedAt: time.Now(),
		})
	}
	wallet.Transactions = append(wallet.Transactions, storages.Transaction{
		Type:      storages.TransactionTypeEarning,
		Amount:    700,
		Reference: "TXN-E-0",
		CreatedAt: time.Now(),
	})

	// Type filter
	earnings, _, err := svc.ListTransactions(context.Background(), user, storages.TransactionTypeEarning, storages.Page{Number: 1, Limit: 10})
	if err != nil {
		t.Fatalf("ListTransactions failed: %v", err)
	}
	if len(earnings) != 1 || earnings[0].Reference != "TXN-E-0" {
		t.Fatalf("expected one earning, got %+v", earnings)
	}

	// Newest first, paginated
	page1, pagination, err := svc.ListTransactions(context.Background(), user, "", storages.Page{Number: 1, Limit: 4})
	if err != nil {
		t.Fatalf("ListTransactions failed: %v", err)
	}
	if len(page1) != 4 {
		t.Fatalf("expected 4 transactions, got %d", len(page1))
	}
	if page1[0].Reference != "TXN-E-0" {
		t.Errorf("expected newest transaction first, got %s", page1[0].Reference)
	}
	if pagination.Total != 6 || pagination.Pages != 2 {
		t.Errorf("unexpected pagination: %+v", pagination)
	}
}

func TestListTransactionsNoWallet(t *testing.T) {
	storage := newMockStorage()
	svc := NewWalletService(storage, nil, newTestLogger())

	transactions, pagination, err := svc.ListTransactions(context.Background(), primitive.NewObjectID(), "", storages.Page{Number: 1, Limit: 10})
	if err != nil {
		t.Fatalf("expected empty page, got error: %v", err)
	}
	if len(transactions) != 0 || pagination.Total != 0 {
		t.Errorf("expected empty result, got %d transactions", len(transactions))
	}
}

func TestGetBalanceRecentEarnings(t *testing.T) {
	storage := newMockStorage()
	svc := NewWalletService(storage, nil, newTestLogger())
	user := primitive.NewObjectID()
	wallet := fundedWallet(storage, user, 0)

	for i := 0; i < 12; i++ {
		wallet.Transactions = append(wallet.Transactions, storages.Transaction{
			Type:      storages.TransactionTypeEarning,
			Amount:    float64(i + 1),
			Source:    "past_question_sale",
			CreatedAt: time.Now(),
		})
	}
	wallet.TotalEarnings = 78

	summary, err := svc.GetBalance(context.Background(), user)
	if err != nil {
		t.Fatalf("GetBalance failed: %v", err)
	}
	if len(summary.Earnings) != 10 {
		t.Fatalf("expected 10 recent earnings, got %d", len(summary.Earnings))
	}
	if summary.Earnings[0].Amount != 12 {
		t.Errorf("expected newest earning first, got %.2f", summary.Earnings[0].Amount)
	}
	if summary.TotalEarnings != 78 {
		t.Errorf("expected totalEarnings 78, got %.2f", summary.TotalEarnings)
	}
}
