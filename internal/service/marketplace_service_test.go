package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"campuslife-backend/internal/storages"
)

func paidQuestion(m *mockStorage, seller primitive.ObjectID, price float64) *storages.PastQuestion {
	q := &storages.PastQuestion{
		Title:      "CSC 201 - First Semester 2023",
		CourseName: "Data Structures",
		CourseCode: "CSC201",
		Semester:   "First",
		Level:      "200",
		FileURL:    "https://files.example.com/csc201.pdf",
		IsPaid:     price > 0,
		Price:      price,
		UploadedBy: seller,
		IsApproved: true,
		IsActive:   true,
		CreatedAt:  time.Now(),
	}
	_ = m.CreatePastQuestion(context.Background(), q)
	return q
}

func TestDownloadSettlement(t *testing.T) {
	storage := newMockStorage()
	svc := NewMarketplaceService(storage, nil, newTestLogger())
	buyer := primitive.NewObjectID()
	seller := primitive.NewObjectID()
	fundedWallet(storage, buyer, 1000)
	question := paidQuestion(storage, seller, 300)

	result, err := svc.Download(context.Background(), buyer, question.ID)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if result.AmountPaid != 300 {
		t.Errorf("expected amountPaid 300, got %.2f", result.AmountPaid)
	}
	if result.FileURL != question.FileURL {
		t.Errorf("expected file URL %s, got %s", question.FileURL, result.FileURL)
	}

	buyerWallet, _ := storage.GetWallet(context.Background(), buyer)
	if buyerWallet.Balance != 700 {
		t.Errorf("expected buyer balance 700, got %.2f", buyerWallet.Balance)
	}

	sellerWallet, _ := storage.GetWallet(context.Background(), seller)
	if sellerWallet.Balance != 210 || sellerWallet.TotalEarnings != 210 {
		t.Errorf("expected seller credit 210, got balance %.2f earnings %.2f",
			sellerWallet.Balance, sellerWallet.TotalEarnings)
	}
	if sellerWallet.Transactions[0].Source != "past_question_sale" {
		t.Errorf("unexpected seller transaction: %+v", sellerWallet.Transactions[0])
	}

	platformWallet, _ := storage.GetWallet(context.Background(), storages.PlatformWalletOwner)
	if platformWallet.Balance != 90 {
		t.Errorf("expected platform share 90, got %.2f", platformWallet.Balance)
	}

	// Money is conserved across the three wallets.
	total := buyerWallet.Balance + sellerWallet.Balance + platformWallet.Balance
	if total != 1000 {
		t.Errorf("money not conserved: %.2f", total)
	}

	download, err := storage.GetDownload(context.Background(), buyer, question.ID)
	if err != nil {
		t.Fatalf("expected download receipt: %v", err)
	}
	if !download.IsPurchased || download.AmountPaid != 300 || download.PaymentReference == "" {
		t.Errorf("unexpected receipt: %+v", download)
	}

	q, _ := storage.GetPastQuestion(context.Background(), question.ID)
	if q.Downloads != 1 {
		t.Errorf("expected download counter 1, got %d", q.Downloads)
	}
	stats, _ := storage.GetStudyStats(context.Background(), buyer)
	if stats.TotalDownloads != 1 {
		t.Errorf("expected study download counter 1, got %d", stats.TotalDownloads)
	}
}

func TestDownloadInsufficientFunds(t *testing.T) {
	storage := newMockStorage()
	svc := NewMarketplaceService(storage, nil, newTestLogger())
	buyer := primitive.NewObjectID()
	seller := primitive.NewObjectID()
	fundedWallet(storage, buyer, 100)
	question := paidQuestion(storage, seller, 300)

	_, err := svc.Download(context.Background(), buyer, question.ID)

	var insufficient *InsufficientFundsError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientFundsError, got %v", err)
	}
	if insufficient.Required != 300 || insufficient.Available != 100 {
		t.Errorf("unexpected amounts: required %.2f, available %.2f", insufficient.Required, insufficient.Available)
	}

	buyerWallet, _ := storage.GetWallet(context.Background(), buyer)
	if buyerWallet.Balance != 100 {
		t.Errorf("balance changed on failed purchase: %.2f", buyerWallet.Balance)
	}
	if _, err := storage.GetDownload(context.Background(), buyer, question.ID); !errors.Is(err, storages.ErrNotFound) {
		t.Error("no receipt should exist for a failed purchase")
	}
}

func TestDownloadIdempotent(t *testing.T) {
	storage := newMockStorage()
	svc := NewMarketplaceService(storage, nil, newTestLogger())
	buyer := primitive.NewObjectID()
	seller := primitive.NewObjectID()
	fundedWallet(storage, buyer, 1000)
	question := paidQuestion(storage, seller, 300)

	if _, err := svc.Download(context.Background(), buyer, question.ID); err != nil {
		t.Fatalf("first download failed: %v", err)
	}

	result, err := svc.Download(context.Background(), buyer, question.ID)
	if err != nil {
		t.Fatalf("second download failed: %v", err)
	}
	if !result.AlreadyOwned {
		t.Error("expected second download to be already owned")
	}

	// Charged exactly once.
	buyerWallet, _ := storage.GetWallet(context.Background(), buyer)
	if buyerWallet.Balance != 700 {
		t.Errorf("expected balance 700 after repeat download, got %.2f", buyerWallet.Balance)
	}
}

// raceLosingStorage simulates losing the receipt race: the existence check
// misses, then the unique index rejects the insert.
type raceLosingStorage struct {
	*mockStorage
}

func (s *raceLosingStorage) GetDownload(ctx context.Context, user, question primitive.ObjectID) (*storages.Download, error) {
	return nil, storages.ErrNotFound
}

func (s *raceLosingStorage) CreateDownload(ctx context.Context, d *storages.Download) error {
	return storages.ErrDuplicate
}

func TestDownloadDuplicateReceiptRefundsBuyer(t *testing.T) {
	inner := newMockStorage()
	storage := &raceLosingStorage{mockStorage: inner}
	svc := NewMarketplaceService(storage, nil, newTestLogger())
	buyer := primitive.NewObjectID()
	seller := primitive.NewObjectID()
	fundedWallet(inner, buyer, 1000)
	question := paidQuestion(inner, seller, 300)

	result, err := svc.Download(context.Background(), buyer, question.ID)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if !result.AlreadyOwned {
		t.Error("expected the race loser to be treated as already owned")
	}

	// The debit is compensated in full; the ledger keeps both legs.
	buyerWallet, _ := inner.GetWallet(context.Background(), buyer)
	if buyerWallet.Balance != 1000 {
		t.Errorf("expected balance restored to 1000, got %.2f", buyerWallet.Balance)
	}
	if len(buyerWallet.Transactions) != 2 {
		t.Fatalf("expected debit and refund in the ledger, got %d entries", len(buyerWallet.Transactions))
	}
	if buyerWallet.Transactions[0].Type != storages.TransactionTypeDebit {
		t.Errorf("expected first entry to be the debit, got %s", buyerWallet.Transactions[0].Type)
	}
	refund := buyerWallet.Transactions[1]
	if refund.Type != storages.TransactionTypeRefund || refund.Source != "purchase_refund" || refund.Amount != 300 {
		t.Errorf("unexpected refund entry: %+v", refund)
	}

	// No share is credited for a settlement that did not commit.
	if _, err := inner.GetWallet(context.Background(), seller); !errors.Is(err, storages.ErrNotFound) {
		t.Error("seller must not be credited when the receipt race is lost")
	}
	if _, err := inner.GetWallet(context.Background(), storages.PlatformWalletOwner); !errors.Is(err, storages.ErrNotFound) {
		t.Error("platform must not be credited when the receipt race is lost")
	}

	q, _ := inner.GetPastQuestion(context.Background(), question.ID)
	if q.Downloads != 0 {
		t.Errorf("download counter must not move for the race loser, got %d", q.Downloads)
	}
}

func TestDownloadFreeDuplicateReceiptNotCounted(t *testing.T) {
	inner := newMockStorage()
	storage := &raceLosingStorage{mockStorage: inner}
	svc := NewMarketplaceService(storage, nil, newTestLogger())
	buyer := primitive.NewObjectID()
	question := paidQuestion(inner, primitive.NewObjectID(), 0)

	result, err := svc.Download(context.Background(), buyer, question.ID)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if !result.AlreadyOwned {
		t.Error("expected the race loser to be treated as already owned")
	}

	// The winning request already counted this download.
	q, _ := inner.GetPastQuestion(context.Background(), question.ID)
	if q.Downloads != 0 {
		t.Errorf("download counter must not move for the race loser, got %d", q.Downloads)
	}
	if _, err := inner.GetStudyStats(context.Background(), buyer); !errors.Is(err, storages.ErrNotFound) {
		t.Error("study counters must not move for the race loser")
	}
}

func TestDownloadFreeQuestion(t *testing.T) {
	storage := newMockStorage()
	svc := NewMarketplaceService(storage, nil, newTestLogger())
	buyer := primitive.NewObjectID()
	seller := primitive.NewObjectID()
	question := paidQuestion(storage, seller, 0)

	result, err := svc.Download(context.Background(), buyer, question.ID)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if result.AmountPaid != 0 {
		t.Errorf("free download should not charge, got %.2f", result.AmountPaid)
	}

	download, err := storage.GetDownload(context.Background(), buyer, question.ID)
	if err != nil {
		t.Fatalf("expected download receipt: %v", err)
	}
	if download.IsPurchased {
		t.Error("free download should not be marked purchased")
	}
}

func TestDownloadOwnUpload(t *testing.T) {
	storage := newMockStorage()
	svc := NewMarketplaceService(storage, nil, newTestLogger())
	seller := primitive.NewObjectID()
	fundedWallet(storage, seller, 500)
	question := paidQuestion(storage, seller, 300)

	result, err := svc.Download(context.Background(), seller, question.ID)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if result.AmountPaid != 0 {
		t.Errorf("own upload should be free, got %.2f", result.AmountPaid)
	}

	wallet, _ := storage.GetWallet(context.Background(), seller)
	if wallet.Balance != 500 {
		t.Errorf("uploader was charged for own question: %.2f", wallet.Balance)
	}
}

func TestRateRequiresDownload(t *testing.T) {
	storage := newMockStorage()
	svc := NewMarketplaceService(storage, nil, newTestLogger())
	user := primitive.NewObjectID()
	question := paidQuestion(storage, primitive.NewObjectID(), 0)

	_, err := svc.Rate(context.Background(), user, question.ID, 4)
	if !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("expected precondition error, got %v", err)
	}
}

func TestRateRunningMean(t *testing.T) {
	storage := newMockStorage()
	svc := NewMarketplaceService(storage, nil, newTestLogger())
	question := paidQuestion(storage, primitive.NewObjectID(), 0)

	ratings := []int{5, 4, 4}
	for _, r := range ratings {
		user := primitive.NewObjectID()
		if _, err := svc.Download(context.Background(), user, question.ID); err != nil {
			t.Fatalf("Download failed: %v", err)
		}
		if _, err := svc.Rate(context.Background(), user, question.ID, r); err != nil {
			t.Fatalf("Rate failed: %v", err)
		}
	}

	q, _ := storage.GetPastQuestion(context.Background(), question.ID)
	if q.RatingCount != 3 {
		t.Errorf("expected rating count 3, got %d", q.RatingCount)
	}
	// (5+4+4)/3 = 4.333..., kept to one decimal place.
	if q.Rating != 4.3 {
		t.Errorf("expected rating 4.3, got %.2f", q.Rating)
	}
}

func TestRateInvalidValue(t *testing.T) {
	storage := newMockStorage()
	svc := NewMarketplaceService(storage, nil, newTestLogger())

	_, err := svc.Rate(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), 6)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUploadDefaultTitle(t *testing.T) {
	storage := newMockStorage()
	svc := NewMarketplaceService(storage, nil, newTestLogger())

	question, err := svc.Upload(context.Background(), primitive.NewObjectID(), UploadInput{
		CourseName: "Thermodynamics",
		CourseCode: "mee 301",
		Semester:   "Second",
		Level:      "300",
		Year:       "2024",
		FileURL:    "https://files.example.com/mee301.pdf",
	})
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if question.Title != "MEE 301 - Second Semester 2024" {
		t.Errorf("unexpected default title: %s", question.Title)
	}
	if question.CourseCode != "MEE 301" {
		t.Errorf("expected normalized course code, got %s", question.CourseCode)
	}
}

func TestUploadPaidNeedsPrice(t *testing.T) {
	storage := newMockStorage()
	svc := NewMarketplaceService(storage, nil, newTestLogger())

	_, err := svc.Upload(context.Background(), primitive.NewObjectID(), UploadInput{
		CourseName: "Thermodynamics",
		CourseCode: "MEE301",
		Semester:   "Second",
		Level:      "300",
		FileURL:    "https://files.example.com/mee301.pdf",
		IsPaid:     true,
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
