package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"campuslife-backend/internal/kafka"
	"campuslife-backend/internal/storages"
	"campuslife-backend/pkg"
)

// Revenue split applied to every paid download. The two shares always sum
// to the full price, so money is conserved across the three wallets.
const (
	SellerShare   = 0.70
	PlatformShare = 0.30
)

// MarketplaceService runs the past-question marketplace: uploads, listing,
// the purchase/download settlement and ratings.
type MarketplaceService struct {
	storage  storages.Storage
	producer EventPublisher
	logger   *logrus.Logger
}

// NewMarketplaceService creates the marketplace service.
func NewMarketplaceService(storage storages.Storage, producer EventPublisher, logger *logrus.Logger) *MarketplaceService {
	return &MarketplaceService{
		storage:  storage,
		producer: producer,
		logger:   logger,
	}
}

// UploadInput is the payload for publishing a past question.
type UploadInput struct {
	Title      string   `json:"title"`
	CourseName string   `json:"courseName"`
	CourseCode string   `json:"courseCode"`
	Semester   string   `json:"semester"`
	Level      string   `json:"level"`
	Year       string   `json:"year"`
	Tags       []string `json:"tags"`
	FileURL    string   `json:"fileUrl"`
	FileType   string   `json:"fileType"`
	FileSize   int64    `json:"fileSize"`
	IsPaid     bool     `json:"isPaid"`
	Price      float64  `json:"price"`
}

// DownloadResult reports the outcome of a download request.
type DownloadResult struct {
	FileURL      string  `json:"fileUrl"`
	AmountPaid   float64 `json:"amountPaid"`
	AlreadyOwned bool    `json:"alreadyOwned"`
	Reference    string  `json:"reference,omitempty"`
}

// Upload publishes a past question. A missing title is derived from the
// course code, semester and year.
func (s *MarketplaceService) Upload(ctx context.Context, userID primitive.ObjectID, input UploadInput) (*storages.PastQuestion, error) {
	if input.CourseName == "" || input.CourseCode == "" {
		return nil, validationErr("course name and course code are required")
	}
	if input.Semester == "" || input.Level == "" {
		return nil, validationErr("semester and level are required")
	}
	if input.FileURL == "" {
		return nil, validationErr("file URL is required")
	}
	if input.IsPaid {
		if err := pkg.ValidateAmount(input.Price); err != nil {
			return nil, validationErr("a paid question needs a positive price")
		}
	}

	code := pkg.NormalizeCourseCode(input.CourseCode)
	title := input.Title
	if title == "" {
		title = fmt.Sprintf("%s - %s Semester %s", code, input.Semester, input.Year)
	}

	price := input.Price
	if !input.IsPaid {
		price = 0
	}

	now := time.Now()
	question := &storages.PastQuestion{
		Title:      title,
		CourseName: input.CourseName,
		CourseCode: code,
		Semester:   input.Semester,
		Level:      input.Level,
		Year:       input.Year,
		Tags:       input.Tags,
		FileURL:    input.FileURL,
		FileType:   input.FileType,
		FileSize:   input.FileSize,
		IsPaid:     input.IsPaid,
		Price:      price,
		UploadedBy: userID,
		IsApproved: true,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.storage.CreatePastQuestion(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to create past question: %w", err)
	}

	s.logger.Infof("Past question uploaded: ID=%s, Course=%s, Paid=%t", question.ID.Hex(), code, input.IsPaid)
	return question, nil
}

// List returns a filtered page of approved past questions.
func (s *MarketplaceService) List(ctx context.Context, filter storages.QuestionFilter, page storages.Page) ([]storages.PastQuestion, Pagination, error) {
	questions, total, err := s.storage.ListPastQuestions(ctx, filter, page)
	if err != nil {
		return nil, Pagination{}, fmt.Errorf("failed to list past questions: %w", err)
	}
	return questions, paginate(page, total), nil
}

// Get returns a single past question.
func (s *MarketplaceService) Get(ctx context.Context, id primitive.ObjectID) (*storages.PastQuestion, error) {
	question, err := s.storage.GetPastQuestion(ctx, id)
	if err != nil {
		if errors.Is(err, storages.ErrNotFound) {
			return nil, fmt.Errorf("%w: past question", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get past question: %w", err)
	}
	return question, nil
}

// MyUploads returns everything the user has published.
func (s *MarketplaceService) MyUploads(ctx context.Context, userID primitive.ObjectID) ([]storages.PastQuestion, error) {
	uploads, err := s.storage.ListUserUploads(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list uploads: %w", err)
	}
	return uploads, nil
}

// Download settles a download request. Free questions and the uploader's
// own questions cost nothing. A paid question debits the buyer for the full
// price, then splits it between the seller and the platform wallet. The
// unique download receipt is the commit point: losing the insert race
// refunds the buyer in full before any share is credited.
func (s *MarketplaceService) Download(ctx context.Context, userID, questionID primitive.ObjectID) (*DownloadResult, error) {
	question, err := s.storage.GetPastQuestion(ctx, questionID)
	if err != nil {
		if errors.Is(err, storages.ErrNotFound) {
			return nil, fmt.Errorf("%w: past question", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get past question: %w", err)
	}

	if existing, err := s.storage.GetDownload(ctx, userID, questionID); err == nil {
		return &DownloadResult{
			FileURL:      question.FileURL,
			AmountPaid:   existing.AmountPaid,
			AlreadyOwned: true,
		}, nil
	} else if !errors.Is(err, storages.ErrNotFound) {
		return nil, fmt.Errorf("failed to check download: %w", err)
	}

	free := !question.IsPaid || question.Price <= 0 || question.UploadedBy == userID
	if free {
		download := &storages.Download{
			User:         userID,
			PastQuestion: questionID,
			IsPurchased:  false,
			AmountPaid:   0,
			DownloadedAt: time.Now(),
		}
		if err := s.storage.CreateDownload(ctx, download); err != nil {
			if errors.Is(err, storages.ErrDuplicate) {
				// A concurrent request already took the receipt and counted
				// the download.
				return &DownloadResult{
					FileURL:      question.FileURL,
					AlreadyOwned: true,
				}, nil
			}
			return nil, fmt.Errorf("failed to record download: %w", err)
		}
		s.recordDownload(ctx, userID, questionID)
		return &DownloadResult{FileURL: question.FileURL}, nil
	}

	return s.settlePurchase(ctx, userID, question)
}

// settlePurchase is the paid path: debit, receipt, then the revenue split.
func (s *MarketplaceService) settlePurchase(ctx context.Context, userID primitive.ObjectID, question *storages.PastQuestion) (*DownloadResult, error) {
	price := question.Price

	debit := newTransaction(
		storages.TransactionTypeDebit,
		price,
		"past_question_purchase",
		fmt.Sprintf("Purchase of %s", question.Title),
	)
	if _, err := s.storage.DebitWallet(ctx, userID, price, 0, debit); err != nil {
		switch {
		case errors.Is(err, storages.ErrNotFound), errors.Is(err, storages.ErrBalanceTooLow):
			available := 0.0
			if wallet, werr := s.storage.GetWallet(ctx, userID); werr == nil {
				available = wallet.Balance
			}
			return nil, &InsufficientFundsError{Required: price, Available: available}
		default:
			return nil, fmt.Errorf("failed to debit wallet: %w", err)
		}
	}

	download := &storages.Download{
		User:             userID,
		PastQuestion:     question.ID,
		IsPurchased:      true,
		AmountPaid:       price,
		PaymentReference: debit.Reference,
		DownloadedAt:     time.Now(),
	}
	if err := s.storage.CreateDownload(ctx, download); err != nil {
		if errors.Is(err, storages.ErrDuplicate) {
			// A concurrent request won the receipt. Hand the money back and
			// treat this request as already owned.
			s.refund(ctx, userID, price, question.Title)
			return &DownloadResult{
				FileURL:      question.FileURL,
				AlreadyOwned: true,
			}, nil
		}
		s.refund(ctx, userID, price, question.Title)
		return nil, fmt.Errorf("failed to record download: %w", err)
	}

	sellerAmount := price * SellerShare
	platformAmount := price * PlatformShare

	sellerTx := newTransaction(
		storages.TransactionTypeEarning,
		sellerAmount,
		"past_question_sale",
		fmt.Sprintf("Sale of %s", question.Title),
	)
	if _, err := s.storage.CreditWallet(ctx, question.UploadedBy, sellerAmount, sellerAmount, sellerTx); err != nil {
		s.logger.Errorf("Failed to credit seller %s for %s: %v", question.UploadedBy.Hex(), debit.Reference, err)
	}

	platformTx := newTransaction(
		storages.TransactionTypeEarning,
		platformAmount,
		"platform_fee",
		fmt.Sprintf("Platform fee on %s", question.Title),
	)
	if _, err := s.storage.CreditWallet(ctx, storages.PlatformWalletOwner, platformAmount, platformAmount, platformTx); err != nil {
		s.logger.Errorf("Failed to credit platform wallet for %s: %v", debit.Reference, err)
	}

	s.recordDownload(ctx, userID, question.ID)

	s.publish(ctx, kafka.WalletEvent{
		UserID:    userID.Hex(),
		Type:      kafka.EventTypePurchase,
		Amount:    price,
		Currency:  storages.DefaultCurrency,
		Reference: debit.Reference,
		Detail:    question.Title,
	})
	s.publish(ctx, kafka.WalletEvent{
		UserID:    question.UploadedBy.Hex(),
		Type:      kafka.EventTypeSale,
		Amount:    sellerAmount,
		Currency:  storages.DefaultCurrency,
		Reference: sellerTx.Reference,
		Detail:    question.Title,
	})

	s.logger.Infof("Purchase settled: Buyer=%s, Question=%s, Price=%.2f, Seller=%.2f, Platform=%.2f",
		userID.Hex(), question.ID.Hex(), price, sellerAmount, platformAmount)

	return &DownloadResult{
		FileURL:    question.FileURL,
		AmountPaid: price,
		Reference:  debit.Reference,
	}, nil
}

func (s *MarketplaceService) publish(ctx context.Context, event kafka.WalletEvent) {
	publishEvent(ctx, s.producer, s.logger, event)
}

// refund returns the full purchase price to the buyer.
func (s *MarketplaceService) refund(ctx context.Context, userID primitive.ObjectID, amount float64, title string) {
	tx := newTransaction(
		storages.TransactionTypeRefund,
		amount,
		"purchase_refund",
		fmt.Sprintf("Refund for %s", title),
	)
	if _, err := s.storage.CreditWallet(ctx, userID, amount, 0, tx); err != nil {
		s.logger.Errorf("Failed to refund %.2f to %s: %v", amount, userID.Hex(), err)
		return
	}
	s.publish(ctx, kafka.WalletEvent{
		UserID:    userID.Hex(),
		Type:      kafka.EventTypeRefund,
		Amount:    amount,
		Currency:  storages.DefaultCurrency,
		Reference: tx.Reference,
		Detail:    title,
	})
}

// recordDownload bumps the question and study counters. Both are advisory;
// failures are logged, not surfaced.
func (s *MarketplaceService) recordDownload(ctx context.Context, userID, questionID primitive.ObjectID) {
	if err := s.storage.IncrementQuestionDownloads(ctx, questionID); err != nil {
		s.logger.Warnf("Failed to increment downloads for %s: %v", questionID.Hex(), err)
	}
	if err := s.storage.IncrementStudyCounters(ctx, userID, 1, 0); err != nil {
		s.logger.Warnf("Failed to increment study counters for %s: %v", userID.Hex(), err)
	}
}

// Rate records a 1 to 5 rating from a user who has downloaded the question
// and folds it into the running average, kept to one decimal place.
func (s *MarketplaceService) Rate(ctx context.Context, userID, questionID primitive.ObjectID, rating int) (*storages.PastQuestion, error) {
	if err := pkg.ValidateRating(rating); err != nil {
		return nil, validationErr("%v", err)
	}

	question, err := s.storage.GetPastQuestion(ctx, questionID)
	if err != nil {
		if errors.Is(err, storages.ErrNotFound) {
			return nil, fmt.Errorf("%w: past question", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get past question: %w", err)
	}

	if _, err := s.storage.GetDownload(ctx, userID, questionID); err != nil {
		if errors.Is(err, storages.ErrNotFound) {
			return nil, preconditionErr("you must download a past question before rating it")
		}
		return nil, fmt.Errorf("failed to check download: %w", err)
	}

	count := question.RatingCount + 1
	mean := (question.Rating*float64(question.RatingCount) + float64(rating)) / float64(count)
	mean = math.Round(mean*10) / 10

	if err := s.storage.SetQuestionRating(ctx, questionID, mean, count); err != nil {
		return nil, fmt.Errorf("failed to update rating: %w", err)
	}

	question.Rating = mean
	question.RatingCount = count
	return question, nil
}
