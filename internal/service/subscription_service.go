package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"campuslife-backend/internal/storages"
)

// Plan is one subscription tier offered to users.
type Plan struct {
	Name         string                `json:"name"`
	Price        float64               `json:"price"`
	Currency     string                `json:"currency"`
	DurationDays int                   `json:"durationDays"`
	Features     storages.PlanFeatures `json:"features"`
}

// plans is the tier catalogue. Each paid tier is a strict superset of the
// one below it.
var plans = []Plan{
	{
		Name:         storages.PlanFree,
		Price:        0,
		Currency:     storages.DefaultCurrency,
		DurationDays: 0,
		Features:     storages.PlanFeatures{},
	},
	{
		Name:         storages.PlanBasic,
		Price:        500,
		Currency:     storages.DefaultCurrency,
		DurationDays: 30,
		Features:     storages.PlanFeatures{NoAds: true},
	},
	{
		Name:         storages.PlanPremium,
		Price:        1500,
		Currency:     storages.DefaultCurrency,
		DurationDays: 30,
		Features:     storages.PlanFeatures{NoAds: true, UnlimitedDownloads: true, PrioritySupport: true},
	},
	{
		Name:         storages.PlanEnterprise,
		Price:        5000,
		Currency:     storages.DefaultCurrency,
		DurationDays: 30,
		Features:     storages.PlanFeatures{NoAds: true, UnlimitedDownloads: true, PrioritySupport: true, ExclusiveContent: true},
	},
}

// planByName finds a tier in the catalogue.
func planByName(name string) (Plan, bool) {
	for _, p := range plans {
		if p.Name == name {
			return p, true
		}
	}
	return Plan{}, false
}

// SubscriptionService manages per-user plan state. Payment collection is
// external; Subscribe only records an already paid plan change.
type SubscriptionService struct {
	storage storages.Storage
	logger  *logrus.Logger
}

// NewSubscriptionService creates the subscription service.
func NewSubscriptionService(storage storages.Storage, logger *logrus.Logger) *SubscriptionService {
	return &SubscriptionService{storage: storage, logger: logger}
}

// SubscriptionView is the plan state returned to the client, with validity
// evaluated at read time.
type SubscriptionView struct {
	*storages.Subscription
	IsValid bool `json:"isValid"`
}

// Get returns the user's subscription, creating a free one on first access.
func (s *SubscriptionService) Get(ctx context.Context, userID primitive.ObjectID) (*SubscriptionView, error) {
	sub, err := s.storage.EnsureSubscription(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return &SubscriptionView{Subscription: sub, IsValid: sub.IsValid(time.Now())}, nil
}

// Plans returns the tier catalogue.
func (s *SubscriptionService) Plans() []Plan {
	return plans
}

// Subscribe switches the user to the named plan. The previous period is
// pushed into the history log before the change, and the feature flags are
// derived from the catalogue once and stored.
func (s *SubscriptionService) Subscribe(ctx context.Context, userID primitive.ObjectID, planName, paymentReference string, durationDays int) (*SubscriptionView, error) {
	plan, ok := planByName(planName)
	if !ok {
		return nil, validationErr("unknown plan: %s", planName)
	}
	// Subscribing targets a paid tier; there is no payment to record for
	// the free plan.
	if plan.Name == storages.PlanFree {
		return nil, validationErr("cannot subscribe to the free plan")
	}

	sub, err := s.storage.EnsureSubscription(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	now := time.Now()
	sub.History = append(sub.History, storages.SubscriptionPeriod{
		Plan:             sub.Plan,
		StartsAt:         sub.StartsAt,
		ExpiresAt:        sub.ExpiresAt,
		PaymentReference: sub.PaymentReference,
	})

	sub.Plan = plan.Name
	sub.StartsAt = now
	sub.IsActive = true
	sub.Features = plan.Features
	sub.PaymentReference = paymentReference
	sub.UpdatedAt = now

	days := durationDays
	if days <= 0 {
		days = plan.DurationDays
	}
	expires := now.AddDate(0, 0, days)
	sub.ExpiresAt = &expires
	sub.AutoRenew = true

	if err := s.storage.SaveSubscription(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to save subscription: %w", err)
	}

	s.logger.Infof("Subscription changed: User=%s, Plan=%s", userID.Hex(), plan.Name)
	return &SubscriptionView{Subscription: sub, IsValid: sub.IsValid(now)}, nil
}

// Cancel turns off auto-renewal. The plan stays valid until its expiry.
// Free plans have nothing to cancel.
func (s *SubscriptionService) Cancel(ctx context.Context, userID primitive.ObjectID) (*SubscriptionView, error) {
	sub, err := s.storage.GetSubscription(ctx, userID)
	if err != nil {
		if errors.Is(err, storages.ErrNotFound) {
			return nil, fmt.Errorf("%w: subscription", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	if sub.Plan == storages.PlanFree {
		return nil, preconditionErr("the free plan cannot be cancelled")
	}

	sub.AutoRenew = false
	sub.UpdatedAt = time.Now()
	if err := s.storage.SaveSubscription(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to save subscription: %w", err)
	}

	s.logger.Infof("Subscription auto-renew disabled: User=%s, Plan=%s", userID.Hex(), sub.Plan)
	return &SubscriptionView{Subscription: sub, IsValid: sub.IsValid(time.Now())}, nil
}
