package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"campuslife-backend/internal/storages"
)

func TestGetCreatesFreeSubscription(t *testing.T) {
	storage := newMockStorage()
	svc := NewSubscriptionService(storage, newTestLogger())

	sub, err := svc.Get(context.Background(), primitive.NewObjectID())
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if sub.Plan != storages.PlanFree {
		t.Errorf("expected free plan, got %s", sub.Plan)
	}
	if !sub.IsValid {
		t.Error("free plan must always be valid")
	}
}

func TestSubscribePremium(t *testing.T) {
	storage := newMockStorage()
	svc := NewSubscriptionService(storage, newTestLogger())
	user := primitive.NewObjectID()

	sub, err := svc.Subscribe(context.Background(), user, storages.PlanPremium, "PAY-123", 0)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	if sub.Plan != storages.PlanPremium {
		t.Errorf("expected premium plan, got %s", sub.Plan)
	}
	if !sub.IsValid {
		t.Error("fresh paid plan must be valid")
	}
	if sub.ExpiresAt == nil {
		t.Fatal("paid plan needs an expiry")
	}
	days := time.Until(*sub.ExpiresAt).Hours() / 24
	if days < 29 || days > 31 {
		t.Errorf("expected roughly 30 days of validity, got %.1f", days)
	}
	if !sub.AutoRenew {
		t.Error("paid plan should auto-renew by default")
	}
	if !sub.Features.UnlimitedDownloads || !sub.Features.NoAds || !sub.Features.PrioritySupport {
		t.Errorf("unexpected premium features: %+v", sub.Features)
	}
	if sub.Features.ExclusiveContent {
		t.Error("exclusive content is enterprise only")
	}

	// The previous free period is in the history log.
	if len(sub.History) != 1 || sub.History[0].Plan != storages.PlanFree {
		t.Errorf("unexpected history: %+v", sub.History)
	}
}

func TestSubscribeUnknownPlan(t *testing.T) {
	storage := newMockStorage()
	svc := NewSubscriptionService(storage, newTestLogger())

	_, err := svc.Subscribe(context.Background(), primitive.NewObjectID(), "platinum", "", 0)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSubscribeFreePlanRejected(t *testing.T) {
	storage := newMockStorage()
	svc := NewSubscriptionService(storage, newTestLogger())
	user := primitive.NewObjectID()

	_, err := svc.Subscribe(context.Background(), user, storages.PlanFree, "", 0)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	// The stored subscription is untouched.
	if _, err := storage.GetSubscription(context.Background(), user); !errors.Is(err, storages.ErrNotFound) {
		t.Error("rejected subscribe must not create or change a subscription")
	}
}

func TestCancelDisablesAutoRenew(t *testing.T) {
	storage := newMockStorage()
	svc := NewSubscriptionService(storage, newTestLogger())
	user := primitive.NewObjectID()

	if _, err := svc.Subscribe(context.Background(), user, storages.PlanBasic, "PAY-456", 0); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	sub, err := svc.Cancel(context.Background(), user)
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if sub.AutoRenew {
		t.Error("expected auto-renew off after cancel")
	}
	// Still valid until expiry.
	if !sub.IsValid {
		t.Error("cancelled plan stays valid until expiry")
	}
}

func TestCancelFreePlan(t *testing.T) {
	storage := newMockStorage()
	svc := NewSubscriptionService(storage, newTestLogger())
	user := primitive.NewObjectID()

	if _, err := svc.Get(context.Background(), user); err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	_, err := svc.Cancel(context.Background(), user)
	if !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("expected precondition error, got %v", err)
	}
}
