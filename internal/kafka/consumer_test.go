package kafka

import (
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"campuslife-backend/internal/storages"
)

func TestNotificationFromEvent(t *testing.T) {
	user := primitive.NewObjectID()

	cases := []struct {
		eventType string
		wantTitle string
		wantIn    string
	}{
		{EventTypeFunding, "Wallet Funded", "250.00"},
		{EventTypeWithdrawal, "Withdrawal Request", "250.00"},
		{EventTypePurchase, "Purchase Successful", "CSC 201"},
		{EventTypeSale, "New Sale", "CSC 201"},
		{EventTypeRefund, "Refund Issued", "250.00"},
	}

	for _, tc := range cases {
		t.Run(tc.eventType, func(t *testing.T) {
			n, err := notificationFromEvent(WalletEvent{
				UserID: user.Hex(),
				Type:   tc.eventType,
				Amount: 250,
				Detail: "CSC 201",
			})
			if err != nil {
				t.Fatalf("notificationFromEvent failed: %v", err)
			}
			if n.User != user {
				t.Errorf("expected user %s, got %s", user.Hex(), n.User.Hex())
			}
			if n.Title != tc.wantTitle {
				t.Errorf("expected title %q, got %q", tc.wantTitle, n.Title)
			}
			if !strings.Contains(n.Message, tc.wantIn) {
				t.Errorf("expected message to contain %q, got %q", tc.wantIn, n.Message)
			}
			if n.Category != storages.NotificationCategoryWallet {
				t.Errorf("expected wallet category, got %s", n.Category)
			}
		})
	}
}

func TestNotificationFromEventRejectsUnknownType(t *testing.T) {
	_, err := notificationFromEvent(WalletEvent{
		UserID: primitive.NewObjectID().Hex(),
		Type:   "exchange",
	})
	if err == nil {
		t.Fatal("expected an error for an unknown event type")
	}
}

func TestNotificationFromEventRejectsBadUserID(t *testing.T) {
	_, err := notificationFromEvent(WalletEvent{
		UserID: "not-an-object-id",
		Type:   EventTypeFunding,
	})
	if err == nil {
		t.Fatal("expected an error for an invalid user id")
	}
}
