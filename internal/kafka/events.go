package kafka

import "time"

// WalletEvent is the message published for every balance-affecting wallet
// operation and consumed by the notifier, which turns it into an in-app
// notification.
type WalletEvent struct {
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"`
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
	Reference string    `json:"reference"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Wallet event types
const (
	EventTypeFunding    = "funding"
	EventTypeWithdrawal = "withdrawal"
	EventTypePurchase   = "purchase"
	EventTypeSale       = "sale"
	EventTypeRefund     = "refund"
)
