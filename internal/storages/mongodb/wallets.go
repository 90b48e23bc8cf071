package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"campuslife-backend/internal/storages"
)

// GetWallet returns the wallet owned by the given user.
func (s *MongoStorage) GetWallet(ctx context.Context, owner primitive.ObjectID) (*storages.Wallet, error) {
	var wallet storages.Wallet
	if err := s.collection(collWallets).FindOne(ctx, bson.M{"user": owner}).Decode(&wallet); err != nil {
		if err = wrapErr(err); err == storages.ErrNotFound {
			return nil, err
		}
		s.logger.Errorf("Failed to get wallet: %v", err)
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return &wallet, nil
}

// EnsureWallet returns the user's wallet, creating an empty one on first
// access. The upsert makes concurrent first accesses converge on a single
// document.
func (s *MongoStorage) EnsureWallet(ctx context.Context, owner primitive.ObjectID) (*storages.Wallet, error) {
	now := time.Now()
	update := bson.M{
		"$setOnInsert": bson.M{
			"user":              owner,
			"balance":           0.0,
			"currency":          storages.DefaultCurrency,
			"total_earnings":    0.0,
			"total_withdrawals": 0.0,
			"transactions":      []storages.Transaction{},
			"is_active":         true,
			"created_at":        now,
			"updated_at":        now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var wallet storages.Wallet
	if err := s.collection(collWallets).FindOneAndUpdate(ctx, bson.M{"user": owner}, update, opts).Decode(&wallet); err != nil {
		s.logger.Errorf("Failed to ensure wallet: %v", err)
		return nil, fmt.Errorf("failed to ensure wallet: %w", err)
	}
	return &wallet, nil
}

// CreditWallet increases the balance (and the totalEarnings accumulator by
// `earnings`) and appends the transaction in one atomic document update.
// The wallet is upserted, so crediting a user without a wallet creates one.
func (s *MongoStorage) CreditWallet(ctx context.Context, owner primitive.ObjectID, amount, earnings float64, tx *storages.Transaction) (*storages.Wallet, error) {
	now := time.Now()
	update := bson.M{
		"$inc": bson.M{
			"balance":        amount,
			"total_earnings": earnings,
		},
		"$push": bson.M{"transactions": tx},
		"$set":  bson.M{"updated_at": now},
		"$setOnInsert": bson.M{
			"user":              owner,
			"currency":          storages.DefaultCurrency,
			"total_withdrawals": 0.0,
			"is_active":         true,
			"created_at":        now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var wallet storages.Wallet
	if err := s.collection(collWallets).FindOneAndUpdate(ctx, bson.M{"user": owner}, update, opts).Decode(&wallet); err != nil {
		s.logger.Errorf("Failed to credit wallet: %v", err)
		return nil, fmt.Errorf("failed to credit wallet: %w", err)
	}

	s.logger.Infof("Credited wallet: Owner=%s, Amount=%.2f, Ref=%s", owner.Hex(), amount, tx.Reference)
	return &wallet, nil
}

// DebitWallet decreases the balance (and increases the totalWithdrawals
// accumulator by `withdrawals`) and appends the transaction in one atomic
// document update. The filter requires balance >= amount, so the balance
// can never go negative regardless of concurrent debits. Returns
// storages.ErrNotFound when the wallet does not exist and
// storages.ErrBalanceTooLow when it exists but cannot cover the amount.
func (s *MongoStorage) DebitWallet(ctx context.Context, owner primitive.ObjectID, amount, withdrawals float64, tx *storages.Transaction) (*storages.Wallet, error) {
	filter := bson.M{
		"user":    owner,
		"balance": bson.M{"$gte": amount},
	}
	update := bson.M{
		"$inc": bson.M{
			"balance":           -amount,
			"total_withdrawals": withdrawals,
		},
		"$push": bson.M{"transactions": tx},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var wallet storages.Wallet
	err := s.collection(collWallets).FindOneAndUpdate(ctx, filter, update, opts).Decode(&wallet)
	if err == nil {
		s.logger.Infof("Debited wallet: Owner=%s, Amount=%.2f, Ref=%s", owner.Hex(), amount, tx.Reference)
		return &wallet, nil
	}

	if wrapErr(err) != storages.ErrNotFound {
		s.logger.Errorf("Failed to debit wallet: %v", err)
		return nil, fmt.Errorf("failed to debit wallet: %w", err)
	}

	// No match: either the wallet is missing or the balance guard failed.
	if _, getErr := s.GetWallet(ctx, owner); getErr != nil {
		return nil, getErr
	}
	return nil, storages.ErrBalanceTooLow
}

// SetBankDetails stores the withdrawal destination if none is set yet.
// First write wins; a wallet that already has a bank name is left untouched.
func (s *MongoStorage) SetBankDetails(ctx context.Context, owner primitive.ObjectID, details storages.BankDetails) error {
	filter := bson.M{
		"user": owner,
		"$or": []bson.M{
			{"bank_details.bank_name": bson.M{"$exists": false}},
			{"bank_details.bank_name": ""},
		},
	}
	update := bson.M{"$set": bson.M{"bank_details": details, "updated_at": time.Now()}}

	if _, err := s.collection(collWallets).UpdateOne(ctx, filter, update); err != nil {
		s.logger.Errorf("Failed to set bank details: %v", err)
		return fmt.Errorf("failed to set bank details: %w", err)
	}
	return nil
}
