package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/rental-service/internal/app/config"
	"github.com/Abdurahmanit/GroupProject/rental-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/rental-service/internal/repository"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	accountCollectionName  = "accounts"
	transferCollectionName = "transfers"

	reasonEscrowDeposit = "rental escrow deposit"
	reasonOwnerPayout   = "rental settlement payout"
	reasonRenterRefund  = "rental settlement refund"
)

type escrowRepository struct {
	accounts  *mongo.Collection
	transfers *mongo.Collection
}

func NewEscrowRepository(client *mongo.Client, cfg config.MongoDBConfig) repository.EscrowRepository {
	database := client.Database(cfg.Database)
	return &escrowRepository{
		accounts:  database.Collection(accountCollectionName),
		transfers: database.Collection(transferCollectionName),
	}
}

func (r *escrowRepository) credit(ctx context.Context, accountID string, amount int64) error {
	update := bson.M{
		"$inc": bson.M{"balance": amount, "version": 1},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}
	_, err := r.accounts.UpdateOne(ctx, bson.M{"_id": accountID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to credit account %s: %w", accountID, err)
	}
	return nil
}

func (r *escrowRepository) record(ctx context.Context, groupID, accountID, counterAccount string, amount int64, entryType entity.EntryType, reason string, listingID int64) error {
	transfer := entity.Transfer{
		ID:             uuid.NewString(),
		GroupID:        groupID,
		AccountID:      accountID,
		CounterAccount: counterAccount,
		Amount:         amount,
		EntryType:      entryType,
		Reason:         reason,
		ListingID:      listingID,
		CreatedAt:      time.Now().UTC(),
	}
	if _, err := r.transfers.InsertOne(ctx, transfer); err != nil {
		return fmt.Errorf("failed to record transfer for account %s: %w", accountID, err)
	}
	return nil
}

// Deposit takes the renter's attached payment into custody: the custody
// account grows by the full sent amount and a credit row is written against
// the renter as counterparty.
func (r *escrowRepository) Deposit(ctx context.Context, params repository.DepositParams) error {
	if err := r.credit(ctx, entity.CustodyAccountID, params.Amount); err != nil {
		return err
	}
	groupID := uuid.NewString()
	return r.record(ctx, groupID, entity.CustodyAccountID, params.Renter,
		params.Amount, entity.EntryCredit, reasonEscrowDeposit, params.ListingID)
}

// Settle drains a rental's custody in full: owner payout plus renter refund
// must equal the amount held. Balances and the audit rows commit together
// with the caller's transaction.
func (r *escrowRepository) Settle(ctx context.Context, params repository.SettleParams) error {
	if params.OwnerPayout+params.RenterRefund != params.AmountHeld {
		return fmt.Errorf("settlement does not drain custody for listing %d: %w",
			params.ListingID, repository.ErrUpdateFailed)
	}

	if err := r.credit(ctx, entity.CustodyAccountID, -params.AmountHeld); err != nil {
		return err
	}

	groupID := uuid.NewString()
	if err := r.record(ctx, groupID, entity.CustodyAccountID, params.Owner,
		params.OwnerPayout, entity.EntryDebit, reasonOwnerPayout, params.ListingID); err != nil {
		return err
	}
	if params.OwnerPayout > 0 {
		if err := r.credit(ctx, params.Owner, params.OwnerPayout); err != nil {
			return err
		}
		if err := r.record(ctx, groupID, params.Owner, entity.CustodyAccountID,
			params.OwnerPayout, entity.EntryCredit, reasonOwnerPayout, params.ListingID); err != nil {
			return err
		}
	}
	if params.RenterRefund > 0 {
		if err := r.record(ctx, groupID, entity.CustodyAccountID, params.Renter,
			params.RenterRefund, entity.EntryDebit, reasonRenterRefund, params.ListingID); err != nil {
			return err
		}
		if err := r.credit(ctx, params.Renter, params.RenterRefund); err != nil {
			return err
		}
		if err := r.record(ctx, groupID, params.Renter, entity.CustodyAccountID,
			params.RenterRefund, entity.EntryCredit, reasonRenterRefund, params.ListingID); err != nil {
			return err
		}
	}
	return nil
}

func (r *escrowRepository) GetAccount(ctx context.Context, accountID string) (*entity.Account, error) {
	var account entity.Account
	err := r.accounts.FindOne(ctx, bson.M{"_id": accountID}).Decode(&account)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account %s: %w", accountID, err)
	}
	return &account, nil
}

func (r *escrowRepository) CustodyBalance(ctx context.Context) (int64, error) {
	account, err := r.GetAccount(ctx, entity.CustodyAccountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return account.Balance, nil
}

func (r *escrowRepository) ListTransfers(ctx context.Context, listingID int64) ([]entity.Transfer, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.transfers.Find(ctx, bson.M{"listing_id": listingID}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list transfers for listing %d: %w", listingID, err)
	}
	defer cursor.Close(ctx)

	var transfers []entity.Transfer
	if err = cursor.All(ctx, &transfers); err != nil {
		return nil, fmt.Errorf("failed to decode transfers for listing %d: %w", listingID, err)
	}
	return transfers, nil
}
