package repository

import (
	"context"

	"github.com/Abdurahmanit/GroupProject/rental-service/internal/domain/entity"
)

// DepositParams takes a renter's attached payment into escrow custody.
type DepositParams struct {
	ListingID int64
	Renter    string
	Amount    int64
}

// SettleParams releases a rental's held funds: the owner payout and the
// renter refund must together equal the amount held, so custody drains to
// exactly zero for this rental.
type SettleParams struct {
	ListingID    int64
	Owner        string
	Renter       string
	AmountHeld   int64
	OwnerPayout  int64
	RenterRefund int64
}

type EscrowRepository interface {
	Deposit(ctx context.Context, params DepositParams) error
	Settle(ctx context.Context, params SettleParams) error
	GetAccount(ctx context.Context, accountID string) (*entity.Account, error)
	CustodyBalance(ctx context.Context) (int64, error)
	ListTransfers(ctx context.Context, listingID int64) ([]entity.Transfer, error)
}
