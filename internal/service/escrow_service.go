package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Abdurahmanit/GroupProject/rental-service/internal/domain"
	"github.com/Abdurahmanit/GroupProject/rental-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/rental-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/rental-service/internal/repository"
)

type EscrowService interface {
	// AcceptPayment validates the attached amount against the listing's
	// required payment and takes the full amount into custody. Returns the
	// amount held for the rental.
	AcceptPayment(ctx context.Context, listing *entity.Listing, renter string, sentAmount int64) (int64, error)
	// Settle computes and executes the final fund distribution. The owner
	// payout is capped at the amount held; the remainder refunds the renter.
	Settle(ctx context.Context, listing *entity.Listing, ended entity.Rental, rentOwed, penaltyOwed int64) (*entity.Settlement, error)
	CustodyBalance(ctx context.Context) (int64, error)
	GetAccount(ctx context.Context, accountID string) (*entity.Account, error)
	ListTransfers(ctx context.Context, listingID int64) ([]entity.Transfer, error)
}

type escrowService struct {
	escrowRepo repository.EscrowRepository
	log        logger.Logger
}

func NewEscrowService(escrowRepo repository.EscrowRepository, log logger.Logger) EscrowService {
	return &escrowService{
		escrowRepo: escrowRepo,
		log:        log,
	}
}

func (s *escrowService) AcceptPayment(ctx context.Context, listing *entity.Listing, renter string, sentAmount int64) (int64, error) {
	required := listing.RequiredPayment()
	if sentAmount < required {
		s.log.Warnf("Payment of %d for listing %d below required %d", sentAmount, listing.ID, required)
		return 0, fmt.Errorf("%w: sent %d, required %d", domain.ErrInsufficientPayment, sentAmount, required)
	}

	err := s.escrowRepo.Deposit(ctx, repository.DepositParams{
		ListingID: listing.ID,
		Renter:    renter,
		Amount:    sentAmount,
	})
	if err != nil {
		s.log.Errorf("Failed to take payment for listing %d into custody: %v", listing.ID, err)
		return 0, fmt.Errorf("failed to take payment into custody: %w", err)
	}
	return sentAmount, nil
}

func (s *escrowService) Settle(ctx context.Context, listing *entity.Listing, ended entity.Rental, rentOwed, penaltyOwed int64) (*entity.Settlement, error) {
	ownerPayout := rentOwed + penaltyOwed
	if ownerPayout > ended.AmountHeld {
		ownerPayout = ended.AmountHeld
	}
	renterRefund := ended.AmountHeld - ownerPayout

	err := s.escrowRepo.Settle(ctx, repository.SettleParams{
		ListingID:    listing.ID,
		Owner:        listing.Owner,
		Renter:       ended.Renter,
		AmountHeld:   ended.AmountHeld,
		OwnerPayout:  ownerPayout,
		RenterRefund: renterRefund,
	})
	if err != nil {
		s.log.Errorf("Failed to settle rental on listing %d: %v", listing.ID, err)
		return nil, fmt.Errorf("failed to settle rental: %w", err)
	}

	return &entity.Settlement{
		RentOwed:     rentOwed,
		PenaltyOwed:  penaltyOwed,
		OwnerPayout:  ownerPayout,
		RenterRefund: renterRefund,
	}, nil
}

func (s *escrowService) CustodyBalance(ctx context.Context) (int64, error) {
	return s.escrowRepo.CustodyBalance(ctx)
}

func (s *escrowService) GetAccount(ctx context.Context, accountID string) (*entity.Account, error) {
	account, err := s.escrowRepo.GetAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// An identity with no settled funds yet has a zero balance.
			return &entity.Account{ID: accountID, Balance: 0}, nil
		}
		return nil, err
	}
	return account, nil
}

func (s *escrowService) ListTransfers(ctx context.Context, listingID int64) ([]entity.Transfer, error) {
	return s.escrowRepo.ListTransfers(ctx, listingID)
}
