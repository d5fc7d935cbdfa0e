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

type ReceiptService interface {
	GenerateSettlementReceipt(ctx context.Context, listingID int64, caller string) ([]byte, string, error)
}

type receiptService struct {
	listingRepo repository.ListingRepository
	eventRepo   repository.EventRepository
	escrow      EscrowService
	log         logger.Logger
}

func NewReceiptService(
	listingRepo repository.ListingRepository,
	eventRepo repository.EventRepository,
	escrow EscrowService,
	log logger.Logger,
) ReceiptService {
	return &receiptService{
		listingRepo: listingRepo,
		eventRepo:   eventRepo,
		escrow:      escrow,
		log:         log,
	}
}

// GenerateSettlementReceipt renders the most recent settlement of a listing
// as a plain-text receipt. Only the settled renter or the listing owner may
// request it.
func (s *receiptService) GenerateSettlementReceipt(ctx context.Context, listingID int64, caller string) ([]byte, string, error) {
	s.log.Infof("Generating settlement receipt for listing %d, requested by %s", listingID, caller)

	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", domain.ErrNotFound
		}
		return nil, "", fmt.Errorf("failed to retrieve listing: %w", err)
	}

	event, err := s.eventRepo.LatestByListing(ctx, listingID, entity.EventRentalReturned)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", domain.ErrNotRented
		}
		return nil, "", fmt.Errorf("failed to retrieve settlement event: %w", err)
	}

	if caller != event.Actor && caller != listing.Owner {
		s.log.Warnf("User %s requested receipt for listing %d settled with %s", caller, listingID, event.Actor)
		return nil, "", domain.ErrUnauthorized
	}

	settlement := event.Settlement
	receiptContent := fmt.Sprintf(
		"Listing: %d (%s)\nOwner: %s\nRenter: %s\nSettled at: %s\n\nRent owed: %d\nLate penalty: %d\nOwner payout: %d\nRenter refund: %d\n",
		listing.ID,
		listing.Title,
		listing.Owner,
		event.Actor,
		event.CommittedAt.Format("2006-01-02 15:04:05 UTC"),
		settlement.RentOwed,
		settlement.PenaltyOwed,
		settlement.OwnerPayout,
		settlement.RenterRefund,
	)

	transfers, err := s.escrow.ListTransfers(ctx, listingID)
	if err != nil {
		s.log.Warnf("Failed to list transfers for receipt of listing %d: %v", listingID, err)
	} else {
		receiptContent += "\nTransfers:\n"
		for _, t := range transfers {
			receiptContent += fmt.Sprintf("- %s %s %d (%s)\n", t.EntryType, t.AccountID, t.Amount, t.Reason)
		}
	}

	fileName := fmt.Sprintf("receipt_listing_%d_seq_%d.txt", listingID, event.Seq)
	return []byte(receiptContent), fileName, nil
}
