package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/rental-service/internal/adapter/nats"
	"github.com/Abdurahmanit/GroupProject/rental-service/internal/domain"
	"github.com/Abdurahmanit/GroupProject/rental-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/rental-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/rental-service/internal/repository"
)

// RentalService owns the Available/Rented state machine per listing. Every
// mutating operation runs as one all-or-nothing transaction: precondition
// checks, the state transition and the fund movement commit together or not
// at all.
type RentalService interface {
	Rent(ctx context.Context, caller string, listingID int64, sentAmount int64) (*entity.Listing, error)
	Return(ctx context.Context, caller string, listingID int64) (*entity.Settlement, error)
	GetRental(ctx context.Context, listingID int64) (entity.Rental, error)
	ListRentedBy(ctx context.Context, renter string) ([]entity.Listing, error)
	ListEvents(ctx context.Context, after int64, limit int64) ([]entity.RentalEvent, error)
}

type rentalService struct {
	listingRepo  repository.ListingRepository
	eventRepo    repository.EventRepository
	listingCache repository.ListingCache
	escrow       EscrowService
	fees         FeeCalculator
	access       AccessGuard
	tx           repository.TxRunner
	msgPublisher nats.MessagePublisher
	notifier     Notifier
	log          logger.Logger
}

func NewRentalService(
	listingRepo repository.ListingRepository,
	eventRepo repository.EventRepository,
	listingCache repository.ListingCache,
	escrow EscrowService,
	tx repository.TxRunner,
	msgPublisher nats.MessagePublisher,
	notifier Notifier,
	log logger.Logger,
) RentalService {
	return &rentalService{
		listingRepo:  listingRepo,
		eventRepo:    eventRepo,
		listingCache: listingCache,
		escrow:       escrow,
		fees:         NewFeeCalculator(),
		access:       NewAccessGuard(),
		tx:           tx,
		msgPublisher: msgPublisher,
		notifier:     notifier,
		log:          log,
	}
}

func (s *rentalService) Rent(ctx context.Context, caller string, listingID int64, sentAmount int64) (*entity.Listing, error) {
	s.log.Infof("Renter %s attempting to rent listing %d with payment %d", caller, listingID, sentAmount)

	var (
		listing *entity.Listing
		event   *entity.RentalEvent
	)
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		l, errGet := s.listingRepo.GetByID(txCtx, listingID)
		if errGet != nil {
			if errors.Is(errGet, repository.ErrNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("failed to retrieve listing: %w", errGet)
		}

		if !s.access.CanRent(l) {
			return domain.ErrAlreadyRented
		}

		amountHeld, errPay := s.escrow.AcceptPayment(txCtx, l, caller, sentAmount)
		if errPay != nil {
			return errPay
		}

		startTime := time.Now().UTC()
		expectedVersion := l.Version
		if errStart := l.StartRental(caller, startTime, amountHeld); errStart != nil {
			return errStart
		}

		errRent := s.listingRepo.Rent(txCtx, repository.RentListingParams{
			ListingID:  l.ID,
			Renter:     caller,
			StartTime:  startTime,
			AmountHeld: amountHeld,
			Version:    expectedVersion,
		})
		if errRent != nil {
			if errors.Is(errRent, repository.ErrNotFound) {
				return domain.ErrNotFound
			}
			if errors.Is(errRent, repository.ErrOptimisticLock) || errors.Is(errRent, repository.ErrUpdateFailed) {
				// The availability precondition no longer holds.
				return domain.ErrAlreadyRented
			}
			return fmt.Errorf("failed to record rental: %w", errRent)
		}

		event, errRent = s.eventRepo.Append(txCtx, repository.AppendEventParams{
			Type:       entity.EventRentalStarted,
			ListingID:  l.ID,
			Actor:      caller,
			AmountHeld: amountHeld,
		})
		listing = l
		return errRent
	})
	if err != nil {
		s.log.Warnf("Rent of listing %d by %s rejected: %v", listingID, caller, err)
		return nil, err
	}

	s.invalidateCache(ctx, listingID)
	s.publishEvent(ctx, event)
	s.notifier.NotifyRented(ctx, listing, caller)
	s.log.Infof("Listing %d rented by %s, %d held in escrow", listingID, caller, listing.Rental.AmountHeld)
	return listing, nil
}

func (s *rentalService) Return(ctx context.Context, caller string, listingID int64) (*entity.Settlement, error) {
	s.log.Infof("Renter %s attempting to return listing %d", caller, listingID)

	var (
		listing    *entity.Listing
		settlement *entity.Settlement
		event      *entity.RentalEvent
	)
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		l, errGet := s.listingRepo.GetByID(txCtx, listingID)
		if errGet != nil {
			if errors.Is(errGet, repository.ErrNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("failed to retrieve listing: %w", errGet)
		}

		if !l.Rental.IsActive() {
			return domain.ErrNotRented
		}
		if !s.access.CanReturn(l.Rental, caller) {
			return domain.ErrUnauthorized
		}

		expectedVersion := l.Version
		ended, errEnd := l.EndRental(caller)
		if errEnd != nil {
			return errEnd
		}

		rentOwed, penaltyOwed := s.fees.Assess(l.DailyPrice, l.Deposit, ended.AmountHeld, ended.StartTime, time.Now().UTC())

		// Effects before interactions: the rental is cleared and the listing
		// flipped back to available before any outbound transfer is staged,
		// so a payout recipient can never re-enter against stale state.
		errClear := s.listingRepo.ClearRental(txCtx, repository.ClearRentalParams{
			ListingID: l.ID,
			Renter:    caller,
			Version:   expectedVersion,
		})
		if errClear != nil {
			if errors.Is(errClear, repository.ErrNotFound) {
				return domain.ErrNotFound
			}
			if errors.Is(errClear, repository.ErrOptimisticLock) || errors.Is(errClear, repository.ErrUpdateFailed) {
				return domain.ErrNotRented
			}
			return fmt.Errorf("failed to clear rental: %w", errClear)
		}

		var errSettle error
		settlement, errSettle = s.escrow.Settle(txCtx, l, ended, rentOwed, penaltyOwed)
		if errSettle != nil {
			return errSettle
		}

		event, errSettle = s.eventRepo.Append(txCtx, repository.AppendEventParams{
			Type:       entity.EventRentalReturned,
			ListingID:  l.ID,
			Actor:      caller,
			Settlement: settlement,
		})
		listing = l
		return errSettle
	})
	if err != nil {
		s.log.Warnf("Return of listing %d by %s rejected: %v", listingID, caller, err)
		return nil, err
	}

	s.invalidateCache(ctx, listingID)
	s.publishEvent(ctx, event)
	s.notifier.NotifyReturned(ctx, listing, caller, settlement)
	s.log.Infof("Listing %d returned by %s: owner payout %d, renter refund %d",
		listingID, caller, settlement.OwnerPayout, settlement.RenterRefund)
	return settlement, nil
}

func (s *rentalService) GetRental(ctx context.Context, listingID int64) (entity.Rental, error) {
	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return entity.Rental{}, domain.ErrNotFound
		}
		s.log.Errorf("Failed to get rental for listing %d: %v", listingID, err)
		return entity.Rental{}, fmt.Errorf("failed to retrieve rental: %w", err)
	}
	return listing.Rental, nil
}

func (s *rentalService) ListRentedBy(ctx context.Context, renter string) ([]entity.Listing, error) {
	listings, err := s.listingRepo.List(ctx, repository.ListListingsParams{
		Renter:     renter,
		OnlyRented: true,
	})
	if err != nil {
		s.log.Errorf("Failed to list rentals of %s: %v", renter, err)
		return nil, fmt.Errorf("failed to list rentals: %w", err)
	}
	return listings, nil
}

func (s *rentalService) ListEvents(ctx context.Context, after int64, limit int64) ([]entity.RentalEvent, error) {
	events, err := s.eventRepo.ListAfter(ctx, after, limit)
	if err != nil {
		s.log.Errorf("Failed to list events after %d: %v", after, err)
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

func (s *rentalService) invalidateCache(ctx context.Context, listingID int64) {
	if err := s.listingCache.Delete(ctx, listingID); err != nil {
		s.log.Warnf("Failed to invalidate cached listing %d: %v", listingID, err)
	}
}

func (s *rentalService) publishEvent(ctx context.Context, event *entity.RentalEvent) {
	if event == nil {
		return
	}
	if err := s.msgPublisher.Publish(ctx, string(event.Type), event); err != nil {
		s.log.Warnf("Failed to publish %s event for listing %d: %v", event.Type, event.ListingID, err)
	}
}
