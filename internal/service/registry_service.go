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

type RegistryService interface {
	CreateListing(ctx context.Context, caller, title string, dailyPrice, deposit int64) (*entity.Listing, error)
	GetListing(ctx context.Context, listingID int64) (*entity.Listing, error)
	GetCount(ctx context.Context) (int64, error)
	ListAll(ctx context.Context) ([]entity.Listing, error)
}

type RegistryServiceConfig struct {
	ListingCacheTTL time.Duration
}

type registryService struct {
	listingRepo  repository.ListingRepository
	eventRepo    repository.EventRepository
	listingCache repository.ListingCache
	tx           repository.TxRunner
	msgPublisher nats.MessagePublisher
	log          logger.Logger
	cfg          RegistryServiceConfig
}

func NewRegistryService(
	listingRepo repository.ListingRepository,
	eventRepo repository.EventRepository,
	listingCache repository.ListingCache,
	tx repository.TxRunner,
	msgPublisher nats.MessagePublisher,
	log logger.Logger,
	cfg RegistryServiceConfig,
) RegistryService {
	return &registryService{
		listingRepo:  listingRepo,
		eventRepo:    eventRepo,
		listingCache: listingCache,
		tx:           tx,
		msgPublisher: msgPublisher,
		log:          log,
		cfg:          cfg,
	}
}

func (s *registryService) CreateListing(ctx context.Context, caller, title string, dailyPrice, deposit int64) (*entity.Listing, error) {
	s.log.Infof("Creating listing %q for owner %s", title, caller)

	// Validate before touching storage; a rejected listing leaves no trace.
	listing, err := entity.NewListing(caller, title, dailyPrice, deposit)
	if err != nil {
		s.log.Warnf("Rejected listing %q from %s: %v", title, caller, err)
		return nil, err
	}

	var event *entity.RentalEvent
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		listingID, errCreate := s.listingRepo.Create(txCtx, repository.CreateListingParams{
			Owner:      listing.Owner,
			Title:      listing.Title,
			DailyPrice: listing.DailyPrice,
			Deposit:    listing.Deposit,
		})
		if errCreate != nil {
			return fmt.Errorf("failed to save listing: %w", errCreate)
		}
		listing.ID = listingID

		event, errCreate = s.eventRepo.Append(txCtx, repository.AppendEventParams{
			Type:      entity.EventListingCreated,
			ListingID: listingID,
			Actor:     listing.Owner,
		})
		return errCreate
	})
	if err != nil {
		s.log.Errorf("Failed to create listing %q for %s: %v", title, caller, err)
		return nil, err
	}

	s.publishEvent(ctx, event)
	s.log.Infof("Listing %d created by %s", listing.ID, caller)
	return listing, nil
}

func (s *registryService) GetListing(ctx context.Context, listingID int64) (*entity.Listing, error) {
	if cached, err := s.listingCache.Get(ctx, listingID); err == nil {
		return cached, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		s.log.Warnf("Listing cache read failed for %d: %v", listingID, err)
	}

	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		s.log.Errorf("Failed to get listing %d: %v", listingID, err)
		return nil, fmt.Errorf("failed to retrieve listing: %w", err)
	}

	if err := s.listingCache.Set(ctx, listing, s.cfg.ListingCacheTTL); err != nil {
		s.log.Warnf("Failed to cache listing %d: %v", listingID, err)
	}
	return listing, nil
}

func (s *registryService) GetCount(ctx context.Context) (int64, error) {
	count, err := s.listingRepo.Count(ctx)
	if err != nil {
		s.log.Errorf("Failed to count listings: %v", err)
		return 0, fmt.Errorf("failed to count listings: %w", err)
	}
	return count, nil
}

func (s *registryService) ListAll(ctx context.Context) ([]entity.Listing, error) {
	listings, err := s.listingRepo.List(ctx, repository.ListListingsParams{})
	if err != nil {
		s.log.Errorf("Failed to enumerate listings: %v", err)
		return nil, fmt.Errorf("failed to enumerate listings: %w", err)
	}
	return listings, nil
}

func (s *registryService) publishEvent(ctx context.Context, event *entity.RentalEvent) {
	if event == nil {
		return
	}
	if err := s.msgPublisher.Publish(ctx, string(event.Type), event); err != nil {
		s.log.Warnf("Failed to publish %s event for listing %d: %v", event.Type, event.ListingID, err)
	}
}
