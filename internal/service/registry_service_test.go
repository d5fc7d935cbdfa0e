package service

import (
	"context"
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/rental-service/internal/domain"
	"github.com/Abdurahmanit/GroupProject/rental-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/rental-service/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newRegistryServiceForTest(
	listingRepo *MockListingRepository,
	eventRepo *MockEventRepository,
	cache *MockListingCache,
	publisher *MockMessagePublisher,
) RegistryService {
	return NewRegistryService(listingRepo, eventRepo, cache, passthroughTxRunner{}, publisher, NewNoOpLogger(),
		RegistryServiceConfig{ListingCacheTTL: 5 * time.Minute})
}

func TestRegistryService_CreateListing_Success(t *testing.T) {
	listingRepo := new(MockListingRepository)
	eventRepo := new(MockEventRepository)
	cache := new(MockListingCache)
	publisher := new(MockMessagePublisher)
	svc := newRegistryServiceForTest(listingRepo, eventRepo, cache, publisher)

	listingRepo.On("Create", mock.Anything, repository.CreateListingParams{
		Owner:      "owner1",
		Title:      "Cordless drill",
		DailyPrice: 10_000_000,
		Deposit:    50_000_000,
	}).Return(int64(0), nil).Once()
	eventRepo.On("Append", mock.Anything, mock.MatchedBy(func(p repository.AppendEventParams) bool {
		return p.Type == entity.EventListingCreated && p.ListingID == 0 && p.Actor == "owner1"
	})).Return(&entity.RentalEvent{Seq: 1, Type: entity.EventListingCreated}, nil).Once()
	publisher.On("Publish", mock.Anything, "listing.created", mock.Anything).Return(nil).Once()

	listing, err := svc.CreateListing(context.Background(), "owner1", "Cordless drill", 10_000_000, 50_000_000)

	assert.NoError(t, err)
	assert.NotNil(t, listing)
	assert.Equal(t, int64(0), listing.ID)
	assert.True(t, listing.IsAvailable)
	assert.False(t, listing.Rental.IsActive())
	assert.Equal(t, int64(60_000_000), listing.RequiredPayment())

	listingRepo.AssertExpectations(t)
	eventRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestRegistryService_CreateListing_InvalidInput(t *testing.T) {
	listingRepo := new(MockListingRepository)
	eventRepo := new(MockEventRepository)
	cache := new(MockListingCache)
	publisher := new(MockMessagePublisher)
	svc := newRegistryServiceForTest(listingRepo, eventRepo, cache, publisher)

	cases := []struct {
		name       string
		owner      string
		title      string
		dailyPrice int64
		deposit    int64
	}{
		{"empty title", "owner1", "", 10_000_000, 50_000_000},
		{"zero daily price", "owner1", "Cordless drill", 0, 50_000_000},
		{"negative daily price", "owner1", "Cordless drill", -1, 50_000_000},
		{"negative deposit", "owner1", "Cordless drill", 10_000_000, -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			listing, err := svc.CreateListing(context.Background(), tc.owner, tc.title, tc.dailyPrice, tc.deposit)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Nil(t, listing)
		})
	}

	listingRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegistryService_GetListing_CacheHit(t *testing.T) {
	listingRepo := new(MockListingRepository)
	eventRepo := new(MockEventRepository)
	cache := new(MockListingCache)
	publisher := new(MockMessagePublisher)
	svc := newRegistryServiceForTest(listingRepo, eventRepo, cache, publisher)

	cached := availableListing(7)
	cache.On("Get", mock.Anything, int64(7)).Return(cached, nil).Once()

	listing, err := svc.GetListing(context.Background(), 7)

	assert.NoError(t, err)
	assert.Equal(t, cached, listing)
	listingRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestRegistryService_GetListing_CacheMiss(t *testing.T) {
	listingRepo := new(MockListingRepository)
	eventRepo := new(MockEventRepository)
	cache := new(MockListingCache)
	publisher := new(MockMessagePublisher)
	svc := newRegistryServiceForTest(listingRepo, eventRepo, cache, publisher)

	stored := availableListing(7)
	cache.On("Get", mock.Anything, int64(7)).Return(nil, repository.ErrNotFound).Once()
	listingRepo.On("GetByID", mock.Anything, int64(7)).Return(stored, nil).Once()
	cache.On("Set", mock.Anything, stored, 5*time.Minute).Return(nil).Once()

	listing, err := svc.GetListing(context.Background(), 7)

	assert.NoError(t, err)
	assert.Equal(t, stored, listing)
	cache.AssertExpectations(t)
}

func TestRegistryService_GetListing_NotFound(t *testing.T) {
	listingRepo := new(MockListingRepository)
	eventRepo := new(MockEventRepository)
	cache := new(MockListingCache)
	publisher := new(MockMessagePublisher)
	svc := newRegistryServiceForTest(listingRepo, eventRepo, cache, publisher)

	cache.On("Get", mock.Anything, int64(404)).Return(nil, repository.ErrNotFound).Once()
	listingRepo.On("GetByID", mock.Anything, int64(404)).Return(nil, repository.ErrNotFound).Once()

	listing, err := svc.GetListing(context.Background(), 404)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, listing)
}

func TestRegistryService_GetCount(t *testing.T) {
	listingRepo := new(MockListingRepository)
	eventRepo := new(MockEventRepository)
	cache := new(MockListingCache)
	publisher := new(MockMessagePublisher)
	svc := newRegistryServiceForTest(listingRepo, eventRepo, cache, publisher)

	listingRepo.On("Count", mock.Anything).Return(int64(3), nil).Once()

	count, err := svc.GetCount(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestRegistryService_CreateListing_PublishFailureDoesNotFail(t *testing.T) {
	listingRepo := new(MockListingRepository)
	eventRepo := new(MockEventRepository)
	cache := new(MockListingCache)
	publisher := new(MockMessagePublisher)
	svc := newRegistryServiceForTest(listingRepo, eventRepo, cache, publisher)

	listingRepo.On("Create", mock.Anything, mock.Anything).Return(int64(2), nil).Once()
	eventRepo.On("Append", mock.Anything, mock.Anything).
		Return(&entity.RentalEvent{Seq: 9, Type: entity.EventListingCreated, ListingID: 2}, nil).Once()
	publisher.On("Publish", mock.Anything, "listing.created", mock.Anything).
		Return(assert.AnError).Once()

	listing, err := svc.CreateListing(context.Background(), "owner1", "Pressure washer", 5_000_000, 20_000_000)

	assert.NoError(t, err)
	assert.NotNil(t, listing)
	assert.Equal(t, int64(2), listing.ID)
}
