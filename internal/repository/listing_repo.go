package repository

import (
	"context"
	"time"

	"github.com/Abdurahmanit/GroupProject/rental-service/internal/domain/entity"
)

type CreateListingParams struct {
	Owner      string
	Title      string
	DailyPrice int64
	Deposit    int64
}

// RentListingParams carries the full availability precondition: the update
// must match the listing id, is_available == true and the expected version,
// or fail without touching the document.
type RentListingParams struct {
	ListingID  int64
	Renter     string
	StartTime  time.Time
	AmountHeld int64
	Version    int
}

// ClearRentalParams flips the listing back to available and resets the
// rental to the empty sentinel, guarded by the current renter and version.
type ClearRentalParams struct {
	ListingID int64
	Renter    string
	Version   int
}

type ListListingsParams struct {
	Renter        string
	OnlyAvailable bool
	OnlyRented    bool
}

type ListingRepository interface {
	// Create appends a new listing and returns its dense, monotonically
	// assigned id (first id is 0). Ids are never reused.
	Create(ctx context.Context, params CreateListingParams) (int64, error)
	GetByID(ctx context.Context, listingID int64) (*entity.Listing, error)
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context, params ListListingsParams) ([]entity.Listing, error)
	Rent(ctx context.Context, params RentListingParams) error
	ClearRental(ctx context.Context, params ClearRentalParams) error
}
