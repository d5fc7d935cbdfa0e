package repository

import (
	"context"

	"github.com/Abdurahmanit/GroupProject/rental-service/internal/domain/entity"
)

type AppendEventParams struct {
	Type       entity.EventType
	ListingID  int64
	Actor      string
	AmountHeld int64
	Settlement *entity.Settlement
}

type EventRepository interface {
	// Append assigns the next commit sequence number and stores the event.
	Append(ctx context.Context, params AppendEventParams) (*entity.RentalEvent, error)
	// ListAfter returns events with seq > after, in sequence order.
	ListAfter(ctx context.Context, after int64, limit int64) ([]entity.RentalEvent, error)
	// LatestByListing returns the most recent event of the given type for a
	// listing, or ErrNotFound.
	LatestByListing(ctx context.Context, listingID int64, eventType entity.EventType) (*entity.RentalEvent, error)
}
