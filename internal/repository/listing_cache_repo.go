package repository

import (
	"context"
	"time"

	"github.com/Abdurahmanit/GroupProject/rental-service/internal/domain/entity"
)

type ListingCache interface {
	Get(ctx context.Context, listingID int64) (*entity.Listing, error)
	Set(ctx context.Context, listing *entity.Listing, ttl time.Duration) error
	Delete(ctx context.Context, listingID int64) error
}
