package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Abdurahmanit/GroupProject/rental-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/rental-service/internal/repository"
	"github.com/redis/go-redis/v9"
)

const (
	listingCacheKeyPrefix = "listing:"
)

type listingCacheRepository struct {
	client *redis.Client
}

func NewListingCacheRepository(client *redis.Client) repository.ListingCache {
	return &listingCacheRepository{
		client: client,
	}
}

func (r *listingCacheRepository) getListingKey(listingID int64) string {
	return listingCacheKeyPrefix + strconv.FormatInt(listingID, 10)
}

func (r *listingCacheRepository) Get(ctx context.Context, listingID int64) (*entity.Listing, error) {
	key := r.getListingKey(listingID)
	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get listing %d from redis: %w", listingID, err)
	}

	var listing entity.Listing
	if err := json.Unmarshal(val, &listing); err != nil {
		_ = r.Delete(ctx, listingID)
		return nil, fmt.Errorf("failed to unmarshal cached listing %d: %w", listingID, err)
	}
	return &listing, nil
}

func (r *listingCacheRepository) Set(ctx context.Context, listing *entity.Listing, ttl time.Duration) error {
	if listing == nil {
		return errors.New("cannot cache nil listing")
	}
	key := r.getListingKey(listing.ID)

	data, err := json.Marshal(listing)
	if err != nil {
		return fmt.Errorf("failed to marshal listing %d: %w", listing.ID, err)
	}

	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set listing %d to redis: %w", listing.ID, err)
	}
	return nil
}

func (r *listingCacheRepository) Delete(ctx context.Context, listingID int64) error {
	key := r.getListingKey(listingID)
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete listing %d from redis: %w", listingID, err)
	}
	return nil
}
