package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/rental-service/internal/app/config"
	"github.com/Abdurahmanit/GroupProject/rental-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/rental-service/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	listingCollectionName = "listings"
	listingCounterName    = "listings"
)

type listingRepository struct {
	db         *mongo.Database
	collection *mongo.Collection
}

func NewListingRepository(client *mongo.Client, cfg config.MongoDBConfig) repository.ListingRepository {
	database := client.Database(cfg.Database)
	return &listingRepository{
		db:         database,
		collection: database.Collection(listingCollectionName),
	}
}

func (r *listingRepository) Create(ctx context.Context, params repository.CreateListingParams) (int64, error) {
	seq, err := nextSequence(ctx, r.db, listingCounterName)
	if err != nil {
		return 0, err
	}
	// Counter starts at 1, listing ids start at 0.
	id := seq - 1

	now := time.Now().UTC()
	listing := entity.Listing{
		ID:          id,
		Owner:       params.Owner,
		Title:       params.Title,
		DailyPrice:  params.DailyPrice,
		Deposit:     params.Deposit,
		IsAvailable: true,
		Rental:      entity.Rental{},
		CreatedAt:   now,
		UpdatedAt:   now,
		Version:     1,
	}

	if _, err := r.collection.InsertOne(ctx, listing); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return 0, repository.ErrAlreadyExists
		}
		return 0, fmt.Errorf("failed to create listing: %w", err)
	}
	return id, nil
}

func (r *listingRepository) GetByID(ctx context.Context, listingID int64) (*entity.Listing, error) {
	var listing entity.Listing
	err := r.collection.FindOne(ctx, bson.M{"_id": listingID}).Decode(&listing)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get listing %d: %w", listingID, err)
	}
	return &listing, nil
}

func (r *listingRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count listings: %w", err)
	}
	return count, nil
}

func (r *listingRepository) List(ctx context.Context, params repository.ListListingsParams) ([]entity.Listing, error) {
	filter := bson.M{}
	if params.Renter != "" {
		filter["rental.renter"] = params.Renter
	}
	if params.OnlyAvailable {
		filter["is_available"] = true
	}
	if params.OnlyRented {
		filter["is_available"] = false
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	defer cursor.Close(ctx)

	var listings []entity.Listing
	if err = cursor.All(ctx, &listings); err != nil {
		return nil, fmt.Errorf("failed to decode listed listings: %w", err)
	}
	return listings, nil
}

func (r *listingRepository) Rent(ctx context.Context, params repository.RentListingParams) error {
	filter := bson.M{
		"_id":           params.ListingID,
		"is_available":  true,
		"rental.renter": entity.EmptyRenter,
		"version":       params.Version,
	}
	update := bson.M{
		"$set": bson.M{
			"is_available": false,
			"rental": entity.Rental{
				Renter:     params.Renter,
				StartTime:  params.StartTime,
				AmountHeld: params.AmountHeld,
			},
			"updated_at": time.Now().UTC(),
		},
		"$inc": bson.M{"version": 1},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to rent listing %d: %w", params.ListingID, err)
	}
	if result.MatchedCount == 0 {
		return r.diagnoseMiss(ctx, params.ListingID, params.Version)
	}
	return nil
}

func (r *listingRepository) ClearRental(ctx context.Context, params repository.ClearRentalParams) error {
	filter := bson.M{
		"_id":           params.ListingID,
		"is_available":  false,
		"rental.renter": params.Renter,
		"version":       params.Version,
	}
	update := bson.M{
		"$set": bson.M{
			"is_available": true,
			"rental":       entity.Rental{},
			"updated_at":   time.Now().UTC(),
		},
		"$inc": bson.M{"version": 1},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to clear rental on listing %d: %w", params.ListingID, err)
	}
	if result.MatchedCount == 0 {
		return r.diagnoseMiss(ctx, params.ListingID, params.Version)
	}
	return nil
}

func (r *listingRepository) diagnoseMiss(ctx context.Context, listingID int64, expectedVersion int) error {
	var existing entity.Listing
	errFind := r.collection.FindOne(ctx, bson.M{"_id": listingID}).Decode(&existing)
	if errors.Is(errFind, mongo.ErrNoDocuments) {
		return repository.ErrNotFound
	}
	if errFind == nil && existing.Version != expectedVersion {
		return repository.ErrOptimisticLock
	}
	return repository.ErrUpdateFailed
}
