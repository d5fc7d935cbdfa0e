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
	eventCollectionName = "events"
	eventCounterName    = "events"

	defaultEventPageSize = 100
)

type eventRepository struct {
	db         *mongo.Database
	collection *mongo.Collection
}

func NewEventRepository(client *mongo.Client, cfg config.MongoDBConfig) repository.EventRepository {
	database := client.Database(cfg.Database)
	return &eventRepository{
		db:         database,
		collection: database.Collection(eventCollectionName),
	}
}

func (r *eventRepository) Append(ctx context.Context, params repository.AppendEventParams) (*entity.RentalEvent, error) {
	seq, err := nextSequence(ctx, r.db, eventCounterName)
	if err != nil {
		return nil, err
	}

	event := entity.RentalEvent{
		Seq:         seq,
		Type:        params.Type,
		ListingID:   params.ListingID,
		Actor:       params.Actor,
		AmountHeld:  params.AmountHeld,
		Settlement:  params.Settlement,
		CommittedAt: time.Now().UTC(),
	}
	if _, err := r.collection.InsertOne(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to append event seq %d: %w", seq, err)
	}
	return &event, nil
}

func (r *eventRepository) ListAfter(ctx context.Context, after int64, limit int64) ([]entity.RentalEvent, error) {
	if limit <= 0 {
		limit = defaultEventPageSize
	}
	findOptions := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$gt": after}}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list events after %d: %w", after, err)
	}
	defer cursor.Close(ctx)

	var events []entity.RentalEvent
	if err = cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode events: %w", err)
	}
	return events, nil
}

func (r *eventRepository) LatestByListing(ctx context.Context, listingID int64, eventType entity.EventType) (*entity.RentalEvent, error) {
	findOptions := options.FindOne().SetSort(bson.D{{Key: "_id", Value: -1}})

	var event entity.RentalEvent
	err := r.collection.FindOne(ctx, bson.M{"listing_id": listingID, "type": eventType}, findOptions).Decode(&event)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get latest %s event for listing %d: %w", eventType, listingID, err)
	}
	return &event, nil
}
