package entity

import "time"

type EventType string

const (
	EventListingCreated EventType = "listing.created"
	EventRentalStarted  EventType = "rental.started"
	EventRentalReturned EventType = "rental.returned"
)

// RentalEvent is one entry of the commit-ordered event log the read side
// consumes. Seq is assigned atomically with the state change it describes.
type RentalEvent struct {
	Seq         int64       `bson:"_id" json:"seq"`
	Type        EventType   `bson:"type" json:"type"`
	ListingID   int64       `bson:"listing_id" json:"listing_id"`
	Actor       string      `bson:"actor" json:"actor"`
	AmountHeld  int64       `bson:"amount_held,omitempty" json:"amount_held,omitempty"`
	Settlement  *Settlement `bson:"settlement,omitempty" json:"settlement,omitempty"`
	CommittedAt time.Time   `bson:"committed_at" json:"committed_at"`
}
