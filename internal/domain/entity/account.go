package entity

import "time"

// CustodyAccountID is the escrow account that holds every active rental's
// funds between payment and settlement. Its balance must always equal the
// sum of amount_held over all rented listings.
const CustodyAccountID = "escrow:custody"

type EntryType string

const (
	EntryDebit  EntryType = "DEBIT"
	EntryCredit EntryType = "CREDIT"
)

type Account struct {
	ID        string    `bson:"_id" json:"id"`
	Balance   int64     `bson:"balance" json:"balance"`
	Version   int       `bson:"version" json:"-"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Transfer is one double-entry ledger row. Every fund movement writes a
// matching DEBIT/CREDIT pair against the same transfer group.
type Transfer struct {
	ID             string    `bson:"_id" json:"id"`
	GroupID        string    `bson:"group_id" json:"group_id"`
	AccountID      string    `bson:"account_id" json:"account_id"`
	CounterAccount string    `bson:"counter_account" json:"counter_account"`
	Amount         int64     `bson:"amount" json:"amount"`
	EntryType      EntryType `bson:"entry_type" json:"entry_type"`
	Reason         string    `bson:"reason" json:"reason"`
	ListingID      int64     `bson:"listing_id" json:"listing_id"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
}

// Settlement is the final fund distribution computed at return time.
type Settlement struct {
	RentOwed     int64 `json:"rent_owed"`
	PenaltyOwed  int64 `json:"penalty_owed"`
	OwnerPayout  int64 `json:"owner_payout"`
	RenterRefund int64 `json:"renter_refund"`
}
