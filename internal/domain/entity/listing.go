package entity

import (
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/rental-service/internal/domain"
)

// EmptyRenter is the sentinel identity denoting "no active rental".
const EmptyRenter = ""

type Rental struct {
	Renter     string    `bson:"renter" json:"renter"`
	StartTime  time.Time `bson:"start_time,omitempty" json:"start_time,omitempty"`
	AmountHeld int64     `bson:"amount_held" json:"amount_held"`
}

func (r Rental) IsActive() bool {
	return r.Renter != EmptyRenter
}

// Listing is a catalog entry with its rental state embedded, so the
// available/rented transition is a single-document update.
// Amounts are in the smallest indivisible unit of the settlement currency.
type Listing struct {
	ID          int64     `bson:"_id" json:"id"`
	Owner       string    `bson:"owner" json:"owner"`
	Title       string    `bson:"title" json:"title"`
	DailyPrice  int64     `bson:"daily_price" json:"daily_price"`
	Deposit     int64     `bson:"deposit" json:"deposit"`
	IsAvailable bool      `bson:"is_available" json:"is_available"`
	Rental      Rental    `bson:"rental" json:"rental"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
	Version     int       `bson:"version" json:"-"`
}

func NewListing(owner, title string, dailyPrice, deposit int64) (*Listing, error) {
	if owner == EmptyRenter {
		return nil, fmt.Errorf("%w: owner cannot be empty", domain.ErrInvalidInput)
	}
	if title == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", domain.ErrInvalidInput)
	}
	if dailyPrice <= 0 {
		return nil, fmt.Errorf("%w: daily price must be positive", domain.ErrInvalidInput)
	}
	if deposit < 0 {
		return nil, fmt.Errorf("%w: deposit cannot be negative", domain.ErrInvalidInput)
	}

	now := time.Now().UTC()
	return &Listing{
		Owner:       owner,
		Title:       title,
		DailyPrice:  dailyPrice,
		Deposit:     deposit,
		IsAvailable: true,
		CreatedAt:   now,
		UpdatedAt:   now,
		Version:     1,
	}, nil
}

// RequiredPayment is the minimum amount a renter must attach: the first
// day's rent plus the deposit.
func (l *Listing) RequiredPayment() int64 {
	return l.DailyPrice + l.Deposit
}

// StartRental moves the listing from Available to Rented. The attached
// amount must already have been validated and taken into custody.
func (l *Listing) StartRental(renter string, startTime time.Time, amountHeld int64) error {
	if !l.IsAvailable || l.Rental.IsActive() {
		return domain.ErrAlreadyRented
	}
	if renter == EmptyRenter {
		return fmt.Errorf("%w: renter cannot be empty", domain.ErrInvalidInput)
	}
	l.Rental = Rental{
		Renter:     renter,
		StartTime:  startTime,
		AmountHeld: amountHeld,
	}
	l.IsAvailable = false
	l.UpdatedAt = time.Now().UTC()
	l.Version++
	return nil
}

// EndRental moves the listing from Rented back to Available and returns the
// rental that just ended. Only the current renter may end it. The caller is
// responsible for clearing state before staging any outbound transfer.
func (l *Listing) EndRental(caller string) (Rental, error) {
	if l.IsAvailable || !l.Rental.IsActive() {
		return Rental{}, domain.ErrNotRented
	}
	if l.Rental.Renter != caller {
		return Rental{}, domain.ErrUnauthorized
	}
	ended := l.Rental
	l.Rental = Rental{}
	l.IsAvailable = true
	l.UpdatedAt = time.Now().UTC()
	l.Version++
	return ended, nil
}
