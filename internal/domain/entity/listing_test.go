package entity

import (
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/rental-service/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestNewListing(t *testing.T) {
	listing, err := NewListing("owner1", "Cordless drill", 10_000_000, 50_000_000)

	assert.NoError(t, err)
	assert.True(t, listing.IsAvailable)
	assert.False(t, listing.Rental.IsActive())
	assert.Equal(t, int64(60_000_000), listing.RequiredPayment())
	assert.Equal(t, 1, listing.Version)
}

func TestNewListing_Validation(t *testing.T) {
	cases := []struct {
		name       string
		owner      string
		title      string
		dailyPrice int64
		deposit    int64
	}{
		{"empty owner", "", "Cordless drill", 10_000_000, 50_000_000},
		{"empty title", "owner1", "", 10_000_000, 50_000_000},
		{"zero daily price", "owner1", "Cordless drill", 0, 50_000_000},
		{"negative deposit", "owner1", "Cordless drill", 10_000_000, -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			listing, err := NewListing(tc.owner, tc.title, tc.dailyPrice, tc.deposit)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Nil(t, listing)
		})
	}
}

func TestListing_StartRental(t *testing.T) {
	listing, _ := NewListing("owner1", "Cordless drill", 10_000_000, 50_000_000)
	start := time.Now().UTC()

	err := listing.StartRental("renter1", start, 60_000_000)

	assert.NoError(t, err)
	assert.False(t, listing.IsAvailable)
	assert.True(t, listing.Rental.IsActive())
	assert.Equal(t, "renter1", listing.Rental.Renter)
	assert.Equal(t, int64(60_000_000), listing.Rental.AmountHeld)
	assert.Equal(t, 2, listing.Version)
}

func TestListing_StartRental_AlreadyRented(t *testing.T) {
	listing, _ := NewListing("owner1", "Cordless drill", 10_000_000, 50_000_000)
	start := time.Now().UTC()
	assert.NoError(t, listing.StartRental("renter1", start, 60_000_000))

	err := listing.StartRental("renter2", start, 60_000_000)

	assert.ErrorIs(t, err, domain.ErrAlreadyRented)
	assert.Equal(t, "renter1", listing.Rental.Renter)
}

func TestListing_EndRental(t *testing.T) {
	listing, _ := NewListing("owner1", "Cordless drill", 10_000_000, 50_000_000)
	start := time.Now().UTC()
	assert.NoError(t, listing.StartRental("renter1", start, 60_000_000))

	ended, err := listing.EndRental("renter1")

	assert.NoError(t, err)
	assert.Equal(t, "renter1", ended.Renter)
	assert.Equal(t, int64(60_000_000), ended.AmountHeld)
	assert.True(t, listing.IsAvailable)
	assert.False(t, listing.Rental.IsActive())
	assert.Equal(t, 3, listing.Version)
}

func TestListing_EndRental_WrongCaller(t *testing.T) {
	listing, _ := NewListing("owner1", "Cordless drill", 10_000_000, 50_000_000)
	assert.NoError(t, listing.StartRental("renter1", time.Now().UTC(), 60_000_000))

	_, err := listing.EndRental("someone-else")

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.True(t, listing.Rental.IsActive())
}

func TestListing_EndRental_NotRented(t *testing.T) {
	listing, _ := NewListing("owner1", "Cordless drill", 10_000_000, 50_000_000)

	_, err := listing.EndRental("renter1")

	assert.ErrorIs(t, err, domain.ErrNotRented)
}

func TestListing_RentAgainAfterReturn(t *testing.T) {
	listing, _ := NewListing("owner1", "Cordless drill", 10_000_000, 50_000_000)
	start := time.Now().UTC()
	assert.NoError(t, listing.StartRental("renter1", start, 60_000_000))
	_, err := listing.EndRental("renter1")
	assert.NoError(t, err)

	err = listing.StartRental("renter2", start.Add(time.Hour), 60_000_000)

	assert.NoError(t, err)
	assert.Equal(t, "renter2", listing.Rental.Renter)
}
