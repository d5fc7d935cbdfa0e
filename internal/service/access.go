package service

import "github.com/Abdurahmanit/GroupProject/rental-service/internal/domain/entity"

// AccessGuard holds the authorization rules of the rental operations:
// anyone may list, anyone may rent an available listing, and only the
// current renter may return. There is no administrative override.
type AccessGuard struct{}

func NewAccessGuard() AccessGuard {
	return AccessGuard{}
}

func (AccessGuard) CanRent(listing *entity.Listing) bool {
	return listing.IsAvailable
}

func (AccessGuard) CanReturn(rental entity.Rental, caller string) bool {
	return rental.IsActive() && rental.Renter == caller
}
