package domain

import "errors"

// Error kinds surfaced by the rental operations. Every failed operation
// aborts with zero state mutation and zero fund movement.
var (
	ErrInvalidInput        = errors.New("invalid listing parameters")
	ErrNotFound            = errors.New("listing not found")
	ErrAlreadyRented       = errors.New("listing is already rented")
	ErrInsufficientPayment = errors.New("payment below daily price plus deposit")
	ErrNotRented           = errors.New("listing has no active rental")
	ErrUnauthorized        = errors.New("caller is not the current renter")
)
