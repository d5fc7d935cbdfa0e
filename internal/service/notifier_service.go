package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Abdurahmanit/GroupProject/rental-service/internal/adapter/email"
	"github.com/Abdurahmanit/GroupProject/rental-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/rental-service/internal/platform/logger"
)

// Notifier tells a listing owner about rental activity. Notification
// failures never affect the committed operation.
type Notifier interface {
	NotifyRented(ctx context.Context, listing *entity.Listing, renter string)
	NotifyReturned(ctx context.Context, listing *entity.Listing, renter string, settlement *entity.Settlement)
}

type emailNotifier struct {
	sender email.EmailSender
	log    logger.Logger
}

func NewEmailNotifier(sender email.EmailSender, log logger.Logger) Notifier {
	return &emailNotifier{
		sender: sender,
		log:    log,
	}
}

// Identities double as notification addresses project-wide; owners
// registered with something that is not an address are skipped.
func (n *emailNotifier) address(owner string) (string, bool) {
	if strings.Contains(owner, "@") {
		return owner, true
	}
	return "", false
}

func (n *emailNotifier) NotifyRented(ctx context.Context, listing *entity.Listing, renter string) {
	addr, ok := n.address(listing.Owner)
	if !ok {
		n.log.Debugf("Owner %s has no notification address, skipping rented email", listing.Owner)
		return
	}
	subject := fmt.Sprintf("Your listing %q was rented", listing.Title)
	body := fmt.Sprintf("Listing %d (%q) was rented by %s.\n%d is held in escrow for the rental.\n",
		listing.ID, listing.Title, renter, listing.Rental.AmountHeld)
	if err := n.sender.Send(ctx, []string{addr}, subject, body); err != nil {
		n.log.Warnf("Failed to notify owner %s about rental of listing %d: %v", listing.Owner, listing.ID, err)
	}
}

func (n *emailNotifier) NotifyReturned(ctx context.Context, listing *entity.Listing, renter string, settlement *entity.Settlement) {
	addr, ok := n.address(listing.Owner)
	if !ok {
		n.log.Debugf("Owner %s has no notification address, skipping returned email", listing.Owner)
		return
	}
	subject := fmt.Sprintf("Your listing %q was returned", listing.Title)
	body := fmt.Sprintf("Listing %d (%q) was returned by %s.\nRent: %d\nLate penalty: %d\nPaid out to you: %d\n",
		listing.ID, listing.Title, renter, settlement.RentOwed, settlement.PenaltyOwed, settlement.OwnerPayout)
	if err := n.sender.Send(ctx, []string{addr}, subject, body); err != nil {
		n.log.Warnf("Failed to notify owner %s about return of listing %d: %v", listing.Owner, listing.ID, err)
	}
}

// NoOpNotifier is used when SMTP is not configured.
type NoOpNotifier struct{}

func (NoOpNotifier) NotifyRented(ctx context.Context, listing *entity.Listing, renter string) {}
func (NoOpNotifier) NotifyReturned(ctx context.Context, listing *entity.Listing, renter string, settlement *entity.Settlement) {
}
