package mongo

import (
	"context"
	"fmt"

	"github.com/Abdurahmanit/GroupProject/rental-service/internal/repository"
	"go.mongodb.org/mongo-driver/mongo"
)

type txRunner struct {
	client *mongo.Client
}

// NewTxRunner wraps a client into the repository.TxRunner contract. Every
// repository call made with the session context joins the same multi-document
// transaction; an error from fn aborts it with no partial effects.
func NewTxRunner(client *mongo.Client) repository.TxRunner {
	return &txRunner{client: client}
}

func (r *txRunner) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start mongo session: %w", repository.ErrConnectionFailed)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx)
	})
	return err
}
