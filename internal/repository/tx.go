package repository

import "context"

// TxRunner executes fn as one all-or-nothing unit. Every repository call made
// with the context passed to fn joins the same transaction; if fn returns an
// error, every staged state change and fund movement is discarded.
type TxRunner interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
