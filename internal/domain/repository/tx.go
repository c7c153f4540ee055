package repository

import "context"

// TxManager runs a function inside a single storage transaction. The
// transaction is carried on the returned context; repository calls made
// with that context join the transaction, so everything inside fn
// commits together or not at all.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
