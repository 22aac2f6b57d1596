package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

// Tx is an opaque transaction handle threaded through repository calls.
// Repositories accept nil for the non-transactional path; the concrete type
// is infra-defined (pgx.Tx for Postgres).
type Tx interface{}

var NoTX Tx

// TransactionManager executes a function inside a database transaction,
// passing the handle via tx so use-case interfaces stay storage-agnostic.
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
