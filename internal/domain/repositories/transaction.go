package repositories

import "context"

// TxFn is a function that runs within a transaction
type TxFn func(ctx context.Context) error

// TransactionManager handles metadata store transactions
type TransactionManager interface {
	// ExecTx executes a function within a transaction. The transaction commits
	// if fn returns nil and rolls back otherwise.
	ExecTx(ctx context.Context, fn TxFn) error
}
