package repository

import "errors"

var (
	// ErrHasTransactions is returned when deleting a user or product that
	// still has ledger history. Cascading deletes are deliberately
	// disallowed outside the explicit bulk purge.
	ErrHasTransactions = errors.New("cannot delete: transaction history exists")

	// ErrStockDepleted is returned by the guarded stock decrement when a
	// tracked count is already at zero.
	ErrStockDepleted = errors.New("stock depleted")
)
