package mocks

import (
	"context"

	"github.com/blokmap/blokmap-api/internal/store"
)

// MockTransactor implements store.Transactor without a database. The
// function runs with a nil *sql.Tx, which the mock stores ignore.
type MockTransactor struct {
	// RunInTransactionFn allows test cases to replace the default behavior
	RunInTransactionFn func(ctx context.Context, fn store.TxFn) error

	// Calls counts transactions started
	Calls int
}

// Ensure MockTransactor implements store.Transactor interface
var _ store.Transactor = (*MockTransactor)(nil)

// RunInTransaction implements the store.Transactor interface
func (m *MockTransactor) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	m.Calls++
	if m.RunInTransactionFn != nil {
		return m.RunInTransactionFn(ctx, fn)
	}
	return fn(ctx, nil)
}
