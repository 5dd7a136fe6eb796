package postgres

import (
	"database/sql"

	"github.com/blokmap/blokmap-api/internal/store"
)

// NewTransactor returns a store.Transactor whose begin and commit failures
// pass through MapError, so a unique violation reported at commit still
// matches the store's duplicate sentinels.
func NewTransactor(db *sql.DB) *store.SQLTransactor {
	return store.NewSQLTransactor(db, store.WithErrorMapper(MapError))
}
