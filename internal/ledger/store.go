// Package ledger holds every SQL statement the trade-result frames
// execute against the brokerage schema. Methods are scoped to a caller
// supplied transaction so one pgx.Tx can cover any number of frames.
package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

var ErrNotFound = errors.New("not found")

type Store struct{}

func NewStore() *Store {
	return &Store{}
}

// Now reads the database clock. Lot acquisition timestamps must order
// consistently across concurrent writers, so the engine never uses the
// application clock for them.
func (s *Store) Now(ctx context.Context, tx pgx.Tx) (time.Time, error) {
	var now time.Time
	err := tx.QueryRow(ctx, "select now()::timestamp(0)").Scan(&now)
	return now, err
}
