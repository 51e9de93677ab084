package sequence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Human-readable identifier prefixes and their sequence widths.
const (
	OrderPrefix  = "ORD"
	OrderWidth   = 4
	LedgerPrefix = "TXN"
	LedgerWidth  = 6
)

// ErrCollision reports that a generated identifier already exists. Callers
// retry allocation inside the same transaction scope; it is never surfaced
// to API clients.
var ErrCollision = errors.New("identifier collision")

// Stem returns the date-scoped identifier stem, e.g. "ORD250901".
func Stem(prefix string, t time.Time) string {
	return fmt.Sprintf("%s%02d%02d%02d", prefix, t.Year()%100, int(t.Month()), t.Day())
}

// Format renders a full identifier from a stem and sequence number.
func Format(stem string, seq int64, width int) string {
	return fmt.Sprintf("%s%0*d", stem, width, seq)
}

// Next allocates the next sequence number for the given stem as a single
// atomic upsert. Two concurrent callers on the same stem can never observe
// the same value: the DO UPDATE increment is serialized by the row lock on
// id_sequences. When run inside the caller's transaction, an aborted
// settlement rolls the counter back together with the entity insert.
func Next(ctx context.Context, q sqlx.ExtContext, stem string) (int64, error) {
	var seq int64
	err := sqlx.GetContext(ctx, q, &seq, `
		INSERT INTO id_sequences (stem, value)
		VALUES ($1, 1)
		ON CONFLICT (stem) DO UPDATE SET value = id_sequences.value + 1
		RETURNING value
	`, stem)
	if err != nil {
		return 0, err
	}
	return seq, nil
}

// NextID allocates and formats the next identifier for prefix at time t.
func NextID(ctx context.Context, q sqlx.ExtContext, prefix string, width int, t time.Time) (string, error) {
	stem := Stem(prefix, t)
	seq, err := Next(ctx, q, stem)
	if err != nil {
		return "", err
	}
	return Format(stem, seq, width), nil
}

// IsUniqueViolation reports whether err is a Postgres unique constraint
// violation. The unique index on order_number / transaction_id backs up the
// counter: if anything ever inserts an identifier out of band, the insert
// fails here instead of silently colliding.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
