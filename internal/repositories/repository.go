package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrConflict reports a unique constraint violation.
	ErrConflict = errors.New("unique constraint violation")
	// ErrNotFound is returned by mutations that matched no live row.
	ErrNotFound = errors.New("record not found")
)

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// execOne runs a mutation that must touch exactly one row.
func execOne(ctx context.Context, db *sql.DB, q string, args ...interface{}) error {
	res, err := db.ExecContext(ctx, q, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullInt(p *int) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
