// Package memory provides map-backed repositories used by unit tests and by
// the API when no Postgres DSN is configured.
package memory

import (
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation mirrors the error Postgres raises for a unique index clash,
// so callers map both stores through the same path.
func uniqueViolation(constraint string) error {
	return &pgconn.PgError{
		Code:           "23505",
		Message:        "duplicate key value violates unique constraint",
		ConstraintName: constraint,
	}
}

var now = func() time.Time { return time.Now().UTC() }

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
