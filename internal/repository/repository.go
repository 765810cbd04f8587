package repository

import "github.com/jackc/pgx/v5"

// ErrNotFound is returned by every repository when no row matches.
// It aliases pgx.ErrNoRows so Postgres and in-memory stores report absence the same way.
var ErrNotFound = pgx.ErrNoRows
