package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrAlreadyExists is returned when an insert hits a unique constraint.
// The constraint is the authoritative safety net for races between
// concurrent check-then-insert sequences.
var ErrAlreadyExists = errors.New("record already exists")

// uniqueViolation is the postgres error code for unique constraint hits.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
