package repositories

import (
	"errors"

	"github.com/jackc/pgconn"
)

const uniqueViolation = "23505"

// isUniqueViolation reports whether err is a unique-constraint failure,
// optionally restricted to one constraint/index name.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
