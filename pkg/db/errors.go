package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// IsUniqueViolation reports whether err is a unique constraint failure. When
// constraintName is set the violated constraint must match it.
func IsUniqueViolation(err error, constraintName string) bool {
	return isViolation(err, pgerrcode.UniqueViolation, "UNIQUE constraint failed", constraintName)
}

// IsForeignKeyViolation reports whether err is a foreign key failure.
func IsForeignKeyViolation(err error, constraintName string) bool {
	return isViolation(err, pgerrcode.ForeignKeyViolation, "FOREIGN KEY constraint failed", constraintName)
}

func isViolation(err error, pgCode, sqliteMessage, constraintName string) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != pgCode {
			return false
		}
		return constraintName == "" || pgErr.ConstraintName == constraintName
	}
	// sqlite does not name the constraint
	return strings.Contains(err.Error(), sqliteMessage)
}
