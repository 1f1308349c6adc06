package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// ErrNotFound is returned when no row matched the target id, including inserts
// whose parent row does not exist.
var ErrNotFound = errors.New("record not found")

const (
	pgForeignKeyViolation    = "23503"
	mysqlForeignKeyViolation = 1452
)

// IsForeignKeyViolation reports whether err is a referential-integrity failure
// raised by any of the supported drivers.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlForeignKeyViolation
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key constraint")
}

// translate maps driver errors onto the store's sentinels. Anything else is
// returned unchanged and treated as a store failure by callers.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) || IsForeignKeyViolation(err) {
		return fmt.Errorf("%s: %w", op, errors.Join(ErrNotFound, err))
	}
	return fmt.Errorf("%s: %w", op, err)
}
