// Package repository defines the GORM-backed data access layer and the
// error values shared across repositories.  These sentinel values allow
// higher layers such as handlers to distinguish between failure scenarios
// with errors.Is.
package repository

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrNotFound is the root of every "no such row" error.  Per-entity
// variants wrap it so handlers can report which entity is missing while
// still matching errors.Is(err, ErrNotFound).
var ErrNotFound = errors.New("not found")

var (
	ErrUserNotFound         = fmt.Errorf("user %w", ErrNotFound)
	ErrProductNotFound      = fmt.Errorf("product %w", ErrNotFound)
	ErrOrderNotFound        = fmt.Errorf("order %w", ErrNotFound)
	ErrSupplierNotFound     = fmt.Errorf("supplier %w", ErrNotFound)
	ErrLinkRequestNotFound  = fmt.Errorf("link request %w", ErrNotFound)
	ErrTeamMemberNotFound   = fmt.Errorf("team member %w", ErrNotFound)
	ErrConversationNotFound = fmt.Errorf("conversation %w", ErrNotFound)
	ErrMessageNotFound      = fmt.Errorf("message %w", ErrNotFound)
	ErrRefreshNotFound      = fmt.Errorf("refresh token %w", ErrNotFound)
)

// ErrEmailExists is returned when a user insert or update collides with
// the unique email index.
var ErrEmailExists = errors.New("email already exists")

// ErrDuplicate is returned for any other unique-key collision.
var ErrDuplicate = errors.New("duplicate")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a delete or update cannot be performed
// because of dependent rows, such as deleting a product that appears on
// order items. Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")

// isDuplicate reports whether err is a unique-key violation on either
// supported driver.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// isForeignKey reports whether err is a foreign-key violation.
func isForeignKey(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && (myErr.Number == 1451 || myErr.Number == 1452) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

// translate maps driver and GORM errors onto the sentinels above.
// notFound is returned for gorm.ErrRecordNotFound.
func translate(err, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	case isDuplicate(err):
		return ErrDuplicate
	case isForeignKey(err):
		return ErrConflict
	}
	return err
}
