// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as services
// to distinguish between different failure scenarios without inspecting
// driver errors themselves.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrDuplicate is returned when an insert violates a unique key.  For movies
// and users it means a concurrent request created the same natural key first;
// callers re-read instead of failing.
var ErrDuplicate = errors.New("duplicate key")

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrMovieNotFound    = errors.New("movie not found")
	ErrReviewNotFound   = errors.New("review not found")
	ErrFavoriteNotFound = errors.New("favorite not found")
)

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// isDuplicate reports whether err is a MySQL unique-key violation.
func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}
