package db

import (
	"strings"

	"github.com/teranos/rankd/errors"
)

// ErrDatabaseClosed is returned when a selection is recorded after the
// history store was closed during shutdown.
var ErrDatabaseClosed = errors.New("database is closed")

// IsDatabaseClosed reports whether err is ErrDatabaseClosed or a raw driver
// error for a closed database, which the driver does not expose as a type.
func IsDatabaseClosed(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrDatabaseClosed) {
		return true
	}

	errMsg := err.Error()
	return strings.Contains(errMsg, "database is closed") ||
		strings.Contains(errMsg, "sql: database is closed")
}
