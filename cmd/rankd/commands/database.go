package commands

import (
	"database/sql"

	"github.com/teranos/rankd/am"
	"github.com/teranos/rankd/db"
	"github.com/teranos/rankd/errors"
	"github.com/teranos/rankd/logger"
)

// openDatabase opens and migrates the selection-history database. An empty
// dbPath falls back to the configured path.
func openDatabase(cfg *am.Config, dbPath string) (*sql.DB, error) {
	if dbPath == "" {
		dbPath = cfg.GetDatabasePath()
	}

	database, err := db.OpenWithMigrations(dbPath, logger.Logger.Named("db"))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database at %s", dbPath)
	}
	return database, nil
}
