package main

import (
	"log/slog"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/joestump/joe-stock/internal/config"
	"github.com/joestump/joe-stock/internal/db"
)

// env is the configuration, logger and open database shared by subcommands.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *sqlx.DB
}

// openEnv loads config and opens the database. When migrate is set, pending
// migrations are applied before returning.
func openEnv(migrate bool) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := config.NewLogger(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	database, err := db.New(cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		return nil, err
	}
	if migrate {
		if err := db.Migrate(database, cfg.DB.Driver); err != nil {
			_ = database.Close()
			return nil, err
		}
	}
	return &env{cfg: cfg, logger: logger, db: database}, nil
}

func (e *env) Close() error { return e.db.Close() }
