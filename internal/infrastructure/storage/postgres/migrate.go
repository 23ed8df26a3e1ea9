package postgres

import (
	"fmt"

	"github.com/pressly/goose/v3"

	// database/sql driver for goose.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Migrate applies pending goose migrations from dir.
func Migrate(dsn, dir string) error {
	db, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open database for migrations: %w", err)
	}
	defer db.Close()

	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
