package turso

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/tursodatabase/go-libsql"

	"github.com/emiliopalmerini/polymer-explorer/internal/infrastructure/database"
	"github.com/emiliopalmerini/polymer-explorer/internal/migrate"
)

// Connect opens a libsql database without touching its schema.
// A URL without a scheme is treated as a local file path.
func Connect(databaseURL, authToken string) (*sql.DB, error) {
	if !strings.Contains(databaseURL, ":") {
		databaseURL = "file:" + databaseURL
	}

	client, err := database.New(databaseURL, authToken)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return client.DB, nil
}

// Open connects to a libsql database and applies pending migrations.
func Open(ctx context.Context, databaseURL, authToken string) (*sql.DB, error) {
	db, err := Connect(databaseURL, authToken)
	if err != nil {
		return nil, err
	}

	if err := migrate.RunAll(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}
