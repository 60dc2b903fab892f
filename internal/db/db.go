// Package db opens the local key/value database that keeps the session token
// between runs. Postgres URLs use lib/pq, anything else is a sqlite3 DSN.
package db

import (
	"context"
	"embed"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrations embed.FS

// goose keeps its dialect and base FS in package globals
var gooseMu sync.Mutex

// redactDSN returns a copy of the DSN with password replaced by **** for logging.
func redactDSN(dsn string) string {
	if !isPostgres(dsn) {
		return dsn
	}
	u, err := url.Parse(dsn)
	if err != nil {
		return "(invalid TOKEN_DSN)"
	}
	if u.User != nil {
		user := u.User.Username()
		u.User = url.UserPassword(user, "****")
	}
	return u.String()
}

func isPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// Driver returns the database/sql driver name for a DSN
func Driver(dsn string) string {
	if isPostgres(dsn) {
		return "postgres"
	}
	return "sqlite3"
}

// Open connects to the database, verifies the connection and applies the
// embedded migrations.
func Open(ctx context.Context, dsn string, logger *zap.Logger) (*sqlx.DB, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("TOKEN_DSN is empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	driver := Driver(dsn)
	logger.Info("opening token store", zap.String("driver", driver), zap.String("dsn", redactDSN(dsn)))

	database, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if driver == "sqlite3" {
		// a single writer avoids SQLITE_BUSY on concurrent saves
		database.SetMaxOpenConns(1)
	} else {
		database.SetMaxOpenConns(5)
		database.SetMaxIdleConns(2)
		database.SetConnMaxLifetime(5 * time.Minute)
	}

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := database.PingContext(connectCtx); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := Migrate(database); err != nil {
		_ = database.Close()
		return nil, err
	}

	return database, nil
}

// Migrate runs the embedded goose migrations
func Migrate(database *sqlx.DB) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(database.DriverName()); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.Up(database.DB, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
