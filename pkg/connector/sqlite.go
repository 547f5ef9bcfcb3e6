// pkg/connector/sqlite.go
package connector

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/David-Botos/contact-cleaner/pkg/config"
	"github.com/David-Botos/contact-cleaner/pkg/converter"
	"github.com/David-Botos/contact-cleaner/pkg/model"
)

// SQLiteConnector reads contact tables from a local SQLite file
type SQLiteConnector struct {
	db        *sqlx.DB
	logger    *zap.Logger
	cfg       *config.SQLiteConfig
	converter *converter.ValueConverter
	timeout   time.Duration
}

// NewSQLiteConnector opens the configured SQLite file read-only
func NewSQLiteConnector(
	ctx context.Context,
	cfg *config.SQLiteConfig,
	conv *converter.ValueConverter,
	timeout time.Duration,
) (*SQLiteConnector, error) {
	logger := zap.L().Named("sqlite-connector")
	logger.Info("Opening SQLite database", zap.String("path", cfg.Path))

	db, err := sqlx.Open("sqlite", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite connection: %w", err)
	}

	// Single reader is enough for a one-shot export
	ApplyConnectionSettings(db.DB, 1, 1, 0, 0)

	if err := PingWithTimeout(ctx, db.DB, 5*time.Second); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open SQLite database '%s': %w", cfg.Path, err)
	}

	return &SQLiteConnector{
		db:        db,
		logger:    logger,
		cfg:       cfg,
		converter: conv,
		timeout:   timeout,
	}, nil
}

// DB returns the underlying database connection
func (c *SQLiteConnector) DB() *sql.DB {
	return c.db.DB
}

// Validate checks that the table or view exists
func (c *SQLiteConnector) Validate(ctx context.Context, ref TableRef) error {
	var version string
	if err := c.db.QueryRowContext(ctx, "SELECT sqlite_version()").Scan(&version); err != nil {
		return fmt.Errorf("failed to query SQLite version: %w", err)
	}
	c.logger.Info("Opened SQLite database", zap.String("version", version))

	var count int
	query := fmt.Sprintf(
		"SELECT COUNT(*) FROM %s WHERE type IN ('table', 'view') AND name = ?",
		sqliteMaster(ref.Schema),
	)
	if err := c.db.QueryRowContext(ctx, query, ref.Table).Scan(&count); err != nil {
		return fmt.Errorf("failed to check if table exists: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("table %s not found in %s", ref, c.cfg.Path)
	}

	return nil
}

// FetchTable reads every row of the table
func (c *SQLiteConnector) FetchTable(ctx context.Context, ref TableRef) (*model.Table, error) {
	queryCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	rows, err := c.db.QueryxContext(queryCtx, sqliteSelectAll(ref))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", ref, err)
	}
	defer rows.Close()

	table, err := scanTable(rows, c.converter)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", ref, err)
	}

	c.logger.Info("Fetched contact table",
		zap.String("table", ref.String()),
		zap.Int("rows", table.Len()),
		zap.Int("columns", len(table.Columns)))
	return table, nil
}

// Close closes the database connection
func (c *SQLiteConnector) Close() error {
	c.logger.Info("Closing SQLite database")
	return c.db.Close()
}

func sqliteSelectAll(ref TableRef) string {
	name := quoteSQLiteIdentifier(ref.Table)
	if ref.Schema != "" {
		name = quoteSQLiteIdentifier(ref.Schema) + "." + name
	}
	return "SELECT * FROM " + name
}

func sqliteMaster(schema string) string {
	if schema == "" {
		return "sqlite_master"
	}
	return quoteSQLiteIdentifier(schema) + ".sqlite_master"
}

func quoteSQLiteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
