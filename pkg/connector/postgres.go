// pkg/connector/postgres.go
package connector

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/David-Botos/contact-cleaner/pkg/config"
	"github.com/David-Botos/contact-cleaner/pkg/converter"
	"github.com/David-Botos/contact-cleaner/pkg/model"
)

// PostgresConnector reads contact tables from PostgreSQL
type PostgresConnector struct {
	db        *sqlx.DB
	logger    *zap.Logger
	cfg       *config.PostgresConfig
	converter *converter.ValueConverter
	timeout   time.Duration
}

// NewPostgresConnector creates and initializes a new PostgreSQL connector
func NewPostgresConnector(
	ctx context.Context,
	cfg *config.PostgresConfig,
	conv *converter.ValueConverter,
	timeout time.Duration,
) (*PostgresConnector, error) {
	logger := zap.L().Named("postgres-connector")

	// Log connection attempt
	logger.Info("Connecting to PostgreSQL",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Database),
		zap.String("user", cfg.User))

	// Open database connection
	db, err := sqlx.Open("pgx", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PostgreSQL connection: %w", err)
	}

	// Configure connection pool
	ApplyConnectionSettings(
		db.DB,
		cfg.MaxOpenConns,
		cfg.MaxIdleConns,
		cfg.ConnMaxLifetime,
		cfg.ConnMaxIdleTime,
	)

	// Verify connection
	if err := PingWithTimeout(ctx, db.DB, 5*time.Second); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	// Set statement timeout if configured
	if cfg.StatementTimeout > 0 {
		_, err = db.ExecContext(
			ctx,
			fmt.Sprintf("SET statement_timeout = %d", cfg.StatementTimeout.Milliseconds()),
		)
		if err != nil {
			logger.Warn("Failed to set statement timeout", zap.Error(err))
		}
	}

	LogConnectionStats(logger, cfg.Database, db.DB)
	return &PostgresConnector{
		db:        db,
		logger:    logger,
		cfg:       cfg,
		converter: conv,
		timeout:   timeout,
	}, nil
}

// DB returns the underlying database connection
func (c *PostgresConnector) DB() *sql.DB {
	return c.db.DB
}

// Validate verifies the connection and that the source table exists
func (c *PostgresConnector) Validate(ctx context.Context, ref TableRef) error {
	var version string
	if err := c.db.QueryRowContext(ctx, "SELECT version()").Scan(&version); err != nil {
		return fmt.Errorf("failed to query PostgreSQL version: %w", err)
	}
	c.logger.Info("Connected to PostgreSQL", zap.String("version", version))

	var exists bool
	query := `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = $1 AND table_name = $2
		)
	`
	if err := c.db.QueryRowContext(ctx, query, ref.Schema, ref.Table).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check if table exists: %w", err)
	}
	if !exists {
		return fmt.Errorf("table %s not found", ref)
	}

	return nil
}

// FetchTable reads every row of the table
func (c *PostgresConnector) FetchTable(ctx context.Context, ref TableRef) (*model.Table, error) {
	queryCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	rows, err := c.db.QueryxContext(queryCtx, postgresSelectAll(ref))
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
func (c *PostgresConnector) Close() error {
	c.logger.Info("Closing PostgreSQL connection")
	LogConnectionStats(c.logger, c.cfg.Database, c.db.DB)
	return c.db.Close()
}

// postgresSelectAll builds a quoted SELECT over the whole table
func postgresSelectAll(ref TableRef) string {
	name := pq.QuoteIdentifier(ref.Table)
	if ref.Schema != "" {
		name = pq.QuoteIdentifier(ref.Schema) + "." + name
	}
	return "SELECT * FROM " + name
}
