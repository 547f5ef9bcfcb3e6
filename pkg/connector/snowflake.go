// pkg/connector/snowflake.go
package connector

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/snowflakedb/gosnowflake"
	"go.uber.org/zap"

	"github.com/David-Botos/contact-cleaner/pkg/config"
	"github.com/David-Botos/contact-cleaner/pkg/converter"
	"github.com/David-Botos/contact-cleaner/pkg/model"
)

// SnowflakeConnector reads contact tables from Snowflake
type SnowflakeConnector struct {
	db        *sqlx.DB
	logger    *zap.Logger
	cfg       *config.SnowflakeConfig
	converter *converter.ValueConverter
	timeout   time.Duration
}

// NewSnowflakeConnector creates a new Snowflake connection
func NewSnowflakeConnector(
	ctx context.Context,
	cfg *config.SnowflakeConfig,
	conv *converter.ValueConverter,
	timeout time.Duration,
) (*SnowflakeConnector, error) {
	logger := zap.L().Named("snowflake-connector")

	// Log connection attempt (without credentials)
	logger.Info("Connecting to Snowflake",
		zap.String("account", cfg.Account),
		zap.String("user", cfg.User),
		zap.String("database", cfg.Database),
		zap.String("warehouse", cfg.Warehouse),
		zap.String("role", cfg.Role))

	dsn, err := cfg.ConnectionString()
	if err != nil {
		return nil, fmt.Errorf("failed to build Snowflake DSN: %w", err)
	}

	// Open connection pool
	db, err := sqlx.Open("snowflake", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Snowflake connection: %w", err)
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
	if err := PingWithTimeout(ctx, db.DB, 10*time.Second); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to Snowflake: %w", err)
	}

	// Set query timeout if configured
	if cfg.QueryTimeout > 0 {
		_, err = db.ExecContext(
			ctx,
			fmt.Sprintf("ALTER SESSION SET STATEMENT_TIMEOUT_IN_SECONDS = %d",
				int(cfg.QueryTimeout.Seconds())),
		)
		if err != nil {
			logger.Warn("Failed to set statement timeout", zap.Error(err))
		}
	}

	LogConnectionStats(logger, cfg.Database, db.DB)
	return &SnowflakeConnector{
		db:        db,
		logger:    logger,
		cfg:       cfg,
		converter: conv,
		timeout:   timeout,
	}, nil
}

// DB returns the underlying database connection
func (c *SnowflakeConnector) DB() *sql.DB {
	return c.db.DB
}

// Validate verifies the session and that the source table is visible
func (c *SnowflakeConnector) Validate(ctx context.Context, ref TableRef) error {
	var role, database, warehouse sql.NullString
	err := c.db.QueryRowContext(ctx, "SELECT CURRENT_ROLE(), CURRENT_DATABASE(), CURRENT_WAREHOUSE()").Scan(
		&role, &database, &warehouse)
	if err != nil {
		return fmt.Errorf("failed to verify Snowflake access: %w", err)
	}

	c.logger.Info("Connected to Snowflake",
		zap.String("role", role.String),
		zap.String("database", database.String),
		zap.String("warehouse", warehouse.String))

	var count int
	query := `
		SELECT COUNT(*) FROM information_schema.tables
		WHERE table_schema = ? AND table_name = ?
	`
	if err := c.db.QueryRowContext(ctx, query, strings.ToUpper(ref.Schema), strings.ToUpper(ref.Table)).Scan(&count); err != nil {
		return fmt.Errorf("failed to check if table exists: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("table %s not found in %s", ref, c.cfg.Database)
	}

	return nil
}

// FetchTable reads every row of the table
func (c *SnowflakeConnector) FetchTable(ctx context.Context, ref TableRef) (*model.Table, error) {
	queryCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	rows, err := c.db.QueryxContext(queryCtx, snowflakeSelectAll(c.cfg.Database, ref))
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
func (c *SnowflakeConnector) Close() error {
	c.logger.Info("Closing Snowflake connection")
	LogConnectionStats(c.logger, c.cfg.Database, c.db.DB)
	return c.db.Close()
}

// snowflakeSelectAll builds a quoted SELECT over database.schema.table.
// Identifiers are uppercased to match Snowflake's unquoted resolution.
func snowflakeSelectAll(database string, ref TableRef) string {
	parts := make([]string, 0, 3)
	if database != "" {
		parts = append(parts, quoteSnowflakeIdentifier(database))
	}
	if ref.Schema != "" {
		parts = append(parts, quoteSnowflakeIdentifier(ref.Schema))
	}
	parts = append(parts, quoteSnowflakeIdentifier(ref.Table))
	return "SELECT * FROM " + strings.Join(parts, ".")
}

func quoteSnowflakeIdentifier(name string) string {
	return `"` + strings.ToUpper(strings.ReplaceAll(name, `"`, `""`)) + `"`
}
