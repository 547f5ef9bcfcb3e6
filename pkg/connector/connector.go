// pkg/connector/connector.go
package connector

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/David-Botos/contact-cleaner/pkg/converter"
	"github.com/David-Botos/contact-cleaner/pkg/model"
)

// DatabaseConnector defines the interface for database contact sources
type DatabaseConnector interface {
	// DB returns the underlying database connection
	DB() *sql.DB

	// Validate verifies the connection and that the source table is readable
	Validate(ctx context.Context, ref TableRef) error

	// FetchTable reads the whole table into memory
	FetchTable(ctx context.Context, ref TableRef) (*model.Table, error)

	// Close closes the connection and releases resources
	Close() error
}

// TableRef names a source table
type TableRef struct {
	Schema string
	Table  string
}

// ParseTableRef splits "schema.table"; a bare name uses defaultSchema
func ParseTableRef(s, defaultSchema string) (TableRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TableRef{}, fmt.Errorf("table name cannot be empty")
	}

	parts := strings.Split(s, ".")
	switch len(parts) {
	case 1:
		return TableRef{Schema: defaultSchema, Table: parts[0]}, nil
	case 2:
		if parts[0] == "" || parts[1] == "" {
			return TableRef{}, fmt.Errorf("invalid table reference %q", s)
		}
		return TableRef{Schema: parts[0], Table: parts[1]}, nil
	default:
		return TableRef{}, fmt.Errorf("invalid table reference %q (expected schema.table)", s)
	}
}

// String returns the fully qualified table name
func (r TableRef) String() string {
	if r.Schema == "" {
		return r.Table
	}
	return fmt.Sprintf("%s.%s", r.Schema, r.Table)
}

// scanTable reads every row of rows into a Table, keeping the result's column order
func scanTable(rows *sqlx.Rows, conv *converter.ValueConverter) (*model.Table, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	table := model.NewTable(columns...)
	for rows.Next() {
		raw := make(map[string]interface{}, len(columns))
		if err := rows.MapScan(raw); err != nil {
			return nil, fmt.Errorf("failed to scan row %d: %w", table.Len(), err)
		}

		values := make(map[string]model.Value, len(raw))
		for col, v := range raw {
			values[col] = conv.FromRaw(v)
		}
		table.AppendRow(values)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return table, nil
}

// ConnStats contains standardized connection statistics
type ConnStats struct {
	OpenConnections int
	InUse           int
	Idle            int
	MaxOpenConns    int
}

// GetConnectionStats returns connection pool statistics for logging
func GetConnectionStats(db *sql.DB) ConnStats {
	stats := db.Stats()
	return ConnStats{
		OpenConnections: stats.OpenConnections,
		InUse:           stats.InUse,
		Idle:            stats.Idle,
		MaxOpenConns:    stats.MaxOpenConnections,
	}
}

// LogConnectionStats logs connection pool statistics
func LogConnectionStats(logger *zap.Logger, name string, db *sql.DB) {
	stats := GetConnectionStats(db)
	logger.Debug("Connection pool stats",
		zap.String("database", name),
		zap.Int("open_connections", stats.OpenConnections),
		zap.Int("in_use", stats.InUse),
		zap.Int("idle", stats.Idle),
		zap.Int("max_open", stats.MaxOpenConns),
	)
}

// PingWithTimeout attempts to ping a database with a timeout
func PingWithTimeout(ctx context.Context, db *sql.DB, timeout time.Duration) error {
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- db.PingContext(pingCtx)
	}()

	select {
	case err := <-errCh:
		return err
	case <-pingCtx.Done():
		return fmt.Errorf("ping timed out after %v: %w", timeout, pingCtx.Err())
	}
}

// ApplyConnectionSettings configures database connection pool settings
func ApplyConnectionSettings(db *sql.DB, maxOpen, maxIdle int, maxLifetime, maxIdleTime time.Duration) {
	if maxOpen > 0 {
		db.SetMaxOpenConns(maxOpen)
	}
	if maxIdle > 0 {
		db.SetMaxIdleConns(maxIdle)
	}
	if maxLifetime > 0 {
		db.SetConnMaxLifetime(maxLifetime)
	}
	if maxIdleTime > 0 {
		db.SetConnMaxIdleTime(maxIdleTime)
	}
}
