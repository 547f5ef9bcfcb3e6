// pkg/connector/factory.go
package connector

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/David-Botos/contact-cleaner/pkg/config"
	"github.com/David-Botos/contact-cleaner/pkg/converter"
)

// ConnectorFactory creates database connectors
type ConnectorFactory struct {
	cfg       *config.Config
	logger    *zap.Logger
	converter *converter.ValueConverter
}

// NewConnectorFactory creates a new connector factory
func NewConnectorFactory(cfg *config.Config, logger *zap.Logger, conv *converter.ValueConverter) *ConnectorFactory {
	return &ConnectorFactory{
		cfg:       cfg,
		logger:    logger,
		converter: conv,
	}
}

// CreateSnowflakeConnector creates a new Snowflake connector
func (f *ConnectorFactory) CreateSnowflakeConnector(ctx context.Context) (*SnowflakeConnector, error) {
	f.logger.Info("Creating Snowflake connector")

	connector, err := NewSnowflakeConnector(ctx, f.cfg.Snowflake, f.converter, f.cfg.FetchTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to create Snowflake connector: %w", err)
	}

	return connector, nil
}

// CreatePostgresConnector creates a new PostgreSQL connector
func (f *ConnectorFactory) CreatePostgresConnector(ctx context.Context) (*PostgresConnector, error) {
	f.logger.Info("Creating PostgreSQL connector")

	connector, err := NewPostgresConnector(ctx, f.cfg.Postgres, f.converter, f.cfg.FetchTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to create PostgreSQL connector: %w", err)
	}

	return connector, nil
}

// CreateSQLiteConnector creates a new SQLite connector
func (f *ConnectorFactory) CreateSQLiteConnector(ctx context.Context) (*SQLiteConnector, error) {
	f.logger.Info("Creating SQLite connector")

	connector, err := NewSQLiteConnector(ctx, f.cfg.SQLite, f.converter, f.cfg.FetchTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to create SQLite connector: %w", err)
	}

	return connector, nil
}

// CreateSourceConnector creates the connector for the configured database source
func (f *ConnectorFactory) CreateSourceConnector(ctx context.Context) (DatabaseConnector, error) {
	switch f.cfg.Source {
	case config.SourceSnowflake:
		conn, err := f.CreateSnowflakeConnector(ctx)
		if err != nil {
			return nil, err
		}
		return conn, nil
	case config.SourcePostgres:
		conn, err := f.CreatePostgresConnector(ctx)
		if err != nil {
			return nil, err
		}
		return conn, nil
	case config.SourceSQLite:
		conn, err := f.CreateSQLiteConnector(ctx)
		if err != nil {
			return nil, err
		}
		return conn, nil
	default:
		return nil, fmt.Errorf("source %q is not a database source", f.cfg.Source)
	}
}

// DefaultSchema returns the schema used for bare table names
func (f *ConnectorFactory) DefaultSchema() string {
	switch f.cfg.Source {
	case config.SourceSnowflake:
		if f.cfg.Snowflake != nil {
			return f.cfg.Snowflake.Schema
		}
	case config.SourcePostgres:
		if f.cfg.Postgres != nil {
			return f.cfg.Postgres.Schema
		}
	}
	return ""
}
