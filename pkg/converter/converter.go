// pkg/converter/converter.go
package converter

import (
	"time"

	"go.uber.org/zap"
)

// ValueConverter maps raw source cells (CSV text or database/sql values)
// into model.Value and renders values back to text for output
type ValueConverter struct {
	logger *zap.Logger
	// Configuration options
	config Config
}

// Config provides configuration options for value conversion
type Config struct {
	// Whether to treat empty strings from database sources as NULL
	EmptyStringAsNull bool
	// Cell contents that read as NULL from text sources (matched exactly)
	NullTokens []string
	// Location used for dates that carry no zone
	Location *time.Location
	// Layout for dates whose time of day is midnight
	DateLayout string
	// Layout for all other timestamps
	TimestampLayout string
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		EmptyStringAsNull: true,
		NullTokens: []string{
			"", "#N/A", "N/A", "NA", "NULL", "NaN", "None", "n/a", "nan", "null",
		},
		Location:        time.UTC,
		DateLayout:      "2006-01-02",
		TimestampLayout: time.RFC3339,
	}
}

// NewValueConverter creates a new ValueConverter with default configuration
func NewValueConverter(logger *zap.Logger) *ValueConverter {
	return NewValueConverterWithConfig(logger, DefaultConfig())
}

// NewValueConverterWithConfig creates a ValueConverter with custom configuration
func NewValueConverterWithConfig(logger *zap.Logger, config Config) *ValueConverter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Location == nil {
		config.Location = time.UTC
	}
	if config.DateLayout == "" {
		config.DateLayout = "2006-01-02"
	}
	if config.TimestampLayout == "" {
		config.TimestampLayout = time.RFC3339
	}
	return &ValueConverter{
		logger: logger,
		config: config,
	}
}

// Location returns the zone used for zone-less dates
func (c *ValueConverter) Location() *time.Location {
	return c.config.Location
}
