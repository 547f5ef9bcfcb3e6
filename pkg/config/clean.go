// pkg/config/clean.go
package config

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/David-Botos/contact-cleaner/pkg/model"
)

// DedupeKey selects the field contacts are grouped by during deduplication
type DedupeKey string

const (
	DedupeKeyEmail    DedupeKey = "email"
	DedupeKeyFullName DedupeKey = "full_name"
)

var (
	// ErrInvalidDedupeKey is returned when dedupe_key is not email or full_name
	ErrInvalidDedupeKey = errors.New("dedupe_key must be one of: email, full_name")
	// ErrUnknownField is returned when a configured field is not a canonical contact field
	ErrUnknownField = errors.New("unknown canonical field")
)

// ParseDedupeKey converts a flag or file value into a DedupeKey
func ParseDedupeKey(s string) (DedupeKey, error) {
	switch key := DedupeKey(strings.TrimSpace(s)); key {
	case DedupeKeyEmail, DedupeKeyFullName:
		return key, nil
	default:
		return "", fmt.Errorf("%w: got %q", ErrInvalidDedupeKey, s)
	}
}

// CleanConfig controls a single cleaning run
type CleanConfig struct {
	DateField string             // Canonical field used to keep the most recent duplicate
	DedupeKey DedupeKey          // Field duplicates are grouped by
	Required  []string           // Canonical fields every output row must carry, in report order
	Mapping   model.FieldMapping // Explicit canonical -> source mapping; nil triggers auto-mapping
}

// DefaultCleanConfig returns the default configuration
func DefaultCleanConfig() CleanConfig {
	return CleanConfig{
		DateField: model.FieldLastCleanDate,
		DedupeKey: DedupeKeyEmail,
		Required:  []string{model.FieldFullName},
	}
}

// Option mutates a CleanConfig under construction
type Option func(*CleanConfig)

// WithDateField sets the date tie-break field
func WithDateField(field string) Option {
	return func(c *CleanConfig) {
		c.DateField = strings.TrimSpace(field)
	}
}

// WithDedupeKey sets the dedupe key; invalid values are rejected by Validate
func WithDedupeKey(key string) Option {
	return func(c *CleanConfig) {
		c.DedupeKey = DedupeKey(strings.TrimSpace(key))
	}
}

// WithRequired replaces the required field list
func WithRequired(fields ...string) Option {
	return func(c *CleanConfig) {
		c.Required = make([]string, 0, len(fields))
		for _, f := range fields {
			c.Required = append(c.Required, strings.TrimSpace(f))
		}
	}
}

// WithMapping sets an explicit field mapping
func WithMapping(mapping model.FieldMapping) Option {
	return func(c *CleanConfig) {
		c.Mapping = mapping
	}
}

// NewCleanConfig applies opts over the defaults and validates the result
func NewCleanConfig(opts ...Option) (CleanConfig, error) {
	cfg := DefaultCleanConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return CleanConfig{}, err
	}
	return cfg, nil
}

// Validate reports every invariant violation in the configuration
func (c CleanConfig) Validate() error {
	var err error

	switch c.DedupeKey {
	case DedupeKeyEmail, DedupeKeyFullName:
	default:
		err = multierr.Append(err, fmt.Errorf("%w: got %q", ErrInvalidDedupeKey, c.DedupeKey))
	}

	if c.DateField == "" {
		err = multierr.Append(err, errors.New("date_field cannot be empty"))
	} else if !model.IsCanonicalField(c.DateField) {
		err = multierr.Append(err, fmt.Errorf("date_field: %w: %q", ErrUnknownField, c.DateField))
	}

	seen := make(map[string]bool, len(c.Required))
	for _, field := range c.Required {
		if !model.IsCanonicalField(field) {
			err = multierr.Append(err, fmt.Errorf("required: %w: %q", ErrUnknownField, field))
			continue
		}
		if seen[field] {
			err = multierr.Append(err, fmt.Errorf("required: duplicate field %q", field))
		}
		seen[field] = true
	}

	for field := range c.Mapping {
		if !model.IsCanonicalField(field) {
			err = multierr.Append(err, fmt.Errorf("mapping: %w: %q", ErrUnknownField, field))
		}
	}

	return err
}

// SplitFieldList parses a comma-separated field list, dropping empty entries
func SplitFieldList(s string) []string {
	fields := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			fields = append(fields, part)
		}
	}
	return fields
}
