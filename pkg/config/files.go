// pkg/config/files.go
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/David-Botos/contact-cleaner/pkg/model"
)

// cleanFile is the on-disk TOML shape of a CleanConfig.
// Pointer fields distinguish "unset" from "set to empty".
type cleanFile struct {
	DateField *string           `toml:"date_field"`
	DedupeKey *string           `toml:"dedupe_key"`
	Required  *[]string         `toml:"required"`
	Mapping   map[string]string `toml:"mapping"`
}

// LoadCleanFile reads a TOML run configuration, applying it over the defaults
func LoadCleanFile(path string) (CleanConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return CleanConfig{}, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}
	return ParseCleanConfig(data)
}

// ParseCleanConfig decodes TOML into a validated CleanConfig
func ParseCleanConfig(data []byte) (CleanConfig, error) {
	var file cleanFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return CleanConfig{}, fmt.Errorf("failed to parse TOML: %w", err)
	}

	var opts []Option
	if file.DateField != nil {
		opts = append(opts, WithDateField(*file.DateField))
	}
	if file.DedupeKey != nil {
		key, err := ParseDedupeKey(*file.DedupeKey)
		if err != nil {
			return CleanConfig{}, fmt.Errorf("dedupe_key: %w", err)
		}
		opts = append(opts, WithDedupeKey(string(key)))
	}
	if file.Required != nil {
		opts = append(opts, WithRequired(*file.Required...))
	}
	if file.Mapping != nil {
		opts = append(opts, WithMapping(model.FieldMapping(file.Mapping)))
	}

	return NewCleanConfig(opts...)
}

// LoadMappingFile reads a JSON object of canonical field -> source header
func LoadMappingFile(path string) (model.FieldMapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file '%s': %w", path, err)
	}
	return ParseMapping(data)
}

// ParseMapping decodes a JSON field mapping
func ParseMapping(data []byte) (model.FieldMapping, error) {
	var mapping map[string]string
	if err := json.Unmarshal(data, &mapping); err != nil {
		return nil, fmt.Errorf("failed to parse mapping JSON: %w", err)
	}
	if mapping == nil {
		mapping = make(map[string]string)
	}
	return model.FieldMapping(mapping), nil
}
