// pkg/model/cleaning.go
package model

// CleaningOperation represents a single value rewrite made while canonicalizing a row
type CleaningOperation struct {
	ColumnName        string // Canonical column that was cleaned
	RowOrdinal        int    // Ordinal of the source row
	OriginalValue     Value  // Value before cleaning (may be null)
	NewValue          Value  // Value after cleaning
	CleaningOperation string // Type of cleaning performed (e.g., "whitespace_collapse")
	CleaningReason    string // Reason for cleaning (e.g., "irregular_whitespace")
}

// Cleaning operation types
const (
	OpWhitespaceCollapse = "whitespace_collapse"
	OpLowercase          = "lowercase"
	OpNameSynthesis      = "name_synthesis"
	OpDateParse          = "date_parse"
	OpNullFill           = "null_fill"
)
