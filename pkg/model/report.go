// pkg/model/report.go
package model

import "strconv"

// RowSentinel stands in for a row ordinal on entries that refer to a group
// of rows rather than a single one
const RowSentinel = -1

// Report table column names
const (
	ReportColumnRow    = "row"
	ReportColumnReason = "reason"
)

// Reason prefixes
const (
	ReasonMissingRequired = "missing_required"
	ReasonDeduped         = "deduped_removed_duplicates"
)

// ReportEntry records one row excluded or merged during cleaning
type ReportEntry struct {
	Row    int    // Source ordinal, or RowSentinel
	Reason string // Machine-readable reason
}

// Label renders the row column: the ordinal, or "-" for the sentinel
func (e ReportEntry) Label() string {
	if e.Row == RowSentinel {
		return "-"
	}
	return strconv.Itoa(e.Row)
}
