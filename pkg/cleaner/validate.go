// pkg/cleaner/validate.go
package cleaner

import (
	"strings"

	"github.com/David-Botos/contact-cleaner/pkg/model"
)

// missingRequired returns the required fields the row lacks, in required order.
// A field is missing when its column is absent, its value is null, or its
// text trims to nothing.
func missingRequired(row model.Row, present map[string]bool, required []string) []string {
	var missing []string
	for _, field := range required {
		if !present[field] || row.Get(field).IsBlank() {
			missing = append(missing, field)
		}
	}
	return missing
}

// validateRows splits rows into valid ones and report entries for the rest
func validateRows(rows []model.Row, present map[string]bool, required []string) ([]model.Row, []model.ReportEntry) {
	valid := make([]model.Row, 0, len(rows))
	var entries []model.ReportEntry

	for _, row := range rows {
		missing := missingRequired(row, present, required)
		if len(missing) > 0 {
			entries = append(entries, model.ReportEntry{
				Row:    row.Ordinal,
				Reason: model.ReasonMissingRequired + ":" + strings.Join(missing, ","),
			})
			continue
		}
		valid = append(valid, row)
	}
	return valid, entries
}
