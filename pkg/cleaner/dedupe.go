// pkg/cleaner/dedupe.go
package cleaner

import (
	"sort"
	"strings"
	"time"

	"github.com/David-Botos/contact-cleaner/pkg/config"
	"github.com/David-Botos/contact-cleaner/pkg/model"
)

// dedupeResult holds the surviving rows and what was merged away
type dedupeResult struct {
	rows    []model.Row
	entries []model.ReportEntry
	groups  int // keys that had more than one row
	removed int // rows dropped as duplicates
}

// keyedRow pairs a row with its dedupe key and tie-break date
type keyedRow struct {
	key     string
	row     model.Row
	date    time.Time
	hasDate bool
}

// dedupeKeyField picks the column rows are grouped by. An email key falls
// back to full_name when there is no email column; "" means one group.
func dedupeKeyField(key config.DedupeKey, present map[string]bool) string {
	if key == config.DedupeKeyEmail && present[model.FieldEmail] {
		return model.FieldEmail
	}
	if present[model.FieldFullName] {
		return model.FieldFullName
	}
	return ""
}

func dedupeKey(row model.Row, field string) string {
	if field == "" {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(row.Get(field).String()))
}

// dedupe keeps one row per key. With the date field present the latest
// dated row wins (undated rows sort earliest) and output is in key order;
// without it the last row in input order wins and input order is kept.
func dedupe(rows []model.Row, present map[string]bool, key config.DedupeKey, dateField string) dedupeResult {
	keyField := dedupeKeyField(key, present)

	keyed := make([]keyedRow, len(rows))
	counts := make(map[string]int)
	for i, row := range rows {
		k := keyedRow{key: dedupeKey(row, keyField), row: row}
		if present[dateField] {
			k.date, k.hasDate = row.Get(dateField).TimeValue()
		}
		keyed[i] = k
		counts[k.key]++
	}

	var result dedupeResult
	if present[dateField] {
		result.rows = keepLatest(keyed)
	} else {
		result.rows = keepLast(keyed)
	}

	dupKeys := make([]string, 0)
	for k, n := range counts {
		if n > 1 {
			dupKeys = append(dupKeys, k)
			result.removed += n - 1
		}
	}
	sort.Strings(dupKeys)

	result.groups = len(dupKeys)
	for _, k := range dupKeys {
		result.entries = append(result.entries, model.ReportEntry{
			Row:    model.RowSentinel,
			Reason: model.ReasonDeduped + ":key=" + k,
		})
	}

	return result
}

// keepLatest sorts by (key, date) ascending with undated rows first and
// keeps the last row of every key
func keepLatest(keyed []keyedRow) []model.Row {
	sorted := make([]keyedRow, len(keyed))
	copy(sorted, keyed)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.key != b.key {
			return a.key < b.key
		}
		if !a.hasDate || !b.hasDate {
			return !a.hasDate && b.hasDate
		}
		return a.date.Before(b.date)
	})

	out := make([]model.Row, 0, len(sorted))
	for i, k := range sorted {
		if i+1 < len(sorted) && sorted[i+1].key == k.key {
			continue
		}
		out = append(out, k.row)
	}
	return out
}

// keepLast keeps the last occurrence of every key, in input order
func keepLast(keyed []keyedRow) []model.Row {
	last := make(map[string]int, len(keyed))
	for i, k := range keyed {
		last[k.key] = i
	}

	out := make([]model.Row, 0, len(last))
	for i, k := range keyed {
		if last[k.key] == i {
			out = append(out, k.row)
		}
	}
	return out
}
