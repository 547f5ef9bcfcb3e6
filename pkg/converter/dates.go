// pkg/converter/dates.go
package converter

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/David-Botos/contact-cleaner/pkg/model"
)

// dateLayouts are tried in order before falling back to dateparse
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"01-02-2006",
	"2006/01/02",
	"20060102T150405Z",
	time.RFC1123,
	time.RFC1123Z,
}

// ParseDate interprets a value as a date. Times pass through, numbers are
// Unix seconds, and text is parsed from any common free-form layout.
// Empty or unparseable input reports false rather than an error.
func ParseDate(v model.Value, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}

	switch v.Kind() {
	case model.KindTime:
		t, _ := v.TimeValue()
		return t, true
	case model.KindNumber:
		// Assume Unix timestamp with possible fractional seconds
		f, _ := v.NumberValue()
		sec := int64(f)
		nsec := int64((f - float64(sec)) * 1e9)
		return time.Unix(sec, nsec).In(loc), true
	case model.KindText:
		return parseDateText(v.String(), loc)
	default:
		return time.Time{}, false
	}
}

// ParseDate parses v using the converter's configured location
func (c *ValueConverter) ParseDate(v model.Value) (time.Time, bool) {
	return ParseDate(v, c.Location())
}

func parseDateText(s string, loc *time.Location) (time.Time, bool) {
	cleaned := strings.TrimSpace(s)
	if cleaned == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, cleaned, loc); err == nil {
			return t, true
		}
	}

	// Fragments like "1/2" or "3:" come back without a year
	t, err := dateparse.ParseIn(cleaned, loc)
	if err != nil || t.Year() == 0 {
		return time.Time{}, false
	}
	return t, true
}
