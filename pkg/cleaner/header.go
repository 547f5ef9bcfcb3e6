// pkg/cleaner/header.go
package cleaner

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeHeader turns a raw column header into its comparison key:
// NFC form, trimmed, lowercased, underscores read as spaces and
// whitespace runs collapsed to a single space.
func NormalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(norm.NFC.String(h)))
	h = strings.ReplaceAll(h, "_", " ")
	return strings.Join(strings.Fields(h), " ")
}
