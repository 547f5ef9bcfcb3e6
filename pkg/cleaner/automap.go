// pkg/cleaner/automap.go
package cleaner

import "github.com/David-Botos/contact-cleaner/pkg/model"

// BuildAutoMapping derives a field mapping from the input's headers using the
// alias dictionary. When two headers normalize identically the later one wins.
// Fields with no matching alias are left out of the mapping.
func BuildAutoMapping(headers []string) model.FieldMapping {
	reverse := make(map[string]string, len(headers))
	for _, h := range headers {
		reverse[NormalizeHeader(h)] = h
	}

	mapping := make(model.FieldMapping)
	for _, entry := range normalizedAliases {
		for _, alias := range entry.Aliases {
			if src, ok := reverse[alias]; ok {
				mapping[entry.Field] = src
				break
			}
		}
	}
	return mapping
}
