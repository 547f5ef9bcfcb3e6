// pkg/cleaner/canonicalize.go
package cleaner

import (
	"github.com/David-Botos/contact-cleaner/pkg/converter"
	"github.com/David-Botos/contact-cleaner/pkg/model"
)

// canonicalSet is the input projected onto canonical columns
type canonicalSet struct {
	columns []string        // present canonical columns, declaration order
	present map[string]bool // same set for lookups
	rows    []model.Row     // ordinals carried over from the source
	ops     []model.CleaningOperation
}

func (s *canonicalSet) has(field string) bool {
	return s.present[field]
}

func (s *canonicalSet) addColumn(field string) {
	s.columns = append(s.columns, field)
	s.present[field] = true
}

func (s *canonicalSet) record(op *model.CleaningOperation) {
	if op != nil {
		s.ops = append(s.ops, *op)
	}
}

// canonicalize projects source columns into canonical ones, derives
// full_name when only its parts exist, and normalizes name, email and
// the configured date field.
func canonicalize(
	table *model.Table,
	mapping model.FieldMapping,
	dateField string,
	conv *converter.ValueConverter,
) *canonicalSet {
	set := &canonicalSet{
		present: make(map[string]bool),
		rows:    make([]model.Row, 0, len(table.Rows)),
	}

	sources := make(map[string]string)
	for _, field := range model.CanonicalFields() {
		src, ok := mapping[field]
		if !ok || src == "" || !table.HasColumn(src) {
			continue
		}
		sources[field] = src
		set.addColumn(field)
	}

	for _, in := range table.Rows {
		out := model.Row{
			Ordinal: in.Ordinal,
			Values:  make(map[string]model.Value, len(set.columns)+1),
		}
		for field, src := range sources {
			out.Values[field] = in.Get(src)
		}
		set.rows = append(set.rows, out)
	}

	if !set.has(model.FieldFullName) && set.has(model.FieldFirstName) && set.has(model.FieldLastName) {
		set.addColumn(model.FieldFullName)
		for _, row := range set.rows {
			v, op := synthesizeFullName(row.Get(model.FieldFirstName), row.Get(model.FieldLastName), row.Ordinal)
			row.Values[model.FieldFullName] = v
			set.record(op)
		}
	}

	if set.has(model.FieldFullName) {
		for _, row := range set.rows {
			v, op := normalizeFullName(row.Get(model.FieldFullName), row.Ordinal)
			row.Values[model.FieldFullName] = v
			set.record(op)
		}
	}

	if set.has(model.FieldEmail) {
		for _, row := range set.rows {
			v, op := normalizeEmail(row.Get(model.FieldEmail), row.Ordinal)
			row.Values[model.FieldEmail] = v
			set.record(op)
		}
	}

	if set.has(dateField) {
		for _, row := range set.rows {
			v, op := parseDateField(conv, row.Get(dateField), dateField, row.Ordinal)
			row.Values[dateField] = v
			set.record(op)
		}
	}

	return set
}

// orderColumns puts the preferred columns first, then any other present
// canonical columns in declaration order
func orderColumns(present map[string]bool) []string {
	ordered := make([]string, 0, len(present))
	preferred := make(map[string]bool, len(model.PreferredOrder))
	for _, field := range model.PreferredOrder {
		preferred[field] = true
		if present[field] {
			ordered = append(ordered, field)
		}
	}
	for _, field := range model.CanonicalFields() {
		if present[field] && !preferred[field] {
			ordered = append(ordered, field)
		}
	}
	return ordered
}
