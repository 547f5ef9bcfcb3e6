// pkg/cleaner/operations.go
package cleaner

import (
	"strings"

	"github.com/David-Botos/contact-cleaner/pkg/converter"
	"github.com/David-Botos/contact-cleaner/pkg/model"
)

// normalizeFullName collapses whitespace runs and trims. Null becomes "".
func normalizeFullName(value model.Value, ordinal int) (model.Value, *model.CleaningOperation) {
	cleaned := model.Text(collapseWhitespace(value.String()))

	switch {
	case value.IsNull():
		return cleaned, &model.CleaningOperation{
			ColumnName:        model.FieldFullName,
			RowOrdinal:        ordinal,
			OriginalValue:     value,
			NewValue:          cleaned,
			CleaningOperation: model.OpNullFill,
			CleaningReason:    "missing_value",
		}
	case !cleaned.Equal(value):
		return cleaned, &model.CleaningOperation{
			ColumnName:        model.FieldFullName,
			RowOrdinal:        ordinal,
			OriginalValue:     value,
			NewValue:          cleaned,
			CleaningOperation: model.OpWhitespaceCollapse,
			CleaningReason:    "irregular_whitespace",
		}
	}
	return cleaned, nil
}

// normalizeEmail trims and lowercases. Null becomes "".
func normalizeEmail(value model.Value, ordinal int) (model.Value, *model.CleaningOperation) {
	cleaned := model.Text(strings.ToLower(strings.TrimSpace(value.String())))

	switch {
	case value.IsNull():
		return cleaned, &model.CleaningOperation{
			ColumnName:        model.FieldEmail,
			RowOrdinal:        ordinal,
			OriginalValue:     value,
			NewValue:          cleaned,
			CleaningOperation: model.OpNullFill,
			CleaningReason:    "missing_value",
		}
	case !cleaned.Equal(value):
		return cleaned, &model.CleaningOperation{
			ColumnName:        model.FieldEmail,
			RowOrdinal:        ordinal,
			OriginalValue:     value,
			NewValue:          cleaned,
			CleaningOperation: model.OpLowercase,
			CleaningReason:    "non_canonical_email",
		}
	}
	return cleaned, nil
}

// synthesizeFullName joins first and last name. Missing parts count as "".
func synthesizeFullName(first, last model.Value, ordinal int) (model.Value, *model.CleaningOperation) {
	joined := strings.TrimSpace(
		strings.TrimSpace(first.String()) + " " + strings.TrimSpace(last.String()),
	)
	value := model.Text(joined)

	return value, &model.CleaningOperation{
		ColumnName:        model.FieldFullName,
		RowOrdinal:        ordinal,
		OriginalValue:     model.Null(),
		NewValue:          value,
		CleaningOperation: model.OpNameSynthesis,
		CleaningReason:    "derived_from_first_last",
	}
}

// parseDateField converts a free-form date into a time value.
// Anything that does not parse becomes null instead of failing the row.
func parseDateField(
	conv *converter.ValueConverter,
	value model.Value,
	field string,
	ordinal int,
) (model.Value, *model.CleaningOperation) {
	if value.IsNull() {
		return value, nil
	}

	t, ok := conv.ParseDate(value)
	if !ok {
		return model.Null(), &model.CleaningOperation{
			ColumnName:        field,
			RowOrdinal:        ordinal,
			OriginalValue:     value,
			NewValue:          model.Null(),
			CleaningOperation: model.OpDateParse,
			CleaningReason:    "unparseable_date",
		}
	}

	parsed := model.Time(t)
	if value.Kind() == model.KindTime {
		return parsed, nil
	}
	return parsed, &model.CleaningOperation{
		ColumnName:        field,
		RowOrdinal:        ordinal,
		OriginalValue:     value,
		NewValue:          parsed,
		CleaningOperation: model.OpDateParse,
		CleaningReason:    "converted_to_datetime",
	}
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
