package cleaner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/David-Botos/contact-cleaner/pkg/config"
	"github.com/David-Botos/contact-cleaner/pkg/converter"
	"github.com/David-Botos/contact-cleaner/pkg/model"
)

func contactRow(ordinal int, name, email string, date model.Value) model.Row {
	return model.Row{
		Ordinal: ordinal,
		Values: map[string]model.Value{
			model.FieldFullName:      model.Text(name),
			model.FieldEmail:         model.Text(email),
			model.FieldLastCleanDate: date,
		},
	}
}

func day(y int, m time.Month, d int) model.Value {
	return model.Time(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func ordinals(rows []model.Row) []int {
	out := make([]int, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Ordinal)
	}
	return out
}

func TestDedupeKeyField(t *testing.T) {
	both := map[string]bool{model.FieldEmail: true, model.FieldFullName: true}

	assert.Equal(t, model.FieldEmail, dedupeKeyField(config.DedupeKeyEmail, both))
	assert.Equal(t, model.FieldFullName, dedupeKeyField(config.DedupeKeyFullName, both))
	assert.Equal(t, model.FieldFullName,
		dedupeKeyField(config.DedupeKeyEmail, map[string]bool{model.FieldFullName: true}))
	assert.Equal(t, "", dedupeKeyField(config.DedupeKeyFullName, map[string]bool{model.FieldEmail: true}))
	assert.Equal(t, "", dedupeKeyField(config.DedupeKeyEmail, map[string]bool{}))
}

func TestDedupeWithDates(t *testing.T) {
	present := map[string]bool{
		model.FieldFullName:      true,
		model.FieldEmail:         true,
		model.FieldLastCleanDate: true,
	}
	rows := []model.Row{
		contactRow(0, "B old", "b@x.com", day(2020, 1, 1)),
		contactRow(1, "A", "a@x.com", model.Null()),
		contactRow(2, "B new", "b@x.com", day(2021, 1, 1)),
		contactRow(3, "B undated", "b@x.com", model.Null()),
		contactRow(4, "C", "c@x.com", day(2019, 1, 1)),
	}

	result := dedupe(rows, present, config.DedupeKeyEmail, model.FieldLastCleanDate)

	assert.Equal(t, []int{1, 2, 4}, ordinals(result.rows))
	assert.Equal(t, 1, result.groups)
	assert.Equal(t, 2, result.removed)
	assert.Equal(t, []model.ReportEntry{
		{Row: model.RowSentinel, Reason: "deduped_removed_duplicates:key=b@x.com"},
	}, result.entries)
}

func TestDedupeEqualDatesKeepLaterRow(t *testing.T) {
	present := map[string]bool{model.FieldEmail: true, model.FieldLastCleanDate: true}
	rows := []model.Row{
		contactRow(0, "first", "a@x.com", day(2022, 5, 1)),
		contactRow(1, "second", "a@x.com", day(2022, 5, 1)),
	}

	result := dedupe(rows, present, config.DedupeKeyEmail, model.FieldLastCleanDate)

	assert.Equal(t, []int{1}, ordinals(result.rows))
}

func TestDedupeWithoutDates(t *testing.T) {
	present := map[string]bool{model.FieldFullName: true, model.FieldEmail: true}
	rows := []model.Row{
		contactRow(0, "z", "z@x.com", model.Null()),
		contactRow(1, "a", "a@x.com", model.Null()),
		contactRow(2, "z", "z@x.com", model.Null()),
		contactRow(3, "a", "a@x.com", model.Null()),
		contactRow(4, "m", "m@x.com", model.Null()),
	}

	result := dedupe(rows, present, config.DedupeKeyEmail, model.FieldLastCleanDate)

	assert.Equal(t, []int{2, 3, 4}, ordinals(result.rows))
	assert.Equal(t, []model.ReportEntry{
		{Row: model.RowSentinel, Reason: "deduped_removed_duplicates:key=a@x.com"},
		{Row: model.RowSentinel, Reason: "deduped_removed_duplicates:key=z@x.com"},
	}, result.entries)
	assert.Equal(t, 2, result.groups)
	assert.Equal(t, 2, result.removed)
}

func TestDedupeEmptyInput(t *testing.T) {
	result := dedupe(nil, map[string]bool{}, config.DedupeKeyEmail, model.FieldLastCleanDate)

	assert.Empty(t, result.rows)
	assert.Empty(t, result.entries)
	assert.Zero(t, result.groups)
}

func TestValidateRows(t *testing.T) {
	present := map[string]bool{model.FieldFullName: true, model.FieldEmail: true}
	rows := []model.Row{
		contactRow(0, "Ann", "ann@x.com", model.Null()),
		contactRow(1, " ", "bob@x.com", model.Null()),
		contactRow(2, "", "", model.Null()),
	}

	valid, entries := validateRows(rows, present,
		[]string{model.FieldFullName, model.FieldEmail, model.FieldPhone})

	assert.Empty(t, valid)
	assert.Equal(t, []model.ReportEntry{
		{Row: 0, Reason: "missing_required:phone"},
		{Row: 1, Reason: "missing_required:full_name,phone"},
		{Row: 2, Reason: "missing_required:full_name,email,phone"},
	}, entries)
}

func TestValidateRowsNoRequiredFields(t *testing.T) {
	rows := []model.Row{contactRow(0, "", "", model.Null())}

	valid, entries := validateRows(rows, map[string]bool{}, nil)

	assert.Len(t, valid, 1)
	assert.Empty(t, entries)
}

func TestCanonicalizeOperations(t *testing.T) {
	table := model.NewTable("Name", "Email", "Date")
	table.AppendRow(map[string]model.Value{
		"Name":  model.Text("  Ann   Lee "),
		"Email": model.Null(),
		"Date":  model.Text("01/02/2023"),
	})

	conv := converter.NewValueConverter(nil)
	set := canonicalize(table, BuildAutoMapping(table.Columns), model.FieldLastCleanDate, conv)

	require.Len(t, set.rows, 1)
	row := set.rows[0]
	assert.Equal(t, "Ann Lee", row.Get(model.FieldFullName).String())
	assert.Equal(t, model.KindText, row.Get(model.FieldEmail).Kind())
	assert.Equal(t, "", row.Get(model.FieldEmail).String())

	date, ok := row.Get(model.FieldLastCleanDate).TimeValue()
	require.True(t, ok)
	assert.True(t, date.Equal(time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)))

	ops := make(map[string]string)
	for _, op := range set.ops {
		ops[op.ColumnName] = op.CleaningOperation
	}
	assert.Equal(t, map[string]string{
		model.FieldFullName:      model.OpWhitespaceCollapse,
		model.FieldEmail:         model.OpNullFill,
		model.FieldLastCleanDate: model.OpDateParse,
	}, ops)
}

func TestCanonicalizeDoesNotMutateInput(t *testing.T) {
	table := model.NewTable("email")
	table.AppendRow(map[string]model.Value{"email": model.Text("A@X.COM")})

	canonicalize(table, BuildAutoMapping(table.Columns), model.FieldLastCleanDate, converter.NewValueConverter(nil))

	assert.Equal(t, "A@X.COM", table.Rows[0].Get("email").String())
}

func TestOrderColumns(t *testing.T) {
	present := map[string]bool{
		model.FieldLastName:            true,
		model.FieldInvoiceAmountBrutto: true,
		model.FieldFirstName:           true,
		model.FieldEmail:               true,
	}

	assert.Equal(t, []string{
		model.FieldEmail,
		model.FieldInvoiceAmountBrutto,
		model.FieldFirstName,
		model.FieldLastName,
	}, orderColumns(present))
}
