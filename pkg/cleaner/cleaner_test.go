package cleaner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/David-Botos/contact-cleaner/pkg/config"
	"github.com/David-Botos/contact-cleaner/pkg/model"
)

// buildTable creates a table whose rows hold text cells; a column missing
// from a row's map reads back as null
func buildTable(columns []string, rows ...map[string]string) *model.Table {
	table := model.NewTable(columns...)
	for _, r := range rows {
		values := make(map[string]model.Value, len(r))
		for col, cell := range r {
			values[col] = model.Text(cell)
		}
		table.AppendRow(values)
	}
	return table
}

func newTestCleaner(t *testing.T) *Cleaner {
	t.Helper()
	c, err := NewCleaner(zaptest.NewLogger(t), nil)
	require.NoError(t, err)
	return c
}

func clean(t *testing.T, table *model.Table, opts ...config.Option) *Result {
	t.Helper()
	cfg, err := config.NewCleanConfig(opts...)
	require.NoError(t, err)

	result, err := newTestCleaner(t).Clean(context.Background(), table, cfg)
	require.NoError(t, err)
	return result
}

func reasons(entries []model.ReportEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Reason)
	}
	return out
}

func TestNewCleanerRequiresLogger(t *testing.T) {
	c, err := NewCleaner(nil, nil)
	assert.Error(t, err)
	assert.Nil(t, c)
}

func TestCleanMergesDuplicateEmailKeepingDatedRow(t *testing.T) {
	table := buildTable(
		[]string{"full name", "Email", "last_clean_date"},
		map[string]string{"full name": "Jane Doe", "Email": "JANE@X.com"},
		map[string]string{"full name": "jane   doe", "Email": "jane@x.com", "last_clean_date": "2023-01-01"},
	)

	result := clean(t, table)

	require.Equal(t, 1, result.Cleaned.Len())
	assert.Equal(t, []string{model.FieldFullName, model.FieldEmail, model.FieldLastCleanDate}, result.Cleaned.Columns)

	row := result.Cleaned.Rows[0]
	assert.Equal(t, 1, row.Ordinal)
	assert.Equal(t, "jane doe", row.Get(model.FieldFullName).String())
	assert.Equal(t, "jane@x.com", row.Get(model.FieldEmail).String())

	date, ok := row.Get(model.FieldLastCleanDate).TimeValue()
	require.True(t, ok)
	assert.True(t, date.Equal(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)))

	assert.Equal(t, []model.ReportEntry{
		{Row: model.RowSentinel, Reason: "deduped_removed_duplicates:key=jane@x.com"},
	}, result.Report)
}

func TestCleanRejectsRowsMissingRequiredFields(t *testing.T) {
	t.Run("column absent", func(t *testing.T) {
		table := buildTable(
			[]string{"Email"},
			map[string]string{"Email": "a@x.com"},
			map[string]string{"Email": "b@x.com"},
		)

		result := clean(t, table)

		assert.Equal(t, 0, result.Cleaned.Len())
		assert.Equal(t, []model.ReportEntry{
			{Row: 0, Reason: "missing_required:full_name"},
			{Row: 1, Reason: "missing_required:full_name"},
		}, result.Report)
	})

	t.Run("blank and null values", func(t *testing.T) {
		table := buildTable(
			[]string{"Name", "Email"},
			map[string]string{"Name": "   ", "Email": "a@x.com"},
			map[string]string{"Email": "b@x.com"},
			map[string]string{"Name": "Bob", "Email": "c@x.com"},
		)

		result := clean(t, table)

		require.Equal(t, 1, result.Cleaned.Len())
		assert.Equal(t, "Bob", result.Cleaned.Rows[0].Get(model.FieldFullName).String())
		assert.Equal(t, []model.ReportEntry{
			{Row: 0, Reason: "missing_required:full_name"},
			{Row: 1, Reason: "missing_required:full_name"},
		}, result.Report)
	})

	t.Run("fields listed in required order", func(t *testing.T) {
		table := buildTable(
			[]string{"Name", "Email"},
			map[string]string{"Name": "", "Email": ""},
		)

		result := clean(t, table, config.WithRequired(model.FieldEmail, model.FieldFullName))

		assert.Equal(t, []string{"missing_required:email,full_name"}, reasons(result.Report))
	})

	t.Run("unparseable required date", func(t *testing.T) {
		table := buildTable(
			[]string{"Name", "Date"},
			map[string]string{"Name": "Ann", "Date": "soon"},
			map[string]string{"Name": "Bob", "Date": "2022-01-01"},
		)

		result := clean(t, table,
			config.WithRequired(model.FieldFullName, model.FieldLastCleanDate),
			config.WithDedupeKey("full_name"))

		require.Equal(t, 1, result.Cleaned.Len())
		assert.Equal(t, []model.ReportEntry{
			{Row: 0, Reason: "missing_required:last_clean_date"},
		}, result.Report)
	})
}

func TestCleanSynthesizesFullName(t *testing.T) {
	table := buildTable(
		[]string{"First Name", "Last Name", "email"},
		map[string]string{"First Name": " Ann ", "Last Name": "Lee", "email": "ann@x.com"},
		map[string]string{"First Name": "Solo", "email": "solo@x.com"},
	)

	result := clean(t, table)

	require.Equal(t, 2, result.Cleaned.Len())
	assert.Equal(t,
		[]string{model.FieldFullName, model.FieldEmail, model.FieldFirstName, model.FieldLastName},
		result.Cleaned.Columns)

	byEmail := make(map[string]string)
	for _, row := range result.Cleaned.Rows {
		byEmail[row.Get(model.FieldEmail).String()] = row.Get(model.FieldFullName).String()
	}
	assert.Equal(t, "Ann Lee", byEmail["ann@x.com"])
	assert.Equal(t, "Solo", byEmail["solo@x.com"])
	assert.Empty(t, result.Report)
}

func TestCleanDoesNotSynthesizeOverExistingFullName(t *testing.T) {
	table := buildTable(
		[]string{"Full Name", "First Name", "Last Name"},
		map[string]string{"Full Name": "Dr. Ann  Lee", "First Name": "Ann", "Last Name": "Lee"},
	)

	result := clean(t, table)

	require.Equal(t, 1, result.Cleaned.Len())
	assert.Equal(t, "Dr. Ann Lee", result.Cleaned.Rows[0].Get(model.FieldFullName).String())
}

func TestCleanDatedRowWinsRegardlessOfOrder(t *testing.T) {
	dated := map[string]string{"Name": "Dated", "Email": "x@y.com", "Service Date": "2022-05-01"}
	undated := map[string]string{"Name": "Undated", "Email": "X@Y.com "}
	columns := []string{"Name", "Email", "Service Date"}

	tests := []struct {
		name string
		rows []map[string]string
	}{
		{"dated first", []map[string]string{dated, undated}},
		{"dated last", []map[string]string{undated, dated}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := clean(t, buildTable(columns, tt.rows...))

			require.Equal(t, 1, result.Cleaned.Len())
			assert.Equal(t, "Dated", result.Cleaned.Rows[0].Get(model.FieldFullName).String())
			assert.Equal(t, []string{"deduped_removed_duplicates:key=x@y.com"}, reasons(result.Report))
		})
	}
}

func TestCleanKeepsLatestDate(t *testing.T) {
	table := buildTable(
		[]string{"Name", "Email", "Last Clean Date"},
		map[string]string{"Name": "Newest", "Email": "a@x.com", "Last Clean Date": "2023-06-01"},
		map[string]string{"Name": "Oldest", "Email": "a@x.com", "Last Clean Date": "2021-01-15"},
		map[string]string{"Name": "Garbled", "Email": "a@x.com", "Last Clean Date": "next tuesday-ish"},
		map[string]string{"Name": "Middle", "Email": "a@x.com", "Last Clean Date": "2022/03/04"},
	)

	result := clean(t, table)

	require.Equal(t, 1, result.Cleaned.Len())
	assert.Equal(t, "Newest", result.Cleaned.Rows[0].Get(model.FieldFullName).String())
	assert.Equal(t, 0, result.Cleaned.Rows[0].Ordinal)
	assert.Equal(t, 3, result.Summary.DuplicatesRemoved)
	assert.Equal(t, 1, result.Summary.DuplicateGroups)

	var unparseable []model.CleaningOperation
	for _, op := range result.Operations {
		if op.CleaningReason == "unparseable_date" {
			unparseable = append(unparseable, op)
		}
	}
	require.Len(t, unparseable, 1)
	assert.Equal(t, 2, unparseable[0].RowOrdinal)
	assert.True(t, unparseable[0].NewValue.IsNull())
}

func TestCleanYearlessDateDoesNotOutrankUndatedRow(t *testing.T) {
	table := buildTable(
		[]string{"Name", "Email", "Last Clean Date"},
		map[string]string{"Name": "Fragment", "Email": "a@x.com", "Last Clean Date": "1/2"},
		map[string]string{"Name": "Undated", "Email": "a@x.com"},
	)

	result := clean(t, table)

	require.Equal(t, 1, result.Cleaned.Len())
	assert.Equal(t, "Undated", result.Cleaned.Rows[0].Get(model.FieldFullName).String())
	assert.True(t, result.Cleaned.Rows[0].Get(model.FieldLastCleanDate).IsNull())
}

func TestCleanAllUndatedKeepsLastInInputOrder(t *testing.T) {
	table := buildTable(
		[]string{"Name", "Email", "Date"},
		map[string]string{"Name": "First", "Email": "a@x.com"},
		map[string]string{"Name": "Other", "Email": "b@x.com"},
		map[string]string{"Name": "Second", "Email": "a@x.com", "Date": ""},
	)

	result := clean(t, table)

	require.Equal(t, 2, result.Cleaned.Len())
	// Date path orders output by key
	assert.Equal(t, "Second", result.Cleaned.Rows[0].Get(model.FieldFullName).String())
	assert.Equal(t, "Other", result.Cleaned.Rows[1].Get(model.FieldFullName).String())
	assert.Equal(t, []string{"deduped_removed_duplicates:key=a@x.com"}, reasons(result.Report))
}

func TestCleanWithoutDateColumn(t *testing.T) {
	t.Run("keeps last occurrence in input order", func(t *testing.T) {
		table := buildTable(
			[]string{"Name", "Email"},
			map[string]string{"Name": "A1", "Email": "a@x.com"},
			map[string]string{"Name": "B", "Email": "b@x.com"},
			map[string]string{"Name": "A2", "Email": "A@x.com"},
		)

		result := clean(t, table)

		require.Equal(t, 2, result.Cleaned.Len())
		assert.Equal(t, "B", result.Cleaned.Rows[0].Get(model.FieldFullName).String())
		assert.Equal(t, "A2", result.Cleaned.Rows[1].Get(model.FieldFullName).String())
		assert.Equal(t, []string{"deduped_removed_duplicates:key=a@x.com"}, reasons(result.Report))
	})

	t.Run("reports only groups with duplicates", func(t *testing.T) {
		table := buildTable(
			[]string{"Name", "Email"},
			map[string]string{"Name": "A", "Email": "a@x.com"},
			map[string]string{"Name": "B", "Email": "b@x.com"},
		)

		result := clean(t, table)

		assert.Equal(t, 2, result.Cleaned.Len())
		assert.Empty(t, result.Report)
	})
}

func TestCleanDedupeKeySelection(t *testing.T) {
	t.Run("full_name key", func(t *testing.T) {
		table := buildTable(
			[]string{"Name", "Email"},
			map[string]string{"Name": "Jane Doe", "Email": "jane@home.com"},
			map[string]string{"Name": "jane  DOE", "Email": "jane@work.com"},
		)

		result := clean(t, table, config.WithDedupeKey("full_name"))

		require.Equal(t, 1, result.Cleaned.Len())
		assert.Equal(t, "jane@work.com", result.Cleaned.Rows[0].Get(model.FieldEmail).String())
		assert.Equal(t, []string{"deduped_removed_duplicates:key=jane doe"}, reasons(result.Report))
	})

	t.Run("email key falls back to full_name without an email column", func(t *testing.T) {
		table := buildTable(
			[]string{"Name", "Phone"},
			map[string]string{"Name": "Jane Doe", "Phone": "1"},
			map[string]string{"Name": "Jane Doe", "Phone": "2"},
		)

		result := clean(t, table)

		require.Equal(t, 1, result.Cleaned.Len())
		assert.Equal(t, "2", result.Cleaned.Rows[0].Get(model.FieldPhone).String())
	})

	t.Run("no key column groups every row together", func(t *testing.T) {
		table := buildTable(
			[]string{"Phone"},
			map[string]string{"Phone": "1"},
			map[string]string{"Phone": "2"},
			map[string]string{"Phone": "3"},
		)

		result := clean(t, table, config.WithRequired())

		require.Equal(t, 1, result.Cleaned.Len())
		assert.Equal(t, "3", result.Cleaned.Rows[0].Get(model.FieldPhone).String())
		assert.Equal(t, []string{"deduped_removed_duplicates:key="}, reasons(result.Report))
	})

	t.Run("null emails share the empty key", func(t *testing.T) {
		table := buildTable(
			[]string{"Name", "Email"},
			map[string]string{"Name": "A"},
			map[string]string{"Name": "B", "Email": "  "},
		)

		result := clean(t, table)

		require.Equal(t, 1, result.Cleaned.Len())
		assert.Equal(t, "B", result.Cleaned.Rows[0].Get(model.FieldFullName).String())
		assert.Equal(t, "", result.Cleaned.Rows[0].Get(model.FieldEmail).String())
	})
}

func TestCleanReportsValidationBeforeDedupe(t *testing.T) {
	table := buildTable(
		[]string{"Name", "Email"},
		map[string]string{"Name": "A", "Email": "dup@x.com"},
		map[string]string{"Name": "A", "Email": "dup@x.com"},
		map[string]string{"Email": "nobody@x.com"},
	)

	result := clean(t, table)

	assert.Equal(t, []model.ReportEntry{
		{Row: 2, Reason: "missing_required:full_name"},
		{Row: model.RowSentinel, Reason: "deduped_removed_duplicates:key=dup@x.com"},
	}, result.Report)
	assert.Equal(t, 2, result.Summary.ReportRows())
}

func TestCleanExplicitMapping(t *testing.T) {
	table := buildTable(
		[]string{"Kunde", "Mail", "Name"},
		map[string]string{"Kunde": "Karl Klein", "Mail": "KARL@X.de", "Name": "ignored"},
	)

	result := clean(t, table, config.WithMapping(model.FieldMapping{
		model.FieldFullName: "Kunde",
		model.FieldEmail:    "Mail",
		model.FieldPhone:    "Telefon",
	}))

	require.Equal(t, 1, result.Cleaned.Len())
	assert.Equal(t, []string{model.FieldFullName, model.FieldEmail}, result.Cleaned.Columns)
	assert.Equal(t, "Karl Klein", result.Cleaned.Rows[0].Get(model.FieldFullName).String())
	assert.Equal(t, "karl@x.de", result.Cleaned.Rows[0].Get(model.FieldEmail).String())
}

func TestCleanColumnOrder(t *testing.T) {
	table := buildTable(
		[]string{"Amount", "Type", "Last Name", "First Name", "Date", "Mobile", "E-Mail"},
		map[string]string{
			"Amount": "100", "Type": "deep", "Last Name": "Lee", "First Name": "Ann",
			"Date": "2020-01-01", "Mobile": "555", "E-Mail": "ann@x.com",
		},
	)

	result := clean(t, table)

	assert.Equal(t, []string{
		model.FieldFullName,
		model.FieldEmail,
		model.FieldPhone,
		model.FieldLastCleanDate,
		model.FieldCleanType,
		model.FieldInvoiceAmountBrutto,
		model.FieldFirstName,
		model.FieldLastName,
	}, result.Cleaned.Columns)
}

func TestCleanEmptyTable(t *testing.T) {
	result := clean(t, model.NewTable("full name", "email"))

	assert.Equal(t, 0, result.Cleaned.Len())
	assert.Empty(t, result.Report)
	assert.Equal(t, 0, result.ReportTable().Len())
	assert.Equal(t, []string{model.FieldFullName, model.FieldEmail}, result.Cleaned.Columns)
}

func TestCleanIsIdempotent(t *testing.T) {
	table := buildTable(
		[]string{"Customer Name", "E-Mail", "Service Date", "Service"},
		map[string]string{"Customer Name": "Ann  Lee", "E-Mail": "ANN@x.com", "Service Date": "2022-01-01", "Service": "deep"},
		map[string]string{"Customer Name": "Ann Lee", "E-Mail": "ann@x.com", "Service Date": "2023-02-01", "Service": "basic"},
		map[string]string{"Customer Name": "Bob", "E-Mail": "bob@x.com"},
		map[string]string{"E-Mail": "ghost@x.com"},
	)

	first := clean(t, table)
	require.Equal(t, 2, first.Cleaned.Len())

	second := clean(t, first.Cleaned)

	assert.Empty(t, second.Report)
	assert.Equal(t, first.Cleaned.Columns, second.Cleaned.Columns)
	require.Equal(t, first.Cleaned.Len(), second.Cleaned.Len())
	for i := range first.Cleaned.Rows {
		for _, col := range first.Cleaned.Columns {
			assert.True(t,
				first.Cleaned.Rows[i].Get(col).Equal(second.Cleaned.Rows[i].Get(col)),
				"row %d column %s changed", i, col)
		}
	}
}

func TestCleanOutputInvariants(t *testing.T) {
	table := buildTable(
		[]string{"Name", "Email", "Date"},
		map[string]string{"Name": "A", "Email": "a@x.com", "Date": "2020-01-01"},
		map[string]string{"Name": "A", "Email": "a@x.com", "Date": "2021-01-01"},
		map[string]string{"Name": "", "Email": "b@x.com"},
		map[string]string{"Name": "C", "Email": "c@x.com"},
		map[string]string{"Name": "C", "Email": "C@X.COM", "Date": "bogus"},
		map[string]string{"Name": "D", "Email": "d@x.com", "Date": "2019-12-31"},
	)
	required := []string{model.FieldFullName, model.FieldEmail}

	result := clean(t, table, config.WithRequired(required...))

	keys := make(map[string]int)
	for _, row := range result.Cleaned.Rows {
		for _, field := range required {
			assert.False(t, row.Get(field).IsBlank(), "row %d has blank %s", row.Ordinal, field)
		}
		keys[row.Get(model.FieldEmail).String()]++
	}
	assert.Equal(t, map[string]int{"a@x.com": 1, "c@x.com": 1, "d@x.com": 1}, keys)
}

func TestCleanRejectsInvalidConfig(t *testing.T) {
	c := newTestCleaner(t)
	cfg := config.DefaultCleanConfig()
	cfg.DedupeKey = "phone"

	result, err := c.Clean(context.Background(), model.NewTable("email"), cfg)

	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrInvalidDedupeKey))
	assert.Nil(t, result)
}

func TestCleanRejectsNilTable(t *testing.T) {
	c := newTestCleaner(t)

	_, err := c.Clean(context.Background(), nil, config.DefaultCleanConfig())

	assert.Error(t, err)
}

func TestCleanRejectsNilContext(t *testing.T) {
	c := newTestCleaner(t)
	table := buildTable([]string{"Name"}, map[string]string{"Name": "Ann"})

	var result *Result
	var err error
	require.NotPanics(t, func() {
		result, err = c.Clean(nil, table, config.DefaultCleanConfig()) //nolint:staticcheck
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "context cannot be nil")
	assert.Nil(t, result)
}

func TestCleanRecordsOperations(t *testing.T) {
	table := buildTable(
		[]string{"Name", "Email"},
		map[string]string{"Name": "Ann", "Email": " ANN@x.com"},
	)

	result := clean(t, table)

	require.Len(t, result.Operations, 1)
	op := result.Operations[0]
	assert.Equal(t, model.FieldEmail, op.ColumnName)
	assert.Equal(t, 0, op.RowOrdinal)
	assert.Equal(t, model.OpLowercase, op.CleaningOperation)
	assert.Equal(t, " ANN@x.com", op.OriginalValue.String())
	assert.Equal(t, "ann@x.com", op.NewValue.String())
	assert.Equal(t, 1, result.Summary.CleaningOperations)
}

func TestCleanLogsSummary(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	c, err := NewCleaner(zap.New(core), nil)
	require.NoError(t, err)

	table := buildTable(
		[]string{"Name", "Email"},
		map[string]string{"Name": "A", "Email": "a@x.com"},
		map[string]string{"Name": "A", "Email": "a@x.com"},
	)

	result, err := c.Clean(context.Background(), table, config.DefaultCleanConfig())
	require.NoError(t, err)

	entries := logs.FilterMessage("Cleaned contact table").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, result.Summary.RunID, fields["run_id"])
	assert.EqualValues(t, 2, fields["input_rows"])
	assert.EqualValues(t, 1, fields["output_rows"])
	assert.EqualValues(t, 1, fields["duplicates_removed"])
	assert.EqualValues(t, 1, fields["report_rows"])
}

func TestResultReportTable(t *testing.T) {
	result := &Result{Report: []model.ReportEntry{
		{Row: 4, Reason: "missing_required:full_name"},
		{Row: model.RowSentinel, Reason: "deduped_removed_duplicates:key=a@x.com"},
	}}

	table := result.ReportTable()

	assert.Equal(t, []string{"row", "reason"}, table.Columns)
	require.Equal(t, 2, table.Len())
	assert.Equal(t, "4", table.Rows[0].Get("row").String())
	assert.Equal(t, "-", table.Rows[1].Get("row").String())
	assert.Equal(t, "deduped_removed_duplicates:key=a@x.com", table.Rows[1].Get("reason").String())
}
