// pkg/cleaner/cleaner.go
package cleaner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/David-Botos/contact-cleaner/pkg/config"
	"github.com/David-Botos/contact-cleaner/pkg/converter"
	"github.com/David-Botos/contact-cleaner/pkg/model"
)

// Cleaner canonicalizes, validates and deduplicates contact tables
type Cleaner struct {
	logger    *zap.Logger
	converter *converter.ValueConverter
}

// Result is the outcome of one cleaning run
type Result struct {
	Cleaned    *model.Table              // Canonical, deduplicated contacts
	Report     []model.ReportEntry       // Validation entries first, then dedupe entries
	Operations []model.CleaningOperation // Value rewrites made during canonicalization
	Mapping    model.FieldMapping        // Mapping the run used
	Summary    Summary
}

// NewCleaner creates a new Cleaner. A nil converter selects the default one.
func NewCleaner(logger *zap.Logger, conv *converter.ValueConverter) (*Cleaner, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if conv == nil {
		conv = converter.NewValueConverter(logger.Named("converter"))
	}

	return &Cleaner{
		logger:    logger,
		converter: conv,
	}, nil
}

// Clean runs the full pipeline over table. Data defects never fail the run;
// they are returned as report entries. Only an invalid configuration or a
// nil table produce an error.
func (c *Cleaner) Clean(ctx context.Context, table *model.Table, cfg config.CleanConfig) (*Result, error) {
	if table == nil {
		return nil, errors.New("input table cannot be nil")
	}
	if ctx == nil {
		return nil, errors.New("context cannot be nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid clean config: %w", err)
	}

	summary := Summary{
		RunID:     uuid.New().String(),
		StartTime: time.Now(),
		InputRows: table.Len(),
	}
	logger := c.logger.With(zap.String("run_id", summary.RunID))

	mapping := cfg.Mapping
	if mapping == nil {
		mapping = BuildAutoMapping(table.Columns)
		logger.Debug("Built automatic field mapping", zap.Any("mapping", mapping))
	}

	canon := canonicalize(table, mapping, cfg.DateField, c.converter)
	for _, op := range canon.ops {
		logger.Debug("Cleaned value",
			zap.String("column", op.ColumnName),
			zap.Int("row", op.RowOrdinal),
			zap.String("operation", op.CleaningOperation),
			zap.String("reason", op.CleaningReason))
	}

	valid, report := validateRows(canon.rows, canon.present, cfg.Required)
	summary.RejectedRows = len(report)

	deduped := dedupe(valid, canon.present, cfg.DedupeKey, cfg.DateField)
	report = append(report, deduped.entries...)
	summary.DuplicateGroups = deduped.groups
	summary.DuplicatesRemoved = deduped.removed

	cleaned := &model.Table{
		Columns: orderColumns(canon.present),
		Rows:    deduped.rows,
	}

	summary.OutputRows = cleaned.Len()
	summary.CleaningOperations = len(canon.ops)
	summary.Complete()

	c.logger.Info("Cleaned contact table", summary.Fields()...)

	return &Result{
		Cleaned:    cleaned,
		Report:     report,
		Operations: canon.ops,
		Mapping:    mapping,
		Summary:    summary,
	}, nil
}

// ReportTable renders the report as a two-column (row, reason) table
func (r *Result) ReportTable() *model.Table {
	table := model.NewTable(model.ReportColumnRow, model.ReportColumnReason)
	for _, entry := range r.Report {
		table.AppendRow(map[string]model.Value{
			model.ReportColumnRow:    model.Text(entry.Label()),
			model.ReportColumnReason: model.Text(entry.Reason),
		})
	}
	return table
}
