// pkg/cleaner/summary.go
package cleaner

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Summary tracks counts for a single cleaning run
type Summary struct {
	RunID              string
	StartTime          time.Time
	EndTime            time.Time
	InputRows          int
	RejectedRows       int // rows failing required-field validation
	DuplicateGroups    int // keys that had more than one valid row
	DuplicatesRemoved  int // valid rows merged away
	OutputRows         int
	CleaningOperations int
}

// Complete marks the run finished
func (s *Summary) Complete() {
	s.EndTime = time.Now()
}

// Duration returns how long the run took
func (s Summary) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}

// ReportRows is the number of report entries the run produced
func (s Summary) ReportRows() int {
	return s.RejectedRows + s.DuplicateGroups
}

// Fields returns the summary as structured log fields
func (s Summary) Fields() []zap.Field {
	return []zap.Field{
		zap.String("run_id", s.RunID),
		zap.Int("input_rows", s.InputRows),
		zap.Int("rejected_rows", s.RejectedRows),
		zap.Int("duplicate_groups", s.DuplicateGroups),
		zap.Int("duplicates_removed", s.DuplicatesRemoved),
		zap.Int("output_rows", s.OutputRows),
		zap.Int("report_rows", s.ReportRows()),
		zap.Int("cleaning_operations", s.CleaningOperations),
		zap.String("duration", formatDuration(s.Duration())),
	}
}

// String renders a one-line human summary
func (s Summary) String() string {
	return fmt.Sprintf("%d rows in, %d rejected, %d duplicates removed across %d keys, %d rows out (%s)",
		s.InputRows,
		s.RejectedRows,
		s.DuplicatesRemoved,
		s.DuplicateGroups,
		s.OutputRows,
		formatDuration(s.Duration()))
}

// formatDuration formats a duration to a human-readable string
func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	} else if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}
