// pkg/csvio/csvio.go
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/David-Botos/contact-cleaner/pkg/converter"
	"github.com/David-Botos/contact-cleaner/pkg/model"
)

// ErrNoHeader is returned when the input has no header row
var ErrNoHeader = errors.New("csv input has no header row")

// ReadTable reads a CSV document whose first record is the header.
// Short records are padded with nulls; duplicate headers get ".1", ".2" suffixes.
func ReadTable(r io.Reader, conv *converter.ValueConverter) (*model.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	columns := dedupeHeaders(header)

	table := model.NewTable(columns...)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		if len(record) > len(columns) {
			return nil, fmt.Errorf("line %d: expected %d fields, saw %d", line, len(columns), len(record))
		}

		values := make(map[string]model.Value, len(columns))
		for i, col := range columns {
			if i < len(record) {
				values[col] = conv.FromCell(record[i])
			} else {
				values[col] = model.Null()
			}
		}
		table.AppendRow(values)
	}

	return table, nil
}

// ReadFile opens path and reads it as a CSV table
func ReadFile(path string, conv *converter.ValueConverter) (*model.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input '%s': %w", path, err)
	}
	defer f.Close()

	table, err := ReadTable(f, conv)
	if err != nil {
		return nil, fmt.Errorf("failed to read '%s': %w", path, err)
	}
	return table, nil
}

// WriteTable writes the table's columns as a header followed by every row
func WriteTable(w io.Writer, table *model.Table, conv *converter.ValueConverter) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(table.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	record := make([]string, len(table.Columns))
	for _, row := range table.Rows {
		for i, col := range table.Columns {
			record[i] = conv.Format(row.Get(col))
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row.Ordinal, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteFile writes table to path, creating parent directories as needed
func WriteFile(path string, table *model.Table, conv *converter.ValueConverter) (err error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory '%s': %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create '%s': %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close '%s': %w", path, closeErr)
		}
	}()

	if err := WriteTable(f, table, conv); err != nil {
		return fmt.Errorf("failed to write '%s': %w", path, err)
	}
	return nil
}

// dedupeHeaders renames repeated headers "x", "x" to "x", "x.1"
func dedupeHeaders(header []string) []string {
	seen := make(map[string]int, len(header))
	taken := make(map[string]bool, len(header))
	for _, h := range header {
		taken[h] = true
	}

	out := make([]string, len(header))
	for i, h := range header {
		n, dup := seen[h]
		seen[h] = n + 1
		if !dup {
			out[i] = h
			continue
		}
		name := h + "." + strconv.Itoa(n)
		for taken[name] {
			n++
			name = h + "." + strconv.Itoa(n)
		}
		seen[h] = n + 1
		taken[name] = true
		out[i] = name
	}
	return out
}
