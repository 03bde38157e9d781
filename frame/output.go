package frame

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"
)

// Common separators for WriteDelimited.
const (
	Comma = ','
	Tab   = '\t'
	Pipe  = '|'
)

// Available reports whether the tabular capability is compiled in.
// Every build of this package supports it; callers may still disable it.
func Available() bool {
	return true
}

// Records returns one record per row, keyed by column name.
// Missing cells appear as nil values.
func (t *Table) Records() []Record {
	records := make([]Record, t.rows)

	for i := range records {
		record := make(Record, len(t.Columns))
		for _, column := range t.Columns {
			record[column.Name] = column.Values[i]
		}

		records[i] = record
	}

	return records
}

// Values returns the cells row by row without a header.
func (t *Table) Values() [][]any {
	values := make([][]any, t.rows)

	for i := range values {
		row := make([]any, len(t.Columns))
		for j, column := range t.Columns {
			row[j] = column.Values[i]
		}

		values[i] = row
	}

	return values
}

// WriteDelimited writes the table as delimited text with a header row and no index column.
func (t *Table) WriteDelimited(w io.Writer, separator rune) error {
	writer := csv.NewWriter(w)
	writer.Comma = separator

	if err := writer.Write(t.ColumnNames()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	line := make([]string, len(t.Columns))

	for i := range t.rows {
		for j, column := range t.Columns {
			line[j] = FormatCell(column.Values[i])
		}

		if err := writer.Write(line); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	writer.Flush()

	return writer.Error()
}

// Delimited returns the table as delimited text.
func (t *Table) Delimited(separator rune) (string, error) {
	var buffer bytes.Buffer

	if err := t.WriteDelimited(&buffer, separator); err != nil {
		return "", err
	}

	return buffer.String(), nil
}

// FormatCell renders a cell as text.
// Dates without a time of day render as 2006-01-02, whole floats keep one decimal.
func FormatCell(cell any) string {
	switch value := cell.(type) {
	case nil:
		return ""
	case string:
		return value
	case time.Time:
		if value.Hour() == 0 && value.Minute() == 0 && value.Second() == 0 && value.Nanosecond() == 0 {
			return value.Format(time.DateOnly)
		}

		return value.Format(time.DateTime)
	case int64:
		return strconv.FormatInt(value, 10)
	case float64:
		if isWhole(value) {
			return strconv.FormatFloat(value, 'f', 1, 64)
		}

		return strconv.FormatFloat(value, 'f', -1, 64)
	case json.Number:
		return value.String()
	case bool:
		return strconv.FormatBool(value)
	default:
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprint(value)
		}

		return string(encoded)
	}
}
