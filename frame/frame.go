package frame

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"k8s.io/apimachinery/pkg/util/sets"
)

// Static error definitions for better error handling.
var (
	// ErrUnexpectedShape indicates a body that is not a recognizable FRED envelope.
	ErrUnexpectedShape = errors.New("unexpected response shape")
)

// ArrayFields lists the envelope fields that carry result records.
//
//nolint:gochecknoglobals // Read-only set shared with callers.
var ArrayFields = sets.New(
	"categories",
	"seriess",
	"tags",
	"releases",
	"release_dates",
	"sources",
	"vintage_dates",
	"observations",
)

// DateFields lists the record fields parsed as dates.
//
//nolint:gochecknoglobals // Read-only set shared with callers.
var DateFields = sets.New(
	"realtime_start",
	"realtime_end",
	"date",
	"vintage_dates",
	"last_updated",
	"observation_start",
	"observation_end",
	"created",
)

// Record is one row keyed by field name.
type Record map[string]any

// Table is a typed, column-ordered view of an envelope's record array.
type Table struct {
	// Field is the envelope field the rows came from.
	Field string
	// Columns holds the columns in first-seen order.
	Columns []*Column
	// rows is the number of rows.
	rows int
}

// row is one decoded array element with its field order.
type row struct {
	keys   []string
	values map[string]any
}

// Parse decodes a JSON envelope and builds a typed table from its single record array.
//
// The envelope must contain exactly one field from ArrayFields. Array elements
// that are objects become rows; scalar elements become a one-column row named
// after the envelope field. Columns keep the order in which fields first appear.
func Parse(content string) (*Table, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &envelope); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnexpectedShape, err)
	}

	field, err := locateArrayField(envelope)
	if err != nil {
		return nil, err
	}

	rows, err := decodeRows(field, envelope[field])
	if err != nil {
		return nil, err
	}

	return build(field, rows), nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return t.rows
}

// ColumnNames returns the column names in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, column := range t.Columns {
		names[i] = column.Name
	}

	return names
}

// Column returns the column with the given name.
func (t *Table) Column(name string) (*Column, bool) {
	for _, column := range t.Columns {
		if column.Name == name {
			return column, true
		}
	}

	return nil, false
}

func locateArrayField(envelope map[string]json.RawMessage) (string, error) {
	var matched []string

	for key := range envelope {
		if ArrayFields.Has(key) {
			matched = append(matched, key)
		}
	}

	switch len(matched) {
	case 0:
		return "", fmt.Errorf("%w: no known record array in envelope", ErrUnexpectedShape)
	case 1:
		return matched[0], nil
	default:
		slices.Sort(matched)

		return "", fmt.Errorf("%w: ambiguous envelope with fields %v", ErrUnexpectedShape, matched)
	}
}

func decodeRows(field string, raw json.RawMessage) ([]row, error) {
	decoder := newDecoder(raw)

	token, err := decoder.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnexpectedShape, err)
	}

	if delim, ok := token.(json.Delim); !ok || delim != '[' {
		return nil, fmt.Errorf("%w: field %q is not an array", ErrUnexpectedShape, field)
	}

	var rows []row

	for decoder.More() {
		var item json.RawMessage
		if err = decoder.Decode(&item); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnexpectedShape, err)
		}

		decoded, decodeErr := decodeRow(field, item)
		if decodeErr != nil {
			return nil, decodeErr
		}

		rows = append(rows, decoded)
	}

	return rows, nil
}

func decodeRow(field string, raw json.RawMessage) (row, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		var value any
		if err := newDecoder(trimmed).Decode(&value); err != nil {
			return row{}, fmt.Errorf("%w: %w", ErrUnexpectedShape, err)
		}

		return row{
			keys:   []string{field},
			values: map[string]any{field: value},
		}, nil
	}

	decoder := newDecoder(trimmed)

	// Opening brace, checked above.
	if _, err := decoder.Token(); err != nil {
		return row{}, fmt.Errorf("%w: %w", ErrUnexpectedShape, err)
	}

	result := row{values: make(map[string]any)}

	for decoder.More() {
		token, err := decoder.Token()
		if err != nil {
			return row{}, fmt.Errorf("%w: %w", ErrUnexpectedShape, err)
		}

		key, _ := token.(string)

		var value any
		if err = decoder.Decode(&value); err != nil {
			return row{}, fmt.Errorf("%w: %w", ErrUnexpectedShape, err)
		}

		if _, seen := result.values[key]; !seen {
			result.keys = append(result.keys, key)
		}

		result.values[key] = value
	}

	return result, nil
}

func build(field string, rows []row) *Table {
	var (
		columns []*Column
		byName  = make(map[string]*Column)
	)

	for _, r := range rows {
		for _, key := range r.keys {
			if _, exists := byName[key]; exists {
				continue
			}

			column := &Column{Name: key}
			byName[key] = column
			columns = append(columns, column)
		}
	}

	for _, column := range columns {
		cells := make([]any, len(rows))
		for i, r := range rows {
			cells[i] = r.values[column.Name]
		}

		column.assign(cells)
	}

	return &Table{
		Field:   field,
		Columns: columns,
		rows:    len(rows),
	}
}

func newDecoder(data []byte) *json.Decoder {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	return decoder
}
