package frame

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind is the inferred type of a column.
type Kind uint8

// Column kinds.
const (
	// KindText keeps cells in their decoded form.
	KindText Kind = iota
	// KindInteger holds int64 cells.
	KindInteger
	// KindFloat holds float64 cells.
	KindFloat
	// KindDate holds time.Time cells where they parse.
	KindDate
)

// missingValue is FRED's marker for an absent observation.
const missingValue = "."

// dateLayouts are tried in order when parsing date cells.
//
//nolint:gochecknoglobals // Layout list used as a constant.
var dateLayouts = []string{
	time.DateOnly,
	"2006-01-02 15:04:05-07",
	time.RFC3339,
	time.DateTime,
}

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindDate:
		return "date"
	default:
		return "text"
	}
}

// Column is one named, typed column of a table.
// Missing cells are nil.
type Column struct {
	// Name is the field name.
	Name string
	// Kind is the inferred type.
	Kind Kind
	// Values holds one cell per row.
	Values []any
}

// assign types the raw cells and stores them.
func (c *Column) assign(cells []any) {
	if DateFields.Has(c.Name) {
		c.Kind = KindDate
		c.Values = parseDates(cells)

		return
	}

	if values, kind, ok := coerceNumbers(cells); ok {
		c.Kind = kind
		c.Values = values

		return
	}

	c.Kind = KindText
	c.Values = cells
}

// parseDates converts every parseable cell to time.Time and keeps the rest unchanged.
func parseDates(cells []any) []any {
	values := make([]any, len(cells))

	for i, cell := range cells {
		text, ok := cell.(string)
		if !ok {
			values[i] = cell

			continue
		}

		if parsed, parsedOK := parseDate(text); parsedOK {
			values[i] = parsed
		} else {
			values[i] = text
		}
	}

	return values
}

func parseDate(text string) (time.Time, bool) {
	text = strings.TrimSpace(text)

	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, text); err == nil {
			return parsed, true
		}
	}

	return time.Time{}, false
}

// coerceNumbers converts the cells to numbers when every non-missing cell coerces.
// Integral columns become int64, the rest float64. A column with no numeric cell is left alone.
func coerceNumbers(cells []any) ([]any, Kind, bool) {
	floats := make([]float64, len(cells))
	missing := make([]bool, len(cells))
	integral := true
	numeric := 0

	for i, cell := range cells {
		text, isMissing, ok := numericText(cell)
		if isMissing {
			missing[i] = true

			continue
		}

		if !ok {
			return nil, KindText, false
		}

		value, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, KindText, false
		}

		if _, intErr := strconv.ParseInt(text, 10, 64); intErr != nil {
			integral = false
		}

		floats[i] = value
		numeric++
	}

	if numeric == 0 {
		return nil, KindText, false
	}

	values := make([]any, len(cells))

	for i, cell := range cells {
		switch {
		case missing[i]:
			continue
		case integral:
			text, _, _ := numericText(cell)
			values[i], _ = strconv.ParseInt(text, 10, 64)
		default:
			values[i] = floats[i]
		}
	}

	if integral {
		return values, KindInteger, true
	}

	return values, KindFloat, true
}

// numericText returns the text of a cell that may hold a number.
func numericText(cell any) (text string, isMissing, ok bool) {
	switch value := cell.(type) {
	case nil:
		return "", true, false
	case json.Number:
		return value.String(), false, true
	case string:
		trimmed := strings.TrimSpace(value)
		if trimmed == "" || trimmed == missingValue {
			return "", true, false
		}

		// Reject forms ParseFloat accepts but FRED never sends as numbers.
		lowered := strings.ToLower(trimmed)
		if strings.Contains(lowered, "inf") || strings.Contains(lowered, "nan") ||
			strings.HasPrefix(lowered, "0x") || strings.Contains(lowered, "_") {
			return "", false, false
		}

		return trimmed, false, true
	default:
		return "", false, false
	}
}

// isWhole reports whether f has no fractional part.
func isWhole(f float64) bool {
	return f == math.Trunc(f) && !math.IsInf(f, 0)
}
