package fred

import (
	"fmt"
	"strings"
)

// Format selects how a response body is shaped.
type Format uint8

// Supported formats.
const (
	// FormatXML returns the XML body unchanged.
	FormatXML Format = iota
	// FormatJSON returns the JSON body unchanged.
	FormatJSON
	// FormatRecords returns one record per result row.
	FormatRecords
	// FormatTable returns a typed table.
	FormatTable
	// FormatCSV returns comma separated text.
	FormatCSV
	// FormatTab returns tab separated text.
	FormatTab
	// FormatPipe returns pipe separated text.
	FormatPipe
	// FormatArray returns the table cells without a header.
	FormatArray

	formatCount
)

// formatNames holds the canonical name of every format.
//
//nolint:gochecknoglobals // Lookup table used as a constant.
var formatNames = [formatCount]string{
	FormatXML:     "xml",
	FormatJSON:    "json",
	FormatRecords: "dict",
	FormatTable:   "df",
	FormatCSV:     "csv",
	FormatTab:     "tab",
	FormatPipe:    "pipe",
	FormatArray:   "numpy",
}

// formatAliases maps descriptive names to formats.
//
//nolint:gochecknoglobals // Lookup table used as a constant.
var formatAliases = map[string]Format{
	"raw-xml":       FormatXML,
	"raw-json":      FormatJSON,
	"records":       FormatRecords,
	"tabular":       FormatTable,
	"comma":         FormatCSV,
	"numeric-array": FormatArray,
}

// ParseFormat returns the format with the given name or alias, ignoring case.
func ParseFormat(name string) (Format, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))

	for format, formatName := range formatNames {
		if formatName == normalized {
			return Format(format), nil //nolint:gosec // Index is bounded by formatCount.
		}
	}

	if format, ok := formatAliases[normalized]; ok {
		return format, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// FormatNames returns the canonical format names in declaration order.
func FormatNames() []string {
	return formatNames[:]
}

// String returns the canonical name of the format.
func (f Format) String() string {
	if !f.Valid() {
		return fmt.Sprintf("Format(%d)", uint8(f))
	}

	return formatNames[f]
}

// Valid reports whether f is a known format.
func (f Format) Valid() bool {
	return f < formatCount
}

// Tabular reports whether the format needs the tabular capability.
func (f Format) Tabular() bool {
	switch f {
	case FormatRecords, FormatTable, FormatCSV, FormatTab, FormatPipe, FormatArray:
		return true
	default:
		return false
	}
}

// requestsJSON reports whether the service is asked for JSON.
// Only the raw XML format keeps the service's XML default.
func (f Format) requestsJSON() bool {
	return f != FormatXML
}

// MarshalText implements encoding.TextMarshaler.
func (f Format) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}

	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Format) UnmarshalText(text []byte) error {
	parsed, err := ParseFormat(string(text))
	if err != nil {
		return err
	}

	*f = parsed

	return nil
}
