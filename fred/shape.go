package fred

import (
	"fmt"

	"github.com/oshokin/frb/frame"
)

// Result is a shaped response. Exactly one of the payload fields is set,
// depending on Format.
type Result struct {
	// Format is the format the body was shaped into.
	Format Format
	// Text is the body for FormatXML and FormatJSON,
	// or the delimited text for FormatCSV, FormatTab and FormatPipe.
	Text string
	// Records is set for FormatRecords.
	Records []frame.Record
	// Table is set for FormatTable.
	Table *frame.Table
	// Values is set for FormatArray.
	Values [][]any
}

// Shape converts a raw response body into the requested format.
func Shape(format Format, content string) (*Result, error) {
	return shape(format, content)
}

func shape(format Format, content string) (*Result, error) {
	result := &Result{Format: format}

	switch format {
	case FormatXML, FormatJSON:
		result.Text = content

		return result, nil
	case FormatRecords, FormatTable, FormatCSV, FormatTab, FormatPipe, FormatArray:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	table, err := frame.Parse(content)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatRecords:
		result.Records = table.Records()
	case FormatTable:
		result.Table = table
	case FormatCSV:
		result.Text, err = table.Delimited(frame.Comma)
	case FormatTab:
		result.Text, err = table.Delimited(frame.Tab)
	case FormatPipe:
		result.Text, err = table.Delimited(frame.Pipe)
	case FormatArray:
		result.Values = table.Values()
	case FormatXML, FormatJSON:
	}

	if err != nil {
		return nil, fmt.Errorf("failed to write %s output: %w", format, err)
	}

	return result, nil
}
