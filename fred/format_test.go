package fred

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		expected Format
	}{
		{name: "xml", expected: FormatXML},
		{name: "json", expected: FormatJSON},
		{name: "dict", expected: FormatRecords},
		{name: "df", expected: FormatTable},
		{name: "csv", expected: FormatCSV},
		{name: "tab", expected: FormatTab},
		{name: "pipe", expected: FormatPipe},
		{name: "numpy", expected: FormatArray},
		{name: "raw-xml", expected: FormatXML},
		{name: "raw-json", expected: FormatJSON},
		{name: "records", expected: FormatRecords},
		{name: "tabular", expected: FormatTable},
		{name: "comma", expected: FormatCSV},
		{name: "numeric-array", expected: FormatArray},
		{name: " DF ", expected: FormatTable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			format, err := ParseFormat(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, format)
		})
	}
}

func TestParseFormat_Unsupported(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"yaml", "", "xlsx"} {
		_, err := ParseFormat(name)
		require.ErrorIs(t, err, ErrUnsupportedFormat)
		assert.True(t, IsConfigurationError(err))
	}
}

func TestFormat_Properties(t *testing.T) {
	t.Parallel()

	for _, name := range FormatNames() {
		format, err := ParseFormat(name)
		require.NoError(t, err)

		assert.Equal(t, name, format.String())
		assert.True(t, format.Valid())
		assert.Equal(t, format != FormatXML && format != FormatJSON, format.Tabular())
		assert.Equal(t, format != FormatXML, format.requestsJSON())
	}

	invalid := Format(200)
	assert.False(t, invalid.Valid())
	assert.Equal(t, "Format(200)", invalid.String())

	_, err := invalid.MarshalText()
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestFormat_Text(t *testing.T) {
	t.Parallel()

	text, err := FormatPipe.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "pipe", string(text))

	var format Format
	require.NoError(t, format.UnmarshalText([]byte("tabular")))
	assert.Equal(t, FormatTable, format)

	require.ErrorIs(t, format.UnmarshalText([]byte("yaml")), ErrUnsupportedFormat)
}
