package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oshokin/frb/internal/version"
)

// TestNewUserAgentProvider tests the NewUserAgentProvider function.
func TestNewUserAgentProvider(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		userAgent string
		expected  string
	}{
		{
			name:      "custom user agent",
			userAgent: "frb-go (+https://github.com/oshokin/frb)",
			expected:  "frb-go (+https://github.com/oshokin/frb)",
		},
		{
			name:      "surrounding spaces are trimmed",
			userAgent: "  research-bot/2.0 ",
			expected:  "research-bot/2.0",
		},
		{
			name:      "empty falls back to the build product token",
			userAgent: "",
			expected:  "frb/" + version.Version,
		},
		{
			name:      "blank falls back to the build product token",
			userAgent: "\t",
			expected:  "frb/" + version.Version,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			provider := NewUserAgentProvider(tt.userAgent)
			assert.Equal(t, tt.expected, provider.GetUserAgent())
		})
	}
}

// TestStaticUserAgent tests that StaticUserAgent satisfies UserAgentProvider.
func TestStaticUserAgent(t *testing.T) {
	t.Parallel()

	var provider UserAgentProvider = StaticUserAgent("fixed/1.0")

	assert.Equal(t, "fixed/1.0", provider.GetUserAgent())
	assert.Equal(t, provider.GetUserAgent(), provider.GetUserAgent())
	assert.Equal(t, BuildUserAgent(), NewUserAgentProvider("").GetUserAgent())
}
