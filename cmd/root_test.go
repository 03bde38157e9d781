package cmd

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/frb/fred"
	"github.com/oshokin/frb/internal/config"
	"github.com/oshokin/frb/internal/constants"
)

const testBaseConfigContent = `
api_key: "0123456789abcdefghijklmnopqrstuv"
response_format: "json"
ssl_verify: true
timeout: "10s"
rate_limit_calls: 20
rate_limit_period: "1s"
cache_enabled: false
log_level: "info"
`

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), "test-config.yaml")

	//nolint:gosec // It's a test file.
	err := os.WriteFile(configPath, []byte(content), constants.DefaultFilePermissions)
	require.NoError(t, err)

	return configPath
}

func newTestCommand() *cobra.Command {
	testCmd := &cobra.Command{Use: "test"}
	addQueryFlags(testCmd.Flags())

	return testCmd
}

// TestFlagOverrides tests that command-line flags correctly override configuration file values.
//
//nolint:funlen,tparallel // Cannot run in parallel due to Viper global state.
func TestFlagOverrides(t *testing.T) {
	tests := []struct {
		name           string
		flags          map[string]string
		expectedConfig func(*testing.T, *config.Config)
	}{
		{
			name:  "no flags - use config values",
			flags: map[string]string{},
			expectedConfig: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, "0123456789abcdefghijklmnopqrstuv", cfg.APIKey)
				assert.Equal(t, fred.FormatJSON, cfg.ParsedResponseFormat)
				assert.True(t, cfg.SSLVerify)
				assert.Equal(t, "10s", cfg.ParsedTimeout.String())
			},
		},
		{
			name:  "format flag - override format",
			flags: map[string]string{"format": "df"},
			expectedConfig: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, fred.FormatTable, cfg.ParsedResponseFormat)
				assert.Equal(t, "0123456789abcdefghijklmnopqrstuv", cfg.APIKey)
			},
		},
		{
			name:  "api key flag - override key",
			flags: map[string]string{"api-key": "zyxwvutsrqponmlkjihgfedcba987654"},
			expectedConfig: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, "zyxwvutsrqponmlkjihgfedcba987654", cfg.APIKey)
			},
		},
		{
			name:  "insecure flag - disable verification",
			flags: map[string]string{"insecure": "true"},
			expectedConfig: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.False(t, cfg.SSLVerify)
			},
		},
		{
			name:  "proxy and timeout flags",
			flags: map[string]string{"proxy": "https=http://127.0.0.1:3128", "timeout": "2s"},
			expectedConfig: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				require.Contains(t, cfg.ParsedProxy, "https")
				assert.Equal(t, "127.0.0.1:3128", cfg.ParsedProxy["https"].Host)
				assert.Equal(t, "2s", cfg.ParsedTimeout.String())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.LoadConfig(writeTestConfig(t, testBaseConfigContent))
			require.NoError(t, err)

			testCmd := newTestCommand()
			for flagName, flagValue := range tt.flags {
				require.NoError(t, testCmd.Flags().Set(flagName, flagValue))
			}

			require.NoError(t, bindFlagsToConfig(testCmd.Flags(), cfg))
			tt.expectedConfig(t, cfg)
		})
	}
}

//nolint:tparallel // Cannot run in parallel due to Viper global state.
func TestFlagOverrides_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		flags map[string]string
	}{
		{name: "unsupported format", flags: map[string]string{"format": "yaml"}},
		{name: "malformed api key", flags: map[string]string{"api-key": "NOT-A-KEY"}},
		{name: "negative timeout", flags: map[string]string{"timeout": "-1s"}},
		{name: "unknown log level", flags: map[string]string{"log-level": "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.LoadConfig(writeTestConfig(t, testBaseConfigContent))
			require.NoError(t, err)

			testCmd := newTestCommand()
			for flagName, flagValue := range tt.flags {
				require.NoError(t, testCmd.Flags().Set(flagName, flagValue))
			}

			require.Error(t, bindFlagsToConfig(testCmd.Flags(), cfg))
		})
	}
}

func TestBuildQuery(t *testing.T) {
	t.Parallel()

	endpoint, err := fred.LookupEndpoint(fred.FamilySeries, "observations")
	require.NoError(t, err)

	testCmd := newTestCommand()
	require.NoError(t, testCmd.Flags().Set("param", "units=pch"))
	require.NoError(t, testCmd.Flags().Set("param", "series_id=IGNORED"))
	require.NoError(t, testCmd.Flags().Set("no-cache", "true"))

	query, err := buildQuery(testCmd.Flags(), endpoint, []string{"GNPCA"})
	require.NoError(t, err)

	assert.Equal(t, fred.FamilySeries, query.Family)
	assert.Equal(t, "observations", query.Name)
	assert.Equal(t, fred.Params{"units": "pch", "series_id": "GNPCA"}, query.Args)
	assert.True(t, query.NoCache)

	require.NoError(t, testCmd.Flags().Set("param", "broken"))

	_, err = buildQuery(testCmd.Flags(), endpoint, []string{"GNPCA"})
	require.Error(t, err)
}

func TestNewFamilyCommands(t *testing.T) {
	t.Parallel()

	commands := newFamilyCommands()
	require.Len(t, commands, len(fred.Families()))

	var total int

	for _, familyCmd := range commands {
		total += len(familyCmd.Commands())

		assert.NotNil(t, familyCmd.PersistentFlags().Lookup("format"))
	}

	assert.Equal(t, len(fred.Endpoints()), total)

	for _, familyCmd := range commands {
		if familyCmd.Name() != string(fred.FamilyCategory) {
			continue
		}

		relatedTags, _, err := familyCmd.Find([]string{"related_tags"})
		require.NoError(t, err)

		assert.Equal(t, "related-tags <category_id> <tag_names>", relatedTags.Use)
		require.Error(t, relatedTags.Args(relatedTags, []string{"125"}))
		require.NoError(t, relatedTags.Args(relatedTags, []string{"125", "services;quarterly"}))
	}
}

// TestExecute_Endpoint runs a whole command against a local server.
//
//nolint:paralleltest // Uses the global root command and Viper state.
func TestExecute_Endpoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fred/category", r.URL.Path)
		assert.Equal(t, "125", r.URL.Query().Get("category_id"))
		assert.Equal(t, "0123456789abcdefghijklmnopqrstuv", r.URL.Query().Get("api_key"))

		_, _ = w.Write([]byte(`{"categories":[{"id":125,"name":"Trade Balance","parent_id":13}]}`))
	}))
	t.Cleanup(server.Close)

	configPath := writeTestConfig(t, testBaseConfigContent+"base_url: \""+server.URL+"/fred\"\n")

	var out bytes.Buffer

	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"--config", configPath, "category", "details", "125", "--format", "csv"})

	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.ExecuteContext(t.Context()))
	assert.Equal(t, "id,name,parent_id\n125,Trade Balance,13\n", out.String())
}
