package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/frb/fred"
	"github.com/oshokin/frb/internal/constants"
	"github.com/oshokin/frb/internal/logger"
	http_transport "github.com/oshokin/frb/internal/transport/http"
	"github.com/oshokin/frb/internal/utils"
)

// Config holds all configuration settings.
type Config struct {
	// APIKey is the FRED API key, a 32 character lowercase alphanumeric string.
	APIKey string `mapstructure:"api_key"`
	// ResponseFormat is the default output format (xml, json, dict, df, numpy, csv, tab, pipe).
	ResponseFormat string `mapstructure:"response_format"`
	// SSLVerify indicates whether server certificates are verified.
	SSLVerify bool `mapstructure:"ssl_verify"`
	// BaseURL is the root URL of the FRED API.
	BaseURL string `mapstructure:"base_url"`
	// Proxy maps a URL scheme ("http", "https") to the proxy URL used for it.
	Proxy map[string]string `mapstructure:"proxy"`
	// Timeout is the request timeout (e.g., "30s"). Empty or "0" disables it.
	Timeout string `mapstructure:"timeout"`
	// RateLimitCalls is the number of calls allowed per RateLimitPeriod. Zero disables throttling.
	RateLimitCalls int64 `mapstructure:"rate_limit_calls"`
	// RateLimitPeriod is the throttling window (e.g., "1s").
	RateLimitPeriod string `mapstructure:"rate_limit_period"`
	// CacheEnabled indicates whether responses are cached.
	CacheEnabled bool `mapstructure:"cache_enabled"`
	// CacheDir is the directory for cached responses. Empty keeps the cache in memory only.
	// Defaults to the "frb_cache" folder in the system temporary directory.
	CacheDir string `mapstructure:"cache_dir"`
	// CacheSize is the byte budget of the response cache (e.g., "1GB").
	CacheSize string `mapstructure:"cache_size"`
	// LogLevel specifies the logging verbosity level.
	LogLevel string `mapstructure:"log_level"`
	// MaxLogLength is the maximum size of a logged request or response dump (e.g., "1MB").
	MaxLogLength string `mapstructure:"max_log_length"`
	// ParsedResponseFormat is the parsed default output format.
	ParsedResponseFormat fred.Format
	// ParsedProxy is the parsed proxy mapping.
	ParsedProxy map[string]*url.URL
	// ParsedTimeout is the parsed request timeout.
	ParsedTimeout time.Duration
	// ParsedRateLimitPeriod is the parsed throttling window.
	ParsedRateLimitPeriod time.Duration
	// ParsedCacheSize is the parsed cache byte budget.
	ParsedCacheSize int64
	// ParsedLogLevel is the parsed zap log level.
	ParsedLogLevel zapcore.Level
	// ParsedMaxLogLength is the parsed maximum dump size in bytes.
	ParsedMaxLogLength uint64
}

const (
	// DefaultConfigFilename is the default name of the configuration file.
	DefaultConfigFilename = ".frb.yaml"

	// EnvPrefix is the prefix of environment variables overriding configuration keys.
	EnvPrefix = "FRB"

	// DefaultRateLimitPeriod is the default throttling window.
	DefaultRateLimitPeriod = "1s"

	// DefaultCacheSize is the default byte budget of the response cache.
	DefaultCacheSize = "1GB"

	// apiKeyField is the YAML key holding the API key.
	apiKeyField = "api_key"
)

// Static error definitions for better error handling.
var (
	// ErrEmptyAPIKey indicates that the API key is missing.
	ErrEmptyAPIKey = errors.New("API key cannot be empty")
	// ErrInvalidAPIKey indicates that the API key has the wrong shape.
	ErrInvalidAPIKey = errors.New("API key must be a 32 character lowercase alphanumeric string")
	// ErrInvalidBaseURL indicates that the base URL is not an absolute HTTP(S) URL.
	ErrInvalidBaseURL = errors.New("base_url must be an absolute http or https URL")
	// ErrInvalidProxy indicates that a proxy entry is malformed.
	ErrInvalidProxy = errors.New("invalid proxy")
	// ErrInvalidTimeout indicates that the timeout is negative.
	ErrInvalidTimeout = errors.New("timeout cannot be negative")
	// ErrInvalidRateLimit indicates that the rate limit settings are invalid.
	ErrInvalidRateLimit = errors.New("rate limit calls cannot be negative")
	// ErrInvalidRateLimitPeriod indicates that the rate limit period is invalid.
	ErrInvalidRateLimitPeriod = errors.New("rate_limit_period must be positive")
	// ErrInvalidCacheSize indicates that the cache size is invalid.
	ErrInvalidCacheSize = errors.New("cache_size must be positive")
	// ErrUnknownLogLevel indicates that the log level is not recognized.
	ErrUnknownLogLevel = errors.New("unknown log level")
)

// apiKeyPattern matches FRED API keys.
//
//nolint:gochecknoglobals // This is an immutable, pre-compiled regex pattern and used as a constant.
var apiKeyPattern = regexp.MustCompile(`^[a-z0-9]{32}$`)

// LoadConfig loads configuration settings from a YAML file and FRB_* environment variables.
// A missing default configuration file is not an error: defaults and the environment are used instead.
func LoadConfig(configFilename string) (*Config, error) {
	isDefaultFilename := configFilename == ""
	if isDefaultFilename {
		configFilename = DefaultConfigFilename
	}

	setDefaults()

	viper.SetConfigFile(configFilename)
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if !isDefaultFilename || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config from file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// ValidateConfig checks the configuration for validity and sets derived fields.
//
//nolint:funlen,gocognit,cyclop // Validation functions naturally have high complexity and length due to sequential checks.
func ValidateConfig(cfg *Config) error {
	var err error

	cfg.APIKey, err = NormalizeAPIKey(cfg.APIKey)
	if err != nil {
		return err
	}

	if strings.TrimSpace(cfg.ResponseFormat) == "" {
		cfg.ResponseFormat = fred.DefaultFormat.String()
	}

	cfg.ParsedResponseFormat, err = fred.ParseFormat(cfg.ResponseFormat)
	if err != nil {
		return err
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = fred.DefaultBaseURL
	}

	if err = validateHTTPURL(cfg.BaseURL); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidBaseURL, cfg.BaseURL)
	}

	cfg.ParsedProxy, err = fred.ParseProxy(cfg.Proxy)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProxy, err)
	}

	cfg.ParsedTimeout, err = parseOptionalDuration(cfg.Timeout)
	if err != nil {
		return fmt.Errorf("failed to parse timeout: %w", err)
	}

	if cfg.ParsedTimeout < 0 {
		return ErrInvalidTimeout
	}

	if cfg.RateLimitCalls < 0 {
		return ErrInvalidRateLimit
	}

	if cfg.RateLimitCalls > 0 {
		cfg.ParsedRateLimitPeriod, err = time.ParseDuration(cfg.RateLimitPeriod)
		if err != nil {
			return fmt.Errorf("failed to parse rate limit period: %w", err)
		}

		if cfg.ParsedRateLimitPeriod <= 0 {
			return ErrInvalidRateLimitPeriod
		}
	}

	if cfg.CacheEnabled {
		parsedCacheSize, parseErr := humanize.ParseBytes(cfg.CacheSize)
		if parseErr != nil {
			return fmt.Errorf("failed to parse cache size: %w", parseErr)
		}

		if parsedCacheSize == 0 {
			return ErrInvalidCacheSize
		}

		cfg.ParsedCacheSize = utils.SafeUint64ToInt64(parsedCacheSize)
	}

	parsedLogLevel, isLogLevelCorrect := logger.ParseLogLevel(cfg.LogLevel)
	if !isLogLevelCorrect {
		return fmt.Errorf("%w: '%s'", ErrUnknownLogLevel, cfg.LogLevel)
	}

	cfg.ParsedLogLevel = parsedLogLevel

	cfg.ParsedMaxLogLength = http_transport.DefaultMaxLogLength

	if maxLogLength := strings.TrimSpace(cfg.MaxLogLength); maxLogLength != "" {
		cfg.ParsedMaxLogLength, err = humanize.ParseBytes(maxLogLength)
		if err != nil {
			return fmt.Errorf("failed to parse max log length: %w", err)
		}
	}

	return nil
}

// NormalizeAPIKey trims the API key and checks its shape.
func NormalizeAPIKey(apiKey string) (string, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return "", ErrEmptyAPIKey
	}

	if !apiKeyPattern.MatchString(apiKey) {
		return "", ErrInvalidAPIKey
	}

	return apiKey, nil
}

// SaveAPIKey saves the API key to the configuration file while preserving the original format and order.
func SaveAPIKey(apiKey string) error {
	configFile := getConfigFilePath()

	// Read the original file content.
	originalContent, err := os.ReadFile(configFile)
	if err != nil {
		return handleMissingConfigFile(configFile, apiKey, err)
	}

	// Parse YAML while preserving order using yaml.Node.
	var node yaml.Node
	if err = yaml.Unmarshal(originalContent, &node); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	setValueInNode(&node, apiKeyField, apiKey)

	// Marshal back to YAML (preserves order).
	newContent, err := yaml.Marshal(&node)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err = os.WriteFile(configFile, newContent, constants.DefaultFilePermissions); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func setDefaults() {
	viper.SetDefault(apiKeyField, fred.DefaultAPIKey)
	viper.SetDefault("response_format", fred.DefaultFormat.String())
	viper.SetDefault("ssl_verify", true)
	viper.SetDefault("base_url", fred.DefaultBaseURL)
	viper.SetDefault("proxy", map[string]string{})
	viper.SetDefault("timeout", "")
	viper.SetDefault("rate_limit_calls", fred.DefaultRateLimitCalls)
	viper.SetDefault("rate_limit_period", DefaultRateLimitPeriod)
	viper.SetDefault("cache_enabled", false)
	viper.SetDefault("cache_dir", fred.DefaultCacheDir())
	viper.SetDefault("cache_size", DefaultCacheSize)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("max_log_length", "")
}

// getConfigFilePath returns the config file path from viper or the default.
func getConfigFilePath() string {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		return DefaultConfigFilename
	}

	return configFile
}

// handleMissingConfigFile creates a new config file holding only the API key if it doesn't exist.
func handleMissingConfigFile(configFile, apiKey string, err error) error {
	if !os.IsNotExist(err) {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	content, err := yaml.Marshal(map[string]string{apiKeyField: apiKey})
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err = os.WriteFile(configFile, content, constants.DefaultFilePermissions); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	return nil
}

// setValueInNode sets a top-level scalar in the YAML node tree, appending the key when it is absent.
func setValueInNode(node *yaml.Node, key, value string) {
	// The root node is a document node, content[0] is the actual map.
	if len(node.Content) == 0 || node.Content[0].Kind != yaml.MappingNode {
		return
	}

	mapNode := node.Content[0]

	// Iterate through key-value pairs (stored as alternating nodes).
	for i := 0; i+1 < len(mapNode.Content); i += 2 {
		keyNode := mapNode.Content[i]
		valueNode := mapNode.Content[i+1]

		if keyNode.Value == key {
			// Update the value while preserving style.
			valueNode.Value = value

			if valueNode.Style == 0 {
				valueNode.Style = yaml.DoubleQuotedStyle
			}

			return
		}
	}

	mapNode.Content = append(mapNode.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value, Style: yaml.DoubleQuotedStyle},
	)
}

func parseOptionalDuration(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == "0" {
		return 0, nil
	}

	return time.ParseDuration(value)
}

func validateHTTPURL(rawURL string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return err
	}

	if (parsedURL.Scheme != "http" && parsedURL.Scheme != "https") || parsedURL.Host == "" {
		return ErrInvalidBaseURL
	}

	return nil
}
