package fred

import (
	"maps"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	http_transport "github.com/oshokin/frb/internal/transport/http"
)

const (
	// DefaultBaseURL is the root of the FRED REST API.
	DefaultBaseURL = "https://api.stlouisfed.org/fred"
	// DefaultAPIKey is a placeholder key in the shape FRED expects.
	// Real calls need a key registered with FRED.
	DefaultAPIKey = "abcdefghijklmnopqrstuvwxyz123456"
	// DefaultFormat is the response format used when none is given.
	DefaultFormat = FormatXML
	// DefaultRateLimitCalls is the number of calls admitted per DefaultRateLimitPeriod.
	DefaultRateLimitCalls = 20
	// DefaultRateLimitPeriod is the window of the default rate limit.
	DefaultRateLimitPeriod = time.Second
	// DefaultCacheBytes is the default byte budget of the response cache.
	DefaultCacheBytes int64 = 1_000_000_000
	// DefaultUserAgent is sent with every request unless overridden.
	DefaultUserAgent = http_transport.DefaultUserAgent

	// defaultCacheFolder is the cache folder under the system temp directory.
	defaultCacheFolder = "frb_cache"
)

// DefaultCacheDir returns the default on-disk cache location.
func DefaultCacheDir() string {
	return filepath.Join(os.TempDir(), defaultCacheFolder)
}

// settings holds the facade configuration assembled from options.
type settings struct {
	baseURL      string
	apiKey       string
	format       Format
	sslVerify    bool
	proxy        map[string]*url.URL
	timeout      time.Duration
	rateCalls    int
	ratePeriod   time.Duration
	cacheEnabled bool
	cacheDir     string
	cacheBytes   int64
	userAgent    string
	maxLogLength uint64
	httpClient   *http.Client
	transport    Transport
	tabular      bool
}

func defaultSettings() settings {
	return settings{
		baseURL:   DefaultBaseURL,
		apiKey:    DefaultAPIKey,
		format:    DefaultFormat,
		sslVerify: true,
		userAgent: DefaultUserAgent,
		tabular:   true,
	}
}

// Option configures a Fred client.
type Option func(*settings)

// WithAPIKey sets the API key. An empty key keeps the default.
func WithAPIKey(apiKey string) Option {
	return func(s *settings) {
		if apiKey != "" {
			s.apiKey = apiKey
		}
	}
}

// WithResponseFormat sets the default response format.
func WithResponseFormat(format Format) Option {
	return func(s *settings) {
		s.format = format
	}
}

// WithSSLVerify enables or disables TLS certificate verification.
func WithSSLVerify(verify bool) Option {
	return func(s *settings) {
		s.sslVerify = verify
	}
}

// WithBaseURL overrides the API root, for example to target a test server.
func WithBaseURL(baseURL string) Option {
	return func(s *settings) {
		s.baseURL = baseURL
	}
}

// WithProxy routes requests through the given proxies, keyed by URL scheme.
func WithProxy(proxies map[string]*url.URL) Option {
	return func(s *settings) {
		s.proxy = maps.Clone(proxies)
	}
}

// WithTimeout bounds each request. Zero means no timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(s *settings) {
		s.timeout = timeout
	}
}

// WithRateLimit admits at most calls requests per period; callers over the limit wait.
// Zero calls disables the limit.
func WithRateLimit(calls int, period time.Duration) Option {
	return func(s *settings) {
		s.rateCalls = calls
		s.ratePeriod = period
	}
}

// WithCache enables the response cache with a byte budget.
// An empty dir keeps entries in memory only.
func WithCache(dir string, maxBytes int64) Option {
	return func(s *settings) {
		s.cacheEnabled = true
		s.cacheDir = dir
		s.cacheBytes = maxBytes
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(s *settings) {
		if userAgent != "" {
			s.userAgent = userAgent
		}
	}
}

// WithMaxLogLength bounds the size of request and response dumps in debug logs.
func WithMaxLogLength(maxLogLength uint64) Option {
	return func(s *settings) {
		s.maxLogLength = maxLogLength
	}
}

// WithHTTPClient uses client for all requests.
// The client then decides TLS verification and proxying on its own.
func WithHTTPClient(client *http.Client) Option {
	return func(s *settings) {
		s.httpClient = client
	}
}

// WithTransport replaces the HTTP transport entirely.
func WithTransport(transport Transport) Option {
	return func(s *settings) {
		s.transport = transport
	}
}

// WithoutTabular disables the tabular formats.
// Calls asking for them fail with ErrCapabilityUnavailable.
func WithoutTabular() Option {
	return func(s *settings) {
		s.tabular = false
	}
}

// callSettings holds the per-call overrides.
type callSettings struct {
	format     Format
	formatName string
	apiKey     string
	sslVerify  bool
	proxy      map[string]*url.URL
}

// CallOption overrides a client default for one call.
type CallOption func(*callSettings)

// WithFormat sets the response format of one call.
func WithFormat(format Format) CallOption {
	return func(s *callSettings) {
		s.format = format
		s.formatName = ""
	}
}

// WithFormatName sets the response format of one call by name.
// Unknown names fail the call with ErrUnsupportedFormat before any request.
func WithFormatName(name string) CallOption {
	return func(s *callSettings) {
		s.formatName = name
	}
}

// WithCallAPIKey sets the API key of one call.
func WithCallAPIKey(apiKey string) CallOption {
	return func(s *callSettings) {
		if apiKey != "" {
			s.apiKey = apiKey
		}
	}
}

// WithCallSSLVerify sets TLS certificate verification for one call.
func WithCallSSLVerify(verify bool) CallOption {
	return func(s *callSettings) {
		s.sslVerify = verify
	}
}

// WithCallProxy routes one call through the given proxies, keyed by URL scheme.
func WithCallProxy(proxies map[string]*url.URL) CallOption {
	return func(s *callSettings) {
		s.proxy = maps.Clone(proxies)
	}
}

// ParseProxy converts a scheme to proxy URL mapping into parsed URLs.
// Schemes are lowercased.
func ParseProxy(proxies map[string]string) (map[string]*url.URL, error) {
	if len(proxies) == 0 {
		return nil, nil //nolint:nilnil // No proxies configured.
	}

	result := make(map[string]*url.URL, len(proxies))

	for scheme, rawURL := range proxies {
		parsed, err := url.Parse(strings.TrimSpace(rawURL))
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return nil, invalidOption("proxy", scheme+"="+rawURL)
		}

		result[strings.ToLower(scheme)] = parsed
	}

	return result, nil
}
