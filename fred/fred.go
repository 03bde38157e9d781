package fred

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/oshokin/frb/frame"
	"github.com/oshokin/frb/internal/cache"
	http_transport "github.com/oshokin/frb/internal/transport/http"
)

// Fred is the entry point of the client.
// It is safe for concurrent use and needs no shutdown.
type Fred struct {
	// Category gives access to the category endpoints.
	Category *CategoriesClient
	// Release gives access to the release endpoints.
	Release *ReleasesClient
	// Series gives access to the series endpoints.
	Series *SeriesClient
	// Tag gives access to the tag endpoints.
	Tag *TagsClient
	// Source gives access to the source endpoints.
	Source *SourcesClient

	// base holds the defaults the sub-clients copy.
	base client
}

// core is the shared, read-only state behind every sub-client.
type core struct {
	// baseURL is the API root.
	baseURL string
	// transport performs the requests.
	transport Transport
	// cache stores response bodies, nil when disabled.
	cache *cache.Cache
	// tabular enables the tabular formats.
	tabular bool
	// proxy is the facade proxy mapping.
	proxy map[string]*url.URL
}

// client holds one sub-client's copy of the call defaults.
type client struct {
	core      *core
	apiKey    string
	format    Format
	sslVerify bool
}

// New creates a client. Without options it targets the public FRED API with
// the placeholder key, XML responses and TLS verification.
func New(opts ...Option) (*Fred, error) {
	cfg := defaultSettings()
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	shared := &core{
		baseURL:   strings.TrimRight(cfg.baseURL, "/"),
		transport: cfg.transport,
		tabular:   cfg.tabular && frame.Available(),
		proxy:     cfg.proxy,
	}

	if shared.transport == nil {
		transportConfig := httpTransportConfig{
			proxy:        cfg.proxy,
			timeout:      cfg.timeout,
			userAgent:    cfg.userAgent,
			maxLogLength: cfg.maxLogLength,
			client:       cfg.httpClient,
		}

		if cfg.rateCalls > 0 {
			transportConfig.limiter = http_transport.NewRateLimiter(cfg.rateCalls, cfg.ratePeriod)
		}

		shared.transport = newHTTPTransport(transportConfig)
	}

	if cfg.cacheEnabled {
		responseCache, err := cache.New(cfg.cacheDir, cfg.cacheBytes)
		if err != nil {
			return nil, fmt.Errorf("failed to create response cache: %w", err)
		}

		shared.cache = responseCache
	}

	base := client{
		core:      shared,
		apiKey:    cfg.apiKey,
		format:    cfg.format,
		sslVerify: cfg.sslVerify,
	}

	return &Fred{
		Category: &CategoriesClient{client: base},
		Release:  &ReleasesClient{client: base},
		Series:   &SeriesClient{client: base},
		Tag:      &TagsClient{client: base},
		Source:   &SourcesClient{client: base},
		base:     base,
	}, nil
}

// Call invokes the endpoint named by family and operation with raw arguments.
// Required parameters are taken from args like the optional ones.
func (f *Fred) Call(ctx context.Context, family Family, name string, args Params, opts ...CallOption) (*Result, error) {
	endpoint, err := lookupEndpoint(family, name)
	if err != nil {
		return nil, err
	}

	return f.base.call(ctx, endpoint, args, opts)
}

// APIKey returns the default API key.
func (f *Fred) APIKey() string {
	return f.base.apiKey
}

// Format returns the default response format.
func (f *Fred) Format() Format {
	return f.base.format
}

// SSLVerify reports whether TLS certificates are verified by default.
func (f *Fred) SSLVerify() bool {
	return f.base.sslVerify
}

func (s *settings) validate() error {
	if !s.format.Valid() {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, s.format)
	}

	baseURL, err := url.Parse(s.baseURL)
	if err != nil || (baseURL.Scheme != "http" && baseURL.Scheme != "https") || baseURL.Host == "" {
		return invalidOption("base URL", s.baseURL)
	}

	if s.timeout < 0 {
		return invalidOption("timeout", s.timeout)
	}

	if s.rateCalls < 0 || (s.rateCalls > 0 && s.ratePeriod <= 0) {
		return invalidOption("rate limit", fmt.Sprintf("%d per %s", s.rateCalls, s.ratePeriod))
	}

	if s.cacheEnabled && s.cacheBytes <= 0 {
		return invalidOption("cache size", s.cacheBytes)
	}

	return nil
}
