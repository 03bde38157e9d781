package fred

//go:generate $MOCKGEN -source=transport.go -destination=mocks/transport_mock.go

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
	"unicode/utf8"

	http_transport "github.com/oshokin/frb/internal/transport/http"
	"github.com/oshokin/frb/internal/utils"
)

// RequestOptions carries the per-call transport settings.
type RequestOptions struct {
	// SSLVerify enables TLS certificate verification.
	SSLVerify bool
	// Proxy maps a URL scheme to the proxy used for it. Nil uses the transport defaults.
	Proxy map[string]*url.URL
}

// Transport performs one blocking GET and returns the body as text.
type Transport interface {
	// Get fetches rawURL. Failures are reported as *TransportError.
	Get(ctx context.Context, rawURL string, opts RequestOptions) (string, error)
}

// httpTransport is the default Transport backed by net/http.
// It keeps one client that verifies certificates and one that does not.
type httpTransport struct {
	// verified serves calls with SSLVerify set.
	verified *http.Client
	// insecure serves calls with SSLVerify unset.
	insecure *http.Client
}

// httpTransportConfig holds what newHTTPTransport needs from the facade.
type httpTransportConfig struct {
	proxy        map[string]*url.URL
	timeout      time.Duration
	limiter      http_transport.Limiter
	userAgent    string
	maxLogLength uint64
	client       *http.Client
}

// newHTTPTransport builds the client chain:
// User-Agent injection, then rate limiting, then request logging, then the base transport.
// A caller-supplied client serves both TLS modes and only gains the rate limiter.
func newHTTPTransport(cfg httpTransportConfig) *httpTransport {
	if cfg.client != nil {
		client := cfg.client

		if cfg.limiter != nil {
			next := client.Transport
			if next == nil {
				next = http.DefaultTransport
			}

			limited := *client
			limited.Transport = http_transport.NewRateLimitTransport(next, cfg.limiter)
			client = &limited
		}

		return &httpTransport{verified: client, insecure: client}
	}

	newClient := func(verifyTLS bool) *http.Client {
		var next http.RoundTripper = http_transport.NewBaseTransport(verifyTLS, cfg.proxy)

		next = http_transport.NewLogTransport(next, cfg.maxLogLength)

		if cfg.limiter != nil {
			next = http_transport.NewRateLimitTransport(next, cfg.limiter)
		}

		next = http_transport.NewUserAgentInjector(next, utils.NewUserAgentProvider(cfg.userAgent))

		return &http.Client{
			Transport: next,
			Timeout:   cfg.timeout,
		}
	}

	return &httpTransport{
		verified: newClient(true),
		insecure: newClient(false),
	}
}

// Get fetches rawURL and returns the body decoded as UTF-8 text.
func (t *httpTransport) Get(ctx context.Context, rawURL string, opts RequestOptions) (string, error) {
	client := t.verified
	if !opts.SSLVerify {
		client = t.insecure
	}

	masked := maskedURL(rawURL)
	ctx = http_transport.ContextWithProxy(ctx, opts.Proxy)

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return "", &TransportError{URL: masked, Err: hideURL(err, masked)}
	}

	response, err := client.Do(request)
	if err != nil {
		return "", &TransportError{URL: masked, Err: hideURL(err, masked)}
	}

	defer response.Body.Close() //nolint:errcheck // Error on close is not critical here.

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return "", &TransportError{
			URL:        masked,
			StatusCode: response.StatusCode,
			Err:        fmt.Errorf("%w: %s", ErrUnexpectedHTTPStatus, response.Status),
		}
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return "", &TransportError{URL: masked, StatusCode: response.StatusCode, Err: err}
	}

	if !utf8.Valid(body) {
		return "", &TransportError{URL: masked, StatusCode: response.StatusCode, Err: ErrInvalidEncoding}
	}

	return string(body), nil
}

// hideURL replaces the URL inside a *url.Error so the API key does not leak.
func hideURL(err error, masked string) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &url.Error{Op: urlErr.Op, URL: masked, Err: urlErr.Err}
	}

	return err
}
