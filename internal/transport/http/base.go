package http

import (
	"context"
	"crypto/tls"
	"net/http"
	"net/url"
	"strings"
)

// proxyContextKey keys the per-call proxy mapping in a request context.
type proxyContextKey struct{}

// ContextWithProxy returns a context whose requests are routed through the given proxies.
// The mapping is keyed by request URL scheme ("http", "https").
// An empty mapping leaves the context unchanged.
func ContextWithProxy(ctx context.Context, proxies map[string]*url.URL) context.Context {
	if len(proxies) == 0 {
		return ctx
	}

	return context.WithValue(ctx, proxyContextKey{}, proxies)
}

// ProxyFromContext returns the per-call proxy mapping stored in ctx, if any.
func ProxyFromContext(ctx context.Context) map[string]*url.URL {
	proxies, _ := ctx.Value(proxyContextKey{}).(map[string]*url.URL)

	return proxies
}

// NewBaseTransport clones http.DefaultTransport and applies the TLS and proxy settings.
//
// With verifyTLS false the transport accepts any server certificate, including
// self-signed ones. Proxy selection happens per request: a proxy attached with
// ContextWithProxy wins, then the configured proxies, then the environment.
func NewBaseTransport(verifyTLS bool, proxies map[string]*url.URL) *http.Transport {
	transport, ok := http.DefaultTransport.(*http.Transport)
	if ok {
		transport = transport.Clone()
	} else {
		transport = &http.Transport{}
	}

	if !verifyTLS {
		tlsConfig := transport.TLSClientConfig
		if tlsConfig == nil {
			tlsConfig = &tls.Config{} //nolint:gosec // MinVersion is left to the standard library defaults.
		} else {
			tlsConfig = tlsConfig.Clone()
		}

		//nolint:gosec // Callers opt into skipping verification explicitly.
		tlsConfig.InsecureSkipVerify = true
		transport.TLSClientConfig = tlsConfig
	}

	transport.Proxy = proxySelector(proxies)

	return transport
}

func proxySelector(configured map[string]*url.URL) func(*http.Request) (*url.URL, error) {
	return func(req *http.Request) (*url.URL, error) {
		scheme := strings.ToLower(req.URL.Scheme)

		if proxyURL, ok := ProxyFromContext(req.Context())[scheme]; ok && proxyURL != nil {
			return proxyURL, nil
		}

		if proxyURL, ok := configured[scheme]; ok && proxyURL != nil {
			return proxyURL, nil
		}

		return http.ProxyFromEnvironment(req)
	}
}
