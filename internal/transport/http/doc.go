// Package http provides custom HTTP transport utilities for the FRED client:
// request/response logging with API key masking, User-Agent header injection,
// cooperative rate limiting and a base transport with TLS and per-call proxy settings.
// The pieces are http.RoundTripper wrappers composed by the caller.
package http
