package http

import (
	"net/http"

	"github.com/oshokin/frb/internal/utils"
)

// UserAgentInjector identifies FRED requests that arrive without a User-Agent.
// Requests that already carry one pass through as is.
type UserAgentInjector struct {
	// next sends the request once the header is settled.
	next http.RoundTripper
	// userAgentProvider names the client, "frb/<version>" unless overridden.
	userAgentProvider utils.UserAgentProvider
}

const userAgentHeader = "User-Agent"

// NewUserAgentInjector wraps next so that every request names the frb client.
func NewUserAgentInjector(next http.RoundTripper, userAgentProvider utils.UserAgentProvider) http.RoundTripper {
	return &UserAgentInjector{
		next:              next,
		userAgentProvider: userAgentProvider,
	}
}

// RoundTrip sends req with the provider's User-Agent when the header is empty.
// The header goes on a clone, so the caller's request keeps its original headers.
func (t *UserAgentInjector) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	if req.Header.Get(userAgentHeader) == "" {
		req = req.Clone(req.Context())
		req.Header.Set(userAgentHeader, t.userAgentProvider.GetUserAgent())
	}

	return t.next.RoundTrip(req)
}
