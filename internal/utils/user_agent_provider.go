package utils

import (
	"strings"

	"github.com/oshokin/frb/internal/version"
)

//go:generate $MOCKGEN -source=user_agent_provider.go -destination=mocks/user_agent_provider_mock.go

// UserAgentProvider supplies the User-Agent header of outgoing requests.
type UserAgentProvider interface {
	// GetUserAgent returns a User-Agent string.
	GetUserAgent() string
}

// productName is the product token of the build User-Agent.
const productName = "frb"

// StaticUserAgent is a UserAgentProvider returning a fixed string.
type StaticUserAgent string

// NewUserAgentProvider returns a provider of userAgent.
// A blank userAgent falls back to BuildUserAgent.
func NewUserAgentProvider(userAgent string) UserAgentProvider {
	userAgent = strings.TrimSpace(userAgent)
	if userAgent == "" {
		userAgent = BuildUserAgent()
	}

	return StaticUserAgent(userAgent)
}

// BuildUserAgent returns the product token of this build, such as "frb/0.1.0".
func BuildUserAgent() string {
	return productName + "/" + version.Short()
}

// GetUserAgent returns a User-Agent string.
func (u StaticUserAgent) GetUserAgent() string {
	return string(u)
}
