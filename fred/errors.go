package fred

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/oshokin/frb/frame"
	http_transport "github.com/oshokin/frb/internal/transport/http"
)

// Static error definitions for better error handling.
var (
	// ErrUnsupportedFormat indicates an unknown response format name.
	ErrUnsupportedFormat = errors.New("unsupported response format")
	// ErrMissingParameter indicates that a required endpoint parameter was not supplied.
	ErrMissingParameter = errors.New("missing required parameter")
	// ErrUnknownEndpoint indicates a family and operation pair with no endpoint.
	ErrUnknownEndpoint = errors.New("unknown endpoint")
	// ErrInvalidOption indicates an option value that cannot be used.
	ErrInvalidOption = errors.New("invalid option")
	// ErrTransport matches every transport failure.
	ErrTransport = errors.New("transport failure")
	// ErrUnexpectedHTTPStatus indicates a non-2xx response.
	ErrUnexpectedHTTPStatus = errors.New("unexpected HTTP status")
	// ErrInvalidEncoding indicates a response body that is not valid UTF-8.
	ErrInvalidEncoding = errors.New("response body is not valid UTF-8")
	// ErrUnexpectedShape indicates a body that cannot be shaped as requested.
	ErrUnexpectedShape = frame.ErrUnexpectedShape
	// ErrCapabilityUnavailable indicates a tabular format requested while the capability is off.
	ErrCapabilityUnavailable = errors.New("tabular capability unavailable")
)

// TransportError describes a failed request.
// It matches ErrTransport and unwraps to the underlying cause.
type TransportError struct {
	// URL is the request URL with the API key masked.
	URL string
	// StatusCode is the HTTP status, zero when no response arrived.
	StatusCode int
	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	switch {
	case e.URL == "":
		return fmt.Sprintf("%s: %v", ErrTransport, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: GET %s: %d: %v", ErrTransport, e.URL, e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("%s: GET %s: %v", ErrTransport, e.URL, e.Err)
	}
}

// Unwrap returns the underlying cause.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrTransport.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport //nolint:errorlint // Sentinel identity check.
}

// IsConfigurationError reports whether err comes from invalid call configuration,
// detected before any request was sent.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrUnsupportedFormat) ||
		errors.Is(err, ErrMissingParameter) ||
		errors.Is(err, ErrUnknownEndpoint) ||
		errors.Is(err, ErrInvalidOption)
}

// maskedURL returns rawURL with the API key hidden, for errors and logs.
func maskedURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	return http_transport.MaskURL(parsed).String()
}

// invalidOption reports an unusable option value.
func invalidOption(name string, value any) error {
	return fmt.Errorf("%w: %s %v", ErrInvalidOption, name, value)
}
