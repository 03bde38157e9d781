package utils

import (
	"errors"
	"math"
	"mime"
	"regexp"
	"strings"
)

// ErrInvalidKeyValue indicates that a "key=value" pair could not be parsed.
var ErrInvalidKeyValue = errors.New("expected key=value")

var (
	// textContentTypePatterns is a slice of regular expressions that match content types
	// considered to be text-based. This includes "text/*", "application/json" and XML documents.
	//nolint:gochecknoglobals // These are immutable, pre-compiled regex patterns and used as constants.
	textContentTypePatterns = []*regexp.Regexp{
		regexp.MustCompile("^text/.+"),
		regexp.MustCompile("^application/json$"),
		regexp.MustCompile(`^application/([a-z0-9.-]+\+)?xml$`),
	}
)

// SafeUint64ToInt64 converts a uint64 value to an int64 safely,
// ensuring that the value does not exceed the maximum limit of int64.
func SafeUint64ToInt64(val uint64) int64 {
	if val > math.MaxInt64 {
		return math.MaxInt64
	}

	return int64(val)
}

// IsTextContentType checks if the given content type represents a text-based format.
// It supports "text/*", "application/json" and XML content types.
// It also checks that the charset, if present, is either "utf-8" or "us-ascii".
func IsTextContentType(contentType string) bool {
	parsedType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	for _, pattern := range textContentTypePatterns {
		if !pattern.MatchString(parsedType) {
			continue
		}

		charset := strings.ToLower(params["charset"])

		return charset == "" || charset == "utf-8" || charset == "us-ascii"
	}

	return false
}

// ParseKeyValue splits "key=value" into its parts.
// Whitespace around the key is trimmed; the value is kept as is.
func ParseKeyValue(pair string) (string, string, error) {
	key, value, found := strings.Cut(pair, "=")

	key = strings.TrimSpace(key)
	if !found || key == "" {
		return "", "", ErrInvalidKeyValue
	}

	return key, value, nil
}
