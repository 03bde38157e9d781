package http

const (
	// DefaultUserAgent is the default User-Agent string used for HTTP requests.
	DefaultUserAgent = "frb-go (+https://github.com/oshokin/frb)"

	// DefaultMaxLogLength is the default maximum size (in bytes) of a logged request or response dump.
	DefaultMaxLogLength = 1 * 1024 * 1024 // 1 MB

	// apiKeyParam is the query parameter carrying the API key, masked in logs.
	apiKeyParam = "api_key"

	// maskedValue replaces secrets in logged URLs.
	maskedValue = "***"
)
