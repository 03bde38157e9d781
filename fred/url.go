package fred

import (
	"net/url"
)

const (
	// apiKeyParam carries the API key in every request.
	apiKeyParam = "api_key"
	// fileTypeParam asks the service for a wire format.
	fileTypeParam = "file_type"
	// fileTypeJSON is the fileTypeParam value for JSON.
	fileTypeJSON = "json"
)

// BuildURL returns root + path + the encoded query with the API key added.
//
// The path carries its leading "?", as in "/category?". Keys are encoded in
// sorted order, so equal inputs always give the same URL. params is not modified.
func BuildURL(root, path, apiKey string, params url.Values) string {
	query := make(url.Values, len(params)+1)
	for name, values := range params {
		query[name] = append([]string(nil), values...)
	}

	query.Set(apiKeyParam, apiKey)

	return root + path + query.Encode()
}
