// Package fred is a client for the FRED economic data REST API.
//
// New builds a client whose Category, Release, Series, Tag and Source fields
// expose one method per endpoint. Every call collects the parameters the
// endpoint accepts, builds the request URL with the API key, fetches the body
// and shapes it into the requested Format: raw XML or JSON text, records,
// a typed table, comma, tab or pipe separated text, or a value grid.
//
//	client, err := fred.New(fred.WithAPIKey(key), fred.WithResponseFormat(fred.FormatTable))
//	if err != nil {
//		return err
//	}
//
//	result, err := client.Series.Observations(ctx, "GNPCA", fred.Params{"limit": 10})
//
// Requests can be rate limited with WithRateLimit and cached with WithCache.
// Errors fall into four kinds: configuration errors (see IsConfigurationError),
// transport failures matching ErrTransport, ErrUnexpectedShape and
// ErrCapabilityUnavailable.
package fred
