package fred

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/oshokin/frb/internal/cache"
	"github.com/oshokin/frb/internal/logger"
)

// call runs one endpoint: it checks the format and the required parameters,
// builds the URL, fetches the body through the cache and shapes it.
func (c *client) call(ctx context.Context, endpoint *Endpoint, args Params, opts []CallOption) (*Result, error) {
	callCfg := callSettings{
		format:    c.format,
		apiKey:    c.apiKey,
		sslVerify: c.sslVerify,
		proxy:     c.core.proxy,
	}

	for _, opt := range opts {
		opt(&callCfg)
	}

	format, err := callCfg.resolveFormat()
	if err != nil {
		return nil, err
	}

	if format.Tabular() && !c.core.tabular {
		return nil, fmt.Errorf("%w: format %s", ErrCapabilityUnavailable, format)
	}

	ctx = logger.WithKV(ctx, "call_id", uuid.NewString())
	ctx = logger.WithKV(ctx, "endpoint", string(endpoint.Family)+"."+endpoint.Name)

	params := collectParams(ctx, endpoint.accepted, args)

	for _, name := range endpoint.Required {
		if !params.Has(name) {
			return nil, fmt.Errorf("%w: %s for %s %s", ErrMissingParameter, name, endpoint.Family, endpoint.Name)
		}
	}

	if format.requestsJSON() {
		params.Set(fileTypeParam, fileTypeJSON)
	}

	rawURL := BuildURL(c.core.baseURL, endpoint.Path, callCfg.apiKey, params)
	requestOptions := RequestOptions{
		SSLVerify: callCfg.sslVerify,
		Proxy:     callCfg.proxy,
	}

	fetch := func(ctx context.Context) ([]byte, error) {
		startTime := time.Now()

		body, fetchErr := c.core.transport.Get(ctx, rawURL, requestOptions)
		if fetchErr != nil {
			if !errors.Is(fetchErr, ErrTransport) {
				fetchErr = &TransportError{URL: maskedURL(rawURL), Err: fetchErr}
			}

			return nil, fetchErr
		}

		logger.Debugf(ctx, "Fetched %s in %s", endpoint.Path, time.Since(startTime))

		return []byte(body), nil
	}

	var body []byte

	if c.core.cache != nil {
		key := cache.Key(endpoint.Path, params.Encode(), callCfg.apiKey, format.String())
		body, err = c.core.cache.GetOrFetch(ctx, key, fetch)
		if err != nil && !errors.Is(err, ErrTransport) {
			err = &TransportError{URL: maskedURL(rawURL), Err: err}
		}
	} else {
		body, err = fetch(ctx)
	}

	if err != nil {
		return nil, err
	}

	return shape(format, string(body))
}

// resolveFormat returns the effective format of the call.
func (s *callSettings) resolveFormat() (Format, error) {
	if s.formatName != "" {
		return ParseFormat(s.formatName)
	}

	if !s.format.Valid() {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, s.format)
	}

	return s.format, nil
}
