package fred

import (
	"context"
)

// APIKey returns the sub-client's API key.
func (c *client) APIKey() string {
	return c.apiKey
}

// Format returns the sub-client's default response format.
func (c *client) Format() Format {
	return c.format
}

// SSLVerify reports whether the sub-client verifies TLS certificates by default.
func (c *client) SSLVerify() bool {
	return c.sslVerify
}

// invoke merges the required arguments over params and calls the endpoint.
func (c *client) invoke(
	ctx context.Context,
	family Family,
	name string,
	params Params,
	required Params,
	opts []CallOption,
) (*Result, error) {
	endpoint, err := lookupEndpoint(family, name)
	if err != nil {
		return nil, err
	}

	args := params.Clone()
	for key, value := range required {
		args[key] = value
	}

	return c.call(ctx, endpoint, args, opts)
}
