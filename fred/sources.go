package fred

import (
	"context"
)

// SourcesClient calls the source endpoints.
type SourcesClient struct {
	client
}

// Details returns a source of economic data.
func (c *SourcesClient) Details(
	ctx context.Context,
	sourceID int,
	params Params,
	opts ...CallOption,
) (*Result, error) {
	return c.invoke(ctx, FamilySource, "details", params, Params{paramSourceID: sourceID}, opts)
}

// Sources returns all sources of economic data.
func (c *SourcesClient) Sources(ctx context.Context, params Params, opts ...CallOption) (*Result, error) {
	return c.invoke(ctx, FamilySource, "sources", params, nil, opts)
}

// Releases returns the releases of a source.
func (c *SourcesClient) Releases(
	ctx context.Context,
	sourceID int,
	params Params,
	opts ...CallOption,
) (*Result, error) {
	return c.invoke(ctx, FamilySource, "releases", params, Params{paramSourceID: sourceID}, opts)
}
