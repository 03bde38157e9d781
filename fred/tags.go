package fred

import (
	"context"
)

// TagsClient calls the tag endpoints.
type TagsClient struct {
	client
}

// Series returns the series carrying all of tagNames.
func (c *TagsClient) Series(
	ctx context.Context,
	tagNames []string,
	params Params,
	opts ...CallOption,
) (*Result, error) {
	return c.invoke(ctx, FamilyTag, "series", params, Params{paramTagNames: tagNames}, opts)
}

// Tags returns FRED tags, optionally filtered by name, group or search text.
func (c *TagsClient) Tags(ctx context.Context, params Params, opts ...CallOption) (*Result, error) {
	return c.invoke(ctx, FamilyTag, "tags", params, nil, opts)
}

// RelatedTags returns the tags related to tagNames.
func (c *TagsClient) RelatedTags(
	ctx context.Context,
	tagNames []string,
	params Params,
	opts ...CallOption,
) (*Result, error) {
	return c.invoke(ctx, FamilyTag, "related_tags", params, Params{paramTagNames: tagNames}, opts)
}
