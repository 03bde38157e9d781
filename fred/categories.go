package fred

import (
	"context"
)

// CategoriesClient calls the category endpoints.
type CategoriesClient struct {
	client
}

// Details returns a category.
func (c *CategoriesClient) Details(
	ctx context.Context,
	categoryID int,
	params Params,
	opts ...CallOption,
) (*Result, error) {
	return c.invoke(ctx, FamilyCategory, "details", params, Params{paramCategoryID: categoryID}, opts)
}

// Children returns the child categories of a category.
// Accepts realtime_start and realtime_end.
func (c *CategoriesClient) Children(
	ctx context.Context,
	categoryID int,
	params Params,
	opts ...CallOption,
) (*Result, error) {
	return c.invoke(ctx, FamilyCategory, "children", params, Params{paramCategoryID: categoryID}, opts)
}

// Related returns the categories related to a category outside its hierarchy.
// Accepts realtime_start and realtime_end.
func (c *CategoriesClient) Related(
	ctx context.Context,
	categoryID int,
	params Params,
	opts ...CallOption,
) (*Result, error) {
	return c.invoke(ctx, FamilyCategory, "related", params, Params{paramCategoryID: categoryID}, opts)
}

// Series returns the series in a category.
func (c *CategoriesClient) Series(
	ctx context.Context,
	categoryID int,
	params Params,
	opts ...CallOption,
) (*Result, error) {
	return c.invoke(ctx, FamilyCategory, "series", params, Params{paramCategoryID: categoryID}, opts)
}

// Tags returns the tags of the series in a category.
func (c *CategoriesClient) Tags(
	ctx context.Context,
	categoryID int,
	params Params,
	opts ...CallOption,
) (*Result, error) {
	return c.invoke(ctx, FamilyCategory, "tags", params, Params{paramCategoryID: categoryID}, opts)
}

// RelatedTags returns the tags related to tagNames within a category.
func (c *CategoriesClient) RelatedTags(
	ctx context.Context,
	categoryID int,
	tagNames []string,
	params Params,
	opts ...CallOption,
) (*Result, error) {
	return c.invoke(ctx, FamilyCategory, "related_tags", params, Params{
		paramCategoryID: categoryID,
		paramTagNames:   tagNames,
	}, opts)
}
