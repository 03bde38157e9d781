package fred

import (
	"context"
)

// SeriesClient calls the series endpoints.
type SeriesClient struct {
	client
}

// Details returns an economic data series.
func (c *SeriesClient) Details(
	ctx context.Context,
	seriesID string,
	params Params,
	opts ...CallOption,
) (*Result, error) {
	return c.invoke(ctx, FamilySeries, "details", params, Params{paramSeriesID: seriesID}, opts)
}

// Categories returns the categories of a series.
func (c *SeriesClient) Categories(
	ctx context.Context,
	seriesID string,
	params Params,
	opts ...CallOption,
) (*Result, error) {
	return c.invoke(ctx, FamilySeries, "categories", params, Params{paramSeriesID: seriesID}, opts)
}

// Release returns the release of a series.
func (c *SeriesClient) Release(
	ctx context.Context,
	seriesID string,
	params Params,
	opts ...CallOption,
) (*Result, error) {
	return c.invoke(ctx, FamilySeries, "release", params, Params{paramSeriesID: seriesID}, opts)
}

// Tags returns the tags of a series.
func (c *SeriesClient) Tags(
	ctx context.Context,
	seriesID string,
	params Params,
	opts ...CallOption,
) (*Result, error) {
	return c.invoke(ctx, FamilySeries, "tags", params, Params{paramSeriesID: seriesID}, opts)
}

// Updates returns series ordered by when their observations were last updated.
func (c *SeriesClient) Updates(
	ctx context.Context,
	seriesID string,
	params Params,
	opts ...CallOption,
) (*Result, error) {
	return c.invoke(ctx, FamilySeries, "updates", params, Params{paramSeriesID: seriesID}, opts)
}

// VintageDates returns the dates when a series was revised or extended.
func (c *SeriesClient) VintageDates(
	ctx context.Context,
	seriesID string,
	params Params,
	opts ...CallOption,
) (*Result, error) {
	return c.invoke(ctx, FamilySeries, "vintage_dates", params, Params{paramSeriesID: seriesID}, opts)
}

// Observations returns the data values of a series.
//
// Besides the realtime window and paging it accepts observation_start,
// observation_end, units, frequency, aggregation_method, output_type and vintage_dates.
func (c *SeriesClient) Observations(
	ctx context.Context,
	seriesID string,
	params Params,
	opts ...CallOption,
) (*Result, error) {
	return c.invoke(ctx, FamilySeries, "observations", params, Params{paramSeriesID: seriesID}, opts)
}

// Search returns the series matching searchText.
func (c *SeriesClient) Search(
	ctx context.Context,
	searchText string,
	params Params,
	opts ...CallOption,
) (*Result, error) {
	return c.invoke(ctx, FamilySeries, "search", params, Params{paramSearchText: searchText}, opts)
}

// SearchTags returns the tags of the series matching seriesSearchText.
func (c *SeriesClient) SearchTags(
	ctx context.Context,
	seriesSearchText string,
	params Params,
	opts ...CallOption,
) (*Result, error) {
	return c.invoke(ctx, FamilySeries, "search_tags", params, Params{paramSeriesSearchText: seriesSearchText}, opts)
}

// SearchRelatedTags returns the tags related to tagNames for the series matching seriesSearchText.
func (c *SeriesClient) SearchRelatedTags(
	ctx context.Context,
	seriesSearchText string,
	tagNames []string,
	params Params,
	opts ...CallOption,
) (*Result, error) {
	return c.invoke(ctx, FamilySeries, "search_related_tags", params, Params{
		paramSeriesSearchText: seriesSearchText,
		paramTagNames:         tagNames,
	}, opts)
}
