package fred

import (
	"context"
)

// ReleasesClient calls the release endpoints.
type ReleasesClient struct {
	client
}

// AllReleases returns all releases of economic data.
func (c *ReleasesClient) AllReleases(ctx context.Context, params Params, opts ...CallOption) (*Result, error) {
	return c.invoke(ctx, FamilyRelease, "all_releases", params, nil, opts)
}

// AllDates returns the release dates of all releases.
// Set include_release_dates_with_no_data to list dates without data.
func (c *ReleasesClient) AllDates(ctx context.Context, params Params, opts ...CallOption) (*Result, error) {
	return c.invoke(ctx, FamilyRelease, "all_dates", params, nil, opts)
}

// Details returns a release.
func (c *ReleasesClient) Details(
	ctx context.Context,
	releaseID int,
	params Params,
	opts ...CallOption,
) (*Result, error) {
	return c.invoke(ctx, FamilyRelease, "details", params, Params{paramReleaseID: releaseID}, opts)
}

// Sources returns the sources of a release.
func (c *ReleasesClient) Sources(
	ctx context.Context,
	releaseID int,
	params Params,
	opts ...CallOption,
) (*Result, error) {
	return c.invoke(ctx, FamilyRelease, "sources", params, Params{paramReleaseID: releaseID}, opts)
}

// Dates returns the release dates of a release.
func (c *ReleasesClient) Dates(
	ctx context.Context,
	releaseID int,
	params Params,
	opts ...CallOption,
) (*Result, error) {
	return c.invoke(ctx, FamilyRelease, "dates", params, Params{paramReleaseID: releaseID}, opts)
}

// Series returns the series on a release.
func (c *ReleasesClient) Series(
	ctx context.Context,
	releaseID int,
	params Params,
	opts ...CallOption,
) (*Result, error) {
	return c.invoke(ctx, FamilyRelease, "series", params, Params{paramReleaseID: releaseID}, opts)
}

// Tags returns the tags of the series on a release.
func (c *ReleasesClient) Tags(
	ctx context.Context,
	releaseID int,
	params Params,
	opts ...CallOption,
) (*Result, error) {
	return c.invoke(ctx, FamilyRelease, "tags", params, Params{paramReleaseID: releaseID}, opts)
}

// RelatedTags returns the tags related to tagNames within a release.
func (c *ReleasesClient) RelatedTags(
	ctx context.Context,
	releaseID int,
	tagNames []string,
	params Params,
	opts ...CallOption,
) (*Result, error) {
	return c.invoke(ctx, FamilyRelease, "related_tags", params, Params{
		paramReleaseID: releaseID,
		paramTagNames:  tagNames,
	}, opts)
}
