package fred

import (
	"fmt"
	"slices"

	"k8s.io/apimachinery/pkg/util/sets"
)

// Family groups endpoints by resource.
type Family string

// Resource families.
const (
	FamilyCategory Family = "category"
	FamilyRelease  Family = "release"
	FamilySeries   Family = "series"
	FamilySource   Family = "source"
	FamilyTag      Family = "tag"
)

// Endpoint describes one FRED REST endpoint.
type Endpoint struct {
	// Family is the resource family.
	Family Family
	// Name is the operation name within the family.
	Name string
	// Path is the endpoint path including its trailing "?".
	Path string
	// Summary is a one-line description.
	Summary string
	// Required lists the parameters every call must supply.
	Required []string
	// Optional lists the other parameters the endpoint accepts.
	Optional []string
	// accepted is the union of Required and Optional.
	accepted sets.Set[string]
}

// Parameter names shared by several endpoints.
const (
	paramCategoryID       = "category_id"
	paramReleaseID        = "release_id"
	paramSeriesID         = "series_id"
	paramSourceID         = "source_id"
	paramTagNames         = "tag_names"
	paramSearchText       = "search_text"
	paramSeriesSearchText = "series_search_text"
)

// Optional parameter groups shared by several endpoints.
//
//nolint:gochecknoglobals // Read-only parameter groups used to build the endpoint table.
var (
	realtime      = []string{"realtime_start", "realtime_end"}
	paging        = []string{"limit", "offset"}
	ordering      = []string{"order_by", "sort_order"}
	seriesFilters = []string{"filter_variable", "filter_value", paramTagNames, "exclude_tag_names"}
	tagFilters    = []string{paramTagNames, "tag_group_id", paramSearchText}
	relatedTags   = []string{"exclude_tag_names", "tag_group_id", paramSearchText}
)

// endpoints is the full endpoint table.
//
//nolint:gochecknoglobals // The endpoint table is immutable after initialization.
var endpoints = []*Endpoint{
	// Categories.
	{
		Family: FamilyCategory, Name: "details", Path: "/category?",
		Summary:  "Get a category",
		Required: []string{paramCategoryID},
	},
	{
		Family: FamilyCategory, Name: "children", Path: "/category/children?",
		Summary:  "Get the child categories of a category",
		Required: []string{paramCategoryID},
		Optional: options(realtime),
	},
	{
		Family: FamilyCategory, Name: "related", Path: "/category/related?",
		Summary:  "Get the related categories of a category",
		Required: []string{paramCategoryID},
		Optional: options(realtime),
	},
	{
		Family: FamilyCategory, Name: "series", Path: "/category/series?",
		Summary:  "Get the series in a category",
		Required: []string{paramCategoryID},
		Optional: options(realtime, paging, ordering, seriesFilters),
	},
	{
		Family: FamilyCategory, Name: "tags", Path: "/category/tags?",
		Summary:  "Get the tags for a category",
		Required: []string{paramCategoryID},
		Optional: options(realtime, paging, ordering, tagFilters),
	},
	{
		Family: FamilyCategory, Name: "related_tags", Path: "/category/related_tags?",
		Summary:  "Get the tags related to a set of tags within a category",
		Required: []string{paramCategoryID, paramTagNames},
		Optional: options(realtime, paging, ordering, relatedTags),
	},

	// Releases.
	{
		Family: FamilyRelease, Name: "all_releases", Path: "/releases?",
		Summary:  "Get all releases of economic data",
		Optional: options(realtime, paging, ordering),
	},
	{
		Family: FamilyRelease, Name: "all_dates", Path: "/releases/dates?",
		Summary:  "Get release dates for all releases of economic data",
		Optional: options(realtime, paging, ordering, []string{"include_release_dates_with_no_data"}),
	},
	{
		Family: FamilyRelease, Name: "details", Path: "/release?",
		Summary:  "Get a release of economic data",
		Required: []string{paramReleaseID},
		Optional: options(realtime),
	},
	{
		Family: FamilyRelease, Name: "sources", Path: "/release/sources?",
		Summary:  "Get the sources for a release",
		Required: []string{paramReleaseID},
		Optional: options(realtime),
	},
	{
		Family: FamilyRelease, Name: "dates", Path: "/release/dates?",
		Summary:  "Get release dates for a release",
		Required: []string{paramReleaseID},
		Optional: options(realtime, paging, []string{"sort_order", "include_release_dates_with_no_data"}),
	},
	{
		Family: FamilyRelease, Name: "series", Path: "/release/series?",
		Summary:  "Get the series on a release",
		Required: []string{paramReleaseID},
		Optional: options(realtime, paging, ordering, seriesFilters),
	},
	{
		Family: FamilyRelease, Name: "tags", Path: "/release/tags?",
		Summary:  "Get the tags for a release",
		Required: []string{paramReleaseID},
		Optional: options(realtime, paging, ordering, tagFilters),
	},
	{
		Family: FamilyRelease, Name: "related_tags", Path: "/release/related_tags?",
		Summary:  "Get the tags related to a set of tags within a release",
		Required: []string{paramReleaseID, paramTagNames},
		Optional: options(realtime, paging, ordering, relatedTags),
	},

	// Series.
	{
		Family: FamilySeries, Name: "details", Path: "/series?",
		Summary:  "Get an economic data series",
		Required: []string{paramSeriesID},
		Optional: options(realtime),
	},
	{
		Family: FamilySeries, Name: "categories", Path: "/series/categories?",
		Summary:  "Get the categories for a series",
		Required: []string{paramSeriesID},
		Optional: options(realtime),
	},
	{
		Family: FamilySeries, Name: "release", Path: "/series/release?",
		Summary:  "Get the release for a series",
		Required: []string{paramSeriesID},
		Optional: options(realtime),
	},
	{
		Family: FamilySeries, Name: "tags", Path: "/series/tags?",
		Summary:  "Get the tags for a series",
		Required: []string{paramSeriesID},
		Optional: options(realtime, ordering),
	},
	{
		Family: FamilySeries, Name: "updates", Path: "/series/updates?",
		Summary:  "Get series sorted by when observations were updated",
		Required: []string{paramSeriesID},
		Optional: options(realtime, paging, []string{"filter_value"}),
	},
	{
		Family: FamilySeries, Name: "vintage_dates", Path: "/series/vintagedates?",
		Summary:  "Get the dates when a series' data values were revised or new values released",
		Required: []string{paramSeriesID},
		Optional: options(realtime, paging, []string{"sort_order"}),
	},
	{
		Family: FamilySeries, Name: "observations", Path: "/series/observations?",
		Summary:  "Get the observations or data values for a series",
		Required: []string{paramSeriesID},
		Optional: options(realtime, paging, []string{
			"sort_order", "observation_start", "observation_end", "units", "frequency",
			"aggregation_method", "output_type", "vintage_dates",
		}),
	},
	{
		Family: FamilySeries, Name: "search", Path: "/series/search?",
		Summary:  "Get series that match search text",
		Required: []string{paramSearchText},
		Optional: options([]string{"search_type"}, realtime, paging, ordering, seriesFilters),
	},
	{
		Family: FamilySeries, Name: "search_tags", Path: "/series/search/tags?",
		Summary:  "Get the tags for a series search",
		Required: []string{paramSeriesSearchText},
		Optional: options(realtime, paging, ordering, []string{paramTagNames, "tag_group_id", "tag_search_text"}),
	},
	{
		Family: FamilySeries, Name: "search_related_tags", Path: "/series/search/related_tags?",
		Summary:  "Get the related tags for a series search",
		Required: []string{paramSeriesSearchText, paramTagNames},
		Optional: options(realtime, paging, ordering, []string{"tag_group_id", "tag_search_text", "exclude_tag_names"}),
	},

	// Sources.
	{
		Family: FamilySource, Name: "details", Path: "/source?",
		Summary:  "Get a source of economic data",
		Required: []string{paramSourceID},
		Optional: options(realtime),
	},
	{
		Family: FamilySource, Name: "sources", Path: "/sources?",
		Summary:  "Get all sources of economic data",
		Optional: options(realtime, paging, ordering),
	},
	{
		Family: FamilySource, Name: "releases", Path: "/source/releases?",
		Summary:  "Get the releases for a source",
		Required: []string{paramSourceID},
		Optional: options(realtime, paging, ordering),
	},

	// Tags.
	{
		Family: FamilyTag, Name: "series", Path: "/tags/series?",
		Summary:  "Get the series matching tags",
		Required: []string{paramTagNames},
		Optional: options(realtime, paging, ordering, []string{"exclude_tag_names"}),
	},
	{
		Family: FamilyTag, Name: "tags", Path: "/tags?",
		Summary:  "Get FRED tags",
		Optional: options(realtime, paging, ordering, tagFilters),
	},
	{
		Family: FamilyTag, Name: "related_tags", Path: "/related_tags?",
		Summary:  "Get the related tags for one or more tags",
		Required: []string{paramTagNames},
		Optional: options(realtime, paging, ordering, relatedTags),
	},
}

// endpointIndex maps "family/name" to its endpoint.
//
//nolint:gochecknoglobals // Built once from the endpoint table.
var endpointIndex = indexEndpoints(endpoints)

// Endpoints returns a copy of the endpoint table in declaration order.
func Endpoints() []Endpoint {
	result := make([]Endpoint, len(endpoints))
	for i, endpoint := range endpoints {
		result[i] = endpoint.clone()
	}

	return result
}

// Families returns the resource families in declaration order.
func Families() []Family {
	return []Family{FamilyCategory, FamilyRelease, FamilySeries, FamilySource, FamilyTag}
}

// LookupEndpoint returns the endpoint for a family and operation name.
func LookupEndpoint(family Family, name string) (Endpoint, error) {
	endpoint, err := lookupEndpoint(family, name)
	if err != nil {
		return Endpoint{}, err
	}

	return endpoint.clone(), nil
}

// Accepts reports whether the endpoint takes the named parameter.
func (e *Endpoint) Accepts(name string) bool {
	return e.accepted.Has(name)
}

func lookupEndpoint(family Family, name string) (*Endpoint, error) {
	endpoint, ok := endpointIndex[endpointKey(family, name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s %s", ErrUnknownEndpoint, family, name)
	}

	return endpoint, nil
}

func (e *Endpoint) clone() Endpoint {
	return Endpoint{
		Family:   e.Family,
		Name:     e.Name,
		Path:     e.Path,
		Summary:  e.Summary,
		Required: slices.Clone(e.Required),
		Optional: slices.Clone(e.Optional),
		accepted: e.accepted.Clone(),
	}
}

func indexEndpoints(table []*Endpoint) map[string]*Endpoint {
	index := make(map[string]*Endpoint, len(table))

	for _, endpoint := range table {
		endpoint.accepted = sets.New(endpoint.Required...).Insert(endpoint.Optional...)
		index[endpointKey(endpoint.Family, endpoint.Name)] = endpoint
	}

	return index
}

func endpointKey(family Family, name string) string {
	return string(family) + "/" + name
}

// options concatenates parameter groups.
func options(groups ...[]string) []string {
	var result []string
	for _, group := range groups {
		result = append(result, group...)
	}

	return result
}
