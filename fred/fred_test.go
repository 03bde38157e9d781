package fred_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/oshokin/frb/fred"
	"github.com/oshokin/frb/frame"
	mock_fred "github.com/oshokin/frb/fred/mocks"
)

const seriesBody = `{"seriess": [{"series_id": "GNPCA", "realtime_start": "2020-01-01", "value": "5.0"}]}`

func newMockClient(t *testing.T, opts ...fred.Option) (*fred.Fred, *mock_fred.MockTransport) {
	t.Helper()

	ctrl := gomock.NewController(t)
	transport := mock_fred.NewMockTransport(ctrl)

	client, err := fred.New(append([]fred.Option{fred.WithTransport(transport)}, opts...)...)
	require.NoError(t, err)

	return client, transport
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	client, err := fred.New()
	require.NoError(t, err)

	assert.Equal(t, fred.DefaultAPIKey, client.APIKey())
	assert.Equal(t, fred.FormatXML, client.Format())
	assert.True(t, client.SSLVerify())

	// Sub-clients carry their own copy of the defaults.
	assert.Equal(t, fred.DefaultAPIKey, client.Category.APIKey())
	assert.Equal(t, fred.FormatXML, client.Series.Format())
	assert.True(t, client.Tag.SSLVerify())
}

func TestNew_InvalidOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opt  fred.Option
	}{
		{name: "format", opt: fred.WithResponseFormat(fred.Format(42))},
		{name: "base url", opt: fred.WithBaseURL("not a url")},
		{name: "timeout", opt: fred.WithTimeout(-time.Second)},
		{name: "rate limit", opt: fred.WithRateLimit(5, 0)},
		{name: "cache size", opt: fred.WithCache("", 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client, err := fred.New(tt.opt)
			require.Error(t, err)
			assert.True(t, fred.IsConfigurationError(err), err)
			assert.Nil(t, client)
		})
	}
}

func TestCategoryDetails_URL(t *testing.T) {
	t.Parallel()

	client, transport := newMockClient(t, fred.WithAPIKey("0123456789abcdef0123456789abcdef"))

	transport.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, rawURL string, opts fred.RequestOptions) (string, error) {
			parsed, err := url.Parse(rawURL)
			require.NoError(t, err)

			assert.Equal(t, "/fred/category", parsed.Path)

			query := parsed.Query()
			assert.Equal(t, "125", query.Get("category_id"))
			assert.Equal(t, "0123456789abcdef0123456789abcdef", query.Get("api_key"))
			assert.Equal(t, "json", query.Get("file_type"))
			assert.True(t, opts.SSLVerify)

			return `{"categories": [{"id": 125, "name": "Trade Balance", "parent_id": 13}]}`, nil
		})

	result, err := client.Category.Details(t.Context(), 125, nil, fred.WithFormat(fred.FormatJSON))
	require.NoError(t, err)
	assert.Contains(t, result.Text, "Trade Balance")
}

func TestXMLFormat_OmitsFileType(t *testing.T) {
	t.Parallel()

	client, transport := newMockClient(t)

	transport.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, rawURL string, _ fred.RequestOptions) (string, error) {
			assert.NotContains(t, rawURL, "file_type")

			return "<categories/>", nil
		})

	result, err := client.Category.Details(t.Context(), 125, nil)
	require.NoError(t, err)
	assert.Equal(t, fred.FormatXML, result.Format)
	assert.Equal(t, "<categories/>", result.Text)
}

func TestUnsupportedFormat_NoNetworkCall(t *testing.T) {
	t.Parallel()

	// The mock fails the test on any unexpected Get.
	client, _ := newMockClient(t)

	_, err := client.Category.Details(t.Context(), 125, nil, fred.WithFormatName("yaml"))
	require.ErrorIs(t, err, fred.ErrUnsupportedFormat)
	assert.True(t, fred.IsConfigurationError(err))

	_, err = client.Series.Details(t.Context(), "GNPCA", nil, fred.WithFormat(fred.Format(77)))
	require.ErrorIs(t, err, fred.ErrUnsupportedFormat)
}

func TestMissingParameter_NoNetworkCall(t *testing.T) {
	t.Parallel()

	client, _ := newMockClient(t)

	_, err := client.Series.Observations(t.Context(), "", nil)
	require.ErrorIs(t, err, fred.ErrMissingParameter)
	assert.True(t, fred.IsConfigurationError(err))

	_, err = client.Tag.RelatedTags(t.Context(), nil, nil)
	require.ErrorIs(t, err, fred.ErrMissingParameter)

	_, err = client.Call(t.Context(), fred.FamilyCategory, "related_tags", fred.Params{"category_id": 125})
	require.ErrorIs(t, err, fred.ErrMissingParameter)
}

func TestCapabilityUnavailable_NoNetworkCall(t *testing.T) {
	t.Parallel()

	client, _ := newMockClient(t, fred.WithoutTabular())

	for _, format := range []fred.Format{
		fred.FormatRecords, fred.FormatTable, fred.FormatCSV, fred.FormatTab, fred.FormatPipe, fred.FormatArray,
	} {
		_, err := client.Source.Sources(t.Context(), nil, fred.WithFormat(format))
		require.ErrorIs(t, err, fred.ErrCapabilityUnavailable, format.String())
	}
}

func TestMalformedBody_ShapeFailure(t *testing.T) {
	t.Parallel()

	client, transport := newMockClient(t)

	transport.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return("{not json", nil)

	_, err := client.Release.AllReleases(t.Context(), nil, fred.WithFormat(fred.FormatRecords))
	require.ErrorIs(t, err, fred.ErrUnexpectedShape)
	assert.NotErrorIs(t, err, fred.ErrTransport)
}

func TestAmbiguousEnvelope_ShapeFailure(t *testing.T) {
	t.Parallel()

	client, transport := newMockClient(t)

	transport.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(`{"seriess": [{"id": "A"}], "tags": [{"name": "b"}]}`, nil)

	_, err := client.Tag.Tags(t.Context(), nil, fred.WithFormat(fred.FormatTable))
	require.ErrorIs(t, err, fred.ErrUnexpectedShape)
}

func TestTransportFailure_Wrapped(t *testing.T) {
	t.Parallel()

	client, transport := newMockClient(t)

	errRefused := errors.New("connection refused")
	transport.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return("", errRefused)

	_, err := client.Source.Details(t.Context(), 1, nil)
	require.ErrorIs(t, err, fred.ErrTransport)
	require.ErrorIs(t, err, errRefused)
	assert.NotContains(t, err.Error(), fred.DefaultAPIKey)

	var transportErr *fred.TransportError
	require.ErrorAs(t, err, &transportErr)
}

func TestSeriesTable_EndToEnd(t *testing.T) {
	t.Parallel()

	client, transport := newMockClient(t)

	transport.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(seriesBody, nil)

	result, err := client.Series.Details(t.Context(), "GNPCA", nil, fred.WithFormat(fred.FormatTable))
	require.NoError(t, err)
	require.NotNil(t, result.Table)
	assert.Equal(t, 1, result.Table.Len())

	realtimeStart, ok := result.Table.Column("realtime_start")
	require.True(t, ok)
	assert.Equal(t, frame.KindDate, realtimeStart.Kind)
	assert.Equal(t, time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC), realtimeStart.Values[0])

	value, ok := result.Table.Column("value")
	require.True(t, ok)
	assert.Equal(t, frame.KindFloat, value.Kind)
	assert.InDelta(t, 5.0, value.Values[0], 1e-12)
}

func TestParams_FilteredByEndpoint(t *testing.T) {
	t.Parallel()

	client, transport := newMockClient(t)

	transport.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, rawURL string, _ fred.RequestOptions) (string, error) {
			parsed, err := url.Parse(rawURL)
			require.NoError(t, err)

			query := parsed.Query()
			assert.Equal(t, "slovenia;food", query.Get("tag_names"))
			assert.Equal(t, "10", query.Get("limit"))
			assert.False(t, query.Has("units"))

			return `{"seriess": []}`, nil
		})

	_, err := client.Tag.Series(t.Context(), []string{"slovenia", "food"}, fred.Params{
		"limit": 10,
		"units": "lin",
	}, fred.WithFormat(fred.FormatJSON))
	require.NoError(t, err)
}

func TestCallOptions_Override(t *testing.T) {
	t.Parallel()

	proxyURL, err := url.Parse("http://proxy.local:3128")
	require.NoError(t, err)

	client, transport := newMockClient(t)

	transport.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, rawURL string, opts fred.RequestOptions) (string, error) {
			assert.Contains(t, rawURL, "api_key=ffffffffffffffffffffffffffffffff")
			assert.False(t, opts.SSLVerify)
			assert.Equal(t, proxyURL, opts.Proxy["https"])

			return `{"sources": [{"id": 1, "name": "Board of Governors"}]}`, nil
		})

	result, err := client.Source.Sources(t.Context(), nil,
		fred.WithFormat(fred.FormatCSV),
		fred.WithCallAPIKey("ffffffffffffffffffffffffffffffff"),
		fred.WithCallSSLVerify(false),
		fred.WithCallProxy(map[string]*url.URL{"https": proxyURL}))
	require.NoError(t, err)
	assert.Equal(t, "id,name\n1,Board of Governors\n", result.Text)
}

func TestCall_Generic(t *testing.T) {
	t.Parallel()

	client, transport := newMockClient(t)

	transport.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, rawURL string, _ fred.RequestOptions) (string, error) {
			assert.True(t, strings.HasPrefix(rawURL, fred.DefaultBaseURL+"/series/vintagedates?"))

			return `{"vintage_dates": ["1958-12-21", "1959-02-19"]}`, nil
		})

	result, err := client.Call(t.Context(), fred.FamilySeries, "vintage_dates",
		fred.Params{"series_id": "GNPCA"}, fred.WithFormat(fred.FormatArray))
	require.NoError(t, err)
	require.Len(t, result.Values, 2)

	_, err = client.Call(t.Context(), fred.FamilySeries, "nope", nil)
	require.ErrorIs(t, err, fred.ErrUnknownEndpoint)
}

func TestCache_SkipsTransportOnHit(t *testing.T) {
	t.Parallel()

	client, transport := newMockClient(t, fred.WithCache("", 1<<20))

	transport.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(seriesBody, nil).Times(1)

	first, err := client.Series.Details(t.Context(), "GNPCA", nil, fred.WithFormat(fred.FormatRecords))
	require.NoError(t, err)

	second, err := client.Series.Details(t.Context(), "GNPCA", nil, fred.WithFormat(fred.FormatRecords))
	require.NoError(t, err)

	assert.Equal(t, first.Records, second.Records)
}

func TestCache_CanceledCallerDoesNotFailLaterCall(t *testing.T) {
	t.Parallel()

	client, transport := newMockClient(t, fred.WithCache("", 1<<20))

	release := make(chan struct{})

	transport.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string, fred.RequestOptions) (string, error) {
			<-release

			return seriesBody, nil
		}).
		Times(1)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := client.Series.Details(ctx, "GNPCA", nil, fred.WithFormat(fred.FormatJSON))
	require.ErrorIs(t, err, fred.ErrTransport)
	require.ErrorIs(t, err, context.Canceled)

	close(release)

	result, err := client.Series.Details(t.Context(), "GNPCA", nil, fred.WithFormat(fred.FormatJSON))
	require.NoError(t, err)
	assert.Equal(t, seriesBody, result.Text)
}

func TestCache_KeyedByFormatAndParams(t *testing.T) {
	t.Parallel()

	client, transport := newMockClient(t, fred.WithCache(t.TempDir(), 1<<20))

	transport.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(seriesBody, nil).Times(3)

	_, err := client.Series.Details(t.Context(), "GNPCA", nil, fred.WithFormat(fred.FormatRecords))
	require.NoError(t, err)

	_, err = client.Series.Details(t.Context(), "GNPCA", nil, fred.WithFormat(fred.FormatTable))
	require.NoError(t, err)

	_, err = client.Series.Details(t.Context(), "GNPCA", fred.Params{"realtime_start": "2020-01-01"},
		fred.WithFormat(fred.FormatTable))
	require.NoError(t, err)
}

func TestCache_ErrorsNotCached(t *testing.T) {
	t.Parallel()

	client, transport := newMockClient(t, fred.WithCache("", 1<<20))

	gomock.InOrder(
		transport.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("timeout")),
		transport.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(seriesBody, nil),
	)

	_, err := client.Series.Details(t.Context(), "GNPCA", nil, fred.WithFormat(fred.FormatJSON))
	require.ErrorIs(t, err, fred.ErrTransport)

	result, err := client.Series.Details(t.Context(), "GNPCA", nil, fred.WithFormat(fred.FormatJSON))
	require.NoError(t, err)
	assert.Equal(t, seriesBody, result.Text)
}

func TestHTTPTransport_Server(t *testing.T) {
	t.Parallel()

	var userAgent atomic.Value

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent.Store(r.Header.Get("User-Agent"))

		if r.URL.Path != "/fred/series/observations" {
			http.NotFound(w, r)

			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"observations": [{"date": "1929-01-01", "value": "1120.718"}]}`))
	}))
	defer server.Close()

	client, err := fred.New(
		fred.WithBaseURL(server.URL+"/fred"),
		fred.WithResponseFormat(fred.FormatTab),
		fred.WithUserAgent("frb-test/1.0"),
		fred.WithRateLimit(fred.DefaultRateLimitCalls, fred.DefaultRateLimitPeriod),
		fred.WithTimeout(5*time.Second),
	)
	require.NoError(t, err)

	result, err := client.Series.Observations(t.Context(), "GNPCA", fred.Params{"limit": 1})
	require.NoError(t, err)
	assert.Equal(t, "date\tvalue\n1929-01-01\t1120.718\n", result.Text)
	assert.Equal(t, "frb-test/1.0", userAgent.Load())

	// Unknown paths come back as 404.
	_, err = client.Call(t.Context(), fred.FamilyTag, "tags", nil)
	require.ErrorIs(t, err, fred.ErrTransport)
	require.ErrorIs(t, err, fred.ErrUnexpectedHTTPStatus)

	var transportErr *fred.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, http.StatusNotFound, transportErr.StatusCode)
	assert.NotContains(t, transportErr.Error(), fred.DefaultAPIKey)
}

func TestHTTPTransport_SelfSignedCertificate(t *testing.T) {
	t.Parallel()

	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<sources/>"))
	}))
	defer server.Close()

	client, err := fred.New(fred.WithBaseURL(server.URL))
	require.NoError(t, err)

	_, err = client.Source.Sources(t.Context(), nil)
	require.ErrorIs(t, err, fred.ErrTransport)

	result, err := client.Source.Sources(t.Context(), nil, fred.WithCallSSLVerify(false))
	require.NoError(t, err)
	assert.Equal(t, "<sources/>", result.Text)

	insecure, err := fred.New(fred.WithBaseURL(server.URL), fred.WithSSLVerify(false))
	require.NoError(t, err)

	result, err = insecure.Source.Sources(t.Context(), nil)
	require.NoError(t, err)
	assert.Equal(t, "<sources/>", result.Text)
}

// newForwardProxy starts a plain HTTP forward proxy that records the absolute
// request URLs it receives and answers them itself.
func newForwardProxy(t *testing.T) (*url.URL, func() []string) {
	t.Helper()

	var (
		mu        sync.Mutex
		requested []string
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requested = append(requested, r.URL.String())
		mu.Unlock()

		assert.Equal(t, "api.fred.test", r.Host)

		_, _ = w.Write([]byte(`{"sources": [{"id": 1, "name": "Board of Governors"}]}`))
	}))
	t.Cleanup(server.Close)

	proxyURL, err := url.Parse(server.URL)
	require.NoError(t, err)

	return proxyURL, func() []string {
		mu.Lock()
		defer mu.Unlock()

		return append([]string(nil), requested...)
	}
}

func TestHTTPTransport_Proxy(t *testing.T) {
	t.Parallel()

	configuredProxy, configuredRequests := newForwardProxy(t)
	perCallProxy, perCallRequests := newForwardProxy(t)

	client, err := fred.New(
		fred.WithBaseURL("http://api.fred.test/fred"),
		fred.WithProxy(map[string]*url.URL{"http": configuredProxy}),
		fred.WithTimeout(5*time.Second),
	)
	require.NoError(t, err)

	result, err := client.Source.Sources(t.Context(), nil, fred.WithFormat(fred.FormatCSV))
	require.NoError(t, err)
	assert.Equal(t, "id,name\n1,Board of Governors\n", result.Text)

	require.Len(t, configuredRequests(), 1)
	assert.True(t, strings.HasPrefix(configuredRequests()[0], "http://api.fred.test/fred/sources?"))
	assert.Empty(t, perCallRequests())

	result, err = client.Source.Sources(t.Context(), nil,
		fred.WithFormat(fred.FormatCSV),
		fred.WithCallProxy(map[string]*url.URL{"http": perCallProxy}))
	require.NoError(t, err)
	assert.Equal(t, "id,name\n1,Board of Governors\n", result.Text)

	require.Len(t, perCallRequests(), 1)
	assert.True(t, strings.HasPrefix(perCallRequests()[0], "http://api.fred.test/fred/sources?"))
	assert.Contains(t, perCallRequests()[0], "file_type=json")
	assert.Len(t, configuredRequests(), 1)
}
