package client

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"homedepot/scraper/internal/config"
	"homedepot/scraper/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSite(baseURL string) config.SiteConfig {
	return config.SiteConfig{
		BaseURL:         baseURL,
		NavigationPath:  "/nav.json",
		SearchPath:      "/federation-gateway/graphql",
		ProductsPerPage: 24,
		UserAgent:       "test-agent",
		Accept:          "text/html",
		SearchHeaders:   map[string]string{"x-experience-name": "major-appliances"},
	}
}

func TestGetNavigation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/nav.json", r.URL.Path)
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		w.Write([]byte(`{"header":{"primaryNavigation":[{"title":"Appliances","l2":[{"name":"Dishwashers","url":"/b/Appliances-Dishwashers/N-5yc1vZc3po","l3":[]}]}]}}`))
	}))
	defer srv.Close()

	c := NewHomeDepotClient(testSite(srv.URL), config.HTTPConfig{Timeout: 5}, nil)
	defer c.Close()

	nav, err := c.GetNavigation(t.Context())
	require.NoError(t, err)
	require.Len(t, nav.Header.PrimaryNavigation, 1)
	assert.Equal(t, "Dishwashers", nav.Header.PrimaryNavigation[0].Categories[0].Name)
}

func TestGetNavigationFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing.json":
			http.NotFound(w, r)
		case "/broken.json":
			w.Write([]byte(`<html>not json</html>`))
		case "/slow.json":
			select {
			case <-r.Context().Done():
			case <-time.After(3 * time.Second):
			}
		}
	}))
	defer srv.Close()

	tests := []struct {
		path   string
		reason FailureReason
	}{
		{"/missing.json", ReasonStatus},
		{"/broken.json", ReasonDecode},
		{"/slow.json", ReasonTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			site := testSite(srv.URL)
			site.NavigationPath = tt.path
			c := NewHomeDepotClient(site, config.HTTPConfig{Timeout: 1}, nil)
			defer c.Close()

			_, err := c.GetNavigation(t.Context())
			var fetchErr *FetchError
			require.True(t, errors.As(err, &fetchErr), "got %v", err)
			assert.Equal(t, tt.reason, fetchErr.Reason)
			assert.True(t, IsReason(err, tt.reason))
		})
	}
}

func TestGetNavigationConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	c := NewHomeDepotClient(testSite(baseURL), config.HTTPConfig{Timeout: 1}, nil)
	defer c.Close()

	_, err := c.GetNavigation(t.Context())
	assert.True(t, IsReason(err, ReasonConnection), "got %v", err)
}

func TestGetBrandURLAndResultCount(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/b/Appliances-Dishwashers/N-5yc1vZc3po", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(brandPanelHTML))
	})
	mux.HandleFunc("/b/Appliances-Dishwashers/LG/N-5yc1vZc3poZ8p", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<span class="results-applied__label">50</span>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewHomeDepotClient(testSite(srv.URL), config.HTTPConfig{Timeout: 5}, nil)
	defer c.Close()

	brandURL, err := c.GetBrandURL(t.Context(), domain.NavigationEntry{
		Brand: "LG",
		URL:   srv.URL + "/b/Appliances-Dishwashers/N-5yc1vZc3po",
	})
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/b/Appliances-Dishwashers/LG/N-5yc1vZc3poZ8p", brandURL)

	total, err := c.GetResultCount(t.Context(), brandURL)
	require.NoError(t, err)
	assert.Equal(t, 50, total)
}

func TestSearchProducts(t *testing.T) {
	var (
		mutex   sync.Mutex
		request struct {
			OperationName string               `json:"operationName"`
			Variables     SearchModelVariables `json:"variables"`
			Query         string               `json:"query"`
		}
		headers http.Header
		query   string
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mutex.Lock()
		defer mutex.Unlock()

		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/federation-gateway/graphql", r.URL.Path)
		query = r.URL.Query().Get("opname")
		headers = r.Header.Clone()
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&request))

		w.Write([]byte(`{"data":{"searchModel":{"products":[{"identifiers":{"itemId":"315432187","brandName":"LG"},"pricing":{"value":199.99}}]}}}`))
	}))
	defer srv.Close()

	c := NewHomeDepotClient(testSite(srv.URL), config.HTTPConfig{Timeout: 5}, nil)
	defer c.Close()

	entry := domain.ResolvedBrandEntry{
		NavigationEntry: domain.NavigationEntry{Brand: "LG", StoreID: "6177", DeliveryZip: "10022"},
		BrandURL:        srv.URL + "/b/Appliances-Dishwashers/LG/N-5yc1vZc3poZ8p",
		NavParam:        "5yc1vZc3poZ8p",
	}
	response, err := c.SearchProducts(t.Context(), entry, 48)
	require.NoError(t, err)
	require.NotNil(t, response.Data.SearchModel)
	require.Len(t, response.Data.SearchModel.Products, 1)
	assert.Equal(t, "315432187", response.Data.SearchModel.Products[0].Identifiers.ItemID)

	mutex.Lock()
	defer mutex.Unlock()

	assert.Equal(t, "searchModel", query)
	assert.Equal(t, "searchModel", request.OperationName)
	assert.Contains(t, request.Query, "query searchModel(")
	assert.Equal(t, "6177", request.Variables.StoreID)
	assert.Equal(t, "10022", request.Variables.AdditionalSearchParams.DeliveryZip)
	assert.Equal(t, "5yc1vZc3poZ8p", request.Variables.NavParam)
	assert.Equal(t, 48, request.Variables.StartIndex)
	assert.Equal(t, 24, request.Variables.PageSize)
	assert.Equal(t, "TOP_SELLERS", request.Variables.OrderBy.Field)

	assert.Equal(t, entry.BrandURL, headers.Get("Referer"))
	assert.Equal(t, "/b/Appliances-Dishwashers/LG/N-5yc1vZc3poZ8p", headers.Get("X-Current-Url"))
	assert.Equal(t, "major-appliances", headers.Get("X-Experience-Name"))
	assert.Equal(t, "application/json", headers.Get("Content-Type"))
}

func TestNewSearchModelRequestEncoding(t *testing.T) {
	data, err := json.Marshal(NewSearchModelRequest("2414", "04401", "5yc1vZc3piZa0f", 0, 24))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	variables := decoded["variables"].(map[string]any)

	assert.Equal(t, "2414", variables["storeId"])
	assert.Equal(t, "04401", variables["additionalSearchParams"].(map[string]any)["deliveryZip"])
	assert.Equal(t, "ALL", variables["storefilter"])
	assert.Equal(t, "DESKTOP", variables["channel"])
	assert.Equal(t, float64(0), variables["startIndex"])
	assert.Equal(t, map[string]any{}, variables["filter"])
}

// newRetryingClient allows five retries with millisecond backoff.
func newRetryingClient(t *testing.T, baseURL string) *homeDepotClient {
	t.Helper()

	c := NewHomeDepotClient(testSite(baseURL), config.HTTPConfig{Timeout: 5, MaxRetries: 5}, nil).(*homeDepotClient)
	c.transport.getClient.
		SetRetryWaitTime(time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Millisecond)
	t.Cleanup(func() { c.Close() })
	return c
}

// resetHandler counts requests and aborts every connection with a TCP reset.
func resetHandler(t *testing.T, attempts *atomic.Int32) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		conn, _, err := w.(http.Hijacker).Hijack()
		if !assert.NoError(t, err) {
			return
		}
		if tcp, ok := conn.(*net.TCPConn); ok {
			tcp.SetLinger(0)
		}
		conn.Close()
	}
}

func TestGetRetriesConnectionReset(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(resetHandler(t, &attempts))
	defer srv.Close()

	_, err := newRetryingClient(t, srv.URL).GetNavigation(t.Context())
	assert.True(t, IsReason(err, ReasonConnection), "got %v", err)
	assert.Equal(t, int32(6), attempts.Load())
}

func TestGetDoesNotRetryErrorStatus(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newRetryingClient(t, srv.URL).GetNavigation(t.Context())
	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr), "got %v", err)
	assert.Equal(t, ReasonStatus, fetchErr.Reason)
	assert.Equal(t, http.StatusServiceUnavailable, fetchErr.StatusCode)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestPostIsNotRetried(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(resetHandler(t, &attempts))
	defer srv.Close()

	entry := domain.ResolvedBrandEntry{
		NavigationEntry: domain.NavigationEntry{Brand: "LG", StoreID: "6177", DeliveryZip: "10022"},
		BrandURL:        srv.URL + "/b/Appliances-Dishwashers/LG/N-5yc1vZc3poZ8p",
		NavParam:        "5yc1vZc3poZ8p",
	}
	_, err := newRetryingClient(t, srv.URL).SearchProducts(t.Context(), entry, 0)
	assert.True(t, IsReason(err, ReasonConnection), "got %v", err)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestSearchProductsGraphQLErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"errors without model", `{"data":{"searchModel":null},"errors":[{"message":"PersistedQueryNotFound"}]}`},
		{"no model", `{"data":{}}`},
		{"errors with model", `{"data":{"searchModel":{"products":[]}},"errors":[{"message":"partial"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewHomeDepotClient(testSite(srv.URL), config.HTTPConfig{Timeout: 5}, nil)
			defer c.Close()

			response, err := c.SearchProducts(t.Context(), domain.ResolvedBrandEntry{NavParam: "5yc1vZc3poZ8p"}, 24)
			assert.ErrorIs(t, err, domain.ErrSearchFailed)
			assert.Nil(t, response)
		})
	}
}
