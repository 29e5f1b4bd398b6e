package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storebilling/storebilling-backend/api/controllers"
	"github.com/storebilling/storebilling-backend/internal/bills"
	"github.com/storebilling/storebilling-backend/internal/dashboard"
	"github.com/storebilling/storebilling-backend/internal/items"
	"github.com/storebilling/storebilling-backend/pkg/config"
	"github.com/storebilling/storebilling-backend/pkg/db/dbtest"
	"github.com/storebilling/storebilling-backend/pkg/db/models"
	"github.com/storebilling/storebilling-backend/pkg/logger"
	"github.com/storebilling/storebilling-backend/pkg/metrics"
)

type passthroughImages struct{}

func (passthroughImages) NormalizeDataURL(value string) (string, error) { return value, nil }

type testServer struct {
	handler http.Handler
	items   *items.Repository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	client := dbtest.New(t)
	logg := logger.Nop()
	reg := prometheus.NewRegistry()
	storeMetrics := metrics.NewStoreMetrics(reg)

	itemRepo := items.NewRepository(client.DB())
	itemService, err := items.NewService(itemRepo, passthroughImages{}, logg, storeMetrics)
	require.NoError(t, err)
	billService, err := bills.NewService(client, bills.NewRepository(client.DB()), itemRepo, logg, storeMetrics)
	require.NoError(t, err)
	dashboardService, err := dashboard.NewService(billService, 60)
	require.NoError(t, err)

	cfg := &config.Config{
		App:  config.AppConfig{Env: "test"},
		HTTP: config.HTTPConfig{CORSOrigins: []string{"*"}},
	}
	handler := NewRouter(
		cfg,
		logg,
		map[string]controllers.Pinger{"db": client, "redis": nil},
		nil,
		itemService,
		billService,
		dashboardService,
		reg,
		metrics.NewHTTPMetrics(reg),
	)
	return &testServer{handler: handler, items: itemRepo}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthRoutes(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/health", "/health/live", "/health/ready"} {
		rec := srv.do(t, http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.NotEmpty(t, rec.Header().Get("X-Request-Id"), path)
	}
}

func TestBillFlowOverHTTP(t *testing.T) {
	srv := newTestServer(t)

	item := &models.Item{Name: "Premium Coffee Beans", Price: decimal.RequireFromString("18.50"), Stock: 50}
	require.NoError(t, srv.items.Create(context.Background(), item))

	rec := srv.do(t, http.MethodPost, "/api/v1/bills",
		`{"billDate":"2024-01-01","items":[{"itemId":"`+item.ID.String()+`","quantity":2}]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Data bills.BillDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, 37.0, created.Data.TotalPrice)
	billPath := "/api/v1/bills/" + created.Data.ID.String()

	rec = srv.do(t, http.MethodPut, billPath,
		`{"billDate":"2024-01-01","items":[{"itemId":"`+item.ID.String()+`","quantity":5}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"total_price":92.5`)

	rec = srv.do(t, http.MethodGet, "/api/v1/items/"+item.ID.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"stock":45`)

	rec = srv.do(t, http.MethodGet, "/api/v1/bills?date=2024-01-01", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":1`)

	rec = srv.do(t, http.MethodGet, "/api/v1/dashboard?start=2024-01-01&end=2024-01-07", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_revenue":92.5`)

	rec = srv.do(t, http.MethodDelete, billPath, "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = srv.do(t, http.MethodGet, billPath, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/items/"+item.ID.String(), "")
	assert.Contains(t, rec.Body.String(), `"stock":50`)
}

func TestItemRoutes(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/v1/items", `{"name":"Reusable Cup","price":9,"stock":80}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		Data items.ItemDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = srv.do(t, http.MethodPut, "/api/v1/items/"+created.Data.ID.String(), `{"price":"9.50"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"price":9.5`)

	rec = srv.do(t, http.MethodGet, "/api/v1/items", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":1`)

	rec = srv.do(t, http.MethodDelete, "/api/v1/items/"+created.Data.ID.String(), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = srv.do(t, http.MethodDelete, "/api/v1/items/"+created.Data.ID.String(), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestMetricsRoute(t *testing.T) {
	srv := newTestServer(t)
	srv.do(t, http.MethodGet, "/health", "")

	rec := srv.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "storebilling_http_requests_total")
}
