package adminapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/openshelf/openshelf/config"
	"github.com/openshelf/openshelf/internal/app"
	"github.com/openshelf/openshelf/internal/catalog"
	"github.com/openshelf/openshelf/internal/domain"
	"github.com/openshelf/openshelf/internal/webserver"
)

type testAPI struct {
	ws       *webserver.WebServer
	provider *catalog.Provider
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	dbfile := filepath.Join(t.TempDir(), "adminapi.db")
	db, err := gorm.Open(sqlite.Open(dbfile), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Tables...))

	repo := catalog.NewGormRepository(db)
	provider := catalog.NewProvider(repo, EventBus.New(), nil)
	require.NoError(t, provider.Open(context.Background()))
	t.Cleanup(provider.Close)

	settings := app.NewSettingsManager(db)
	settings.SeedDefaults()

	cfg := config.DefaultAppConfig
	ws := webserver.New(&cfg)
	Register(ws, &Deps{DB: db, Provider: provider, Settings: settings})

	api := &testAPI{ws: ws, provider: provider}
	api.waitSettled(t, 0)
	return api
}

// waitSettled blocks until the snapshot holds want products.
func (a *testAPI) waitSettled(t *testing.T, want int) {
	t.Helper()
	require.Eventually(t, func() bool {
		products, loading := a.provider.Snapshot()
		return !loading && len(products) == want
	}, 2*time.Second, 10*time.Millisecond)
}

func (a *testAPI) do(method, target, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	a.ws.Echo().ServeHTTP(rec, req)
	return rec
}

const kettleJSON = `{"name":"Kettle","description":"Electric kettle","price":40,"category":"Home & Kitchen","stock":7}`

func TestProductCreateAndList(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/api/v1/crm/products", kettleJSON)
	require.Equal(t, http.StatusNoContent, rec.Code)

	// the write becomes visible with the next snapshot, not synchronously
	api.waitSettled(t, 1)

	rec = api.do(http.MethodGet, "/api/v1/crm/products", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.EqualValues(t, 1, resp.Total)
	assert.False(t, resp.Loading)
}

func TestProductValidation(t *testing.T) {
	api := newTestAPI(t)

	cases := []string{
		`{"name":"","category":"Books"}`,
		`{"name":"Thing","category":"Nonexistent"}`,
		`{"name":"Thing","category":"Books","price":-1}`,
		`{"name":"Thing","category":"Books","stock":-5}`,
	}
	for _, body := range cases {
		rec := api.do(http.MethodPost, "/api/v1/crm/products", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestProductUpdateMissing(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(http.MethodPut, "/api/v1/crm/products/424242", kettleJSON)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductDeleteIdempotent(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(http.MethodDelete, "/api/v1/crm/products/424242", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestProductListFiltering(t *testing.T) {
	api := newTestAPI(t)

	bodies := []string{
		kettleJSON,
		`{"name":"Paperback","description":"Novel","price":12,"category":"Books","stock":0}`,
		`{"name":"Keyboard","description":"Mechanical","price":90,"category":"Electronics","stock":30}`,
	}
	for _, body := range bodies {
		require.Equal(t, http.StatusNoContent, api.do(http.MethodPost, "/api/v1/crm/products", body).Code)
	}
	api.waitSettled(t, 3)

	rec := api.do(http.MethodGet, "/api/v1/crm/products?stock=outOfStock", "")
	var resp ListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.EqualValues(t, 1, resp.Total)

	rec = api.do(http.MethodGet, "/api/v1/crm/products?q=mechanical", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.EqualValues(t, 1, resp.Total)

	rec = api.do(http.MethodGet, "/api/v1/crm/products?category=Books&priceMin=10", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.EqualValues(t, 1, resp.Total)
}

func TestDashboard(t *testing.T) {
	api := newTestAPI(t)
	require.Equal(t, http.StatusNoContent, api.do(http.MethodPost, "/api/v1/crm/products", kettleJSON).Code)
	api.waitSettled(t, 1)

	rec := api.do(http.MethodGet, "/api/v1/dashboard", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var wrapper struct {
		Data dashboardResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &wrapper))
	assert.Equal(t, 1, wrapper.Data.Stats.TotalProducts)
	assert.Equal(t, 1, wrapper.Data.Stats.TotalCategories)
	assert.InDelta(t, 280.0, wrapper.Data.Stats.TotalValue, 0.001)
	assert.Equal(t, "$280.00", wrapper.Data.ValueLabel)
	require.Len(t, wrapper.Data.TopCategories, 1)
	assert.Equal(t, "Home & Kitchen", wrapper.Data.TopCategories[0].Name)
}

func TestAnalytics(t *testing.T) {
	api := newTestAPI(t)
	require.Equal(t, http.StatusNoContent, api.do(http.MethodPost, "/api/v1/crm/products", kettleJSON).Code)
	api.waitSettled(t, 1)

	rec := api.do(http.MethodGet, "/api/v1/analytics", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var wrapper struct {
		Data analyticsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &wrapper))
	assert.True(t, wrapper.Data.SalesDemo)
	assert.Len(t, wrapper.Data.Sales, 12)
	assert.Equal(t, catalog.StockBuckets{LowStock: 1}, wrapper.Data.StockBuckets)
}

func TestSettingsRoundTrip(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPut, "/api/v1/system/settings",
		`{"category":"store","values":{"name":"Corner Shop","email":"shop@example.com"}}`)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(http.MethodGet, "/api/v1/system/settings", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var wrapper struct {
		Data settingsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &wrapper))
	assert.Equal(t, "Corner Shop", wrapper.Data.Store.Name)
	assert.Equal(t, "shop@example.com", wrapper.Data.Store.Email)
}

func TestSettingsRejectsUnknownCategory(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(http.MethodPut, "/api/v1/system/settings", `{"category":"secrets","values":{"x":"y"}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCategories(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(http.MethodGet, "/api/v1/system/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var wrapper struct {
		Data []string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &wrapper))
	assert.Len(t, wrapper.Data, 20)
}

func TestExportCSV(t *testing.T) {
	api := newTestAPI(t)
	require.Equal(t, http.StatusNoContent, api.do(http.MethodPost, "/api/v1/crm/products", kettleJSON).Code)
	api.waitSettled(t, 1)

	rec := api.do(http.MethodGet, "/api/v1/crm/products/export?format=csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echoHeaderContentType), "text/csv")
	assert.Contains(t, rec.Body.String(), "Kettle")
}

const echoHeaderContentType = "Content-Type"
