package adminapi

import (
	"net/http"
	"time"

	"github.com/araddon/dateparse"
	"github.com/labstack/echo/v4"

	"github.com/openshelf/openshelf/internal/catalog"
	"github.com/openshelf/openshelf/internal/webserver"
	"github.com/openshelf/openshelf/pkg/metrics"
)

func registerAnalyticsRoutes(ws *webserver.WebServer) {
	ws.ApiGET("/analytics", getAnalytics)
	ws.ApiGET("/analytics/inventory", getInventorySeries)
}

type analyticsResponse struct {
	Loading      bool                    `json:"loading"`
	SalesDemo    bool                    `json:"salesDemo"`
	Sales        []catalog.SalesPoint    `json:"sales"`
	Categories   []catalog.CategoryCount `json:"categories"`
	StockBuckets catalog.StockBuckets    `json:"stockBuckets"`
	Prices       catalog.PriceSummary    `json:"prices"`
}

// getAnalytics serves the analytics page payload. The sales series has
// no backing sales entity and is flagged salesDemo; the category and
// stock aggregations are real.
func getAnalytics(c echo.Context) error {
	products, loading := GetProvider(c).Snapshot()

	return ok(c, analyticsResponse{
		Loading:      loading,
		SalesDemo:    true,
		Sales:        catalog.MonthlySales(12),
		Categories:   catalog.CategoryDistribution(products, 0),
		StockBuckets: catalog.BucketStock(products),
		Prices:       catalog.SummarizePrices(products),
	})
}

type inventorySeriesResponse struct {
	From           int64               `json:"from"`
	To             int64               `json:"to"`
	ProductTotal   []metrics.DataPoint `json:"productTotal"`
	InventoryValue []metrics.DataPoint `json:"inventoryValue"`
	LowStockTotal  []metrics.DataPoint `json:"lowStockTotal"`
}

// getInventorySeries serves the recorded inventory gauges between
// from/to. Bounds accept any parseable date or datetime; the default
// window is the trailing 24 hours.
func getInventorySeries(c echo.Context) error {
	to := time.Now()
	from := to.Add(-24 * time.Hour)

	if raw := c.QueryParam("from"); raw != "" {
		t, err := dateparse.ParseIn(raw, time.Local)
		if err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_DATE", "Unable to parse from bound", raw)
		}
		from = t
	}
	if raw := c.QueryParam("to"); raw != "" {
		t, err := dateparse.ParseIn(raw, time.Local)
		if err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_DATE", "Unable to parse to bound", raw)
		}
		to = t
	}
	if !from.Before(to) {
		return fail(c, http.StatusBadRequest, "INVALID_RANGE", "from must precede to", nil)
	}

	resp := inventorySeriesResponse{From: from.Unix(), To: to.Unix()}
	var err error
	if resp.ProductTotal, err = metrics.Range(metrics.MetricProductTotal, from.Unix(), to.Unix()); err != nil {
		return fail(c, http.StatusInternalServerError, "METRICS_ERROR", "Failed to read metrics", err.Error())
	}
	if resp.InventoryValue, err = metrics.Range(metrics.MetricInventoryValue, from.Unix(), to.Unix()); err != nil {
		return fail(c, http.StatusInternalServerError, "METRICS_ERROR", "Failed to read metrics", err.Error())
	}
	if resp.LowStockTotal, err = metrics.Range(metrics.MetricLowStockTotal, from.Unix(), to.Unix()); err != nil {
		return fail(c, http.StatusInternalServerError, "METRICS_ERROR", "Failed to read metrics", err.Error())
	}
	return ok(c, resp)
}
