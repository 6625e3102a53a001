package adminapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/openshelf/openshelf/internal/domain"
	"github.com/openshelf/openshelf/internal/webserver"
	"github.com/openshelf/openshelf/pkg/metrics"
)

func registerSystemRoutes(ws *webserver.WebServer) {
	ws.ApiGET("/system/metrics", getSystemMetrics)
	ws.ApiGET("/system/changelog", getChangelog)
	ws.ApiGET("/system/categories", getCategories)
}

type systemMetricsResponse struct {
	CpuUse []metrics.DataPoint `json:"cpuUse"`
	MemUse []metrics.DataPoint `json:"memUse"`
}

// getSystemMetrics serves the host gauges for the trailing hour.
func getSystemMetrics(c echo.Context) error {
	to := time.Now().Unix()
	from := to - 3600

	var resp systemMetricsResponse
	var err error
	if resp.CpuUse, err = metrics.Range(metrics.MetricSystemCpuUse, from, to); err != nil {
		return fail(c, http.StatusInternalServerError, "METRICS_ERROR", "Failed to read metrics", err.Error())
	}
	if resp.MemUse, err = metrics.Range(metrics.MetricSystemMemUse, from, to); err != nil {
		return fail(c, http.StatusInternalServerError, "METRICS_ERROR", "Failed to read metrics", err.Error())
	}
	return ok(c, resp)
}

// getChangelog lists recent catalog snapshot revisions from the journal.
func getChangelog(c echo.Context) error {
	journal := getDeps(c).Journal
	if journal == nil {
		return fail(c, http.StatusServiceUnavailable, "JOURNAL_DISABLED", "Snapshot journal is not enabled", nil)
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	entries, err := journal.Recent(limit)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "JOURNAL_ERROR", "Failed to read changelog", err.Error())
	}
	return ok(c, entries)
}

// getCategories serves the fixed category labels for filter widgets.
func getCategories(c echo.Context) error {
	return ok(c, domain.ProductCategories)
}
