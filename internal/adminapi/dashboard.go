package adminapi

import (
	"github.com/labstack/echo/v4"

	"github.com/openshelf/openshelf/internal/catalog"
	"github.com/openshelf/openshelf/internal/domain"
	"github.com/openshelf/openshelf/internal/webserver"
	"github.com/openshelf/openshelf/pkg/common"
)

func registerDashboardRoutes(ws *webserver.WebServer) {
	ws.ApiGET("/dashboard", getDashboard)
}

type dashboardResponse struct {
	Loading       bool                    `json:"loading"`
	Stats         catalog.Stats           `json:"stats"`
	ValueLabel    string                  `json:"valueLabel"`
	TopCategories []catalog.CategoryCount `json:"topCategories"`
	Recent        []domain.Product        `json:"recent"`
}

// getDashboard aggregates the live snapshot into the dashboard view:
// headline stats, top-5 categories and the ten most recent products.
func getDashboard(c echo.Context) error {
	products, loading := GetProvider(c).Snapshot()

	stats := catalog.Aggregate(products)
	return ok(c, dashboardResponse{
		Loading:       loading,
		Stats:         stats,
		ValueLabel:    common.FormatCurrency(stats.TotalValue),
		TopCategories: catalog.CategoryDistribution(products, 5),
		Recent:        catalog.Recent(products, 10),
	})
}
