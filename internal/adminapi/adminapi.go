package adminapi

import (
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/openshelf/openshelf/internal/app"
	"github.com/openshelf/openshelf/internal/catalog"
	"github.com/openshelf/openshelf/internal/domain"
	"github.com/openshelf/openshelf/internal/webserver"
	"github.com/openshelf/openshelf/pkg/changelog"
	"github.com/openshelf/openshelf/pkg/common"
)

const depsContextKey = "adminapi.deps"

// Deps are the injected collaborators every handler reaches through the
// request context. No package-level state.
type Deps struct {
	DB       *gorm.DB
	Provider *catalog.Provider
	Settings *app.SettingsManager
	Journal  *changelog.Journal
}

// Register installs the dependency middleware and all admin routes.
func Register(ws *webserver.WebServer, deps *Deps) {
	ws.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(depsContextKey, deps)
			return next(c)
		}
	})

	registerProductRoutes(ws)
	registerDashboardRoutes(ws)
	registerAnalyticsRoutes(ws)
	registerSettingsRoutes(ws)
	registerStreamRoutes(ws)
	registerSystemRoutes(ws)
}

func getDeps(c echo.Context) *Deps {
	return c.Get(depsContextKey).(*Deps)
}

// GetDB returns the request-scoped database handle
func GetDB(c echo.Context) *gorm.DB {
	return getDeps(c).DB
}

// GetProvider returns the shared catalog state provider
func GetProvider(c echo.Context) *catalog.Provider {
	return getDeps(c).Provider
}

// GetSettings returns the settings manager
func GetSettings(c echo.Context) *app.SettingsManager {
	return getDeps(c).Settings
}

// audit appends an operation log row for a mutating request.
func audit(c echo.Context, action, desc string) {
	log := domain.SysOprLog{
		ID:        common.UUIDint64(),
		OprName:   "admin",
		OprIp:     c.RealIP(),
		OptAction: action,
		OptDesc:   desc,
		OptTime:   time.Now(),
	}
	GetDB(c).Create(&log)
}
