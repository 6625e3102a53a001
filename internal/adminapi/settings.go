package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/openshelf/openshelf/internal/app"
	"github.com/openshelf/openshelf/internal/webserver"
)

func registerSettingsRoutes(ws *webserver.WebServer) {
	ws.ApiGET("/system/settings", getSettings)
	ws.ApiPUT("/system/settings", updateSettings)
}

type settingsResponse struct {
	Store  app.StoreInfo   `json:"store"`
	Notify app.NotifyPrefs `json:"notify"`
}

func getSettings(c echo.Context) error {
	manager := GetSettings(c)
	var resp settingsResponse
	if err := manager.DecodeSection(app.SettingsStore, &resp.Store); err != nil {
		return fail(c, http.StatusInternalServerError, "SETTINGS_ERROR", "Failed to decode store settings", err.Error())
	}
	if err := manager.DecodeSection(app.SettingsNotify, &resp.Notify); err != nil {
		return fail(c, http.StatusInternalServerError, "SETTINGS_ERROR", "Failed to decode notify settings", err.Error())
	}
	return ok(c, resp)
}

type settingsPayload struct {
	Category string            `json:"category" validate:"required,oneof=store notify"`
	Values   map[string]string `json:"values" validate:"required,min=1"`
}

// updateSettings persists one category of settings rows. A successful
// response means the values are durable.
func updateSettings(c echo.Context) error {
	var payload settingsPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse settings", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Settings validation failed", err.Error())
	}

	manager := GetSettings(c)
	for name, value := range payload.Values {
		if err := manager.Set(payload.Category, name, value); err != nil {
			return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to save settings", err.Error())
		}
	}
	audit(c, "settings.update", payload.Category)
	return c.NoContent(http.StatusNoContent)
}
