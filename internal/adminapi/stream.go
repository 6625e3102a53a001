package adminapi

import (
	"fmt"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"

	"github.com/openshelf/openshelf/internal/catalog"
	"github.com/openshelf/openshelf/internal/webserver"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func registerStreamRoutes(ws *webserver.WebServer) {
	ws.ApiGET("/stream/products", streamProducts)
}

// streamProducts pushes one SSE event per catalog snapshot: the current
// state immediately, then every revision until the client disconnects.
func streamProducts(c echo.Context) error {
	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set(echo.HeaderCacheControl, "no-cache")
	resp.Header().Set(echo.HeaderConnection, "keep-alive")
	resp.WriteHeader(http.StatusOK)

	provider := GetProvider(c)
	ctx := c.Request().Context()
	updates := provider.Watch(ctx)

	send := func(snap catalog.Snapshot) error {
		payload, err := json.Marshal(snap)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(resp, "event: snapshot\ndata: %s\n\n", payload); err != nil {
			return err
		}
		resp.Flush()
		return nil
	}

	products, _ := provider.Snapshot()
	if err := send(catalog.Snapshot{Products: products, Revision: provider.Revision()}); err != nil {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case snap, open := <-updates:
			if !open {
				return nil
			}
			if err := send(snap); err != nil {
				return nil
			}
		}
	}
}
