package adminapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// APIError is the error envelope returned by fail.
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Detail  interface{} `json:"detail,omitempty"`
}

// Response wraps a single payload.
type Response struct {
	Data  interface{} `json:"data,omitempty"`
	Error *APIError   `json:"error,omitempty"`
}

// ListResponse wraps a paginated collection. Loading mirrors the
// catalog provider flag so clients can render a consistent placeholder
// before the first snapshot.
type ListResponse struct {
	Data    interface{} `json:"data"`
	Total   int64       `json:"total"`
	Page    int         `json:"page"`
	PerPage int         `json:"perPage"`
	Loading bool        `json:"loading"`
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{Data: data})
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	return c.JSON(status, Response{Error: &APIError{Code: code, Message: message, Detail: detail}})
}

func paged(c echo.Context, data interface{}, total int64, page, perPage int, loading bool) error {
	return c.JSON(http.StatusOK, ListResponse{
		Data:    data,
		Total:   total,
		Page:    page,
		PerPage: perPage,
		Loading: loading,
	})
}

// parsePagination reads page/perPage query parameters, defaulting to
// page 1 and perPage 20, capped at 500.
func parsePagination(c echo.Context) (page, perPage int) {
	page = 1
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	perPage = 20
	if ps, err := strconv.Atoi(c.QueryParam("perPage")); err == nil && ps > 0 && ps <= 500 {
		perPage = ps
	}
	return page, perPage
}
