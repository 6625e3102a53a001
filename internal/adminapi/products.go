package adminapi

import (
	"net/http"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/openshelf/openshelf/internal/catalog"
	"github.com/openshelf/openshelf/internal/domain"
	"github.com/openshelf/openshelf/internal/webserver"
)

type productPayload struct {
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	Description string  `json:"description" validate:"max=4000"`
	Price       float64 `json:"price" validate:"gte=0"`
	Category    string  `json:"category" validate:"required"`
	Stock       int     `json:"stock" validate:"gte=0"`
	Image       string  `json:"image" validate:"omitempty,max=1024"`
}

// registerProductRoutes registers product CRUD and export endpoints
func registerProductRoutes(ws *webserver.WebServer) {
	ws.ApiGET("/crm/products", listProducts)
	ws.ApiGET("/crm/products/export", exportProducts)
	ws.ApiGET("/crm/products/:id", getProduct)
	ws.ApiPOST("/crm/products", createProduct)
	ws.ApiPUT("/crm/products/:id", updateProduct)
	ws.ApiDELETE("/crm/products/:id", deleteProduct)
}

// productQuery builds the snapshot filter from query parameters. All
// filtering runs over the live snapshot, not the database, mirroring
// the full-collection retrieval model.
func productQuery(c echo.Context, products []domain.Product) catalog.Query {
	q := catalog.Query{
		Search:     strings.TrimSpace(c.QueryParam("q")),
		Category:   strings.TrimSpace(c.QueryParam("category")),
		PriceMin:   cast.ToFloat64(c.QueryParam("priceMin")),
		PriceMax:   cast.ToFloat64(c.QueryParam("priceMax")),
		StockState: strings.TrimSpace(c.QueryParam("stock")),
	}
	if q.PriceMax > 0 {
		// the upper bound only ratchets upward, never below observed prices
		q.PriceMax = catalog.ClampPriceBound(products, q.PriceMax)
	}
	return q
}

func sortProducts(products []domain.Product, field, order string) {
	desc := strings.EqualFold(order, "DESC")
	less := func(i, j int) bool { return products[i].ID < products[j].ID }
	switch field {
	case "name":
		less = func(i, j int) bool { return products[i].Name < products[j].Name }
	case "price":
		less = func(i, j int) bool { return products[i].Price < products[j].Price }
	case "stock":
		less = func(i, j int) bool { return products[i].Stock < products[j].Stock }
	case "created_at":
		less = func(i, j int) bool { return products[i].CreatedAt < products[j].CreatedAt }
	case "updated_at":
		less = func(i, j int) bool { return products[i].UpdatedAt < products[j].UpdatedAt }
	}
	if desc {
		inner := less
		less = func(i, j int) bool { return inner(j, i) }
	}
	sort.SliceStable(products, less)
}

func listProducts(c echo.Context) error {
	products, loading := GetProvider(c).Snapshot()

	filtered := catalog.Filter(products, productQuery(c, products))

	sortField := strings.TrimSpace(c.QueryParam("sort"))
	if sortField != "" {
		sortProducts(filtered, sortField, c.QueryParam("order"))
	}

	page, perPage := parsePagination(c)
	total := int64(len(filtered))
	start := (page - 1) * perPage
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + perPage
	if end > len(filtered) {
		end = len(filtered)
	}

	return paged(c, filtered[start:end], total, page, perPage, loading)
}

func getProduct(c echo.Context) error {
	p, err := getDeps(c).Provider.Repo().Get(c.Request().Context(), c.Param("id"))
	if errors.Is(err, catalog.ErrNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
	}
	return ok(c, p)
}

func bindProductPayload(c echo.Context) (*productPayload, error) {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return nil, fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return nil, fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Product validation failed", err.Error())
	}
	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Name == "" {
		return nil, fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Name is required", nil)
	}
	if !domain.ValidCategory(payload.Category) {
		return nil, fail(c, http.StatusBadRequest, "INVALID_CATEGORY", "Unknown product category", payload.Category)
	}
	return &payload, nil
}

func (p *productPayload) form() catalog.ProductForm {
	return catalog.ProductForm{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		Stock:       p.Stock,
		Image:       p.Image,
	}
}

// createProduct accepts the write and answers without the new entity;
// the caller sees the product once the next snapshot lands.
func createProduct(c echo.Context) error {
	payload, errResp := bindProductPayload(c)
	if payload == nil {
		return errResp
	}
	if err := GetProvider(c).AddProduct(c.Request().Context(), payload.form()); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create product", err.Error())
	}
	audit(c, "product.create", payload.Name)
	return c.NoContent(http.StatusNoContent)
}

func updateProduct(c echo.Context) error {
	payload, errResp := bindProductPayload(c)
	if payload == nil {
		return errResp
	}
	id := c.Param("id")
	err := GetProvider(c).UpdateProduct(c.Request().Context(), id, payload.form())
	if errors.Is(err, catalog.ErrNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update product", err.Error())
	}
	audit(c, "product.update", id)
	return c.NoContent(http.StatusNoContent)
}

func deleteProduct(c echo.Context) error {
	id := c.Param("id")
	if err := GetProvider(c).DeleteProduct(c.Request().Context(), id); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete product", err.Error())
	}
	audit(c, "product.delete", id)
	return c.NoContent(http.StatusNoContent)
}
