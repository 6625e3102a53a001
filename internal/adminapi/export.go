package adminapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"

	"github.com/openshelf/openshelf/internal/domain"
)

type productExportRow struct {
	ID          string  `csv:"id"`
	Name        string  `csv:"name"`
	Description string  `csv:"description"`
	Price       float64 `csv:"price"`
	Category    string  `csv:"category"`
	Stock       int     `csv:"stock"`
	Image       string  `csv:"image"`
	CreatedAt   string  `csv:"created_at"`
	UpdatedAt   string  `csv:"updated_at"`
}

func exportRows(products []domain.Product) []productExportRow {
	rows := make([]productExportRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, productExportRow{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
			Category:    p.Category,
			Stock:       p.Stock,
			Image:       p.Image,
			CreatedAt:   time.UnixMilli(p.CreatedAt).Format(time.RFC3339),
			UpdatedAt:   time.UnixMilli(p.UpdatedAt).Format(time.RFC3339),
		})
	}
	return rows
}

// exportProducts downloads the current snapshot as csv (default) or xlsx.
func exportProducts(c echo.Context) error {
	products, _ := GetProvider(c).Snapshot()
	rows := exportRows(products)
	stamp := time.Now().Format("20060102")

	switch c.QueryParam("format") {
	case "", "csv":
		resp := c.Response()
		resp.Header().Set(echo.HeaderContentType, "text/csv")
		resp.Header().Set(echo.HeaderContentDisposition,
			fmt.Sprintf(`attachment; filename="products-%s.csv"`, stamp))
		resp.WriteHeader(http.StatusOK)
		return gocsv.Marshal(&rows, resp)
	case "xlsx":
		file := excelize.NewFile()
		headers := []string{"ID", "Name", "Description", "Price", "Category", "Stock", "Image", "Created At", "Updated At"}
		for col, header := range headers {
			file.SetCellValue("Sheet1", fmt.Sprintf("%s1", excelize.ToAlphaString(col)), header)
		}
		for i, row := range rows {
			line := i + 2
			file.SetCellValue("Sheet1", fmt.Sprintf("A%d", line), row.ID)
			file.SetCellValue("Sheet1", fmt.Sprintf("B%d", line), row.Name)
			file.SetCellValue("Sheet1", fmt.Sprintf("C%d", line), row.Description)
			file.SetCellValue("Sheet1", fmt.Sprintf("D%d", line), row.Price)
			file.SetCellValue("Sheet1", fmt.Sprintf("E%d", line), row.Category)
			file.SetCellValue("Sheet1", fmt.Sprintf("F%d", line), row.Stock)
			file.SetCellValue("Sheet1", fmt.Sprintf("G%d", line), row.Image)
			file.SetCellValue("Sheet1", fmt.Sprintf("H%d", line), row.CreatedAt)
			file.SetCellValue("Sheet1", fmt.Sprintf("I%d", line), row.UpdatedAt)
		}
		resp := c.Response()
		resp.Header().Set(echo.HeaderContentType,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		resp.Header().Set(echo.HeaderContentDisposition,
			fmt.Sprintf(`attachment; filename="products-%s.xlsx"`, stamp))
		resp.WriteHeader(http.StatusOK)
		return file.Write(resp)
	default:
		return fail(c, http.StatusBadRequest, "INVALID_FORMAT", "format must be csv or xlsx", c.QueryParam("format"))
	}
}
