package catalog

import (
	"math/rand"
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/openshelf/openshelf/internal/domain"
)

// LowStockThreshold is the unified stock boundary: a product with
// 0 < stock < LowStockThreshold is low on stock, stock >= threshold is
// in stock, and zero stock is out of stock.
const LowStockThreshold = 10

// Stock states used by buckets and the products filter.
const (
	StockAll   = "all"
	StockIn    = "inStock"
	StockLow   = "lowStock"
	StockOut   = "outOfStock"
)

// StockStateOf classifies a stock count into exactly one bucket.
func StockStateOf(stock int) string {
	switch {
	case stock == 0:
		return StockOut
	case stock < LowStockThreshold:
		return StockLow
	default:
		return StockIn
	}
}

// Stats are the dashboard headline numbers, computed in one pass.
type Stats struct {
	TotalProducts   int     `json:"totalProducts"`
	TotalCategories int     `json:"totalCategories"`
	TotalValue      float64 `json:"totalValue"`
	LowStock        int     `json:"lowStock"`
}

// Aggregate computes Stats over the product list. LowStock counts every
// product under the threshold, zero-stock items included; those need
// restocking attention just the same.
func Aggregate(products []domain.Product) Stats {
	categories := make(map[string]struct{})
	var s Stats
	for _, p := range products {
		categories[p.Category] = struct{}{}
		s.TotalValue += p.Price * float64(p.Stock)
		if p.Stock < LowStockThreshold {
			s.LowStock++
		}
	}
	s.TotalProducts = len(products)
	s.TotalCategories = len(categories)
	return s
}

// CategoryCount is one slice of the category distribution pie.
type CategoryCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// CategoryDistribution groups products by category and sorts descending
// by count, ties broken by name so the order is stable. topN > 0
// truncates the result.
func CategoryDistribution(products []domain.Product, topN int) []CategoryCount {
	counts := make(map[string]int)
	for _, p := range products {
		counts[p.Category]++
	}
	result := make([]CategoryCount, 0, len(counts))
	for name, value := range counts {
		result = append(result, CategoryCount{Name: name, Value: value})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Value != result[j].Value {
			return result[i].Value > result[j].Value
		}
		return result[i].Name < result[j].Name
	})
	if topN > 0 && len(result) > topN {
		result = result[:topN]
	}
	return result
}

// StockBuckets are the three disjoint availability counts.
type StockBuckets struct {
	InStock    int `json:"inStock"`
	LowStock   int `json:"lowStock"`
	OutOfStock int `json:"outOfStock"`
}

// BucketStock classifies every product into exactly one bucket.
func BucketStock(products []domain.Product) StockBuckets {
	var b StockBuckets
	for _, p := range products {
		switch StockStateOf(p.Stock) {
		case StockOut:
			b.OutOfStock++
		case StockLow:
			b.LowStock++
		default:
			b.InStock++
		}
	}
	return b
}

// Recent returns the n most recently created products, newest first.
func Recent(products []domain.Product, n int) []domain.Product {
	sorted := make([]domain.Product, len(products))
	copy(sorted, products)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].CreatedAt != sorted[j].CreatedAt {
			return sorted[i].CreatedAt > sorted[j].CreatedAt
		}
		return sorted[i].ID > sorted[j].ID
	})
	if n > 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// PriceSummary are descriptive statistics over product prices.
type PriceSummary struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// SummarizePrices computes price statistics; an empty list yields zeros.
func SummarizePrices(products []domain.Product) PriceSummary {
	if len(products) == 0 {
		return PriceSummary{}
	}
	prices := make([]float64, len(products))
	for i, p := range products {
		prices[i] = p.Price
	}
	mean, _ := stats.Mean(prices)
	median, _ := stats.Median(prices)
	min, _ := stats.Min(prices)
	max, _ := stats.Max(prices)
	return PriceSummary{Mean: mean, Median: median, Min: min, Max: max}
}

// SalesPoint is one month of the demo sales series.
type SalesPoint struct {
	Name   string `json:"name"`
	Sales  int    `json:"sales"`
	Profit int    `json:"profit"`
}

// MonthlySales generates the placeholder sales/profit series for the
// trailing months, oldest first. There is no sales-record entity
// backing this; it exists so the chart has a shape to render and is
// flagged as demo data by the API.
func MonthlySales(months int) []SalesPoint {
	if months <= 0 {
		months = 12
	}
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	now := time.Now()
	series := make([]SalesPoint, 0, months)
	for i := months - 1; i >= 0; i-- {
		month := now.AddDate(0, -i, 0)
		series = append(series, SalesPoint{
			Name:   month.Format("Jan"),
			Sales:  rnd.Intn(50000) + 10000,
			Profit: rnd.Intn(20000) + 5000,
		})
	}
	return series
}
