// Package metrics keeps local gauge time series in an embedded tstorage
// partition under the application workdir.
package metrics

import (
	"path/filepath"
	"time"

	"github.com/nakabonne/tstorage"
	"github.com/pkg/errors"
)

// Gauge metric names recorded by the background jobs.
const (
	MetricProductTotal   = "catalog_product_total"
	MetricInventoryValue = "catalog_inventory_value"
	MetricLowStockTotal  = "catalog_low_stock_total"
	MetricSystemCpuUse   = "system_cpu_use"
	MetricSystemMemUse   = "system_mem_use"
)

type DataPoint struct {
	Timestamp int64   `json:"timestamp"`
	Value     float64 `json:"value"`
}

var store tstorage.Storage

// InitMetrics opens the metrics partition under workdir.
func InitMetrics(workdir string) error {
	var err error
	store, err = tstorage.NewStorage(
		tstorage.WithDataPath(filepath.Join(workdir, "metrics")),
		tstorage.WithTimestampPrecision(tstorage.Seconds),
		tstorage.WithRetention(90*24*time.Hour),
	)
	return err
}

// Gauge records a single observation for metric at the current time.
func Gauge(metric string, value float64) error {
	if store == nil {
		return errors.New("metrics storage not initialized")
	}
	return store.InsertRows([]tstorage.Row{
		{
			Metric:    metric,
			DataPoint: tstorage.DataPoint{Timestamp: time.Now().Unix(), Value: value},
		},
	})
}

// Range returns the recorded points for metric between start and end
// (unix seconds). A missing metric yields an empty series, not an error.
func Range(metric string, start, end int64) ([]DataPoint, error) {
	if store == nil {
		return nil, errors.New("metrics storage not initialized")
	}
	points, err := store.Select(metric, nil, start, end)
	if err != nil {
		if errors.Is(err, tstorage.ErrNoDataPoints) {
			return []DataPoint{}, nil
		}
		return nil, errors.Wrapf(err, "select %s", metric)
	}
	result := make([]DataPoint, 0, len(points))
	for _, p := range points {
		result = append(result, DataPoint{Timestamp: p.Timestamp, Value: p.Value})
	}
	return result, nil
}

// Close flushes and closes the metrics partition.
func Close() error {
	if store == nil {
		return nil
	}
	err := store.Close()
	store = nil
	return err
}
