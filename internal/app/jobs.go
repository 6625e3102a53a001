package app

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
	"go.uber.org/zap"

	"github.com/openshelf/openshelf/internal/catalog"
	"github.com/openshelf/openshelf/internal/domain"
	"github.com/openshelf/openshelf/internal/notifier"
	"github.com/openshelf/openshelf/pkg/metrics"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// StartJobs wires the background schedule: system and inventory gauges,
// log pruning, and the low-stock mail digest.
func (a *Application) StartJobs(provider *catalog.Provider, mailer *notifier.Mailer) {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	var err error
	_, err = a.sched.AddFunc("@every 30s", func() {
		go a.recordSystemGauges()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@every 5m", func() {
		go a.recordInventoryGauges(provider)
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@every 10m", func() {
		go a.sendLowStockDigest(provider, mailer)
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@daily", func() {
		a.gormDB.
			Where("opt_time < ? ", time.Now().
				Add(-time.Hour*24*365)).Delete(domain.SysOprLog{})
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.sched.Start()
}

func (a *Application) recordSystemGauges() {
	if percents, err := cpu.Percent(time.Second, false); err == nil && len(percents) > 0 {
		_ = metrics.Gauge(metrics.MetricSystemCpuUse, percents[0])
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		_ = metrics.Gauge(metrics.MetricSystemMemUse, vm.UsedPercent)
	}
}

func (a *Application) recordInventoryGauges(provider *catalog.Provider) {
	products, loading := provider.Snapshot()
	if loading {
		return
	}
	stats := catalog.Aggregate(products)
	_ = metrics.Gauge(metrics.MetricProductTotal, float64(stats.TotalProducts))
	_ = metrics.Gauge(metrics.MetricInventoryValue, stats.TotalValue)
	_ = metrics.Gauge(metrics.MetricLowStockTotal, float64(stats.LowStock))
}

func (a *Application) sendLowStockDigest(provider *catalog.Provider, mailer *notifier.Mailer) {
	if mailer == nil || !mailer.Enabled() {
		return
	}
	if !a.settings.GetBool(SettingsNotify, NotifyLowStockEnabled) {
		return
	}
	recipient := a.settings.GetString(SettingsNotify, NotifyLowStockRecipient)
	if recipient == "" {
		recipient = a.settings.GetString(SettingsStore, StoreEmail)
	}
	if recipient == "" {
		return
	}

	products, loading := provider.Snapshot()
	if loading {
		return
	}
	var low []domain.Product
	for _, p := range products {
		if p.Stock < catalog.LowStockThreshold {
			low = append(low, p)
		}
	}
	if len(low) == 0 {
		return
	}
	if err := mailer.LowStockAlert(recipient, low); err != nil {
		zap.L().Error("low stock digest failed", zap.Error(err))
	}
}
