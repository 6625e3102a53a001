package app

import (
	"sync"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/openshelf/openshelf/internal/domain"
)

// Settings categories and keys. Store information and notification
// toggles follow the product write contract: persisted rows, no local
// component state.
const (
	SettingsStore  = "store"
	SettingsNotify = "notify"

	StoreName     = "name"
	StoreEmail    = "email"
	StoreCurrency = "currency"
	StoreAddress  = "address"

	NotifyLowStockEnabled   = "low_stock_enabled"
	NotifyLowStockRecipient = "low_stock_recipient"
	NotifyOrderUpdates      = "order_updates"
)

// StoreInfo is the typed view of the "store" settings category.
type StoreInfo struct {
	Name     string `json:"name" mapstructure:"name"`
	Email    string `json:"email" mapstructure:"email"`
	Currency string `json:"currency" mapstructure:"currency"`
	Address  string `json:"address" mapstructure:"address"`
}

// NotifyPrefs is the typed view of the "notify" settings category.
type NotifyPrefs struct {
	LowStockEnabled   bool   `json:"low_stock_enabled" mapstructure:"low_stock_enabled"`
	LowStockRecipient string `json:"low_stock_recipient" mapstructure:"low_stock_recipient"`
	OrderUpdates      bool   `json:"order_updates" mapstructure:"order_updates"`
}

var settingsDefaults = []domain.Settings{
	{Category: SettingsStore, Name: StoreName, Value: "Openshelf Store", Sort: 1},
	{Category: SettingsStore, Name: StoreEmail, Value: "", Sort: 2},
	{Category: SettingsStore, Name: StoreCurrency, Value: "USD", Sort: 3},
	{Category: SettingsStore, Name: StoreAddress, Value: "", Sort: 4},
	{Category: SettingsNotify, Name: NotifyLowStockEnabled, Value: "false", Sort: 1},
	{Category: SettingsNotify, Name: NotifyLowStockRecipient, Value: "", Sort: 2},
	{Category: SettingsNotify, Name: NotifyOrderUpdates, Value: "false", Sort: 3},
}

// SettingsManager caches sys_settings rows and keeps the cache coherent
// on writes. All reads go through the cache.
type SettingsManager struct {
	db    *gorm.DB
	mu    sync.RWMutex
	cache map[string]string // category/name -> value
}

func NewSettingsManager(db *gorm.DB) *SettingsManager {
	m := &SettingsManager{db: db, cache: make(map[string]string)}
	m.reload()
	return m
}

// SeedDefaults inserts any missing default rows; existing values win.
func (m *SettingsManager) SeedDefaults() {
	for _, row := range settingsDefaults {
		var existing domain.Settings
		err := m.db.Where("category = ? AND name = ?", row.Category, row.Name).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := m.db.Create(&row).Error; err != nil {
				zap.S().Errorf("seed settings %s/%s: %v", row.Category, row.Name, err)
			}
		}
	}
	m.reload()
}

func (m *SettingsManager) reload() {
	var rows []domain.Settings
	if err := m.db.Find(&rows).Error; err != nil {
		zap.S().Errorf("load settings: %v", err)
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache = make(map[string]string, len(rows))
	for _, row := range rows {
		m.cache[row.Category+"/"+row.Name] = row.Value
	}
}

func (m *SettingsManager) GetString(category, name string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cache[category+"/"+name]
}

func (m *SettingsManager) GetInt64(category, name string) int64 {
	return cast.ToInt64(m.GetString(category, name))
}

func (m *SettingsManager) GetBool(category, name string) bool {
	return cast.ToBool(m.GetString(category, name))
}

// Set upserts one settings row and refreshes the cache entry.
func (m *SettingsManager) Set(category, name, value string) error {
	err := m.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "category"}, {Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&domain.Settings{Category: category, Name: name, Value: value}).Error
	if err != nil {
		return errors.Wrapf(err, "set %s/%s", category, name)
	}
	m.mu.Lock()
	m.cache[category+"/"+name] = value
	m.mu.Unlock()
	return nil
}

// Section returns every value of a category as name -> value.
func (m *SettingsManager) Section(category string) map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	section := make(map[string]string)
	prefix := category + "/"
	for key, value := range m.cache {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			section[key[len(prefix):]] = value
		}
	}
	return section
}

// DecodeSection decodes a category into a typed struct via mapstructure
// with weak typing, so "true"/"1" strings land in bool fields.
func (m *SettingsManager) DecodeSection(category string, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(m.Section(category))
}
