package app

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/openshelf/openshelf/internal/domain"
)

func newTestSettings(t *testing.T) *SettingsManager {
	t.Helper()
	dbfile := filepath.Join(t.TempDir(), "settings.db")
	db, err := gorm.Open(sqlite.Open(dbfile), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Tables...))

	manager := NewSettingsManager(db)
	manager.SeedDefaults()
	return manager
}

func TestSettingsDefaults(t *testing.T) {
	manager := newTestSettings(t)

	assert.Equal(t, "Openshelf Store", manager.GetString(SettingsStore, StoreName))
	assert.Equal(t, "USD", manager.GetString(SettingsStore, StoreCurrency))
	assert.False(t, manager.GetBool(SettingsNotify, NotifyLowStockEnabled))
}

func TestSettingsSetPersists(t *testing.T) {
	manager := newTestSettings(t)

	require.NoError(t, manager.Set(SettingsStore, StoreName, "Corner Shop"))
	assert.Equal(t, "Corner Shop", manager.GetString(SettingsStore, StoreName))

	// survive a fresh manager over the same database
	fresh := NewSettingsManager(manager.db)
	assert.Equal(t, "Corner Shop", fresh.GetString(SettingsStore, StoreName))
}

func TestSettingsSeedDoesNotClobber(t *testing.T) {
	manager := newTestSettings(t)

	require.NoError(t, manager.Set(SettingsStore, StoreName, "Kept"))
	manager.SeedDefaults()
	assert.Equal(t, "Kept", manager.GetString(SettingsStore, StoreName))
}

func TestSettingsDecodeSection(t *testing.T) {
	manager := newTestSettings(t)

	require.NoError(t, manager.Set(SettingsNotify, NotifyLowStockEnabled, "true"))
	require.NoError(t, manager.Set(SettingsNotify, NotifyLowStockRecipient, "ops@example.com"))

	var prefs NotifyPrefs
	require.NoError(t, manager.DecodeSection(SettingsNotify, &prefs))
	assert.True(t, prefs.LowStockEnabled)
	assert.Equal(t, "ops@example.com", prefs.LowStockRecipient)
	assert.False(t, prefs.OrderUpdates)
}

func TestSettingsSection(t *testing.T) {
	manager := newTestSettings(t)
	section := manager.Section(SettingsStore)
	assert.Contains(t, section, StoreName)
	assert.NotContains(t, section, NotifyLowStockEnabled)
}
