package database_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/narwhalmedia/catalog/pkg/database"
)

type widget struct {
	ID   uint
	Name string
}

func openDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every pooled connection would otherwise get its own empty database
	sqlDB.SetMaxOpenConns(1)
	return db
}

func TestMigrator_AppliesPendingOnce(t *testing.T) {
	db := openDB(t)
	runs := 0
	migrations := []database.MigrationEntry{
		{Version: "001", Name: "widgets", Up: func(tx *gorm.DB) error {
			runs++
			return tx.AutoMigrate(&widget{})
		}},
	}

	m := database.NewMigrator(db, migrations, zaptest.NewLogger(t))
	require.NoError(t, m.Migrate())
	require.NoError(t, m.Migrate())

	assert.Equal(t, 1, runs)
	assert.True(t, db.Migrator().HasTable(&widget{}))

	applied, err := m.Applied()
	require.NoError(t, err)
	require.Len(t, applied, 1)
	assert.Equal(t, "001", applied[0].Version)

	pending, err := m.GetPendingMigrations()
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestMigrator_FailedMigrationIsNotRecorded(t *testing.T) {
	db := openDB(t)
	migrations := []database.MigrationEntry{
		{Version: "001", Name: "broken", Up: func(*gorm.DB) error { return errors.New("boom") }},
	}

	m := database.NewMigrator(db, migrations, zaptest.NewLogger(t))
	err := m.Migrate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "001")
	pending, err := m.GetPendingMigrations()
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}
