package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Migration is a row of the schema_migrations table.
type Migration struct {
	ID        uint      `gorm:"primaryKey"`
	Version   string    `gorm:"uniqueIndex;not null"`
	Name      string    `gorm:"not null"`
	AppliedAt time.Time `gorm:"not null"`
}

func (Migration) TableName() string { return "schema_migrations" }

// MigrationFunc is a function that performs a migration
type MigrationFunc func(*gorm.DB) error

// MigrationEntry represents a single migration
type MigrationEntry struct {
	Version string
	Name    string
	Up      MigrationFunc
}

// Migrator applies versioned migrations, each in its own transaction.
type Migrator struct {
	db         *gorm.DB
	migrations []MigrationEntry
	logger     *zap.Logger
}

// NewMigrator creates a migrator for the given ordered migrations.
func NewMigrator(db *gorm.DB, migrations []MigrationEntry, logger *zap.Logger) *Migrator {
	return &Migrator{
		db:         db,
		migrations: migrations,
		logger:     logger.Named("migrator"),
	}
}

// Migrate runs all pending migrations
func (m *Migrator) Migrate() error {
	pending, err := m.GetPendingMigrations()
	if err != nil {
		return err
	}

	for _, migration := range pending {
		m.logger.Info("running migration",
			zap.String("version", migration.Version),
			zap.String("name", migration.Name),
		)

		err := m.db.Transaction(func(tx *gorm.DB) error {
			if err := migration.Up(tx); err != nil {
				return err
			}
			return tx.Create(&Migration{
				Version:   migration.Version,
				Name:      migration.Name,
				AppliedAt: time.Now().UTC(),
			}).Error
		})
		if err != nil {
			return fmt.Errorf("failed to run migration %s: %w", migration.Version, err)
		}
	}

	if len(pending) == 0 {
		m.logger.Info("schema is up to date")
	}
	return nil
}

// GetPendingMigrations returns the migrations not yet applied, in order.
func (m *Migrator) GetPendingMigrations() ([]MigrationEntry, error) {
	if err := m.db.AutoMigrate(&Migration{}); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	var appliedMigrations []Migration
	if err := m.db.Find(&appliedMigrations).Error; err != nil {
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}

	applied := make(map[string]bool, len(appliedMigrations))
	for _, migration := range appliedMigrations {
		applied[migration.Version] = true
	}

	var pending []MigrationEntry
	for _, migration := range m.migrations {
		if !applied[migration.Version] {
			pending = append(pending, migration)
		}
	}
	return pending, nil
}

// Applied returns the applied migrations ordered by version.
func (m *Migrator) Applied() ([]Migration, error) {
	if err := m.db.AutoMigrate(&Migration{}); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}
	var out []Migration
	if err := m.db.Order("version").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}
	return out, nil
}
