package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	gormrepo "github.com/narwhalmedia/catalog/internal/infrastructure/persistence/gorm"
	"github.com/narwhalmedia/catalog/pkg/config"
	"github.com/narwhalmedia/catalog/pkg/database"
)

func main() {
	var (
		status = flag.Bool("status", false, "Show migration status")
		dryRun = flag.Bool("dry-run", false, "Show pending migrations without applying them")
	)
	flag.Parse()

	cfg, err := config.Load(config.DefaultServiceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg.Database.AutoMigrate = false

	logger, err := cfg.Logger.BuildZap()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, cleanup, err := gormrepo.NewDB(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer cleanup()

	migrator := database.NewMigrator(db, gormrepo.Migrations(), logger)
	switch {
	case *status:
		showMigrationStatus(migrator)
	case *dryRun:
		showPendingMigrations(migrator)
	default:
		runMigrations(migrator, logger)
	}
}

// runMigrations applies all pending migrations
func runMigrations(m *database.Migrator, logger *zap.Logger) {
	if err := m.Migrate(); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}
	fmt.Println("Migrations completed successfully!")
}

// showMigrationStatus displays the current migration status
func showMigrationStatus(m *database.Migrator) {
	applied, err := m.Applied()
	if err != nil {
		fail("failed to get migrations", err)
	}

	if len(applied) == 0 {
		fmt.Println("No migrations have been applied yet.")
	} else {
		fmt.Println("Applied migrations:")
		fmt.Println("==================")
		for _, a := range applied {
			fmt.Printf("%s | %s | Applied at: %s\n", a.Version, a.Name, a.AppliedAt.Format("2006-01-02 15:04:05"))
		}
	}

	showPendingMigrations(m)
}

// showPendingMigrations displays migrations that would be applied
func showPendingMigrations(m *database.Migrator) {
	pending, err := m.GetPendingMigrations()
	if err != nil {
		fail("failed to get pending migrations", err)
	}

	if len(pending) == 0 {
		fmt.Println("\nAll migrations are up to date!")
		return
	}

	fmt.Println("\nPending migrations:")
	fmt.Println("==================")
	for _, p := range pending {
		fmt.Printf("%s | %s\n", p.Version, p.Name)
	}
}

func fail(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}
