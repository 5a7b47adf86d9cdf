package commands

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/beesaferoot/gorm-posts/internal/config"
	"github.com/beesaferoot/gorm-posts/internal/database"
	"github.com/beesaferoot/gorm-posts/internal/migrations"
	"github.com/beesaferoot/gorm-posts/migration/driver"
)

func getDB() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	db, err := database.Open(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return cfg, db, nil
}

func getMigrator(db *gorm.DB) *driver.Migrator {
	return driver.NewMigrator(db, migrations.All()...)
}
