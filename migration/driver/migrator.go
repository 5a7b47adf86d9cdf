package driver

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/beesaferoot/gorm-posts/migration"
)

// Migrator handles the execution of migrations
type Migrator struct {
	db         *gorm.DB
	migrations []*migration.Migration
}

// Status pairs a known migration with whether it has been applied
type Status struct {
	Version string
	Name    string
	Applied bool
}

// NewMigrator creates a new Migrator instance
func NewMigrator(db *gorm.DB, migrations ...*migration.Migration) *Migrator {
	return &Migrator{
		db:         db,
		migrations: migration.Sorted(migrations),
	}
}

// Register adds a migration to the migrator
func (m *Migrator) Register(mr *migration.Migration) {
	m.migrations = migration.Sorted(append(m.migrations, mr))
}

// ensureVersionTable creates the version tracking table if it doesn't exist
func (m *Migrator) ensureVersionTable() error {
	return m.db.AutoMigrate(&migration.MigrationRecord{})
}

// GetAppliedVersions returns a map of applied migration versions
func (m *Migrator) GetAppliedVersions() (map[string]bool, error) {
	if err := m.ensureVersionTable(); err != nil {
		return nil, err
	}

	var records []migration.MigrationRecord
	if err := m.db.Find(&records).Error; err != nil {
		return nil, err
	}

	versions := make(map[string]bool)
	for _, record := range records {
		versions[record.Version] = true
	}
	return versions, nil
}

// Pending returns the migrations not yet applied, oldest first
func (m *Migrator) Pending() ([]*migration.Migration, error) {
	if err := migration.Validate(m.migrations); err != nil {
		return nil, err
	}
	applied, err := m.GetAppliedVersions()
	if err != nil {
		return nil, err
	}

	var pending []*migration.Migration
	for _, mr := range m.migrations {
		if !applied[mr.Version] {
			pending = append(pending, mr)
		}
	}
	return pending, nil
}

// Up applies all pending migrations, each in its own transaction, and
// returns the ones it applied
func (m *Migrator) Up() ([]*migration.Migration, error) {
	pending, err := m.Pending()
	if err != nil {
		return nil, err
	}

	for i, mr := range pending {
		err := m.db.Transaction(func(tx *gorm.DB) error {
			if err := mr.Up(tx); err != nil {
				return err
			}
			return tx.Create(&migration.MigrationRecord{
				Version:   mr.Version,
				Name:      mr.Name,
				AppliedAt: time.Now(),
			}).Error
		})
		if err != nil {
			return pending[:i], fmt.Errorf("failed to apply migration %s: %w", mr.Name, err)
		}
	}
	return pending, nil
}

// Down rolls back the last applied migration and returns it, or nil when
// nothing has been applied
func (m *Migrator) Down() (*migration.Migration, error) {
	if err := m.ensureVersionTable(); err != nil {
		return nil, err
	}

	var lastRecord migration.MigrationRecord
	res := m.db.Order("applied_at DESC").Order("version DESC").Limit(1).Find(&lastRecord)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}

	// Find the corresponding migration
	var targetMigration *migration.Migration
	for _, mr := range m.migrations {
		if mr.Version == lastRecord.Version {
			targetMigration = mr
			break
		}
	}
	if targetMigration == nil {
		return nil, fmt.Errorf("migration for version %s not found", lastRecord.Version)
	}

	err := m.db.Transaction(func(tx *gorm.DB) error {
		if err := targetMigration.Down(tx); err != nil {
			return err
		}
		return tx.Delete(&lastRecord).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to revert migration %s: %w", targetMigration.Name, err)
	}
	return targetMigration, nil
}

// Status lists every known migration with its applied state
func (m *Migrator) Status() ([]Status, error) {
	applied, err := m.GetAppliedVersions()
	if err != nil {
		return nil, err
	}
	out := make([]Status, 0, len(m.migrations))
	for _, mr := range m.migrations {
		out = append(out, Status{Version: mr.Version, Name: mr.Name, Applied: applied[mr.Version]})
	}
	return out, nil
}

// History returns the applied migration records, newest first
func (m *Migrator) History() ([]migration.MigrationRecord, error) {
	if err := m.ensureVersionTable(); err != nil {
		return nil, err
	}
	var records []migration.MigrationRecord
	if err := m.db.Order("applied_at DESC").Order("version DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
