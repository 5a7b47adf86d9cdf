package migration

import (
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"
)

// Migration represents a single versioned schema change
type Migration struct {
	Version   string // Unique version identifier (e.g., timestamp)
	Name      string // Human-readable name of the migration
	CreatedAt time.Time
	Up        func(*gorm.DB) error
	Down      func(*gorm.DB) error
}

// MigrationRecord represents a record of an applied migration
type MigrationRecord struct {
	Version   string    `gorm:"primaryKey"`
	Name      string    `gorm:"not null"`
	AppliedAt time.Time `gorm:"not null"`
}

func (MigrationRecord) TableName() string {
	return "schema_migrations"
}

// Validate checks that every migration is complete and that versions are unique.
func Validate(migrations []*Migration) error {
	seen := make(map[string]string, len(migrations))
	for _, m := range migrations {
		if m.Version == "" {
			return fmt.Errorf("migration %q has no version", m.Name)
		}
		if m.Up == nil || m.Down == nil {
			return fmt.Errorf("migration %s (%s) must define both Up and Down", m.Version, m.Name)
		}
		if prev, ok := seen[m.Version]; ok {
			return fmt.Errorf("duplicate migration version %s: %s and %s", m.Version, prev, m.Name)
		}
		seen[m.Version] = m.Name
	}
	return nil
}

// Sorted returns the migrations ordered by version.
func Sorted(migrations []*Migration) []*Migration {
	out := make([]*Migration, len(migrations))
	copy(out, migrations)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out
}

// ModelRegistry - exposes the gorm models a service persists
type ModelRegistry interface {
	GetModels() map[string]interface{}
}

// ValidateRegistry checks that a registry was provided and is not empty
func ValidateRegistry(r ModelRegistry) error {
	if r == nil {
		return fmt.Errorf("no model registry provided")
	}
	if len(r.GetModels()) == 0 {
		return fmt.Errorf("model registry is empty")
	}
	return nil
}
