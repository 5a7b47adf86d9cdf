// Package migrations holds the versioned schema history of the posts store.
package migrations

import "github.com/beesaferoot/gorm-posts/migration"

// All returns every known migration, oldest first.
func All() []*migration.Migration {
	return migration.Sorted([]*migration.Migration{
		createPosts(),
		createLikes(),
	})
}
