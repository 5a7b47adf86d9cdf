package migrations

import (
	"time"

	"gorm.io/gorm"

	"github.com/beesaferoot/gorm-posts/migration"
)

// posts table as of this version; later model changes must not alter it.
type postV1 struct {
	PostID    string `gorm:"primaryKey;size:64"`
	UserID    string `gorm:"size:64;index;not null"`
	Title     string `gorm:"not null"`
	Content   string `gorm:"type:text;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Likes     []likeV1 `gorm:"foreignKey:PostID;references:PostID;constraint:OnDelete:CASCADE"`
}

func (postV1) TableName() string { return "posts" }

func createPosts() *migration.Migration {
	return &migration.Migration{
		Version:   "20240601000001",
		Name:      "create_posts",
		CreatedAt: time.Date(2024, 6, 1, 0, 0, 1, 0, time.UTC),
		Up: func(db *gorm.DB) error {
			return db.Migrator().CreateTable(&postV1{})
		},
		Down: func(db *gorm.DB) error {
			return db.Migrator().DropTable(&postV1{})
		},
	}
}
