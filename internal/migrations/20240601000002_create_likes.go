package migrations

import (
	"time"

	"gorm.io/gorm"

	"github.com/beesaferoot/gorm-posts/migration"
)

type likeV1 struct {
	ID        uint   `gorm:"primaryKey"`
	PostID    string `gorm:"size:64;index;not null"`
	UserID    string `gorm:"size:64;index"`
	CreatedAt time.Time
}

func (likeV1) TableName() string { return "likes" }

func createLikes() *migration.Migration {
	return &migration.Migration{
		Version:   "20240601000002",
		Name:      "create_likes",
		CreatedAt: time.Date(2024, 6, 1, 0, 0, 2, 0, time.UTC),
		Up: func(db *gorm.DB) error {
			// the likes.post_id constraint is declared on postV1.Likes; parsing
			// postV1 attaches it to the cached likeV1 schema
			if err := (&gorm.Statement{DB: db}).Parse(&postV1{}); err != nil {
				return err
			}
			return db.Migrator().CreateTable(&likeV1{})
		},
		Down: func(db *gorm.DB) error {
			return db.Migrator().DropTable(&likeV1{})
		},
	}
}
