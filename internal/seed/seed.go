// Package seed fills a posts store with fake data for local development.
package seed

import (
	"context"
	"fmt"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"

	"github.com/beesaferoot/gorm-posts/internal/post"
)

type Options struct {
	Posts    int
	MaxLikes int
	Users    int
	// Seed makes runs reproducible; zero picks a random seed.
	Seed int64
}

type Result struct {
	Posts []post.Post
	Likes int
}

// Run inserts opts.Posts posts authored by a small pool of fake users, each
// with between zero and opts.MaxLikes likes, in a single transaction.
func Run(ctx context.Context, db *gorm.DB, opts Options) (*Result, error) {
	if opts.Posts < 0 || opts.MaxLikes < 0 {
		return nil, fmt.Errorf("seed: counts must not be negative")
	}
	if opts.Users <= 0 {
		opts.Users = 5
	}
	faker := gofakeit.New(opts.Seed)

	users := make([]string, opts.Users)
	for i := range users {
		users[i] = faker.Username()
	}

	res := &Result{Posts: make([]post.Post, 0, opts.Posts)}
	var likes []post.Like
	for i := 0; i < opts.Posts; i++ {
		p := post.Post{
			PostID:  faker.UUID(),
			UserID:  users[faker.Number(0, len(users)-1)],
			Title:   faker.Sentence(5),
			Content: faker.Paragraph(2, 4, 12, "\n\n"),
		}
		res.Posts = append(res.Posts, p)

		n := faker.Number(0, opts.MaxLikes)
		for j := 0; j < n; j++ {
			likes = append(likes, post.Like{PostID: p.PostID, UserID: users[faker.Number(0, len(users)-1)]})
		}
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(res.Posts) > 0 {
			if err := tx.CreateInBatches(&res.Posts, 100).Error; err != nil {
				return fmt.Errorf("insert posts: %w", err)
			}
		}
		if len(likes) > 0 {
			if err := tx.CreateInBatches(&likes, 500).Error; err != nil {
				return fmt.Errorf("insert likes: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.Likes = len(likes)
	return res, nil
}
