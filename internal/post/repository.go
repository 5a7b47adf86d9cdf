package post

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type Repository interface {
	ListSummaries(ctx context.Context) ([]Summary, error)
	FindByID(ctx context.Context, postID string) (*Post, error)
	Exists(ctx context.Context, postID string) (bool, error)
	Create(ctx context.Context, p *Post) error
	UpdateOwned(ctx context.Context, postID, ownerID string, in UpdateInput) (int64, error)
	DeleteOwned(ctx context.Context, postID, ownerID string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository binds the repository to an open store handle.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}

// ListSummaries returns every post with the number of likes referencing it,
// most liked first.
func (r *repository) ListSummaries(ctx context.Context) ([]Summary, error) {
	out := make([]Summary, 0)
	err := r.db.WithContext(ctx).
		Model(&Post{}).
		Select("posts.post_id, posts.user_id, posts.title, posts.created_at, posts.updated_at, COUNT(likes.id) AS like_count").
		Joins("LEFT JOIN likes ON likes.post_id = posts.post_id").
		Group("posts.post_id, posts.user_id, posts.title, posts.created_at, posts.updated_at").
		Order("like_count DESC").
		Order("posts.created_at DESC").
		Scan(&out).Error
	if err != nil {
		return nil, storageErr("list posts", err)
	}
	return out, nil
}

func (r *repository) FindByID(ctx context.Context, postID string) (*Post, error) {
	var p Post
	err := r.db.WithContext(ctx).
		Select("post_id", "user_id", "title", "content", "created_at", "updated_at").
		Where("post_id = ?", postID).
		Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storageErr("find post", err)
	}
	return &p, nil
}

func (r *repository) Exists(ctx context.Context, postID string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&Post{}).Where("post_id = ?", postID).Count(&n).Error; err != nil {
		return false, storageErr("count post", err)
	}
	return n > 0, nil
}

func (r *repository) Create(ctx context.Context, p *Post) error {
	err := r.db.WithContext(ctx).Create(p).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrConflict
	}
	if err != nil {
		return storageErr("create post", err)
	}
	return nil
}

// UpdateOwned rewrites title and content of the post matching both id and owner.
func (r *repository) UpdateOwned(ctx context.Context, postID, ownerID string, in UpdateInput) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&Post{}).
		Where("post_id = ? AND user_id = ?", postID, ownerID).
		Updates(map[string]any{"title": in.Title, "content": in.Content})
	if res.Error != nil {
		return 0, storageErr("update post", res.Error)
	}
	return res.RowsAffected, nil
}

// DeleteOwned removes the post matching both id and owner; its likes cascade.
func (r *repository) DeleteOwned(ctx context.Context, postID, ownerID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, ownerID).
		Delete(&Post{})
	if res.Error != nil {
		return 0, storageErr("delete post", res.Error)
	}
	return res.RowsAffected, nil
}
