package post

import (
	"context"
	"fmt"
	"strings"
)

// Service is the post CRUD contract the HTTP layer depends on.
type Service interface {
	List(ctx context.Context) ([]Summary, error)
	Get(ctx context.Context, postID string) (*Post, error)
	Create(ctx context.Context, ownerID string, in CreateInput) (*Post, error)
	Update(ctx context.Context, ownerID, postID string, in UpdateInput) error
	Delete(ctx context.Context, ownerID, postID string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context) ([]Summary, error) {
	return s.repo.ListSummaries(ctx)
}

func (s *service) Get(ctx context.Context, postID string) (*Post, error) {
	if blank(postID) {
		return nil, ErrNotFound
	}
	return s.repo.FindByID(ctx, postID)
}

func (s *service) Create(ctx context.Context, ownerID string, in CreateInput) (*Post, error) {
	if blank(ownerID) {
		return nil, ErrForbidden
	}
	if blank(in.PostID) || blank(in.Title) || blank(in.Content) {
		return nil, fmt.Errorf("%w: postId, title and content are required", ErrInvalidInput)
	}

	exists, err := s.repo.Exists(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrConflict
	}

	p := &Post{
		PostID:  in.PostID,
		UserID:  ownerID,
		Title:   in.Title,
		Content: in.Content,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update checks existence and ownership before the body, so a missing post is
// ErrNotFound whatever was sent.
func (s *service) Update(ctx context.Context, ownerID, postID string, in UpdateInput) error {
	if err := s.authorize(ctx, ownerID, postID); err != nil {
		return err
	}
	if blank(in.Title) || blank(in.Content) {
		return fmt.Errorf("%w: title and content are required", ErrInvalidInput)
	}

	n, err := s.repo.UpdateOwned(ctx, postID, ownerID, in)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *service) Delete(ctx context.Context, ownerID, postID string) error {
	if err := s.authorize(ctx, ownerID, postID); err != nil {
		return err
	}

	n, err := s.repo.DeleteOwned(ctx, postID, ownerID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// authorize loads the post and checks that the caller owns it.
func (s *service) authorize(ctx context.Context, ownerID, postID string) error {
	p, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return err
	}
	if blank(ownerID) || p.UserID != ownerID {
		return ErrForbidden
	}
	return nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
