package post

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_CreateThenGet(t *testing.T) {
	svc := NewService(NewRepository(setupTestDB(t)))
	ctx := context.Background()

	created, err := svc.Create(ctx, "alice", CreateInput{PostID: "P1", Title: "Hello", Content: "first post"})
	require.NoError(t, err)
	assert.Equal(t, "alice", created.UserID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := svc.Get(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, "first post", got.Content)
	assert.Equal(t, "Hello", got.Title)
	assert.Equal(t, "alice", got.UserID)
}

func TestService_Create_Validation(t *testing.T) {
	svc := NewService(NewRepository(setupTestDB(t)))
	ctx := context.Background()

	cases := map[string]CreateInput{
		"missing id":      {Title: "t", Content: "c"},
		"missing title":   {PostID: "p", Content: "c"},
		"blank content":   {PostID: "p", Title: "t", Content: "   "},
		"everything gone": {},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(ctx, "alice", in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	_, err := svc.Create(ctx, "", CreateInput{PostID: "p", Title: "t", Content: "c"})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestService_Create_Duplicate(t *testing.T) {
	svc := NewService(NewRepository(setupTestDB(t)))
	ctx := context.Background()

	_, err := svc.Create(ctx, "alice", CreateInput{PostID: "P1", Title: "t", Content: "c"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, "bob", CreateInput{PostID: "P1", Title: "other", Content: "other"})
	assert.ErrorIs(t, err, ErrConflict)

	got, err := svc.Get(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.UserID)
}

func TestService_UpdateAndDelete_Ownership(t *testing.T) {
	svc := NewService(NewRepository(setupTestDB(t)))
	ctx := context.Background()

	_, err := svc.Create(ctx, "alice", CreateInput{PostID: "P1", Title: "t", Content: "c"})
	require.NoError(t, err)

	err = svc.Update(ctx, "mallory", "P1", UpdateInput{Title: "hacked", Content: "hacked"})
	assert.ErrorIs(t, err, ErrForbidden)

	err = svc.Delete(ctx, "mallory", "P1")
	assert.ErrorIs(t, err, ErrForbidden)

	got, err := svc.Get(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, "t", got.Title)
	assert.Equal(t, "c", got.Content)

	require.NoError(t, svc.Update(ctx, "alice", "P1", UpdateInput{Title: "t2", Content: "c2"}))
	got, err = svc.Get(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, "c2", got.Content)

	require.NoError(t, svc.Delete(ctx, "alice", "P1"))
	_, err = svc.Get(ctx, "P1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_MissingPost(t *testing.T) {
	svc := NewService(NewRepository(setupTestDB(t)))
	ctx := context.Background()

	assert.ErrorIs(t, svc.Delete(ctx, "alice", "nope"), ErrNotFound)
	assert.ErrorIs(t, svc.Update(ctx, "alice", "nope", UpdateInput{Title: "t", Content: "c"}), ErrNotFound)

	_, err := svc.Get(ctx, " ")
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestService_Update_Validation(t *testing.T) {
	svc := NewService(NewRepository(setupTestDB(t)))
	ctx := context.Background()

	// nothing to update yet: missing wins over a bad body
	err := svc.Update(ctx, "alice", "P1", UpdateInput{Title: "only title"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Create(ctx, "alice", CreateInput{PostID: "P1", Title: "t", Content: "c"})
	require.NoError(t, err)

	err = svc.Update(ctx, "alice", "P1", UpdateInput{Title: "only title"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = svc.Update(ctx, "mallory", "P1", UpdateInput{Title: "only title"})
	assert.ErrorIs(t, err, ErrForbidden)
}

// racingRepo reports the post as present but loses it before the guarded write.
type racingRepo struct {
	Repository
	owner string
	err   error
}

func (r *racingRepo) FindByID(ctx context.Context, postID string) (*Post, error) {
	if r.err != nil {
		return nil, r.err
	}
	return &Post{PostID: postID, UserID: r.owner}, nil
}

func (r *racingRepo) UpdateOwned(ctx context.Context, postID, ownerID string, in UpdateInput) (int64, error) {
	return 0, nil
}

func (r *racingRepo) DeleteOwned(ctx context.Context, postID, ownerID string) (int64, error) {
	return 0, nil
}

func TestService_VanishedBetweenCheckAndWrite(t *testing.T) {
	svc := NewService(&racingRepo{owner: "alice"})
	ctx := context.Background()

	assert.ErrorIs(t, svc.Update(ctx, "alice", "P1", UpdateInput{Title: "t", Content: "c"}), ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "alice", "P1"), ErrNotFound)
}

func TestService_PropagatesStorageErrors(t *testing.T) {
	fault := errors.Join(ErrStorage, errors.New("disk full"))
	svc := NewService(&racingRepo{err: fault})

	err := svc.Delete(context.Background(), "alice", "P1")
	assert.ErrorIs(t, err, ErrStorage)
}
