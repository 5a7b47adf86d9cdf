package seed

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/beesaferoot/gorm-posts/internal/config"
	"github.com/beesaferoot/gorm-posts/internal/database"
	"github.com/beesaferoot/gorm-posts/internal/post"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(&config.Config{
		DatabaseURL:      filepath.Join(t.TempDir(), "seed.db"),
		DBLogLevel:       "silent",
		DBConnectAttempt: 1,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&post.Post{}, &post.Like{}))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func TestRun(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	res, err := Run(ctx, db, Options{Posts: 12, MaxLikes: 4, Seed: 42})
	require.NoError(t, err)
	assert.Len(t, res.Posts, 12)

	var posts, likes int64
	require.NoError(t, db.Model(&post.Post{}).Count(&posts).Error)
	require.NoError(t, db.Model(&post.Like{}).Count(&likes).Error)
	assert.Equal(t, int64(12), posts)
	assert.Equal(t, int64(res.Likes), likes)
	assert.LessOrEqual(t, res.Likes, 12*4)

	list, err := post.NewRepository(db).ListSummaries(ctx)
	require.NoError(t, err)
	require.Len(t, list, 12)
	for i := 1; i < len(list); i++ {
		assert.GreaterOrEqual(t, list[i-1].LikeCount, list[i].LikeCount)
	}
}

func TestRun_Empty(t *testing.T) {
	res, err := Run(context.Background(), setupTestDB(t), Options{})
	require.NoError(t, err)
	assert.Empty(t, res.Posts)
	assert.Zero(t, res.Likes)
}

func TestRun_RejectsNegativeCounts(t *testing.T) {
	_, err := Run(context.Background(), setupTestDB(t), Options{Posts: -1})
	assert.Error(t, err)
}
