//go:build integration

package video

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Taichi-iskw/yt-topics/internal/errors"
	"github.com/Taichi-iskw/yt-topics/internal/model"
	"github.com/Taichi-iskw/yt-topics/internal/repository/common"
)

// TestVideoRepository_Integration tests the video repository with real PostgreSQL
func TestVideoRepository_Integration(t *testing.T) {
	pool := common.SetupTestDB(t)
	repo := NewRepository(pool)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	video := testVideo()

	t.Run("Upsert and GetByID", func(t *testing.T) {
		require.NoError(t, repo.Upsert(ctx, video))

		got, err := repo.GetByID(ctx, video.ID)
		require.NoError(t, err)
		assert.Equal(t, video.Title, got.Title)
		assert.Equal(t, video.ViewCount, got.ViewCount)
		require.NotNil(t, got.PublishedAt)
		assert.True(t, video.PublishedAt.Equal(*got.PublishedAt))
	})

	t.Run("Upsert refreshes counters and keeps transcript", func(t *testing.T) {
		refreshed := *video
		refreshed.ViewCount = 2000
		refreshed.Transcript = ""
		require.NoError(t, repo.Upsert(ctx, &refreshed))

		got, err := repo.GetByID(ctx, video.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2000), got.ViewCount)
		assert.Equal(t, video.Transcript, got.Transcript)
	})

	t.Run("UpsertBatch and GetByChannelID", func(t *testing.T) {
		older := testVideo()
		older.ID = "oHg5SJYRHA0"
		olderDate := video.PublishedAt.AddDate(0, -1, 0)
		older.PublishedAt = &olderDate

		require.NoError(t, repo.UpsertBatch(ctx, []*model.Video{older, video}))

		videos, err := repo.GetByChannelID(ctx, video.ChannelID, 10, 0)
		require.NoError(t, err)
		require.Len(t, videos, 2)
		assert.Equal(t, video.ID, videos[0].ID)
		assert.Equal(t, older.ID, videos[1].ID)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, video.ID))

		_, err := repo.GetByID(ctx, video.ID)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
	})
}
