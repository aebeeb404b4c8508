//go:build integration

package topic

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Taichi-iskw/yt-topics/internal/errors"
	"github.com/Taichi-iskw/yt-topics/internal/model"
	"github.com/Taichi-iskw/yt-topics/internal/repository/common"
	"github.com/Taichi-iskw/yt-topics/internal/repository/video"
)

// TestTopicRepository_Integration tests the topic repository with real PostgreSQL
func TestTopicRepository_Integration(t *testing.T) {
	pool := common.SetupTestDB(t)

	videoRepo := video.NewRepository(pool)
	repo := NewRepository(pool)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	v := &model.Video{
		ID:        "abc123",
		ChannelID: "UC123456789",
		Title:     "Math Basics",
		URL:       "https://www.youtube.com/watch?v=abc123",
	}
	require.NoError(t, videoRepo.Upsert(ctx, v))

	t.Run("ReplaceForVideo and GetByVideoID", func(t *testing.T) {
		require.NoError(t, repo.ReplaceForVideo(ctx, v.ID, testSegments()))

		segments, err := repo.GetByVideoID(ctx, v.ID)
		require.NoError(t, err)
		require.Len(t, segments, 2)
		assert.Equal(t, "Fractions", segments[0].Topic)
		assert.Equal(t, 1, segments[1].SegmentIndex)
		assert.Equal(t, segments[0].NewEnd, segments[1].NewStart)
	})

	t.Run("replacing again keeps only the new set", func(t *testing.T) {
		require.NoError(t, repo.ReplaceForVideo(ctx, v.ID, testSegments()[:1]))

		segments, err := repo.GetByVideoID(ctx, v.ID)
		require.NoError(t, err)
		assert.Len(t, segments, 1)
	})

	t.Run("unknown video is a dependency error", func(t *testing.T) {
		err := repo.ReplaceForVideo(ctx, "nope", testSegments())
		assert.True(t, apperrors.HasCode(err, apperrors.CodeDependency), "got %v", err)
	})

	t.Run("deleting the video cascades", func(t *testing.T) {
		require.NoError(t, videoRepo.Delete(ctx, v.ID))

		segments, err := repo.GetByVideoID(ctx, v.ID)
		require.NoError(t, err)
		assert.Empty(t, segments)
	})
}
