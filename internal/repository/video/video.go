package video

import (
	"context"

	"github.com/Taichi-iskw/yt-topics/internal/model"
)

// Repository defines operations for Video persistence
type Repository interface {
	// Upsert inserts a video or refreshes its metadata and counters
	Upsert(ctx context.Context, video *model.Video) error

	// UpsertBatch upserts several videos in one transaction
	UpsertBatch(ctx context.Context, videos []*model.Video) error

	// GetByID retrieves a video by its ID
	GetByID(ctx context.Context, id string) (*model.Video, error)

	// GetByChannelID retrieves videos by channel ID, newest first, with pagination
	GetByChannelID(ctx context.Context, channelID string, limit, offset int) ([]*model.Video, error)

	// List retrieves videos, newest first, with pagination
	List(ctx context.Context, limit, offset int) ([]*model.Video, error)

	// Delete deletes a video and its topic segments
	Delete(ctx context.Context, id string) error
}
