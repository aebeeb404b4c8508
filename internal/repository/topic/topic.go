package topic

import (
	"context"

	"github.com/Taichi-iskw/yt-topics/internal/model"
)

// Repository defines operations for topic segment persistence
type Repository interface {
	// ReplaceForVideo swaps the stored segments of a video for the given ones
	ReplaceForVideo(ctx context.Context, videoID string, segments []model.TopicSegment) error

	// GetByVideoID retrieves segments of a video ordered by segment_index
	GetByVideoID(ctx context.Context, videoID string) ([]model.TopicSegment, error)

	// DeleteByVideoID removes all segments of a video
	DeleteByVideoID(ctx context.Context, videoID string) error
}
