package topic

import (
	"context"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/Taichi-iskw/yt-topics/internal/errors"
	"github.com/Taichi-iskw/yt-topics/internal/model"
	"github.com/Taichi-iskw/yt-topics/internal/repository/common"
)

var copyColumns = []string{
	"video_id", "segment_index", "topic", "summary",
	"original_start", "original_end", "duration", "new_start", "new_end",
}

// repository implements Repository using PostgreSQL
type repository struct {
	pool common.Pool
}

// NewRepository creates a new instance of Repository
func NewRepository(pool common.Pool) Repository {
	return &repository{
		pool: pool,
	}
}

// ReplaceForVideo deletes the existing segments and inserts the new ones with
// COPY FROM inside one transaction. Segment indexes follow slice order.
func (r *repository) ReplaceForVideo(ctx context.Context, videoID string, segments []model.TopicSegment) error {
	if videoID == "" {
		return apperrors.New(apperrors.CodeInvalidArg, "video ID is required")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return common.HandlePostgreSQLError(err, "failed to begin transaction")
	}

	if _, err := tx.Exec(ctx, "DELETE FROM topic_segments WHERE video_id = $1", videoID); err != nil {
		_ = tx.Rollback(ctx)
		return common.HandlePostgreSQLError(err, "failed to delete topic segments")
	}

	if len(segments) > 0 {
		rows := make([][]any, len(segments))
		for i, seg := range segments {
			rows[i] = []any{
				videoID,
				i,
				seg.Topic,
				seg.Summary,
				seg.OriginalStart,
				seg.OriginalEnd,
				seg.Duration,
				seg.NewStart,
				seg.NewEnd,
			}
		}

		if _, err := tx.CopyFrom(ctx, pgx.Identifier{"topic_segments"}, copyColumns, pgx.CopyFromRows(rows)); err != nil {
			_ = tx.Rollback(ctx)
			return common.HandlePostgreSQLError(err, "failed to create topic segments")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return common.HandlePostgreSQLError(err, "failed to commit topic segments")
	}
	return nil
}

// GetByVideoID retrieves all segments for a video, ordered by segment_index
func (r *repository) GetByVideoID(ctx context.Context, videoID string) ([]model.TopicSegment, error) {
	sql := `SELECT id, video_id, segment_index, topic, summary,
		original_start, original_end, duration, new_start, new_end
		FROM topic_segments
		WHERE video_id = $1
		ORDER BY segment_index`

	rows, err := r.pool.Query(ctx, sql, videoID)
	if err != nil {
		return nil, common.HandlePostgreSQLError(err, "failed to get topic segments")
	}
	defer rows.Close()

	var segments []model.TopicSegment
	for rows.Next() {
		var seg model.TopicSegment
		err := rows.Scan(
			&seg.ID,
			&seg.VideoID,
			&seg.SegmentIndex,
			&seg.Topic,
			&seg.Summary,
			&seg.OriginalStart,
			&seg.OriginalEnd,
			&seg.Duration,
			&seg.NewStart,
			&seg.NewEnd,
		)
		if err != nil {
			return nil, common.HandlePostgreSQLError(err, "failed to scan topic segment")
		}
		segments = append(segments, seg)
	}

	if err := rows.Err(); err != nil {
		return nil, common.HandlePostgreSQLError(err, "failed to iterate topic segments")
	}

	return segments, nil
}

// DeleteByVideoID deletes all segments for a video
func (r *repository) DeleteByVideoID(ctx context.Context, videoID string) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM topic_segments WHERE video_id = $1", videoID)
	if err != nil {
		return common.HandlePostgreSQLError(err, "failed to delete topic segments")
	}
	return nil
}
