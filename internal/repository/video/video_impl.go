package video

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/Taichi-iskw/yt-topics/internal/errors"
	"github.com/Taichi-iskw/yt-topics/internal/model"
	"github.com/Taichi-iskw/yt-topics/internal/repository/common"
)

const (
	selectColumns = "id, channel_id, title, url, duration, published_at, view_count, like_count, comment_count, transcript"

	upsertSQL = `INSERT INTO videos (id, channel_id, title, url, duration, published_at, view_count, like_count, comment_count, transcript)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			channel_id = EXCLUDED.channel_id,
			title = EXCLUDED.title,
			url = EXCLUDED.url,
			duration = EXCLUDED.duration,
			published_at = COALESCE(EXCLUDED.published_at, videos.published_at),
			view_count = EXCLUDED.view_count,
			like_count = EXCLUDED.like_count,
			comment_count = EXCLUDED.comment_count,
			transcript = CASE WHEN EXCLUDED.transcript = '' THEN videos.transcript ELSE EXCLUDED.transcript END,
			updated_at = NOW()`
)

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

func upsertArgs(video *model.Video) []any {
	return []any{
		video.ID,
		video.ChannelID,
		video.Title,
		video.URL,
		video.Duration,
		video.PublishedAt,
		video.ViewCount,
		video.LikeCount,
		video.CommentCount,
		video.Transcript,
	}
}

// Upsert inserts a video or updates it when the ID already exists.
// An empty transcript or published date does not overwrite a stored one.
func (r *repository) Upsert(ctx context.Context, video *model.Video) error {
	if video.ID == "" {
		return apperrors.New(apperrors.CodeInvalidArg, "video ID is required")
	}
	if _, err := r.pool.Exec(ctx, upsertSQL, upsertArgs(video)...); err != nil {
		return common.HandlePostgreSQLError(err, "failed to upsert video")
	}
	return nil
}

// UpsertBatch upserts all videos in a single transaction
func (r *repository) UpsertBatch(ctx context.Context, videos []*model.Video) error {
	if len(videos) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return common.HandlePostgreSQLError(err, "failed to begin transaction")
	}

	for _, video := range videos {
		if _, err := tx.Exec(ctx, upsertSQL, upsertArgs(video)...); err != nil {
			_ = tx.Rollback(ctx)
			return common.HandlePostgreSQLError(err, "failed to upsert video "+video.ID)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return common.HandlePostgreSQLError(err, "failed to commit videos")
	}
	return nil
}

// GetByID retrieves a video by its ID
func (r *repository) GetByID(ctx context.Context, id string) (*model.Video, error) {
	sql := "SELECT " + selectColumns + " FROM videos WHERE id = $1"
	row := r.pool.QueryRow(ctx, sql, id)

	video, err := scanVideo(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.Wrap(err, apperrors.CodeNotFound, "video not found")
		}
		return nil, common.HandlePostgreSQLError(err, "failed to get video")
	}

	return video, nil
}

// GetByChannelID retrieves videos by channel ID with pagination
func (r *repository) GetByChannelID(ctx context.Context, channelID string, limit, offset int) ([]*model.Video, error) {
	sql := "SELECT " + selectColumns + " FROM videos WHERE channel_id = $1 ORDER BY published_at DESC NULLS LAST, id LIMIT $2 OFFSET $3"
	rows, err := r.pool.Query(ctx, sql, channelID, limit, offset)
	if err != nil {
		return nil, common.HandlePostgreSQLError(err, "failed to get videos by channel ID")
	}
	return collectVideos(rows)
}

// List retrieves videos with pagination
func (r *repository) List(ctx context.Context, limit, offset int) ([]*model.Video, error) {
	sql := "SELECT " + selectColumns + " FROM videos ORDER BY published_at DESC NULLS LAST, id LIMIT $1 OFFSET $2"
	rows, err := r.pool.Query(ctx, sql, limit, offset)
	if err != nil {
		return nil, common.HandlePostgreSQLError(err, "failed to list videos")
	}
	return collectVideos(rows)
}

// Delete deletes a video by its ID
func (r *repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM videos WHERE id = $1", id)
	if err != nil {
		return common.HandlePostgreSQLError(err, "failed to delete video")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.New(apperrors.CodeNotFound, "video not found")
	}
	return nil
}

func scanVideo(row pgx.Row) (*model.Video, error) {
	var video model.Video
	err := row.Scan(
		&video.ID,
		&video.ChannelID,
		&video.Title,
		&video.URL,
		&video.Duration,
		&video.PublishedAt,
		&video.ViewCount,
		&video.LikeCount,
		&video.CommentCount,
		&video.Transcript,
	)
	if err != nil {
		return nil, err
	}
	return &video, nil
}

func collectVideos(rows pgx.Rows) ([]*model.Video, error) {
	defer rows.Close()

	videos := []*model.Video{}
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, common.HandlePostgreSQLError(err, "failed to scan video row")
		}
		videos = append(videos, video)
	}

	if err := rows.Err(); err != nil {
		return nil, common.HandlePostgreSQLError(err, "failed to iterate video rows")
	}

	return videos, nil
}
