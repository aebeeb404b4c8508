package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Taichi-iskw/yt-topics/internal/errors"
	"github.com/Taichi-iskw/yt-topics/internal/model"
)

// FetchChannelVideos lists the uploads of a channel using yt-dlp.
// Only IDs, titles and links are filled; use FetchVideoMetadata for counters.
func (s *youTubeService) FetchChannelVideos(ctx context.Context, channelID string, limit int) ([]*model.Video, error) {
	if channelID == "" {
		return nil, errors.New(errors.CodeInvalidArg, "channel ID is required")
	}

	// Validate channel ID format (must start with UC)
	if !strings.HasPrefix(channelID, "UC") {
		return nil, errors.New(errors.CodeInvalidArg, "invalid channel ID format (must start with UC)")
	}

	args := []string{"--dump-json", "--flat-playlist"}

	// 0 means no limit - fetch all videos
	if limit > 0 {
		args = append(args, "--playlist-end", fmt.Sprintf("%d", limit))
	}
	args = append(args, "https://www.youtube.com/channel/"+channelID+"/videos")

	output, err := s.cmdRunner.Run(ctx, "yt-dlp", args...)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeExternal, "failed to fetch channel videos with yt-dlp")
	}

	// yt-dlp outputs one JSON object per line
	lines := strings.Split(strings.TrimSpace(string(output)), "\n")
	videos := make([]*model.Video, 0, len(lines))

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		var ytInfo ytDlpVideoInfo
		if err := json.Unmarshal([]byte(line), &ytInfo); err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "failed to parse yt-dlp output")
		}
		if ytInfo.ID == "" {
			continue
		}

		if ytInfo.ChannelID != "" && ytInfo.ChannelID != channelID {
			s.logger.WithField("video_id", ytInfo.ID).
				WithField("reported_channel_id", ytInfo.ChannelID).
				Debug("yt-dlp reported a different channel ID, keeping the requested one")
		}

		video := toVideo(ytInfo)
		video.ChannelID = channelID
		videos = append(videos, video)
	}

	return videos, nil
}

// FetchVideoMetadata fetches title, publication date and engagement counters of one video
func (s *youTubeService) FetchVideoMetadata(ctx context.Context, videoID string) (*model.Video, error) {
	if videoID == "" {
		return nil, errors.New(errors.CodeInvalidArg, "video ID is required")
	}

	args := []string{
		"--dump-json",
		"--skip-download",
		"--no-playlist",
		WatchURL(videoID),
	}

	output, err := s.cmdRunner.Run(ctx, "yt-dlp", args...)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeExternal, "failed to fetch video metadata with yt-dlp")
	}

	var ytInfo ytDlpVideoInfo
	if err := json.Unmarshal(output, &ytInfo); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to parse yt-dlp output")
	}
	if ytInfo.ID == "" {
		return nil, errors.New(errors.CodeNotFound, "no metadata found for video "+videoID)
	}

	return toVideo(ytInfo), nil
}

func toVideo(info ytDlpVideoInfo) *model.Video {
	url := info.URL
	if url == "" && strings.HasPrefix(info.FlatURL, "http") {
		url = info.FlatURL
	}
	if url == "" {
		url = WatchURL(info.ID)
	}
	return &model.Video{
		ID:           info.ID,
		ChannelID:    info.ChannelID,
		Title:        info.Title,
		URL:          url,
		Duration:     int(info.Duration),
		PublishedAt:  publishedAt(info),
		ViewCount:    info.ViewCount,
		LikeCount:    info.LikeCount,
		CommentCount: info.CommentCount,
	}
}

// publishedAt prefers the exact unix timestamp and falls back to upload_date
func publishedAt(info ytDlpVideoInfo) *time.Time {
	if info.Timestamp > 0 {
		t := time.Unix(info.Timestamp, 0).UTC()
		return &t
	}
	if info.UploadDate == "" {
		return nil
	}
	t, err := time.Parse("20060102", info.UploadDate)
	if err != nil {
		return nil
	}
	return &t
}
