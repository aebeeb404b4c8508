package youtube

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/Taichi-iskw/yt-topics/internal/errors"
	"github.com/Taichi-iskw/yt-topics/internal/model"
)

// FetchTranscript downloads the video's subtitles (manual or automatic) as
// WebVTT and parses them. A video without subtitles returns CodeMissingData.
func (s *youTubeService) FetchTranscript(ctx context.Context, videoID, language string) ([]model.TranscriptFragment, error) {
	if videoID == "" {
		return nil, errors.New(errors.CodeInvalidArg, "video ID is required")
	}
	if language == "" {
		language = "en"
	}

	dir, err := os.MkdirTemp(s.tempDir, "yt-topics-subs-*")
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to create temp directory")
	}
	defer os.RemoveAll(dir)

	args := []string{
		"--skip-download",
		"--write-sub",
		"--write-auto-sub",
		"--sub-lang", language,
		"--sub-format", "vtt",
		"--no-playlist",
		"-o", filepath.Join(dir, "%(id)s.%(ext)s"),
		WatchURL(videoID),
	}

	if _, err := s.cmdRunner.Run(ctx, "yt-dlp", args...); err != nil {
		return nil, errors.Wrap(err, errors.CodeExternal, "failed to download subtitles with yt-dlp")
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.vtt"))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to list subtitle files")
	}
	if len(files) == 0 {
		return nil, errors.New(errors.CodeMissingData, "no subtitles available for video "+videoID)
	}
	sort.Strings(files)

	f, err := os.Open(files[0])
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to open subtitle file")
	}
	defer f.Close()

	fragments, err := ParseVTT(f)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to parse subtitle file")
	}
	if len(fragments) == 0 {
		return nil, errors.New(errors.CodeMissingData, "subtitles for video "+videoID+" are empty")
	}

	s.logger.WithField("video_id", videoID).
		WithField("file", filepath.Base(files[0])).
		WithField("fragments", len(fragments)).
		Debug("Parsed subtitles")

	return fragments, nil
}
