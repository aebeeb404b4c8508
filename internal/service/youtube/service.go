package youtube

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/Taichi-iskw/yt-topics/internal/logging"
	"github.com/Taichi-iskw/yt-topics/internal/model"
	"github.com/Taichi-iskw/yt-topics/internal/service/common"
)

// YouTubeService is interface for YouTube operations
type YouTubeService interface {
	FetchChannelVideos(ctx context.Context, channelID string, limit int) ([]*model.Video, error)
	FetchVideoMetadata(ctx context.Context, videoID string) (*model.Video, error)
	FetchTranscript(ctx context.Context, videoID, language string) ([]model.TranscriptFragment, error)
}

// youTubeService implements YouTubeService on top of yt-dlp
type youTubeService struct {
	cmdRunner common.CmdRunner
	tempDir   string // parent for subtitle download dirs; "" means os.TempDir
	logger    *logrus.Entry
}

// NewYouTubeService creates a new YouTubeService
func NewYouTubeService() YouTubeService {
	return NewYouTubeServiceWithCmdRunner(common.NewCmdRunner(), "")
}

// NewYouTubeServiceWithCmdRunner creates a new YouTubeService with custom CmdRunner (for testing)
func NewYouTubeServiceWithCmdRunner(cmdRunner common.CmdRunner, tempDir string) YouTubeService {
	return &youTubeService{
		cmdRunner: cmdRunner,
		tempDir:   tempDir,
		logger:    logging.NewLogger("youtube"),
	}
}

// ytDlpVideoInfo represents yt-dlp JSON output structure for video info
type ytDlpVideoInfo struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	ChannelID    string  `json:"channel_id"`
	URL          string  `json:"webpage_url"`
	FlatURL      string  `json:"url"`
	Duration     float64 `json:"duration"`
	UploadDate   string  `json:"upload_date"` // YYYYMMDD
	Timestamp    int64   `json:"timestamp"`   // unix seconds, when available
	ViewCount    int64   `json:"view_count"`
	LikeCount    int64   `json:"like_count"`
	CommentCount int64   `json:"comment_count"`
}

// WatchURL builds the watch link for a video ID
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}
