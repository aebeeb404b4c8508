package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Taichi-iskw/yt-topics/internal/errors"
	"github.com/Taichi-iskw/yt-topics/internal/model"
	"github.com/Taichi-iskw/yt-topics/internal/segment"
)

const (
	videoIDLabel    = "Video ID:"
	videoTitleLabel = "Video Title:"
	topicLabel      = "Topic:"
	summaryLabel    = "Summary:"
	timestampLabel  = "Timestamp:"
)

var separator = strings.Repeat("-", 60)

// TopicRecord is the per-video text record
type TopicRecord struct {
	VideoID    string               `json:"video_id"`
	VideoTitle string               `json:"video_title"`
	Segments   []model.TopicSegment `json:"segments"`
}

// FormatTopicRecord renders a record. Timestamps use the re-sequenced range.
func FormatTopicRecord(record *TopicRecord) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s %s\n", videoIDLabel, record.VideoID))
	b.WriteString(fmt.Sprintf("%s %s\n", videoTitleLabel, record.VideoTitle))
	b.WriteString(separator + "\n")
	for _, seg := range record.Segments {
		b.WriteString(fmt.Sprintf("%s %s\n", topicLabel, seg.Topic))
		b.WriteString(fmt.Sprintf("%s %s\n", summaryLabel, seg.Summary))
		b.WriteString(fmt.Sprintf("%s %s\n", timestampLabel, segment.FormatRange(seg.NewStart, seg.NewEnd)))
		b.WriteString("\n")
	}

	return b.String()
}

// topicFilePath returns where the record for videoID lives in dir
func topicFilePath(dir, videoID string) string {
	return filepath.Join(dir, videoID+".txt")
}

// WriteTopicFile writes the record to <dir>/<video_id>.txt and returns the path
func WriteTopicFile(dir string, record *TopicRecord) (string, error) {
	if record.VideoID == "" {
		return "", errors.New(errors.CodeInvalidArg, "video ID is required")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrap(err, errors.CodeInternal, "failed to create output directory")
	}

	path := topicFilePath(dir, record.VideoID)
	if err := os.WriteFile(path, []byte(FormatTopicRecord(record)), 0644); err != nil {
		return "", errors.Wrap(err, errors.CodeInternal, "failed to write topic file")
	}
	return path, nil
}

// ReadTopicFile loads a record written by WriteTopicFile
func ReadTopicFile(path string) (*TopicRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(err, errors.CodeNotFound, "topic file not found")
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to open topic file")
	}
	defer f.Close()

	return ParseTopicRecord(f)
}

// ParseTopicRecord reads the text record format. Topic entries whose
// timestamp cannot be parsed are skipped. Original and new ranges are both
// set to the stored range.
func ParseTopicRecord(r io.Reader) (*TopicRecord, error) {
	record := &TopicRecord{}
	var current *model.TopicSegment

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")

		switch {
		case strings.HasPrefix(line, videoIDLabel):
			record.VideoID = value(line, videoIDLabel)
		case strings.HasPrefix(line, videoTitleLabel):
			record.VideoTitle = value(line, videoTitleLabel)
		case strings.HasPrefix(line, topicLabel):
			current = &model.TopicSegment{Topic: value(line, topicLabel)}
		case strings.HasPrefix(line, summaryLabel):
			if current != nil {
				current.Summary = value(line, summaryLabel)
			}
		case strings.HasPrefix(line, timestampLabel):
			if current == nil {
				continue
			}
			start, end, err := segment.ParseTimeRange(value(line, timestampLabel))
			if err == nil {
				current.SegmentIndex = len(record.Segments)
				current.VideoID = record.VideoID
				current.OriginalStart, current.OriginalEnd = start, end
				current.NewStart, current.NewEnd = start, end
				if end > start {
					current.Duration = end - start
				}
				record.Segments = append(record.Segments, *current)
			}
			current = nil
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to read topic record")
	}
	if record.VideoID == "" {
		return nil, errors.New(errors.CodeMalformed, "topic record has no video ID")
	}

	return record, nil
}

func value(line, label string) string {
	return strings.TrimSpace(strings.TrimPrefix(line, label))
}
