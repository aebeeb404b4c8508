package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Taichi-iskw/yt-topics/internal/errors"
	"github.com/Taichi-iskw/yt-topics/internal/model"
)

func sampleRecord() *TopicRecord {
	return &TopicRecord{
		VideoID:    "abc123",
		VideoTitle: "Math Basics",
		Segments: []model.TopicSegment{
			{Topic: "Fractions", Summary: "Covers halves.", OriginalStart: 60, OriginalEnd: 150, Duration: 90, NewStart: 0, NewEnd: 90},
			{Topic: "Decimals", Summary: "Covers tenths.", OriginalStart: 500, OriginalEnd: 560, Duration: 60, NewStart: 90, NewEnd: 150},
		},
	}
}

func TestFormatTopicRecord(t *testing.T) {
	want := "Video ID: abc123\n" +
		"Video Title: Math Basics\n" +
		strings.Repeat("-", 60) + "\n" +
		"Topic: Fractions\n" +
		"Summary: Covers halves.\n" +
		"Timestamp: 00:00:00 - 00:01:30\n" +
		"\n" +
		"Topic: Decimals\n" +
		"Summary: Covers tenths.\n" +
		"Timestamp: 00:01:30 - 00:02:30\n" +
		"\n"

	assert.Equal(t, want, FormatTopicRecord(sampleRecord()))
}

func TestFormatTopicRecord_NoSegments(t *testing.T) {
	got := FormatTopicRecord(&TopicRecord{VideoID: "x", VideoTitle: "Empty"})
	assert.Equal(t, "Video ID: x\nVideo Title: Empty\n"+strings.Repeat("-", 60)+"\n", got)
}

func TestWriteAndReadTopicFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "topic_summaries")

	path, err := WriteTopicFile(dir, sampleRecord())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "abc123.txt"), path)

	record, err := ReadTopicFile(path)
	require.NoError(t, err)

	assert.Equal(t, "abc123", record.VideoID)
	assert.Equal(t, "Math Basics", record.VideoTitle)
	require.Len(t, record.Segments, 2)
	assert.Equal(t, "Decimals", record.Segments[1].Topic)
	assert.Equal(t, "Covers tenths.", record.Segments[1].Summary)
	assert.Equal(t, 90, record.Segments[1].NewStart)
	assert.Equal(t, 150, record.Segments[1].NewEnd)
	assert.Equal(t, 60, record.Segments[1].Duration)
	assert.Equal(t, 1, record.Segments[1].SegmentIndex)
}

func TestTopicFilePath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "abc123.txt"), topicFilePath("out", "abc123"))
	assert.Equal(t, "abc123.txt", topicFilePath("", "abc123"))
}

func TestWriteTopicFile_RequiresVideoID(t *testing.T) {
	_, err := WriteTopicFile(t.TempDir(), &TopicRecord{})
	assert.True(t, errors.HasCode(err, errors.CodeInvalidArg))
}

func TestParseTopicRecord_SkipsBadTimestamps(t *testing.T) {
	input := "Video ID: v1\r\n" +
		"Video Title: T\r\n" +
		strings.Repeat("-", 60) + "\r\n" +
		"Topic: Good\r\nSummary: ok.\r\nTimestamp: 00:00:00 - 00:00:30\r\n\r\n" +
		"Topic: Bad\r\nSummary: broken.\r\nTimestamp: soon\r\n\r\n" +
		"Topic: Also good\r\nSummary: fine.\r\nTimestamp: 00:00:30 - 00:01:00\r\n"

	record, err := ParseTopicRecord(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, record.Segments, 2)
	assert.Equal(t, "Good", record.Segments[0].Topic)
	assert.Equal(t, "Also good", record.Segments[1].Topic)
	assert.Equal(t, 1, record.Segments[1].SegmentIndex)
}

func TestReadTopicFile_Errors(t *testing.T) {
	_, err := ReadTopicFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.True(t, errors.HasCode(err, errors.CodeNotFound))

	path := filepath.Join(t.TempDir(), "junk.txt")
	require.NoError(t, os.WriteFile(path, []byte("nothing useful\n"), 0644))
	_, err = ReadTopicFile(path)
	assert.True(t, errors.HasCode(err, errors.CodeMalformed))
}
