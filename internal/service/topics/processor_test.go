package topics

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Taichi-iskw/yt-topics/internal/config"
	"github.com/Taichi-iskw/yt-topics/internal/errors"
	"github.com/Taichi-iskw/yt-topics/internal/model"
	"github.com/Taichi-iskw/yt-topics/internal/output"
)

const modelResponse = `**Topic:** Decimals
**Summary:** Covers tenths. Then hundredths.
**Timestamp:** 00:08:20 - 00:09:20

**Topic:** Fractions
**Summary:** Covers halves.
**Timestamp:** 00:01:00 - 00:02:30

**Topic:** Broken
**Timestamp:** 00:10:00 - 00:11:00`

type sleepRecorder struct {
	calls []time.Duration
}

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	s.calls = append(s.calls, d)
	return ctx.Err()
}

func newTestProcessor(t *testing.T) (*Processor, *mockYouTubeService, *mockGenerator, *sleepRecorder) {
	t.Helper()

	cfg := config.Default()
	cfg.OutputDir = filepath.Join(t.TempDir(), "topic_summaries")
	cfg.DelayBetweenVideos = 5 * time.Second
	cfg.DelayBetweenCalls = 2 * time.Second

	yt := &mockYouTubeService{}
	gen := &mockGenerator{}
	rec := &sleepRecorder{}

	p := NewProcessor(cfg, yt, gen)
	p.sleep = rec.sleep
	return p, yt, gen, rec
}

func metadata(id string) *model.Video {
	published := time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)
	return &model.Video{
		ID:           id,
		ChannelID:    "UCabc",
		Title:        "Video " + id,
		URL:          "https://www.youtube.com/watch?v=" + id,
		PublishedAt:  &published,
		ViewCount:    100,
		LikeCount:    10,
		CommentCount: 1,
	}
}

func fragments() []model.TranscriptFragment {
	return []model.TranscriptFragment{
		{Start: 0, End: 2, Text: "hello"},
		{Start: 2, End: 4, Text: "class"},
	}
}

func TestProcessor_ProcessVideo(t *testing.T) {
	p, yt, gen, rec := newTestProcessor(t)

	yt.On("FetchVideoMetadata", mock.Anything, "vid1").Return(metadata("vid1"), nil)
	yt.On("FetchTranscript", mock.Anything, "vid1", "en").Return(fragments(), nil)
	gen.On("GenerateResponse", mock.Anything, "hello class").Return(modelResponse, nil)

	res, err := p.ProcessVideo(context.Background(), "vid1")
	require.NoError(t, err)

	require.Len(t, res.Segments, 2)
	assert.Equal(t, "Fractions", res.Segments[0].Topic)
	assert.Equal(t, 0, res.Segments[0].NewStart)
	assert.Equal(t, 90, res.Segments[0].NewEnd)
	assert.Equal(t, "Decimals", res.Segments[1].Topic)
	assert.Equal(t, "Covers tenths.", res.Segments[1].Summary)
	assert.Equal(t, 90, res.Segments[1].NewStart)
	assert.Equal(t, 150, res.Segments[1].NewEnd)

	require.Len(t, res.Rows, 2)
	assert.Equal(t, "hello class", res.Rows[0].Transcript)
	assert.Equal(t, "00:01:30 - 00:02:30", res.Rows[1].TimeStamp)

	record, err := output.ReadTopicFile(res.TopicFile)
	require.NoError(t, err)
	assert.Equal(t, "vid1", record.VideoID)
	assert.Len(t, record.Segments, 2)

	assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second}, rec.calls)
	yt.AssertExpectations(t)
	gen.AssertExpectations(t)
}

func TestProcessor_ProcessVideo_NoTranscript(t *testing.T) {
	p, yt, gen, _ := newTestProcessor(t)

	yt.On("FetchVideoMetadata", mock.Anything, "vid1").Return(metadata("vid1"), nil)
	yt.On("FetchTranscript", mock.Anything, "vid1", "en").
		Return(nil, errors.New(errors.CodeMissingData, "no subtitles"))

	res, err := p.ProcessVideo(context.Background(), "vid1")
	require.NoError(t, err)

	assert.Empty(t, res.Segments)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "Transcript not available.", res.Rows[0].Transcript)
	assert.Equal(t, int64(100), res.Rows[0].ViewCount)
	gen.AssertNotCalled(t, "GenerateResponse", mock.Anything, mock.Anything)

	content, err := os.ReadFile(res.TopicFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Video ID: vid1")
}

func TestProcessor_ProcessVideo_ModelFailure(t *testing.T) {
	p, yt, gen, _ := newTestProcessor(t)

	yt.On("FetchVideoMetadata", mock.Anything, "vid1").Return(metadata("vid1"), nil)
	yt.On("FetchTranscript", mock.Anything, "vid1", "en").Return(fragments(), nil)
	gen.On("GenerateResponse", mock.Anything, mock.Anything).Return("", assert.AnError)

	res, err := p.ProcessVideo(context.Background(), "vid1")
	require.NoError(t, err)

	assert.Empty(t, res.Segments)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "hello class", res.Rows[0].Transcript)
}

func TestProcessor_ProcessVideo_MetadataFailure(t *testing.T) {
	p, yt, _, _ := newTestProcessor(t)

	yt.On("FetchVideoMetadata", mock.Anything, "gone").Return(nil, assert.AnError)

	_, err := p.ProcessVideo(context.Background(), "gone")
	assert.True(t, errors.HasCode(err, errors.CodeExternal))
}

func TestProcessor_ProcessVideo_Saves(t *testing.T) {
	p, yt, gen, _ := newTestProcessor(t)
	videos := &mockVideoRepository{}
	topics := &mockTopicRepository{}
	p.WithStore(videos, topics)

	yt.On("FetchVideoMetadata", mock.Anything, "vid1").Return(metadata("vid1"), nil)
	yt.On("FetchTranscript", mock.Anything, "vid1", "en").Return(fragments(), nil)
	gen.On("GenerateResponse", mock.Anything, mock.Anything).Return(modelResponse, nil)
	videos.On("Upsert", mock.Anything, mock.MatchedBy(func(v *model.Video) bool {
		return v.ID == "vid1" && v.Transcript == "hello class"
	})).Return(nil)
	topics.On("ReplaceForVideo", mock.Anything, "vid1", mock.MatchedBy(func(s []model.TopicSegment) bool {
		return len(s) == 2
	})).Return(nil)

	_, err := p.ProcessVideo(context.Background(), "vid1")
	require.NoError(t, err)

	videos.AssertExpectations(t)
	topics.AssertExpectations(t)
}

func TestProcessor_ProcessVideo_SaveFailureIsLogged(t *testing.T) {
	p, yt, gen, _ := newTestProcessor(t)
	videos := &mockVideoRepository{}
	topics := &mockTopicRepository{}
	p.WithStore(videos, topics)

	yt.On("FetchVideoMetadata", mock.Anything, "vid1").Return(metadata("vid1"), nil)
	yt.On("FetchTranscript", mock.Anything, "vid1", "en").Return(fragments(), nil)
	gen.On("GenerateResponse", mock.Anything, mock.Anything).Return(modelResponse, nil)
	videos.On("Upsert", mock.Anything, mock.Anything).Return(assert.AnError)

	res, err := p.ProcessVideo(context.Background(), "vid1")
	require.NoError(t, err)
	assert.Len(t, res.Rows, 2)
	topics.AssertNotCalled(t, "ReplaceForVideo", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessor_ProcessChannel(t *testing.T) {
	p, yt, gen, rec := newTestProcessor(t)

	yt.On("FetchChannelVideos", mock.Anything, "UCabc", 3).
		Return([]*model.Video{{ID: "vid1"}, {ID: "bad"}, {ID: "vid3"}}, nil)
	yt.On("FetchVideoMetadata", mock.Anything, "vid1").Return(metadata("vid1"), nil)
	yt.On("FetchVideoMetadata", mock.Anything, "bad").Return(nil, assert.AnError)
	yt.On("FetchVideoMetadata", mock.Anything, "vid3").Return(metadata("vid3"), nil)
	yt.On("FetchTranscript", mock.Anything, "vid1", "en").Return(fragments(), nil)
	yt.On("FetchTranscript", mock.Anything, "vid3", "en").Return(nil, errors.New(errors.CodeMissingData, "none"))
	gen.On("GenerateResponse", mock.Anything, mock.Anything).Return(modelResponse, nil)

	result, err := p.ProcessChannel(context.Background(), "UCabc", 3)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Rows, 3)
	assert.Equal(t, "Video vid1", result.Rows[0].VideoTitle)
	assert.Equal(t, "Video vid3", result.Rows[2].VideoTitle)

	videoDelays := 0
	for _, d := range rec.calls {
		if d == 5*time.Second {
			videoDelays++
		}
	}
	assert.Equal(t, 2, videoDelays)
}

func TestProcessor_ProcessChannel_ListFailure(t *testing.T) {
	p, yt, _, _ := newTestProcessor(t)

	yt.On("FetchChannelVideos", mock.Anything, "UCabc", 0).Return(nil, assert.AnError)

	_, err := p.ProcessChannel(context.Background(), "UCabc", 0)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestProcessor_ProcessChannel_Cancelled(t *testing.T) {
	p, yt, _, _ := newTestProcessor(t)
	p.sleep = sleepContext

	ctx, cancel := context.WithCancel(context.Background())
	yt.On("FetchChannelVideos", mock.Anything, "UCabc", 2).
		Return([]*model.Video{{ID: "vid1"}, {ID: "vid2"}}, nil)
	yt.On("FetchVideoMetadata", mock.Anything, "vid1").
		Run(func(mock.Arguments) { cancel() }).
		Return(metadata("vid1"), nil)

	result, err := p.ProcessChannel(ctx, "UCabc", 2)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, result.Processed)
	yt.AssertNotCalled(t, "FetchVideoMetadata", mock.Anything, "vid2")
}

func TestProcessor_ProcessChannel_CancelledDuringModelCall(t *testing.T) {
	p, yt, gen, _ := newTestProcessor(t)

	existing := &output.TopicRecord{
		VideoID:    "vid1",
		VideoTitle: "Video vid1",
		Segments:   []model.TopicSegment{{Topic: "Fractions", Summary: "Covers halves.", Duration: 90, NewEnd: 90}},
	}
	path, err := output.WriteTopicFile(p.cfg.OutputDir, existing)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	yt.On("FetchChannelVideos", mock.Anything, "UCabc", 1).Return([]*model.Video{{ID: "vid1"}}, nil)
	yt.On("FetchVideoMetadata", mock.Anything, "vid1").Return(metadata("vid1"), nil)
	yt.On("FetchTranscript", mock.Anything, "vid1", "en").Return(fragments(), nil)
	gen.On("GenerateResponse", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { cancel() }).
		Return("", context.Canceled)

	result, err := p.ProcessChannel(ctx, "UCabc", 1)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, result.Processed)
	assert.Zero(t, result.Failed)
	assert.Empty(t, result.Rows)

	record, err := output.ReadTopicFile(path)
	require.NoError(t, err)
	require.Len(t, record.Segments, 1)
	assert.Equal(t, "Fractions", record.Segments[0].Topic)
}

func TestProcessor_ProcessVideo_CancelledDuringTranscript(t *testing.T) {
	p, yt, gen, _ := newTestProcessor(t)
	videos := &mockVideoRepository{}
	topics := &mockTopicRepository{}
	p.WithStore(videos, topics)

	ctx, cancel := context.WithCancel(context.Background())
	yt.On("FetchVideoMetadata", mock.Anything, "vid1").Return(metadata("vid1"), nil)
	yt.On("FetchTranscript", mock.Anything, "vid1", "en").
		Run(func(mock.Arguments) { cancel() }).
		Return(nil, context.Canceled)

	res, err := p.ProcessVideo(ctx, "vid1")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res)

	_, statErr := os.Stat(filepath.Join(p.cfg.OutputDir, "vid1.txt"))
	assert.True(t, os.IsNotExist(statErr))
	gen.AssertNotCalled(t, "GenerateResponse", mock.Anything, mock.Anything)
	videos.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestSleepContext(t *testing.T) {
	assert.NoError(t, sleepContext(context.Background(), 0))
	assert.NoError(t, sleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
}
