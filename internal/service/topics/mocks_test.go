package topics

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Taichi-iskw/yt-topics/internal/model"
)

type mockYouTubeService struct {
	mock.Mock
}

func (m *mockYouTubeService) FetchChannelVideos(ctx context.Context, channelID string, limit int) ([]*model.Video, error) {
	args := m.Called(ctx, channelID, limit)
	videos, _ := args.Get(0).([]*model.Video)
	return videos, args.Error(1)
}

func (m *mockYouTubeService) FetchVideoMetadata(ctx context.Context, videoID string) (*model.Video, error) {
	args := m.Called(ctx, videoID)
	video, _ := args.Get(0).(*model.Video)
	return video, args.Error(1)
}

func (m *mockYouTubeService) FetchTranscript(ctx context.Context, videoID, language string) ([]model.TranscriptFragment, error) {
	args := m.Called(ctx, videoID, language)
	fragments, _ := args.Get(0).([]model.TranscriptFragment)
	return fragments, args.Error(1)
}

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) GenerateResponse(ctx context.Context, transcript string) (string, error) {
	args := m.Called(ctx, transcript)
	return args.String(0), args.Error(1)
}

type mockVideoRepository struct {
	mock.Mock
}

func (m *mockVideoRepository) Upsert(ctx context.Context, video *model.Video) error {
	return m.Called(ctx, video).Error(0)
}

func (m *mockVideoRepository) UpsertBatch(ctx context.Context, videos []*model.Video) error {
	return m.Called(ctx, videos).Error(0)
}

func (m *mockVideoRepository) GetByID(ctx context.Context, id string) (*model.Video, error) {
	args := m.Called(ctx, id)
	video, _ := args.Get(0).(*model.Video)
	return video, args.Error(1)
}

func (m *mockVideoRepository) GetByChannelID(ctx context.Context, channelID string, limit, offset int) ([]*model.Video, error) {
	args := m.Called(ctx, channelID, limit, offset)
	videos, _ := args.Get(0).([]*model.Video)
	return videos, args.Error(1)
}

func (m *mockVideoRepository) List(ctx context.Context, limit, offset int) ([]*model.Video, error) {
	args := m.Called(ctx, limit, offset)
	videos, _ := args.Get(0).([]*model.Video)
	return videos, args.Error(1)
}

func (m *mockVideoRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockTopicRepository struct {
	mock.Mock
}

func (m *mockTopicRepository) ReplaceForVideo(ctx context.Context, videoID string, segments []model.TopicSegment) error {
	return m.Called(ctx, videoID, segments).Error(0)
}

func (m *mockTopicRepository) GetByVideoID(ctx context.Context, videoID string) ([]model.TopicSegment, error) {
	args := m.Called(ctx, videoID)
	segments, _ := args.Get(0).([]model.TopicSegment)
	return segments, args.Error(1)
}

func (m *mockTopicRepository) DeleteByVideoID(ctx context.Context, videoID string) error {
	return m.Called(ctx, videoID).Error(0)
}
