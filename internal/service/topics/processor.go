// Package topics runs the per-video topic pipeline: metadata, transcript,
// model answer, normalization and the written records.
package topics

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Taichi-iskw/yt-topics/internal/config"
	"github.com/Taichi-iskw/yt-topics/internal/errors"
	"github.com/Taichi-iskw/yt-topics/internal/logging"
	"github.com/Taichi-iskw/yt-topics/internal/model"
	"github.com/Taichi-iskw/yt-topics/internal/output"
	"github.com/Taichi-iskw/yt-topics/internal/repository/topic"
	"github.com/Taichi-iskw/yt-topics/internal/repository/video"
	"github.com/Taichi-iskw/yt-topics/internal/segment"
	"github.com/Taichi-iskw/yt-topics/internal/service/youtube"
)

// ResponseGenerator returns the raw topic answer of a model for a transcript
type ResponseGenerator interface {
	GenerateResponse(ctx context.Context, transcript string) (string, error)
}

// Result is the outcome of processing one video
type Result struct {
	Video     *model.Video
	Segments  []model.TopicSegment
	TopicFile string
	Rows      []output.Row
}

// ChannelResult is the outcome of processing a channel's uploads
type ChannelResult struct {
	Rows      []output.Row
	Processed int
	Failed    int
}

// Processor runs videos through the pipeline one at a time
type Processor struct {
	cfg        *config.Config
	youtube    youtube.YouTubeService
	generator  ResponseGenerator
	normalizer *segment.Normalizer
	videos     video.Repository
	topics     topic.Repository
	sleep      func(ctx context.Context, d time.Duration) error
	logger     *logrus.Entry
}

// NewProcessor creates a Processor that writes records under cfg.OutputDir
func NewProcessor(cfg *config.Config, yt youtube.YouTubeService, generator ResponseGenerator) *Processor {
	logger := logging.NewLogger("topics")
	return &Processor{
		cfg:        cfg,
		youtube:    yt,
		generator:  generator,
		normalizer: segment.NewNormalizer(logger),
		sleep:      sleepContext,
		logger:     logger,
	}
}

// WithStore makes the Processor persist videos and their segments
func (p *Processor) WithStore(videos video.Repository, topics topic.Repository) *Processor {
	p.videos = videos
	p.topics = topics
	return p
}

// ProcessChannel lists up to limit uploads of a channel and processes each.
// A failing video is logged and skipped; only listing errors and
// cancellation stop the run.
func (p *Processor) ProcessChannel(ctx context.Context, channelID string, limit int) (*ChannelResult, error) {
	videos, err := p.youtube.FetchChannelVideos(ctx, channelID, limit)
	if err != nil {
		return nil, err
	}
	p.logger.WithFields(logrus.Fields{"channel_id": channelID, "videos": len(videos)}).Info("Processing channel")

	result := &ChannelResult{}
	for i, v := range videos {
		if i > 0 {
			if err := p.sleep(ctx, p.cfg.DelayBetweenVideos); err != nil {
				return result, err
			}
		}

		logger := p.logger.WithFields(logrus.Fields{"video_id": v.ID, "index": i + 1, "total": len(videos)})
		logger.Info("Processing video")

		res, err := p.ProcessVideo(ctx, v.ID)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			logger.WithError(err).Error("Skipping video")
			result.Failed++
			continue
		}
		result.Processed++
		result.Rows = append(result.Rows, res.Rows...)
	}

	p.logger.WithFields(logrus.Fields{
		"channel_id": channelID,
		"processed":  result.Processed,
		"failed":     result.Failed,
		"rows":       len(result.Rows),
	}).Info("Channel done")
	return result, nil
}

// ProcessVideo runs a single video through the pipeline. Only a metadata
// failure or cancellation is returned; a missing transcript, a failing model
// or an unwritable record leave the video with fewer outputs. A cancelled
// video writes nothing.
func (p *Processor) ProcessVideo(ctx context.Context, videoID string) (*Result, error) {
	logger := p.logger.WithField("video_id", videoID)

	v, err := p.youtube.FetchVideoMetadata(ctx, videoID)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeExternal, "failed to fetch video metadata")
	}

	if err := p.sleep(ctx, p.cfg.DelayBetweenCalls); err != nil {
		return nil, err
	}

	v.Transcript = ""
	fragments, err := p.youtube.FetchTranscript(ctx, v.ID, p.cfg.SubtitleLanguage)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.WithError(err).Warn("Transcript not available")
	} else {
		v.Transcript = youtube.TranscriptText(fragments)
	}

	var segments []model.TopicSegment
	if v.Transcript != "" {
		if segments, err = p.summarize(ctx, logger, v.Transcript); err != nil {
			return nil, err
		}
	}

	res := &Result{Video: v, Segments: segments}

	record := &output.TopicRecord{VideoID: v.ID, VideoTitle: v.Title, Segments: segments}
	if path, err := output.WriteTopicFile(p.cfg.OutputDir, record); err != nil {
		logger.WithError(err).Error("Failed to write topic file")
	} else {
		res.TopicFile = path
	}

	res.Rows = output.RowsForVideo(v, segments)
	p.save(ctx, logger, v, segments)

	logger.WithFields(logrus.Fields{"title": v.Title, "segments": len(segments)}).Info("Video processed")
	return res, nil
}

// summarize returns the normalized segments for a transcript. A model failure
// yields no segments; only cancellation is returned as an error.
func (p *Processor) summarize(ctx context.Context, logger *logrus.Entry, transcript string) ([]model.TopicSegment, error) {
	if err := p.sleep(ctx, p.cfg.DelayBetweenCalls); err != nil {
		return nil, err
	}

	response, err := p.generator.GenerateResponse(ctx, transcript)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.WithError(err).Warn("No topics generated")
		return nil, nil
	}

	segments := p.normalizer.Normalize(response)
	if len(segments) == 0 {
		logger.Warn("Model response had no usable topic blocks")
	}
	return segments, nil
}

func (p *Processor) save(ctx context.Context, logger *logrus.Entry, v *model.Video, segments []model.TopicSegment) {
	if p.videos == nil || p.topics == nil {
		return
	}
	if err := p.videos.Upsert(ctx, v); err != nil {
		logger.WithError(err).Error("Failed to save video")
		return
	}
	if err := p.topics.ReplaceForVideo(ctx, v.ID, segments); err != nil {
		logger.WithError(err).Error("Failed to save topic segments")
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
