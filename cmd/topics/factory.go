package topics

import (
	"context"
	"fmt"

	"github.com/Taichi-iskw/yt-topics/internal/config"
	"github.com/Taichi-iskw/yt-topics/internal/logging"
	"github.com/Taichi-iskw/yt-topics/internal/repository/topic"
	"github.com/Taichi-iskw/yt-topics/internal/repository/video"
	"github.com/Taichi-iskw/yt-topics/internal/service/summarizer"
	topicsSvc "github.com/Taichi-iskw/yt-topics/internal/service/topics"
	"github.com/Taichi-iskw/yt-topics/internal/service/youtube"
)

// Factory builds the configuration and services the topic commands use
type Factory interface {
	Config() (*config.Config, error)
	Processor(ctx context.Context, cfg *config.Config, save bool) (*topicsSvc.Processor, func(), error)
	TopicRepository(ctx context.Context, cfg *config.Config) (topic.Repository, func(), error)
}

// ServiceFactory creates services backed by yt-dlp, the configured
// generator and PostgreSQL
type ServiceFactory struct{}

// NewServiceFactory creates a new service factory
func NewServiceFactory() *ServiceFactory {
	return &ServiceFactory{}
}

// Config loads the configuration file and applies its log level
func (f *ServiceFactory) Config() (*config.Config, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := logging.SetLevel(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("invalid log_level: %w", err)
	}
	return cfg, nil
}

// Processor creates a topic processor. With save set it also opens the
// database; the returned cleanup releases everything.
func (f *ServiceFactory) Processor(ctx context.Context, cfg *config.Config, save bool) (*topicsSvc.Processor, func(), error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	generator, err := summarizer.NewGenerator(ctx, cfg.Generator)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create generator: %w", err)
	}

	processor := topicsSvc.NewProcessor(cfg, youtube.NewYouTubeService(), summarizer.NewSummarizer(generator, cfg.TranscriptChars))
	cleanup := func() {
		_ = generator.Close()
	}

	if save {
		dbPool, err := config.NewDatabasePool(ctx, cfg)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		processor.WithStore(video.NewRepository(dbPool), topic.NewRepository(dbPool))
		cleanup = func() {
			_ = generator.Close()
			dbPool.Close()
		}
	}

	return processor, cleanup, nil
}

// TopicRepository opens the database and returns the topic repository
func (f *ServiceFactory) TopicRepository(ctx context.Context, cfg *config.Config) (topic.Repository, func(), error) {
	dbPool, err := config.NewDatabasePool(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return topic.NewRepository(dbPool), dbPool.Close, nil
}
