package summarizer

import (
	"context"
	"fmt"

	"github.com/Taichi-iskw/yt-topics/internal/config"
	"github.com/Taichi-iskw/yt-topics/internal/errors"
)

// NewGenerator builds the Generator selected by the configuration
func NewGenerator(ctx context.Context, cfg config.GeneratorConfig) (Generator, error) {
	switch cfg.Provider {
	case config.ProviderGemini, "":
		return NewGeminiGenerator(ctx, cfg.APIKey, cfg.Model)
	case config.ProviderOpenRouter:
		if cfg.APIKey == "" {
			return nil, errors.New(errors.CodeInvalidArg, "OpenRouter API key is required")
		}
		return NewOpenRouterGenerator(cfg.APIKey, cfg.Model, cfg.BaseURL), nil
	default:
		return nil, errors.New(errors.CodeInvalidArg, fmt.Sprintf("unknown generator provider %q", cfg.Provider))
	}
}
