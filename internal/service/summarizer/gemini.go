package summarizer

import (
	"context"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/Taichi-iskw/yt-topics/internal/errors"
)

const defaultGeminiModel = "gemini-1.5-flash"

type geminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a Generator backed by the Gemini API
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (Generator, error) {
	if apiKey == "" {
		return nil, errors.New(errors.CodeInvalidArg, "Gemini API key is required")
	}
	if model == "" {
		model = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeExternal, "failed to create Gemini client")
	}
	return &geminiGenerator{client: client, model: model}, nil
}

func (g *geminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.GenerativeModel(g.model).GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}

	// first candidate with content
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		var b strings.Builder
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}
		return b.String(), nil
	}
	return "", nil
}

func (g *geminiGenerator) Close() error {
	return g.client.Close()
}
