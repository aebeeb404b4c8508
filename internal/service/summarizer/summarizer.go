package summarizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Taichi-iskw/yt-topics/internal/errors"
	"github.com/Taichi-iskw/yt-topics/internal/logging"
)

// DefaultTranscriptChars is how much transcript goes into the prompt by default
const DefaultTranscriptChars = 3000

// Generator produces free text for a prompt
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Close() error
}

// Summarizer asks a Generator for the topic answer describing a transcript
type Summarizer struct {
	generator Generator
	maxChars  int
	logger    *logrus.Entry
}

// NewSummarizer creates a Summarizer. maxChars limits the transcript runes
// sent to the model; 0 sends the whole transcript.
func NewSummarizer(generator Generator, maxChars int) *Summarizer {
	return &Summarizer{
		generator: generator,
		maxChars:  maxChars,
		logger:    logging.NewLogger("summarizer"),
	}
}

// GenerateResponse returns the raw model answer for a transcript
func (s *Summarizer) GenerateResponse(ctx context.Context, transcript string) (string, error) {
	if strings.TrimSpace(transcript) == "" {
		return "", errors.New(errors.CodeMissingData, "transcript is empty")
	}

	response, err := s.generator.Generate(ctx, BuildPrompt(transcript, s.maxChars))
	if err != nil {
		return "", errors.Wrap(err, errors.CodeExternal, "failed to generate topics")
	}
	s.logger.WithField("chars", len(response)).Debug("Received model response")
	s.logger.Trace(response)

	if strings.TrimSpace(response) == "" {
		return "", errors.New(errors.CodeMissingData, "model returned an empty response")
	}
	return response, nil
}

// BuildPrompt renders the topic extraction prompt for the first maxChars
// runes of the transcript.
func BuildPrompt(transcript string, maxChars int) string {
	excerpt := transcript
	label := "Transcript"
	if r := []rune(transcript); maxChars > 0 && len(r) > maxChars {
		excerpt = string(r[:maxChars])
	}
	if maxChars > 0 {
		label = fmt.Sprintf("Transcript (first %d characters)", maxChars)
	}

	return fmt.Sprintf(`Analyze the following transcript and extract at least 2-3 relevant topics.
For each topic, provide:
**Topic:** <Topic Title>
**Summary:** <Short Summary (2-3 sentences)>
**Timestamp:** hh:mm:ss - hh:mm:ss

Separate topics with a blank line.

%s:
%s

Ensure each topic has all three elements.
`, label, excerpt)
}
