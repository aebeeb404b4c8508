// Package segment turns a generative model's free-text topic answer into
// ordered, gap-free topic segments.
//
// A model response is split into blocks on blank lines. Each block must carry
// "Topic:", "Summary:" and "Timestamp:" labels in that order; anything else is
// logged and dropped. Parsed segments are sorted by their original start and
// re-timed onto a contiguous timeline starting at zero.
package segment

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"

	"github.com/Taichi-iskw/yt-topics/internal/errors"
	"github.com/Taichi-iskw/yt-topics/internal/logging"
	"github.com/Taichi-iskw/yt-topics/internal/model"
)

const (
	topicLabel     = "Topic:"
	summaryLabel   = "Summary:"
	timestampLabel = "Timestamp:"
)

// Normalizer parses and re-sequences model responses
type Normalizer struct {
	logger *logrus.Entry
}

// NewNormalizer creates a Normalizer that logs dropped blocks to logger.
// A nil logger uses the package default.
func NewNormalizer(logger *logrus.Entry) *Normalizer {
	if logger == nil {
		logger = logging.NewLogger("segment")
	}
	return &Normalizer{logger: logger}
}

// Normalize splits, parses, sorts and re-sequences a full model response
func (n *Normalizer) Normalize(response string) []model.TopicSegment {
	segments := n.ParseBlocks(SplitBlocks(response))
	sortByOriginalStart(segments)
	return Resequence(segments)
}

// ParseBlocks parses every block, skipping the ones that are malformed
func (n *Normalizer) ParseBlocks(blocks []string) []model.TopicSegment {
	segments := make([]model.TopicSegment, 0, len(blocks))
	for i, block := range blocks {
		seg, err := ParseBlock(block)
		if err != nil {
			n.logger.WithError(err).WithFields(logrus.Fields{
				"block_index": i,
				"block":       truncate(block, 120),
			}).Warn("Skipping topic block")
			continue
		}
		segments = append(segments, seg)
	}
	return segments
}

// ParseBlock parses a single block into a segment with its original range.
// New* fields are left at zero until Resequence runs.
func ParseBlock(block string) (model.TopicSegment, error) {
	cleaned := strings.TrimSpace(StripEmphasis(block))

	topicAt := strings.Index(cleaned, topicLabel)
	if topicAt < 0 {
		return model.TopicSegment{}, missingField(topicLabel)
	}
	afterTopic := topicAt + len(topicLabel)

	summaryAt := strings.Index(cleaned[afterTopic:], summaryLabel)
	if summaryAt < 0 {
		return model.TopicSegment{}, missingField(summaryLabel)
	}
	summaryAt += afterTopic
	afterSummary := summaryAt + len(summaryLabel)

	timestampAt := strings.Index(cleaned[afterSummary:], timestampLabel)
	if timestampAt < 0 {
		return model.TopicSegment{}, missingField(timestampLabel)
	}
	timestampAt += afterSummary

	topic := strings.TrimSpace(cleaned[afterTopic:summaryAt])
	summary := FirstSentence(cleaned[afterSummary:timestampAt])
	rawRange := cleaned[timestampAt+len(timestampLabel):]

	start, end, err := ParseTimeRange(rawRange)
	if err != nil {
		return model.TopicSegment{}, err
	}

	duration := 0
	if end > start {
		duration = end - start
	}

	return model.TopicSegment{
		Topic:         topic,
		Summary:       summary,
		OriginalStart: start,
		OriginalEnd:   end,
		Duration:      duration,
	}, nil
}

// SplitBlocks breaks a model response into blocks on blank lines
func SplitBlocks(response string) []string {
	text := strings.TrimSpace(strings.ReplaceAll(response, "\r\n", "\n"))
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n\n")
}

// sortByOriginalStart orders segments by their original start, keeping the
// model's order for equal starts.
func sortByOriginalStart(segments []model.TopicSegment) {
	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].OriginalStart < segments[j].OriginalStart
	})
}

// Resequence lays segments end to end starting at zero. The input order is
// kept; callers sort first. The returned slice is a copy with SegmentIndex set.
func Resequence(segments []model.TopicSegment) []model.TopicSegment {
	out := make([]model.TopicSegment, len(segments))
	cursor := 0
	for i, seg := range segments {
		seg.SegmentIndex = i
		seg.NewStart = cursor
		seg.NewEnd = cursor + seg.Duration
		cursor = seg.NewEnd
		out[i] = seg
	}
	return out
}

// StripEmphasis removes markdown bold markers. Underscores are left alone
// since they show up in identifiers like __init__.
func StripEmphasis(s string) string {
	return strings.ReplaceAll(s, "**", "")
}

// FirstSentence returns the first sentence of text, where a sentence ends at
// '.', '!' or '?' followed by whitespace. Text without such a break is
// returned whole, trimmed.
func FirstSentence(text string) string {
	trimmed := strings.TrimSpace(text)
	runes := []rune(trimmed)
	start := 0
	for i := 0; i < len(runes)-1; i++ {
		if !isSentenceEnd(runes[i]) || !unicode.IsSpace(runes[i+1]) {
			continue
		}
		if sentence := strings.TrimSpace(string(runes[start : i+1])); sentence != "" {
			return sentence
		}
		start = i + 1
	}
	if rest := strings.TrimSpace(string(runes[start:])); rest != "" {
		return rest
	}
	return trimmed
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func missingField(label string) error {
	return errors.New(errors.CodeMalformed,
		fmt.Sprintf("block does not contain %s, %s and %s in order (missing %s)", topicLabel, summaryLabel, timestampLabel, label))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
