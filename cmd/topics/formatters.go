package topics

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Taichi-iskw/yt-topics/internal/output"
)

// Formatter defines interface for output formatting
type Formatter interface {
	Format(record *output.TopicRecord) (string, error)
}

// TextFormatter formats output as the per-video text record
type TextFormatter struct{}

// Format formats the record as plain text
func (f *TextFormatter) Format(record *output.TopicRecord) (string, error) {
	return output.FormatTopicRecord(record), nil
}

// JSONFormatter formats output as JSON
type JSONFormatter struct{}

// Format formats the record as JSON
func (f *JSONFormatter) Format(record *output.TopicRecord) (string, error) {
	jsonBytes, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(jsonBytes), nil
}

// SRTFormatter formats the re-sequenced segments as SRT cues
type SRTFormatter struct{}

// Format formats the record as SRT
func (f *SRTFormatter) Format(record *output.TopicRecord) (string, error) {
	if len(record.Segments) == 0 {
		return "", fmt.Errorf("SRT format requires at least one topic segment")
	}

	var out strings.Builder
	for i, seg := range record.Segments {
		out.WriteString(fmt.Sprintf("%d\n", i+1))
		out.WriteString(fmt.Sprintf("%s --> %s\n", formatSRTTime(seg.NewStart), formatSRTTime(seg.NewEnd)))
		out.WriteString(seg.Topic)
		if seg.Summary != "" {
			out.WriteString("\n" + seg.Summary)
		}
		out.WriteString("\n\n")
	}

	return out.String(), nil
}

// formatSRTTime formats seconds into SRT time format (00:00:00,000)
func formatSRTTime(seconds int) string {
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	return fmt.Sprintf("%02d:%02d:%02d,000", hours, minutes, secs)
}

// GetFormatter returns the appropriate formatter based on format string
func GetFormatter(format string) (Formatter, error) {
	switch strings.ToLower(format) {
	case "text", "txt", "":
		return &TextFormatter{}, nil
	case "json":
		return &JSONFormatter{}, nil
	case "srt":
		return &SRTFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
