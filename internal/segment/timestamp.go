package segment

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Taichi-iskw/yt-topics/internal/errors"
)

var (
	// clockRE matches a full HH:MM:SS value with two-digit fields.
	clockRE = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2})$`)

	// rangeRE is anchored at the start only; text after the end clock is ignored.
	// Whitespace around the dash is optional.
	rangeRE = regexp.MustCompile(`^(\d{2}:\d{2}:\d{2})\s*-\s*(\d{2}:\d{2}:\d{2})`)
)

// SecondsToTimestamp formats seconds as HH:MM:SS. The hour field is not
// clamped and grows past two digits for long durations.
func SecondsToTimestamp(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// ParseTimestamp converts an HH:MM:SS value to total seconds
func ParseTimestamp(ts string) (int, error) {
	match := clockRE.FindStringSubmatch(strings.TrimSpace(ts))
	if match == nil {
		return 0, errors.New(errors.CodeMalformed, fmt.Sprintf("invalid timestamp %q (expected HH:MM:SS)", ts))
	}
	return clockSeconds(match[1], match[2], match[3]), nil
}

// ParseTimeRange parses "HH:MM:SS - HH:MM:SS" into start and end seconds
func ParseTimeRange(s string) (start, end int, err error) {
	match := rangeRE.FindStringSubmatch(strings.TrimSpace(s))
	if match == nil {
		return 0, 0, errors.New(errors.CodeMalformed, fmt.Sprintf("invalid time range %q (expected HH:MM:SS - HH:MM:SS)", s))
	}
	if start, err = ParseTimestamp(match[1]); err != nil {
		return 0, 0, err
	}
	if end, err = ParseTimestamp(match[2]); err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// FormatRange renders a start/end pair the way the text record stores it
func FormatRange(start, end int) string {
	return SecondsToTimestamp(start) + " - " + SecondsToTimestamp(end)
}

func clockSeconds(h, m, s string) int {
	hours, _ := strconv.Atoi(h)
	minutes, _ := strconv.Atoi(m)
	secs, _ := strconv.Atoi(s)
	return hours*3600 + minutes*60 + secs
}
