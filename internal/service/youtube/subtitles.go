package youtube

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/Taichi-iskw/yt-topics/internal/model"
)

var (
	// cue timing line, e.g. "00:00:00.160 --> 00:00:02.350 align:start position:0%"
	cueTimingRE = regexp.MustCompile(`^((?:\d+:)?\d{2}:\d{2}\.\d{3})\s+-->\s+((?:\d+:)?\d{2}:\d{2}\.\d{3})`)
	tagRE       = regexp.MustCompile(`<[^>]*>`)
)

// ParseVTT reads WebVTT cues into transcript fragments.
//
// Auto-generated captions repeat the previous line at the top of every cue;
// a line equal to the last emitted line is dropped so the joined text reads
// once.
func ParseVTT(r io.Reader) ([]model.TranscriptFragment, error) {
	var fragments []model.TranscriptFragment
	var lastLine string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		match := cueTimingRE.FindStringSubmatch(strings.TrimSpace(scanner.Text()))
		if match == nil {
			continue
		}
		start, err1 := parseCueTime(match[1])
		end, err2 := parseCueTime(match[2])

		var fresh []string
		for scanner.Scan() {
			// cues end at an empty line; whitespace-only lines are cue content
			line := strings.TrimRight(scanner.Text(), "\r")
			if line == "" {
				break
			}
			text := cleanCueText(line)
			if text == "" || text == lastLine {
				continue
			}
			fresh = append(fresh, text)
			lastLine = text
		}

		if err1 != nil || err2 != nil || len(fresh) == 0 {
			continue
		}
		fragments = append(fragments, model.TranscriptFragment{
			Start: start,
			End:   end,
			Text:  strings.Join(fresh, " "),
		})
	}

	return fragments, scanner.Err()
}

// TranscriptText joins fragment texts with single spaces
func TranscriptText(fragments []model.TranscriptFragment) string {
	parts := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if t := strings.TrimSpace(f.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

func cleanCueText(line string) string {
	text := tagRE.ReplaceAllString(line, "")
	text = strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">", "&nbsp;", " ").Replace(text)
	return strings.Join(strings.Fields(text), " ")
}

// parseCueTime converts "HH:MM:SS.mmm" or "MM:SS.mmm" to seconds
func parseCueTime(s string) (float64, error) {
	parts := strings.Split(s, ":")
	total := 0.0
	for _, part := range parts {
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return 0, err
		}
		total = total*60 + v
	}
	return total, nil
}
