package output

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Taichi-iskw/yt-topics/internal/errors"
	"github.com/Taichi-iskw/yt-topics/internal/model"
	"github.com/Taichi-iskw/yt-topics/internal/segment"
)

// PublishedAtLayout is the date format of the Published At column
const PublishedAtLayout = "2006-01-02"

// TranscriptNotAvailable is stored in place of a transcript that could not be fetched
const TranscriptNotAvailable = "Transcript not available."

// Header is the column order of the tabular record
var Header = []string{
	"Video Title",
	"Video Link",
	"Transcript",
	"Topic",
	"Summary",
	"Time Stamp",
	"Published At",
	"View Count",
	"Like Count",
	"Comment Count",
}

// Row is one line of the tabular record: a single topic of a video
type Row struct {
	VideoTitle   string
	VideoLink    string
	Transcript   string
	Topic        string
	Summary      string
	TimeStamp    string
	PublishedAt  string
	ViewCount    int64
	LikeCount    int64
	CommentCount int64
}

// RowsForVideo builds one row per segment. A video without segments still
// gets a single row carrying its metadata.
func RowsForVideo(video *model.Video, segments []model.TopicSegment) []Row {
	base := Row{
		VideoTitle:   video.Title,
		VideoLink:    video.WatchURL(),
		Transcript:   video.Transcript,
		ViewCount:    video.ViewCount,
		LikeCount:    video.LikeCount,
		CommentCount: video.CommentCount,
	}
	if base.Transcript == "" {
		base.Transcript = TranscriptNotAvailable
	}
	if video.PublishedAt != nil {
		base.PublishedAt = video.PublishedAt.UTC().Format(PublishedAtLayout)
	}

	if len(segments) == 0 {
		return []Row{base}
	}

	rows := make([]Row, 0, len(segments))
	for _, seg := range segments {
		row := base
		row.Topic = seg.Topic
		row.Summary = seg.Summary
		row.TimeStamp = segment.FormatRange(seg.NewStart, seg.NewEnd)
		rows = append(rows, row)
	}
	return rows
}

// PublishedTime parses the Published At column. ok is false when it is empty
// or not a date.
func (r Row) PublishedTime() (t time.Time, ok bool) {
	if r.PublishedAt == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(PublishedAtLayout, r.PublishedAt); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, r.PublishedAt); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func (r Row) record() []string {
	return []string{
		r.VideoTitle,
		r.VideoLink,
		r.Transcript,
		r.Topic,
		r.Summary,
		r.TimeStamp,
		r.PublishedAt,
		strconv.FormatInt(r.ViewCount, 10),
		strconv.FormatInt(r.LikeCount, 10),
		strconv.FormatInt(r.CommentCount, 10),
	}
}

// WriteCSV writes the header and rows
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to write CSV header")
	}
	for _, row := range rows {
		if err := cw.Write(row.record()); err != nil {
			return errors.Wrap(err, errors.CodeInternal, "failed to write CSV row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to flush CSV")
	}
	return nil
}

// ReadCSV reads a tabular record. Columns are matched by header name so
// extra columns are ignored; counters that are not integers read as 0.
func ReadCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeMalformed, "failed to read CSV header")
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	if _, ok := index["Video Link"]; !ok {
		return nil, errors.New(errors.CodeMalformed, "CSV has no Video Link column")
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeMalformed, "failed to read CSV row")
		}

		field := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return rec[i]
		}
		rows = append(rows, Row{
			VideoTitle:   field("Video Title"),
			VideoLink:    field("Video Link"),
			Transcript:   field("Transcript"),
			Topic:        field("Topic"),
			Summary:      field("Summary"),
			TimeStamp:    field("Time Stamp"),
			PublishedAt:  field("Published At"),
			ViewCount:    parseCount(field("View Count")),
			LikeCount:    parseCount(field("Like Count")),
			CommentCount: parseCount(field("Comment Count")),
		})
	}
	return rows, nil
}

func parseCount(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	// spreadsheet exports may write counters as floats
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f)
	}
	return 0
}
