package model

import "time"

// Video represents YouTube video information with its engagement counters
type Video struct {
	ID           string     `json:"id" db:"id"`
	ChannelID    string     `json:"channel_id" db:"channel_id"`
	Title        string     `json:"title" db:"title"`
	URL          string     `json:"url" db:"url"`
	Duration     int        `json:"duration" db:"duration"` // duration in seconds
	PublishedAt  *time.Time `json:"published_at,omitempty" db:"published_at"`
	ViewCount    int64      `json:"view_count" db:"view_count"`
	LikeCount    int64      `json:"like_count" db:"like_count"`
	CommentCount int64      `json:"comment_count" db:"comment_count"`
	Transcript   string     `json:"transcript,omitempty" db:"transcript"`
}

// WatchURL returns the canonical watch link for the video
func (v *Video) WatchURL() string {
	if v.URL != "" {
		return v.URL
	}
	return "https://www.youtube.com/watch?v=" + v.ID
}

// TranscriptFragment is one timed piece of caption text
type TranscriptFragment struct {
	Start float64 `json:"start"` // Start time in seconds
	End   float64 `json:"end"`   // End time in seconds
	Text  string  `json:"text"`
}

// TopicSegment is a topic-labelled time range derived from a transcript.
// Original* fields carry the model's range, New* fields the gap-free range.
type TopicSegment struct {
	ID            int    `json:"id,omitempty" db:"id"`
	VideoID       string `json:"video_id,omitempty" db:"video_id"`
	SegmentIndex  int    `json:"segment_index" db:"segment_index"`
	Topic         string `json:"topic" db:"topic"`
	Summary       string `json:"summary" db:"summary"`
	OriginalStart int    `json:"original_start" db:"original_start"` // seconds
	OriginalEnd   int    `json:"original_end" db:"original_end"`     // seconds
	Duration      int    `json:"duration" db:"duration"`             // seconds
	NewStart      int    `json:"new_start" db:"new_start"`           // seconds
	NewEnd        int    `json:"new_end" db:"new_end"`               // seconds
}
