// Package report summarizes engagement per video from the tabular topic record.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Taichi-iskw/yt-topics/internal/errors"
	"github.com/Taichi-iskw/yt-topics/internal/output"
)

// Metric names accepted by Build
const (
	MetricViews      = "views"
	MetricLikes      = "likes"
	MetricComments   = "comments"
	MetricEngagement = "engagement"
)

// Entry is one video of the report
type Entry struct {
	Title          string
	Link           string
	PublishedAt    time.Time // zero when unknown
	Views          int64
	Likes          int64
	Comments       int64
	EngagementRate float64
	Topics         int
}

// Options controls filtering and ordering. Zero From/To leave that side open.
type Options struct {
	From   time.Time
	To     time.Time
	Metric string
	Top    int
}

// EngagementRate is (likes+comments)/views, or 0 for a video without views
func EngagementRate(views, likes, comments int64) float64 {
	if views <= 0 {
		return 0
	}
	return float64(likes+comments) / float64(views)
}

// Build collapses rows into one entry per video link, then filters, sorts
// descending by the chosen metric and keeps the top entries.
func Build(rows []output.Row, opts Options) ([]Entry, error) {
	metric := opts.Metric
	if metric == "" {
		metric = MetricEngagement
	}
	value, err := metricFunc(metric)
	if err != nil {
		return nil, err
	}

	byLink := make(map[string]int)
	var entries []Entry
	for _, row := range rows {
		if i, ok := byLink[row.VideoLink]; ok {
			if row.Topic != "" {
				entries[i].Topics++
			}
			continue
		}

		entry := Entry{
			Title:          row.VideoTitle,
			Link:           row.VideoLink,
			Views:          row.ViewCount,
			Likes:          row.LikeCount,
			Comments:       row.CommentCount,
			EngagementRate: EngagementRate(row.ViewCount, row.LikeCount, row.CommentCount),
		}
		if t, ok := row.PublishedTime(); ok {
			entry.PublishedAt = t
		}
		if row.Topic != "" {
			entry.Topics = 1
		}
		byLink[row.VideoLink] = len(entries)
		entries = append(entries, entry)
	}

	filtered := entries[:0]
	for _, e := range entries {
		if inRange(e.PublishedAt, opts.From, opts.To) {
			filtered = append(filtered, e)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return value(filtered[i]) > value(filtered[j])
	})

	if opts.Top > 0 && len(filtered) > opts.Top {
		filtered = filtered[:opts.Top]
	}
	return filtered, nil
}

func inRange(t, from, to time.Time) bool {
	if from.IsZero() && to.IsZero() {
		return true
	}
	if t.IsZero() {
		return false
	}
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && t.After(to) {
		return false
	}
	return true
}

func metricFunc(metric string) (func(Entry) float64, error) {
	switch strings.ToLower(metric) {
	case MetricViews:
		return func(e Entry) float64 { return float64(e.Views) }, nil
	case MetricLikes:
		return func(e Entry) float64 { return float64(e.Likes) }, nil
	case MetricComments:
		return func(e Entry) float64 { return float64(e.Comments) }, nil
	case MetricEngagement:
		return func(e Entry) float64 { return e.EngagementRate }, nil
	default:
		return nil, errors.New(errors.CodeInvalidArg, fmt.Sprintf("unknown metric %q (want views, likes, comments or engagement)", metric))
	}
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Render draws the entries as a table followed by a totals line
func Render(entries []Entry) string {
	if len(entries) == 0 {
		return mutedStyle.Render("No videos match.") + "\n"
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(mutedStyle).
		Headers("#", "Title", "Published", "Views", "Likes", "Comments", "Engagement", "Topics").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0 || col >= 3:
				return numberStyle
			default:
				return cellStyle
			}
		})

	var views, likes, comments int64
	for i, e := range entries {
		published := "-"
		if !e.PublishedAt.IsZero() {
			published = e.PublishedAt.Format(output.PublishedAtLayout)
		}
		t.Row(
			fmt.Sprintf("%d", i+1),
			shorten(e.Title, 48),
			published,
			fmt.Sprintf("%d", e.Views),
			fmt.Sprintf("%d", e.Likes),
			fmt.Sprintf("%d", e.Comments),
			FormatRate(e.EngagementRate),
			fmt.Sprintf("%d", e.Topics),
		)
		views += e.Views
		likes += e.Likes
		comments += e.Comments
	}

	totals := fmt.Sprintf("%d videos, %d views, overall engagement %s",
		len(entries), views, FormatRate(EngagementRate(views, likes, comments)))
	return t.Render() + "\n" + mutedStyle.Render(totals) + "\n"
}

// FormatRate renders a rate as a percentage with two decimals
func FormatRate(rate float64) string {
	return fmt.Sprintf("%.2f%%", rate*100)
}

func shorten(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
