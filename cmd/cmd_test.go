package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Taichi-iskw/yt-topics/internal/output"
)

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

func resetFlags(t *testing.T, cmd *cobra.Command) {
	t.Helper()
	t.Cleanup(func() {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	})
}

func TestConfigSchema(t *testing.T) {
	out, err := configSchema()
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(out, &schema))

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "delay_between_videos")
	assert.Contains(t, props, "transcript_chars")
	assert.Contains(t, props, "generator")
	assert.Equal(t, "yttopics configuration", schema["title"])
}

func TestConfigInitAndShow(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("DATABASE_URL", "")
	t.Setenv("GEMINI_API_KEY", "gm-secret-1234")

	out, err := executeRoot(t, "config", "init", "postgres://u:pw@localhost:5432/yttopics")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(home, ".yt-topics", "config.yaml"))

	out, err = executeRoot(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "****1234")
	assert.NotContains(t, out, "gm-secret-1234")
	assert.NotContains(t, out, ":pw@")
}

func TestReport(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	resetFlags(t, reportCmd)

	rows := []output.Row{
		{VideoTitle: "Popular", VideoLink: "https://y/p", Topic: "t", PublishedAt: "2024-01-01", ViewCount: 1000, LikeCount: 10},
		{VideoTitle: "Engaging", VideoLink: "https://y/e", Topic: "t", PublishedAt: "2024-02-01", ViewCount: 100, LikeCount: 20, CommentCount: 5},
	}
	path := filepath.Join(t.TempDir(), "topics.csv")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, output.WriteCSV(f, rows))
	require.NoError(t, f.Close())

	out, err := executeRoot(t, "report", "--csv", path, "--metric", "views", "--top", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Popular")
	assert.NotContains(t, out, "Engaging")

	_, err = executeRoot(t, "report", "--csv", path, "--from", "Jan 1")
	assert.ErrorContains(t, err, "invalid --from date")
}
