package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Taichi-iskw/yt-topics/internal/config"
	"github.com/Taichi-iskw/yt-topics/internal/output"
	"github.com/Taichi-iskw/yt-topics/internal/report"
)

// reportCmd renders the engagement report from a topics CSV
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show engagement per video from a topics CSV",
	Long: `Read the CSV written by "topics process", collapse it to one entry per video,
and rank the videos by views, likes, comments or engagement rate
((likes + comments) / views).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		csvPath, _ := cmd.Flags().GetString("csv")
		if csvPath == "" {
			csvPath = defaultCSVPath()
		}

		opts := report.Options{}
		opts.Metric, _ = cmd.Flags().GetString("metric")
		opts.Top, _ = cmd.Flags().GetInt("top")

		var err error
		if opts.From, err = dateFlag(cmd, "from"); err != nil {
			return err
		}
		if opts.To, err = dateFlag(cmd, "to"); err != nil {
			return err
		}

		f, err := os.Open(csvPath)
		if err != nil {
			return fmt.Errorf("failed to open CSV: %w", err)
		}
		defer f.Close()

		rows, err := output.ReadCSV(f)
		if err != nil {
			return err
		}

		entries, err := report.Build(rows, opts)
		if err != nil {
			return err
		}

		cmd.Print(report.Render(entries))
		return nil
	},
}

// defaultCSVPath prefers output_csv from the configuration file and falls
// back to the built-in default when there is no configuration.
func defaultCSVPath() string {
	if cfg, err := config.NewConfig(); err == nil && cfg.OutputCSV != "" {
		return cfg.OutputCSV
	}
	return config.Default().OutputCSV
}

func dateFlag(cmd *cobra.Command, name string) (time.Time, error) {
	value, _ := cmd.Flags().GetString(name)
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(output.PublishedAtLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s date %q (want YYYY-MM-DD)", name, value)
	}
	return t, nil
}

func init() {
	reportCmd.Flags().String("csv", "", "CSV written by topics process (default: output_csv from config)")
	reportCmd.Flags().String("from", "", "Only videos published on or after this date (YYYY-MM-DD)")
	reportCmd.Flags().String("to", "", "Only videos published on or before this date (YYYY-MM-DD)")
	reportCmd.Flags().String("metric", report.MetricEngagement, "Sort by views, likes, comments or engagement")
	reportCmd.Flags().Int("top", 0, "Show only the first N videos (0 = all)")

	rootCmd.AddCommand(reportCmd)
}
