package topics

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Taichi-iskw/yt-topics/internal/output"
)

// NewProcessCommand creates the command that processes a channel's uploads
func NewProcessCommand(factory Factory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process [CHANNEL_ID]",
		Short: "Summarize the latest uploads of a channel",
		Long: `Fetch the latest uploads of a channel, summarize each transcript into topics,
write one text record per video and a CSV with one row per topic.
The channel defaults to channel_id from the configuration.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := factory.Config()
			if err != nil {
				return err
			}

			channelID := cfg.ChannelID
			if len(args) > 0 {
				channelID = args[0]
			}
			if channelID == "" {
				return fmt.Errorf("no channel ID given and channel_id is not configured")
			}

			limit := cfg.NumVideos
			if cmd.Flags().Changed("limit") {
				limit, _ = cmd.Flags().GetInt("limit")
			}
			if dir, _ := cmd.Flags().GetString("output-dir"); dir != "" {
				cfg.OutputDir = dir
			}
			csvPath := cfg.OutputCSV
			if cmd.Flags().Changed("csv") {
				csvPath, _ = cmd.Flags().GetString("csv")
			}
			save, _ := cmd.Flags().GetBool("save")

			ctx := cmd.Context()
			processor, cleanup, err := factory.Processor(ctx, cfg, save)
			if err != nil {
				return err
			}
			defer cleanup()

			result, runErr := processor.ProcessChannel(ctx, channelID, limit)
			if result == nil {
				return fmt.Errorf("failed to process channel: %w", runErr)
			}

			// rows gathered before a cancellation are still written
			if csvPath != "" {
				if err := writeCSVFile(csvPath, result.Rows); err != nil {
					return err
				}
				cmd.Printf("Wrote %d row(s) to %s\n", len(result.Rows), csvPath)
			}
			cmd.Printf("Processed %d video(s), %d failed. Topic records are in %s\n",
				result.Processed, result.Failed, cfg.OutputDir)

			if runErr != nil {
				return fmt.Errorf("processing stopped early: %w", runErr)
			}
			return nil
		},
	}

	cmd.Flags().Int("limit", 0, "Number of latest videos to process (default: num_videos from config)")
	cmd.Flags().String("csv", "", "CSV output path (default: output_csv from config; empty disables)")
	cmd.Flags().String("output-dir", "", "Directory for per-video topic records (default: output_dir from config)")
	cmd.Flags().Bool("save", false, "Also save videos and topic segments to the database")

	return cmd
}

func writeCSVFile(path string, rows []output.Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	if err := output.WriteCSV(f, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
