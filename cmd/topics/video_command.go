package topics

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Taichi-iskw/yt-topics/internal/output"
)

// NewVideoCommand creates the command that processes a single video
func NewVideoCommand(factory Factory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "video [VIDEO_ID]",
		Short: "Summarize one video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			videoID := args[0]

			format, _ := cmd.Flags().GetString("format")
			formatter, err := GetFormatter(format)
			if err != nil {
				return err
			}

			cfg, err := factory.Config()
			if err != nil {
				return err
			}
			if dir, _ := cmd.Flags().GetString("output-dir"); dir != "" {
				cfg.OutputDir = dir
			}
			save, _ := cmd.Flags().GetBool("save")
			csvPath, _ := cmd.Flags().GetString("csv")

			ctx := cmd.Context()
			processor, cleanup, err := factory.Processor(ctx, cfg, save)
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := processor.ProcessVideo(ctx, videoID)
			if err != nil {
				return fmt.Errorf("failed to process video: %w", err)
			}

			if csvPath != "" {
				if err := writeCSVFile(csvPath, result.Rows); err != nil {
					return err
				}
			}

			out, err := formatter.Format(&output.TopicRecord{
				VideoID:    result.Video.ID,
				VideoTitle: result.Video.Title,
				Segments:   result.Segments,
			})
			if err != nil {
				return err
			}
			cmd.Print(out)
			if result.TopicFile != "" {
				cmd.Printf("Saved to %s\n", result.TopicFile)
			}
			return nil
		},
	}

	cmd.Flags().String("format", "text", "Output format (text, json, srt)")
	cmd.Flags().String("csv", "", "Also write the rows of this video to a CSV file")
	cmd.Flags().String("output-dir", "", "Directory for the topic record (default: output_dir from config)")
	cmd.Flags().Bool("save", false, "Also save the video and its topic segments to the database")

	return cmd
}
