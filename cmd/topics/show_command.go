package topics

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Taichi-iskw/yt-topics/internal/output"
)

// NewShowCommand creates the command that prints stored topic segments
func NewShowCommand(factory Factory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [VIDEO_ID]",
		Short: "Show stored topics of a video",
		Long:  `Print the topic segments of a video from the database, or from a topic record with --file.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			formatter, err := GetFormatter(format)
			if err != nil {
				return err
			}

			var record *output.TopicRecord
			if path, _ := cmd.Flags().GetString("file"); path != "" {
				record, err = output.ReadTopicFile(path)
				if err != nil {
					return fmt.Errorf("failed to read topic file: %w", err)
				}
			} else {
				if len(args) == 0 {
					return fmt.Errorf("a VIDEO_ID or --file is required")
				}
				record, err = loadRecord(cmd, factory, args[0])
				if err != nil {
					return err
				}
			}

			out, err := formatter.Format(record)
			if err != nil {
				return err
			}
			cmd.Print(out)
			return nil
		},
	}

	cmd.Flags().String("format", "text", "Output format (text, json, srt)")
	cmd.Flags().String("file", "", "Read a topic record file instead of the database")

	return cmd
}

func loadRecord(cmd *cobra.Command, factory Factory, videoID string) (*output.TopicRecord, error) {
	cfg, err := factory.Config()
	if err != nil {
		return nil, err
	}

	repo, cleanup, err := factory.TopicRepository(cmd.Context(), cfg)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	segments, err := repo.GetByVideoID(cmd.Context(), videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to get topic segments: %w", err)
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("no topic segments stored for video %s", videoID)
	}

	return &output.TopicRecord{VideoID: videoID, Segments: segments}, nil
}
