package topics

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Taichi-iskw/yt-topics/internal/output"
	"github.com/Taichi-iskw/yt-topics/internal/segment"
)

// NewParseCommand creates the command that normalizes a saved model response
func NewParseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [FILE]",
		Short: "Normalize a saved model response",
		Long: `Read a model response (use - for stdin), drop malformed topic blocks,
sort the rest by start time and print them on a gap-free timeline.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			formatter, err := GetFormatter(format)
			if err != nil {
				return err
			}

			response, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			videoID, _ := cmd.Flags().GetString("video-id")
			title, _ := cmd.Flags().GetString("title")

			segments := segment.NewNormalizer(nil).Normalize(response)
			for i := range segments {
				segments[i].VideoID = videoID
			}

			out, err := formatter.Format(&output.TopicRecord{
				VideoID:    videoID,
				VideoTitle: title,
				Segments:   segments,
			})
			if err != nil {
				return err
			}
			cmd.Print(out)
			return nil
		},
	}

	cmd.Flags().String("format", "text", "Output format (text, json, srt)")
	cmd.Flags().String("video-id", "-", "Video ID shown in the record")
	cmd.Flags().String("title", "", "Video title shown in the record")

	return cmd
}

func readInput(cmd *cobra.Command, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read model response: %w", err)
	}
	return string(data), nil
}
