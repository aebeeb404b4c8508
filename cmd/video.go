package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Taichi-iskw/yt-topics/internal/config"
	"github.com/Taichi-iskw/yt-topics/internal/repository/video"
	youtubeSvc "github.com/Taichi-iskw/yt-topics/internal/service/youtube"
)

// videoCmd represents the video command
var videoCmd = &cobra.Command{
	Use:   "video",
	Short: "YouTube video operations",
	Long:  `Operations for listing YouTube videos from channels.`,
}

// videoFetchCmd fetches videos from a channel
var videoFetchCmd = &cobra.Command{
	Use:   "fetch [CHANNEL_ID]",
	Short: "Fetch videos from a YouTube channel",
	Long:  `Fetch the upload list of a YouTube channel using yt-dlp, optionally saving it to the database.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		channelID := args[0]

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		youtubeService := youtubeSvc.NewYouTubeService()

		limit, _ := cmd.Flags().GetInt("limit")
		save, _ := cmd.Flags().GetBool("save")

		videos, err := youtubeService.FetchChannelVideos(ctx, channelID, limit)
		if err != nil {
			return fmt.Errorf("failed to fetch videos: %w", err)
		}

		if len(videos) == 0 {
			cmd.Println("No videos found for this channel.")
			return nil
		}

		if save {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			dbPool, err := config.NewDatabasePool(ctx, cfg)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer config.CloseDatabasePool(dbPool)

			if err := video.NewRepository(dbPool).UpsertBatch(ctx, videos); err != nil {
				return fmt.Errorf("failed to save videos: %w", err)
			}
			cmd.Printf("%d video(s) saved.\n", len(videos))
		}

		result, err := json.MarshalIndent(videos, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format result: %w", err)
		}

		cmd.Printf("Found %d video(s):\n%s\n", len(videos), string(result))
		return nil
	},
}

// videoListCmd lists videos for a specific channel
var videoListCmd = &cobra.Command{
	Use:   "list [CHANNEL_ID]",
	Short: "List videos for a specific channel",
	Long:  `List videos for a specific channel saved in the database.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		channelID := args[0]

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		dbPool, err := config.NewDatabasePool(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer config.CloseDatabasePool(dbPool)

		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")

		videos, err := video.NewRepository(dbPool).GetByChannelID(ctx, channelID, limit, offset)
		if err != nil {
			return fmt.Errorf("failed to list videos: %w", err)
		}

		if len(videos) == 0 {
			cmd.Printf("No videos found for channel ID: %s\n", channelID)
			return nil
		}

		result, err := json.MarshalIndent(videos, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format result: %w", err)
		}

		cmd.Printf("Found %d video(s) for channel %s:\n%s\n", len(videos), channelID, string(result))
		return nil
	},
}

func init() {
	videoFetchCmd.Flags().Int("limit", 10, "Maximum number of videos to retrieve (0 = all)")
	videoFetchCmd.Flags().Bool("save", false, "Save the fetched videos to the database")

	videoListCmd.Flags().Int("limit", 10, "Maximum number of videos to retrieve")
	videoListCmd.Flags().Int("offset", 0, "Number of videos to skip")

	videoCmd.AddCommand(videoFetchCmd)
	videoCmd.AddCommand(videoListCmd)
	rootCmd.AddCommand(videoCmd)
}
