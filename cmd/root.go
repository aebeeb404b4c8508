package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Taichi-iskw/yt-topics/internal/logging"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "yttopics",
	Short: "Summarize YouTube videos into timed topics",
	Long: `yttopics fetches a channel's uploads and transcripts with yt-dlp, asks a
generative model for topic summaries, normalizes them into a gap-free
timeline and writes per-video text records plus a CSV.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			level = "debug"
		}
		if level == "" {
			level = os.Getenv("YTTOPICS_LOG_LEVEL")
		}
		return logging.SetLevel(level)
	},
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	_ = godotenv.Load() // best-effort: load .env if present

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Shorthand for --log-level debug")
}
