package cmd

import (
	"github.com/Taichi-iskw/yt-topics/cmd/topics"
)

func init() {
	rootCmd.AddCommand(topics.NewTopicsCommand(nil))
}
