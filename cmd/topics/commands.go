package topics

import (
	"github.com/spf13/cobra"
)

// NewTopicsCommand creates the main topics command. A nil factory uses the
// real services.
func NewTopicsCommand(factory Factory) *cobra.Command {
	if factory == nil {
		factory = NewServiceFactory()
	}

	cmd := &cobra.Command{
		Use:   "topics",
		Short: "Generate and inspect topic segments",
		Long:  `Summarize video transcripts into topics, normalize model answers and show stored results.`,
	}

	cmd.AddCommand(NewProcessCommand(factory))
	cmd.AddCommand(NewVideoCommand(factory))
	cmd.AddCommand(NewParseCommand())
	cmd.AddCommand(NewShowCommand(factory))

	return cmd
}
