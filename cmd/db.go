package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Taichi-iskw/yt-topics/internal/database"
)

// dbCmd represents the db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database operations",
	Long:  `Manage the PostgreSQL schema used by --save.`,
}

// dbMigrateCmd applies or rolls back the embedded migrations
var dbMigrateCmd = &cobra.Command{
	Use:       "migrate [up|down]",
	Short:     "Run database migrations",
	Long:      `Apply all pending migrations (up, the default) or roll them back (down).`,
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.DatabaseURL == "" {
			return fmt.Errorf("database_url is not configured")
		}

		direction := "up"
		if len(args) > 0 {
			direction = args[0]
		}

		switch direction {
		case "down":
			steps, _ := cmd.Flags().GetInt("steps")
			if err := database.MigrateDown(cfg.DatabaseURL, steps); err != nil {
				return err
			}
		default:
			if err := database.MigrateUp(cfg.DatabaseURL); err != nil {
				return err
			}
		}

		version, dirty, err := database.Version(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		cmd.Printf("Schema version: %d (dirty: %t)\n", version, dirty)
		return nil
	},
}

func init() {
	dbMigrateCmd.Flags().Int("steps", 0, "Number of migrations to roll back with down (0 = all)")

	dbCmd.AddCommand(dbMigrateCmd)
	rootCmd.AddCommand(dbCmd)
}
