package cli

import (
	"context"
	"time"
	"yara_assistant/internal/services"
	"yara_assistant/src/logger"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the sample customers, products and transactions into the business database",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return SeedDatabase(ctx, appConfig.Database.Path, time.Now())
	},
}

// SeedDatabase creates the database at path if needed and loads the sample data
func SeedDatabase(ctx context.Context, path string, now time.Time) error {
	store, err := services.NewSQLStore(ctx, path)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := services.Seed(ctx, store, now); err != nil {
		return err
	}

	logger.Info().Str("path", path).Msg("🌱 Sample data loaded")
	return nil
}
