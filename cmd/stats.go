package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"habit-tracker/backend/internal/server"
	"habit-tracker/backend/internal/services"
	"habit-tracker/backend/internal/stats"
)

var statsMode string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print streak and completion stats for the configured store",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfigAndLogger()
		if err != nil {
			return err
		}
		defer log.Sync()

		if statsMode == "" {
			statsMode = cfg.Stats.StreakMode
		}
		mode, err := stats.ParseMode(statsMode)
		if err != nil {
			return err
		}

		store, _, err := server.OpenStore(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer store.Close()

		result, err := services.NewStatsService(store, stats.NewCalculator(mode)).GetStats(cmd.Context())
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	statsCmd.Flags().StringVar(&statsMode, "mode", "", "streak mode: distinct or consecutive (default from STATS_STREAK_MODE)")
	rootCmd.AddCommand(statsCmd)
}
