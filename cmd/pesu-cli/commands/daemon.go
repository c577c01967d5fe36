package commands

import (
	"time"

	"pesuassist-backend/lib/telemetry"

	"github.com/spf13/cobra"
)

var daemonInterval *time.Duration

func init() {
	daemonInterval = daemonCmd.Flags().Duration("interval", time.Hour, "How often to sync.")
	rootCmd.AddCommand(daemonCmd)
}

var daemonCmd = &cobra.Command{
	Use:   "daemon [--interval <duration>]",
	Short: "Keeps the snapshot database synced on an interval until interrupted.",
	Run: func(cmd *cobra.Command, args []string) {
		telemetry.InstrumentPerfStats(cmd.Context())

		service := newService()
		service.RefreshDaemon(cmd.Context(), *daemonInterval)
	},
}
