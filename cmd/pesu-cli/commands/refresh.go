package commands

import (
	"os"
	"time"

	"pesuassist-backend/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(refreshCmd)
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Syncs every domain into the local snapshot database.",
	Run: func(cmd *cobra.Command, args []string) {
		service := newService()

		t1 := time.Now()
		report, err := service.RefreshAll(cmd.Context())
		if err != nil {
			serviceutil.Fatal("refresh failed", err)
		}
		elapsed := time.Since(t1)

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Domain", "Changed"})
		for domain, changed := range report.Changed {
			t.AppendRow(table.Row{string(domain), changed})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()

		cmd.Printf("refreshed in %.2fs\n", elapsed.Seconds())
	},
}
