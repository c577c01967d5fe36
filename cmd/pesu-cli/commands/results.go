package commands

import (
	"fmt"
	"os"

	"pesuassist-backend/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(resultsCmd)
}

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Shows internal and external marks per subject.",
	Run: func(cmd *cobra.Command, args []string) {
		service := newService()

		results, err := service.GetResults(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to fetch results", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Code", "Subject", "Internal 1", "Internal 2", "External", "Total"})
		for _, r := range results {
			t.AppendRow(table.Row{
				r.Code,
				r.Name,
				fmt.Sprintf("%g/%g", r.Internal.Scored, r.Internal.Total),
				fmt.Sprintf("%g/%g", r.BestInternal.Scored, r.BestInternal.Total),
				fmt.Sprintf("%g/%g", r.External.Scored, r.External.Total),
				fmt.Sprintf("%g/%g", r.Total, r.MaxMarks),
			})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
