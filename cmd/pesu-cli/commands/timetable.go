package commands

import (
	"os"

	"pesuassist-backend/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(timetableCmd)
}

var dayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

var timetableCmd = &cobra.Command{
	Use:   "timetable",
	Short: "Shows the weekly class timetable.",
	Run: func(cmd *cobra.Command, args []string) {
		service := newService()

		slots, err := service.GetTimetable(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to fetch timetable", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Day", "Period", "Time", "Subject", "Room", "Teacher"})
		for _, slot := range slots {
			day := ""
			if slot.Day >= 1 && slot.Day <= len(dayNames) {
				day = dayNames[slot.Day-1]
			}
			subject := slot.SubjectCode
			if subject == "" {
				subject = slot.DisplayCode
			}
			t.AppendRow(table.Row{
				day,
				slot.Period,
				slot.PeriodTime,
				subject,
				slot.Room,
				slot.Teacher,
			})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
