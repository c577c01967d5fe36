package commands

import (
	"fmt"
	"os"
	"slices"

	scraper "pesuassist-backend/lib/scrapers/pesu"
	"pesuassist-backend/lib/serviceutil"
	"pesuassist-backend/services/pesu"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var attendanceSem *string

func init() {
	attendanceSem = attendanceCmd.Flags().String("sem", "", "Semester id to report on, defaults to the latest.")
	rootCmd.AddCommand(attendanceCmd)
}

// resolveSemester picks the flagged semester, or the highest-numbered
// one the portal offers when no flag is given.
func resolveSemester(cmd *cobra.Command, service pesu.Service, flagged string) scraper.Semester {
	semesters, err := service.GetSemesters(cmd.Context())
	if err != nil {
		serviceutil.Fatal("failed to fetch semesters", err)
	}
	if len(semesters) == 0 {
		serviceutil.Fatal("portal reported no semesters", nil)
	}
	if flagged != "" {
		for _, sem := range semesters {
			if sem.SemId == flagged {
				return sem
			}
		}
		serviceutil.Fatal(fmt.Sprintf("no semester with id %q", flagged), nil)
	}
	return slices.MaxFunc(semesters, func(a, b scraper.Semester) int {
		return a.SemNumber - b.SemNumber
	})
}

var attendanceCmd = &cobra.Command{
	Use:   "attendance [--sem <semid>]",
	Short: "Shows per-course attendance for a semester.",
	Run: func(cmd *cobra.Command, args []string) {
		service := newService()
		sem := resolveSemester(cmd, service, *attendanceSem)

		records, err := service.GetAttendance(cmd.Context(), sem.SemId)
		if err != nil {
			serviceutil.Fatal("failed to fetch attendance", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Code", "Course", "Attended", "%"})
		for _, r := range records {
			t.AppendRow(table.Row{
				r.CourseCode,
				r.CourseName,
				fmt.Sprintf("%d/%d", r.Attended, r.Total),
				fmt.Sprintf("%.2f", r.Percentage),
			})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
