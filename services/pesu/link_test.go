package pesu

import (
	"testing"

	scraper "pesuassist-backend/lib/scrapers/pesu"

	"github.com/stretchr/testify/require"
)

func TestLinkTimetable(t *testing.T) {
	subjects := []scraper.Subject{
		{CourseId: "1652", Code: "UE22CS351", Name: "Software Engineering"},
		{CourseId: "1653", Code: "UE22CS352", Name: "Computer Networks"},
		{CourseId: "1654", Code: "UE22MA241", Name: "Linear Algebra and its Applications"},
	}
	slots := []scraper.TimetableSlot{
		{Day: 1, Period: 1, SubjectCode: "UE22CS351", SubjectName: "Software Engineering"},
		{Day: 1, Period: 2, SubjectCode: "UE22CS351", SubjectName: "Software Engineering"},
		{Day: 2, Period: 1, SubjectCode: "LA", SubjectName: "Linear Algebra & Applications"},
	}

	links := LinkTimetable(slots, subjects)
	require.Len(t, links, 2)

	byCode := map[string]TimetableLink{}
	for _, l := range links {
		byCode[l.SlotCode] = l
	}

	exact := byCode["UE22CS351"]
	require.Equal(t, "1652", exact.CourseId)
	require.Equal(t, 1.0, exact.Correlation)

	fuzzy := byCode["LA"]
	require.Equal(t, "1654", fuzzy.CourseId)
	require.Greater(t, fuzzy.Correlation, 0.75)
	require.Less(t, fuzzy.Correlation, 1.0)
}

func TestLinkTimetableNoMatchBelowThreshold(t *testing.T) {
	subjects := []scraper.Subject{
		{CourseId: "1652", Code: "UE22CS351", Name: "Software Engineering"},
	}
	slots := []scraper.TimetableSlot{
		{Day: 1, Period: 1, SubjectCode: "PE", SubjectName: "Physical Education"},
	}
	require.Empty(t, LinkTimetable(slots, subjects))
}

func TestLinkTimetableEmptyInputs(t *testing.T) {
	require.Empty(t, LinkTimetable(nil, nil))
	require.Empty(t, LinkTimetable([]scraper.TimetableSlot{{Day: 1, Period: 1}}, nil))
}
