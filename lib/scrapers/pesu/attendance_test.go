package pesu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractAttendance(t *testing.T) {
	html := `
	<table>
		<tr><th>Code</th><th>Course</th><th>Attended</th><th>%</th></tr>
		<tr><td>UE22CS351</td><td>Software Engineering</td><td>58/76</td><td>76</td></tr>
		<tr><td>UE22CS352</td><td>Computer Networks</td><td>60 / 60</td><td>100</td></tr>
	</table>`

	records := ExtractAttendance(html)
	require.Len(t, records, 2)

	require.Equal(t, "UE22CS351", records[0].CourseCode)
	require.Equal(t, "Software Engineering", records[0].CourseName)
	require.Equal(t, 58, records[0].Attended)
	require.Equal(t, 76, records[0].Total)
	// recomputed from the counts, not the rendered (rounded) 76
	require.InDelta(t, 76.3158, records[0].Percentage, 0.0001)

	require.Equal(t, 60, records[1].Attended)
	require.InDelta(t, 100.0, records[1].Percentage, 0.0001)
}

func TestExtractAttendanceSkipsMalformedRows(t *testing.T) {
	html := `
	<table>
		<tr><td>UE22CS351</td><td>Software Engineering</td><td>n/a</td><td>-</td></tr>
		<tr><td>UE22CS352</td><td>Computer Networks</td><td>0/0</td><td>0</td></tr>
	</table>`

	records := ExtractAttendance(html)
	require.Len(t, records, 1)
	require.Equal(t, 0, records[0].Total)
	require.Equal(t, 0.0, records[0].Percentage)
}
