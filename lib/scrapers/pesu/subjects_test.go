package pesu

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func subjectsTable(rows string) string {
	return fmt.Sprintf(`
	<div id="getStudentSubjectsBasedOnSemesters">
		<table class="table">
			<thead><tr><th>Code</th><th>Title</th><th>Credits</th></tr></thead>
			<tbody>%s</tbody>
		</table>
	</div>`, rows)
}

func TestExtractSubjectsCourseIdStrategies(t *testing.T) {
	testCases := []struct {
		name string
		row  string
	}{
		{
			"row handler",
			`<tr onclick="clickOnCourseContent('8123')"><td>UE22CS351</td><td>Software Engineering</td><td>4</td></tr>`,
		},
		{
			"first cell handler",
			`<tr><td onclick="clickOnCourseContent('8123')">UE22CS351</td><td>Software Engineering</td><td>4</td></tr>`,
		},
		{
			"child anchor handler",
			`<tr><td><a onclick="clickoncoursecontent( '8123' )">UE22CS351</a></td><td>Software Engineering</td><td>4</td></tr>`,
		},
		{
			"raw markup",
			`<tr><td>UE22CS351</td><td data-action="clickOnCourseContent('8123')">Software Engineering</td><td>4</td></tr>`,
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			subjects := ExtractSubjects(subjectsTable(test.row))
			require.Len(t, subjects, 1)
			require.Equal(t, "8123", subjects[0].CourseId)
			require.Equal(t, "UE22CS351", subjects[0].Code)
			require.Equal(t, "Software Engineering", subjects[0].Name)
			require.Equal(t, []string{"UE22CS351", "Software Engineering", "4"}, subjects[0].RawCells)
		})
	}
}

func TestExtractSubjectsKeepsUnnavigableRows(t *testing.T) {
	subjects := ExtractSubjects(subjectsTable(
		`<tr><td>UE22MA241</td><td>Linear Algebra</td><td>4</td></tr>`,
	))
	require.Len(t, subjects, 1)
	require.Empty(t, subjects[0].CourseId)
	require.Equal(t, "UE22MA241", subjects[0].Code)
}

func TestExtractSubjectsWithoutTable(t *testing.T) {
	require.Empty(t, ExtractSubjects("<div>no subjects for this semester</div>"))
}

func TestExtractSubjectsFallsBackToFirstTable(t *testing.T) {
	html := `<table><tr><td onclick="clickOnCourseContent('42')">UE22CS352</td><td>Computer Networks</td></tr></table>`
	subjects := ExtractSubjects(html)
	require.Len(t, subjects, 1)
	require.Equal(t, "42", subjects[0].CourseId)
}
