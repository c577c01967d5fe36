package pesu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractResults(t *testing.T) {
	html := `
	<div class="card">
		<div class="card-header">UE22CS351 - Software Engineering</div>
		<div class="card-body">
			<div>Internal 1: 36/40</div>
			<div>Internal 2: 38/40</div>
			<div>External: 71/100</div>
		</div>
	</div>
	<div class="card">
		<h5>UE22MA241 Linear Algebra</h5>
		<div>28/40</div><div>31/40</div><div>64/100</div>
	</div>`

	results := ExtractResults(html)
	require.Len(t, results, 2)

	first := results[0]
	require.Equal(t, "UE22CS351", first.Code)
	require.Equal(t, "Software Engineering", first.Name)
	require.Equal(t, ScoreBlock{Scored: 36, Total: 40}, first.Internal)
	require.Equal(t, ScoreBlock{Scored: 38, Total: 40}, first.BestInternal)
	require.Equal(t, ScoreBlock{Scored: 71, Total: 100}, first.External)
	require.Equal(t, 145.0, first.Total)
	require.Equal(t, 180.0, first.MaxMarks)

	// no hyphen in the header, code split on the token pattern
	second := results[1]
	require.Equal(t, "UE22MA241", second.Code)
	require.Equal(t, "Linear Algebra", second.Name)
	require.Equal(t, 123.0, second.Total)
}

func TestExtractResultsEmptyMarkup(t *testing.T) {
	require.Empty(t, ExtractResults("<table><tr><td>not cards</td></tr></table>"))
}
