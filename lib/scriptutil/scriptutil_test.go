package scriptutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const fixtureScript = `
$(document).ready(function() {
	var periodTimes = {1: '8:00 - 8:50', 2: '9:00 - 9:50'};
	var ttGrid = [
		["CS301::Operating Systems::LH-4", "_::Dr. Rao"],
		["UE22CS351::Software Eng's Lab::LH-2", "_::Prof. Iyer"]
	];
	renderTimetable(ttGrid, periodTimes);
});
`

func TestAssignment(t *testing.T) {
	literal, ok := Assignment(fixtureScript, "periodTimes")
	require.True(t, ok)
	require.Equal(t, `{1: '8:00 - 8:50', 2: '9:00 - 9:50'}`, literal)

	_, ok = Assignment(fixtureScript, "doesNotExist")
	require.False(t, ok)
}

func TestAssignmentBalancesNestedDelimiters(t *testing.T) {
	script := `var x = [[1, [2, 3]], ['a]b', {k: [4]}]]; var y = 0;`
	literal, ok := Assignment(script, "x")
	require.True(t, ok)
	require.Equal(t, `[[1, [2, 3]], ['a]b', {k: [4]}]]`, literal)
}

func TestNormalizeQuoting(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{`{1: 'a', key: 'b'}`, `{"1": "a", "key": "b"}`},
		{`['it\'s "here"']`, `["it's \"here\""]`},
		{`[1, 2, true, null]`, `[1, 2, true, null]`},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, NormalizeQuoting(test.input))
	}
}

func TestDecode(t *testing.T) {
	var times map[string]string
	err := Decode(fixtureScript, "periodTimes", &times)
	require.NoError(t, err)
	require.Equal(t, map[string]string{
		"1": "8:00 - 8:50",
		"2": "9:00 - 9:50",
	}, times)

	var grid [][]string
	err = Decode(fixtureScript, "ttGrid", &grid)
	require.NoError(t, err)
	require.Len(t, grid, 2)
	require.Equal(t, "CS301::Operating Systems::LH-4", grid[0][0])
	require.Equal(t, "_::Dr. Rao", grid[0][1])
	require.Equal(t, "UE22CS351::Software Eng's Lab::LH-2", grid[1][0])
}
