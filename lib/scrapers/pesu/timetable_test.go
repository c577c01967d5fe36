package pesu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const timetableFixture = `
<div id="timetable"></div>
<script type="text/javascript">
	var periodTimes = {1: '8:00 - 8:50', 2: '9:00 - 9:50', 3: '10:00 - 10:50'};
	var timetableData = [
		[
			["CS250::Microprocessors::LH-1", "_::Dr. Shenoy"],
			[],
			["UE22MA241 - Linear Algebra::LH-3", "_::Prof. Kumar"]
		],
		[
			[],
			[],
			["CS301::Operating Systems::LH-4", "_::Dr. Rao"]
		]
	];
	renderTimetable(timetableData, periodTimes);
</script>`

func TestExtractTimetable(t *testing.T) {
	slots := ExtractTimetable(timetableFixture)
	require.Len(t, slots, 3)

	var target *TimetableSlot
	for i := range slots {
		if slots[i].Day == 2 && slots[i].Period == 3 {
			target = &slots[i]
		}
	}
	require.NotNil(t, target)
	require.Equal(t, "CS301", target.SubjectCode)
	require.Equal(t, "Operating Systems", target.SubjectName)
	require.Equal(t, "LH-4", target.Room)
	require.Equal(t, "Dr. Rao", target.Teacher)
	require.Equal(t, "OS", target.DisplayCode)
	require.Equal(t, "10:00 - 10:50", target.PeriodTime)
}

func TestExtractTimetableCombinedSubjectField(t *testing.T) {
	slots := ExtractTimetable(timetableFixture)

	require.Equal(t, "UE22MA241", slots[1].SubjectCode)
	require.Equal(t, "Linear Algebra", slots[1].SubjectName)
	require.Equal(t, "LH-3", slots[1].Room)
	require.Equal(t, "Prof. Kumar", slots[1].Teacher)
}

func TestExtractTimetableWithoutScriptData(t *testing.T) {
	require.Empty(t, ExtractTimetable("<table><tr><td>CS301</td></tr></table>"))
}
