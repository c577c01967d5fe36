package pesu

import (
	"strconv"
	"strings"
	"pesuassist-backend/lib/htmlutil"
	"pesuassist-backend/lib/scriptutil"
	"pesuassist-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

// variable names the timetable page assigns its data to. This page
// embeds script literals instead of rendering tables, so this
// extractor goes through scriptutil and never touches table markup.
const (
	periodTimesVariable = "periodTimes"
	timetableVariable   = "timetableData"
)

const tupleDelimiter = "::"

func splitSubjectTuple(entry string) (code, name, room string) {
	fields := strings.Split(entry, tupleDelimiter)
	switch len(fields) {
	case 3:
		code = strings.TrimSpace(fields[0])
		name = strings.TrimSpace(fields[1])
		room = strings.TrimSpace(fields[2])
	case 2:
		// combined "CODE - Name" field, split on the first hyphen
		combined := fields[0]
		room = strings.TrimSpace(fields[1])
		if idx := strings.Index(combined, "-"); idx > 0 {
			code = strings.TrimSpace(combined[:idx])
			name = strings.TrimSpace(combined[idx+1:])
		} else {
			name = strings.TrimSpace(combined)
		}
	default:
		return "", "", ""
	}
	return code, name, room
}

func splitTeacherTuple(entry string) string {
	fields := strings.Split(entry, tupleDelimiter)
	if len(fields) < 2 {
		return ""
	}
	return strings.TrimSpace(fields[len(fields)-1])
}

// ExtractTimetable decodes the two inline-script assignments the
// timetable page carries: a period->time lookup and a day x period
// grid where every cell is a subject tuple plus a teacher tuple.
func ExtractTimetable(html string) []TimetableSlot {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var scripts strings.Builder
	for _, node := range doc.Find("script").Nodes {
		scripts.WriteString(htmlutil.GetText(node))
		scripts.WriteString("\n")
	}
	script := scripts.String()

	var periodTimes map[string]string
	// the time lookup is optional, a missing one only loses PeriodTime
	_ = scriptutil.Decode(script, periodTimesVariable, &periodTimes)

	var grid [][][]string
	err = scriptutil.Decode(script, timetableVariable, &grid)
	if err != nil {
		return nil
	}

	var slots []TimetableSlot
	for dayIdx, row := range grid {
		for periodIdx, cell := range row {
			if len(cell) == 0 {
				continue
			}
			code, name, room := splitSubjectTuple(cell[0])
			if code == "" && name == "" {
				continue
			}

			slot := TimetableSlot{
				Day:         dayIdx + 1,
				Period:      periodIdx + 1,
				PeriodTime:  periodTimes[strconv.Itoa(periodIdx+1)],
				SubjectCode: code,
				SubjectName: name,
				DisplayCode: textutil.ShortDisplayCode(name),
				Room:        room,
			}
			if len(cell) > 1 {
				slot.Teacher = splitTeacherTuple(cell[1])
			}
			slots = append(slots, slot)
		}
	}
	return slots
}
