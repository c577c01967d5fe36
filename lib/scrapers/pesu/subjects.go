package pesu

import (
	"regexp"
	"strings"
	"pesuassist-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

var courseIdRegex = regexp.MustCompile(`(?i)clickOnCourseContent\s*\(\s*'?\s*(\d+)\s*'?`)

// courseIdStrategy is one attempt at recovering the navigable course
// id from a subject row. Strategies run in order until one yields an
// id, keeping each fallback independently testable instead of burying
// them in nested conditionals.
type courseIdStrategy func(row *goquery.Selection) string

var courseIdStrategies = []courseIdStrategy{
	courseIdFromRowHandler,
	courseIdFromFirstCellHandler,
	courseIdFromFirstCellAnchors,
	courseIdFromRawMarkup,
}

func courseIdFromRowHandler(row *goquery.Selection) string {
	m := courseIdRegex.FindStringSubmatch(row.AttrOr("onclick", ""))
	if m == nil {
		return ""
	}
	return m[1]
}

func courseIdFromFirstCellHandler(row *goquery.Selection) string {
	m := courseIdRegex.FindStringSubmatch(row.Find("td").First().AttrOr("onclick", ""))
	if m == nil {
		return ""
	}
	return m[1]
}

func courseIdFromFirstCellAnchors(row *goquery.Selection) string {
	id := ""
	row.Find("td").First().Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		m := courseIdRegex.FindStringSubmatch(a.AttrOr("onclick", ""))
		if m == nil {
			m = courseIdRegex.FindStringSubmatch(a.AttrOr("href", ""))
		}
		if m != nil {
			id = m[1]
			return false
		}
		return true
	})
	return id
}

// last resort: the handler call is somewhere in markup the selectors
// above didn't reach
func courseIdFromRawMarkup(row *goquery.Selection) string {
	m := courseIdRegex.FindStringSubmatch(htmlutil.RawMarkup(row))
	if m == nil {
		return ""
	}
	return m[1]
}

func resolveCourseId(row *goquery.Selection) string {
	for _, strategy := range courseIdStrategies {
		if id := strategy(row); id != "" {
			return id
		}
	}
	return ""
}

func findSubjectsTable(doc *goquery.Document) *goquery.Selection {
	container := doc.Find("#getStudentSubjectsBasedOnSemesters")
	if container.Length() == 0 {
		container = doc.Selection
	}
	table := container.Find("table.table")
	if table.Length() == 0 {
		table = container.Find("table")
	}
	return table.First()
}

// ExtractSubjects reads the per-semester subjects table. Rows without
// a resolvable course id are kept, they still render, they just can't
// be navigated into.
func ExtractSubjects(html string) []Subject {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}
	table := findSubjectsTable(doc)
	if table.Length() == 0 {
		return nil
	}

	var subjects []Subject
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cellSel := row.Find("td")
		if cellSel.Length() == 0 {
			return
		}

		cells := make([]string, 0, cellSel.Length())
		cellSel.Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, htmlutil.CleanNodeText(td.Nodes[0]))
		})

		subject := Subject{
			CourseId: resolveCourseId(row),
			RawCells: cells,
		}
		if len(cells) > 0 {
			subject.Code = cells[0]
		}
		if len(cells) > 1 {
			subject.Name = cells[1]
		}
		subjects = append(subjects, subject)
	})
	return subjects
}
