package pesu

import (
	"regexp"
	"strconv"
	"strings"
	"pesuassist-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

var attendedPairRegex = regexp.MustCompile(`(\d+)\s*/\s*(\d+)`)

// ExtractAttendance reads the fixed 4-column attendance table:
// code | name | attended/total | rendered percentage. The percentage
// is always recomputed from the raw counts, the rendered one is
// rounded and hides small but meaningful differences.
func ExtractAttendance(html string) []AttendanceRecord {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var records []AttendanceRecord
	doc.Find("table").First().Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 4 {
			return
		}

		pair := attendedPairRegex.FindStringSubmatch(
			htmlutil.CleanNodeText(cells.Eq(2).Nodes[0]),
		)
		if pair == nil {
			return
		}
		attended, _ := strconv.Atoi(pair[1])
		total, _ := strconv.Atoi(pair[2])

		percentage := 0.0
		if total > 0 {
			percentage = float64(attended) / float64(total) * 100
		}

		records = append(records, AttendanceRecord{
			CourseCode: htmlutil.CleanNodeText(cells.Eq(0).Nodes[0]),
			CourseName: htmlutil.CleanNodeText(cells.Eq(1).Nodes[0]),
			Attended:   attended,
			Total:      total,
			Percentage: percentage,
		})
	})
	return records
}
