package pesu

import (
	"regexp"
	"strconv"
	"strings"
	"pesuassist-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

var semNumberRegex = regexp.MustCompile(`(?i)Sem[\s\-]*(\d+)`)

// ExtractSemesters reads the <option> elements the semester endpoint
// returns. Absent or reshuffled markup yields an empty slice, never an
// error, missing data must degrade instead of killing a sync.
func ExtractSemesters(html string) []Semester {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	seen := map[string]bool{}
	var semesters []Semester
	doc.Find("option").Each(func(_ int, opt *goquery.Selection) {
		semId := strings.TrimSpace(opt.AttrOr("value", ""))
		if semId == "" || seen[semId] {
			return
		}
		seen[semId] = true

		label := htmlutil.CleanNodeText(opt.Nodes[0])
		number := 0
		m := semNumberRegex.FindStringSubmatch(label)
		if m != nil {
			number, _ = strconv.Atoi(m[1])
		}

		semesters = append(semesters, Semester{
			SemId:     semId,
			SemNumber: number,
			Label:     label,
		})
	})
	return semesters
}
