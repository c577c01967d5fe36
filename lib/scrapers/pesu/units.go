package pesu

import (
	"regexp"
	"strconv"
	"strings"
	"pesuassist-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

var unitNumberRegex = regexp.MustCompile(`(?i)Unit\s*(\d+)`)
var unitHandlerRegex = regexp.MustCompile(`(?i)handleclassUnit\s*\(\s*'?(\d+)'?\s*\)`)
var unitHrefRegex = regexp.MustCompile(`courseUnit_(\d+)`)

// ExtractUnits reads the unit tabs of one course page. The unit id is
// taken from the tab's handler call, or failing that from its link
// target.
func ExtractUnits(html string) []Unit {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	container := doc.Find("#courselistunit")
	if container.Length() == 0 {
		container = doc.Selection
	}

	var units []Unit
	container.Find("a").Each(func(_ int, a *goquery.Selection) {
		title := htmlutil.CleanNodeText(a.Nodes[0])

		number := 0
		if m := unitNumberRegex.FindStringSubmatch(title); m != nil {
			number, _ = strconv.Atoi(m[1])
		}

		unitId := ""
		if m := unitHandlerRegex.FindStringSubmatch(a.AttrOr("onclick", "")); m != nil {
			unitId = m[1]
		}
		if unitId == "" {
			if m := unitHrefRegex.FindStringSubmatch(a.AttrOr("href", "")); m != nil {
				unitId = m[1]
			}
		}

		units = append(units, Unit{
			UnitId: unitId,
			Number: number,
			Title:  title,
		})
	})
	return units
}
