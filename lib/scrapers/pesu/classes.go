package pesu

import (
	"regexp"
	"strconv"
	"strings"
	"pesuassist-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// one tolerant pattern for the five positional handler arguments,
// quoting around each argument is optional in the wild
var classHandlerRegex = regexp.MustCompile(
	`(?i)handleclasscoursecontentunit\s*\(\s*'?([^',)]*)'?\s*,\s*'?([^',)]*)'?\s*,\s*'?([^',)]*)'?\s*,\s*'?([^',)]*)'?\s*,\s*'?([^',)]*)'?`,
)

var firstIntRegex = regexp.MustCompile(`(\d+)`)

type classHandlerArgs struct {
	uuid         string
	subjectId    string
	unitId       string
	classNo      string
	resourceType string
}

func parseClassHandler(markup string) (classHandlerArgs, bool) {
	m := classHandlerRegex.FindStringSubmatch(markup)
	if m == nil {
		return classHandlerArgs{}, false
	}
	return classHandlerArgs{
		uuid:         strings.TrimSpace(m[1]),
		subjectId:    strings.TrimSpace(m[2]),
		unitId:       strings.TrimSpace(m[3]),
		classNo:      strings.TrimSpace(m[4]),
		resourceType: strings.TrimSpace(m[5]),
	}, true
}

// the handler call hides in different places depending on the row's
// resource type, scan the row, then the title cell, then its anchors
func classArgsForRow(row *goquery.Selection, firstCell *goquery.Selection) (classHandlerArgs, bool) {
	if args, ok := parseClassHandler(firstCell.AttrOr("onclick", "")); ok {
		return args, true
	}
	if args, ok := parseClassHandler(row.AttrOr("onclick", "")); ok {
		return args, true
	}
	found := classHandlerArgs{}
	ok := false
	firstCell.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if args, parsed := parseClassHandler(a.AttrOr("onclick", "")); parsed {
			found = args
			ok = true
			return false
		}
		return true
	})
	if ok {
		return found, true
	}
	return parseClassHandler(htmlutil.RawMarkup(row))
}

func classTitle(firstCell *goquery.Selection) string {
	short := firstCell.Find(".short-title")
	if short.Length() > 0 {
		return htmlutil.CleanNodeText(short.Nodes[0])
	}
	return htmlutil.CleanNodeText(firstCell.Nodes[0])
}

// ExtractClasses reads one unit's class table. Every cell after the
// title contributes a resource count, and each cell's own handler call
// is parsed independently because it carries the resource-specific id,
// which consumers address either by resource type or by column.
func ExtractClasses(html string) []ClassEntry {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}
	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil
	}

	rows := table.Find("tbody tr")
	if rows.Length() == 0 {
		rows = table.Find("tr")
	}

	var entries []ClassEntry
	rows.Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() == 0 {
			return
		}
		firstCell := cells.First()

		entry := ClassEntry{
			Title:             classTitle(firstCell),
			ResourceIdsByType: map[string]string{},
		}
		if args, ok := classArgsForRow(row, firstCell); ok {
			entry.CourseUnitId = args.uuid
			entry.SubjectId = args.subjectId
			entry.CourseContentId = args.unitId
			entry.ClassNo = args.classNo
			entry.ResourceType = args.resourceType
		}

		cells.Each(func(i int, td *goquery.Selection) {
			if i == 0 {
				return
			}

			text := htmlutil.CleanNodeText(td.Nodes[0])
			if a := td.Find("a").First(); a.Length() > 0 {
				text = htmlutil.CleanNodeText(a.Nodes[0])
			}
			count := text
			if m := firstIntRegex.FindStringSubmatch(text); m != nil {
				count = m[1]
			} else if count == "" {
				count = "-"
			}
			entry.ResourceCounts = append(entry.ResourceCounts, count)

			resourceId := ""
			if args, ok := parseClassHandler(htmlutil.RawMarkup(td)); ok {
				resourceId = args.uuid
				if args.resourceType != "" {
					entry.ResourceIdsByType[args.resourceType] = args.uuid
				}
			}
			entry.ResourceIdsByColumn = append(entry.ResourceIdsByColumn, resourceId)
		})

		// column 3 is the slide deck count in every layout seen so far
		if len(entry.ResourceCounts) > 2 {
			entry.SlidesCount, _ = strconv.Atoi(entry.ResourceCounts[2])
		}

		entries = append(entries, entry)
	})
	return entries
}
