package pesu

import (
	"regexp"
	"strings"
	"strconv"
	"pesuassist-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var scorePairRegex = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*/\s*(\d+(?:\.\d+)?)`)

// a subject header without a hyphen is still usually "CODE Name..."
var codeThenNameRegex = regexp.MustCompile(`^([A-Z]{2,}[A-Z0-9]*)\s+(.+)$`)

func splitSubjectHeader(header string) (code, name string) {
	idx := strings.Index(header, "-")
	if idx > 0 {
		return strings.TrimSpace(header[:idx]), strings.TrimSpace(header[idx+1:])
	}
	if m := codeThenNameRegex.FindStringSubmatch(header); m != nil {
		return m[1], strings.TrimSpace(m[2])
	}
	return "", strings.TrimSpace(header)
}

// collectScorePairs matches scored/total pairs one text node at a
// time. Adjacent score blocks render with no separating text, matching
// against the card's concatenated text would fuse "28/40" and "31/40"
// into "28/4031/40".
func collectScorePairs(node *html.Node, limit int) [][]string {
	var pairs [][]string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if len(pairs) >= limit {
			return
		}
		if n.Type == html.TextNode {
			for _, m := range scorePairRegex.FindAllStringSubmatch(n.Data, -1) {
				if len(pairs) >= limit {
					return
				}
				pairs = append(pairs, m)
			}
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(node)
	return pairs
}

// ExtractResults reads the results page. It is a card layout rather
// than a table: one card per subject, with three scored/total blocks
// (first internal, second or best internal, external).
func ExtractResults(html string) []SubjectResult {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var results []SubjectResult
	doc.Find(".card").Each(func(_ int, card *goquery.Selection) {
		header := card.Find(".card-header").First()
		if header.Length() == 0 {
			header = card.Find("h5, h4").First()
		}
		if header.Length() == 0 {
			return
		}

		code, name := splitSubjectHeader(htmlutil.CleanNodeText(header.Nodes[0]))

		pairs := collectScorePairs(card.Nodes[0], 3)
		if len(pairs) == 0 {
			return
		}

		blocks := make([]ScoreBlock, 3)
		result := SubjectResult{Code: code, Name: name}
		for i, pair := range pairs {
			scored, _ := strconv.ParseFloat(pair[1], 64)
			outOf, _ := strconv.ParseFloat(pair[2], 64)
			blocks[i] = ScoreBlock{Scored: scored, Total: outOf}
			result.Total += scored
			result.MaxMarks += outOf
		}
		result.Internal = blocks[0]
		result.BestInternal = blocks[1]
		result.External = blocks[2]

		results = append(results, result)
	})
	return results
}
