package htmlutil

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// CleanNodeText extracts the visible text of a node with non-printable
// characters dropped and inner whitespace collapsed.
func CleanNodeText(node *html.Node) string {
	text := GetText(node)
	text = removeNonPrintable(text)
	text = strings.Trim(text, " \t\n")
	return innerWhitespace.ReplaceAllString(text, " ")
}

// RawMarkup renders a selection's outer html with entity escaping
// undone. The renderer escapes quotes inside attribute values, so
// handler calls like onclick="f('id')" come out as f(&#39;id&#39;) and
// regex fallbacks scanning for them would never match.
func RawMarkup(sel *goquery.Selection) string {
	markup, err := goquery.OuterHtml(sel)
	if err != nil {
		return ""
	}
	return html.UnescapeString(markup)
}

// RenderAttrs flattens a node's attributes into "key=value" text so
// regex-based fallbacks can scan markup the selectors missed.
func RenderAttrs(node *html.Node) string {
	var out strings.Builder
	for _, a := range node.Attr {
		out.WriteString(a.Key)
		out.WriteString("=")
		out.WriteString(a.Val)
		out.WriteString(" ")
	}
	return out.String()
}
