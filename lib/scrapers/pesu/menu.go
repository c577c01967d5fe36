package pesu

import (
	"regexp"
	"strings"
	"pesuassist-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

var trailingIntRegex = regexp.MustCompile(`(\d+)$`)
var numericRegex = regexp.MustCompile(`^\d+$`)

// ResolveMenu discovers the routing codes for one feature from the
// authenticated profile page. The codes are not stable constants
// across portal environments, so hardcoding them breaks on every
// deployment, discovering them per session costs one request and
// keeps working.
func ResolveMenu(profileHtml, keyword string) (MenuDescriptor, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(profileHtml))
	if err != nil {
		return MenuDescriptor{}, &MenuResolutionError{Keyword: keyword}
	}

	needle := strings.ToLower(keyword)
	var found MenuDescriptor

	doc.Find("li").EachWithBreak(func(_ int, li *goquery.Selection) bool {
		label := htmlutil.CleanNodeText(li.Nodes[0])
		if !strings.Contains(strings.ToLower(label), needle) {
			return true
		}

		menuId := trailingIntRegex.FindString(li.AttrOr("id", ""))
		if menuId == "" {
			menuId = trailingIntRegex.FindString(
				li.Find("a").AttrOr("id", ""),
			)
		}

		controllerMode := controllerModeFromUrl(li.AttrOr("url", ""))
		if controllerMode == "" {
			controllerMode = controllerModeFromUrl(li.Find("a").AttrOr("url", ""))
		}
		if controllerMode == "" {
			controllerMode = controllerModeFromUrl(li.Find("a").AttrOr("href", ""))
		}

		if menuId == "" && controllerMode == "" {
			return true
		}
		found = MenuDescriptor{
			Keyword:        keyword,
			MenuId:         menuId,
			ControllerMode: controllerMode,
		}
		return false
	})

	if found.MenuId == "" && found.ControllerMode == "" {
		return MenuDescriptor{}, &MenuResolutionError{Keyword: keyword}
	}
	return found, nil
}

// the controller mode sits in the second-to-last segment of the
// feature's routing url, and only a purely numeric segment is one
func controllerModeFromUrl(routingUrl string) string {
	if routingUrl == "" {
		return ""
	}
	segments := strings.Split(strings.Trim(routingUrl, "/"), "/")
	if len(segments) < 2 {
		return ""
	}
	candidate := segments[len(segments)-2]
	if !numericRegex.MatchString(candidate) {
		return ""
	}
	return candidate
}
