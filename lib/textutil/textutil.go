package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

func MatchName(name string, matchers []string) bool {
	name = NormalizeName(name)
	for _, m := range matchers {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}

// CleanText collapses runs of whitespace into single spaces and trims
// the result, matching how the portal's cell text should read.
func CleanText(s string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}

var illegalFilenameRegex = regexp.MustCompile(`[<>:"/\\|?*` + "\n\r\t" + `]+`)
var underscoreRunRegex = regexp.MustCompile(`[\s_]+`)

const maxFilenameLength = 200

// SanitizeFilename strips filesystem-illegal characters, collapses
// runs of whitespace and underscores into single underscores and caps
// the length.
func SanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	name = illegalFilenameRegex.ReplaceAllString(name, "_")
	name = underscoreRunRegex.ReplaceAllString(name, "_")
	if len(name) > maxFilenameLength {
		name = name[:maxFilenameLength]
	}
	if name == "" {
		return "untitled"
	}
	return name
}

var displayCodeStopwords = map[string]bool{
	"of":  true,
	"and": true,
	"the": true,
	"to":  true,
	"in":  true,
	"for": true,
}

// ShortDisplayCode derives an abbreviation from a subject name by
// taking the initial letter of each non-stopword token, e.g.
// "Design and Analysis of Algorithms" -> "DAA".
func ShortDisplayCode(name string) string {
	var out strings.Builder
	for _, token := range strings.Fields(name) {
		if displayCodeStopwords[strings.ToLower(token)] {
			continue
		}
		r := []rune(token)[0]
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			out.WriteRune(r)
		}
	}
	return strings.ToUpper(out.String())
}
