// Package scriptutil recovers data literals that pages assign to
// javascript variables in inline <script> blocks. It does not evaluate
// anything: it slices the balanced literal text that follows an
// assignment and rewrites its quoting into JSON so it can be decoded
// with encoding/json.
package scriptutil

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Assignment locates `variable = <literal>` inside script text and
// returns the balanced `{...}` or `[...]` literal that follows.
func Assignment(script, variable string) (string, bool) {
	re := regexp.MustCompile(`(?:var|let|const)?\s*\b` + regexp.QuoteMeta(variable) + `\s*=\s*`)
	loc := re.FindStringIndex(script)
	if loc == nil {
		return "", false
	}
	rest := script[loc[1]:]
	if rest == "" {
		return "", false
	}

	open := rest[0]
	if open != '{' && open != '[' {
		return "", false
	}

	depth := 0
	inString := false
	var quote byte
	for i := 0; i < len(rest); i++ {
		c := rest[i]
		if inString {
			if c == '\\' {
				i++
				continue
			}
			if c == quote {
				inString = false
			}
			continue
		}
		switch c {
		case '\'', '"':
			inString = true
			quote = c
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return rest[:i+1], true
			}
		}
	}
	return "", false
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// NormalizeQuoting rewrites a javascript object/array literal into
// JSON: single-quoted strings become double-quoted and bare object
// keys get quoted. The pass is string-aware, so delimiters inside
// string data are left alone.
func NormalizeQuoting(literal string) string {
	var out strings.Builder
	i := 0
	n := len(literal)
	for i < n {
		c := literal[i]
		switch {
		case c == '\'' || c == '"':
			quote := c
			i++
			var str strings.Builder
			for i < n {
				ch := literal[i]
				if ch == '\\' && i+1 < n {
					next := literal[i+1]
					// \' has no meaning in JSON strings
					if next == '\'' {
						str.WriteByte('\'')
					} else {
						str.WriteByte('\\')
						str.WriteByte(next)
					}
					i += 2
					continue
				}
				if ch == quote {
					i++
					break
				}
				if ch == '"' {
					str.WriteString(`\"`)
					i++
					continue
				}
				str.WriteByte(ch)
				i++
			}
			out.WriteByte('"')
			out.WriteString(str.String())
			out.WriteByte('"')
		case isIdentByte(c):
			start := i
			for i < n && isIdentByte(literal[i]) {
				i++
			}
			token := literal[start:i]

			j := i
			for j < n && isSpaceByte(literal[j]) {
				j++
			}
			if j < n && literal[j] == ':' {
				out.WriteByte('"')
				out.WriteString(token)
				out.WriteByte('"')
			} else {
				out.WriteString(token)
			}
		default:
			out.WriteByte(c)
			i++
		}
	}
	return out.String()
}

// Decode slices the literal assigned to `variable` out of script text
// and unmarshals it into v.
func Decode(script, variable string, v any) error {
	literal, ok := Assignment(script, variable)
	if !ok {
		return fmt.Errorf("could not find assignment to %q", variable)
	}
	return json.Unmarshal([]byte(NormalizeQuoting(literal)), v)
}
