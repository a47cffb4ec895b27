package rewriter

import (
	"strings"

	"github.com/dlclark/regexp2"
)

// match is one located occurrence of a find pattern in a title.
type match struct {
	before string
	text   string
	after  string
	groups []group          // capture groups 1..n
	named  map[string]group // nil when the pattern has no named groups
}

type group struct {
	text string
	ok   bool // group took part in the match
}

// newRegexMatch converts a regexp2 match. regexp2 reports rune offsets and
// numbers named groups after all unnamed ones, so groups are renumbered by
// the position of their opening paren in the pattern.
func newRegexMatch(re *regexp2.Regexp, rm *regexp2.Match, title string) match {
	runes := []rune(title)
	m := match{
		before: string(runes[:rm.Index]),
		text:   rm.String(),
		after:  string(runes[rm.Index+rm.Length:]),
	}
	unnamed := 0
	for _, name := range captureNames(re.String()) {
		var g *regexp2.Group
		if name == "" {
			unnamed++
			g = rm.GroupByNumber(unnamed)
		} else {
			g = rm.GroupByName(name)
		}
		var gv group
		if g != nil && len(g.Captures) > 0 {
			gv = group{text: g.String(), ok: true}
		}
		m.groups = append(m.groups, gv)
		if name != "" {
			if m.named == nil {
				m.named = make(map[string]group)
			}
			m.named[name] = gv
		}
	}
	return m
}

// captureNames lists the capturing groups of src in opening-paren order,
// with "" for unnamed groups. Escapes, character classes, lookarounds and
// (?:...) groups are skipped.
func captureNames(src string) []string {
	var names []string
	inClass := false
	for i := 0; i < len(src); i++ {
		switch c := src[i]; {
		case c == '\\':
			i++
		case inClass:
			if c == ']' {
				inClass = false
			}
		case c == '[':
			inClass = true
		case c == '(':
			rest := src[i+1:]
			if !strings.HasPrefix(rest, "?") {
				names = append(names, "")
				continue
			}
			if !strings.HasPrefix(rest, "?<") || strings.HasPrefix(rest, "?<=") || strings.HasPrefix(rest, "?<!") {
				continue
			}
			if end := strings.IndexByte(rest, '>'); end > 2 {
				names = append(names, rest[2:end])
			}
		}
	}
	return names
}

// expand builds the replacement text for m from a template, honoring the
// tokens a browser's String.prototype.replace understands:
//
//	$$       a literal "$"
//	$&       the matched text
//	$`       the text before the match
//	$'       the text after the match
//	$n, $nn  capture group n (1-99); two digits win when that group exists
//	$<name>  named capture group, only when the pattern has named groups
//
// Anything else, including references to groups that do not exist, is copied
// through unchanged.
func expand(tpl string, m match) string {
	if !strings.Contains(tpl, "$") {
		return tpl
	}
	var b strings.Builder
	b.Grow(len(tpl))
	for i := 0; i < len(tpl); i++ {
		c := tpl[i]
		if c != '$' || i+1 >= len(tpl) {
			b.WriteByte(c)
			continue
		}
		switch next := tpl[i+1]; {
		case next == '$':
			b.WriteByte('$')
			i++
		case next == '&':
			b.WriteString(m.text)
			i++
		case next == '`':
			b.WriteString(m.before)
			i++
		case next == '\'':
			b.WriteString(m.after)
			i++
		case next >= '0' && next <= '9':
			n, width := m.groupRef(tpl[i+1:])
			if width == 0 {
				b.WriteByte('$')
				continue
			}
			b.WriteString(m.groups[n-1].text)
			i += width
		case next == '<' && m.named != nil:
			end := strings.IndexByte(tpl[i+2:], '>')
			if end < 0 {
				b.WriteByte('$')
				continue
			}
			b.WriteString(m.named[tpl[i+2:i+2+end]].text)
			i += 2 + end
		default:
			b.WriteByte('$')
		}
	}
	return b.String()
}

// groupRef parses the digits after a "$". It returns the group number and
// how many digits it used, or width 0 when no existing group is referenced.
func (m match) groupRef(s string) (n, width int) {
	count := len(m.groups)
	if len(s) >= 2 && isDigit(s[0]) && isDigit(s[1]) {
		if nn := int(s[0]-'0')*10 + int(s[1]-'0'); nn >= 1 && nn <= count {
			return nn, 2
		}
	}
	if isDigit(s[0]) {
		if n := int(s[0] - '0'); n >= 1 && n <= count {
			return n, 1
		}
	}
	return 0, 0
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
