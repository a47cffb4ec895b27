package domain

import (
	"fmt"
	"strings"
)

// RegexPrefix marks a find pattern as a regular expression.
const RegexPrefix = "regex:"

// SearchType says how a find pattern entered by the user is interpreted.
type SearchType uint8

const (
	// SearchLiteral treats the find pattern as a plain substring.
	SearchLiteral SearchType = iota
	// SearchRegex treats the find pattern as a case-insensitive regex.
	SearchRegex
)

// String returns a stable string representation of the search type.
func (s SearchType) String() string {
	switch s {
	case SearchLiteral:
		return "literal"
	case SearchRegex:
		return "regex"
	default:
		return fmt.Sprintf("SearchType(%d)", s)
	}
}

// ParseSearchType accepts "literal" or "regex" (case-insensitive).
func ParseSearchType(s string) (SearchType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "literal", "str":
		return SearchLiteral, nil
	case "regex", "reg":
		return SearchRegex, nil
	default:
		return 0, fmt.Errorf("unsupported SearchType: %q", s)
	}
}

// EscapeMode controls whether "$" in a replacement is stored doubled.
type EscapeMode uint8

const (
	// EscapeDollars doubles every "$" so the replacement is taken literally.
	EscapeDollars EscapeMode = iota
	// NoEscape stores the replacement verbatim, keeping "$" tokens live.
	NoEscape
)

// String returns a stable string representation of the escape mode.
func (m EscapeMode) String() string {
	switch m {
	case EscapeDollars:
		return "escape"
	case NoEscape:
		return "noescape"
	default:
		return fmt.Sprintf("EscapeMode(%d)", m)
	}
}

// ParseEscapeMode accepts "escape" or "noescape" (case-insensitive).
func ParseEscapeMode(s string) (EscapeMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "escape":
		return EscapeDollars, nil
	case "noescape":
		return NoEscape, nil
	default:
		return 0, fmt.Errorf("unsupported EscapeMode: %q", s)
	}
}

// Rule is one stored title rule.
//
// Find is kept in stored form, so a regex rule still carries RegexPrefix.
// With is the stored replacement, empty when the -with key is absent.
type Rule struct {
	Domain string
	Find   string
	With   string
}

// IsRegex reports whether the rule's find pattern is a regex.
func (r Rule) IsRegex() bool { return IsRegexFind(r.Find) }

// IsRegexFind reports whether a stored find pattern carries RegexPrefix.
func IsRegexFind(find string) bool { return strings.HasPrefix(find, RegexPrefix) }

// NormalizeFind applies the search type to a raw find pattern: regex searches
// get RegexPrefix unless it is already there. Literal searches are unchanged.
//
// An empty regex search normalizes to the bare prefix, which is non-empty and
// therefore stored; it matches the empty string at the start of a title.
func NormalizeFind(find string, st SearchType) string {
	if st == SearchRegex && !IsRegexFind(find) {
		return RegexPrefix + find
	}
	return find
}

// EscapeReplacement doubles every "$" so that replacement expansion yields
// with unchanged.
func EscapeReplacement(with string) string {
	return strings.ReplaceAll(with, "$", "$$")
}
