package domain

import (
	"slices"
	"strings"
)

// ListSeparator delimits tokens in an encoded DomainList.
const ListSeparator = "|"

// DomainList is the ordered list of domains that have rules.
//
// Encoded grammar:
//
//	list  = "" | token *( "|" token )
//	token = 1*( "a"-"z" | "0"-"9" | "_" | "." | "-" )
//
// Decoding drops empty tokens, so doubled, leading or trailing separators
// left behind by older writers collapse away.
type DomainList []string

// DecodeDomainList parses an encoded list.
func DecodeDomainList(s string) DomainList {
	if s == "" {
		return DomainList{}
	}
	parts := strings.Split(s, ListSeparator)
	out := make(DomainList, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Encode joins the list with ListSeparator.
func (l DomainList) Encode() string {
	return strings.Join(l, ListSeparator)
}

// Contains reports whether d is a whole token of the list. A token that
// merely contains d, or is contained in it, does not count.
func (l DomainList) Contains(d string) bool {
	return slices.Contains(l, d)
}

// Append returns the list with d added at the end, unless already present.
func (l DomainList) Append(d string) DomainList {
	if l.Contains(d) {
		return l
	}
	out := make(DomainList, len(l), len(l)+1)
	copy(out, l)
	return append(out, d)
}

// Remove returns the list without the token d. Other tokens keep their order.
func (l DomainList) Remove(d string) DomainList {
	out := make(DomainList, 0, len(l))
	for _, t := range l {
		if t != d {
			out = append(out, t)
		}
	}
	return out
}

// Sorted returns a lexicographically sorted copy.
func (l DomainList) Sorted() DomainList {
	out := slices.Clone(l)
	if out == nil {
		out = DomainList{}
	}
	slices.Sort(out)
	return out
}

// EscapePattern turns an encoded list into the host-matching pattern by
// escaping every dot. The separators become regex alternation.
func EscapePattern(encoded string) string {
	return strings.ReplaceAll(encoded, ".", `\.`)
}
