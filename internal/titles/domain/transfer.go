package domain

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// BlockSeparator is the line that ends one rule in the transfer format.
const BlockSeparator = "========"

// ImportBlock is one rule as read from transfer text. Fields are taken
// verbatim; validation happens when the rule is added.
type ImportBlock struct {
	Domain string
	Find   string
	With   string
	// Line is the 1-based line of the block's first field.
	Line int
}

// Complete reports whether the block has both a domain and a find pattern.
func (b ImportBlock) Complete() bool {
	return b.Domain != "" && b.Find != ""
}

// ParseTransfer reads rules in the transfer format:
//
//	text   = *( block sep ) [ block ]
//	block  = domain LF find [ LF with ] *( LF extra )
//	sep    = LF "========" LF
//
// Lines end at LF, CR, U+2028 or U+2029 and empty lines are ignored
// everywhere, so a rule exported with an empty replacement has no with line.
// Lines after the third in a block are ignored. Blocks are returned in input
// order, including incomplete ones; callers skip those with Complete.
func ParseTransfer(r io.Reader) ([]ImportBlock, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read transfer text: %w", err)
	}

	var (
		blocks []ImportBlock
		cur    []string
		start  int
	)
	flush := func() {
		if len(cur) == 0 {
			return
		}
		b := ImportBlock{Line: start}
		b.Domain = cur[0]
		if len(cur) > 1 {
			b.Find = cur[1]
		}
		if len(cur) > 2 {
			b.With = cur[2]
		}
		blocks = append(blocks, b)
		cur = cur[:0]
	}

	for i, line := range splitLines(string(raw)) {
		if line == "" {
			continue
		}
		if line == BlockSeparator {
			flush()
			continue
		}
		if len(cur) == 0 {
			start = i + 1
		}
		cur = append(cur, line)
	}
	flush()
	return blocks, nil
}

// splitLines splits on every line terminator, keeping empty lines so that
// line numbers stay accurate. CRLF counts as one terminator.
func splitLines(s string) []string {
	var lines []string
	var b strings.Builder
	rs := []rune(s)
	for i := 0; i < len(rs); i++ {
		switch r := rs[i]; r {
		case '\r':
			if i+1 < len(rs) && rs[i+1] == '\n' {
				i++
			}
			fallthrough
		case '\n', '\u2028', '\u2029':
			lines = append(lines, b.String())
			b.Reset()
		default:
			b.WriteRune(r)
		}
	}
	if b.Len() > 0 {
		lines = append(lines, b.String())
	}
	return lines
}

// WriteTransfer writes rules in the transfer format accepted by ParseTransfer.
// A rule without a replacement gets an empty with line.
func WriteTransfer(w io.Writer, rules []Rule) error {
	bw := bufio.NewWriter(w)
	for _, r := range rules {
		if _, err := fmt.Fprintf(bw, "%s\n%s\n%s\n%s\n", r.Domain, r.Find, r.With, BlockSeparator); err != nil {
			return err
		}
	}
	return bw.Flush()
}
