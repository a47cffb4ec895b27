package ui

import (
	"fmt"
	"io"

	"github.com/haukened/tabrename/internal/titles/domain"
	"github.com/haukened/tabrename/internal/titles/services/rules"
)

// ExportInstructions tells the operator how to take the export listing away.
const ExportInstructions = "List prepared for export. Select all of the text above and copy it,\nthen paste it anywhere you want, perhaps in a new file."

// RenderQuickAdd writes the quick-add form prefilled from the current page.
func RenderQuickAdd(w io.Writer, host, title, message string) error {
	_, err := fmt.Fprintf(w, `=== Title Manager ===
Full title: "%s"
%s
Domain:       %s
Search for:   %s
Replace with:
Commands: add | add-regex | manage | close
`, title, message, host, title)
	return err
}

// RenderManage writes every rule followed by the controls the view allows.
func RenderManage(w io.Writer, v rules.View) error {
	for _, r := range v.Rules {
		if _, err := fmt.Fprintf(w, "%s\n%s\n%s\n[remove %s]\n%s\n", r.Domain, r.Find, r.With, r.Domain, domain.BlockSeparator); err != nil {
			return err
		}
	}
	controls := "Commands: import"
	if v.CanSort {
		controls += " | sort"
	}
	if v.CanExport {
		controls += " | export"
	}
	_, err := fmt.Fprintln(w, controls)
	return err
}

// RenderExport writes the listing without controls, then the instructions.
func RenderExport(w io.Writer, v rules.View) error {
	if err := domain.WriteTransfer(w, v.Rules); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%s\n", ExportInstructions)
	return err
}
