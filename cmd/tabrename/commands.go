package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/haukened/tabrename/internal/titles/common/log"
	"github.com/haukened/tabrename/internal/titles/common/utils"
	"github.com/haukened/tabrename/internal/titles/document"
	"github.com/haukened/tabrename/internal/titles/domain"
	"github.com/haukened/tabrename/internal/titles/repos/rulefile"
	"github.com/haukened/tabrename/internal/titles/services/rules"
	"github.com/haukened/tabrename/internal/titles/ui"
)

func (c *cli) addCmd() *cobra.Command {
	var regex, noEscape, apex bool
	cmd := &cobra.Command{
		Use:   "add <domain> <find> [with]",
		Short: "Add or replace the rule for a domain",
		Long: `Add the rule for a domain, replacing any existing one.

The domain is lowercased and must consist of a-z, 0-9, "_", "-" and ".".
"$" in the replacement is taken literally unless --noescape is given, in
which case $&, $1, $<name> and friends refer to the match.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := strings.ToLower(args[0])
			if apex {
				d = utils.ApexDomain(d)
			}
			req := rules.AddRequest{
				SearchType: domain.SearchLiteral,
				EscapeMode: domain.EscapeDollars,
				Domain:     d,
				Find:       args[1],
			}
			if regex {
				req.SearchType = domain.SearchRegex
			}
			if noEscape {
				req.EscapeMode = domain.NoEscape
			}
			if len(args) == 3 {
				req.With = args[2]
			}

			res, err := c.app.rules.Add(req)
			if err != nil {
				return err
			}
			if !res.Stored {
				fmt.Fprintln(cmd.ErrOrStderr(), "Nothing stored: the search pattern is empty.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			return nil
		},
	}
	cmd.Flags().BoolVar(&regex, "regex", false, "treat <find> as a regular expression")
	cmd.Flags().BoolVar(&noEscape, "noescape", false, "keep $ tokens in the replacement")
	cmd.Flags().BoolVar(&apex, "apex", false, "store the registrable domain of <domain> instead")
	return cmd
}

func (c *cli) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <domain>...",
		Short: "Remove the rules for one or more domains",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, d := range args {
				if err := c.app.rules.Remove(d); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (c *cli) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"manage"},
		Short:   "List every rule in stored order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := c.app.rules.Manage()
			if err != nil {
				return err
			}
			return ui.RenderManage(cmd.OutOrStdout(), view)
		},
	}
}

func (c *cli) sortCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sort",
		Short: "Sort the stored domains alphabetically",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := c.app.rules.Sort()
			if err != nil {
				return err
			}
			return ui.RenderManage(cmd.OutOrStdout(), view)
		},
	}
}

func (c *cli) importCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import rules from exported text or a rule file",
		Long: `Import rules from text produced by export, read from file or stdin.

Files ending in .yaml, .yml, .json or .toml are read as rule files with a
top-level "rules" list. --dir imports every rule file below a directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				res rules.ImportResult
				err error
			)
			switch {
			case dir != "":
				if len(args) > 0 {
					return errors.New("give either a file or --dir, not both")
				}
				res, err = c.importBlocks(func() ([]domain.ImportBlock, error) { return rulefile.LoadDirectory(dir) })
			case len(args) == 1 && rulefile.Supported(args[0]):
				res, err = c.importBlocks(func() ([]domain.ImportBlock, error) { return rulefile.LoadFile(args[0]) })
			default:
				var in io.Reader = cmd.InOrStdin()
				if len(args) == 1 && args[0] != "-" {
					f, ferr := os.Open(args[0])
					if ferr != nil {
						return fmt.Errorf("open import file: %w", ferr)
					}
					defer f.Close()
					in = f
				}
				res, err = c.app.rules.Import(in)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d rule(s), skipped %d.\n", res.Imported, res.Skipped)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "import every rule file below this directory")
	return cmd
}

func (c *cli) importBlocks(load func() ([]domain.ImportBlock, error)) (rules.ImportResult, error) {
	blocks, err := load()
	if err != nil {
		return rules.ImportResult{}, err
	}
	return c.app.rules.ImportBlocks(blocks)
}

func (c *cli) exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write every rule as importable text",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 || args[0] == "-" {
				return c.app.rules.Export(cmd.OutOrStdout())
			}
			f, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("create export file: %w", err)
			}
			if err := c.app.rules.Export(f); err != nil {
				_ = f.Close()
				return err
			}
			return f.Close()
		},
	}
}

func (c *cli) rewriteCmd() *cobra.Command {
	var host, title, htmlPath string
	cmd := &cobra.Command{
		Use:   "rewrite --host <host> (--title <title> | --html <file>)",
		Short: "Apply the stored rules to a page title",
		Long: `Print the title a page on --host would show after the stored rules run.

With --html the page is read from a file ("-" for stdin), its <title> is
rewritten and the whole document is printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if htmlPath == "" {
				res, err := c.app.rewriter.Rewrite(host, title)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), res.Title)
				return nil
			}

			var in io.Reader = cmd.InOrStdin()
			if htmlPath != "-" {
				f, err := os.Open(htmlPath)
				if err != nil {
					return fmt.Errorf("open page: %w", err)
				}
				defer f.Close()
				in = f
			}
			doc, err := document.Parse(in)
			if err != nil {
				return err
			}
			res, err := c.app.rewriter.Rewrite(host, doc.Title())
			if err != nil {
				return err
			}
			if res.Applied {
				doc.SetTitle(res.Title)
			}
			return doc.Render(cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&host, "host", "", "page host, with an optional :port")
	cmd.Flags().StringVar(&title, "title", "", "page title")
	cmd.Flags().StringVar(&htmlPath, "html", "", "HTML page to rewrite")
	_ = cmd.MarkFlagRequired("host")
	cmd.MarkFlagsMutuallyExclusive("title", "html")
	return cmd
}

func (c *cli) menuCmd() *cobra.Command {
	var host, title string
	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Open the interactive Title Manager",
		Long: `Open the Title Manager for a page. The quick-add form is prefilled
with --host and --title.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := ui.NewSession(ui.SessionOptions{
				Rules:  c.app.rules,
				In:     cmd.InOrStdin(),
				Out:    cmd.OutOrStdout(),
				Host:   utils.CanonicalHost(host),
				Title:  title,
				Logger: log.GetLogger(),
			})
			return s.Run()
		},
	}
	cmd.Flags().StringVar(&host, "host", "", "host of the current page")
	cmd.Flags().StringVar(&title, "title", "", "title of the current page")
	return cmd
}

func (c *cli) rebuildCacheCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild-cache",
		Short: "Regenerate the stored host-matching pattern",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.rules.RegenerateCache()
		},
	}
}
