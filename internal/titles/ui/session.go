package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/haukened/tabrename/internal/titles/common/log"
	"github.com/haukened/tabrename/internal/titles/domain"
	"github.com/haukened/tabrename/internal/titles/services/rules"
)

// RuleManager is the part of the rules service a session drives.
type RuleManager interface {
	Add(req rules.AddRequest) (rules.AddResult, error)
	Remove(d string) error
	Sort() (rules.View, error)
	Import(r io.Reader) (rules.ImportResult, error)
	Manage() (rules.View, error)
}

// importTerminator ends multi-line import input in a session.
const importTerminator = "."

// Session runs the popup as a line-oriented command loop.
type Session struct {
	rules  RuleManager
	popup  *Popup
	in     *bufio.Scanner
	out    io.Writer
	host   string
	title  string
	logger log.Logger
	view   rules.View
}

type SessionOptions struct {
	Rules  RuleManager
	In     io.Reader
	Out    io.Writer
	Host   string // prefills the domain field
	Title  string // prefills the search field
	Logger log.Logger
}

func NewSession(opts SessionOptions) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Session{
		rules:  opts.Rules,
		popup:  NewPopup(),
		in:     bufio.NewScanner(opts.In),
		out:    opts.Out,
		host:   opts.Host,
		title:  opts.Title,
		logger: logger.With(map[string]any{"component": "session"}),
	}
}

// State returns the popup state.
func (s *Session) State() State { return s.popup.State() }

// Run reads commands until EOF or "quit". Refused transitions and rejected
// input are reported to the operator; store failures end the session.
func (s *Session) Run() error {
	s.printf("Type \"menu\" to open the Title Manager, \"help\" for commands.\n")
	for {
		s.printf("> ")
		line, ok := s.readLine()
		if !ok {
			return s.in.Err()
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return nil
		}
		if err := s.Handle(fields[0], fields[1:]); err != nil {
			if errors.Is(err, ErrTransition) {
				s.printf("%v\n", err)
				continue
			}
			return err
		}
	}
}

// Handle runs a single command.
func (s *Session) Handle(cmd string, args []string) error {
	s.logger.Debug(map[string]any{"cmd": cmd, "state": s.popup.State().String()}, "session_command")
	switch cmd {
	case "menu", "toggle", "close":
		if cmd == "close" && s.popup.State() != Open {
			return fmt.Errorf("%w: close while %s", ErrTransition, s.popup.State())
		}
		if err := s.popup.Toggle(); err != nil {
			return err
		}
		if s.popup.State() == Open {
			return RenderQuickAdd(s.out, s.host, s.title, "")
		}
		s.printf("Title Manager closed.\n")
		return nil
	case "add":
		return s.add(domain.SearchLiteral, domain.EscapeDollars)
	case "add-regex":
		return s.add(domain.SearchRegex, domain.NoEscape)
	case "manage":
		if err := s.popup.Manage(); err != nil {
			return err
		}
		return s.render()
	case "remove":
		if err := s.requireManaging(cmd); err != nil {
			return err
		}
		if len(args) != 1 {
			s.printf("usage: remove <domain>\n")
			return nil
		}
		if err := s.rules.Remove(args[0]); err != nil {
			return err
		}
		return s.render()
	case "sort":
		if err := s.requireManaging(cmd); err != nil {
			return err
		}
		if !s.view.CanSort {
			return fmt.Errorf("%w: sort needs two or more rules", ErrTransition)
		}
		view, err := s.rules.Sort()
		if err != nil {
			return err
		}
		s.view = view
		return RenderManage(s.out, view)
	case "import":
		return s.importRules()
	case "export":
		if err := s.requireManaging(cmd); err != nil {
			return err
		}
		if !s.view.CanExport {
			return fmt.Errorf("%w: export needs two or more rules", ErrTransition)
		}
		if err := s.popup.Export(); err != nil {
			return err
		}
		return RenderExport(s.out, s.view)
	case "reload":
		s.popup.Reload()
		s.printf("Page reloaded.\n")
		return nil
	default:
		s.printf("commands: menu, add, add-regex, manage, remove <domain>, sort, import, export, reload, quit\n")
		return nil
	}
}

func (s *Session) add(st domain.SearchType, esc domain.EscapeMode) error {
	if s.popup.State() != Open {
		return fmt.Errorf("%w: add while %s", ErrTransition, s.popup.State())
	}
	d, _ := s.prompt("Domain", s.host)
	find, _ := s.prompt("Search for", s.title)
	with, _ := s.prompt("Replace with", "")

	res, err := s.rules.Add(rules.AddRequest{
		SearchType: st,
		EscapeMode: esc,
		Domain:     strings.ToLower(d),
		Find:       find,
		With:       with,
	})
	if errors.Is(err, domain.ErrInvalidDomain) {
		s.printf("%s\n", res.Message)
		return nil
	}
	if err != nil {
		return err
	}
	if res.Message != "" {
		s.printf("%s\n", res.Message)
	}
	return nil
}

func (s *Session) importRules() error {
	if err := s.requireManaging("import"); err != nil {
		return err
	}
	s.printf("Paste rules, end with a line containing only %q:\n", importTerminator)
	var b strings.Builder
	for {
		line, ok := s.readLine()
		if !ok || line == importTerminator {
			break
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	res, err := s.rules.Import(strings.NewReader(b.String()))
	if err != nil {
		return err
	}
	s.view = res.View
	s.printf("Imported %d rule(s), skipped %d.\n", res.Imported, res.Skipped)
	return RenderManage(s.out, res.View)
}

func (s *Session) requireManaging(cmd string) error {
	if s.popup.State() != Managing {
		return fmt.Errorf("%w: %s while %s", ErrTransition, cmd, s.popup.State())
	}
	return nil
}

func (s *Session) render() error {
	view, err := s.rules.Manage()
	if err != nil {
		return err
	}
	s.view = view
	return RenderManage(s.out, view)
}

// prompt asks for a field. An empty answer keeps def.
func (s *Session) prompt(label, def string) (string, bool) {
	if def != "" {
		s.printf("%s [%s]: ", label, def)
	} else {
		s.printf("%s: ", label)
	}
	line, ok := s.readLine()
	if !ok || line == "" {
		return def, ok
	}
	return line, true
}

func (s *Session) readLine() (string, bool) {
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimRight(s.in.Text(), "\r"), true
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}
