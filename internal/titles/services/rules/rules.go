// Package rules maintains title rules in a key-value store: adding,
// removing, sorting, bulk import and export.
package rules

import (
	"errors"
	"fmt"
	"io"

	"github.com/haukened/tabrename/internal/titles/common/log"
	"github.com/haukened/tabrename/internal/titles/domain"
	"github.com/haukened/tabrename/internal/titles/repos/kvstore"
)

// SuccessMessage is reported after an interactive add stores a rule.
const SuccessMessage = "Success! Rule added."

type Service struct {
	store  kvstore.Store
	logger log.Logger
}

type Options struct {
	Store  kvstore.Store
	Logger log.Logger
}

func New(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Service{
		store:  opts.Store,
		logger: logger.With(map[string]any{"component": "rules"}),
	}
}

// AddRequest carries one rule to add.
//
// Import marks a call made from a bulk import: the pattern cache is left for
// the caller to regenerate once and no success message is produced.
type AddRequest struct {
	SearchType domain.SearchType
	EscapeMode domain.EscapeMode
	Import     bool
	Domain     string
	Find       string
	With       string
}

// AddResult reports what Add did.
type AddResult struct {
	Stored  bool
	Message string
}

// View is the manage listing: every rule in stored order plus which controls
// apply. Sort and export only make sense with two or more rules.
type View struct {
	Rules     []domain.Rule
	CanImport bool
	CanSort   bool
	CanExport bool
}

// ImportResult reports a bulk import. Skipped counts incomplete blocks and
// blocks whose domain was rejected.
type ImportResult struct {
	Imported int
	Skipped  int
	View     View
}

// Add stores a rule. An invalid domain fails with domain.ErrInvalidDomain
// and changes nothing. An empty find pattern is a silent no-op.
func (s *Service) Add(req AddRequest) (AddResult, error) {
	if err := domain.ValidateDomain(req.Domain); err != nil {
		return AddResult{Message: err.Error()}, err
	}
	find := domain.NormalizeFind(req.Find, req.SearchType)
	if find == "" {
		s.logger.Debug(map[string]any{"domain": req.Domain}, "add_skipped_empty_find")
		return AddResult{}, nil
	}

	list, err := s.domainList()
	if err != nil {
		return AddResult{}, err
	}
	if !list.Contains(req.Domain) {
		if err := s.store.Set(domain.KeyDomains, list.Append(req.Domain).Encode()); err != nil {
			return AddResult{}, fmt.Errorf("store domain list: %w", err)
		}
	}
	if err := s.store.Set(domain.FindKey(req.Domain), find); err != nil {
		return AddResult{}, fmt.Errorf("store find pattern: %w", err)
	}

	if req.With != "" {
		with := req.With
		if req.EscapeMode == domain.EscapeDollars {
			with = domain.EscapeReplacement(with)
		}
		if err := s.store.Set(domain.WithKey(req.Domain), with); err != nil {
			return AddResult{}, fmt.Errorf("store replacement: %w", err)
		}
	} else {
		prior, err := s.store.Get(domain.WithKey(req.Domain), "")
		if err != nil {
			return AddResult{}, fmt.Errorf("get replacement: %w", err)
		}
		if prior != "" {
			if err := s.store.Delete(domain.WithKey(req.Domain)); err != nil {
				return AddResult{}, fmt.Errorf("delete replacement: %w", err)
			}
		}
	}

	s.logger.Info(map[string]any{
		"domain":      req.Domain,
		"search_type": req.SearchType.String(),
		"escape":      req.EscapeMode.String(),
		"import":      req.Import,
	}, "rule_added")

	if req.Import {
		return AddResult{Stored: true}, nil
	}
	if err := s.RegenerateCache(); err != nil {
		return AddResult{Stored: true}, err
	}
	return AddResult{Stored: true, Message: SuccessMessage}, nil
}

// Remove deletes a domain's rule and its token in the domain list. Tokens
// that merely contain d are kept.
func (s *Service) Remove(d string) error {
	if err := s.store.Delete(domain.FindKey(d)); err != nil {
		return fmt.Errorf("delete find pattern: %w", err)
	}
	if err := s.store.Delete(domain.WithKey(d)); err != nil {
		return fmt.Errorf("delete replacement: %w", err)
	}
	list, err := s.domainList()
	if err != nil {
		return err
	}
	if err := s.store.Set(domain.KeyDomains, list.Remove(d).Encode()); err != nil {
		return fmt.Errorf("store domain list: %w", err)
	}
	s.logger.Info(map[string]any{"domain": d, "present": list.Contains(d)}, "rule_removed")
	return s.RegenerateCache()
}

// Sort orders the domain list lexicographically and returns the new view.
func (s *Service) Sort() (View, error) {
	list, err := s.domainList()
	if err != nil {
		return View{}, err
	}
	if err := s.store.Set(domain.KeyDomains, list.Sorted().Encode()); err != nil {
		return View{}, fmt.Errorf("store domain list: %w", err)
	}
	if err := s.RegenerateCache(); err != nil {
		return View{}, err
	}
	return s.Manage()
}

// Import reads transfer text and adds every complete block as a literal rule
// with its replacement stored verbatim. Bad blocks are skipped.
func (s *Service) Import(r io.Reader) (ImportResult, error) {
	blocks, err := domain.ParseTransfer(r)
	if err != nil {
		return ImportResult{}, err
	}
	return s.ImportBlocks(blocks)
}

// ImportBlocks adds already parsed blocks the way Import does.
func (s *Service) ImportBlocks(blocks []domain.ImportBlock) (ImportResult, error) {
	var res ImportResult
	for _, b := range blocks {
		if !b.Complete() {
			s.logger.Debug(map[string]any{"line": b.Line}, "import_skip_incomplete")
			res.Skipped++
			continue
		}
		out, err := s.Add(AddRequest{
			SearchType: domain.SearchLiteral,
			EscapeMode: domain.NoEscape,
			Import:     true,
			Domain:     b.Domain,
			Find:       b.Find,
			With:       b.With,
		})
		switch {
		case errors.Is(err, domain.ErrInvalidDomain):
			s.logger.Warn(map[string]any{"line": b.Line, "domain": b.Domain}, "import_skip_invalid_domain")
			res.Skipped++
			continue
		case err != nil:
			return res, fmt.Errorf("import block at line %d: %w", b.Line, err)
		}
		if out.Stored {
			res.Imported++
		}
	}

	if err := s.RegenerateCache(); err != nil {
		return res, err
	}
	s.logger.Info(map[string]any{"imported": res.Imported, "skipped": res.Skipped}, "import_done")

	view, err := s.Manage()
	if err != nil {
		return res, err
	}
	res.View = view
	return res, nil
}

// Manage returns every rule in stored order.
func (s *Service) Manage() (View, error) {
	rules, err := s.Rules()
	if err != nil {
		return View{}, err
	}
	return View{
		Rules:     rules,
		CanImport: true,
		CanSort:   len(rules) > 1,
		CanExport: len(rules) > 1,
	}, nil
}

// Rules reads every rule in stored order.
func (s *Service) Rules() ([]domain.Rule, error) {
	list, err := s.domainList()
	if err != nil {
		return nil, err
	}
	out := make([]domain.Rule, 0, len(list))
	for _, d := range list {
		find, err := s.store.Get(domain.FindKey(d), "")
		if err != nil {
			return nil, fmt.Errorf("get find pattern for %s: %w", d, err)
		}
		with, err := s.store.Get(domain.WithKey(d), "")
		if err != nil {
			return nil, fmt.Errorf("get replacement for %s: %w", d, err)
		}
		out = append(out, domain.Rule{Domain: d, Find: find, With: with})
	}
	return out, nil
}

// Export writes every rule as plain transfer text, ready to be imported.
func (s *Service) Export(w io.Writer) error {
	rules, err := s.Rules()
	if err != nil {
		return err
	}
	return domain.WriteTransfer(w, rules)
}

// RegenerateCache rewrites the host-matching pattern from the domain list.
// Stray separators in the stored list do not reach the pattern.
func (s *Service) RegenerateCache() error {
	list, err := s.domainList()
	if err != nil {
		return err
	}
	if err := s.store.Set(domain.KeyPatternCache, domain.EscapePattern(list.Encode())); err != nil {
		return fmt.Errorf("store pattern cache: %w", err)
	}
	return nil
}

func (s *Service) domainList() (domain.DomainList, error) {
	raw, err := s.store.Get(domain.KeyDomains, "")
	if err != nil {
		return nil, fmt.Errorf("get domain list: %w", err)
	}
	return domain.DecodeDomainList(raw), nil
}
