// Package rewriter applies stored title rules to a page: it picks the stored
// domain matching the host and replaces the first occurrence of that domain's
// find pattern in the title.
package rewriter

import (
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/haukened/tabrename/internal/titles/common/log"
	"github.com/haukened/tabrename/internal/titles/common/utils"
	"github.com/haukened/tabrename/internal/titles/domain"
	"github.com/haukened/tabrename/internal/titles/repos/kvstore"
	"github.com/haukened/tabrename/internal/titles/repos/patterncache"
)

// DefaultMatchTimeout bounds a single regex evaluation.
const DefaultMatchTimeout = 250 * time.Millisecond

type Rewriter struct {
	store        kvstore.Store
	cache        patterncache.Cache
	logger       log.Logger
	strict       bool
	matchTimeout time.Duration
}

type Options struct {
	Store  kvstore.Store
	Cache  patterncache.Cache
	Logger log.Logger
	// Strict only accepts a stored domain equal to the host or a dot-bounded
	// suffix of it. Off, any substring of the host can match.
	Strict       bool
	MatchTimeout time.Duration
}

// Result describes one rewrite.
type Result struct {
	Title   string // resulting title, unchanged when Applied is false
	Applied bool   // a find pattern matched and was replaced
	Domain  string // stored domain that matched the host, if any
	Find    string // stored find pattern of Domain
}

func New(opts Options) *Rewriter {
	cache := opts.Cache
	if cache == nil {
		cache, _ = patterncache.New(0)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	timeout := opts.MatchTimeout
	if timeout <= 0 {
		timeout = DefaultMatchTimeout
	}
	return &Rewriter{
		store:        opts.Store,
		cache:        cache,
		logger:       logger.With(map[string]any{"component": "rewriter"}),
		strict:       opts.Strict,
		matchTimeout: timeout,
	}
}

// Rewrite returns the title a page on host should show. No stored domain
// matching, an empty title, or an empty find pattern leave the title as is.
func (r *Rewriter) Rewrite(host, title string) (Result, error) {
	res := Result{Title: title}

	d, ok, err := r.MatchDomain(host)
	if err != nil || !ok {
		return res, err
	}
	res.Domain = d

	find, err := r.store.Get(domain.FindKey(d), "")
	if err != nil {
		return res, fmt.Errorf("get find pattern for %s: %w", d, err)
	}
	with, err := r.store.Get(domain.WithKey(d), "")
	if err != nil {
		return res, fmt.Errorf("get replacement for %s: %w", d, err)
	}
	res.Find = find
	if title == "" || find == "" {
		r.logger.Debug(map[string]any{"domain": d, "empty_title": title == "", "empty_find": find == ""}, "rewrite_skipped")
		return res, nil
	}

	out, applied, err := r.replaceFirst(title, find, with)
	if err != nil {
		return res, err
	}
	res.Title, res.Applied = out, applied
	r.logger.Debug(map[string]any{"domain": d, "applied": applied}, "rewrite_done")
	return res, nil
}

// MatchDomain returns the stored domain that applies to host.
func (r *Rewriter) MatchDomain(host string) (string, bool, error) {
	host = utils.CanonicalHost(host)
	raw, err := r.store.Get(domain.KeyDomains, "")
	if err != nil {
		return "", false, fmt.Errorf("get domain list: %w", err)
	}
	list := domain.DecodeDomainList(raw)
	if len(list) == 0 || host == "" {
		return "", false, nil
	}

	if r.strict {
		name := utils.HostName(host)
		for _, d := range list {
			if name == d || strings.HasSuffix(name, "."+d) {
				return d, true, nil
			}
		}
		return "", false, nil
	}

	pattern, err := r.hostPattern(list)
	if err != nil {
		return "", false, err
	}
	re, err := r.compile(pattern, regexp2.ECMAScript)
	if err != nil {
		return "", false, fmt.Errorf("compile domain pattern: %w", err)
	}
	m, err := re.FindStringMatch(host)
	if err != nil {
		return "", false, fmt.Errorf("match host %s: %w", host, err)
	}
	if m == nil || m.Length == 0 {
		return "", false, nil
	}
	return m.String(), true, nil
}

// hostPattern returns the stored pattern cache when it agrees with list and
// the recomputed pattern otherwise.
func (r *Rewriter) hostPattern(list domain.DomainList) (string, error) {
	want := domain.EscapePattern(list.Encode())
	cached, err := r.store.Get(domain.KeyPatternCache, "")
	if err != nil {
		return "", fmt.Errorf("get pattern cache: %w", err)
	}
	if cached != want {
		r.logger.Debug(map[string]any{"absent": cached == ""}, "pattern_cache_stale")
		return want, nil
	}
	return cached, nil
}

// replaceFirst replaces the first occurrence of a stored find pattern.
func (r *Rewriter) replaceFirst(title, find, with string) (string, bool, error) {
	if !domain.IsRegexFind(find) {
		i := strings.Index(title, find)
		if i < 0 {
			return title, false, nil
		}
		m := match{before: title[:i], text: find, after: title[i+len(find):]}
		return m.before + expand(with, m) + m.after, true, nil
	}

	src := strings.TrimPrefix(find, domain.RegexPrefix)
	re, err := r.compile(src, regexp2.IgnoreCase|regexp2.ECMAScript)
	if err != nil {
		return title, false, fmt.Errorf("compile find pattern %q: %w", src, err)
	}
	rm, err := re.FindStringMatch(title)
	if err != nil {
		return title, false, fmt.Errorf("match find pattern %q: %w", src, err)
	}
	if rm == nil {
		return title, false, nil
	}
	m := newRegexMatch(re, rm, title)
	return m.before + expand(with, m) + m.after, true, nil
}

// compile returns a cached regex for src, compiling it on a miss.
func (r *Rewriter) compile(src string, opts regexp2.RegexOptions) (*regexp2.Regexp, error) {
	key := fmt.Sprintf("%d/%s", opts, src)
	if re, ok := r.cache.Get(key); ok {
		return re, nil
	}
	re, err := regexp2.Compile(src, opts)
	if err != nil {
		return nil, err
	}
	re.MatchTimeout = r.matchTimeout
	r.cache.Put(key, re)
	return re, nil
}
