// Package rulefile loads title rules from structured files. YAML, JSON and
// TOML are supported, each holding a top-level "rules" list:
//
//	rules:
//	  - domain: example.com
//	    find: "^Foo \\d+"
//	    with: Bar
//	    regex: true
package rulefile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"

	"github.com/haukened/tabrename/internal/titles/domain"
)

// fileRule is one entry of the "rules" list.
type fileRule struct {
	Domain string `koanf:"domain"`
	Find   string `koanf:"find"`
	With   string `koanf:"with"`
	Regex  bool   `koanf:"regex"`
}

// Supported reports whether path has an extension this package can parse.
func Supported(path string) bool {
	_, ok := parserFor(path)
	return ok
}

func parserFor(path string) (koanf.Parser, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser(), true
	case ".json":
		return json.Parser(), true
	case ".toml":
		return toml.Parser(), true
	default:
		return nil, false
	}
}

// LoadFile parses one rule file into import blocks, in file order. Domains
// are lowercased and trimmed; a regex entry gets the regex marker on its
// find pattern. Blocks are not validated here.
func LoadFile(path string) ([]domain.ImportBlock, error) {
	parser, ok := parserFor(path)
	if !ok {
		return nil, fmt.Errorf("unsupported rule file type: %s", path)
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("failed to load rule file %s: %w", path, err)
	}
	if !k.Exists("rules") {
		return nil, fmt.Errorf("rule file %s missing 'rules'", path)
	}

	var entries []fileRule
	if err := k.Unmarshal("rules", &entries); err != nil {
		return nil, fmt.Errorf("invalid rules in %s: %w", path, err)
	}

	blocks := make([]domain.ImportBlock, 0, len(entries))
	for i, e := range entries {
		st := domain.SearchLiteral
		if e.Regex {
			st = domain.SearchRegex
		}
		find := e.Find
		if find != "" || e.Regex {
			find = domain.NormalizeFind(find, st)
		}
		blocks = append(blocks, domain.ImportBlock{
			Domain: strings.ToLower(strings.TrimSpace(e.Domain)),
			Find:   find,
			With:   e.With,
			Line:   i + 1,
		})
	}
	return blocks, nil
}

// LoadDirectory walks dir and loads every supported rule file, in lexical
// path order. Unsupported files are ignored. Any parse failure aborts.
func LoadDirectory(dir string) ([]domain.ImportBlock, error) {
	var out []domain.ImportBlock
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || !Supported(path) {
			return err
		}
		blocks, err := LoadFile(path)
		if err != nil {
			return err
		}
		out = append(out, blocks...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
