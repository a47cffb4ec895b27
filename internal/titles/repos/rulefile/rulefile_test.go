package rulefile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haukened/tabrename/internal/titles/domain"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

var wantBlocks = []domain.ImportBlock{
	{Domain: "a.com", Find: "Hello", With: "World", Line: 1},
	{Domain: "b.com", Find: `regex:^Hi (\d+)`, With: "$1", Line: 2},
	{Domain: "c.com", Find: "Drop", Line: 3},
}

func TestLoadFile_Formats(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"rules.yaml": `rules:
  - domain: A.com
    find: Hello
    with: World
  - domain: b.com
    find: '^Hi (\d+)'
    with: $1
    regex: true
  - domain: c.com
    find: Drop
`,
		"rules.json": `{"rules": [
  {"domain": "a.com", "find": "Hello", "with": "World"},
  {"domain": "b.com", "find": "^Hi (\\d+)", "with": "$1", "regex": true},
  {"domain": " c.com ", "find": "Drop"}
]}`,
		"rules.toml": `[[rules]]
domain = "a.com"
find = "Hello"
with = "World"

[[rules]]
domain = "b.com"
find = '^Hi (\d+)'
with = "$1"
regex = true

[[rules]]
domain = "c.com"
find = "Drop"
`,
	}
	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			blocks, err := LoadFile(writeFile(t, dir, name, content))
			require.NoError(t, err)
			assert.Equal(t, wantBlocks, blocks)
		})
	}
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(writeFile(t, dir, "rules.txt", "a.com\nx\n"))
	assert.ErrorContains(t, err, "unsupported")

	_, err = LoadFile(writeFile(t, dir, "empty.yaml", "other: 1\n"))
	assert.ErrorContains(t, err, "missing 'rules'")

	_, err = LoadFile(writeFile(t, dir, "broken.json", "{not json"))
	assert.Error(t, err)

	_, err = LoadFile(filepath.Join(dir, "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadFile_EmptyRegexFind(t *testing.T) {
	dir := t.TempDir()
	blocks, err := LoadFile(writeFile(t, dir, "r.yaml", "rules:\n  - domain: a.com\n    regex: true\n  - domain: b.com\n"))
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, "regex:", blocks[0].Find)
	assert.Equal(t, "", blocks[1].Find)
	assert.False(t, blocks[1].Complete())
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "10-first.yaml", "rules:\n  - domain: a.com\n    find: A\n")
	writeFile(t, dir, "20-second.json", `{"rules": [{"domain": "b.com", "find": "B"}]}`)
	writeFile(t, dir, "README.md", "not a rule file")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o700))
	writeFile(t, filepath.Join(dir, "nested"), "30-third.toml", "[[rules]]\ndomain = \"c.com\"\nfind = \"C\"\n")

	blocks, err := LoadDirectory(dir)
	require.NoError(t, err)
	require.Len(t, blocks, 3)
	assert.Equal(t, "a.com", blocks[0].Domain)
	assert.Equal(t, "b.com", blocks[1].Domain)
	assert.Equal(t, "c.com", blocks[2].Domain)
}

func TestLoadDirectory_ParseFailure(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.yaml", "rules: [\n")
	_, err := LoadDirectory(dir)
	assert.Error(t, err)
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("x.YAML"))
	assert.True(t, Supported("x.yml"))
	assert.True(t, Supported("x.json"))
	assert.True(t, Supported("x.toml"))
	assert.False(t, Supported("x.txt"))
	assert.False(t, Supported("rules"))
}
