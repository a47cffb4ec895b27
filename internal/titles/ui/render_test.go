package ui

import (
	"bytes"
	"testing"

	"github.com/haukened/tabrename/internal/titles/domain"
	"github.com/haukened/tabrename/internal/titles/services/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderQuickAdd(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderQuickAdd(&buf, "example.com", "Foo Page", rules.SuccessMessage))
	out := buf.String()
	assert.Contains(t, out, `Full title: "Foo Page"`)
	assert.Contains(t, out, "Domain:       example.com\n")
	assert.Contains(t, out, "Search for:   Foo Page\n")
	assert.Contains(t, out, rules.SuccessMessage)
}

func TestRenderManage(t *testing.T) {
	tests := []struct {
		name     string
		view     rules.View
		want     string
		excluded []string
	}{
		{
			name: "empty",
			view: rules.View{CanImport: true},
			want: "Commands: import\n",
		},
		{
			name: "single rule",
			view: rules.View{
				Rules:     []domain.Rule{{Domain: "a.com", Find: "x", With: "y"}},
				CanImport: true,
			},
			want: "a.com\nx\ny\n[remove a.com]\n========\nCommands: import\n",
		},
		{
			name: "two rules",
			view: rules.View{
				Rules: []domain.Rule{
					{Domain: "b.com", Find: "p"},
					{Domain: "a.com", Find: "x", With: "y"},
				},
				CanImport: true,
				CanSort:   true,
				CanExport: true,
			},
			want: "b.com\np\n\n[remove b.com]\n========\n" +
				"a.com\nx\ny\n[remove a.com]\n========\n" +
				"Commands: import | sort | export\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, RenderManage(&buf, tt.view))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestRenderExport(t *testing.T) {
	view := rules.View{Rules: []domain.Rule{
		{Domain: "a.com", Find: "x", With: "y"},
		{Domain: "b.com", Find: "p"},
	}}
	var buf bytes.Buffer
	require.NoError(t, RenderExport(&buf, view))
	out := buf.String()
	assert.NotContains(t, out, "[remove")
	assert.NotContains(t, out, "Commands:")
	assert.Contains(t, out, ExportInstructions)

	blocks, err := domain.ParseTransfer(bytes.NewReader(buf.Bytes()[:bytes.Index(buf.Bytes(), []byte(ExportInstructions))]))
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, "a.com", blocks[0].Domain)
	assert.Equal(t, "y", blocks[0].With)
	assert.Equal(t, "p", blocks[1].Find)
}
