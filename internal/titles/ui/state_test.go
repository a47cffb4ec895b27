package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPopupTransitions(t *testing.T) {
	p := NewPopup()
	assert.Equal(t, Closed, p.State())

	require.NoError(t, p.Toggle())
	assert.Equal(t, Open, p.State())
	require.NoError(t, p.Toggle())
	assert.Equal(t, Closed, p.State())

	assert.ErrorIs(t, p.Manage(), ErrTransition)
	assert.ErrorIs(t, p.Export(), ErrTransition)

	require.NoError(t, p.Toggle())
	require.NoError(t, p.Manage())
	require.NoError(t, p.Manage())
	assert.Equal(t, Managing, p.State())
	assert.ErrorIs(t, p.Toggle(), ErrTransition)

	require.NoError(t, p.Export())
	assert.Equal(t, Exporting, p.State())
	assert.ErrorIs(t, p.Manage(), ErrTransition)
	assert.ErrorIs(t, p.Export(), ErrTransition)
	assert.ErrorIs(t, p.Toggle(), ErrTransition)

	p.Reload()
	assert.Equal(t, Closed, p.State())
}

func TestStateString(t *testing.T) {
	tests := []struct {
		s    State
		want string
	}{
		{Closed, "closed"},
		{Open, "open"},
		{Managing, "managing"},
		{Exporting, "exporting"},
		{State(9), "State(9)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.s.String())
	}
}
