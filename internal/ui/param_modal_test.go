package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typeString(m ParamModel, s string) ParamModel {
	for _, r := range s {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(ParamModel)
	}
	return m
}

func press(m ParamModel, key tea.KeyType) (ParamModel, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: key})
	return next.(ParamModel), cmd
}

func TestParamModelSubmitFlow(t *testing.T) {
	m := NewParamModel("transfer", []string{"to", "amount"})

	m = typeString(m, "GDEF")
	m, _ = press(m, tea.KeyEnter) // advance to amount
	m = typeString(m, "50")
	m, cmd := press(m, tea.KeyEnter)

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.True(t, m.Submitted())
	assert.Equal(t, map[string]string{"to": "GDEF", "amount": "50"}, m.Values())
}

func TestParamModelBlankValueBlocksSubmit(t *testing.T) {
	m := NewParamModel("transfer", []string{"to"})

	m, cmd := press(m, tea.KeyEnter)
	assert.Nil(t, cmd)
	assert.False(t, m.Submitted())
	assert.Contains(t, m.View(), "to must not be blank")
}

func TestParamModelEscCancels(t *testing.T) {
	m := NewParamModel("transfer", []string{"to"})
	m = typeString(m, "GDEF")

	m, cmd := press(m, tea.KeyEsc)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.False(t, m.Submitted())
}

func TestParamModelTabCycles(t *testing.T) {
	m := NewParamModel("transfer", []string{"to", "amount"})

	m, _ = press(m, tea.KeyTab)
	m = typeString(m, "50")
	m, _ = press(m, tea.KeyTab) // wraps back to the first input
	m = typeString(m, "GDEF")

	assert.Equal(t, map[string]string{"to": "GDEF", "amount": "50"}, m.Values())
}

func TestParamModelViewListsParams(t *testing.T) {
	m := NewParamModel("transfer", []string{"to", "amount"})
	view := m.View()
	assert.Contains(t, view, "transfer")
	assert.Contains(t, view, "to")
	assert.Contains(t, view, "amount")
}
