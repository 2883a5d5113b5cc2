// Package ui provides the terminal parameter-collection modal: when a
// tx: link flags user-settable parameters, the dispatch engine suspends
// and this modal gathers a non-blank value for every parameter before
// the transaction may be submitted. Esc cancels with no transaction.
package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	hintStyle  = lipgloss.NewStyle().Faint(true)
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)
)

// ParamModel is the bubbletea model for the parameter modal.
type ParamModel struct {
	method    string
	names     []string
	inputs    []textinput.Model
	focus     int
	submitted bool
	hint      string
}

// NewParamModel builds a modal for one transaction's flagged parameters.
func NewParamModel(method string, names []string) ParamModel {
	inputs := make([]textinput.Model, len(names))
	for i, name := range names {
		in := textinput.New()
		in.Placeholder = name
		in.CharLimit = 256
		if i == 0 {
			in.Focus()
		}
		inputs[i] = in
	}
	return ParamModel{method: method, names: names, inputs: inputs}
}

func (m ParamModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m ParamModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "ctrl+c":
			m.submitted = false
			return m, tea.Quit
		case "enter":
			if m.focus < len(m.inputs)-1 {
				return m.setFocus(m.focus + 1)
			}
			if name, ok := m.firstBlank(); ok {
				m.hint = fmt.Sprintf("%s must not be blank", name)
				return m, nil
			}
			m.submitted = true
			return m, tea.Quit
		case "tab", "down":
			return m.setFocus((m.focus + 1) % len(m.inputs))
		case "shift+tab", "up":
			return m.setFocus((m.focus - 1 + len(m.inputs)) % len(m.inputs))
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	m.hint = ""
	return m, cmd
}

func (m ParamModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Sign transaction: %s", m.method)))
	b.WriteString("\n\n")
	for i, in := range m.inputs {
		b.WriteString(labelStyle.Render(m.names[i]))
		b.WriteString("\n")
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	if m.hint != "" {
		b.WriteString("\n" + hintStyle.Render(m.hint))
	}
	b.WriteString("\n" + hintStyle.Render("enter submit · tab next · esc cancel"))
	return boxStyle.Render(b.String())
}

func (m ParamModel) setFocus(i int) (tea.Model, tea.Cmd) {
	m.inputs[m.focus].Blur()
	m.focus = i
	return m, m.inputs[m.focus].Focus()
}

// firstBlank returns the first parameter with a blank value.
func (m ParamModel) firstBlank() (string, bool) {
	for i, in := range m.inputs {
		if strings.TrimSpace(in.Value()) == "" {
			return m.names[i], true
		}
	}
	return "", false
}

// Submitted reports whether the user confirmed the modal.
func (m ParamModel) Submitted() bool { return m.submitted }

// Values returns the collected parameter values.
func (m ParamModel) Values() map[string]string {
	values := make(map[string]string, len(m.names))
	for i, name := range m.names {
		values[name] = m.inputs[i].Value()
	}
	return values
}

// ModalPrompter runs the modal as a full bubbletea program. It
// implements dispatch.ParamPrompter for terminal hosts.
type ModalPrompter struct{}

// Prompt blocks until the user submits or cancels.
func (ModalPrompter) Prompt(ctx context.Context, method string, params []string) (map[string]string, bool, error) {
	p := tea.NewProgram(NewParamModel(method, params), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return nil, false, err
	}
	m, ok := final.(ParamModel)
	if !ok || !m.Submitted() {
		return nil, false, nil
	}
	return m.Values(), true, nil
}
