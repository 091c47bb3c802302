package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rebelice/datalist/internal/ui/theme"
)

// PromptSubmitMsg carries the value entered in a prompt. Purpose is the tag
// the prompt was opened with.
type PromptSubmitMsg struct {
	Purpose string
	Value   string
}

// PromptCancelMsg is sent when a prompt is dismissed
type PromptCancelMsg struct {
	Purpose string
}

// Prompt asks for one line of text
type Prompt struct {
	Width   int
	Theme   theme.Theme
	Input   textinput.Model
	label   string
	purpose string
}

// NewPrompt creates a prompt
func NewPrompt(th theme.Theme) *Prompt {
	ti := textinput.New()
	ti.CharLimit = 512
	ti.Width = 40
	return &Prompt{Width: 60, Theme: th, Input: ti}
}

// Open shows the prompt with a label and an initial value
func (p *Prompt) Open(purpose, label, value string) tea.Cmd {
	p.purpose = purpose
	p.label = label
	p.Input.SetValue(value)
	p.Input.CursorEnd()
	return p.Input.Focus()
}

// Purpose returns the tag of the open prompt
func (p *Prompt) Purpose() string { return p.purpose }

// Update handles messages
func (p *Prompt) Update(msg tea.Msg) (*Prompt, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		purpose := p.purpose
		switch key.String() {
		case "enter":
			value := p.Input.Value()
			p.Input.Blur()
			return p, func() tea.Msg { return PromptSubmitMsg{Purpose: purpose, Value: value} }
		case "esc":
			p.Input.Blur()
			return p, func() tea.Msg { return PromptCancelMsg{Purpose: purpose} }
		}
	}
	var cmd tea.Cmd
	p.Input, cmd = p.Input.Update(msg)
	return p, cmd
}

// View renders the prompt
func (p *Prompt) View() string {
	p.Input.Width = max(p.Width-len(p.label)-8, 10)
	labelStyle := lipgloss.NewStyle().Foreground(p.Theme.Info).Bold(true)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Theme.BorderFocused).
		Padding(0, 1).
		Width(p.Width).
		Render(labelStyle.Render(p.label) + " " + p.Input.View())
}
