package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rebelice/datalist/internal/ui/theme"
)

// SearchInputMsg is sent when search should be executed. An empty query
// clears the search.
type SearchInputMsg struct {
	Query string
}

// CloseSearchMsg is sent when search should be closed
type CloseSearchMsg struct{}

// SearchInput provides a search input box
type SearchInput struct {
	Input textinput.Model
	Theme theme.Theme
	Width int
}

// NewSearchInput creates a new search input
func NewSearchInput(th theme.Theme) *SearchInput {
	ti := textinput.New()
	ti.Placeholder = "Search..."
	ti.CharLimit = 256
	ti.Width = 40

	return &SearchInput{
		Input: ti,
		Theme: th,
	}
}

// Open focuses the input with the current term
func (s *SearchInput) Open(term string) tea.Cmd {
	s.Input.SetValue(term)
	s.Input.CursorEnd()
	return s.Input.Focus()
}

// Update handles messages
func (s *SearchInput) Update(msg tea.Msg) (*SearchInput, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter":
			query := s.Input.Value()
			s.Input.Blur()
			return s, func() tea.Msg {
				return SearchInputMsg{Query: query}
			}
		case "esc":
			s.Input.Blur()
			return s, func() tea.Msg {
				return CloseSearchMsg{}
			}
		}
	}

	var cmd tea.Cmd
	s.Input, cmd = s.Input.Update(msg)
	return s, cmd
}

// View renders the search input
func (s *SearchInput) View() string {
	s.Input.Width = max(s.Width-12, 20)

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.Theme.BorderFocused).
		Padding(0, 1).
		Width(s.Width)

	helpStyle := lipgloss.NewStyle().
		Foreground(s.Theme.Metadata).
		Italic(true)

	content := "Search: " + s.Input.View()
	helpText := helpStyle.Render("Enter: search │ Esc: close")

	return boxStyle.Render(content + "\n" + helpText)
}
