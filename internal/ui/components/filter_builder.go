package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rebelice/datalist/internal/filter"
	"github.com/rebelice/datalist/internal/models"
	"github.com/rebelice/datalist/internal/ui/theme"
)

// ApplyFilterMsg is sent when a filter should be added
type ApplyFilterMsg struct {
	Key      string
	Operator string
	Value    *string
}

// CloseFilterBuilderMsg is sent when the filter builder should close
type CloseFilterBuilderMsg struct{}

type builderStep int

const (
	stepColumn builderStep = iota
	stepOperator
	stepValue
)

// FilterBuilder builds one filter: a column, an operator for the column's
// type, then a value when the operator takes one
type FilterBuilder struct {
	Width int
	Theme theme.Theme

	columns       []Column
	step          builderStep
	columnIndex   int
	operators     []models.FilterOperator
	operatorIdx   int
	value         textinput.Model
	validationErr string
}

// NewFilterBuilder creates a new filter builder
func NewFilterBuilder(th theme.Theme) *FilterBuilder {
	ti := textinput.New()
	ti.Placeholder = "value"
	ti.CharLimit = 256
	ti.Width = 40

	return &FilterBuilder{
		Width: 60,
		Theme: th,
		value: ti,
	}
}

// SetColumns updates the available columns and restarts at the column step
func (fb *FilterBuilder) SetColumns(columns []Column) {
	fb.columns = columns
	fb.Reset()
}

// Reset goes back to the column step
func (fb *FilterBuilder) Reset() {
	fb.step = stepColumn
	fb.columnIndex = 0
	fb.operatorIdx = 0
	fb.operators = nil
	fb.validationErr = ""
	fb.value.SetValue("")
	fb.value.Blur()
}

func (fb *FilterBuilder) column() Column {
	return fb.columns[fb.columnIndex]
}

// Update handles keyboard input
func (fb *FilterBuilder) Update(msg tea.Msg) (*FilterBuilder, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		if fb.step == stepValue {
			var cmd tea.Cmd
			fb.value, cmd = fb.value.Update(msg)
			return fb, cmd
		}
		return fb, nil
	}

	switch fb.step {
	case stepColumn:
		return fb.handleColumn(key)
	case stepOperator:
		return fb.handleOperator(key)
	default:
		return fb.handleValue(key)
	}
}

func (fb *FilterBuilder) handleColumn(msg tea.KeyMsg) (*FilterBuilder, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return fb, func() tea.Msg { return CloseFilterBuilderMsg{} }
	case "up", "k":
		if fb.columnIndex > 0 {
			fb.columnIndex--
		}
	case "down", "j":
		if fb.columnIndex < len(fb.columns)-1 {
			fb.columnIndex++
		}
	case "enter":
		if len(fb.columns) == 0 {
			fb.validationErr = "No columns to filter on"
			return fb, nil
		}
		fb.operators = filter.OperatorsForType(fb.column().DataType)
		fb.operatorIdx = 0
		fb.step = stepOperator
		fb.validationErr = ""
	}
	return fb, nil
}

func (fb *FilterBuilder) handleOperator(msg tea.KeyMsg) (*FilterBuilder, tea.Cmd) {
	switch msg.String() {
	case "esc":
		fb.step = stepColumn
	case "up", "k":
		if fb.operatorIdx > 0 {
			fb.operatorIdx--
		}
	case "down", "j":
		if fb.operatorIdx < len(fb.operators)-1 {
			fb.operatorIdx++
		}
	case "enter":
		op := fb.operators[fb.operatorIdx]
		if !op.NeedsValue() {
			return fb, fb.apply(nil)
		}
		fb.step = stepValue
		fb.value.SetValue("")
		return fb, fb.value.Focus()
	}
	return fb, nil
}

func (fb *FilterBuilder) handleValue(msg tea.KeyMsg) (*FilterBuilder, tea.Cmd) {
	switch msg.String() {
	case "esc":
		fb.value.Blur()
		fb.step = stepOperator
		return fb, nil
	case "enter":
		v := fb.value.Value()
		return fb, fb.apply(&v)
	}
	var cmd tea.Cmd
	fb.value, cmd = fb.value.Update(msg)
	return fb, cmd
}

func (fb *FilterBuilder) apply(value *string) tea.Cmd {
	msg := ApplyFilterMsg{
		Key:      fb.column().Name,
		Operator: string(fb.operators[fb.operatorIdx]),
		Value:    value,
	}
	fb.Reset()
	return func() tea.Msg { return msg }
}

// View renders the filter builder
func (fb *FilterBuilder) View() string {
	var sections []string

	titleStyle := lipgloss.NewStyle().
		Foreground(fb.Theme.Foreground).
		Background(fb.Theme.Info).
		Padding(0, 1).
		Bold(true)
	sections = append(sections, titleStyle.Render("Add Filter"))

	instructionStyle := lipgloss.NewStyle().
		Foreground(fb.Theme.Metadata).
		Padding(0, 1)
	var instructions string
	switch fb.step {
	case stepColumn:
		instructions = "↑↓ Select column, Enter to confirm, Esc to close"
	case stepOperator:
		instructions = "↑↓ Select operator, Enter to confirm, Esc to go back"
	default:
		instructions = "Type value, Enter to apply, Esc to go back"
	}
	sections = append(sections, instructionStyle.Render(instructions))

	if fb.validationErr != "" {
		errorStyle := lipgloss.NewStyle().
			Foreground(fb.Theme.Error).
			Padding(0, 1).
			Bold(true)
		sections = append(sections, errorStyle.Render("Error: "+fb.validationErr))
	}

	sections = append(sections, "")
	switch fb.step {
	case stepColumn:
		for i, col := range fb.columns {
			sections = append(sections, fb.option(fmt.Sprintf("%s (%s)", col.Title, col.DataType), i == fb.columnIndex))
		}
	case stepOperator:
		sections = append(sections, "Column: "+fb.column().Name)
		for i, op := range fb.operators {
			sections = append(sections, fb.option(string(op), i == fb.operatorIdx))
		}
	default:
		sections = append(sections, fmt.Sprintf("%s %s", fb.column().Name, fb.operators[fb.operatorIdx]))
		sections = append(sections, fb.value.View())
	}

	containerStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(fb.Theme.BorderFocused).
		Foreground(fb.Theme.Foreground).
		Width(fb.Width).
		Padding(1)

	return containerStyle.Render(strings.Join(sections, "\n"))
}

func (fb *FilterBuilder) option(label string, selected bool) string {
	style := lipgloss.NewStyle().Padding(0, 1)
	if selected {
		style = style.Background(fb.Theme.Selection).Foreground(fb.Theme.Foreground)
		return style.Render("▸ " + label)
	}
	return style.Render("  " + label)
}
