package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rebelice/datalist/internal/models"
	"github.com/rebelice/datalist/internal/ui/theme"
)

// BookmarksMode represents the dialog mode
type BookmarksMode int

const (
	BookmarksModeList BookmarksMode = iota
	BookmarksModeAdd
)

// OpenBookmarkMsg is sent when a bookmarked view should be opened
type OpenBookmarkMsg struct {
	Bookmark models.Bookmark
}

// DeleteBookmarkMsg is sent when a bookmark should be deleted
type DeleteBookmarkMsg struct {
	Bookmark models.Bookmark
}

// SaveBookmarkMsg is sent when the current view should be bookmarked
type SaveBookmarkMsg struct {
	Name        string
	Description string
	Tags        []string
}

// CloseBookmarksDialogMsg is sent when dialog should close
type CloseBookmarksDialogMsg struct{}

const (
	fieldName = iota
	fieldDescription
	fieldTags
	fieldCount
)

// BookmarksDialog lists saved views and saves the current one
type BookmarksDialog struct {
	Width  int
	Height int
	Theme  theme.Theme

	mode      BookmarksMode
	bookmarks []models.Bookmark
	selected  int
	offset    int

	fields       [fieldCount]textinput.Model
	currentField int
}

// NewBookmarksDialog creates a new bookmarks dialog
func NewBookmarksDialog(th theme.Theme) *BookmarksDialog {
	fd := &BookmarksDialog{
		Width:  70,
		Height: 20,
		Theme:  th,
	}
	for i := range fd.fields {
		ti := textinput.New()
		ti.CharLimit = 256
		ti.Width = 40
		fd.fields[i] = ti
	}
	fd.fields[fieldTags].Placeholder = "comma separated"
	return fd
}

// SetBookmarks updates the bookmarks list
func (fd *BookmarksDialog) SetBookmarks(bookmarks []models.Bookmark) {
	fd.bookmarks = bookmarks
	if fd.selected >= len(bookmarks) {
		fd.selected = max(len(bookmarks)-1, 0)
	}
	fd.offset = min(fd.offset, fd.selected)
}

// Mode returns the current mode
func (fd *BookmarksDialog) Mode() BookmarksMode {
	return fd.mode
}

// StartAdd switches to the form for bookmarking the current view
func (fd *BookmarksDialog) StartAdd() tea.Cmd {
	fd.mode = BookmarksModeAdd
	for i := range fd.fields {
		fd.fields[i].SetValue("")
		fd.fields[i].Blur()
	}
	fd.currentField = fieldName
	return fd.fields[fieldName].Focus()
}

// Update handles keyboard input
func (fd *BookmarksDialog) Update(msg tea.Msg) (*BookmarksDialog, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if fd.mode == BookmarksModeAdd {
		if !ok {
			var cmd tea.Cmd
			fd.fields[fd.currentField], cmd = fd.fields[fd.currentField].Update(msg)
			return fd, cmd
		}
		return fd.handleAddMode(key)
	}
	if !ok {
		return fd, nil
	}
	return fd.handleListMode(key)
}

func (fd *BookmarksDialog) handleListMode(msg tea.KeyMsg) (*BookmarksDialog, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		return fd, func() tea.Msg {
			return CloseBookmarksDialogMsg{}
		}
	case "up", "k":
		if fd.selected > 0 {
			fd.selected--
			if fd.selected < fd.offset {
				fd.offset = fd.selected
			}
		}
	case "down", "j":
		if fd.selected < len(fd.bookmarks)-1 {
			fd.selected++
			visibleHeight := fd.visibleHeight()
			if fd.selected >= fd.offset+visibleHeight {
				fd.offset = fd.selected - visibleHeight + 1
			}
		}
	case "enter":
		if fd.selected < len(fd.bookmarks) {
			b := fd.bookmarks[fd.selected]
			return fd, func() tea.Msg {
				return OpenBookmarkMsg{Bookmark: b}
			}
		}
	case "a", "n":
		return fd, fd.StartAdd()
	case "d", "x":
		if fd.selected < len(fd.bookmarks) {
			b := fd.bookmarks[fd.selected]
			return fd, func() tea.Msg {
				return DeleteBookmarkMsg{Bookmark: b}
			}
		}
	}
	return fd, nil
}

func (fd *BookmarksDialog) handleAddMode(msg tea.KeyMsg) (*BookmarksDialog, tea.Cmd) {
	switch msg.String() {
	case "esc":
		fd.mode = BookmarksModeList
		return fd, nil
	case "tab", "down":
		return fd, fd.focus((fd.currentField + 1) % fieldCount)
	case "shift+tab", "up":
		return fd, fd.focus((fd.currentField - 1 + fieldCount) % fieldCount)
	case "enter":
		if fd.currentField < fieldTags {
			return fd, fd.focus(fd.currentField + 1)
		}
		name, description, tags := fd.GetEditData()
		fd.mode = BookmarksModeList
		return fd, func() tea.Msg {
			return SaveBookmarkMsg{Name: name, Description: description, Tags: tags}
		}
	}
	var cmd tea.Cmd
	fd.fields[fd.currentField], cmd = fd.fields[fd.currentField].Update(msg)
	return fd, cmd
}

func (fd *BookmarksDialog) focus(field int) tea.Cmd {
	fd.fields[fd.currentField].Blur()
	fd.currentField = field
	return fd.fields[field].Focus()
}

func (fd *BookmarksDialog) visibleHeight() int {
	return max((fd.Height-6)/2, 1)
}

// GetEditData returns the current form values
func (fd *BookmarksDialog) GetEditData() (name, description string, tags []string) {
	name = strings.TrimSpace(fd.fields[fieldName].Value())
	description = strings.TrimSpace(fd.fields[fieldDescription].Value())
	for _, part := range strings.Split(fd.fields[fieldTags].Value(), ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return
}

// View renders the dialog
func (fd *BookmarksDialog) View() string {
	if fd.mode == BookmarksModeAdd {
		return fd.renderAdd()
	}
	return fd.renderList()
}

func (fd *BookmarksDialog) title(text string) string {
	return lipgloss.NewStyle().
		Foreground(fd.Theme.Foreground).
		Background(fd.Theme.Info).
		Padding(0, 1).
		Bold(true).
		Render(text)
}

func (fd *BookmarksDialog) instructions(text string) string {
	return lipgloss.NewStyle().
		Foreground(fd.Theme.Metadata).
		Padding(0, 1).
		Render(text)
}

func (fd *BookmarksDialog) container(sections []string) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(fd.Theme.Border).
		Width(fd.Width).
		Padding(1).
		Render(strings.Join(sections, "\n"))
}

func (fd *BookmarksDialog) renderList() string {
	sections := []string{
		fd.title("Bookmarks"),
		fd.instructions("↑↓: Navigate  Enter: Open  a: Add current view  d: Delete  Esc: Close"),
	}

	if len(fd.bookmarks) == 0 {
		sections = append(sections, "\nNo bookmarks yet. Press 'a' to bookmark this view.")
		return fd.container(sections)
	}

	sections = append(sections, "")
	end := min(fd.offset+fd.visibleHeight(), len(fd.bookmarks))
	metaStyle := lipgloss.NewStyle().Foreground(fd.Theme.Metadata)
	for i := fd.offset; i < end; i++ {
		b := fd.bookmarks[i]

		detail := b.Description
		if detail == "" {
			detail = b.Location
		}
		if len(detail) > 50 {
			detail = detail[:47] + "..."
		}
		line := fmt.Sprintf("%s\n  %s", b.Name, metaStyle.Render(detail))
		if len(b.Tags) > 0 {
			line += fmt.Sprintf(" [%s]", strings.Join(b.Tags, ", "))
		}
		if b.UsageCount > 0 {
			line += metaStyle.Render(fmt.Sprintf(" · used %d×", b.UsageCount))
		}

		style := lipgloss.NewStyle().Padding(0, 1)
		if i == fd.selected {
			style = style.Background(fd.Theme.Selection).Foreground(fd.Theme.Foreground)
		}
		sections = append(sections, style.Render(line))
	}
	return fd.container(sections)
}

func (fd *BookmarksDialog) renderAdd() string {
	sections := []string{
		fd.title("Bookmark Current View"),
		fd.instructions("Tab: Next field  Enter: Save  Esc: Cancel"),
		"",
	}
	labels := [fieldCount]string{"Name:", "Description:", "Tags:"}
	for i, label := range labels {
		style := lipgloss.NewStyle().Padding(0, 1)
		if i == fd.currentField {
			style = style.Foreground(fd.Theme.Info).Bold(true)
		}
		sections = append(sections, style.Render(fmt.Sprintf("%-13s", label))+fd.fields[i].View())
	}
	return fd.container(sections)
}
