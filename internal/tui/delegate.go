package tui

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/feedpager/internal/model"
	"github.com/idilsaglam/feedpager/internal/ui"
)

// recordItem adapts model.Record to bubbles/list.Item
type recordItem struct {
	model.Record
}

func (i recordItem) FilterValue() string { return i.Title + " " + i.Body }

// Single-line, three-column rows: id / title / body.
type recordDelegate struct{}

func (d recordDelegate) Height() int                               { return 1 }
func (d recordDelegate) Spacing() int                              { return 0 }
func (d recordDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d recordDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(recordItem)
	if !ok {
		return
	}
	idw, tw, bw := ui.Columns(m.Width() - 2)

	cell := func(s lipgloss.Style, text string, width int) string {
		return s.Width(width).MaxWidth(width).Render(ui.Truncate(text, width))
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top,
		cell(idStyle, strconv.Itoa(it.ID), idw),
		mutedStyle.Render(" │ "),
		cell(lipgloss.NewStyle(), it.Title, tw),
		mutedStyle.Render(" │ "),
		cell(bodyStyle, it.Body, bw),
	)

	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render(">") + " "
	}
	fmt.Fprint(w, prefix+line)
}
