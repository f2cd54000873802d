package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rurushi/panel/pkg/app/styles"
)

type ListItem struct {
	Title  string
	Detail string
	// Value is what the screen acts on, e.g. a file path or show name.
	Value string
}

// List is a scrollable single-selection list.
type List struct {
	Items         []ListItem
	SelectedIndex int
	Focused       bool
	Empty         string
	Width         int
	Height        int
}

func NewList(empty string) *List {
	return &List{
		Items:         []ListItem{},
		SelectedIndex: 0,
		Empty:         empty,
		Width:         80,
		Height:        10,
	}
}

func (m *List) SetItems(items []ListItem) {
	m.Items = items
	if m.SelectedIndex >= len(items) && len(items) > 0 {
		m.SelectedIndex = len(items) - 1
	}
	if len(items) == 0 {
		m.SelectedIndex = 0
	}
}

func (m *List) Next() {
	if len(m.Items) == 0 {
		return
	}
	m.SelectedIndex++
	if m.SelectedIndex >= len(m.Items) {
		m.SelectedIndex = 0
	}
}

func (m *List) Prev() {
	if len(m.Items) == 0 {
		return
	}
	m.SelectedIndex--
	if m.SelectedIndex < 0 {
		m.SelectedIndex = len(m.Items) - 1
	}
}

func (m *List) Selected() *ListItem {
	if len(m.Items) == 0 || m.SelectedIndex >= len(m.Items) {
		return nil
	}
	return &m.Items[m.SelectedIndex]
}

// window returns the slice of rows to draw so the selection stays visible.
func (m *List) window() (int, int) {
	n := len(m.Items)
	if m.Height <= 0 || n <= m.Height {
		return 0, n
	}
	start := m.SelectedIndex - m.Height/2
	if start < 0 {
		start = 0
	}
	if start+m.Height > n {
		start = n - m.Height
	}
	return start, start + m.Height
}

func (m *List) View() string {
	cardStyle := styles.CardStyle
	if m.Focused {
		cardStyle = styles.ActiveCardStyle
	}
	width := m.Width - 4
	if width < 10 {
		width = 10
	}

	if len(m.Items) == 0 {
		return cardStyle.Width(width).Render(styles.MutedStyle.Render(m.Empty))
	}

	start, end := m.window()
	rows := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		item := m.Items[i]
		line := "  " + item.Title
		style := styles.TextStyle
		if i == m.SelectedIndex {
			line = "▸ " + item.Title
			if m.Focused {
				style = styles.SelectedStyle
			}
		}
		row := style.Render(line)
		if item.Detail != "" {
			row += " " + styles.MutedStyle.Render(item.Detail)
		}
		rows = append(rows, row)
	}

	body := lipgloss.JoinVertical(lipgloss.Left, rows...)
	if start > 0 || end < len(m.Items) {
		body += "\n" + styles.MutedStyle.Render(strings.Repeat("·", 3))
	}
	return cardStyle.Width(width).Render(body)
}
