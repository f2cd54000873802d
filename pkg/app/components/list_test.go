package components

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func items(titles ...string) []ListItem {
	out := make([]ListItem, len(titles))
	for i, t := range titles {
		out[i] = ListItem{Title: t, Value: t}
	}
	return out
}

func TestNewList(t *testing.T) {
	list := NewList("nothing here")

	if list == nil {
		t.Fatal("Expected list to be created")
	}

	if list.SelectedIndex != 0 {
		t.Errorf("Expected SelectedIndex 0, got %d", list.SelectedIndex)
	}

	if len(list.Items) != 0 {
		t.Errorf("Expected 0 items, got %d", len(list.Items))
	}
}

func TestSetItemsClampsSelection(t *testing.T) {
	list := NewList("")
	list.SetItems(items("a", "b", "c"))
	list.SelectedIndex = 2

	list.SetItems(items("a", "b"))
	if list.SelectedIndex != 1 {
		t.Errorf("Expected SelectedIndex to be clamped to 1, got %d", list.SelectedIndex)
	}

	list.SetItems(nil)
	if list.SelectedIndex != 0 {
		t.Errorf("Expected SelectedIndex to be reset to 0, got %d", list.SelectedIndex)
	}
}

func TestNextPrevWrap(t *testing.T) {
	list := NewList("")
	list.SetItems(items("a", "b", "c"))

	list.Next()
	list.Next()
	assert.Equal(t, 2, list.SelectedIndex)

	list.Next()
	assert.Equal(t, 0, list.SelectedIndex, "next wraps to the top")

	list.Prev()
	assert.Equal(t, 2, list.SelectedIndex, "prev wraps to the bottom")
}

func TestNextPrevEmptyList(t *testing.T) {
	list := NewList("")

	// Should not panic with empty list
	list.Next()
	list.Prev()

	assert.Equal(t, 0, list.SelectedIndex)
	assert.Nil(t, list.Selected())
}

func TestSelected(t *testing.T) {
	list := NewList("")
	list.SetItems(items("a", "b"))
	list.Next()

	selected := list.Selected()
	if assert.NotNil(t, selected) {
		assert.Equal(t, "b", selected.Value)
	}
}

func TestListView(t *testing.T) {
	list := NewList("No files available - scan videos first")
	assert.Contains(t, list.View(), "No files available - scan videos first")

	list.SetItems([]ListItem{{Title: "X", Detail: "Episodes 1-5"}, {Title: "Y"}})
	list.Focused = true
	view := list.View()
	assert.Contains(t, view, "▸ X")
	assert.Contains(t, view, "Episodes 1-5")
	assert.Contains(t, view, "  Y")
}

func TestListViewScrollsToSelection(t *testing.T) {
	list := NewList("")
	list.Height = 3
	var titles []string
	for _, c := range "abcdefghij" {
		titles = append(titles, "item-"+string(c))
	}
	list.SetItems(items(titles...))
	list.SelectedIndex = 9

	view := list.View()
	assert.Contains(t, view, "▸ item-j")
	assert.False(t, strings.Contains(view, "item-a"), "rows above the window are hidden")
}
