package components

import (
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/stretchr/testify/assert"
)

func TestNewStatusBar(t *testing.T) {
	bar := NewStatusBar("Ready")

	if bar == nil {
		t.Fatal("Expected status bar to be created")
	}

	if bar.Status() != "Ready" {
		t.Errorf("Expected status Ready, got %q", bar.Status())
	}

	if bar.Active() {
		t.Error("Expected a fresh status bar to be idle")
	}
}

func TestStatusBarActive(t *testing.T) {
	bar := NewStatusBar("Ready")

	bar.SetPhase("config", "loading")
	assert.True(t, bar.Active())

	bar.SetPhase("config", "success")
	bar.SetPhase("files", "error")
	assert.False(t, bar.Active())

	bar.SetBusy(true)
	assert.True(t, bar.Active())
}

func TestStatusBarView(t *testing.T) {
	bar := NewStatusBar("Ready")
	bar.SetStatus("Error: Index out of range")
	bar.SetPhase("shows", "success")
	bar.SetPhase("config", "loading")

	view := bar.View()
	assert.Contains(t, view, "Status: Error: Index out of range")
	assert.Contains(t, view, "config loading")
	assert.Contains(t, view, "shows success")
}

func TestStatusBarIgnoresOtherMessages(t *testing.T) {
	bar := NewStatusBar("Ready")
	assert.Nil(t, bar.Update("not a tick"))
	assert.NotNil(t, bar.Tick())

	// a tick addressed to another spinner is dropped
	assert.Nil(t, bar.Update(spinner.TickMsg{ID: 1 << 30}))
}
