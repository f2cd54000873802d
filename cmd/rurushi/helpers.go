package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/rurushi/panel/pkg/app/styles"
	"github.com/rurushi/panel/pkg/services"
)

var errCommandFailed = errors.New("command failed")

// dispatch runs one command with its refetches and prints the status
// line. A failed command exits non-zero.
func dispatch(ctx context.Context, w io.Writer, cmd func(context.Context) services.Outcome) (services.Outcome, error) {
	o := rt.dispatcher.Do(ctx, cmd)
	printStatus(w, o.Status)
	if !o.OK() {
		return o, errCommandFailed
	}
	return o, nil
}

func printStatus(w io.Writer, status string) {
	fmt.Fprintln(w, styles.StatusStyle(status).Render(status))
}

// heading prints a bold title line, followed by a blank line.
func heading(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n\n", lipgloss.NewStyle().Bold(true).Foreground(styles.Primary).Render(title))
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
