package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rurushi/panel/pkg/app/screens"
	"github.com/rurushi/panel/pkg/services"
)

type App struct {
	dispatcher *services.Dispatcher
	fileLimit  int
}

func NewApp(dispatcher *services.Dispatcher, fileLimit int) *App {
	return &App{dispatcher: dispatcher, fileLimit: fileLimit}
}

// Run blocks until the operator quits. Fetches still in flight at that
// point are cancelled and their results dropped.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.dispatcher.Close()

	model := screens.NewRootScreen(screens.Session{
		Ctx:        ctx,
		Dispatcher: a.dispatcher,
		FileLimit:  a.fileLimit,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
