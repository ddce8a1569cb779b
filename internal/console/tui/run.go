package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the console and blocks until the user quits.
func Run(deps Deps, notifier *ProgramNotifier) error {
	p := tea.NewProgram(NewApp(deps), tea.WithAltScreen())
	notifier.Attach(p)
	defer notifier.Attach(nil)

	_, err := p.Run()
	return err
}
