package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
)

type toastMsg struct {
	text    string
	isError bool
}

// ProgramNotifier turns notifications into toasts on a running program.
// Notifications sent before Attach are only logged.
type ProgramNotifier struct {
	mu      sync.Mutex
	program *tea.Program
	log     *logrus.Logger
}

func NewProgramNotifier(logger *logrus.Logger) *ProgramNotifier {
	return &ProgramNotifier{log: logger}
}

func (n *ProgramNotifier) Attach(p *tea.Program) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.program = p
}

func (n *ProgramNotifier) Success(message string) {
	n.log.Infof("Notify: %s", message)
	n.send(toastMsg{text: message})
}

func (n *ProgramNotifier) Error(message string) {
	n.log.Warnf("Notify: %s", message)
	n.send(toastMsg{text: message, isError: true})
}

func (n *ProgramNotifier) send(msg toastMsg) {
	n.mu.Lock()
	p := n.program
	n.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}
