package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type confirmResult int

const (
	confirmPending confirmResult = iota
	confirmAccepted
	confirmDeclined
)

// ConfirmationDialog is a yes/no prompt. No is selected by default.
type ConfirmationDialog struct {
	Title       string
	Message     string
	YesSelected bool
	Busy        bool
}

func NewConfirmationDialog(title, message string) ConfirmationDialog {
	return ConfirmationDialog{
		Title:   title,
		Message: message,
	}
}

func (d *ConfirmationDialog) Update(msg tea.Msg) confirmResult {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || d.Busy {
		return confirmPending
	}
	switch keyMsg.String() {
	case "left", "h":
		d.YesSelected = true
	case "right", "l":
		d.YesSelected = false
	case "y":
		return confirmAccepted
	case "n", "esc", "q":
		return confirmDeclined
	case "enter":
		if d.YesSelected {
			return confirmAccepted
		}
		return confirmDeclined
	}
	return confirmPending
}

func (d ConfirmationDialog) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(d.Title))
	b.WriteString("\n\n")
	b.WriteString(d.Message)
	b.WriteString("\n\n")

	yesButton := inactiveButtonStyle.Render("Delete")
	noButton := inactiveButtonStyle.Render("Cancel")
	if d.YesSelected {
		yesButton = activeButtonStyle.Render("Delete")
	} else {
		noButton = activeButtonStyle.Render("Cancel")
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Left, noButton, "  ", yesButton))
	b.WriteString("\n")
	if d.Busy {
		b.WriteString(mutedStyle.Render("Deleting..."))
	}
	b.WriteString(helpStyle.Render(FormatKey("←/→", "choose") + " • " + FormatKey("enter", "confirm") + " • " + FormatKey("esc", "cancel")))

	return boxStyle.Render(b.String())
}

type toast struct {
	id      int
	text    string
	isError bool
}

func (t toast) View() string {
	if t.text == "" {
		return ""
	}
	if t.isError {
		return errorToastStyle.Render("✗ " + t.text)
	}
	return successToastStyle.Render("✓ " + t.text)
}
