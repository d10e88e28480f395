package shell

import "github.com/charmbracelet/lipgloss"

// styles centralizes the lipgloss styles of the shell. They are bound to the
// shell's output so colour is dropped when it is not a terminal.
type styles struct {
	title    lipgloss.Style
	id       lipgloss.Style
	muted    lipgloss.Style
	ok       lipgloss.Style
	warn     lipgloss.Style
	err      lipgloss.Style
	breached lipgloss.Style
	safe     lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		id:       r.NewStyle().Foreground(lipgloss.Color("63")),
		muted:    r.NewStyle().Foreground(lipgloss.Color("245")),
		ok:       r.NewStyle().Foreground(lipgloss.Color("46")),
		warn:     r.NewStyle().Foreground(lipgloss.Color("214")),
		err:      r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		breached: r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		safe:     r.NewStyle().Foreground(lipgloss.Color("46")).Bold(true),
	}
}
