package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/giwty/slm-view/loop"
)

// Run the program until the user quits. The work posted to d runs on the program's
// Update goroutine.
func Run(ctx context.Context, d *loop.Dispatched, m *Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	d.SetWake(func() {
		p.Send(DrainMsg{})
	})
	defer m.Close()

	_, err := p.Run()
	return err
}
