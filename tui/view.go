package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/giwty/slm-view/editor"
	"github.com/giwty/slm-view/render"
	"github.com/giwty/slm-view/tabs"
)

type styles struct {
	tabActive   lipgloss.Style
	tabInactive lipgloss.Style
	summary     lipgloss.Style
	status      lipgloss.Style
	help        lipgloss.Style
	box         lipgloss.Style
}

func stylesFor(theme string) styles {
	accent, muted := lipgloss.Color("219"), lipgloss.Color("240")
	switch theme {
	case render.THEME_LIGHT:
		accent, muted = lipgloss.Color("162"), lipgloss.Color("245")
	case render.THEME_BRIGHT:
		accent, muted = lipgloss.Color("51"), lipgloss.Color("250")
	}

	return styles{
		tabActive:   lipgloss.NewStyle().Bold(true).Foreground(accent).Padding(0, 1).Underline(true),
		tabInactive: lipgloss.NewStyle().Foreground(muted).Padding(0, 1),
		summary:     lipgloss.NewStyle().Bold(true),
		status:      lipgloss.NewStyle().Foreground(accent),
		help:        lipgloss.NewStyle().Faint(true),
		box:         lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(1, 2),
	}
}

const (
	helpData     = "tab/shift+tab switch • / filter • 1-9 sort • r refresh • R rescan • o organize • t theme • q quit"
	helpSettings = "e edit • l reload • t theme • q quit"
	helpEditing  = "ctrl+s save • esc cancel • ctrl+r reload"
)

func (m *Model) View() string {
	if m.closed {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.tabBar())
	b.WriteString("\n")

	if m.filtering {
		b.WriteString(m.filter.View())
	} else {
		b.WriteString(m.styles.summary.Render(m.summary()))
	}
	b.WriteString("\n")

	body := m.body()
	if state := m.cfg.Overlay.State(); state.Visible {
		body = m.overlay(state.Label, state.Percent)
	}
	b.WriteString(body)
	b.WriteString("\n")

	b.WriteString(m.styles.status.Render(m.statusLine()))
	b.WriteString("\n")
	b.WriteString(m.styles.help.Render(m.help()))
	return b.String()
}

func (m *Model) tabBar() string {
	parts := make([]string, 0, len(tabs.Order))
	for i, tab := range tabs.Order {
		style := m.styles.tabInactive
		if i == m.active {
			style = m.styles.tabActive
		}
		parts = append(parts, style.Render(tabs.Titles[tab]))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) summary() string {
	t := m.cfg.Tabs
	switch m.Tab() {
	case tabs.TAB_LIBRARY:
		s := render.Summary(t.Library.View())
		if n := t.NumFiles(); n > 0 {
			s += fmt.Sprintf(" | %d files", n)
		}
		return s
	case tabs.TAB_MISSING_UPDATES:
		return render.Summary(t.Updates.View())
	case tabs.TAB_MISSING_DLC:
		return render.Summary(t.DLC.View())
	case tabs.TAB_ISSUES:
		return render.Summary(t.Issues.View())
	}

	v := m.cfg.Editor.View()
	s := fmt.Sprintf("%v: %v", tabs.Titles[tabs.TAB_SETTINGS], v.State)
	if v.Loading {
		s += " | loading"
	}
	return s
}

// Visible slice of the active tab's content
func (m *Model) body() string {
	t := m.cfg.Tabs
	opts := m.cfg.Render

	var content string
	switch m.Tab() {
	case tabs.TAB_LIBRARY:
		content = render.Table(t.Library.Table(), t.Library.View(), opts)
	case tabs.TAB_MISSING_UPDATES:
		content = render.Table(t.Updates.Table(), t.Updates.View(), opts)
	case tabs.TAB_MISSING_DLC:
		content = render.Table(t.DLC.Table(), t.DLC.View(), opts)
	case tabs.TAB_ISSUES:
		content = render.Table(t.Issues.Table(), t.Issues.View(), opts)
	default:
		return m.settingsBody()
	}

	return m.crop(content)
}

func (m *Model) settingsBody() string {
	v := m.cfg.Editor.View()
	switch v.State {
	case editor.Unloaded:
		return render.LOADING
	case editor.Editing, editor.Saving:
		return m.area.View()
	}
	return m.crop(v.Committed)
}

func (m *Model) crop(content string) string {
	lines := strings.Split(content, "\n")
	h := m.bodyHeight()
	if m.offset > len(lines)-h {
		m.offset = max(len(lines)-h, 0)
	}
	end := min(m.offset+h, len(lines))
	return strings.Join(lines[m.offset:end], "\n")
}

func (m *Model) overlay(label string, percent float64) string {
	box := m.styles.box.Render(label + "\n\n" + m.bar.ViewAs(percent/100))
	return lipgloss.Place(m.width, m.bodyHeight(), lipgloss.Center, lipgloss.Center, box)
}

func (m *Model) statusLine() string {
	if m.Tab() == tabs.TAB_SETTINGS {
		if s := m.cfg.Editor.Status(); s != "" {
			return s
		}
	}
	return m.status
}

func (m *Model) help() string {
	if m.Tab() != tabs.TAB_SETTINGS {
		return helpData
	}
	if m.cfg.Editor.State() == editor.Editing {
		return helpEditing
	}
	return helpSettings
}

// Lines left for the tab content
func (m *Model) bodyHeight() int {
	return max(m.height-5, 3)
}

func lineCount(text string) int {
	if text == "" {
		return 0
	}
	return strings.Count(text, "\n") + 1
}
