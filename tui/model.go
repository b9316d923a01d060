// Package tui is the interactive terminal front-end: a bubbletea program whose Update
// goroutine is the view loop the controllers run on.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/giwty/slm-view/backend"
	"github.com/giwty/slm-view/editor"
	"github.com/giwty/slm-view/events"
	"github.com/giwty/slm-view/listing"
	"github.com/giwty/slm-view/loop"
	overlay "github.com/giwty/slm-view/progress"
	"github.com/giwty/slm-view/render"
	"github.com/giwty/slm-view/tabs"
	"go.uber.org/zap"
)

// Persisted view preferences
type Preferences interface {
	Theme() string
	SetTheme(theme string) error
	Sort(tab string) (listing.Sort, bool)
	SetSort(tab string, s listing.Sort) error
}

// Everything the model drives
type Config struct {
	Context context.Context
	Loop    loop.Loop
	Drain   func() // runs the work posted to Loop, nil when Loop is driven elsewhere
	Bus     events.Subscriber
	Service backend.Service
	Tabs    *tabs.Tabs
	Editor  *editor.Editor
	Overlay *overlay.Overlay
	Prefs   Preferences
	Render  render.Options
	Logger  *zap.SugaredLogger

	StatusClear time.Duration
	// shown in the status line at start
	Notice string
}

// Message running the loop's pending work
type DrainMsg struct{}

// Interactive model
type Model struct {
	cfg    Config
	active int
	width  int
	height int
	offset int

	theme  string
	styles styles

	filter    textinput.Model
	filtering bool
	area      textarea.Model
	bar       progress.Model

	status      string
	statusTimer loop.Timer
	unsubscribe func()
	closed      bool
}

// Constructor for the model, subscribes the controllers to the backend events
func New(cfg Config) *Model {
	if cfg.StatusClear <= 0 {
		cfg.StatusClear = editor.DEFAULT_CLEAR_TIME
	}

	m := &Model{
		cfg:    cfg,
		width:  100,
		height: 30,
		theme:  render.THEME_DARK,
	}
	if cfg.Prefs != nil {
		m.theme = cfg.Prefs.Theme()
	}
	m.styles = stylesFor(m.theme)
	m.cfg.Render.Theme = m.theme

	m.filter = textinput.New()
	m.filter.Prompt = "filter: "
	m.filter.Placeholder = "title name"

	m.area = textarea.New()
	m.area.CharLimit = 0
	m.area.MaxHeight = editor.MaxEditHeight
	m.area.ShowLineNumbers = true

	m.bar = progress.New(progress.WithDefaultGradient())

	bindSort(cfg.Tabs.Library, tabs.TAB_LIBRARY, cfg.Prefs, cfg.Logger)
	bindSort(cfg.Tabs.Updates, tabs.TAB_MISSING_UPDATES, cfg.Prefs, cfg.Logger)
	bindSort(cfg.Tabs.DLC, tabs.TAB_MISSING_DLC, cfg.Prefs, cfg.Logger)
	bindSort(cfg.Tabs.Issues, tabs.TAB_ISSUES, cfg.Prefs, cfg.Logger)

	cfg.Tabs.Subscribe(cfg.Bus)
	cfg.Overlay.Start()
	m.unsubscribe = cfg.Bus.On(backend.GUI_MESSAGE_ERROR, func(payload any) {
		m.showStatus(fmt.Sprint(payload))
	})

	m.resize()
	return m
}

func (m *Model) Init() tea.Cmd {
	if m.cfg.Notice != "" {
		m.showStatus(m.cfg.Notice)
	}
	m.cfg.Tabs.Library.Refresh()
	m.activate()
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case DrainMsg:
		if m.cfg.Drain != nil {
			m.cfg.Drain()
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
	case tea.KeyMsg:
		cmd = m.handleKey(msg)
	}

	if focus := m.syncEditor(); focus != nil {
		cmd = tea.Batch(cmd, focus)
	}
	return m, cmd
}

// Active tab name
func (m *Model) Tab() string {
	return tabs.Order[m.active]
}

func (m *Model) Theme() string {
	return m.theme
}

func (m *Model) Status() string {
	return m.status
}

// Filter input has the focus
func (m *Model) Filtering() bool {
	return m.filtering
}

// Stop listening to the backend and drop pending timers
func (m *Model) Close() {
	if m.closed {
		return
	}
	m.closed = true
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	if m.statusTimer != nil {
		m.statusTimer.Stop()
	}
	m.cfg.Tabs.Close()
	m.cfg.Overlay.Close()
	m.cfg.Editor.Close()
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}

	if m.filtering {
		return m.filterKey(msg)
	}

	if m.Tab() == tabs.TAB_SETTINGS {
		switch m.cfg.Editor.State() {
		case editor.Editing:
			return m.editKey(msg)
		case editor.Saving:
			return nil
		}
	}

	switch msg.String() {
	case "q":
		return m.quit()
	case "tab", "right":
		m.switchTab(1)
	case "shift+tab", "left":
		m.switchTab(-1)
	case "/":
		if m.Tab() != tabs.TAB_SETTINGS {
			m.filtering = true
			m.filter.SetValue(m.currentFilter())
			m.filter.CursorEnd()
			return m.filter.Focus()
		}
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		m.sortBy(int(msg.Runes[0] - '1'))
	case "r":
		m.refresh()
	case "R":
		m.cfg.Tabs.Library.RefreshHard()
	case "t":
		m.toggleTheme()
	case "o":
		m.organize()
	case "e":
		if m.Tab() == tabs.TAB_SETTINGS {
			return m.startEdit()
		}
	case "l":
		if m.Tab() == tabs.TAB_SETTINGS {
			m.cfg.Editor.Reload()
		}
	case "up", "k":
		m.scroll(-1)
	case "down", "j":
		m.scroll(1)
	case "pgup":
		m.scroll(-m.bodyHeight())
	case "pgdown":
		m.scroll(m.bodyHeight())
	}
	return nil
}

func (m *Model) filterKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyEnter:
		m.filtering = false
		m.filter.Blur()
		return nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.cfg.Tabs.SetFilter(m.Tab(), m.filter.Value())
	m.offset = 0
	return cmd
}

func (m *Model) editKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+s":
		m.cfg.Editor.SetDraft(m.area.Value())
		m.cfg.Editor.Save()
		return nil
	case "esc":
		m.cfg.Editor.Cancel()
		return nil
	case "ctrl+r":
		m.cfg.Editor.Reload()
		return nil
	}

	var cmd tea.Cmd
	m.area, cmd = m.area.Update(msg)
	m.cfg.Editor.SetDraft(m.area.Value())
	return cmd
}

func (m *Model) startEdit() tea.Cmd {
	m.cfg.Editor.Edit()
	if m.cfg.Editor.State() != editor.Editing {
		return nil
	}
	m.area.SetValue(m.cfg.Editor.Draft())
	m.area.SetHeight(max(m.cfg.Editor.EditHeight(), 3))
	return m.area.Focus()
}

// Keep the text area focus in line with the editor state
func (m *Model) syncEditor() tea.Cmd {
	editing := m.cfg.Editor.State() == editor.Editing && m.Tab() == tabs.TAB_SETTINGS
	if !editing && m.area.Focused() {
		m.area.Blur()
	}
	if editing && !m.area.Focused() {
		return m.area.Focus()
	}
	return nil
}

func (m *Model) switchTab(step int) {
	n := len(tabs.Order)
	m.active = (m.active + step + n) % n
	m.offset = 0
	m.activate()
}

// Tab activation fetch
func (m *Model) activate() {
	if m.Tab() == tabs.TAB_SETTINGS {
		m.cfg.Editor.Load()
		return
	}
	m.cfg.Tabs.Activate(m.Tab())
}

func (m *Model) refresh() {
	if m.Tab() == tabs.TAB_SETTINGS {
		m.cfg.Editor.Reload()
		return
	}
	m.cfg.Tabs.Refresh(m.Tab())
}

func (m *Model) currentFilter() string {
	switch m.Tab() {
	case tabs.TAB_LIBRARY:
		return m.cfg.Tabs.Library.Filter()
	case tabs.TAB_MISSING_UPDATES:
		return m.cfg.Tabs.Updates.Filter()
	case tabs.TAB_MISSING_DLC:
		return m.cfg.Tabs.DLC.Filter()
	case tabs.TAB_ISSUES:
		return m.cfg.Tabs.Issues.Filter()
	}
	return ""
}

// Sort control of the i-th column
func (m *Model) sortBy(i int) {
	switch m.Tab() {
	case tabs.TAB_LIBRARY:
		toggleColumn(m.cfg.Tabs.Library, i)
	case tabs.TAB_MISSING_UPDATES:
		toggleColumn(m.cfg.Tabs.Updates, i)
	case tabs.TAB_MISSING_DLC:
		toggleColumn(m.cfg.Tabs.DLC, i)
	case tabs.TAB_ISSUES:
		toggleColumn(m.cfg.Tabs.Issues, i)
	}
}

func (m *Model) toggleTheme() {
	m.theme = render.NextTheme(m.theme)
	m.styles = stylesFor(m.theme)
	m.cfg.Render.Theme = m.theme
	if m.cfg.Prefs != nil {
		if err := m.cfg.Prefs.SetTheme(m.theme); err != nil {
			m.cfg.Logger.Warnf("failed to save theme - %v", err)
		}
	}
}

func (m *Model) organize() {
	m.showStatus("Organizing library...")
	ctx := m.cfg.Context
	m.cfg.Loop.Go(func() func() {
		err := m.cfg.Service.Organize(ctx)
		return func() {
			if err != nil {
				m.cfg.Logger.Errorf("organize failed - %v", err)
				m.showStatus("Organize failed: " + err.Error())
				return
			}
			m.showStatus("Library organized")
			m.cfg.Tabs.Library.Refresh()
		}
	})
}

// Transient status line, replaced by the next one
func (m *Model) showStatus(msg string) {
	if m.statusTimer != nil {
		m.statusTimer.Stop()
	}
	m.status = msg

	var t loop.Timer
	t = m.cfg.Loop.AfterFunc(m.cfg.StatusClear, func() {
		if m.statusTimer != t {
			return
		}
		m.statusTimer = nil
		m.status = ""
	})
	m.statusTimer = t
}

func (m *Model) scroll(delta int) {
	m.offset = max(m.offset+delta, 0)
}

func (m *Model) quit() tea.Cmd {
	m.Close()
	return tea.Quit
}

func (m *Model) resize() {
	m.filter.Width = max(m.width-len(m.filter.Prompt)-2, 10)
	m.area.SetWidth(max(m.width-2, 20))
	m.bar.Width = max(m.width/2, 20)
	m.cfg.Editor.SetMeasure(func(text string) int {
		return min(lineCount(text), m.bodyHeight())
	})
}

func bindSort[T any](c *tabs.Controller[T], tab string, prefs Preferences, logger *zap.SugaredLogger) {
	if prefs == nil {
		return
	}
	if s, ok := prefs.Sort(tab); ok {
		c.SetSort(s)
	}
	c.OnSort(func(s listing.Sort) {
		if err := prefs.SetSort(tab, s); err != nil {
			logger.Warnf("failed to save the sort of %v - %v", tab, err)
		}
	})
}

func toggleColumn[T any](c *tabs.Controller[T], i int) {
	columns := c.Table().Columns
	if i < 0 || i >= len(columns) {
		return
	}
	c.ToggleSort(columns[i].Key)
}
