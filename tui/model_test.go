package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/giwty/slm-view/backend"
	"github.com/giwty/slm-view/db"
	"github.com/giwty/slm-view/editor"
	"github.com/giwty/slm-view/events"
	"github.com/giwty/slm-view/listing"
	"github.com/giwty/slm-view/loop"
	"github.com/giwty/slm-view/progress"
	"github.com/giwty/slm-view/render"
	"github.com/giwty/slm-view/tabs"
	"go.uber.org/zap"
)

type fakeService struct {
	settings string
	saved    []string
	organize error
}

func (f *fakeService) LoadSettings(ctx context.Context) (string, error) { return f.settings, nil }
func (f *fakeService) UpdateDB(ctx context.Context) error              { return nil }
func (f *fakeService) Organize(ctx context.Context) error              { return f.organize }

func (f *fakeService) SaveSettings(ctx context.Context, s string) error {
	f.saved = append(f.saved, s)
	f.settings = s
	return nil
}

func (f *fakeService) UpdateLocalLibrary(ctx context.Context, ignoreCache bool) (any, error) {
	return `{"library_data":[{"name":"Zelda","update":3},{"name":"Mario Kart","update":1}],
		"issues":[{"key":"/games/bad.nsp","value":"corrupted"}]}`, nil
}

func (f *fakeService) GetMissingUpdates(ctx context.Context) (any, error) {
	return `[{"Attributes":{"name":"Zelda","id":"01007EF00011E000"},"latest_update":65536}]`, nil
}

func (f *fakeService) GetMissingDLC(ctx context.Context) (any, error) {
	return `[]`, nil
}

type fixture struct {
	model *Model
	loop  *loop.Manual
	bus   *events.Bus
	svc   *fakeService
	prefs *db.Preferences
}

func openPrefs(t *testing.T, dir string) *db.Preferences {
	t.Helper()
	pdb, err := db.NewPersistentDB(dir, "test")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { pdb.Close() })
	return db.NewPreferences(pdb)
}

func setup(t *testing.T, prefs *db.Preferences) *fixture {
	t.Helper()
	ctx := context.Background()
	logger := zap.NewNop().Sugar()
	l := loop.NewManual()
	bus := events.NewBus(l)
	svc := &fakeService{settings: `{"folder":"/games"}`}

	cfg := Config{
		Context:     ctx,
		Loop:        l,
		Bus:         bus,
		Service:     svc,
		Tabs:        tabs.NewTabs(ctx, svc, l, logger),
		Editor:      editor.New(ctx, l, svc, logger),
		Overlay:     progress.NewOverlay(bus, l, logger),
		Logger:      logger,
		StatusClear: 3 * time.Second,
	}
	if prefs != nil {
		cfg.Prefs = prefs
	}

	m := New(cfg)
	m.Update(tea.WindowSizeMsg{Width: 160, Height: 40})
	m.Init()
	l.RunAllWork()

	return &fixture{model: m, loop: l, bus: bus, svc: svc, prefs: prefs}
}

func (f *fixture) press(keys ...tea.KeyMsg) {
	for _, k := range keys {
		f.model.Update(k)
		f.loop.RunAllWork()
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestStartupLoadsLibrary(t *testing.T) {
	f := setup(t, nil)

	if f.model.Tab() != tabs.TAB_LIBRARY {
		t.Fatalf("tab = %v", f.model.Tab())
	}
	view := f.model.View()
	if !strings.Contains(view, "Zelda") || !strings.Contains(view, "LIBRARY: 2") {
		t.Errorf("library not rendered\n%v", view)
	}

	// pushed libraries also fill the issues tab
	f.bus.Emit(backend.GUI_MESSAGE_LIBRARY_LOADED, `{"library_data":[],"issues":[{"key":"/games/x.nsp","value":"bad"}]}`)
	f.loop.Flush()
	if f.model.cfg.Tabs.Issues.View().Total != 1 || f.model.cfg.Tabs.Library.View().State != tabs.ReadyEmpty {
		t.Errorf("push not ingested")
	}
}

func TestTabSwitchFetches(t *testing.T) {
	f := setup(t, nil)

	f.model.Update(tea.KeyMsg{Type: tea.KeyTab})
	if f.model.Tab() != tabs.TAB_MISSING_UPDATES || f.loop.PendingWork() != 1 {
		t.Fatalf("tab %v pending %d", f.model.Tab(), f.loop.PendingWork())
	}
	f.loop.RunAllWork()
	if !strings.Contains(f.model.View(), "65536") {
		t.Errorf("missing updates not rendered\n%v", f.model.View())
	}

	f.press(tea.KeyMsg{Type: tea.KeyTab})
	if !strings.Contains(f.model.View(), render.NO_DATA) {
		t.Errorf("empty dlc tab not rendered\n%v", f.model.View())
	}
}

func TestFilterInput(t *testing.T) {
	f := setup(t, nil)

	f.press(runes("/"), runes("m"), runes("a"), runes("r"))
	if !f.model.Filtering() || f.model.cfg.Tabs.Library.Filter() != "mar" {
		t.Fatalf("filter = %q", f.model.cfg.Tabs.Library.Filter())
	}
	v := f.model.cfg.Tabs.Library.View()
	if v.Matching != 1 || v.Total != 2 {
		t.Errorf("matching %d total %d", v.Matching, v.Total)
	}

	f.press(tea.KeyMsg{Type: tea.KeyEsc})
	if f.model.Filtering() || f.model.cfg.Tabs.Library.Filter() != "mar" {
		t.Errorf("esc should keep the filter and leave the input")
	}
}

func TestSortAndThemePersisted(t *testing.T) {
	dir := t.TempDir()
	f := setup(t, openPrefs(t, dir))

	// 4th library column is the update counter
	f.press(runes("4"), runes("4"), runes("t"))

	if s := f.model.cfg.Tabs.Library.Sort(); s != (listing.Sort{Key: "update", Desc: true}) {
		t.Errorf("sort = %+v", s)
	}
	if f.model.Theme() != render.THEME_LIGHT || f.prefs.Theme() != render.THEME_LIGHT {
		t.Errorf("theme %v saved %v", f.model.Theme(), f.prefs.Theme())
	}

	again := setup(t, f.prefs)
	if s := again.model.cfg.Tabs.Library.Sort(); s != (listing.Sort{Key: "update", Desc: true}) {
		t.Errorf("sort not restored: %+v", s)
	}
	if again.model.Theme() != render.THEME_LIGHT {
		t.Errorf("theme not restored")
	}
}

func TestSettingsEditSave(t *testing.T) {
	f := setup(t, nil)

	f.press(tea.KeyMsg{Type: tea.KeyShiftTab})
	if f.model.Tab() != tabs.TAB_SETTINGS || f.model.cfg.Editor.State() != editor.Viewing {
		t.Fatalf("tab %v state %v", f.model.Tab(), f.model.cfg.Editor.State())
	}
	if !strings.Contains(f.model.View(), `"folder": "/games"`) {
		t.Errorf("settings not rendered\n%v", f.model.View())
	}

	f.press(runes("e"))
	if f.model.cfg.Editor.State() != editor.Editing || !f.model.area.Focused() {
		t.Fatalf("not editing")
	}

	// keys go to the text area while editing
	f.press(runes("q"))
	if f.model.closed {
		t.Fatalf("q quit while editing")
	}
	f.model.area.SetValue(`{"folder":"/other"}`)

	f.press(tea.KeyMsg{Type: tea.KeyCtrlS})
	if f.model.cfg.Editor.State() != editor.Viewing || f.model.area.Focused() {
		t.Errorf("state %v after save", f.model.cfg.Editor.State())
	}
	if len(f.svc.saved) != 1 || f.svc.saved[0] != `{"folder":"/other"}` {
		t.Errorf("saved %v", f.svc.saved)
	}
	if !strings.Contains(f.model.View(), editor.SavedStatus) {
		t.Errorf("status not shown\n%v", f.model.View())
	}
}

func TestSettingsCancel(t *testing.T) {
	f := setup(t, nil)
	f.press(tea.KeyMsg{Type: tea.KeyShiftTab}, runes("e"))

	f.model.area.SetValue(`{"broken":`)
	f.press(tea.KeyMsg{Type: tea.KeyCtrlS})
	if f.model.cfg.Editor.State() != editor.Editing || f.model.cfg.Editor.Status() != editor.SaveFailedStatus {
		t.Fatalf("invalid draft: state %v status %q", f.model.cfg.Editor.State(), f.model.cfg.Editor.Status())
	}

	f.press(tea.KeyMsg{Type: tea.KeyEsc})
	ed := f.model.cfg.Editor
	if ed.State() != editor.Viewing || ed.Draft() != ed.Committed() || len(f.svc.saved) != 0 {
		t.Errorf("cancel: state %v saved %v", ed.State(), f.svc.saved)
	}
}

func TestErrorEventStatus(t *testing.T) {
	f := setup(t, nil)

	f.bus.Emit(backend.GUI_MESSAGE_ERROR, "titles database unreachable")
	f.loop.Flush()
	if f.model.Status() != "titles database unreachable" {
		t.Fatalf("status = %q", f.model.Status())
	}

	f.loop.Advance(3 * time.Second)
	if f.model.Status() != "" {
		t.Errorf("status not cleared: %q", f.model.Status())
	}
}

func TestOverlayShown(t *testing.T) {
	f := setup(t, nil)

	f.bus.Emit(backend.GUI_MESSAGE_UPDATE_PROGRESS, db.ProgressUpdate{Curr: 1, Total: 2, Message: "Scanning"})
	f.loop.Flush()
	if !strings.Contains(f.model.View(), "Scanning (1/2)") {
		t.Errorf("overlay not rendered\n%v", f.model.View())
	}

	f.bus.Emit(backend.GUI_MESSAGE_UPDATE_PROGRESS, db.ProgressUpdate{Curr: 2, Total: 2, Message: "Scanning"})
	f.loop.Flush()
	f.loop.Advance(2 * time.Second)
	if strings.Contains(f.model.View(), "Scanning (2/2)") {
		t.Errorf("overlay still shown after completion")
	}
}

func TestOrganize(t *testing.T) {
	f := setup(t, nil)

	f.press(runes("o"))
	if f.model.Status() != "Library organized" {
		t.Errorf("status = %q", f.model.Status())
	}
}

func TestQuitCleansUp(t *testing.T) {
	f := setup(t, nil)

	f.model.Update(runes("q"))
	for _, name := range []string{backend.GUI_MESSAGE_ERROR, backend.GUI_MESSAGE_UPDATE_PROGRESS, backend.GUI_MESSAGE_LIBRARY_LOADED} {
		if f.bus.Count(name) != 0 {
			t.Errorf("%v subscription leaked", name)
		}
	}
}
