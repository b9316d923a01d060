// Package editor holds the settings document lifecycle: load, view, edit, save and cancel,
// with JSON validation and a transient status line.
package editor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/giwty/slm-view/loop"
	"go.uber.org/zap"
)

const (
	MaxEditHeight      = 800
	DEFAULT_CLEAR_TIME = 3 * time.Second

	ErrorPlaceholder = "Error: settings could not be loaded"
	SavedStatus      = "Settings saved"
	SaveFailedStatus = "Failed to save settings"
)

var ErrInvalidJSON = errors.New("settings are not valid JSON")

// Editor state
type State int

const (
	Unloaded State = iota
	Viewing
	Editing
	Saving
)

func (s State) String() string {
	switch s {
	case Viewing:
		return "viewing"
	case Editing:
		return "editing"
	case Saving:
		return "saving"
	}
	return "unloaded"
}

// Settings calls of the backend
type Backend interface {
	LoadSettings(ctx context.Context) (string, error)
	SaveSettings(ctx context.Context, settingsJSON string) error
}

// Read model exposed to the view
type View struct {
	State      State
	Loading    bool
	Committed  string
	Draft      string
	Status     string
	EditHeight int
}

// Settings editor, must only be used from the view loop
type Editor struct {
	ctx     context.Context
	loop    loop.Loop
	backend Backend
	logger  *zap.SugaredLogger

	clearAfter time.Duration
	measure    func(text string) int

	state     State
	committed string
	draft     string
	status    string
	lastErr   error

	loads         int
	loading       bool
	displayHeight int
	statusTimer   loop.Timer

	onChange func()
}

// Constructor for the settings editor
func New(ctx context.Context, l loop.Loop, b Backend, logger *zap.SugaredLogger) *Editor {
	return &Editor{
		ctx:        ctx,
		loop:       l,
		backend:    b,
		logger:     logger,
		clearAfter: DEFAULT_CLEAR_TIME,
		measure:    lineCount,
	}
}

// Delay before a status message clears itself
func (e *Editor) SetStatusDelay(d time.Duration) {
	if d > 0 {
		e.clearAfter = d
	}
}

// Height of the rendered read-only text, measured whenever the committed text changes
func (e *Editor) SetMeasure(f func(text string) int) {
	e.measure = f
	e.displayHeight = f(e.committed)
}

// Called after every state change
func (e *Editor) OnChange(f func()) {
	e.onChange = f
}

func (e *Editor) State() State {
	return e.state
}

func (e *Editor) Committed() string {
	return e.committed
}

func (e *Editor) Draft() string {
	return e.draft
}

func (e *Editor) Status() string {
	return e.status
}

// Reason of the last load or save failure
func (e *Editor) LastError() error {
	return e.lastErr
}

// Initial height of the edit area
func (e *Editor) EditHeight() int {
	return min(e.displayHeight, MaxEditHeight)
}

func (e *Editor) View() View {
	return View{
		State:      e.state,
		Loading:    e.loading,
		Committed:  e.committed,
		Draft:      e.draft,
		Status:     e.status,
		EditHeight: e.EditHeight(),
	}
}

// Fetch the settings document, the last load issued wins
func (e *Editor) Load() {
	if e.state == Saving {
		return
	}
	if e.state == Editing {
		e.state = Viewing
		e.draft = e.committed
	}

	e.loads++
	seq := e.loads
	e.loading = true
	e.changed()

	ctx := e.ctx
	e.loop.Go(func() func() {
		raw, err := e.backend.LoadSettings(ctx)
		return func() { e.loaded(seq, raw, err) }
	})
}

// Reload from viewing or editing, edit mode is left unconditionally
func (e *Editor) Reload() {
	e.Load()
}

// Enter edit mode
func (e *Editor) Edit() {
	if e.state != Viewing {
		return
	}
	e.draft = e.committed
	e.clearStatus()
	e.state = Editing
	e.changed()
}

// Replace the draft text
func (e *Editor) SetDraft(text string) {
	if e.state != Editing {
		return
	}
	e.draft = text
	e.changed()
}

// Validate the draft and send its minified form to the backend
func (e *Editor) Save() {
	if e.state != Editing {
		return
	}

	var minified bytes.Buffer
	if err := json.Compact(&minified, []byte(e.draft)); err != nil {
		e.lastErr = fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		e.logger.Warnf("settings not saved - %v", e.lastErr)
		e.setStatus(SaveFailedStatus)
		e.changed()
		return
	}

	// a save supersedes any pending load
	e.loads++
	e.loading = false
	e.state = Saving
	e.changed()

	ctx := e.ctx
	payload := minified.String()
	e.loop.Go(func() func() {
		err := e.backend.SaveSettings(ctx, payload)
		return func() { e.saved(payload, err) }
	})
}

// Leave edit mode discarding the draft
func (e *Editor) Cancel() {
	if e.state != Editing {
		return
	}
	e.draft = e.committed
	e.clearStatus()
	e.state = Viewing
	e.changed()
}

// Release the pending status timer
func (e *Editor) Close() {
	if e.statusTimer != nil {
		e.statusTimer.Stop()
		e.statusTimer = nil
	}
}

func (e *Editor) loaded(seq int, raw string, err error) {
	if seq != e.loads {
		e.logger.Debugf("dropping stale settings load %v", seq)
		return
	}
	e.loading = false

	if err != nil {
		e.lastErr = err
		e.logger.Errorf("failed to load settings - %v", err)
		e.commit(ErrorPlaceholder)
	} else if pretty, perr := indent(raw); perr != nil {
		e.lastErr = fmt.Errorf("%w: %v", ErrInvalidJSON, perr)
		e.logger.Errorf("failed to parse settings - %v", perr)
		e.commit(ErrorPlaceholder)
	} else {
		e.lastErr = nil
		e.commit(pretty)
	}

	e.state = Viewing
	e.changed()
}

func (e *Editor) saved(payload string, err error) {
	if err != nil {
		e.lastErr = err
		e.logger.Errorf("backend refused the settings - %v", err)
		e.state = Editing
		e.setStatus(SaveFailedStatus)
		e.changed()
		return
	}

	pretty, perr := indent(payload)
	if perr != nil {
		pretty = payload
	}
	e.lastErr = nil
	e.commit(pretty)
	e.state = Viewing
	e.setStatus(SavedStatus)
	e.changed()
}

// committed and draft both take text
func (e *Editor) commit(text string) {
	e.committed = text
	e.draft = text
	e.displayHeight = e.measure(text)
}

// Show a status and (re)arm its clear timer
func (e *Editor) setStatus(msg string) {
	if e.statusTimer != nil {
		e.statusTimer.Stop()
	}
	e.status = msg

	var t loop.Timer
	t = e.loop.AfterFunc(e.clearAfter, func() {
		if e.statusTimer != t {
			return
		}
		e.statusTimer = nil
		e.status = ""
		e.changed()
	})
	e.statusTimer = t
}

func (e *Editor) clearStatus() {
	if e.statusTimer != nil {
		e.statusTimer.Stop()
		e.statusTimer = nil
	}
	e.status = ""
}

func (e *Editor) changed() {
	if e.onChange != nil {
		e.onChange()
	}
}

// Pretty form of a JSON document, key order preserved
func indent(raw string) (string, error) {
	var out bytes.Buffer
	if err := json.Indent(&out, []byte(strings.TrimSpace(raw)), "", "  "); err != nil {
		return "", err
	}
	return out.String(), nil
}

func lineCount(text string) int {
	if text == "" {
		return 0
	}
	return strings.Count(text, "\n") + 1
}
