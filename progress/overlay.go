// Package progress derives the progress overlay (visibility, percent, label) from the
// backend's updateProgress events and hides it once an operation completes.
package progress

import (
	"fmt"
	"time"

	"github.com/giwty/slm-view/backend"
	"github.com/giwty/slm-view/db"
	"github.com/giwty/slm-view/events"
	"github.com/giwty/slm-view/loop"
	"go.uber.org/zap"
)

const DEFAULT_HIDE_TIME = 2 * time.Second

// Overlay snapshot
type State struct {
	Visible bool
	Percent float64
	Label   string
	Update  db.ProgressUpdate
}

// Progress overlay controller, must only be used from the view loop
type Overlay struct {
	sub       events.Subscriber
	loop      loop.Loop
	logger    *zap.SugaredLogger
	hideAfter time.Duration

	state       State
	hideTimer   loop.Timer
	unsubscribe func()
	onChange    func()
}

// Constructor for the overlay, nothing is received until Start
func NewOverlay(sub events.Subscriber, l loop.Loop, logger *zap.SugaredLogger) *Overlay {
	return &Overlay{
		sub:       sub,
		loop:      l,
		logger:    logger,
		hideAfter: DEFAULT_HIDE_TIME,
	}
}

// Delay between a completion event and hiding the overlay
func (o *Overlay) SetHideDelay(d time.Duration) {
	if d > 0 {
		o.hideAfter = d
	}
}

// Called after every state change
func (o *Overlay) OnChange(f func()) {
	o.onChange = f
}

func (o *Overlay) State() State {
	return o.state
}

// Subscribe to the progress channel, once per overlay lifetime
func (o *Overlay) Start() {
	if o.unsubscribe != nil {
		return
	}
	o.unsubscribe = o.sub.On(backend.GUI_MESSAGE_UPDATE_PROGRESS, o.handle)
}

// Unsubscribe and drop the pending hide
func (o *Overlay) Close() {
	if o.unsubscribe != nil {
		o.unsubscribe()
		o.unsubscribe = nil
	}
	o.stopHide()
}

func (o *Overlay) handle(payload any) {
	update, err := db.ParseProgressUpdate(payload)
	if err != nil {
		o.logger.Warnf("ignoring progress event - %v", err)
		return
	}
	o.Apply(update)
}

// Show an update, scheduling the hide when it completes the operation
func (o *Overlay) Apply(update db.ProgressUpdate) {
	o.stopHide()

	o.state = State{
		Visible: true,
		Percent: percent(update.Curr, update.Total),
		Label:   fmt.Sprintf("%s (%d/%d)", update.Message, update.Curr, update.Total),
		Update:  update,
	}

	if update.Done() {
		var t loop.Timer
		t = o.loop.AfterFunc(o.hideAfter, func() {
			if o.hideTimer != t {
				return
			}
			o.hideTimer = nil
			o.state.Visible = false
			o.changed()
		})
		o.hideTimer = t
	}

	o.changed()
}

func (o *Overlay) stopHide() {
	if o.hideTimer != nil {
		o.hideTimer.Stop()
		o.hideTimer = nil
	}
}

func (o *Overlay) changed() {
	if o.onChange != nil {
		o.onChange()
	}
}

func percent(curr int, total int) float64 {
	if total <= 0 {
		return 0
	}
	p := float64(curr) / float64(total) * 100
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
