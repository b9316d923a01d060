package main

import (
	"context"

	"github.com/giwty/slm-view/editor"
	"github.com/giwty/slm-view/events"
	"github.com/giwty/slm-view/loop"
	"github.com/giwty/slm-view/progress"
	"github.com/giwty/slm-view/render"
	"github.com/giwty/slm-view/tabs"
	"github.com/giwty/slm-view/tui"
)

// Building and starting the interactive view
func StartGUI(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	d := loop.NewDispatched()
	bus := events.NewBus(d)
	svc := newService(bus)

	ed := editor.New(ctx, d, svc, l)
	ed.SetStatusDelay(appSettings.StatusClear)

	overlay := progress.NewOverlay(bus, d, l)
	overlay.SetHideDelay(appSettings.ProgressHide)

	cfg := tui.Config{
		Context:     ctx,
		Loop:        d,
		Drain:       d.Drain,
		Bus:         bus,
		Service:     svc,
		Tabs:        tabs.NewTabs(ctx, svc, d, l),
		Editor:      ed,
		Overlay:     overlay,
		Render:      render.Options{Romanize: appSettings.RomanizeNames},
		Logger:      l,
		StatusClear: appSettings.StatusClear,
		Notice:      updateNotice(ctx),
	}

	pdb, prefs := openPreferences()
	if pdb != nil {
		defer pdb.Close()
		cfg.Prefs = prefs
	}

	return tui.Run(ctx, d, tui.New(cfg))
}
