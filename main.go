package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/giwty/slm-view/backend"
	"github.com/giwty/slm-view/db"
	"github.com/giwty/slm-view/events"
	"github.com/giwty/slm-view/logger"
	"github.com/giwty/slm-view/settings"
	"go.uber.org/zap"
)

var (
	consoleMode = flag.Bool("console", false, "print a tab to stdout instead of starting the interactive view")

	workingFolder string
	appSettings   *settings.ViewSettings
	l             *zap.SugaredLogger
)

func main() {
	flag.Parse()

	exePath, folder, err := settings.GetWorkingFolder()
	if err != nil {
		fmt.Printf("failed to get the working folder - %v\n", err)
		os.Exit(1)
	}
	workingFolder = folder

	appSettings = settings.ReadSettings(workingFolder)
	l = logger.GetSugar(workingFolder, appSettings.Debug)
	defer logger.Defer()

	l.Infof("[executable: %v]", exePath)
	l.Infof("[working folder: %v]", workingFolder)
	l.Infof("[backend: %v]", appSettings.BackendMode)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if *consoleMode || appSettings.UIMode == settings.UI_CONSOLE {
		code := CreateConsole(ctx).Start()
		logger.Defer()
		os.Exit(code)
	}

	if err := StartGUI(ctx); err != nil {
		l.Errorf("view stopped - %v", err)
	}
}

// Backend service from the settings, events pushed by the backend go to e
func newService(e events.Emitter) backend.Service {
	var t backend.Transport
	switch appSettings.BackendMode {
	case settings.BACKEND_HTTP:
		t = backend.NewHTTPTransport(appSettings.BackendURL, appSettings.BackendTimeout)
	default:
		t = backend.NewFolderTransport(appSettings.BackendFolder, e, l)
	}
	return backend.NewClient(t, l)
}

// Preferences store, nil when the db can't be opened
func openPreferences() (*db.PersistentDB, *db.Preferences) {
	pdb, err := db.NewPersistentDB(workingFolder, settings.SLM_VIEW_VERSION)
	if err != nil {
		l.Warnf("preferences are disabled - %v", err)
		return nil, nil
	}
	return pdb, db.NewPreferences(pdb)
}

// Notice of a newer release, empty when up to date or disabled
func updateNotice(ctx context.Context) string {
	if !appSettings.CheckUpdate {
		return ""
	}
	newUpdate, remote, err := settings.CheckForUpdates(ctx, settings.SLM_VIEW_VERSION_URL, settings.SLM_VIEW_VERSION)
	if err != nil {
		l.Debugf("update check failed - %v", err)
		return ""
	}
	if !newUpdate {
		return ""
	}
	return fmt.Sprintf("New version available (%v), download from Github", remote)
}
