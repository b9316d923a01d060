package tabs

import (
	"context"

	"github.com/giwty/slm-view/backend"
	"github.com/giwty/slm-view/events"
	"github.com/giwty/slm-view/listing"
	"github.com/giwty/slm-view/loop"
	"github.com/giwty/slm-view/model"
	"github.com/giwty/slm-view/normalize"
	"go.uber.org/zap"
)

const (
	TAB_LIBRARY         = "library"
	TAB_MISSING_UPDATES = "mupdate"
	TAB_MISSING_DLC     = "mdlc"
	TAB_ISSUES          = "issues"
	TAB_SETTINGS        = "settings"
)

// Tab order of the view
var Order = []string{TAB_LIBRARY, TAB_MISSING_UPDATES, TAB_MISSING_DLC, TAB_ISSUES, TAB_SETTINGS}

// Display titles
var Titles = map[string]string{
	TAB_LIBRARY:         "LIBRARY",
	TAB_MISSING_UPDATES: "MISSING UPDATE",
	TAB_MISSING_DLC:     "MISSING DLC",
	TAB_ISSUES:          "ISSUES",
	TAB_SETTINGS:        "SETTINGS",
}

// Data controllers of the four data tabs
type Tabs struct {
	Library *Controller[model.LibraryItem]
	Updates *Controller[model.MissingUpdateItem]
	DLC     *Controller[model.MissingDLCItem]
	Issues  *Controller[model.IssueItem]

	numFiles    int
	logger      *zap.SugaredLogger
	unsubscribe func()
}

// Build the tab controllers on top of the backend service
func NewTabs(ctx context.Context, svc backend.Service, l loop.Loop, logger *zap.SugaredLogger) *Tabs {
	t := &Tabs{logger: logger}

	library := func(ignoreCache bool) Fetcher {
		return func(ctx context.Context) (any, error) {
			// the titles DB must be there before the library can be matched
			if err := svc.UpdateDB(ctx); err != nil {
				logger.Warnf("failed to update the titles database: %v", err)
			}
			return svc.UpdateLocalLibrary(ctx, ignoreCache)
		}
	}

	t.Library = NewController(ctx, l, logger, Config[model.LibraryItem]{
		Name:      TAB_LIBRARY,
		Fetch:     library(false),
		HardFetch: library(true),
		Normalize: t.normalizeLibrary,
		Table:     listing.LibraryTable,
	})

	t.Updates = NewController(ctx, l, logger, Config[model.MissingUpdateItem]{
		Name:            TAB_MISSING_UPDATES,
		Fetch:           svc.GetMissingUpdates,
		Normalize:       normalize.MissingUpdates,
		Table:           listing.UpdatesTable,
		FetchOnActivate: true,
	})

	t.DLC = NewController(ctx, l, logger, Config[model.MissingDLCItem]{
		Name:            TAB_MISSING_DLC,
		Fetch:           svc.GetMissingDLC,
		Normalize:       normalize.MissingDLC,
		Table:           listing.DLCTable,
		FetchOnActivate: true,
	})

	t.Issues = NewController(ctx, l, logger, Config[model.IssueItem]{
		Name: TAB_ISSUES,
		Fetch: func(ctx context.Context) (any, error) {
			return svc.UpdateLocalLibrary(ctx, false)
		},
		Normalize:       normalize.Issues,
		Table:           listing.IssuesTable,
		FetchOnActivate: true,
	})

	return t
}

// Listen to library pushes from the backend
func (t *Tabs) Subscribe(sub events.Subscriber) {
	if t.unsubscribe != nil {
		return
	}
	t.unsubscribe = sub.On(backend.GUI_MESSAGE_LIBRARY_LOADED, func(payload any) {
		t.logger.Debugf("library pushed by the backend")
		t.Library.Ingest(payload)
		t.Issues.Ingest(payload)
	})
}

// Stop listening to the backend
func (t *Tabs) Close() {
	if t.unsubscribe != nil {
		t.unsubscribe()
		t.unsubscribe = nil
	}
}

// Tab activation, only the data tabs that fetch on activation do anything
func (t *Tabs) Activate(tab string) {
	switch tab {
	case TAB_LIBRARY:
		t.Library.Activate()
	case TAB_MISSING_UPDATES:
		t.Updates.Activate()
	case TAB_MISSING_DLC:
		t.DLC.Activate()
	case TAB_ISSUES:
		t.Issues.Activate()
	}
}

// Refresh action for a tab
func (t *Tabs) Refresh(tab string) {
	switch tab {
	case TAB_LIBRARY:
		t.Library.Refresh()
	case TAB_MISSING_UPDATES:
		t.Updates.Refresh()
	case TAB_MISSING_DLC:
		t.DLC.Refresh()
	case TAB_ISSUES:
		t.Issues.Refresh()
	}
}

// Filter text of a data tab
func (t *Tabs) SetFilter(tab string, filter string) {
	switch tab {
	case TAB_LIBRARY:
		t.Library.SetFilter(filter)
	case TAB_MISSING_UPDATES:
		t.Updates.SetFilter(filter)
	case TAB_MISSING_DLC:
		t.DLC.SetFilter(filter)
	case TAB_ISSUES:
		t.Issues.SetFilter(filter)
	}
}

// Number of files scanned in the last library response
func (t *Tabs) NumFiles() int {
	return t.numFiles
}

func (t *Tabs) normalizeLibrary(raw any) []model.LibraryItem {
	response := normalize.Library(raw)
	t.numFiles = response.NumFiles
	return response.Items
}
