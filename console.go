package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/giwty/slm-view/editor"
	"github.com/giwty/slm-view/events"
	"github.com/giwty/slm-view/listing"
	"github.com/giwty/slm-view/loop"
	"github.com/giwty/slm-view/progress"
	"github.com/giwty/slm-view/render"
	"github.com/giwty/slm-view/tabs"
	"go.uber.org/zap"
)

var (
	tabName    = flag.String("tab", tabs.TAB_LIBRARY, "tab to print (library, mupdate, mdlc, issues, settings)")
	filterText = flag.String("f", "", "show only the titles whose name contains the text")
	sortSpec   = flag.String("s", "", "sort column, optionally followed by :asc or :desc (e.g. update:desc)")
	output     = flag.String("o", "table", "output format (table, yaml)")
	rescan     = flag.Bool("R", false, "hard rescan of the library, ignoring the cache")
)

type Console struct {
	ctx         context.Context
	out         io.Writer
	sugarLogger *zap.SugaredLogger
}

func CreateConsole(ctx context.Context) *Console {
	return &Console{ctx: ctx, out: os.Stdout, sugarLogger: l}
}

// Print the requested tab, returns the exit code
func (c *Console) Start() int {
	if *output != "table" && *output != "yaml" {
		fmt.Fprintf(os.Stderr, "unknown output format [%v]\n", *output)
		return 2
	}

	ctx, cancel := context.WithCancel(c.ctx)
	defer cancel()

	q := loop.NewQueue()
	go q.Run(ctx)

	bus := events.NewBus(q)
	svc := newService(bus)

	overlay := progress.NewOverlay(bus, q, c.sugarLogger)
	overlay.SetHideDelay(appSettings.ProgressHide)
	bar := render.NewConsoleOverlay(os.Stderr)

	t := tabs.NewTabs(ctx, svc, q, c.sugarLogger)
	err := q.Call(ctx, func() {
		overlay.OnChange(func() { bar.Update(overlay.State()) })
		overlay.Start()
		t.Subscribe(bus)
	})
	if err != nil {
		return 1
	}

	if notice := updateNotice(ctx); notice != "" {
		fmt.Fprintf(os.Stderr, "\n=== %v ===\n", notice)
	}

	opts := render.Options{Theme: render.THEME_BRIGHT, Romanize: appSettings.RomanizeNames}
	switch *tabName {
	case tabs.TAB_LIBRARY:
		load := t.Library.Refresh
		if *rescan {
			load = t.Library.RefreshHard
		}
		err = printTab(c, q, t.Library, load, opts)
	case tabs.TAB_MISSING_UPDATES:
		err = printTab(c, q, t.Updates, t.Updates.Refresh, opts)
	case tabs.TAB_MISSING_DLC:
		err = printTab(c, q, t.DLC, t.DLC.Refresh, opts)
	case tabs.TAB_ISSUES:
		err = printTab(c, q, t.Issues, t.Issues.Refresh, opts)
	case tabs.TAB_SETTINGS:
		err = c.printSettings(q, editor.New(ctx, q, svc, c.sugarLogger))
	default:
		fmt.Fprintf(os.Stderr, "unknown tab [%v]\n", *tabName)
		return 2
	}

	q.Call(ctx, func() {
		overlay.Close()
		t.Close()
		bar.Update(progress.State{})
	})

	if err != nil {
		fmt.Fprintf(os.Stderr, "\nfailed to print [%v] - %v\n", *tabName, err)
		return 1
	}
	return 0
}

// Fetch a data tab through its controller and print the settled view
func printTab[T any](c *Console, q *loop.Queue, ctrl *tabs.Controller[T], load func(), opts render.Options) error {
	s, err := parseSort(*sortSpec)
	if err != nil {
		return err
	}

	done := make(chan tabs.View[T], 1)
	err = q.Call(c.ctx, func() {
		ctrl.SetFilter(*filterText)
		if s != nil {
			if _, ok := ctrl.Table().Column(s.Key); !ok {
				c.sugarLogger.Warnf("unknown sort column [%v], ignoring", s.Key)
			}
			ctrl.SetSort(*s)
		}
		ctrl.OnChange(func() {
			if st := ctrl.State(); st == tabs.Ready || st == tabs.ReadyEmpty {
				select {
				case done <- ctrl.View():
				default:
				}
			}
		})
		load()
	})
	if err != nil {
		return err
	}

	var view tabs.View[T]
	select {
	case view = <-done:
	case <-c.ctx.Done():
		return c.ctx.Err()
	}

	if *output == "yaml" {
		return render.YAML(c.out, view)
	}
	fmt.Fprintf(c.out, "\n%v\n\n", render.Summary(view))
	fmt.Fprintln(c.out, render.Table(ctrl.Table(), view, opts))
	return nil
}

type loadedSettings struct {
	view editor.View
	err  error
}

func (c *Console) printSettings(q *loop.Queue, ed *editor.Editor) error {
	done := make(chan loadedSettings, 1)
	err := q.Call(c.ctx, func() {
		ed.OnChange(func() {
			if v := ed.View(); !v.Loading && v.State == editor.Viewing {
				select {
				case done <- loadedSettings{view: v, err: ed.LastError()}:
				default:
				}
			}
		})
		ed.Load()
	})
	if err != nil {
		return err
	}

	select {
	case loaded := <-done:
		fmt.Fprintln(c.out, loaded.view.Committed)
		return loaded.err
	case <-c.ctx.Done():
		return c.ctx.Err()
	}
}

// "key", "key:asc" or "key:desc"
func parseSort(spec string) (*listing.Sort, error) {
	if spec == "" {
		return nil, nil
	}
	key, dir, _ := strings.Cut(spec, ":")
	s := &listing.Sort{Key: key}
	switch strings.ToLower(dir) {
	case "", "asc":
	case "desc":
		s.Desc = true
	default:
		return nil, fmt.Errorf("unknown sort direction [%v]", dir)
	}
	return s, nil
}
