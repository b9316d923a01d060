// Package tabs holds the per-tab data controllers: fetch, normalize, store and expose a
// filtered/sorted read model. Controllers must only be used from the view loop.
package tabs

import (
	"context"

	"github.com/giwty/slm-view/listing"
	"github.com/giwty/slm-view/loop"
	"go.uber.org/zap"
)

// Controller state
type State int

const (
	Idle State = iota
	Loading
	Ready
	ReadyEmpty
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case ReadyEmpty:
		return "ready-empty"
	}
	return "idle"
}

// Backend call producing a raw response
type Fetcher func(ctx context.Context) (any, error)

// Controller configuration
type Config[T any] struct {
	Name      string
	Fetch     Fetcher
	HardFetch Fetcher
	Normalize func(raw any) []T
	Table     listing.Table[T]
	// fetch every time the tab becomes active
	FetchOnActivate bool
}

// Read model exposed to the view
type View[T any] struct {
	Name     string
	State    State
	Items    []T
	Total    int
	Matching int
	Filter   string
	Sort     listing.Sort
}

// Data controller of one tab
type Controller[T any] struct {
	cfg    Config[T]
	ctx    context.Context
	loop   loop.Loop
	logger *zap.SugaredLogger

	state    State
	items    []T
	filter   string
	sort     listing.Sort
	inflight int

	onChange func()
	onSort   func(listing.Sort)
}

// Constructor for a tab controller
func NewController[T any](ctx context.Context, l loop.Loop, logger *zap.SugaredLogger, cfg Config[T]) *Controller[T] {
	return &Controller[T]{
		cfg:    cfg,
		ctx:    ctx,
		loop:   l,
		logger: logger,
		items:  []T{},
	}
}

func (c *Controller[T]) Name() string {
	return c.cfg.Name
}

func (c *Controller[T]) State() State {
	return c.state
}

// Called after every state change
func (c *Controller[T]) OnChange(f func()) {
	c.onChange = f
}

// Called when the user changes the sort
func (c *Controller[T]) OnSort(f func(listing.Sort)) {
	c.onSort = f
}

// Tab became active
func (c *Controller[T]) Activate() {
	if c.cfg.FetchOnActivate {
		c.Refresh()
	}
}

// Explicit refresh action
func (c *Controller[T]) Refresh() {
	c.start(c.cfg.Fetch)
}

// Refresh bypassing the backend cache, falls back to a normal refresh
func (c *Controller[T]) RefreshHard() {
	if c.cfg.HardFetch == nil {
		c.Refresh()
		return
	}
	c.start(c.cfg.HardFetch)
}

// Apply a payload pushed by the backend, same rules as a fetch response
func (c *Controller[T]) Ingest(raw any) {
	c.items = c.cfg.Normalize(raw)
	c.settle()
	c.changed()
}

func (c *Controller[T]) SetFilter(filter string) {
	if filter == c.filter {
		return
	}
	c.filter = filter
	c.changed()
}

func (c *Controller[T]) Filter() string {
	return c.filter
}

// Sort control click on a column
func (c *Controller[T]) ToggleSort(key string) {
	if _, ok := c.cfg.Table.Column(key); !ok {
		return
	}
	c.sort = c.cfg.Table.Toggle(c.sort, key)
	if c.onSort != nil {
		c.onSort(c.sort)
	}
	c.changed()
}

// Restore a sort (saved preference), unknown keys are ignored
func (c *Controller[T]) SetSort(s listing.Sort) {
	if _, ok := c.cfg.Table.Column(s.Key); !ok && s.Key != "" {
		return
	}
	c.sort = s
	c.changed()
}

func (c *Controller[T]) Sort() listing.Sort {
	return c.sort
}

func (c *Controller[T]) Table() listing.Table[T] {
	return c.cfg.Table
}

// Current read model, the stored collection is left untouched
func (c *Controller[T]) View() View[T] {
	items := c.cfg.Table.Apply(c.items, c.filter, c.sort)
	return View[T]{
		Name:     c.cfg.Name,
		State:    c.state,
		Items:    items,
		Total:    len(c.items),
		Matching: len(items),
		Filter:   c.filter,
		Sort:     c.sort,
	}
}

func (c *Controller[T]) start(fetch Fetcher) {
	c.inflight++
	c.state = Loading
	c.changed()

	ctx := c.ctx
	c.loop.Go(func() func() {
		raw, err := fetch(ctx)
		return func() { c.resolve(raw, err) }
	})
}

// Last resolved response wins
func (c *Controller[T]) resolve(raw any, err error) {
	c.inflight--

	if err != nil {
		c.logger.Errorf("[%v] failed to fetch data: %v", c.cfg.Name, err)
		c.items = []T{}
	} else {
		c.items = c.cfg.Normalize(raw)
	}

	c.settle()
	c.changed()
}

func (c *Controller[T]) settle() {
	switch {
	case c.inflight > 0:
		c.state = Loading
	case len(c.items) == 0:
		c.state = ReadyEmpty
	default:
		c.state = Ready
	}
}

func (c *Controller[T]) changed() {
	if c.onChange != nil {
		c.onChange()
	}
}
