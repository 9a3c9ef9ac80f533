package browse

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/mmcdole/anigo/internal/domain"
)

const (
	DefaultPageSize = 24
	DefaultDebounce = 500 * time.Millisecond
	defaultTimeout  = 30 * time.Second
)

// Lister is the part of the catalog the controller needs
type Lister interface {
	ListAnime(ctx context.Context, q domain.ListQuery) (domain.AnimePage, error)
}

// Observer receives a snapshot after every state change.
// Snapshots may arrive from different goroutines; Rev orders them.
type Observer interface {
	OnState(State)
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(State)

func (f ObserverFunc) OnState(s State) { f(s) }

// Options configures a Controller. Zero values select the defaults.
type Options struct {
	PageSize  int
	Debounce  time.Duration
	Timeout   time.Duration // per fetch
	Scheduler Scheduler
	Runner    Runner
	Observer  Observer
}

// State is a snapshot of the browse session
type State struct {
	Records  []domain.Anime
	Page     domain.PageState
	Criteria domain.FilterCriteria
	Total    int // matching records across all pages, 0 when unknown

	// Loading is true while the latest dispatched fetch is outstanding
	Loading bool

	// Err is the failure of the latest completed fetch; Records still hold
	// the last successful page
	Err error

	// Seq is the sequence number of the latest dispatched fetch
	Seq uint64

	// Rev increases with every state change
	Rev uint64
}

// Controller turns search, filter, sort and page inputs into catalog fetches
// and holds the latest successful page.
//
// Search, filter and sort changes are debounced on the trailing edge; page
// changes and refreshes fetch immediately and cancel any pending debounce.
// Only the response to the most recently dispatched fetch is applied.
type Controller struct {
	repo   Lister
	opts   Options
	logger *slog.Logger

	mu       sync.Mutex
	state    State
	pending  Timer
	timerGen uint64
	closed   bool
}

// New creates a controller with default criteria on page 1. Nothing is
// fetched until an input changes or Refresh is called.
func New(repo Lister, opts Options, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Scheduler == nil {
		opts.Scheduler = WallClock{}
	}
	if opts.Runner == nil {
		opts.Runner = goRunner
	}

	return &Controller{
		repo:   repo,
		opts:   opts,
		logger: logger,
		state: State{
			Page:     domain.NewPageState(),
			Criteria: domain.DefaultCriteria(),
		},
	}
}

// State returns a snapshot of the current session
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// SetSearch replaces the search text and schedules a fetch of page 1
func (c *Controller) SetSearch(text string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.state.Criteria.Search = text
	c.state.Page.Current = 1
	c.scheduleLocked()
	snap := c.changedLocked()
	c.mu.Unlock()

	c.notify(snap)
}

// SetFilter merges patch into the criteria and schedules a fetch of page 1.
// An invalid patch is rejected whole and leaves the session untouched.
func (c *Controller) SetFilter(patch domain.FilterPatch) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	merged, err := c.state.Criteria.Merge(patch)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	// Merge never touches search or sort
	c.state.Criteria = merged
	c.state.Page.Current = 1
	c.scheduleLocked()
	snap := c.changedLocked()
	c.mu.Unlock()

	c.notify(snap)
	return nil
}

// ClearFilters drops every narrowing filter except the search text
func (c *Controller) ClearFilters() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	cur := c.state.Criteria
	c.state.Criteria = domain.FilterCriteria{Search: cur.Search, OrderBy: cur.OrderBy, Sort: cur.Sort}
	c.state.Page.Current = 1
	c.scheduleLocked()
	snap := c.changedLocked()
	c.mu.Unlock()

	c.notify(snap)
}

// SetSort replaces the sort criterion and schedules a fetch of page 1
func (c *Controller) SetSort(field domain.OrderBy, dir domain.SortDirection) error {
	if !field.Valid() {
		return fmt.Errorf("%w: order_by %q", domain.ErrInvalidEnum, field)
	}
	if !dir.Valid() {
		return fmt.Errorf("%w: sort %q", domain.ErrInvalidEnum, dir)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.state.Criteria.OrderBy = field
	c.state.Criteria.Sort = dir
	c.state.Page.Current = 1
	c.scheduleLocked()
	snap := c.changedLocked()
	c.mu.Unlock()

	c.notify(snap)
	return nil
}

// SetPage moves to page n and fetches it at once.
// Out of range pages are ignored and false is returned.
func (c *Controller) SetPage(n int) bool {
	c.mu.Lock()
	if c.closed || !c.state.Page.InRange(n) {
		c.mu.Unlock()
		return false
	}
	c.cancelPendingLocked()
	c.state.Page.Current = n
	job := c.dispatchLocked()
	snap := c.changedLocked()
	c.mu.Unlock()

	c.notify(snap)
	c.opts.Runner(job)
	return true
}

// NextPage moves forward one page if there is one
func (c *Controller) NextPage() bool {
	c.mu.Lock()
	page := c.state.Page
	c.mu.Unlock()
	if !page.HasNext() {
		return false
	}
	return c.SetPage(page.Current + 1)
}

// PrevPage moves back one page if there is one
func (c *Controller) PrevPage() bool {
	c.mu.Lock()
	page := c.state.Page
	c.mu.Unlock()
	if !page.HasPrevious() {
		return false
	}
	return c.SetPage(page.Current - 1)
}

// Refresh re-issues the current request immediately
func (c *Controller) Refresh() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.cancelPendingLocked()
	job := c.dispatchLocked()
	snap := c.changedLocked()
	c.mu.Unlock()

	c.notify(snap)
	c.opts.Runner(job)
}

// Close cancels any pending debounce; responses still in flight are dropped
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.cancelPendingLocked()
}

// scheduleLocked replaces any pending debounce with a fresh one
func (c *Controller) scheduleLocked() {
	c.cancelPendingLocked()
	gen := c.timerGen
	c.pending = c.opts.Scheduler.AfterFunc(c.opts.Debounce, func() { c.fire(gen) })
}

// cancelPendingLocked stops the pending debounce. The generation bump also
// invalidates a callback that already started and is waiting for the lock.
func (c *Controller) cancelPendingLocked() {
	c.timerGen++
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
}

func (c *Controller) fire(gen uint64) {
	c.mu.Lock()
	if c.closed || gen != c.timerGen {
		c.mu.Unlock()
		return
	}
	c.pending = nil
	job := c.dispatchLocked()
	snap := c.changedLocked()
	c.mu.Unlock()

	c.notify(snap)
	c.opts.Runner(job)
}

// dispatchLocked tags a request for the current inputs and returns the job that runs it
func (c *Controller) dispatchLocked() func() {
	c.state.Seq++
	c.state.Loading = true
	seq := c.state.Seq
	q := domain.ListQuery{
		Page:     c.state.Page.Current,
		Limit:    c.opts.PageSize,
		Criteria: c.state.Criteria.Clone(),
	}

	c.logger.Debug("dispatching fetch", "seq", seq, "page", q.Page, "search", q.Criteria.Search)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.opts.Timeout)
		defer cancel()
		page, err := c.repo.ListAnime(ctx, q)
		c.complete(seq, page, err)
	}
}

func (c *Controller) complete(seq uint64, page domain.AnimePage, err error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if seq != c.state.Seq {
		c.logger.Debug("discarding stale response", "seq", seq, "latest", c.state.Seq)
		c.mu.Unlock()
		return
	}

	c.state.Loading = false
	if err != nil {
		c.logger.Warn("fetch failed", "seq", seq, "error", err)
		c.state.Err = err
	} else {
		c.state.Err = nil
		c.state.Records = page.Items
		c.state.Total = page.Total
		c.state.Page.Total = page.LastPage
		c.state.Page = c.state.Page.Clamp()
		c.logger.Debug("fetch complete", "seq", seq, "count", len(page.Items), "lastPage", page.LastPage)
	}
	snap := c.changedLocked()
	c.mu.Unlock()

	c.notify(snap)
}

func (c *Controller) changedLocked() State {
	c.state.Rev++
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() State {
	s := c.state
	s.Records = slices.Clone(c.state.Records)
	s.Criteria = c.state.Criteria.Clone()
	return s
}

func (c *Controller) notify(s State) {
	if c.opts.Observer != nil {
		c.opts.Observer.OnState(s)
	}
}
