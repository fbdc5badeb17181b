package procview

import (
	"context"
	"fmt"
	"time"

	"github.com/Sternrassler/medshield-admin/pkg/logging"
	"github.com/Sternrassler/medshield-admin/pkg/model"
	"github.com/Sternrassler/medshield-admin/pkg/pagination"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

var fetchCyclesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "procview_fetch_cycles_total",
	Help: "Process-details fetch cycles by outcome",
}, []string{"outcome"})

// RequestTimeout bounds each of the count and list requests.
const RequestTimeout = 30 * time.Second

// Session is the authentication signal consumed by the controller.
type Session struct {
	// User is the current user's name, empty when nobody is signed in.
	User string
	// Loading is true while authentication is still being resolved.
	Loading bool
}

// Source is the remote collaborator for count and list queries.
type Source interface {
	CountClusters(ctx context.Context, f model.FilterCriteria) (int, error)
	ListClusters(ctx context.Context, f model.FilterCriteria, skip, limit int) ([]model.DocumentCluster, error)
}

// State is what renderers read.
type State struct {
	Filter     model.FilterCriteria
	Page       int
	Clusters   []model.DocumentCluster
	TotalCount int
	Err        error
	Loading    bool
}

// ErrorMessage returns the user-facing error text, "" without error.
func (s State) ErrorMessage() string { return Message(s.Err) }

// TotalPages returns ceil(TotalCount/PageSize).
func (s State) TotalPages() int { return pagination.TotalPages(s.TotalCount, pagination.PageSize) }

// Pager returns the pagination controls and whether to render them.
func (s State) Pager() (pagination.Pager, bool) {
	return pagination.NewPager(s.Page, s.TotalCount)
}

// Cycle is one count/list fetch, tagged with its sequence number.
type Cycle struct {
	Seq    uint64
	Filter model.FilterCriteria
	Page   int
}

// Result is the outcome of a Cycle.
type Result struct {
	Seq        uint64
	Skip       int
	Clusters   []model.DocumentCluster
	TotalCount int
	Err        error
}

// Controller owns the view state of one process-details view.
type Controller struct {
	source   Source
	timeout  time.Duration
	logger   zerolog.Logger
	state    State
	expanded *Expansion
	seq      uint64
}

// NewController creates a controller for filter, starting at page.
func NewController(source Source, filter model.FilterCriteria, page int) *Controller {
	if page < 1 {
		page = 1
	}
	return &Controller{
		source:   source,
		timeout:  RequestTimeout,
		logger:   logging.NewLogger("procview"),
		state:    State{Filter: filter, Page: page},
		expanded: NewExpansion(),
	}
}

// SetTimeout overrides the per-request timeout.
func (c *Controller) SetTimeout(d time.Duration) {
	if d > 0 {
		c.timeout = d
	}
}

// State returns a snapshot of the view state.
func (c *Controller) State() State { return c.state }

// Expansion returns the expansion set of this view.
func (c *Controller) Expansion() *Expansion { return c.expanded }

// SetExpansion replaces the expansion set.
func (c *Controller) SetExpansion(e *Expansion) {
	if e == nil {
		e = NewExpansion()
	}
	c.expanded = e
}

// Begin applies the gating rules for session and, when a fetch is due,
// starts a new cycle. Starting a cycle supersedes every earlier one.
func (c *Controller) Begin(session Session) (Cycle, bool) {
	switch {
	case session.Loading:
		c.state.Loading = true
		fetchCyclesTotal.WithLabelValues("auth_loading").Inc()
		return Cycle{}, false
	case session.User == "":
		c.state.Loading = false
		c.state.Err = ErrAuthRequired
		fetchCyclesTotal.WithLabelValues("auth_required").Inc()
		return Cycle{}, false
	case !c.state.Filter.HasRequired():
		c.state.Loading = false
		c.state.Err = ErrMissingParams
		fetchCyclesTotal.WithLabelValues("missing_params").Inc()
		return Cycle{}, false
	}

	c.seq++
	c.state.Loading = true
	return Cycle{Seq: c.seq, Filter: c.state.Filter, Page: c.state.Page}, true
}

// Fetch runs the count request and then the list request for cycle. It
// only reads immutable controller fields and may run on any goroutine.
func (c *Controller) Fetch(ctx context.Context, cycle Cycle) Result {
	result := Result{Seq: cycle.Seq, Skip: pagination.Skip(cycle.Page, pagination.PageSize)}

	countCtx, cancel := context.WithTimeout(ctx, c.timeout)
	total, err := c.source.CountClusters(countCtx, cycle.Filter)
	cancel()
	if err != nil {
		result.Err = fmt.Errorf("%w: count: %w", ErrFetchFailed, err)
		return result
	}

	listCtx, cancel := context.WithTimeout(ctx, c.timeout)
	clusters, err := c.source.ListClusters(listCtx, cycle.Filter, result.Skip, pagination.PageSize)
	cancel()
	if err != nil {
		result.Err = fmt.Errorf("%w: list: %w", ErrFetchFailed, err)
		return result
	}

	result.TotalCount = total
	result.Clusters = clusters
	return result
}

// Apply stores the result of a cycle. Results of superseded cycles are
// discarded and Apply returns false.
func (c *Controller) Apply(r Result) bool {
	if r.Seq != c.seq {
		fetchCyclesTotal.WithLabelValues("stale").Inc()
		c.logger.Debug().
			Uint64("seq", r.Seq).
			Uint64("latest", c.seq).
			Msg("Discarding stale fetch result")
		return false
	}

	c.state.Loading = false

	if r.Err != nil {
		fetchCyclesTotal.WithLabelValues("error").Inc()
		c.logger.Error().
			Err(r.Err).
			Str("phase", c.state.Filter.Phase).
			Str("role", c.state.Filter.Role).
			Int("page", c.state.Page).
			Msg("Failed to load process details")
		c.state.Err = r.Err
		return true
	}

	if len(r.Clusters) > r.TotalCount-r.Skip {
		c.logger.Warn().
			Int("total_count", r.TotalCount).
			Int("skip", r.Skip).
			Int("listed", len(r.Clusters)).
			Msg("List returned more clusters than the count allows")
	}

	fetchCyclesTotal.WithLabelValues("ok").Inc()
	c.state.Clusters = r.Clusters
	c.state.TotalCount = r.TotalCount
	c.state.Err = nil
	return true
}

// Load runs a complete cycle synchronously.
func (c *Controller) Load(ctx context.Context, session Session) State {
	cycle, ok := c.Begin(session)
	if ok {
		c.Apply(c.Fetch(ctx, cycle))
	}
	return c.state
}

// SetPage changes the current page and starts a cycle for the
// established filter. It is the only way the page changes.
func (c *Controller) SetPage(page int, session Session) (Cycle, bool) {
	if page < 1 {
		page = 1
	}
	c.state.Page = page
	return c.Begin(session)
}
