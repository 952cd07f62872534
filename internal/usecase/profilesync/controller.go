// Package profilesync keeps a user's profile list in sync with the document
// store while the signed-in identity, the cached identity and user deletes
// arrive asynchronously.
//
// All state is owned by a single event-loop goroutine. Remote calls run on
// their own goroutines and hand their results back to the loop as events, so
// state is only ever touched from one place.
package profilesync

import (
	"context"
	"log"
	"sync"
	"sync/atomic"

	"profile-sync/internal/domain/profile"
)

const eventBuffer = 64

type Snapshot struct {
	Identity  profile.UserID    `json:"identity"`
	Ready     bool              `json:"ready"`
	Profiles  []profile.Profile `json:"profiles"`
	Mutation  MutationState     `json:"mutation"`
	PendingID string            `json:"pending_id,omitempty"`
}

type Controller struct {
	auth     AuthService
	cache    IdentityCache
	repo     profile.Repository
	nav      Navigator
	dialogs  Dialogs
	observer Observer
	reporter Reporter
	metrics  *Metrics
	logger   *log.Logger
	texts    Texts

	events chan func()
	done   chan struct{}
	exited chan struct{}

	started     atomic.Bool
	lifecycle   sync.Mutex
	closed      bool
	unsubscribe func()
	baseCtx     context.Context

	// Owned by the event loop.
	identity    profile.UserID
	hasIdentity bool
	streamSeen  bool
	profiles    []profile.Profile
	generation  uint64
	tombstones  map[string]uint64
	mutation    MutationState
	pendingID   string
}

type Option func(*Controller)

func WithNavigator(n Navigator) Option {
	return func(c *Controller) { c.nav = n }
}

func WithDialogs(d Dialogs) Option {
	return func(c *Controller) { c.dialogs = d }
}

func WithObserver(o Observer) Option {
	return func(c *Controller) { c.observer = o }
}

func WithReporter(r Reporter) Option {
	return func(c *Controller) { c.reporter = r }
}

func WithMetrics(m *Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

func WithTexts(t Texts) Option {
	return func(c *Controller) { c.texts = t }
}

// New builds a controller. auth and cache may be nil, in which case that
// identity source never produces a value.
func New(auth AuthService, cache IdentityCache, repo profile.Repository, opts ...Option) *Controller {
	c := &Controller{
		auth:       auth,
		cache:      cache,
		repo:       repo,
		nav:        nopNavigator{},
		dialogs:    nopDialogs{},
		observer:   nopObserver{},
		logger:     log.Default(),
		texts:      DefaultTexts(),
		events:     make(chan func(), eventBuffer),
		done:       make(chan struct{}),
		exited:     make(chan struct{}),
		baseCtx:    context.Background(),
		tombstones: make(map[string]uint64),
		mutation:   StateIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.reporter == nil {
		c.reporter = NewLogReporter(c.logger, c.metrics)
	}
	return c
}

// Start runs the event loop, subscribes to the auth stream and kicks off the
// one-time cache read. ctx scopes values only: cancelling it does not abort
// calls already in flight. Use Close to tear down.
func (c *Controller) Start(ctx context.Context) error {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	if c.closed {
		return ErrClosed
	}
	if c.started.Load() {
		return nil
	}

	c.baseCtx = context.WithoutCancel(ctx)
	c.started.Store(true)
	go c.run()

	if c.auth != nil {
		c.unsubscribe = c.auth.Subscribe(c.onAuthState)
	}
	if c.cache != nil {
		go c.readCache(c.baseCtx)
	}

	c.logger.Printf("[ProfileSync] started")
	return nil
}

// Close releases the auth subscription and stops the loop. Remote calls
// still in flight finish on their own; their results are discarded.
func (c *Controller) Close() error {
	c.lifecycle.Lock()
	if c.closed {
		c.lifecycle.Unlock()
		return nil
	}
	c.closed = true
	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	c.lifecycle.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	close(c.done)
	if c.started.Load() {
		<-c.exited
	}

	c.logger.Printf("[ProfileSync] stopped")
	return nil
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot(ctx context.Context) (Snapshot, error) {
	var s Snapshot
	err := c.do(ctx, func() error {
		s = c.snapshot()
		return nil
	})
	return s, err
}

func (c *Controller) run() {
	defer close(c.exited)
	for {
		select {
		case <-c.done:
			return
		case fn := <-c.events:
			fn()
		}
	}
}

// post queues fn on the loop. It reports false once the controller is closed.
func (c *Controller) post(fn func()) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.events <- fn:
		return true
	case <-c.done:
		return false
	}
}

// do runs fn on the loop and waits for its result.
func (c *Controller) do(ctx context.Context, fn func() error) error {
	if !c.started.Load() {
		return ErrNotStarted
	}
	result := make(chan error, 1)
	if !c.post(func() { result <- fn() }) {
		return ErrClosed
	}
	select {
	case err := <-result:
		return err
	case <-c.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Controller) snapshot() Snapshot {
	return Snapshot{
		Identity:  c.identity,
		Ready:     c.hasIdentity,
		Profiles:  append([]profile.Profile{}, c.profiles...),
		Mutation:  c.mutation,
		PendingID: c.pendingID,
	}
}

func (c *Controller) notify() {
	c.metrics.setSize(len(c.profiles))
	c.observer.StateChanged(c.snapshot())
}

func (c *Controller) find(id string) (profile.Profile, bool) {
	for _, p := range c.profiles {
		if p.ID == id {
			return p, true
		}
	}
	return profile.Profile{}, false
}
