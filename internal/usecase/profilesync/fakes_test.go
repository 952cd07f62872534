package profilesync

import (
	"bytes"
	"context"
	"errors"
	"log"
	"sync"

	"profile-sync/internal/domain/profile"
)

type fakeAuth struct {
	mu           sync.Mutex
	listener     func(profile.UserID, bool)
	unsubscribed bool
}

func (a *fakeAuth) Subscribe(fn func(profile.UserID, bool)) func() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listener = fn
	return func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		a.unsubscribed = true
		a.listener = nil
	}
}

func (a *fakeAuth) Emit(id profile.UserID, signedIn bool) {
	a.mu.Lock()
	fn := a.listener
	a.mu.Unlock()
	if fn != nil {
		fn(id, signedIn)
	}
}

func (a *fakeAuth) Unsubscribed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.unsubscribed
}

type fakeCache struct {
	id   profile.UserID
	ok   bool
	err  error
	gate chan struct{}
}

func (c *fakeCache) GetIdentity(context.Context) (profile.UserID, bool, error) {
	if c.gate != nil {
		<-c.gate
	}
	return c.id, c.ok, c.err
}

type listResult struct {
	records []profile.Profile
	err     error
}

type fakeRepo struct {
	mu          sync.Mutex
	byOwner     map[profile.UserID][]profile.Profile
	listErr     error
	deleteErr   error
	listCalls   []profile.UserID
	deleteCalls []string
	listGates   map[int]chan struct{}
	overrides   map[int]listResult
	deleteGate  chan struct{}
}

func newFakeRepo(byOwner map[profile.UserID][]profile.Profile) *fakeRepo {
	return &fakeRepo{
		byOwner:   byOwner,
		listGates: map[int]chan struct{}{},
		overrides: map[int]listResult{},
	}
}

func (r *fakeRepo) ListByOwner(_ context.Context, owner profile.UserID) ([]profile.Profile, error) {
	r.mu.Lock()
	idx := len(r.listCalls)
	r.listCalls = append(r.listCalls, owner)
	gate := r.listGates[idx]
	r.mu.Unlock()

	if gate != nil {
		<-gate
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if res, ok := r.overrides[idx]; ok {
		return append([]profile.Profile(nil), res.records...), res.err
	}
	if r.listErr != nil {
		return nil, r.listErr
	}
	return append([]profile.Profile(nil), r.byOwner[owner]...), nil
}

func (r *fakeRepo) DeleteByID(_ context.Context, id string) error {
	r.mu.Lock()
	r.deleteCalls = append(r.deleteCalls, id)
	gate := r.deleteGate
	r.mu.Unlock()

	if gate != nil {
		<-gate
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	list := r.byOwner
	for owner, ps := range list {
		list[owner] = profile.Without(ps, id)
	}
	return nil
}

func (r *fakeRepo) gateList(idx int) chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch := make(chan struct{})
	r.listGates[idx] = ch
	return ch
}

func (r *fakeRepo) setOverride(idx int, res listResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overrides[idx] = res
}

func (r *fakeRepo) setDeleteErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleteErr = err
}

func (r *fakeRepo) setDeleteGate(ch chan struct{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleteGate = ch
}

func (r *fakeRepo) setListErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listErr = err
}

func (r *fakeRepo) ListCalls() []profile.UserID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]profile.UserID(nil), r.listCalls...)
}

func (r *fakeRepo) DeleteCalls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.deleteCalls...)
}

type alert struct {
	title   string
	message string
}

type fakeDialogs struct {
	mu      sync.Mutex
	prompts []Prompt
	alerts  []alert
}

func (d *fakeDialogs) Confirm(p Prompt) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.prompts = append(d.prompts, p)
}

func (d *fakeDialogs) Alert(title, message string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.alerts = append(d.alerts, alert{title: title, message: message})
}

func (d *fakeDialogs) Prompts() []Prompt {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Prompt(nil), d.prompts...)
}

func (d *fakeDialogs) Alerts() []alert {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]alert(nil), d.alerts...)
}

type report struct {
	kind  ErrorKind
	cause error
}

type fakeReporter struct {
	mu      sync.Mutex
	reports []report
}

func (r *fakeReporter) Report(kind ErrorKind, _ string, cause error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, report{kind: kind, cause: cause})
}

func (r *fakeReporter) Kinds() []ErrorKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ErrorKind, 0, len(r.reports))
	for _, rep := range r.reports {
		out = append(out, rep.kind)
	}
	return out
}

type navigation struct {
	target string
	params map[string]any
}

type fakeNavigator struct {
	mu    sync.Mutex
	calls []navigation
	err   error
}

func (n *fakeNavigator) Calls() []navigation {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]navigation(nil), n.calls...)
}

func (n *fakeNavigator) Navigate(_ context.Context, target string, params map[string]any) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, navigation{target: target, params: params})
	return n.err
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

var errStore = errors.New("store unavailable")

type harness struct {
	auth     *fakeAuth
	cache    *fakeCache
	repo     *fakeRepo
	dialogs  *fakeDialogs
	reporter *fakeReporter
	nav      *fakeNavigator
	logs     *syncBuffer
	ctrl     *Controller
}

func newHarness(cache *fakeCache, repo *fakeRepo, opts ...Option) *harness {
	h := &harness{
		auth:     &fakeAuth{},
		cache:    cache,
		repo:     repo,
		dialogs:  &fakeDialogs{},
		reporter: &fakeReporter{},
		nav:      &fakeNavigator{},
		logs:     &syncBuffer{},
	}
	base := []Option{
		WithDialogs(h.dialogs),
		WithReporter(h.reporter),
		WithNavigator(h.nav),
		WithLogger(log.New(h.logs, "", 0)),
	}
	var identityCache IdentityCache
	if cache != nil {
		identityCache = cache
	}
	h.ctrl = New(h.auth, identityCache, repo, append(base, opts...)...)
	return h
}
