// Package guard decides whether protected content may be shown for the
// current session.
package guard

import (
	"sync"

	"github.com/aussiebroadwan/propdesk/internal/propdesk/access"
	"github.com/aussiebroadwan/propdesk/internal/propdesk/domain"
	"github.com/aussiebroadwan/propdesk/internal/propdesk/session"
)

type State int

const (
	// Loading means the session store has not resolved yet. Nothing
	// protected may be shown.
	Loading State = iota
	Unauthenticated
	Unauthorized
	Authorized
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Unauthenticated:
		return "unauthenticated"
	case Unauthorized:
		return "unauthorized"
	case Authorized:
		return "authorized"
	}
	return "unknown"
}

// Requirement is what a protected view asks of the session. Both fields are
// optional; when both are set both must hold. A role requirement is also
// met by admin.
type Requirement struct {
	Role       domain.Role
	Permission domain.Permission
}

// Evaluate is the guard decision as a pure function of a snapshot.
func Evaluate(snap session.Snapshot, req Requirement) State {
	if !snap.Loaded {
		return Loading
	}

	id := snap.Identity()
	if id == nil {
		return Unauthenticated
	}
	if req.Role != "" && !access.HasRole(id, req.Role) {
		return Unauthorized
	}
	if req.Permission != "" && !access.HasPermission(id, req.Permission) {
		return Unauthorized
	}
	return Authorized
}

// Render picks what to show for state: children when authorized, the
// placeholder while loading, the fallback otherwise.
func Render[V any](state State, children, fallback, placeholder V) V {
	switch state {
	case Authorized:
		return children
	case Loading:
		return placeholder
	default:
		return fallback
	}
}

type Option func(*Guard)

// WithOnChange calls fn whenever the guard state changes.
func WithOnChange(fn func(State)) Option {
	return func(g *Guard) { g.onChange = fn }
}

// Guard tracks the state of one protected view and re-evaluates it on every
// session change.
type Guard struct {
	req      Requirement
	onChange func(State)

	// notifyMu serializes updates so onChange sees states in version order.
	notifyMu sync.Mutex

	mu          sync.RWMutex
	state       State
	version     uint64
	unsubscribe func()
}

// New subscribes to mgr and evaluates the current snapshot right away.
func New(mgr *session.Manager, req Requirement, opts ...Option) *Guard {
	g := &Guard{req: req, state: Loading}
	for _, opt := range opts {
		opt(g)
	}

	g.unsubscribe = mgr.Subscribe(g.update)
	g.update(mgr.Current())
	return g
}

func (g *Guard) State() State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

// Close stops following session changes. The last state is kept.
func (g *Guard) Close() {
	g.unsubscribe()
}

// update applies snap unless a newer snapshot has already been seen.
func (g *Guard) update(snap session.Snapshot) {
	g.notifyMu.Lock()
	defer g.notifyMu.Unlock()

	g.mu.Lock()
	if snap.Version < g.version {
		g.mu.Unlock()
		return
	}
	g.version = snap.Version

	prev := g.state
	g.state = Evaluate(snap, g.req)
	changed := prev != g.state
	next := g.state
	g.mu.Unlock()

	if changed && g.onChange != nil {
		g.onChange(next)
	}
}
