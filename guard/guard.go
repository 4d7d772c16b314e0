package guard

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/luaraumc/pfc-client/credstore"
	"github.com/luaraumc/pfc-client/token"
)

// Routes a terminal decision redirects to.
const (
	LoginRoute    = "/login"
	UserHomeRoute = "/homeUsuario"
)

// State is a guard's position in its checking lifecycle.
type State int

const (
	// StateChecking means no terminal decision was reached; a cancelled
	// check resolves here and its result must be discarded.
	StateChecking State = iota

	// StateAuthorized admits the caller to the protected view.
	StateAuthorized

	// StateUnauthorized means no valid session exists; redirect to login.
	StateUnauthorized

	// StateForbidden means the session is valid but insufficiently
	// privileged; redirect to the user home, not to login.
	StateForbidden
)

func (s State) String() string {
	switch s {
	case StateChecking:
		return "checking"
	case StateAuthorized:
		return "authorized"
	case StateUnauthorized:
		return "unauthorized"
	case StateForbidden:
		return "forbidden"
	}
	return "unknown"
}

// Decision is a guard's terminal render state: either admit, or redirect.
// Guards never return errors; every failure resolves to a redirect.
type Decision struct {
	State      State
	RedirectTo string // Set for Unauthorized and Forbidden
}

// Admitted reports whether the protected content may render.
func (d Decision) Admitted() bool { return d.State == StateAuthorized }

// Refresher renews the access credential. Satisfied by *session.Refresher.
type Refresher interface {
	Refresh(ctx context.Context) (credstore.Credential, error)
}

// Guard gates navigation on session validity and role. It is a pure decision
// component, decoupled from any UI lifecycle: the caller runs a check with a
// cancellable context and renders whatever terminal state comes back.
type Guard struct {
	store     credstore.Store
	refresher Refresher
	skew      time.Duration
	logger    zerolog.Logger
}

// Option modifies the Guard instance.
type Option func(*Guard)

// WithExpirySkew overrides the safety margin used for the local expiry check.
func WithExpirySkew(skew time.Duration) Option {
	return func(g *Guard) {
		g.skew = skew
	}
}

// New creates a Guard over the given store and refresher.
func New(store credstore.Store, refresher Refresher, logger zerolog.Logger, options ...Option) *Guard {
	g := &Guard{
		store:     store,
		refresher: refresher,
		skew:      token.DefaultExpirySkew,
		logger:    logger,
	}
	for _, opt := range options {
		opt(g)
	}
	return g
}

// RequireAuth admits any live session. A missing credential redirects to
// login; an expired one is renewed once, and a failed renewal also redirects
// to login.
func (g *Guard) RequireAuth(ctx context.Context) Decision {
	return g.ensureLiveCredential(ctx)
}

// RequireAdmin composes RequireAuth's credential check with the cached admin
// flag. The flag is a UX convenience only: it may be stale, and the backend
// independently re-checks the privilege on every admin endpoint, so a wrong
// local answer can never escalate access.
func (g *Guard) RequireAdmin(ctx context.Context) Decision {
	decision := g.ensureLiveCredential(ctx)
	if decision.State != StateAuthorized {
		return decision
	}

	profile, ok := g.store.Profile()
	if !ok || !profile.Admin {
		g.logger.Debug().Str("user_id", profile.UserID).Msg("admin route refused for non-admin session")
		return Decision{State: StateForbidden, RedirectTo: UserHomeRoute}
	}

	return Decision{State: StateAuthorized}
}

func (g *Guard) ensureLiveCredential(ctx context.Context) Decision {
	cred, ok := g.store.Credential()
	if !ok {
		return Decision{State: StateUnauthorized, RedirectTo: LoginRoute}
	}

	if !token.IsExpired(cred.Token, g.skew) {
		return Decision{State: StateAuthorized}
	}

	if _, err := g.refresher.Refresh(ctx); err != nil {
		if ctx.Err() != nil {
			// The caller went away mid-check; hand back a non-terminal
			// state so the result is discarded instead of redirecting a
			// view that no longer exists.
			return Decision{State: StateChecking}
		}
		g.logger.Debug().Err(err).Msg("expired credential could not be renewed")
		return Decision{State: StateUnauthorized, RedirectTo: LoginRoute}
	}

	return Decision{State: StateAuthorized}
}
