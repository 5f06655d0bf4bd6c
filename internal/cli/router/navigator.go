package router

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// maxRedirects bounds redirect chains; the table never needs more than three hops
const maxRedirects = 10

// ErrRedirectLoop is returned when navigation keeps redirecting
var ErrRedirectLoop = errors.New("too many redirects")

// Session is what the navigator needs from the session store
type Session interface {
	State
	HasToken() bool
	HasUser() bool
	Init(ctx context.Context)
}

// Result is where a navigation ended
type Result struct {
	Route Route
	// Requested is the path navigation started from
	Requested string
	// Hops lists every path visited, the final one included
	Hops []string
}

// Path is the final path
func (r Result) Path() string {
	return r.Route.Path
}

// Redirected reports whether navigation ended somewhere other than requested
func (r Result) Redirected() bool {
	return len(r.Hops) > 1
}

// Navigator runs the guard before each transition
type Navigator struct {
	session Session
	logger  zerolog.Logger
}

// NewNavigator creates a navigator over a session
func NewNavigator(session Session, logger zerolog.Logger) *Navigator {
	return &Navigator{
		session: session,
		logger:  logger,
	}
}

// Navigate resolves path to the page the session may see. A token without a
// loaded profile is resolved first; if that fails navigation continues logged out.
func (n *Navigator) Navigate(ctx context.Context, path string) (Result, error) {
	if n.session.HasToken() && !n.session.HasUser() {
		n.session.Init(ctx)
	}

	result := Result{Requested: path}
	current := normalize(path)

	for i := 0; i <= maxRedirects; i++ {
		result.Hops = append(result.Hops, current)
		route := Match(current)

		if route.IsRedirect() {
			next := route.Redirect(n.session)
			n.logger.Debug().Str("from", current).Str("to", next).Msg("route redirect")
			current = next
			continue
		}

		decision := Resolve(route, n.session)
		if decision.Allowed() {
			result.Route = route
			return result, nil
		}

		n.logger.Debug().Str("from", current).Str("to", decision.RedirectTo).Msg("guard redirect")
		current = decision.RedirectTo
	}

	return result, fmt.Errorf("navigating to %s: %w", path, ErrRedirectLoop)
}
