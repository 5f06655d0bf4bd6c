package router

import (
	"github.com/spoadmin/spoadmin/internal/models"
)

// State is the read-only view of the session the guard evaluates
type State interface {
	IsAuthenticated() bool
	IsAdmin() bool
	IsOperator() bool
}

// Decision is the outcome of guarding one route: allow, or redirect to RedirectTo
type Decision struct {
	RedirectTo string
}

// Allowed reports whether navigation may proceed to the route
func (d Decision) Allowed() bool {
	return d.RedirectTo == ""
}

// Allow lets navigation proceed
func Allow() Decision {
	return Decision{}
}

// RedirectTo sends navigation to path instead
func RedirectTo(path string) Decision {
	return Decision{RedirectTo: path}
}

// Resolve applies the access rules of route to the session state
func Resolve(route Route, s State) Decision {
	if route.Meta.Guest {
		if s.IsAuthenticated() {
			return RedirectTo(landing(s))
		}
		return Allow()
	}

	if route.Meta.RequiresAuth {
		if !s.IsAuthenticated() {
			return RedirectTo(PathLogin)
		}

		if route.Meta.Role == models.RoleAdmin && !s.IsAdmin() {
			return RedirectTo(PathOperator)
		}
		if route.Meta.Role == models.RoleOperator && !s.IsOperator() {
			return RedirectTo(PathAdmin)
		}
	}

	return Allow()
}
