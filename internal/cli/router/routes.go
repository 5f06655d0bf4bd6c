package router

import (
	"strings"

	"github.com/spoadmin/spoadmin/internal/models"
)

const (
	PathRoot     = "/"
	PathLogin    = "/login"
	PathAdmin    = "/admin"
	PathOperator = "/operator"
)

// Meta is the access metadata of a route
type Meta struct {
	Guest        bool
	RequiresAuth bool
	Role         models.Role
}

// Route is one entry of the page table. A route with a Redirect is not a page:
// navigating to it continues at the path the function returns.
type Route struct {
	Path     string
	Name     string
	Meta     Meta
	Redirect func(State) string
}

// IsRedirect reports whether the route only forwards to another path
func (r Route) IsRedirect() bool {
	return r.Redirect != nil
}

// landing returns the home page for the session's role
func landing(s State) string {
	if s.IsAdmin() {
		return PathAdmin
	}
	return PathOperator
}

func admin(path, name string) Route {
	return Route{Path: path, Name: name, Meta: Meta{RequiresAuth: true, Role: models.RoleAdmin}}
}

func operator(path, name string) Route {
	return Route{Path: path, Name: name, Meta: Meta{RequiresAuth: true, Role: models.RoleOperator}}
}

// routes is the page table of the admin UI
var routes = []Route{
	{Path: PathLogin, Name: "login", Meta: Meta{Guest: true}},
	{Path: PathRoot, Meta: Meta{RequiresAuth: true}, Redirect: landing},

	admin(PathAdmin, "admin-dashboard"),
	admin("/admin/spo", "spo-list"),
	admin("/admin/operators", "operator-list"),
	admin("/admin/quotas", "quota-settings"),
	admin("/admin/templates", "specialty-templates"),
	admin("/admin/stats", "admin-stats"),

	operator(PathOperator, "operator-dashboard"),
	operator("/operator/specialties", "specialty-list"),
	operator("/operator/students", "student-list"),
	operator("/operator/stats", "operator-stats"),
}

// notFound is the catch-all for paths outside the table
var notFound = Route{
	Path:     "/:pathMatch(.*)*",
	Redirect: func(State) string { return PathRoot },
}

// Routes returns a copy of the page table
func Routes() []Route {
	out := make([]Route, len(routes))
	copy(out, routes)
	return out
}

// Match returns the route for path, falling back to the catch-all.
// Trailing slashes and query strings are ignored.
func Match(path string) Route {
	path = normalize(path)
	for _, r := range routes {
		if r.Path == path {
			return r
		}
	}
	return notFound
}

// Lookup finds a page by route name
func Lookup(name string) (Route, bool) {
	for _, r := range routes {
		if r.Name != "" && r.Name == name {
			return r, true
		}
	}
	return Route{}, false
}

func normalize(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = PathRoot
		}
	}
	return path
}
