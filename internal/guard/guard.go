// Package guard decides whether a view may be entered given the current
// identity, and resolves view paths against the route table.
package guard

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"

	"taskman/internal/session"
)

// Route is a view reachable by path.
type Route struct {
	// Name identifies the route in the table.
	Name string

	// Path is the mux path template, e.g. "/tasks/{id:[0-9]+}".
	Path string

	// Protected routes require an identity.
	Protected bool
}

// Routes of the task manager views.
var (
	Login      = Route{Name: "login", Path: "/login"}
	Register   = Route{Name: "register", Path: "/register"}
	TaskList   = Route{Name: "tasks", Path: "/", Protected: true}
	TaskNew    = Route{Name: "task-new", Path: "/tasks/new", Protected: true}
	TaskDetail = Route{Name: "task", Path: "/tasks/{id:[0-9]+}", Protected: true}
	TaskEdit   = Route{Name: "task-edit", Path: "/tasks/{id:[0-9]+}/edit", Protected: true}
)

// Table lists every route in match order.
var Table = []Route{Login, Register, TaskList, TaskNew, TaskDetail, TaskEdit}

// Decision is the outcome of a guard check.
type Decision struct {
	// Render is true when the requested view may be entered.
	Render bool

	// Redirect is the path to go to instead when Render is false.
	Redirect string
}

// Check allows public routes unconditionally and protected routes only when
// identity is present; otherwise it redirects to the login view.
// It holds no state, so it must be consulted on every navigation.
func Check(identity *session.Identity, route Route) Decision {
	if !route.Protected || identity != nil {
		return Decision{Render: true}
	}
	return Decision{Redirect: Login.Path}
}

var router = newRouter()

func newRouter() *mux.Router {
	r := mux.NewRouter()
	for _, route := range Table {
		r.NewRoute().Name(route.Name).Path(route.Path)
	}
	return r
}

// Resolve matches a concrete path such as "/tasks/7/edit" against the route
// table and returns the route with its path variables.
func Resolve(path string) (Route, map[string]string, error) {
	u, err := url.Parse(path)
	if err != nil || u.Path == "" || u.Path[0] != '/' {
		return Route{}, nil, fmt.Errorf("invalid path: %s", path)
	}

	req := &http.Request{Method: http.MethodGet, URL: u}
	var match mux.RouteMatch
	if !router.Match(req, &match) || match.Route == nil {
		return Route{}, nil, fmt.Errorf("no view at path: %s", path)
	}

	name := match.Route.GetName()
	for _, route := range Table {
		if route.Name == name {
			return route, match.Vars, nil
		}
	}
	return Route{}, nil, fmt.Errorf("no view at path: %s", path)
}
