// Package nav models client-side navigation between screens.
package nav

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
)

// Well-known routes.
const (
	ProjectsPath = "/projects"
	LoginPath    = "/login"
)

// ErrInvalidPath is returned for empty or relative paths.
var ErrInvalidPath = errors.New("invalid path")

// Navigator moves the client to another screen.
type Navigator interface {
	Push(path string) error
}

// LoginURL returns the login route that returns to redirect afterwards.
func LoginURL(redirect string) string {
	return LoginPath + "?redirect=" + redirect
}

// Route is a parsed navigation target.
type Route struct {
	Path  string
	Query url.Values
}

// String renders the route back to its path form.
func (r Route) String() string {
	if len(r.Query) == 0 {
		return r.Path
	}
	return r.Path + "?" + r.Query.Encode()
}

// Redirect returns the "redirect" query parameter, if any.
func (r Route) Redirect() string {
	return r.Query.Get("redirect")
}

// Parse validates and splits an absolute in-app path.
func Parse(path string) (Route, error) {
	if path == "" || !strings.HasPrefix(path, "/") {
		return Route{}, fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	u, err := url.Parse(path)
	if err != nil {
		return Route{}, fmt.Errorf("%w: %q: %v", ErrInvalidPath, path, err)
	}
	return Route{Path: u.Path, Query: u.Query()}, nil
}

// Router is an in-process Navigator that records history and notifies a
// listener on every successful Push.
type Router struct {
	mu       sync.Mutex
	history  []Route
	onChange func(Route)
}

// NewRouter returns a router positioned at start.
func NewRouter(start string) (*Router, error) {
	r, err := Parse(start)
	if err != nil {
		return nil, err
	}
	return &Router{history: []Route{r}}, nil
}

// OnChange sets the listener invoked after each Push. It runs on the
// pushing goroutine.
func (r *Router) OnChange(fn func(Route)) {
	r.mu.Lock()
	r.onChange = fn
	r.mu.Unlock()
}

// Push navigates to path.
func (r *Router) Push(path string) error {
	route, err := Parse(path)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.history = append(r.history, route)
	fn := r.onChange
	r.mu.Unlock()
	if fn != nil {
		fn(route)
	}
	return nil
}

// Back returns to the previous route. It reports false at the first entry.
func (r *Router) Back() (Route, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.history) < 2 {
		return r.history[0], false
	}
	r.history = r.history[:len(r.history)-1]
	return r.history[len(r.history)-1], true
}

// Current returns the route at the top of the history.
func (r *Router) Current() Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.history[len(r.history)-1]
}

// History returns a copy of all visited routes, oldest first.
func (r *Router) History() []Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Route, len(r.history))
	copy(out, r.history)
	return out
}
