package mvc

import (
	"sort"
	"sync"
)

// Route is one (method, pattern) registration. Generated routers configure
// it with the fluent setters right after App.Route returns it.
type Route struct {
	method     string
	pattern    string
	handler    Handler
	consumes   []string
	produces   []string
	dispatch   string
	attributes Attributes
	returnType *Type
	mvcMethod  *Method
}

// NewRoute creates a route serving method and pattern with h
func NewRoute(method, pattern string, h Handler) *Route {
	return &Route{method: method, pattern: pattern, handler: h}
}

func (r *Route) Method() string { return r.method }
func (r *Route) Pattern() string { return r.pattern }
func (r *Route) Handler() Handler { return r.handler }
func (r *Route) Consumes() []string { return r.consumes }
func (r *Route) Produces() []string { return r.produces }
func (r *Route) Attributes() Attributes { return r.attributes }
func (r *Route) ReturnType() *Type { return r.returnType }
func (r *Route) MvcMethod() *Method { return r.mvcMethod }

// Dispatch returns the executor queue the handler runs on, empty for the
// request goroutine
func (r *Route) Dispatch() string { return r.dispatch }

// SetConsumes sets the accepted request media types
func (r *Route) SetConsumes(mediaTypes ...string) *Route {
	r.consumes = mediaTypes
	return r
}

// SetProduces sets the response media types
func (r *Route) SetProduces(mediaTypes ...string) *Route {
	r.produces = mediaTypes
	return r
}

// SetDispatch moves the handler onto the named executor queue
func (r *Route) SetDispatch(queue string) *Route {
	r.dispatch = queue
	return r
}

// SetAttributes attaches the route attributes
func (r *Route) SetAttributes(attrs Attributes) *Route {
	r.attributes = attrs
	return r
}

// SetReturnType records the descriptor of the handler result
func (r *Route) SetReturnType(t *Type) *Route {
	r.returnType = t
	return r
}

// SetMvcMethod records the controller method behind the route
func (r *Route) SetMvcMethod(m *Method) *Route {
	r.mvcMethod = m
	return r
}

// String returns "METHOD pattern"
func (r *Route) String() string {
	return r.method + " " + r.pattern
}

// RouteTable records routes in registration order. Adapters embed it so
// installed routes can be listed.
type RouteTable struct {
	mu     sync.RWMutex
	routes []*Route
}

// Add records a route
func (t *RouteTable) Add(r *Route) *Route {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.routes = append(t.routes, r)
	return r
}

// Routes returns every recorded route
func (t *RouteTable) Routes() []*Route {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]*Route(nil), t.routes...)
}

// RoutesByMethod returns the routes for an HTTP method
func (t *RouteTable) RoutesByMethod(method string) []*Route {
	var filtered []*Route
	for _, r := range t.Routes() {
		if r.method == method {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// Patterns returns the distinct patterns, sorted
func (t *RouteTable) Patterns() []string {
	seen := make(map[string]bool)
	var patterns []string
	for _, r := range t.Routes() {
		if !seen[r.pattern] {
			seen[r.pattern] = true
			patterns = append(patterns, r.pattern)
		}
	}
	sort.Strings(patterns)
	return patterns
}
