package adapters

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/toyz/mvcgen/pkg/mvc"
)

// ChiApp implements mvc.App for a chi router
type ChiApp struct {
	mvc.RouteTable
	router chi.Router
	env    *mvc.Environment
}

// NewChiApp creates an app registering routes on r
func NewChiApp(r chi.Router, opts ...Option) *ChiApp {
	return &ChiApp{router: r, env: newEnvironment(opts)}
}

// NewDefaultChiApp creates an app on a new chi mux
func NewDefaultChiApp(opts ...Option) *ChiApp {
	return NewChiApp(chi.NewRouter(), opts...)
}

// Route registers h on the router. chi understands {name} and {name:re}
// natively; wildcards become a trailing *.
func (a *ChiApp) Route(method, pattern string, h mvc.Handler) *mvc.Route {
	route := a.Add(mvc.NewRoute(method, pattern, h))
	a.router.Method(method, mvc.BracePattern(pattern), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := newHTTPContext(r, route, a.env, chiParams(r))
		_, _ = serveHTTP(w, ctx, a.env, route.Handler())
	}))
	return route
}

// Router returns the underlying chi router
func (a *ChiApp) Router() chi.Router {
	return a.router
}

// ServeHTTP serves requests through the chi router
func (a *ChiApp) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// Environment returns the request environment
func (a *ChiApp) Environment() *mvc.Environment {
	return a.env
}

// Name returns the adapter name
func (a *ChiApp) Name() string {
	return "Chi"
}

func chiParams(r *http.Request) func(string) (string, bool) {
	return func(name string) (string, bool) {
		rctx := chi.RouteContext(r.Context())
		if rctx == nil {
			return "", false
		}
		keys := rctx.URLParams.Keys
		for i := len(keys) - 1; i >= 0; i-- {
			if keys[i] == name {
				return rctx.URLParams.Values[i], true
			}
		}
		return "", false
	}
}
