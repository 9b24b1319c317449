package adapters

import (
	"github.com/labstack/echo/v4"

	"github.com/toyz/mvcgen/pkg/mvc"
)

// EchoApp implements mvc.App for Echo v4
type EchoApp struct {
	mvc.RouteTable
	engine *echo.Echo
	env    *mvc.Environment
}

// NewEchoApp creates an app registering routes on e
func NewEchoApp(e *echo.Echo, opts ...Option) *EchoApp {
	return &EchoApp{engine: e, env: newEnvironment(opts)}
}

// NewDefaultEchoApp creates an app on a new Echo instance
func NewDefaultEchoApp(opts ...Option) *EchoApp {
	e := echo.New()
	e.HideBanner = true
	return NewEchoApp(e, opts...)
}

// Route registers h on the Echo instance. {name} variables become :name.
func (a *EchoApp) Route(method, pattern string, h mvc.Handler) *mvc.Route {
	route := a.Add(mvc.NewRoute(method, pattern, h))
	a.engine.Add(method, mvc.ColonPattern(pattern, "*"), func(c echo.Context) error {
		ctx := newHTTPContext(c.Request(), route, a.env, echoParams(c))
		_, err := serveHTTP(c.Response(), ctx, a.env, route.Handler())
		return err
	})
	return route
}

// Engine returns the underlying Echo instance
func (a *EchoApp) Engine() *echo.Echo {
	return a.engine
}

// Environment returns the request environment
func (a *EchoApp) Environment() *mvc.Environment {
	return a.env
}

// Name returns the adapter name
func (a *EchoApp) Name() string {
	return "Echo"
}

func echoParams(c echo.Context) func(string) (string, bool) {
	return func(name string) (string, bool) {
		for _, n := range c.ParamNames() {
			if n == name {
				return c.Param(name), true
			}
		}
		return "", false
	}
}
