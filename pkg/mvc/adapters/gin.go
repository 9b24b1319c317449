package adapters

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/toyz/mvcgen/pkg/mvc"
)

// ginWildcard names the catch-all parameter gin requires
const ginWildcard = "wildcard"

// GinApp implements mvc.App for Gin
type GinApp struct {
	mvc.RouteTable
	engine *gin.Engine
	env    *mvc.Environment
}

// NewGinApp creates an app registering routes on engine
func NewGinApp(engine *gin.Engine, opts ...Option) *GinApp {
	return &GinApp{engine: engine, env: newEnvironment(opts)}
}

// NewDefaultGinApp creates an app on a new engine with recovery
func NewDefaultGinApp(opts ...Option) *GinApp {
	engine := gin.New()
	engine.Use(gin.Recovery())
	return NewGinApp(engine, opts...)
}

// Route registers h on the engine. {name} variables become :name and
// wildcards *wildcard.
func (a *GinApp) Route(method, pattern string, h mvc.Handler) *mvc.Route {
	route := a.Add(mvc.NewRoute(method, pattern, h))
	a.engine.Handle(method, mvc.ColonPattern(pattern, "*"+ginWildcard), func(c *gin.Context) {
		ctx := newHTTPContext(c.Request, route, a.env, ginParams(c))
		out, err := serveHTTP(c.Writer, ctx, a.env, route.Handler())
		if out.Err != nil {
			_ = c.Error(out.Err)
		}
		if err != nil {
			_ = c.Error(err)
		}
	})
	return route
}

// Engine returns the underlying Gin engine
func (a *GinApp) Engine() *gin.Engine {
	return a.engine
}

// Environment returns the request environment
func (a *GinApp) Environment() *mvc.Environment {
	return a.env
}

// Name returns the adapter name
func (a *GinApp) Name() string {
	return "Gin"
}

func ginParams(c *gin.Context) func(string) (string, bool) {
	return func(name string) (string, bool) {
		if name == mvc.WildcardParam {
			v, ok := c.Params.Get(ginWildcard)
			return strings.TrimPrefix(v, "/"), ok
		}
		return c.Params.Get(name)
	}
}
