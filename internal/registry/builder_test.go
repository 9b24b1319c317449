package registry

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/mvcgen/internal/diagnostic"
	"github.com/toyz/mvcgen/internal/errors"
	"github.com/toyz/mvcgen/internal/models"
	"github.com/toyz/mvcgen/internal/models/modelstest"
	"github.com/toyz/mvcgen/internal/router"
	"github.com/toyz/mvcgen/internal/session"
)

const (
	appPkg   = "example.com/app/controllers"
	adminPkg = "example.com/app/admin"
)

var stringType = models.Basic("string")

type memoryOutput struct {
	files    map[string]string
	order    []string
	manifest []string
	fail     map[string]bool
}

func newMemoryOutput() *memoryOutput {
	return &memoryOutput{files: make(map[string]string), fail: make(map[string]bool)}
}

func (o *memoryOutput) WriteRouter(r *router.Router) (string, error) {
	if o.fail[r.Identifier()] {
		return "", fmt.Errorf("disk full")
	}
	code, err := r.ToSourceCode()
	if err != nil {
		return "", err
	}
	name := r.Target().Package + "/" + r.FileName()
	o.files[name] = string(code)
	o.order = append(o.order, name)
	return name, nil
}

func (o *memoryOutput) WriteManifest(identifiers []string) error {
	o.manifest = identifiers
	return nil
}

func build(t *testing.T, g *modelstest.Graph, opts session.Options, out *memoryOutput) (*Builder, *session.Session, error) {
	t.Helper()
	s := session.New(g, opts, nil)
	b := NewBuilder(s, nil, out)
	return b, s, b.Run(g)
}

func routesOf(t *testing.T, b *Builder, name string) []*router.Route {
	t.Helper()
	for _, r := range b.Routers() {
		if r.Target().Name == name {
			return r.Routes()
		}
	}
	t.Fatalf("no router for %s", name)
	return nil
}

func TestInheritedRouteFromAbstractBase(t *testing.T) {
	g := modelstest.New()
	base := g.Type(appPkg, "Base", "controller -Abstract")
	ping := g.Method(base, "Ping", nil, []models.TypeRef{stringType}, "GET /ping")
	impl := g.Type(appPkg, "Impl", "controller")
	g.Embed(impl, base)
	g.Round(base, ping, impl)

	out := newMemoryOutput()
	b, _, err := build(t, g, session.Options{}, out)
	require.NoError(t, err)

	require.Len(t, b.Routers(), 1)
	routes := routesOf(t, b, "Impl")
	require.Len(t, routes, 1)
	assert.Equal(t, []string{"/ping"}, routes[0].Verbs()[0].Paths)
	assert.Same(t, ping, routes[0].Method())

	require.Len(t, out.files, 1)
	code := out.files[appPkg+"/autogen_impl_router.go"]
	assert.Contains(t, code, `app.Route("GET", "/ping", r.ping)`)
	assert.Contains(t, code, "return c.Ping(), nil")
}

func TestOverrideUsesSubtypeMethod(t *testing.T) {
	g := modelstest.New()
	base := g.Type(appPkg, "Base", "controller -Abstract")
	baseX := g.Method(base, "X", nil, []models.TypeRef{stringType}, "GET /x", "Origin -Name=base")
	impl := g.Type(appPkg, "Impl", "controller")
	g.Embed(impl, base)
	implX := g.Method(impl, "X", nil, []models.TypeRef{stringType}, "GET /x", "Origin -Name=impl")
	g.Round(base, baseX, impl, implX)

	out := newMemoryOutput()
	b, _, err := build(t, g, session.Options{}, out)
	require.NoError(t, err)

	routes := routesOf(t, b, "Impl")
	require.Len(t, routes, 1)
	assert.Same(t, implX, routes[0].Method())
	require.Len(t, routes[0].Verbs(), 1)

	code := out.files[appPkg+"/autogen_impl_router.go"]
	assert.Contains(t, code, `mvc.AttributesOf("Origin.Name", "impl")`)
	assert.NotContains(t, code, `"base"`)
}

func TestAbstractControllersAreNotEmitted(t *testing.T) {
	g := modelstest.New()
	base := g.Type(appPkg, "Base", "abstract")
	list := g.Method(base, "List", nil, []models.TypeRef{stringType}, "GET /")
	g.Round(base, list)

	out := newMemoryOutput()
	b, _, err := build(t, g, session.Options{Services: true}, out)
	require.NoError(t, err)
	assert.Empty(t, b.Routers())
	assert.Empty(t, out.files)
	assert.Empty(t, out.manifest)
}

func TestNearestPathPrefixWins(t *testing.T) {
	g := modelstest.New()
	root := g.Type(appPkg, "Root", "controller -Abstract", "path /root")
	find := g.Method(root, "Find", nil, []models.TypeRef{stringType}, "GET /find")
	mid := g.Type(appPkg, "Mid", "controller -Abstract", "path /mid /alt")
	impl := g.Type(appPkg, "Impl")
	g.Embed(mid, root)
	g.Embed(impl, mid)
	g.Round(root, find, mid, impl)

	b, _, err := build(t, g, session.Options{}, newMemoryOutput())
	require.NoError(t, err)

	routes := routesOf(t, b, "Impl")
	require.Len(t, routes, 1)
	assert.Equal(t, []string{"/mid/find", "/alt/find"}, routes[0].Verbs()[0].Paths)
}

func TestNearestAncestorDeclarationWins(t *testing.T) {
	g := modelstest.New()
	root := g.Type(appPkg, "Root", "controller -Abstract")
	rootFind := g.Method(root, "Find", nil, []models.TypeRef{stringType}, "GET /root")
	mid := g.Type(appPkg, "Mid", "controller -Abstract")
	midFind := g.Method(mid, "Find", nil, []models.TypeRef{stringType}, "GET /mid")
	impl := g.Type(appPkg, "Impl", "controller")
	g.Embed(mid, root)
	g.Embed(impl, mid)
	g.Round(root, rootFind, mid, midFind, impl)

	b, _, err := build(t, g, session.Options{}, newMemoryOutput())
	require.NoError(t, err)

	routes := routesOf(t, b, "Impl")
	require.Len(t, routes, 1)
	assert.Same(t, midFind, routes[0].Method())
	assert.Equal(t, []string{"/mid"}, routes[0].Verbs()[0].Paths)
}

func TestMethodPathMarker(t *testing.T) {
	g := modelstest.New()
	users := g.Type(appPkg, "Users", "path /users")
	find := g.Method(users, "Find", nil, []models.TypeRef{stringType}, "GET", "path /{id}")
	g.Round(users, find)

	b, _, err := build(t, g, session.Options{}, newMemoryOutput())
	require.NoError(t, err)
	assert.Equal(t, []string{"/users/{id}"}, routesOf(t, b, "Users")[0].Verbs()[0].Paths)
}

func TestMultipleVerbsOnInheritedMethod(t *testing.T) {
	g := modelstest.New()
	base := g.Type(appPkg, "Base", "controller -Abstract")
	save := g.Method(base, "Save", nil, []models.TypeRef{stringType}, "POST /save", "PUT /save")
	impl := g.Type(appPkg, "Impl", "controller")
	g.Embed(impl, base)
	g.Round(base, save, impl)

	b, _, err := build(t, g, session.Options{}, newMemoryOutput())
	require.NoError(t, err)

	routes := routesOf(t, b, "Impl")
	require.Len(t, routes, 1)
	require.Len(t, routes[0].Verbs(), 2)
	assert.Equal(t, "POST", routes[0].Verbs()[0].Verb())
	assert.Equal(t, "PUT", routes[0].Verbs()[1].Verb())
}

func TestReprocessingIsIdempotent(t *testing.T) {
	g := modelstest.New()
	users := g.Type(appPkg, "Users")
	list := g.Method(users, "List", nil, []models.TypeRef{stringType}, "GET /users")
	g.Round(users, list)
	g.Round(users, list)

	b, _, err := build(t, g, session.Options{}, newMemoryOutput())
	require.NoError(t, err)

	routes := routesOf(t, b, "Users")
	require.Len(t, routes, 1)
	require.Len(t, routes[0].Verbs(), 1)
	assert.Equal(t, []string{"/users"}, routes[0].Verbs()[0].Paths)
}

// twoPackageGraph builds the same program for both round strategies
func twoPackageGraph(incremental bool) *modelstest.Graph {
	g := modelstest.New()
	base := g.Type(appPkg, "Base", "controller -Abstract", "path /api", "Secured")
	ping := g.Method(base, "Ping", nil, []models.TypeRef{stringType}, "GET /ping")
	users := g.Type(appPkg, "Users", "RateLimit 10")
	g.Embed(users, base)
	find := g.Method(users, "Find", []modelstest.Param{modelstest.P("id", models.Basic("int"))}, []models.TypeRef{stringType}, "GET /users/{id}", "pathparam id")
	findByName := g.Method(users, "Find", []modelstest.Param{modelstest.P("name", stringType), modelstest.P("id", models.Basic("int"))}, []models.TypeRef{stringType}, "GET /users", "query name", "query id")

	admin := g.Type(adminPkg, "Admin", "path /admin")
	g.Embed(admin, base)
	purge := g.Method(admin, "Purge", nil, []models.TypeRef{models.Named("", "error")}, "DELETE /cache")

	if incremental {
		g.Round(base, ping, users, find, findByName)
		g.Round(admin, purge)
	} else {
		g.Round(base, ping, users, find, findByName, admin, purge)
	}
	return g
}

func TestIncrementalAndSingleRoundAgree(t *testing.T) {
	single := newMemoryOutput()
	_, _, err := build(t, twoPackageGraph(false), session.Options{Services: true}, single)
	require.NoError(t, err)

	incremental := newMemoryOutput()
	_, _, err = build(t, twoPackageGraph(true), session.Options{Services: true, Incremental: true}, incremental)
	require.NoError(t, err)

	assert.Equal(t, single.files, incremental.files)
	assert.Equal(t, single.order, incremental.order)
	assert.Equal(t, []string{appPkg + ".UsersRouter", adminPkg + ".AdminRouter"}, single.manifest)
	assert.Equal(t, single.manifest, incremental.manifest)

	users := single.files[appPkg+"/autogen_users_router.go"]
	assert.Contains(t, users, `app.Route("GET", "/api/users/{id}", r.findInt)`)
	assert.Contains(t, users, `app.Route("GET", "/api/users", r.findStringInt)`)
	assert.Contains(t, users, `app.Route("GET", "/api/ping", r.ping)`)

	admin := single.files[adminPkg+"/autogen_admin_router.go"]
	assert.Contains(t, admin, `app.Route("DELETE", "/admin/cache", r.purge)`)
	assert.Contains(t, admin, `app.Route("GET", "/admin/ping", r.ping)`)
	assert.Contains(t, admin, "ctx.SetResponseCode(mvc.StatusNoContent)")
}

func TestCodeGenErrorDegradesPerRouter(t *testing.T) {
	out := newMemoryOutput()
	out.fail[appPkg+".UsersRouter"] = true

	b, s, err := build(t, twoPackageGraph(false), session.Options{Services: true}, out)
	require.Error(t, err)
	assert.Equal(t, errors.CodeGenErrorCode, errors.CodeOf(err))

	assert.Len(t, out.files, 1)
	assert.Contains(t, out.files, adminPkg+"/autogen_admin_router.go")
	assert.Equal(t, []string{adminPkg + ".AdminRouter"}, out.manifest)
	assert.Equal(t, 1, b.Stats().Routers)
	assert.Equal(t, 1, s.Collector().ErrorCount())
}

func TestSkippedRouteDoesNotStopTheRouter(t *testing.T) {
	g := modelstest.New()
	users := g.Type(appPkg, "Users")
	bad := g.Method(users, "Pair", nil, []models.TypeRef{stringType, stringType}, "GET /pair")
	good := g.Method(users, "List", nil, []models.TypeRef{stringType}, "GET /list")
	g.Round(users, bad, good)

	out := newMemoryOutput()
	b, _, err := build(t, g, session.Options{}, out)
	require.Error(t, err)
	assert.Equal(t, errors.SignatureErrorCode, errors.CodeOf(err))

	code := out.files[appPkg+"/autogen_users_router.go"]
	assert.Contains(t, code, "r.list")
	assert.NotContains(t, code, "r.pair")
	assert.Equal(t, 1, b.Stats().Routes)
}

func TestSupertypeFailureIsDiscoveryError(t *testing.T) {
	g := modelstest.New()
	users := g.Type(appPkg, "Users")
	list := g.Method(users, "List", nil, []models.TypeRef{stringType}, "GET /list")
	g.FailSupertype(users, fmt.Errorf("two embedded controllers"))
	g.Round(users, list)

	_, _, err := build(t, g, session.Options{}, newMemoryOutput())
	require.Error(t, err)
	assert.Equal(t, errors.DiscoveryErrorCode, errors.CodeOf(err))
}

func TestUnknownMarkerWarns(t *testing.T) {
	g := modelstest.New()
	users := g.Type(appPkg, "Users", "cached")
	list := g.Method(users, "List", nil, []models.TypeRef{stringType}, "GET /list")
	g.Round(users, list)

	_, s, err := build(t, g, session.Options{}, newMemoryOutput())
	require.NoError(t, err)

	diags := s.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, diagnostic.SeverityWarning, diags[0].Severity)
	assert.Contains(t, diags[0].Message, `"cached"`)
}

func TestStrictModeFailsOnWarnings(t *testing.T) {
	g := modelstest.New()
	users := g.Type(appPkg, "Users", "cached")
	list := g.Method(users, "List", nil, []models.TypeRef{stringType}, "GET /list")
	g.Round(users, list)

	_, _, err := build(t, g, session.Options{Strict: true}, newMemoryOutput())
	assert.Error(t, err)
}

func TestFinalRoundOnlyRunsOnce(t *testing.T) {
	g := modelstest.New()
	users := g.Type(appPkg, "Users")
	list := g.Method(users, "List", nil, []models.TypeRef{stringType}, "GET /list")
	g.Round(users, list)

	out := newMemoryOutput()
	b, _, err := build(t, g, session.Options{}, out)
	require.NoError(t, err)
	require.NoError(t, b.Process(models.Round{ProcessingOver: true}))
	assert.Len(t, out.order, 1)
}
