package binder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/mvcgen/internal/annotations"
	"github.com/toyz/mvcgen/internal/errors"
	"github.com/toyz/mvcgen/internal/models"
	"github.com/toyz/mvcgen/internal/templates"
)

const pkg = "example.com/app/controllers"

var user = models.Named("example.com/app/models", "User")

func param(name string, t models.TypeRef) *models.Parameter {
	m := &models.ActionMethod{Name: "Handle", Owner: &models.ControllerType{Package: pkg, PackageName: "controllers", Name: "Users"}}
	p := &models.Parameter{Name: name, Type: t, Method: m}
	m.Params = []*models.Parameter{p}
	return p
}

func markers(t *testing.T, raw ...string) []annotations.Marker {
	t.Helper()
	parser := annotations.NewParser()
	var out []annotations.Marker
	for _, r := range raw {
		m, err := parser.Parse("//mvc::"+r, errors.SourceLocation{})
		require.NoError(t, err)
		if annotations.IsParameterLevel(m.Category) {
			m.Target, _ = m.ShiftValue()
		}
		out = append(out, m)
	}
	return out
}

func render(b *Binding) string {
	return templates.RenderExpr(b.Expr, pkg)
}

func TestBindInjectedTypes(t *testing.T) {
	tests := []struct {
		name     string
		typ      models.TypeRef
		expr     string
		fallible bool
	}{
		{"context", models.Runtime("Context"), "ctx", false},
		{"std context", models.TypeRef{Kind: models.KindNamed, Package: "context", PackageName: "context", Name: "Context", Underlying: models.KindInterface}, "ctx.Context()", false},
		{"query string", models.Runtime("QueryString"), "ctx.QueryString()", false},
		{"route", models.Pointer(models.Runtime("Route")), "ctx.Route()", false},
		{"formdata", models.Runtime("Formdata"), "mvc.FormdataOf(ctx)", true},
		{"flash", models.Runtime("FlashMap"), "mvc.FlashOf(ctx)", true},
		{"body", models.Runtime("Body"), "mvc.BodyOf(ctx)", true},
		{"file upload", models.Runtime("FileUpload"), `mvc.FileOf(ctx, "upload")`, true},
		{"session", models.Runtime("Session"), "mvc.SessionOrNil(ctx)", false},
	}

	b := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			binding, err := b.Bind(param("upload", tt.typ), nil)
			require.NoError(t, err)
			assert.Equal(t, ContextInjected, binding.Source)
			assert.Equal(t, tt.expr, render(binding))
			assert.Equal(t, tt.fallible, binding.Fallible)
		})
	}
}

func TestBindStrictSession(t *testing.T) {
	binding, err := New().Bind(param("s", models.Runtime("Session")), markers(t, "nonnull s"))
	require.NoError(t, err)
	assert.False(t, binding.Nullable)
	assert.Equal(t, "mvc.SessionOf(ctx)", render(binding))
	assert.True(t, binding.Fallible)
}

func TestBindFilePathNeedsName(t *testing.T) {
	_, err := New().Bind(param("_", models.Runtime("FilePath")), nil)
	require.Error(t, err)
	assert.Equal(t, errors.SignatureErrorCode, errors.CodeOf(err))
}

func TestBindMarkerSources(t *testing.T) {
	tests := []struct {
		name   string
		typ    models.TypeRef
		marker []string
		expr   string
	}{
		{"path", models.Basic("int"), []string{"pathparam id"}, `mvc.PathParam[int](ctx, "id", mvc.Required)`},
		{"query renamed", models.Basic("string"), []string{"query id -Name=q"}, `mvc.QueryParam[string](ctx, "q", mvc.Required)`},
		{"header", models.Pointer(models.Basic("string")), []string{"header id -Name=X-Request-Id"}, `mvc.HeaderParam[*string](ctx, "X-Request-Id", mvc.Nullable)`},
		{"cookie", models.Basic("string"), []string{"cookie id"}, `mvc.CookieParam[string](ctx, "id", mvc.Required)`},
		{"form", models.Slice(models.Basic("string")), []string{"form id"}, `mvc.FormParam[[]string](ctx, "id", mvc.Nullable)`},
		{"session", user, []string{"session id"}, `mvc.SessionParam[models.User](ctx, "id", mvc.Nullable)`},
		{"flash", models.Basic("string"), []string{"flash id"}, `mvc.FlashParam[string](ctx, "id", mvc.Required)`},
		{"lookup all", models.Basic("int"), []string{"param id"}, `mvc.Lookup[int](ctx, "id", mvc.Required)`},
		{"lookup sources", models.Basic("int"), []string{"param id path query"}, `mvc.Lookup[int](ctx, "id", mvc.Required, mvc.FromPath, mvc.FromQuery)`},
		{"lookup sources attr", models.Basic("int"), []string{"param id -Sources=[header,cookie]"}, `mvc.Lookup[int](ctx, "id", mvc.Required, mvc.FromHeader, mvc.FromCookie)`},
	}

	b := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			binding, err := b.Bind(param("id", tt.typ), markers(t, tt.marker...))
			require.NoError(t, err)
			assert.Equal(t, MarkerBound, binding.Source)
			assert.True(t, binding.Fallible)
			assert.Equal(t, tt.expr, render(binding))
		})
	}
}

func TestNullability(t *testing.T) {
	b := New()

	primitive, err := b.Bind(param("q", models.Basic("int")), markers(t, "query q"))
	require.NoError(t, err)
	assert.False(t, primitive.Nullable)

	reference, err := b.Bind(param("q", models.Pointer(models.Basic("int"))), markers(t, "query q"))
	require.NoError(t, err)
	assert.True(t, reference.Nullable)

	forced, err := b.Bind(param("q", models.Basic("int")), markers(t, "query q", "nullable q"))
	require.NoError(t, err)
	assert.True(t, forced.Nullable)
	assert.Contains(t, render(forced), "mvc.Nullable")

	qualified, err := b.Bind(param("q", user), markers(t, "jakarta.NonNull q"))
	require.NoError(t, err)
	assert.False(t, qualified.Nullable)

	notnull, err := b.Bind(param("q", user), markers(t, "notnull q"))
	require.NoError(t, err)
	assert.False(t, notnull.Nullable)

	for _, order := range [][]string{{"nonnull q", "nullable q"}, {"nullable q", "nonnull q"}} {
		mixed, err := b.Bind(param("q", user), markers(t, order...))
		require.NoError(t, err)
		assert.True(t, mixed.Nullable, "markers %v", order)
	}
}

func TestBodyFallback(t *testing.T) {
	binding, err := New().Bind(param("input", user), nil)
	require.NoError(t, err)
	assert.Equal(t, BodyFallback, binding.Source)
	assert.True(t, binding.Nullable)
	assert.Equal(t, "mvc.BodyAs[models.User](ctx, mvc.Nullable)", render(binding))
}

func TestBindErrors(t *testing.T) {
	b := New()

	_, err := b.Bind(param("q", models.Basic("string")), markers(t, "query q", "header q"))
	require.Error(t, err)
	assert.Equal(t, errors.UnsupportedTypeCode, errors.CodeOf(err))

	_, err = b.Bind(param("cb", models.Literal(models.KindFunc, "func()")), nil)
	require.Error(t, err)
	assert.Equal(t, errors.UnsupportedTypeCode, errors.CodeOf(err))

	_, err = b.Bind(param("ch", models.Literal(models.KindChan, "chan int")), nil)
	assert.Equal(t, errors.UnsupportedTypeCode, errors.CodeOf(err))

	_, err = b.Bind(param("_", models.Basic("string")), markers(t, "query _"))
	require.Error(t, err)
	assert.Equal(t, errors.SignatureErrorCode, errors.CodeOf(err))

	_, err = b.Bind(param("id", models.Basic("int")), markers(t, "param id body"))
	require.Error(t, err)
	assert.Equal(t, errors.SignatureErrorCode, errors.CodeOf(err))
}

func TestSameCategoryTwiceIsAllowed(t *testing.T) {
	binding, err := New().Bind(param("q", models.Basic("string")), markers(t, "query q -Name=a", "query q -Name=b"))
	require.NoError(t, err)
	assert.Equal(t, "a", binding.Name)
}

func TestRegisterOverridesBuilder(t *testing.T) {
	b := New()
	b.Register(annotations.QueryParam, valueBuilder("CustomQuery"))
	binding, err := b.Bind(param("q", models.Basic("string")), markers(t, "query q"))
	require.NoError(t, err)
	assert.Equal(t, `mvc.CustomQuery[string](ctx, "q", mvc.Required)`, render(binding))
	assert.True(t, IsInjected(models.RuntimePackage+".Context"))
	assert.False(t, IsInjected("int"))
}
