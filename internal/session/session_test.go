package session

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/toyz/mvcgen/internal/diagnostic"
	"github.com/toyz/mvcgen/internal/errors"
	"github.com/toyz/mvcgen/internal/models/modelstest"
)

func TestComposePath(t *testing.T) {
	tests := []struct {
		name        string
		prefixes    []string
		methodPaths []string
		expected    []string
	}{
		{"root prefix", []string{"/"}, []string{"/x"}, []string{"/x"}},
		{"root method path", []string{"/a"}, []string{"/"}, []string{"/a"}},
		{"join", []string{"/a"}, []string{"/b"}, []string{"/a/b"}},
		{"no prefixes", nil, []string{"/x", "/y"}, []string{"/x", "/y"}},
		{"no method paths", []string{"/a", "/b"}, nil, []string{"/a", "/b"}},
		{"nothing", nil, nil, []string{"/"}},
		{"missing slashes", []string{"api/"}, []string{"users"}, []string{"/api/users"}},
		{"cross product", []string{"/a", "/b"}, []string{"/x", "/y"}, []string{"/a/x", "/a/y", "/b/x", "/b/y"}},
		{"duplicates collapse", []string{"/a", "/a/"}, []string{"/x"}, []string{"/a/x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ComposePath(tt.prefixes, tt.methodPaths))
		})
	}
}

func TestSuperTypesNearestFirst(t *testing.T) {
	g := modelstest.New()
	root := g.Type("example.com/app", "Root", "controller -Abstract")
	base := g.Type("example.com/app", "Base", "controller -Abstract")
	impl := g.Type("example.com/app", "Impl", "controller")
	g.Embed(impl, base)
	g.Embed(base, root)

	s := New(g, Options{}, nil)
	chain := s.SuperTypes(impl)
	require.Len(t, chain, 3)
	assert.Equal(t, "Impl", chain[0].Name)
	assert.Equal(t, "Base", chain[1].Name)
	assert.Equal(t, "Root", chain[2].Name)

	assert.Len(t, s.SuperTypes(root), 1)
}

func TestSuperTypesStopsOnCycle(t *testing.T) {
	g := modelstest.New()
	a := g.Type("example.com/app", "A")
	b := g.Type("example.com/app", "B")
	g.Embed(a, b)
	g.Embed(b, a)

	chain := New(g, Options{}, nil).SuperTypes(a)
	assert.Len(t, chain, 2)
}

func TestSuperTypesReportsDiscoveryErrorOnce(t *testing.T) {
	g := modelstest.New()
	impl := g.Type("example.com/app", "Impl", "controller")
	g.FailSupertype(impl, fmt.Errorf("embeds both Base and Other"))

	s := New(g, Options{}, nil)
	assert.Len(t, s.SuperTypes(impl), 1)
	assert.Len(t, s.SuperTypes(impl), 1)

	diags := s.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, errors.DiscoveryErrorCode, diags[0].Code)
	assert.Equal(t, impl.Location(), diags[0].Location)
	assert.True(t, s.HasErrors())
	assert.Error(t, s.Err())
}

func TestDiagnosticsAnchorOnTrailingElement(t *testing.T) {
	g := modelstest.New()
	users := g.Type("example.com/app", "Users")

	s := New(g, Options{}, zap.NewNop())
	s.Warning("unknown marker %q", "secured", users)
	s.Error("plain failure")

	diags := s.Diagnostics()
	require.Len(t, diags, 2)
	assert.Equal(t, `unknown marker "secured"`, diags[0].Message)
	assert.Equal(t, users.Location(), diags[0].Location)
	assert.Equal(t, "app.Users", diags[0].Element)
	assert.Equal(t, diagnostic.SeverityWarning, diags[0].Severity)
	assert.True(t, diags[1].Location.IsEmpty())
}

func TestStrictTurnsWarningsIntoErrors(t *testing.T) {
	s := New(modelstest.New(), Options{Strict: true}, nil)
	s.Warning("careful")
	assert.True(t, s.HasErrors())
}

func TestRounds(t *testing.T) {
	s := New(modelstest.New(), Options{Debug: true}, nil)
	assert.Equal(t, 0, s.Round())
	assert.Equal(t, 1, s.NextRound())
	assert.Equal(t, 2, s.NextRound())
	assert.Equal(t, 2, s.Round())
}
