package annotations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/mvcgen/internal/errors"
)

func TestParserParse(t *testing.T) {
	parser := NewParser()
	loc := errors.SourceLocation{File: "users.go", Line: 12}

	tests := []struct {
		name       string
		input      string
		identifier string
		category   Category
		attrs      map[string]string
	}{
		{
			name:       "verb with path",
			input:      "//mvc::GET /users/{id}",
			identifier: "GET",
			category:   HTTPVerb,
			attrs:      map[string]string{"value": "/users/{id}"},
		},
		{
			name:       "verb with several paths and produces",
			input:      "//mvc::POST /a /b -Produces=application/json",
			identifier: "POST",
			category:   HTTPVerb,
			attrs:      map[string]string{"value": "/a,/b", "Produces": "application/json"},
		},
		{
			name:       "root path",
			input:      "// mvc::path /",
			identifier: "path",
			category:   Path,
			attrs:      map[string]string{"value": "/"},
		},
		{
			name:       "comma separated media types",
			input:      "//mvc::produces application/json,text/html",
			identifier: "produces",
			category:   Produces,
			attrs:      map[string]string{"value": "application/json,text/html"},
		},
		{
			name:       "flag",
			input:      "//mvc::controller -Abstract",
			identifier: "controller",
			category:   Controller,
			attrs:      map[string]string{"Abstract": "true"},
		},
		{
			name:       "query with name",
			input:      `//mvc::query q -Name="search term"`,
			identifier: "query",
			category:   QueryParam,
			attrs:      map[string]string{"value": "q", "Name": "search term"},
		},
		{
			name:       "custom attribute with list and map",
			input:      "//mvc::RateLimit -Max=10 -Roles=[admin, ops] -Window={unit=s, size=30}",
			identifier: "RateLimit",
			category:   Custom,
			attrs:      map[string]string{"Max": "10", "Roles": "admin,ops", "Window": "{unit=s,size=30}"},
		},
		{
			name:       "qualified nullability",
			input:      "//mvc::jakarta.Nullable q",
			identifier: "jakarta.Nullable",
			category:   Nullability,
			attrs:      map[string]string{"value": "q"},
		},
		{
			name:       "lowercase unknown",
			input:      "//mvc::secured",
			identifier: "secured",
			category:   UnknownCategory,
			attrs:      map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			marker, err := parser.Parse(tt.input, loc)
			require.NoError(t, err)
			assert.Equal(t, tt.identifier, marker.Identifier)
			assert.Equal(t, tt.category, marker.Category)
			assert.Equal(t, loc, marker.Location)
			assert.Len(t, marker.Attributes, len(tt.attrs))
			for name, want := range tt.attrs {
				v, ok := marker.Get(name)
				require.True(t, ok, "missing attribute %s", name)
				assert.Equal(t, want, v.String(), name)
			}
		})
	}
}

func TestParserParseTypedValues(t *testing.T) {
	marker, err := NewParser().Parse("//mvc::Limits -Max=10 -Ratio=0.5 -Strict=false -Offset=-3", errors.SourceLocation{})
	require.NoError(t, err)

	v, _ := marker.Get("Max")
	assert.Equal(t, IntValue, v.Kind)
	assert.Equal(t, int64(10), v.Int)

	v, _ = marker.Get("Ratio")
	assert.Equal(t, FloatValue, v.Kind)

	v, _ = marker.Get("Strict")
	assert.Equal(t, BoolValue, v.Kind)
	assert.False(t, v.Bool)

	v, _ = marker.Get("Offset")
	assert.Equal(t, int64(-3), v.Int)
}

func TestParserErrors(t *testing.T) {
	parser := NewParser()
	for _, input := range []string{
		"// plain comment",
		"//mvc::",
		"//mvc::GET -Produces=[a,",
	} {
		_, err := parser.Parse(input, errors.SourceLocation{File: "x.go", Line: 3})
		require.Error(t, err, input)
		assert.Equal(t, errors.SyntaxErrorCode, errors.CodeOf(err), input)
	}
}

func TestParseCommentsSkipsPlainLines(t *testing.T) {
	lines := []string{
		"// Find returns a user.",
		"//mvc::GET /users/{id}",
		"//mvc::pathparam id",
		"//mvc::GET -Bad=[",
	}
	markers, errs := NewParser().ParseComments(lines, func(i int) errors.SourceLocation {
		return errors.SourceLocation{File: "users.go", Line: i + 1}
	})

	require.Len(t, markers, 2)
	assert.Equal(t, 2, markers[0].Location.Line)
	assert.Equal(t, "pathparam", markers[1].Identifier)
	require.Len(t, errs, 1)
}

func TestAttributeValues(t *testing.T) {
	parser := NewParser()
	marker, err := parser.Parse("//mvc::GET /a /b -Produces=application/json -Max=3", errors.SourceLocation{})
	require.NoError(t, err)

	assert.Equal(t, []string{"/a", "/b"}, AttributeValues(marker, "value"))
	assert.Equal(t, []string{"application/json"}, AttributeValues(marker, "Produces"))

	missing := AttributeValues(marker, "Consumes")
	assert.NotNil(t, missing)
	assert.Empty(t, missing)

	assert.Equal(t, []int64{3}, AttributeOf(marker, "Max", AsInt))
	assert.Empty(t, AttributeOf(marker, "Produces", AsInt))
	assert.Equal(t, "/a", FirstAttribute(marker, "value"))
}

func TestShiftValue(t *testing.T) {
	parser := NewParser()

	marker, err := parser.Parse("//mvc::query q -Name=search", errors.SourceLocation{})
	require.NoError(t, err)
	target, ok := marker.ShiftValue()
	require.True(t, ok)
	assert.Equal(t, "q", target)
	assert.False(t, marker.Has("value"))
	assert.Equal(t, "search", FirstAttribute(marker, "Name"))

	marker, err = parser.Parse("//mvc::param id path query", errors.SourceLocation{})
	require.NoError(t, err)
	target, _ = marker.ShiftValue()
	assert.Equal(t, "id", target)
	assert.Equal(t, []string{"path", "query"}, AttributeValues(marker, "value"))

	marker, err = parser.Parse("//mvc::nullable", errors.SourceLocation{})
	require.NoError(t, err)
	_, ok = marker.ShiftValue()
	assert.False(t, ok)
}

func TestLookup(t *testing.T) {
	assert.Equal(t, HTTPVerb, Lookup("DELETE"))
	assert.Equal(t, GenericLookup, Lookup("param"))
	assert.Equal(t, Nullability, Lookup("nonnull"))
	assert.Equal(t, Nullability, Lookup("javax.annotation.NotNull"))
	assert.Equal(t, Custom, Lookup("Role"))
	assert.Equal(t, Custom, Lookup("acme.Role"))
	assert.Equal(t, UnknownCategory, Lookup("role"))

	assert.True(t, IsParameterSource(CookieParam))
	assert.False(t, IsParameterSource(Produces))
	assert.True(t, IsParameterLevel(Nullability))
	assert.Equal(t, []string{"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS", "TRACE"}, Identifiers(HTTPVerb))
}
