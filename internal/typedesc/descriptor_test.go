package typedesc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/toyz/mvcgen/internal/models"
	"github.com/toyz/mvcgen/internal/templates"
	"github.com/toyz/mvcgen/internal/typedesc"
)

const self = "example.com/app/controllers"

var (
	foo = models.Named("example.com/app/models", "Foo")
	box = models.Named("example.com/app/models", "CustomBox", foo)
)

func enum() models.TypeRef {
	ref := models.Named("example.com/app/models", "Color")
	ref.Underlying = models.KindBasic
	ref.Enum = true
	return ref
}

func TestToRuntimeDescriptor(t *testing.T) {
	tests := []struct {
		name     string
		ref      models.TypeRef
		expected string
	}{
		{"basic", models.Basic("int"), "mvc.TypeOf[int]()"},
		{"pointer", models.Pointer(foo), "mvc.TypeOf[*models.Foo]()"},
		{"slice", models.Slice(models.Basic("string")), "mvc.ListOf(mvc.TypeOf[string]())"},
		{"set", models.Set(models.Basic("int")), "mvc.SetOf(mvc.TypeOf[int]())"},
		{"map", models.Map(models.Basic("string"), foo), "mvc.MapOf(mvc.TypeOf[string](), mvc.TypeOf[models.Foo]())"},
		{"optional", models.Runtime("Optional", models.Basic("int")), "mvc.OptionalOf(mvc.TypeOf[int]())"},
		{"generic", box, "mvc.Reified(mvc.TypeOf[models.CustomBox[models.Foo]](), mvc.TypeOf[models.Foo]())"},
		{"nested", models.Slice(models.Runtime("Optional", foo)), "mvc.ListOf(mvc.OptionalOf(mvc.TypeOf[models.Foo]()))"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, templates.RenderExpr(typedesc.Of(tt.ref).ToRuntimeDescriptor(), self))
		})
	}
}

func TestIs(t *testing.T) {
	assert.True(t, typedesc.Of(models.Basic("string")).Is("string"))
	assert.True(t, typedesc.Of(foo).Is("example.com/app/models.Foo"))
	assert.True(t, typedesc.Of(models.Pointer(models.Runtime("Route"))).Is("*mvc.Route"))
	assert.True(t, typedesc.Of(models.Runtime("StatusCode")).Is("mvc.StatusCode"))
	assert.True(t, typedesc.Of(enum()).Is("Enum"))
	assert.False(t, typedesc.Of(foo).Is("Enum"))

	list := typedesc.Of(models.Slice(models.Basic("string")))
	assert.True(t, list.Is("List"))
	assert.True(t, list.Is("List", "string"))
	assert.False(t, list.Is("List", "int"))
	assert.False(t, list.Is("List", "string", "string"))

	m := typedesc.Of(models.Map(models.Basic("string"), foo))
	assert.True(t, m.Is("Map", "string", "example.com/app/models.Foo"))
	assert.True(t, typedesc.Of(models.Runtime("Optional", foo)).Is("Optional"))
}

func TestRawTypeErasesArguments(t *testing.T) {
	assert.Equal(t, "example.com/app/models.CustomBox", typedesc.Of(box).RawType())
	assert.Equal(t, "slice", typedesc.Of(models.Slice(foo)).RawType())
	assert.Equal(t, "*example.com/app/models.Foo", typedesc.Of(models.Pointer(foo)).RawType())
}

func TestIsParameterizedType(t *testing.T) {
	assert.True(t, typedesc.Of(box).IsParameterizedType())
	assert.True(t, typedesc.Of(models.Slice(foo)).IsParameterizedType())
	assert.False(t, typedesc.Of(foo).IsParameterizedType())
	assert.False(t, typedesc.Of(models.Pointer(box)).IsParameterizedType())

	args := typedesc.Of(models.Map(models.Basic("string"), foo)).Arguments()
	if assert.Len(t, args, 2) {
		assert.Equal(t, "string", args[0].RawType())
		assert.Equal(t, "example.com/app/models.Foo", args[1].RawType())
	}
}

func TestIsPrimitive(t *testing.T) {
	assert.True(t, typedesc.Of(models.Basic("int64")).IsPrimitive())
	assert.True(t, typedesc.Of(enum()).IsPrimitive())
	assert.False(t, typedesc.Of(models.Basic("unsafe.Pointer")).IsPrimitive())
	assert.False(t, typedesc.Of(foo).IsPrimitive())
	assert.False(t, typedesc.Of(models.Pointer(models.Basic("int"))).IsPrimitive())
	assert.False(t, typedesc.Of(models.Slice(models.Basic("int"))).IsPrimitive())
}

func TestSimpleName(t *testing.T) {
	assert.Equal(t, "Foo", typedesc.Of(models.Pointer(foo)).SimpleName())
	assert.Equal(t, "CustomBox", typedesc.Of(box).SimpleName())
	assert.Equal(t, "int", typedesc.Of(models.Basic("int")).SimpleName())
	assert.Equal(t, "slice", typedesc.Of(models.Slice(foo)).SimpleName())
}
