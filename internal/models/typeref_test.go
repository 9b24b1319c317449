package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeRefRaw(t *testing.T) {
	user := Named("example.com/app/models", "User")
	box := Named("example.com/app/models", "Box", user)

	tests := []struct {
		name string
		ref  TypeRef
		raw  string
		src  string
	}{
		{"basic", Basic("int"), "int", "int"},
		{"named", user, "example.com/app/models.User", "models.User"},
		{"generic", box, "example.com/app/models.Box", "models.Box[models.User]"},
		{"pointer", Pointer(user), "*example.com/app/models.User", "*models.User"},
		{"slice", Slice(Basic("string")), "slice", "[]string"},
		{"array", Array(4, Basic("byte")), "array", "[4]byte"},
		{"map", Map(Basic("string"), user), "map", "map[string]models.User"},
		{"set", Set(Basic("string")), "set", "map[string]struct{}"},
		{"literal", Literal(KindFunc, "func()"), "func()", "func()"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.raw, tt.ref.Raw())
			assert.Equal(t, tt.src, tt.ref.String())
		})
	}
}

func TestTypeRefFormatQualifier(t *testing.T) {
	ref := Map(Basic("string"), Pointer(Named("example.com/app/models", "User")))

	local := ref.Format(func(pkgPath, _ string) string {
		if pkgPath == "example.com/app/models" {
			return ""
		}
		return "x"
	})
	assert.Equal(t, "map[string]*User", local)

	aliased := ref.Format(func(_, _ string) string { return "m2" })
	assert.Equal(t, "map[string]*m2.User", aliased)
}

func TestTypeRefPackages(t *testing.T) {
	ref := Map(
		Named("example.com/a", "Key"),
		Named("example.com/b", "Box", Named("example.com/a", "Key"), Named("example.com/c", "Val")),
	)
	assert.Equal(t, []string{"example.com/a", "example.com/b", "example.com/c"}, ref.Packages())
	assert.Empty(t, Basic("int").Packages())
}

func TestActionMethodSignature(t *testing.T) {
	owner := &ControllerType{Package: "example.com/app", PackageName: "app", Name: "Users"}
	m := &ActionMethod{Name: "Find", Owner: owner}
	m.Params = []*Parameter{
		{Name: "id", Type: Basic("int"), Method: m},
		{Name: "tags", Type: Slice(Basic("string")), Method: m},
	}

	assert.Equal(t, "Find(int,slice)", m.Signature())
	assert.True(t, m.Exported())
	assert.Equal(t, "app.Users.Find", m.ElementName())
	assert.Equal(t, "app.Users.Find#tags", m.Params[1].ElementName())

	p, ok := m.Param("id")
	assert.True(t, ok)
	assert.Equal(t, 0, p.Index)
}

func TestControllerTypeKey(t *testing.T) {
	base := &ControllerType{
		Package:     "example.com/app",
		PackageName: "app",
		Name:        "Base",
		TypeArgs:    []TypeRef{Named("example.com/app/models", "User")},
	}
	assert.Equal(t, "example.com/app.Base[models.User]", base.Key())
	assert.Equal(t, "app.Base[models.User]", base.ElementName())
	assert.Equal(t, "example.com/app.Base", base.Ref().Raw())
}

func TestTypeRefIsError(t *testing.T) {
	assert.True(t, TypeRef{Kind: KindNamed, Name: "error"}.IsError())
	assert.False(t, Named("example.com/app", "error").IsError())
}
