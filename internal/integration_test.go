package internal

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/mvcgen/internal/generator"
	"github.com/toyz/mvcgen/internal/session"
	"github.com/toyz/mvcgen/internal/templates"
)

const librarySource = `package library

import "context"

type Book struct {
	ID    int
	Title string
}

//mvc::controller -Abstract
type Base struct{}

//mvc::GET /health
//mvc::produces text/plain
func (b *Base) Health() string { return "ok" }

//mvc::path /books
//mvc::produces application/json
//mvc::Secured -Role=librarian
type Books struct {
	Base
}

//mvc::GET /{id}
//mvc::pathparam id
func (c *Books) Find(id int) (*Book, error) { return nil, nil }

//mvc::POST
//mvc::consumes application/json
//mvc::dispatch
func (c *Books) Create(ctx context.Context, book Book) *Book { return &book }

//mvc::DELETE /{id}
//mvc::pathparam id
func (c *Books) Remove(id int) error { return nil }

//mvc::path /account
type Account struct{}

//mvc::GET /me
//mvc::session user
func (c *Account) Me(user string) string { return user }
`

// TestLibraryGeneration runs a whole build over a module and checks the
// routers it writes
func TestLibraryGeneration(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	write("go.mod", "module example.com/library\n\ngo 1.22\n")
	write("library/library.go", librarySource)

	result, err := generator.New(nil).Run(context.Background(), generator.Options{
		Dir:     dir,
		Session: session.Options{Services: true},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Stats.Routers)
	assert.Equal(t, 5, result.Stats.Routes)

	books, err := os.ReadFile(filepath.Join(dir, "library", "autogen_books_router.go"))
	require.NoError(t, err)
	code := string(books)

	t.Run("header and package", func(t *testing.T) {
		assert.True(t, strings.HasPrefix(code, templates.Header))
		assert.Contains(t, code, "package library")
		assert.Contains(t, code, "type BooksRouter struct")
	})

	t.Run("routes", func(t *testing.T) {
		assert.Contains(t, code, `app.Route("GET", "/books/{id}", r.find)`)
		assert.Contains(t, code, `app.Route("POST", "/books", r.create)`)
		assert.Contains(t, code, `app.Route("DELETE", "/books/{id}", r.remove)`)
		assert.Contains(t, code, `app.Route("GET", "/books/health", r.health)`)
		assert.Contains(t, code, `SetDispatch("worker")`)
		assert.Contains(t, code, `SetConsumes("application/json")`)
		assert.Contains(t, code, `SetAttributes(mvc.AttributesOf("Secured.Role", "librarian"))`)
	})

	t.Run("bindings", func(t *testing.T) {
		assert.Contains(t, code, `mvc.PathParam[int](ctx, "id", mvc.Required)`)
		assert.Contains(t, code, `mvc.BodyAs[Book](ctx, mvc.Nullable)`)
		assert.Contains(t, code, "ctx.Context()")
		assert.Contains(t, code, "ctx.SetResponseCode(mvc.StatusNoContent)")
	})

	account, err := os.ReadFile(filepath.Join(dir, "library", "autogen_account_router.go"))
	require.NoError(t, err)
	assert.Contains(t, string(account), `mvc.SessionParam[string](ctx, "user", mvc.Required)`)

	manifest, err := os.ReadFile(filepath.Join(dir, generator.DefaultManifestFile))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"example.com/library/library.AccountRouter",
		"example.com/library/library.BooksRouter",
	}, strings.Fields(string(manifest)))

	_, err = os.Stat(filepath.Join(dir, "library", "autogen_base_router.go"))
	assert.True(t, os.IsNotExist(err), "abstract controllers get no router")
}
