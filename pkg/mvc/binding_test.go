package mvc

import (
	"bytes"
	"mime/multipart"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type book struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Pages  int    `json:"pages"`
}

func TestPathParam(t *testing.T) {
	ctx := newTestContext("GET", nil, nil)
	id := uuid.New()
	ctx.params["id"] = id.String()
	ctx.params["page"] = "x"
	ctx.params["empty"] = ""

	got, err := PathParam[uuid.UUID](ctx, "id", Required)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = PathParam[int](ctx, "page", Required)
	assert.Equal(t, StatusCode(400), StatusOf(err))
	assert.ErrorContains(t, err, "invalid path parameter page")

	_, err = PathParam[int](ctx, "missing", Required)
	assert.ErrorIs(t, err, ErrMissing)
	assert.ErrorContains(t, err, "missing path parameter missing")

	n, err := PathParam[*int](ctx, "missing", Nullable)
	require.NoError(t, err)
	assert.Nil(t, n)

	_, err = PathParam[int](ctx, "empty", Required)
	assert.ErrorIs(t, err, ErrMissing)

	s, err := PathParam[string](ctx, "empty", Required)
	require.NoError(t, err)
	assert.Empty(t, s)
}

func TestQueryParam(t *testing.T) {
	ctx := newTestContext("GET", nil, nil)
	ctx.query = "tag=go&tag=web&limit=20&page=&sort=title"

	tags, err := QueryParam[[]string](ctx, "tag", Required)
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "web"}, tags)

	limit, err := QueryParam[int](ctx, "limit", Required)
	require.NoError(t, err)
	assert.Equal(t, 20, limit)

	page, err := QueryParam[Optional[int]](ctx, "page", Required)
	require.NoError(t, err)
	assert.False(t, page.IsPresent())

	type listing struct {
		Limit int      `json:"limit"`
		Tags  []string `json:"tag"`
		Sort  string   `json:"sort"`
	}
	bean, err := QueryParam[listing](ctx, "filter", Required)
	require.NoError(t, err)
	assert.Equal(t, listing{Limit: 20, Tags: []string{"go", "web"}, Sort: "title"}, bean)
}

func TestHeaderAndCookieParam(t *testing.T) {
	ctx := newTestContext("GET", nil, nil)
	ctx.headers.Add("X-Request-Id", "42")
	ctx.cookies["theme"] = "dark"

	id, err := HeaderParam[int64](ctx, "X-Request-Id", Required)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	theme, err := CookieParam[string](ctx, "theme", Required)
	require.NoError(t, err)
	assert.Equal(t, "dark", theme)

	_, err = CookieParam[string](ctx, "lang", Required)
	assert.ErrorContains(t, err, "missing cookie parameter lang")
}

func TestFormParam(t *testing.T) {
	ctx := newTestContext("POST", nil, nil)
	ctx.form = Formdata{"title": {"Dune"}, "author": {"Herbert"}, "pages": {"412"}}

	title, err := FormParam[string](ctx, "title", Required)
	require.NoError(t, err)
	assert.Equal(t, "Dune", title)

	b, err := FormParam[*book](ctx, "book", Required)
	require.NoError(t, err)
	assert.Equal(t, &book{Title: "Dune", Author: "Herbert", Pages: 412}, b)
}

func TestSessionAndFlashParam(t *testing.T) {
	env := NewEnvironment()
	store := env.Sessions.Store

	sess := store.Create()
	sess.Set("user", "ada")
	sess.SetFlash("notice", "saved")

	ctx := newTestContext("GET", nil, env)
	ctx.cookies[DefaultSessionCookie] = sess.ID()

	user, err := SessionParam[string](ctx, "user", Required)
	require.NoError(t, err)
	assert.Equal(t, "ada", user)

	notice, err := FlashParam[string](ctx, "notice", Required)
	require.NoError(t, err)
	assert.Equal(t, "saved", notice)

	flash, err := FlashOf(ctx)
	require.NoError(t, err)
	assert.Equal(t, FlashMap{"notice": "saved"}, flash)

	anonymous := newTestContext("GET", nil, env)
	_, err = SessionParam[string](anonymous, "user", Required)
	assert.ErrorContains(t, err, "missing session parameter user")
	assert.Nil(t, SessionOrNil(anonymous))

	flash, err = FlashOf(anonymous)
	require.NoError(t, err)
	assert.Empty(t, flash)
}

func TestLookup(t *testing.T) {
	ctx := newTestContext("GET", nil, nil)
	ctx.params["id"] = "1"
	ctx.query = "id=2&q=dune"
	ctx.headers.Set("q", "header")

	id, err := Lookup[int](ctx, "id", Required)
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	id, err = Lookup[int](ctx, "id", Required, FromQuery, FromPath)
	require.NoError(t, err)
	assert.Equal(t, 2, id)

	q, err := Lookup[string](ctx, "q", Required, FromHeader, FromQuery)
	require.NoError(t, err)
	assert.Equal(t, "header", q)

	_, err = Lookup[string](ctx, "missing", Required, FromPath, FromCookie)
	assert.ErrorContains(t, err, "missing path/cookie parameter missing")

	v, err := Lookup[string](ctx, "missing", Nullable)
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestBodyAs(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		ctx := newTestContext("POST", nil, nil)
		ctx.headers.Set("Content-Type", "application/json; charset=utf-8")
		ctx.body = []byte(`{"title":"Dune","pages":412}`)

		b, err := BodyAs[book](ctx, Required)
		require.NoError(t, err)
		assert.Equal(t, book{Title: "Dune", Pages: 412}, b)
	})

	t.Run("no content type defaults to json", func(t *testing.T) {
		ctx := newTestContext("POST", nil, nil)
		ctx.body = []byte(`[1,2,3]`)

		ids, err := BodyAs[[]int](ctx, Required)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, ids)
	})

	t.Run("malformed json", func(t *testing.T) {
		ctx := newTestContext("POST", nil, nil)
		ctx.body = []byte(`{"title":`)

		_, err := BodyAs[book](ctx, Required)
		assert.Equal(t, StatusCode(400), StatusOf(err))
	})

	t.Run("empty body", func(t *testing.T) {
		ctx := newTestContext("POST", nil, nil)

		_, err := BodyAs[book](ctx, Required)
		assert.ErrorIs(t, err, ErrMissing)

		b, err := BodyAs[*book](ctx, Nullable)
		require.NoError(t, err)
		assert.Nil(t, b)
	})

	t.Run("text", func(t *testing.T) {
		ctx := newTestContext("POST", nil, nil)
		ctx.headers.Set("Content-Type", "text/plain")
		ctx.body = []byte("hello")

		s, err := BodyAs[string](ctx, Required)
		require.NoError(t, err)
		assert.Equal(t, "hello", s)
	})

	t.Run("form", func(t *testing.T) {
		ctx := newTestContext("POST", nil, nil)
		ctx.headers.Set("Content-Type", "application/x-www-form-urlencoded")
		ctx.form = Formdata{"title": {"Emma"}, "author": {"Austen"}}

		b, err := BodyAs[book](ctx, Required)
		require.NoError(t, err)
		assert.Equal(t, book{Title: "Emma", Author: "Austen"}, b)
	})

	t.Run("unsupported media type", func(t *testing.T) {
		ctx := newTestContext("POST", nil, nil)
		ctx.headers.Set("Content-Type", "application/xml")
		ctx.body = []byte("<book/>")

		_, err := BodyAs[book](ctx, Required)
		assert.Equal(t, StatusCode(415), StatusOf(err))
	})
}

func TestBodyOfAndFormdataOf(t *testing.T) {
	ctx := newTestContext("POST", nil, nil)
	ctx.headers.Set("Content-Type", "text/csv")
	ctx.body = []byte("a,b")

	body, err := BodyOf(ctx)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", body.ContentType)
	assert.Equal(t, "a,b", body.String())
	assert.Equal(t, 3, body.Len())

	form, err := FormdataOf(ctx)
	require.NoError(t, err)
	assert.NotNil(t, form)
	assert.Empty(t, form)
}

func multipartUpload(t *testing.T, field, filename, content string) FileUpload {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return NewFileUpload(field, form.File[field][0])
}

func TestFileOf(t *testing.T) {
	ctx := newTestContext("POST", nil, nil)
	ctx.files["cover"] = multipartUpload(t, "cover", "dune.png", "png-bytes")

	file, err := FileOf(ctx, "cover")
	require.NoError(t, err)
	assert.Equal(t, "dune.png", file.Filename)
	assert.Equal(t, int64(9), file.Size)

	data, err := file.Bytes()
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	_, err = FileOf(ctx, "manuscript")
	assert.ErrorIs(t, err, ErrMissing)

	path, err := FilePathOf(ctx, "cover")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Remove(string(path)) })
	assert.FileExists(t, string(path))
	assert.Contains(t, string(path), ".png")

	stored, err := os.ReadFile(string(path))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(stored))
}
