package mvc

import (
	"context"
	"net/http"
)

// testContext is an in-memory Context for binding and serving tests
type testContext struct {
	*Exchange
	params  map[string]string
	query   string
	headers http.Header
	cookies map[string]string
	form    Formdata
	files   map[string]FileUpload
	body    []byte
}

func newTestContext(method string, route *Route, env *Environment) *testContext {
	c := &testContext{
		params:  map[string]string{},
		headers: http.Header{},
		cookies: map[string]string{},
		files:   map[string]FileUpload{},
	}
	if route == nil {
		route = NewRoute(method, "/", nil)
	}
	c.Exchange = NewExchange(context.Background(), method, route, env, c.Cookie)
	return c
}

func (c *testContext) PathParam(name string) (string, bool) {
	v, ok := c.params[name]
	return v, ok
}

func (c *testContext) QueryString() QueryString { return ParseQueryString(c.query) }

func (c *testContext) Header(name string) []string { return c.headers.Values(name) }

func (c *testContext) Cookie(name string) (string, bool) {
	v, ok := c.cookies[name]
	return v, ok
}

func (c *testContext) Form() (Formdata, error) { return c.form, nil }

func (c *testContext) File(name string) (FileUpload, bool, error) {
	f, ok := c.files[name]
	return f, ok, nil
}

func (c *testContext) Body() ([]byte, error) { return c.body, nil }
