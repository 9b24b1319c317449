package adapters

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/toyz/mvcgen/pkg/mvc"
)

// DefaultMaxMemory bounds the in-memory part of parsed multipart forms
const DefaultMaxMemory = 32 << 20

// httpContext implements mvc.Context over net/http. echo, gin and chi
// share it and differ only in how path variables are read.
type httpContext struct {
	*mvc.Exchange
	req    *http.Request
	params func(name string) (string, bool)

	body     []byte
	bodyRead bool
	bodyErr  error

	formParsed bool
	formErr    error
}

func newHTTPContext(req *http.Request, route *mvc.Route, env *mvc.Environment, params func(name string) (string, bool)) *httpContext {
	c := &httpContext{req: req, params: params}
	c.Exchange = mvc.NewExchange(req.Context(), req.Method, route, env, c.Cookie)
	return c
}

func (c *httpContext) PathParam(name string) (string, bool) {
	return c.params(name)
}

func (c *httpContext) QueryString() mvc.QueryString {
	return mvc.ParseQueryString(c.req.URL.RawQuery)
}

func (c *httpContext) Header(name string) []string {
	return c.req.Header.Values(name)
}

func (c *httpContext) Cookie(name string) (string, bool) {
	cookie, err := c.req.Cookie(name)
	if err != nil {
		return "", false
	}
	return cookie.Value, true
}

// Body reads the body once and puts it back so a later form parse still
// sees it
func (c *httpContext) Body() ([]byte, error) {
	if !c.bodyRead {
		c.bodyRead = true
		if c.req.Body != nil {
			c.body, c.bodyErr = io.ReadAll(c.req.Body)
			c.req.Body = io.NopCloser(bytes.NewReader(c.body))
		}
	}
	return c.body, c.bodyErr
}

func (c *httpContext) Form() (mvc.Formdata, error) {
	if err := c.parseForm(); err != nil {
		return nil, err
	}
	return mvc.Formdata(c.req.PostForm), nil
}

func (c *httpContext) File(name string) (mvc.FileUpload, bool, error) {
	if err := c.parseForm(); err != nil {
		return mvc.FileUpload{}, false, err
	}
	if c.req.MultipartForm == nil {
		return mvc.FileUpload{}, false, nil
	}
	files := c.req.MultipartForm.File[name]
	if len(files) == 0 {
		return mvc.FileUpload{}, false, nil
	}
	return mvc.NewFileUpload(name, files[0]), true, nil
}

func (c *httpContext) parseForm() error {
	if c.formParsed {
		return c.formErr
	}
	c.formParsed = true
	mediaType, _, _ := mime.ParseMediaType(c.req.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		c.formErr = c.req.ParseMultipartForm(DefaultMaxMemory)
		if errors.Is(c.formErr, http.ErrNotMultipart) {
			c.formErr = nil
		}
	} else {
		c.formErr = c.req.ParseForm()
	}
	return c.formErr
}

// serveHTTP runs h and writes the outcome with the session cookie. The
// error is the write error; handler errors are in the outcome.
func serveHTTP(w http.ResponseWriter, c *httpContext, env *mvc.Environment, h mvc.Handler) (mvc.Outcome, error) {
	out := mvc.Serve(c, env, h)
	if cookie, ok := c.SessionCookie(); ok {
		http.SetCookie(w, cookie)
	}
	return out, out.WriteTo(w)
}
