package adapters

import (
	"context"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/toyz/mvcgen/pkg/mvc"
)

// FiberApp implements mvc.App for Fiber v2
type FiberApp struct {
	mvc.RouteTable
	app *fiber.App
	env *mvc.Environment
}

// NewFiberApp creates an app registering routes on app
func NewFiberApp(app *fiber.App, opts ...Option) *FiberApp {
	return &FiberApp{app: app, env: newEnvironment(opts)}
}

// NewDefaultFiberApp creates an app on a new Fiber instance with panic
// recovery
func NewDefaultFiberApp(opts ...Option) *FiberApp {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(recover.New())
	return NewFiberApp(app, opts...)
}

// Route registers h on the Fiber app. {name} variables become :name.
func (a *FiberApp) Route(method, pattern string, h mvc.Handler) *mvc.Route {
	route := a.Add(mvc.NewRoute(method, pattern, h))
	params := mvc.PatternParams(pattern)
	a.app.Add(strings.ToUpper(method), mvc.ColonPattern(pattern, "*"), func(c *fiber.Ctx) error {
		ctx := newFiberContext(c, route, a.env, params)
		out := mvc.Serve(ctx, a.env, route.Handler())
		if cookie, ok := ctx.SessionCookie(); ok {
			c.Cookie(fiberCookie(cookie))
		}
		contentType, data, err := out.Encode()
		if err != nil {
			return c.SendStatus(http.StatusInternalServerError)
		}
		c.Status(out.Status.Int())
		if contentType != "" {
			c.Set(fiber.HeaderContentType, contentType)
		}
		return c.Send(data)
	})
	return route
}

// App returns the underlying Fiber app
func (a *FiberApp) App() *fiber.App {
	return a.app
}

// Environment returns the request environment
func (a *FiberApp) Environment() *mvc.Environment {
	return a.env
}

// Name returns the adapter name
func (a *FiberApp) Name() string {
	return "Fiber"
}

// fiberContext implements mvc.Context over fasthttp. Values are copied out
// of fiber's reused buffers before they reach the handler.
type fiberContext struct {
	*mvc.Exchange
	c      *fiber.Ctx
	params []string

	form       *multipart.Form
	formValues mvc.Formdata
	formParsed bool
	formErr    error
}

func newFiberContext(c *fiber.Ctx, route *mvc.Route, env *mvc.Environment, params []string) *fiberContext {
	fc := &fiberContext{c: c, params: params}
	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}
	fc.Exchange = mvc.NewExchange(ctx, c.Method(), route, env, fc.Cookie)
	return fc
}

func (f *fiberContext) PathParam(name string) (string, bool) {
	for _, p := range f.params {
		if p == name {
			return strings.Clone(f.c.Params(name)), true
		}
	}
	return "", false
}

func (f *fiberContext) QueryString() mvc.QueryString {
	return mvc.ParseQueryString(string(f.c.Request().URI().QueryString()))
}

func (f *fiberContext) Header(name string) []string {
	v := f.c.Get(name)
	if v == "" {
		return nil
	}
	return []string{strings.Clone(v)}
}

func (f *fiberContext) Cookie(name string) (string, bool) {
	v := f.c.Cookies(name)
	if v == "" {
		return "", false
	}
	return strings.Clone(v), true
}

func (f *fiberContext) Body() ([]byte, error) {
	return append([]byte(nil), f.c.Body()...), nil
}

func (f *fiberContext) Form() (mvc.Formdata, error) {
	if err := f.parseForm(); err != nil {
		return nil, err
	}
	return f.formValues, nil
}

func (f *fiberContext) File(name string) (mvc.FileUpload, bool, error) {
	if err := f.parseForm(); err != nil {
		return mvc.FileUpload{}, false, err
	}
	if f.form == nil || len(f.form.File[name]) == 0 {
		return mvc.FileUpload{}, false, nil
	}
	return mvc.NewFileUpload(name, f.form.File[name][0]), true, nil
}

func (f *fiberContext) parseForm() error {
	if f.formParsed {
		return f.formErr
	}
	f.formParsed = true
	f.formValues = mvc.Formdata{}

	if strings.HasPrefix(f.c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		f.form, f.formErr = f.c.MultipartForm()
		if f.formErr != nil {
			return f.formErr
		}
		for k, v := range f.form.Value {
			f.formValues[k] = append([]string(nil), v...)
		}
		return nil
	}

	f.c.Request().PostArgs().VisitAll(func(key, value []byte) {
		k := string(key)
		f.formValues[k] = append(f.formValues[k], string(value))
	})
	return nil
}

func fiberCookie(c *http.Cookie) *fiber.Cookie {
	cookie := &fiber.Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Path:     c.Path,
		Secure:   c.Secure,
		HTTPOnly: c.HttpOnly,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
	if c.MaxAge < 0 {
		cookie.Expires = time.Unix(1, 0)
	}
	return cookie
}
