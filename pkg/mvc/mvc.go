// Package mvc is the runtime generated routers program against. It defines
// the request Context adapters implement, the App routes are installed on
// and the binding helpers dispatch methods use to build controller
// arguments.
package mvc

import (
	"net/http"
	"strconv"

	"go.uber.org/multierr"
)

// Handler dispatches one request. The result is rendered by the adapter:
// nil or a StatusCode sends the status only, anything else is the body.
type Handler func(ctx Context) (any, error)

// App is the route table a Router installs itself on
type App interface {
	Route(method, pattern string, h Handler) *Route
}

// Router is implemented by every generated router
type Router interface {
	Install(app App) error
}

// Install installs every router on app. All routers are attempted; the
// failures are joined.
func Install(app App, routers ...Router) error {
	var err error
	for _, r := range routers {
		err = multierr.Append(err, r.Install(app))
	}
	return err
}

// StatusCode is an HTTP response status
type StatusCode int

const (
	StatusOK        StatusCode = http.StatusOK
	StatusCreated   StatusCode = http.StatusCreated
	StatusAccepted  StatusCode = http.StatusAccepted
	StatusNoContent StatusCode = http.StatusNoContent
)

// Int returns the status as an int
func (s StatusCode) Int() int {
	return int(s)
}

// String returns the status and its reason phrase
func (s StatusCode) String() string {
	if text := http.StatusText(int(s)); text != "" {
		return text
	}
	return "status " + strconv.Itoa(int(s))
}

// DefaultStatus is the status of a handler without a result: 204 for
// DELETE requests, 200 otherwise
func DefaultStatus(ctx Context) StatusCode {
	if ctx.Method() == http.MethodDelete {
		return StatusNoContent
	}
	return StatusOK
}
