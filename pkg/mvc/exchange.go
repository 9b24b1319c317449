package mvc

import (
	"context"
	"net/http"
	"reflect"
)

// Environment carries the application wide collaborators of requests
type Environment struct {
	Registry   *Registry
	Sessions   *Sessions
	Dispatcher *Dispatcher
}

// NewEnvironment creates an environment with an empty registry, in-memory
// sessions and the default dispatcher
func NewEnvironment() *Environment {
	return &Environment{
		Registry:   NewRegistry(),
		Sessions:   NewSessions(NewMemoryStore(0)),
		Dispatcher: NewDispatcher(),
	}
}

// Exchange implements the framework independent part of Context. Adapters
// embed it and add the request accessors.
type Exchange struct {
	ctx    context.Context
	method string
	route  *Route
	env    *Environment
	cookie func(name string) (string, bool)

	code    StatusCode
	session Session
	loaded  bool
	created bool
}

// NewExchange creates the state of one request. cookie reads request
// cookies and is used to find the session.
func NewExchange(ctx context.Context, method string, route *Route, env *Environment, cookie func(name string) (string, bool)) *Exchange {
	if env == nil {
		env = NewEnvironment()
	}
	return &Exchange{ctx: ctx, method: method, route: route, env: env, cookie: cookie}
}

func (e *Exchange) Context() context.Context { return e.ctx }

func (e *Exchange) Method() string { return e.method }

func (e *Exchange) Route() *Route { return e.route }

// Environment returns the collaborators of the request
func (e *Exchange) Environment() *Environment { return e.env }

func (e *Exchange) SetResponseCode(code StatusCode) {
	e.code = code
}

func (e *Exchange) ResponseCode() StatusCode {
	if e.code == 0 {
		return StatusOK
	}
	return e.code
}

func (e *Exchange) Require(t reflect.Type) (any, error) {
	if e.env.Registry == nil {
		return nil, ErrInternal("cannot resolve "+t.String(), ErrNotRegistered)
	}
	return e.env.Registry.Resolve(e.ctx, t)
}

func (e *Exchange) Session(create bool) (Session, error) {
	sessions := e.env.Sessions
	if !e.loaded {
		e.loaded = true
		if sessions != nil && e.cookie != nil {
			if id, ok := e.cookie(sessions.CookieName); ok && id != "" {
				if s, ok := sessions.Store.Load(id); ok {
					e.session = s
				}
			}
		}
	}
	if e.session != nil && e.session.Valid() {
		return e.session, nil
	}
	if !create {
		return nil, nil
	}
	if sessions == nil {
		return nil, ErrInternal("sessions are not configured", nil)
	}
	e.session = sessions.Store.Create()
	e.created = true
	return e.session, nil
}

// SessionCookie returns the cookie an adapter sends after the handler: a
// new session id, or an expired cookie when the session was invalidated
func (e *Exchange) SessionCookie() (*http.Cookie, bool) {
	sessions := e.env.Sessions
	if sessions == nil || e.session == nil {
		return nil, false
	}
	cookie := &http.Cookie{
		Name:     sessions.CookieName,
		Path:     sessions.Path,
		HttpOnly: true,
		Secure:   sessions.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	switch {
	case !e.session.Valid():
		cookie.MaxAge = -1
		return cookie, true
	case e.created:
		cookie.Value = e.session.ID()
		return cookie, true
	default:
		return nil, false
	}
}
