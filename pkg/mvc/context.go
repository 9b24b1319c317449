package mvc

import (
	"context"
	"reflect"
)

// Context is the request as seen by a dispatch method. Adapters implement
// it on top of their framework's request type, usually by embedding an
// Exchange for the parts that do not depend on the framework.
type Context interface {
	// Context returns the request's context.Context
	Context() context.Context
	// Method returns the HTTP method
	Method() string
	// Route returns the route being served
	Route() *Route

	// PathParam returns the value of a pattern variable
	PathParam(name string) (string, bool)
	// QueryString returns the parsed query string
	QueryString() QueryString
	// Header returns every value of a request header
	Header(name string) []string
	// Cookie returns the value of a request cookie
	Cookie(name string) (string, bool)
	// Form returns the url-encoded or multipart form values
	Form() (Formdata, error)
	// File returns an uploaded multipart file
	File(name string) (FileUpload, bool, error)
	// Body returns the raw request body
	Body() ([]byte, error)

	// Session returns the request session, creating one when create is set.
	// It returns nil without error when there is no session and create is
	// not set.
	Session(create bool) (Session, error)

	SetResponseCode(code StatusCode)
	// ResponseCode returns the status set so far, 200 when none was set
	ResponseCode() StatusCode

	// Require resolves a value of type t from the application registry
	Require(t reflect.Type) (any, error)
}
