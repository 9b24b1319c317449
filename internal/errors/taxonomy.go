package errors

import (
	stderrors "errors"
	"fmt"
)

// Is and As re-export the standard helpers so callers need a single import.
var (
	Is = stderrors.Is
	As = stderrors.As
)

// DiscoveryError reports a failure of the host type graph, such as an
// ambiguous supertype or a package that cannot be loaded.
type DiscoveryError struct {
	*BaseError
	TypeName string
}

// NewDiscoveryError creates a DiscoveryError for the named type
func NewDiscoveryError(typeName, message string, cause error) *DiscoveryError {
	base := Wrap(DiscoveryErrorCode, message, cause)
	if typeName != "" {
		base.WithContext("type", typeName)
	}
	return &DiscoveryError{BaseError: base, TypeName: typeName}
}

// SignatureError reports a method whose shape cannot become a route.
type SignatureError struct {
	*BaseError
	Method string
}

// NewSignatureError creates a SignatureError for a method
func NewSignatureError(method, reason string) *SignatureError {
	base := New(SignatureErrorCode, fmt.Sprintf("method %s: %s", method, reason)).
		WithContext("method", method)
	return &SignatureError{BaseError: base, Method: method}
}

// UnsupportedTypeError reports a parameter the binder cannot bind.
type UnsupportedTypeError struct {
	*BaseError
	Parameter string
	Type      string
}

// NewUnsupportedTypeError creates an UnsupportedTypeError for a parameter
func NewUnsupportedTypeError(parameter, typeName, reason string) *UnsupportedTypeError {
	base := New(UnsupportedTypeCode, fmt.Sprintf("parameter %s (%s): %s", parameter, typeName, reason)).
		WithContext("parameter", parameter).
		WithContext("type", typeName)
	return &UnsupportedTypeError{BaseError: base, Parameter: parameter, Type: typeName}
}

// CodeGenError reports a failure while rendering or writing a router.
type CodeGenError struct {
	*BaseError
	Router string
}

// NewCodeGenError creates a CodeGenError for a router
func NewCodeGenError(router string, cause error) *CodeGenError {
	base := Wrap(CodeGenErrorCode, fmt.Sprintf("failed to generate %s", router), cause).
		WithContext("router", router)
	return &CodeGenError{BaseError: base, Router: router}
}

// SyntaxError reports a malformed marker comment.
type SyntaxError struct {
	*BaseError
	Marker string
}

// NewSyntaxError creates a SyntaxError for a marker line
func NewSyntaxError(marker string, loc SourceLocation, cause error) *SyntaxError {
	base := Wrap(SyntaxErrorCode, fmt.Sprintf("invalid marker %q", marker), cause).
		WithLocation(loc).
		WithSuggestion("markers look like //mvc::GET /path -Produces=application/json")
	return &SyntaxError{BaseError: base, Marker: marker}
}
