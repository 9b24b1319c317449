package parser

import (
	"fmt"
	"strings"

	"github.com/toyz/mvcgen/internal/annotations"
	"github.com/toyz/mvcgen/internal/errors"
	"github.com/toyz/mvcgen/internal/models"
)

// ErrorReporter builds host errors with context and suggestions
type ErrorReporter struct{}

// NewErrorReporter creates a new error reporter
func NewErrorReporter() *ErrorReporter {
	return &ErrorReporter{}
}

// AmbiguousSupertype reports a controller embedding more than one controller
func (r *ErrorReporter) AmbiguousSupertype(t *models.ControllerType, embedded []string) error {
	err := errors.NewDiscoveryError(t.ElementName(),
		fmt.Sprintf("ambiguous supertype: %s embeds %s", t.Name, strings.Join(embedded, " and ")), nil)
	err.WithLocation(t.Location()).
		WithContext("embedded", embedded).
		WithSuggestion("embed a single controller and hold the others in named fields").
		WithSuggestion(fmt.Sprintf("Example: type %s struct { %s; other *%s }", t.Name, embedded[0], embedded[1]))
	return err
}

// UnknownParameter reports a parameter-level marker naming no parameter
func (r *ErrorReporter) UnknownParameter(m *models.ActionMethod, marker annotations.Marker, target string) error {
	reason := fmt.Sprintf("marker %s names unknown parameter %q", marker.Identifier, target)
	if target == "" {
		reason = fmt.Sprintf("marker %s must name its parameter first", marker.Identifier)
	}

	var names []string
	for _, p := range m.Params {
		names = append(names, p.Name)
	}

	err := errors.NewSignatureError(m.ElementName(), reason)
	err.WithLocation(marker.Location).WithContext("marker", marker.Raw)
	if len(names) > 0 {
		err.WithSuggestion(fmt.Sprintf("Parameters of %s: %s", m.Name, strings.Join(names, ", ")))
		err.WithSuggestion(fmt.Sprintf("Example: %s%s %s", MarkerPrefix, marker.Identifier, names[0]))
	} else {
		err.WithSuggestion(fmt.Sprintf("%s takes no parameters; remove the %s marker", m.Name, marker.Identifier))
	}
	return err
}
