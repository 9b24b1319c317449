package diagnostic

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/toyz/mvcgen/internal/errors"
)

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Diagnostic represents a structured diagnostic message.
type Diagnostic struct {
	Severity Severity
	Code     errors.ErrorCode
	Location errors.SourceLocation
	Element  string // qualified name of the anchor element, if any
	Message  string
	Hint     string // optional suggestion for fixing the issue
}

// String formats the diagnostic for display.
func (d Diagnostic) String() string {
	var sb strings.Builder

	if !d.Location.IsEmpty() {
		sb.WriteString(d.Location.String())
		sb.WriteString(" - ")
	}

	sb.WriteString(d.Severity.String())
	sb.WriteString(": ")

	if d.Code != errors.UnknownErrorCode {
		sb.WriteString("[")
		sb.WriteString(d.Code.String())
		sb.WriteString("] ")
	}

	sb.WriteString(d.Message)

	if d.Hint != "" {
		sb.WriteString("\n  hint: ")
		sb.WriteString(d.Hint)
	}

	return sb.String()
}

// Err converts the diagnostic back into an error value
func (d Diagnostic) Err() error {
	base := errors.New(d.Code, d.Message).WithLocation(d.Location)
	if d.Hint != "" {
		base.WithSuggestion(d.Hint)
	}
	return base
}

// Collector collects diagnostics during a build. Collection is exhaustive:
// nothing stops at the first error.
type Collector struct {
	diagnostics []Diagnostic
	strict      bool // if true, warnings become errors
	quiet       bool // if true, suppress warnings
}

// NewCollector creates a new diagnostic collector.
func NewCollector(strict, quiet bool) *Collector {
	return &Collector{
		strict: strict,
		quiet:  quiet,
	}
}

// Warn adds a warning diagnostic.
func (c *Collector) Warn(code errors.ErrorCode, loc errors.SourceLocation, message string) {
	if c == nil || c.quiet {
		return
	}
	sev := SeverityWarning
	if c.strict {
		sev = SeverityError
	}
	c.Add(Diagnostic{Severity: sev, Code: code, Location: loc, Message: message})
}

// Error adds an error diagnostic.
func (c *Collector) Error(code errors.ErrorCode, loc errors.SourceLocation, message string) {
	c.Add(Diagnostic{Severity: SeverityError, Code: code, Location: loc, Message: message})
}

// Info adds an informational diagnostic.
func (c *Collector) Info(loc errors.SourceLocation, message string) {
	if c == nil || c.quiet {
		return
	}
	c.Add(Diagnostic{Severity: SeverityInfo, Location: loc, Message: message})
}

// Add appends a prepared diagnostic.
func (c *Collector) Add(d Diagnostic) {
	if c == nil {
		return
	}
	c.diagnostics = append(c.diagnostics, d)
}

// AddError records err as an error diagnostic, keeping the code, location
// and first suggestion of an MvcError. loc is used when err carries none.
func (c *Collector) AddError(err error, loc errors.SourceLocation, element string) {
	if c == nil || err == nil {
		return
	}
	d := Diagnostic{Severity: SeverityError, Location: loc, Element: element, Message: err.Error()}
	var mvcErr errors.MvcError
	if errors.As(err, &mvcErr) {
		d.Code = mvcErr.ErrorCode()
		if !mvcErr.Location().IsEmpty() {
			d.Location = mvcErr.Location()
		}
		if hints := mvcErr.Suggestions(); len(hints) > 0 {
			d.Hint = hints[0]
		}
		d.Message = messageOf(mvcErr)
	}
	c.Add(d)
}

func messageOf(err errors.MvcError) string {
	msg := err.Error()
	if loc := err.Location(); !loc.IsEmpty() {
		msg = strings.TrimPrefix(msg, loc.String()+": ")
	}
	return msg
}

// Diagnostics returns all collected diagnostics.
func (c *Collector) Diagnostics() []Diagnostic {
	if c == nil {
		return nil
	}
	return c.diagnostics
}

// HasErrors returns true if any error-level diagnostics exist.
func (c *Collector) HasErrors() bool {
	return c.ErrorCount() > 0
}

// ErrorCount returns the number of error diagnostics.
func (c *Collector) ErrorCount() int {
	return c.count(SeverityError)
}

// WarningCount returns the number of warning diagnostics.
func (c *Collector) WarningCount() int {
	return c.count(SeverityWarning)
}

func (c *Collector) count(sev Severity) int {
	if c == nil {
		return 0
	}
	count := 0
	for _, d := range c.diagnostics {
		if d.Severity == sev {
			count++
		}
	}
	return count
}

// Err joins every error-level diagnostic into one error, or returns nil.
func (c *Collector) Err() error {
	if c == nil {
		return nil
	}
	var err error
	for _, d := range c.diagnostics {
		if d.Severity == SeverityError {
			err = multierr.Append(err, d.Err())
		}
	}
	return err
}

// FormatAll formats all diagnostics as a multi-line string.
func (c *Collector) FormatAll() string {
	if c == nil || len(c.diagnostics) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, d := range c.diagnostics {
		sb.WriteString(d.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

// Summary returns a summary line like "1 error(s), 2 warning(s)".
func (c *Collector) Summary() string {
	if c == nil {
		return ""
	}
	warnings := c.WarningCount()
	errs := c.ErrorCount()

	parts := []string{}
	if errs > 0 {
		parts = append(parts, fmt.Sprintf("%d error(s)", errs))
	}
	if warnings > 0 {
		parts = append(parts, fmt.Sprintf("%d warning(s)", warnings))
	}
	if len(parts) == 0 {
		return "no issues"
	}
	return strings.Join(parts, ", ")
}
