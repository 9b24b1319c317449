// Package utils holds the terminal output, formatting and file helpers
// shared by the generator and the CLI.
package utils

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
)

// DiagnosticLevel represents the level of diagnostic output
type DiagnosticLevel int

const (
	DiagnosticSilent DiagnosticLevel = iota
	DiagnosticError
	DiagnosticWarn
	DiagnosticInfo
	DiagnosticVerbose
	DiagnosticDebug
)

// DiagnosticSystem provides structured, user-friendly output
type DiagnosticSystem struct {
	level    DiagnosticLevel
	showTime bool
	output   io.Writer
	errorOut io.Writer
	indent   int
}

// NewDiagnosticSystem creates a new diagnostic system
func NewDiagnosticSystem(level DiagnosticLevel) *DiagnosticSystem {
	if !shouldUseColors() {
		color.NoColor = true
	}
	return &DiagnosticSystem{
		level:    level,
		showTime: level >= DiagnosticVerbose,
		output:   os.Stdout,
		errorOut: os.Stderr,
	}
}

// LevelFor picks the output level from the CLI flags. quiet wins over
// verbose, debug wins over both.
func LevelFor(quiet, verbose, debug bool) DiagnosticLevel {
	switch {
	case debug:
		return DiagnosticDebug
	case quiet:
		return DiagnosticError
	case verbose:
		return DiagnosticVerbose
	default:
		return DiagnosticInfo
	}
}

// SetOutput redirects both streams, mostly for tests
func (d *DiagnosticSystem) SetOutput(out, errOut io.Writer) {
	d.output = out
	d.errorOut = errOut
}

// SetShowTime toggles the timestamp prefix
func (d *DiagnosticSystem) SetShowTime(show bool) {
	d.showTime = show
}

// Level returns the configured level
func (d *DiagnosticSystem) Level() DiagnosticLevel {
	return d.level
}

// Enabled reports whether messages at level l are shown
func (d *DiagnosticSystem) Enabled(l DiagnosticLevel) bool {
	return d.level >= l
}

var (
	errorTag   = color.New(color.FgRed, color.Bold).SprintFunc()
	warnTag    = color.New(color.FgYellow).SprintFunc()
	infoTag    = color.New(color.FgBlue).SprintFunc()
	successTag = color.New(color.FgGreen).SprintFunc()
	verboseTag = color.New(color.FgCyan).SprintFunc()
	debugTag   = color.New(color.FgHiBlack).SprintFunc()
	bold       = color.New(color.Bold).SprintFunc()
	header     = color.New(color.FgCyan).SprintFunc()
	phase      = color.New(color.FgBlue).SprintFunc()
)

// Error outputs an error message
func (d *DiagnosticSystem) Error(format string, args ...interface{}) {
	if d.level >= DiagnosticError {
		d.writeMessage(d.errorOut, errorTag("[ERROR]"), format, args...)
	}
}

// Warn outputs a warning message
func (d *DiagnosticSystem) Warn(format string, args ...interface{}) {
	if d.level >= DiagnosticWarn {
		d.writeMessage(d.errorOut, warnTag("[WARN]"), format, args...)
	}
}

// Info outputs an informational message
func (d *DiagnosticSystem) Info(format string, args ...interface{}) {
	if d.level >= DiagnosticInfo {
		d.writeMessage(d.output, infoTag("[INFO]"), format, args...)
	}
}

// Success outputs a success message
func (d *DiagnosticSystem) Success(format string, args ...interface{}) {
	if d.level >= DiagnosticInfo {
		d.writeMessage(d.output, successTag("[OK]"), format, args...)
	}
}

// Verbose outputs a verbose message
func (d *DiagnosticSystem) Verbose(format string, args ...interface{}) {
	if d.level >= DiagnosticVerbose {
		d.writeMessage(d.output, verboseTag("[VERBOSE]"), format, args...)
	}
}

// Debug outputs a debug message
func (d *DiagnosticSystem) Debug(format string, args ...interface{}) {
	if d.level >= DiagnosticDebug {
		d.writeMessage(d.output, debugTag("[DEBUG]"), format, args...)
	}
}

// Detail outputs an indented line under the last error or warning
func (d *DiagnosticSystem) Detail(format string, args ...interface{}) {
	if d.level >= DiagnosticError {
		fmt.Fprintf(d.errorOut, "%s   %s\n", d.getIndent(), fmt.Sprintf(format, args...))
	}
}

// List outputs a bullet item at the current indentation
func (d *DiagnosticSystem) List(format string, args ...interface{}) {
	if d.level >= DiagnosticInfo {
		fmt.Fprintf(d.output, "%s- %s\n", d.getIndent(), fmt.Sprintf(format, args...))
	}
}

// Indent increases the indentation level
func (d *DiagnosticSystem) Indent() {
	d.indent++
}

// Unindent decreases the indentation level
func (d *DiagnosticSystem) Unindent() {
	if d.indent > 0 {
		d.indent--
	}
}

// Summary outputs a final summary with statistics, keys sorted
func (d *DiagnosticSystem) Summary(title string, stats map[string]interface{}) {
	if d.level < DiagnosticInfo {
		return
	}
	keys := make([]string, 0, len(stats))
	for key := range stats {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fmt.Fprintf(d.output, "\n%s\n", title)
	for _, key := range keys {
		fmt.Fprintf(d.output, "   %s: %v\n", key, stats[key])
	}
	fmt.Fprintln(d.output)
}

// Header outputs the main mvcgen banner line
func (d *DiagnosticSystem) Header(message string) {
	if d.level >= DiagnosticInfo {
		fmt.Fprintf(d.output, "%s\n", header("mvcgen: "+message))
	}
}

// PhaseHeader outputs a phase header
func (d *DiagnosticSystem) PhaseHeader(name string) {
	if d.level >= DiagnosticInfo {
		fmt.Fprintf(d.output, "%s\n", phase(name+":"))
	}
}

// PhaseItem outputs a completed phase item
func (d *DiagnosticSystem) PhaseItem(format string, args ...interface{}) {
	if d.level >= DiagnosticInfo {
		fmt.Fprintf(d.output, "%s %s\n", successTag("✓"), fmt.Sprintf(format, args...))
	}
}

// GenerationComplete outputs the completion message
func (d *DiagnosticSystem) GenerationComplete() {
	if d.level >= DiagnosticInfo {
		fmt.Fprintf(d.output, "\n%s\n", successTag("mvcgen: generation complete"))
	}
}

func (d *DiagnosticSystem) writeMessage(w io.Writer, tag, format string, args ...interface{}) {
	var out strings.Builder
	out.WriteString(d.getIndent())
	if d.showTime {
		out.WriteString(time.Now().Format("15:04:05 "))
	}
	out.WriteString(tag)
	out.WriteByte(' ')
	out.WriteString(fmt.Sprintf(format, args...))
	out.WriteByte('\n')
	fmt.Fprint(w, out.String())
}

func (d *DiagnosticSystem) getIndent() string {
	return strings.Repeat("  ", d.indent)
}

// shouldUseColors determines if colors should be used
func shouldUseColors() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	term := os.Getenv("TERM")
	return term != "" && term != "dumb"
}
