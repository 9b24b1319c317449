package cli

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/multierr"

	"github.com/toyz/mvcgen/internal/diagnostic"
	"github.com/toyz/mvcgen/internal/errors"
	"github.com/toyz/mvcgen/internal/generator"
	"github.com/toyz/mvcgen/internal/utils"
)

// DiagnosticReporter renders build diagnostics and errors for the terminal
type DiagnosticReporter struct {
	out     *utils.DiagnosticSystem
	verbose bool
}

// NewDiagnosticReporter creates a reporter writing through out
func NewDiagnosticReporter(out *utils.DiagnosticSystem, verbose bool) *DiagnosticReporter {
	return &DiagnosticReporter{out: out, verbose: verbose}
}

// ReportDiagnostics prints every collected diagnostic, errors after
// warnings
func (r *DiagnosticReporter) ReportDiagnostics(diags []diagnostic.Diagnostic) {
	ordered := append([]diagnostic.Diagnostic(nil), diags...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Severity == diagnostic.SeverityWarning && ordered[j].Severity != diagnostic.SeverityWarning
	})

	for _, d := range ordered {
		switch d.Severity {
		case diagnostic.SeverityWarning:
			r.out.Warn("%s", headline(d))
		case diagnostic.SeverityError:
			r.out.Error("%s", headline(d))
		default:
			r.out.Verbose("%s", headline(d))
			continue
		}
		if d.Element != "" && r.verbose {
			r.out.Detail("element: %s", d.Element)
		}
		if d.Hint != "" {
			r.out.Detail("hint: %s", d.Hint)
		}
	}
}

func headline(d diagnostic.Diagnostic) string {
	var sb strings.Builder
	if !d.Location.IsEmpty() {
		sb.WriteString(d.Location.String())
		sb.WriteString(": ")
	}
	if d.Code != errors.UnknownErrorCode {
		sb.WriteString("[")
		sb.WriteString(d.Code.String())
		sb.WriteString("] ")
	}
	sb.WriteString(d.Message)
	return sb.String()
}

// ReportError prints an error that stopped a command. Joined errors are
// reported one by one.
func (r *DiagnosticReporter) ReportError(err error) {
	if err == nil {
		return
	}
	for _, e := range multierr.Errors(err) {
		r.reportOne(e)
	}
}

func (r *DiagnosticReporter) reportOne(err error) {
	var mvcErr errors.MvcError
	if !errors.As(err, &mvcErr) {
		r.out.Error("%s", err.Error())
		return
	}

	if code := mvcErr.ErrorCode(); code != errors.UnknownErrorCode {
		r.out.Error("[%s] %s", code, err.Error())
	} else {
		r.out.Error("%s", err.Error())
	}

	if r.verbose {
		r.printContext(mvcErr.Context())
		r.printChain(mvcErr.Unwrap())
	}
	for i, suggestion := range mvcErr.Suggestions() {
		r.out.Detail("%d. %s", i+1, suggestion)
	}
}

func (r *DiagnosticReporter) printContext(context map[string]interface{}) {
	keys := make([]string, 0, len(context))
	for key := range context {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		r.out.Detail("%s: %v", formatContextKey(key), context[key])
	}
}

func (r *DiagnosticReporter) printChain(cause error) {
	for level := 1; cause != nil; level++ {
		r.out.Detail("cause %d: %s", level, cause.Error())
		next, ok := cause.(interface{ Unwrap() error })
		if !ok {
			return
		}
		cause = next.Unwrap()
	}
}

// formatContextKey converts snake_case context keys to Title Case
func formatContextKey(key string) string {
	parts := strings.Split(key, "_")
	for i, part := range parts {
		if len(part) > 0 {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, " ")
}

// ReportSummary prints the statistics of a finished build
func (r *DiagnosticReporter) ReportSummary(module *ModuleInfo, result *generator.Result) {
	stats := map[string]interface{}{
		"Packages":    result.Packages,
		"Controllers": result.Stats.Controllers,
		"Routers":     result.Stats.Routers,
		"Routes":      result.Stats.Routes,
		"Diagnostics": result.Summary,
	}
	if module != nil {
		stats["Module"] = module.Path
	}
	if len(result.Removed) > 0 {
		stats["Removed"] = len(result.Removed)
	}
	r.out.Summary("Summary", stats)

	if !r.out.Enabled(utils.DiagnosticVerbose) {
		return
	}
	if len(result.Stats.Files) > 0 {
		r.out.PhaseHeader("Generated")
		for _, file := range result.Stats.Files {
			r.out.PhaseItem("%s", file)
		}
	}
	if len(result.Removed) > 0 {
		r.out.PhaseHeader("Removed")
		for _, file := range result.Removed {
			r.out.List("%s", file)
		}
	}
}

// ReportCleaned prints the files removed by clean
func (r *DiagnosticReporter) ReportCleaned(removed []string) {
	if len(removed) == 0 {
		r.out.Info("nothing to clean")
		return
	}
	for _, file := range removed {
		r.out.List("removed %s", file)
	}
	r.out.Success("%s", pluralize(len(removed), "file"))
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s removed", noun)
	}
	return fmt.Sprintf("%d %ss removed", n, noun)
}
