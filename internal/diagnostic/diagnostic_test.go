package diagnostic

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/toyz/mvcgen/internal/errors"
)

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{
		Severity: SeverityError,
		Code:     errors.SignatureErrorCode,
		Location: errors.SourceLocation{File: "users.go", Line: 10, Column: 2},
		Message:  "method Find: unsupported return shape",
		Hint:     "return (T, error)",
	}
	assert.Equal(t, "users.go:10:2 - error: [SignatureError] method Find: unsupported return shape\n  hint: return (T, error)", d.String())

	plain := Diagnostic{Severity: SeverityInfo, Message: "round 1"}
	assert.Equal(t, "info: round 1", plain.String())
}

func TestCollectorCounts(t *testing.T) {
	c := NewCollector(false, false)
	c.Warn(errors.UnknownErrorCode, errors.SourceLocation{}, "unknown marker")
	c.Error(errors.CodeGenErrorCode, errors.SourceLocation{File: "a.go"}, "boom")
	c.Info(errors.SourceLocation{}, "done")

	assert.Equal(t, 1, c.ErrorCount())
	assert.Equal(t, 1, c.WarningCount())
	assert.True(t, c.HasErrors())
	assert.Len(t, c.Diagnostics(), 3)
	assert.Equal(t, "1 error(s), 1 warning(s)", c.Summary())
}

func TestCollectorStrictAndQuiet(t *testing.T) {
	strict := NewCollector(true, false)
	strict.Warn(errors.UnknownErrorCode, errors.SourceLocation{}, "w")
	assert.True(t, strict.HasErrors())

	quiet := NewCollector(false, true)
	quiet.Warn(errors.UnknownErrorCode, errors.SourceLocation{}, "w")
	quiet.Info(errors.SourceLocation{}, "i")
	assert.Empty(t, quiet.Diagnostics())
	assert.Equal(t, "no issues", quiet.Summary())
}

func TestCollectorAddError(t *testing.T) {
	c := NewCollector(false, false)
	loc := errors.SourceLocation{File: "users.go", Line: 4}

	sig := errors.NewSignatureError("Find", "unsupported return shape")
	c.AddError(sig, loc, "app.Users.Find")
	c.AddError(fmt.Errorf("plain failure"), loc, "")

	diags := c.Diagnostics()
	require.Len(t, diags, 2)
	assert.Equal(t, errors.SignatureErrorCode, diags[0].Code)
	assert.Equal(t, loc, diags[0].Location)
	assert.Equal(t, "app.Users.Find", diags[0].Element)
	assert.Equal(t, "method Find: unsupported return shape", diags[0].Message)
	assert.Equal(t, errors.UnknownErrorCode, diags[1].Code)

	err := c.Err()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	c.Error(errors.CodeGenErrorCode, errors.SourceLocation{}, "ignored")
	assert.False(t, c.HasErrors())
	assert.NoError(t, c.Err())
	assert.Empty(t, c.FormatAll())
}
