package errors

import (
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceLocationString(t *testing.T) {
	tests := []struct {
		name     string
		loc      SourceLocation
		expected string
	}{
		{"empty", SourceLocation{}, "unknown location"},
		{"file only", SourceLocation{File: "users.go"}, "users.go"},
		{"line", SourceLocation{File: "users.go", Line: 12}, "users.go:12"},
		{"column", SourceLocation{File: "users.go", Line: 12, Column: 3}, "users.go:12:3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.loc.String())
		})
	}
}

func TestBaseErrorMessage(t *testing.T) {
	err := New(SignatureErrorCode, "bad method")
	assert.Equal(t, "bad method", err.Error())

	err.WithLocation(SourceLocation{File: "users.go", Line: 4})
	assert.Equal(t, "users.go:4: bad method", err.Error())

	err.WithCause(fmt.Errorf("boom"))
	assert.Equal(t, "users.go:4: bad method: boom", err.Error())

	err.WithSuggestion("return (T, error)")
	assert.Equal(t, []string{"return (T, error)"}, err.Suggestions())
	assert.Empty(t, New(UnknownErrorCode, "x").Context())
}

func TestTaxonomyCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code ErrorCode
	}{
		{"discovery", NewDiscoveryError("app.Users", "ambiguous supertype", nil), DiscoveryErrorCode},
		{"signature", NewSignatureError("Users.Find", "too many results"), SignatureErrorCode},
		{"unsupported", NewUnsupportedTypeError("ch", "chan int", "not decodable"), UnsupportedTypeCode},
		{"codegen", NewCodeGenError("app.UsersRouter", fmt.Errorf("disk full")), CodeGenErrorCode},
		{"syntax", NewSyntaxError("//mvc::GET [", SourceLocation{File: "a.go", Line: 1}, nil), SyntaxErrorCode},
		{"plain", fmt.Errorf("plain"), UnknownErrorCode},
		{"wrapped", fmt.Errorf("outer: %w", NewSignatureError("Users.Find", "x")), SignatureErrorCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, CodeOf(tt.err))
		})
	}
}

func TestFatalCodes(t *testing.T) {
	assert.True(t, DiscoveryErrorCode.Fatal())
	assert.True(t, SyntaxErrorCode.Fatal())
	assert.False(t, SignatureErrorCode.Fatal())
	assert.False(t, UnsupportedTypeCode.Fatal())
	assert.False(t, CodeGenErrorCode.Fatal())
}

func TestSignatureErrorMessage(t *testing.T) {
	err := NewSignatureError("users.Users.Find", "return either a value or an error")
	assert.Equal(t, "method users.Users.Find: return either a value or an error", err.Error())
	assert.Equal(t, "users.Users.Find", err.Context()["method"])

	var sig *SignatureError
	require.True(t, As(fmt.Errorf("wrap: %w", err), &sig))
	assert.Equal(t, "users.Users.Find", sig.Method)
}

func TestCodeGenErrorUnwraps(t *testing.T) {
	err := NewCodeGenError("app.UsersRouter", fs.ErrPermission)
	assert.True(t, Is(err, fs.ErrPermission))
	assert.Contains(t, err.Error(), "failed to generate app.UsersRouter")
}

func TestWrappers(t *testing.T) {
	err := WrapFileSystemError("write", "/tmp/x.go", fs.ErrPermission)
	assert.Equal(t, FileSystemErrorCode, err.ErrorCode())
	assert.Equal(t, "/tmp/x.go", err.Context()["path"])
	assert.True(t, Is(err, fs.ErrPermission))

	cfg := WrapConfigurationError("mvcgen.yaml", "load", fmt.Errorf("bad yaml"))
	assert.Equal(t, ConfigurationErrorCode, cfg.ErrorCode())
	assert.Equal(t, "failed to load configuration 'mvcgen.yaml': bad yaml", cfg.Error())

	assert.Equal(t, []string{"check that /tmp/x.go is writable by the current user"}, err.Suggestions())
}
