package errors

import (
	"fmt"
	"io/fs"
)

// WrapFileSystemError wraps a failed file operation of the generator or
// the CLI
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	err := Wrap(FileSystemErrorCode, fmt.Sprintf("failed to %s file '%s'", operation, path), cause).
		WithContext("operation", operation).
		WithContext("path", path)
	if Is(cause, fs.ErrPermission) {
		err.WithSuggestion("check that " + path + " is writable by the current user")
	}
	return err
}

// WrapConfigurationError wraps a failure to read, decode or validate the
// mvcgen settings
func WrapConfigurationError(configType, operation string, cause error) *BaseError {
	return Wrap(ConfigurationErrorCode, fmt.Sprintf("failed to %s configuration '%s'", operation, configType), cause).
		WithContext("config_type", configType).
		WithContext("operation", operation)
}
