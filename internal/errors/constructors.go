package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *ReleaseError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigInvalid(path string, cause error) *ReleaseError {
	return Wrap(cause, CategoryConfig, SeverityFatal, "configuration file is malformed").
		WithContext("path", path)
}

func ConfigRequired(field string) *ReleaseError {
	return New(CategoryConfig, SeverityFatal, "required configuration missing").
		WithContext("field", field)
}

func ValidationFailed(field, reason string) *ReleaseError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Filesystem errors

func FileSystem(operation, path string, cause error) *ReleaseError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "filesystem operation failed").
		WithContext("operation", operation).
		WithContext("path", path)
}

// External command errors

// CommandFailed reports a non-zero exit (or a failure to start) of an external
// command. output is the captured tail of the command's combined output.
func CommandFailed(command, dir string, exitCode int, output string, cause error) *ReleaseError {
	err := Wrap(cause, CategoryCommand, SeverityFatal, "external command failed").
		WithContext("command", command).
		WithContext("dir", dir).
		WithContext("exit_code", exitCode)
	if output != "" {
		err = err.WithContext("output", output)
	}
	return err
}

// Internal errors

func InternalError(message string, cause error) *ReleaseError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
