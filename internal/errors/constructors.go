package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *PreviewError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigRequired(field string) *PreviewError {
	return New(CategoryConfig, SeverityFatal, "required configuration missing").
		WithContext("field", field)
}

func CredentialMissing(envVar string) *PreviewError {
	return New(CategoryConfig, SeverityFatal, "access token not set").
		WithContext("env", envVar)
}

func ValidationFailed(field, reason string) *PreviewError {
	return New(CategoryValidation, SeverityFatal, "event validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Build pipeline errors

func NoArtifacts(cause error) *PreviewError {
	return Wrap(cause, CategoryArtifacts, SeverityFatal, "no HTML build output found")
}

func WorkspaceError(operation string, cause error) *PreviewError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "workspace operation failed").
		WithContext("operation", operation)
}

// Git errors

func GitCloneError(url string, cause error) *PreviewError {
	return Wrap(cause, CategoryGit, SeverityFatal, "repository clone failed").
		WithContext("url", url)
}

func SyncError(step string, cause error) *PreviewError {
	return Wrap(cause, CategorySync, SeverityFatal, "preview sync failed").
		WithContext("step", step)
}
