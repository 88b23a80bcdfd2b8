package errors

import "fmt"

// WrapLoadError wraps a failure to load or list packages
func WrapLoadError(pattern string, cause error) *BaseError {
	return Wrap(LoadErrorCode, fmt.Sprintf("failed to load packages matching '%s'", pattern), cause).
		WithContext("pattern", pattern).
		WithSuggestion("Run the tool from inside the module, or pass -dir")
}

// WrapTypeCheckError wraps type checker errors for a package
func WrapTypeCheckError(pkgPath string, cause error) *BaseError {
	return Wrap(TypeCheckErrorCode, fmt.Sprintf("package '%s' does not type-check", pkgPath), cause).
		WithContext("package", pkgPath).
		WithSuggestion("Fix compile errors first; go vet shows the same problems")
}

// WrapParseError wraps an annotation that failed to parse
func WrapParseError(item string, loc SourceLocation, cause error) *BaseError {
	return Wrap(SyntaxErrorCode, fmt.Sprintf("failed to parse %s", item), cause).
		WithLocation(loc)
}

// UnresolvedTargetError reports an ignore annotation whose target names no known type
func UnresolvedTargetError(annotated, target string, loc SourceLocation) *BaseError {
	return Newf(ExclusionErrorCode, "%s ignores unknown type '%s'", annotated, target).
		WithLocation(loc).
		WithContext("annotated", annotated).
		WithContext("target", target).
		WithSuggestion("Name a type declared in the same package, or qualify it with an imported package name")
}

// WrapGenerateError wraps an error with a "failed to generate" message
func WrapGenerateError(item string, cause error) *BaseError {
	return Wrap(GenerationErrorCode, fmt.Sprintf("failed to generate %s", item), cause).
		WithContext("item", item)
}

// WrapFileSystemError wraps file system related errors
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	return Wrap(FileSystemErrorCode, fmt.Sprintf("failed to %s file '%s'", operation, path), cause).
		WithContext("operation", operation).
		WithContext("path", path)
}

// WrapConfigurationError wraps configuration-related errors
func WrapConfigurationError(configType, operation string, cause error) *BaseError {
	return Wrap(ConfigurationErrorCode, fmt.Sprintf("failed to %s configuration '%s'", operation, configType), cause).
		WithContext("config_type", configType).
		WithContext("operation", operation)
}

// ConfigurationError creates a configuration error
func ConfigurationError(configType, message string) *BaseError {
	return Newf(ConfigurationErrorCode, "configuration error in '%s': %s", configType, message).
		WithContext("config_type", configType)
}

// WrapValidationError wraps a rejected configuration value
func WrapValidationError(field string, cause error) *BaseError {
	return Wrap(ConfigurationErrorCode, fmt.Sprintf("invalid value for '%s'", field), cause).
		WithContext("field", field)
}

// HasCode reports whether err, or anything it wraps, is a ToolError with code
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		if te, ok := err.(ToolError); ok && te.ErrorCode() == code {
			return true
		}
		if multi, ok := err.(*MultipleErrors); ok {
			return multi.HasCode(code)
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = unwrapper.Unwrap()
	}
	return false
}
