package annotations

import "fmt"

// Prefix introduces every annotation, e.g. "//autoinject::ignore IFoo"
const Prefix = "autoinject::"

// AnnotationType represents the kind of annotation
type AnnotationType int

const (
	TransientAnnotation AnnotationType = iota
	ScopedAnnotation
	SingletonAnnotation
	IgnoreAnnotation
)

// String returns the string representation of the annotation type
func (a AnnotationType) String() string {
	switch a {
	case TransientAnnotation:
		return "transient"
	case ScopedAnnotation:
		return "scoped"
	case SingletonAnnotation:
		return "singleton"
	case IgnoreAnnotation:
		return "ignore"
	default:
		return "unknown"
	}
}

// IsLifetime reports whether the annotation declares a lifetime marker
func (a AnnotationType) IsLifetime() bool {
	return a == TransientAnnotation || a == ScopedAnnotation || a == SingletonAnnotation
}

// ParseAnnotationType converts string to AnnotationType
func ParseAnnotationType(s string) (AnnotationType, error) {
	switch s {
	case "transient":
		return TransientAnnotation, nil
	case "scoped":
		return ScopedAnnotation, nil
	case "singleton":
		return SingletonAnnotation, nil
	case "ignore":
		return IgnoreAnnotation, nil
	default:
		return 0, fmt.Errorf("unknown annotation type: %s", s)
	}
}

// SourceLocation represents the location of an annotation in source code
type SourceLocation struct {
	File   string // File path
	Line   int    // Line number (1-based)
	Column int    // Column number (1-based)
}

// ParsedAnnotation represents a fully parsed annotation with type-safe parameters
type ParsedAnnotation struct {
	Type       AnnotationType         // Annotation type enum
	Target     string                 // Positional target, e.g. the ignored interface
	Parameters map[string]interface{} // Typed parameters
	Location   SourceLocation         // Source location
	Raw        string                 // Original annotation text
}

// HasTarget reports whether a positional target was given
func (p *ParsedAnnotation) HasTarget() bool {
	return p.Target != ""
}

// GetString returns a string parameter value with optional default
func (p *ParsedAnnotation) GetString(paramName string, defaultValue ...string) string {
	if value, exists := p.Parameters[paramName]; exists {
		if strValue, ok := value.(string); ok {
			return strValue
		}
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

// GetBool returns a boolean parameter value with optional default
func (p *ParsedAnnotation) GetBool(paramName string, defaultValue ...bool) bool {
	if value, exists := p.Parameters[paramName]; exists {
		if boolValue, ok := value.(bool); ok {
			return boolValue
		}
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return false
}

// HasParameter checks if a parameter exists
func (p *ParsedAnnotation) HasParameter(paramName string) bool {
	_, exists := p.Parameters[paramName]
	return exists
}

// ParameterType represents the type of a parameter
type ParameterType int

const (
	StringType ParameterType = iota
	BoolType
)

// String returns the string representation of the parameter type
func (p ParameterType) String() string {
	switch p {
	case StringType:
		return "string"
	case BoolType:
		return "bool"
	default:
		return "unknown"
	}
}

// ParameterSpec defines the specification for an annotation parameter
type ParameterSpec struct {
	Type         ParameterType           // Parameter type
	Required     bool                    // Whether parameter is required
	DefaultValue interface{}             // Value used for a bare -Flag
	Description  string                  // Parameter description
	Validator    func(interface{}) error // Custom validator function
}

// AnnotationSchema defines the schema for an annotation type
type AnnotationSchema struct {
	Type        AnnotationType           // Annotation type enum
	Description string                   // Human-readable description
	AllowTarget bool                     // Whether a positional target is accepted
	Parameters  map[string]ParameterSpec // Parameter specifications
	Examples    []string                 // Usage examples
}
