package annotations

import (
	"fmt"
	"strings"
)

// Built-in annotation schemas

// TransientAnnotationSchema defines the schema for //autoinject::transient annotations
var TransientAnnotationSchema = AnnotationSchema{
	Type:        TransientAnnotation,
	Description: "Registers the type, or every implementer of the interface, with the Transient lifetime",
	Parameters:  map[string]ParameterSpec{},
	Examples: []string{
		"//autoinject::transient",
	},
}

// ScopedAnnotationSchema defines the schema for //autoinject::scoped annotations
var ScopedAnnotationSchema = AnnotationSchema{
	Type:        ScopedAnnotation,
	Description: "Registers the type, or every implementer of the interface, with the Scoped lifetime",
	Parameters:  map[string]ParameterSpec{},
	Examples: []string{
		"//autoinject::scoped",
	},
}

// SingletonAnnotationSchema defines the schema for //autoinject::singleton annotations
var SingletonAnnotationSchema = AnnotationSchema{
	Type:        SingletonAnnotation,
	Description: "Registers the type, or every implementer of the interface, with the Singleton lifetime",
	Parameters:  map[string]ParameterSpec{},
	Examples: []string{
		"//autoinject::singleton",
	},
}

// IgnoreAnnotationSchema defines the schema for //autoinject::ignore annotations
var IgnoreAnnotationSchema = AnnotationSchema{
	Type:        IgnoreAnnotation,
	Description: "Excludes a capability from being bound. Without a target every capability is excluded",
	AllowTarget: true,
	Parameters: map[string]ParameterSpec{
		"Reason": {
			Type:        StringType,
			Required:    false,
			Description: "Free-form explanation shown in verbose output",
			Validator:   ValidateReason,
		},
	},
	Examples: []string{
		"//autoinject::ignore",
		"//autoinject::ignore Notifier",
		"//autoinject::ignore io.Closer",
		"//autoinject::ignore Repository -Reason=\"registered by hand\"",
	},
}

// ValidateReason rejects blank reasons
func ValidateReason(v interface{}) error {
	reason, ok := v.(string)
	if !ok {
		return fmt.Errorf("must be a string, got %T", v)
	}
	if strings.TrimSpace(reason) == "" {
		return fmt.Errorf("must not be empty")
	}
	return nil
}

// GetBuiltinSchemas returns all built-in annotation schemas
func GetBuiltinSchemas() []AnnotationSchema {
	return []AnnotationSchema{
		TransientAnnotationSchema,
		ScopedAnnotationSchema,
		SingletonAnnotationSchema,
		IgnoreAnnotationSchema,
	}
}

// RegisterBuiltinSchemas registers all built-in annotation schemas with the given registry
func RegisterBuiltinSchemas(registry AnnotationRegistry) error {
	for _, schema := range GetBuiltinSchemas() {
		if err := registry.Register(schema.Type, schema); err != nil {
			return fmt.Errorf("failed to register %s schema: %w", schema.Type.String(), err)
		}
	}
	return nil
}
