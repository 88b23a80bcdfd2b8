package models

import "github.com/toyz/autoinject/internal/annotations"

// Annotation represents a parsed annotation together with the type it decorates
type Annotation struct {
	*annotations.ParsedAnnotation        // Embed the parsed annotation
	TypeName                      string // declared type carrying the annotation
}
