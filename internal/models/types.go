package models

import "github.com/toyz/autoinject/pkg/autoinject"

// TypeKind represents what a declared type is
type TypeKind int

const (
	TypeKindStruct TypeKind = iota
	TypeKindInterface
	TypeKindOther
)

// String returns the string representation of the kind
func (k TypeKind) String() string {
	switch k {
	case TypeKindStruct:
		return "struct"
	case TypeKindInterface:
		return "interface"
	default:
		return "other"
	}
}

// TypeMetadata represents one named type declared in a scanned package
type TypeMetadata struct {
	Name         string               // declared name
	Kind         TypeKind             // struct, interface or other
	TypeParams   []string             // type parameter names, empty when not generic
	Ref          autoinject.TypeRef   // identity used by the engine
	Capabilities []autoinject.TypeRef // implemented interfaces and markers, in discovery order
	Annotations  []Annotation         // autoinject annotations found on the declaration
	FileName     string               // file containing the declaration
	Line         int                  // line of the declaration
	Lifetime     *autoinject.Lifetime // effective lifetime, nil when the type is not injectable
}

// IsGeneric reports whether the type declares type parameters
func (t *TypeMetadata) IsGeneric() bool {
	return len(t.TypeParams) > 0
}

// Candidate converts the metadata into the engine's input form
func (t *TypeMetadata) Candidate() autoinject.Candidate {
	return autoinject.Candidate{
		Type:         t.Ref,
		Abstract:     t.Kind == TypeKindInterface,
		Capabilities: t.Capabilities,
	}
}
