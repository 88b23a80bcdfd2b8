package autoinject

import (
	"fmt"
	"path"
	"strings"
)

// TypeRef identifies a type by its package path and name.
//
// Generic types come in two shapes. An open definition lists the names of
// its type parameters in Params and has no Args; a closed instantiation has
// its bound type arguments in Args. A type parameter used as an argument is
// a TypeRef with an empty PkgPath.
type TypeRef struct {
	PkgPath string
	Name    string
	Params  []string
	Args    []TypeRef
}

// NewTypeRef returns a reference to a non-generic type
func NewTypeRef(pkgPath, name string) TypeRef {
	return TypeRef{PkgPath: pkgPath, Name: name}
}

// GenericDefinition returns a reference to an open generic definition
func GenericDefinition(pkgPath, name string, params ...string) TypeRef {
	return TypeRef{PkgPath: pkgPath, Name: name, Params: append([]string(nil), params...)}
}

// TypeParam returns a reference to a type parameter, for use as a type argument
func TypeParam(name string) TypeRef {
	return TypeRef{Name: name}
}

// Instantiate binds args to the type parameters of t and returns the closed
// instantiation. The receiver's Params are kept so Definition can restore
// the original parameter names.
func (t TypeRef) Instantiate(args ...TypeRef) TypeRef {
	return TypeRef{
		PkgPath: t.PkgPath,
		Name:    t.Name,
		Params:  append([]string(nil), t.Params...),
		Args:    append([]TypeRef(nil), args...),
	}
}

// IsGeneric reports whether t is an open definition or a closed instantiation
func (t TypeRef) IsGeneric() bool {
	return len(t.Params) > 0 || len(t.Args) > 0
}

// IsOpen reports whether t is an open generic definition
func (t TypeRef) IsOpen() bool {
	return len(t.Params) > 0 && len(t.Args) == 0
}

// IsClosed reports whether t is a generic type with bound arguments
func (t TypeRef) IsClosed() bool {
	return len(t.Args) > 0
}

// IsZero reports whether t names no type
func (t TypeRef) IsZero() bool {
	return t.PkgPath == "" && t.Name == "" && !t.IsGeneric()
}

// Arity returns the number of type parameters of t's generic definition
func (t TypeRef) Arity() int {
	if len(t.Args) > 0 {
		return len(t.Args)
	}
	return len(t.Params)
}

// Definition returns the open generic definition t was built from.
// Non-generic references are returned unchanged.
func (t TypeRef) Definition() TypeRef {
	if !t.IsClosed() {
		return t
	}

	params := t.Params
	if len(params) != len(t.Args) {
		params = make([]string, len(t.Args))
		for i := range params {
			params[i] = fmt.Sprintf("T%d", i)
		}
	}

	return GenericDefinition(t.PkgPath, t.Name, params...)
}

// Key returns a string that identifies t. Two open definitions of the same
// type share a key regardless of how their parameters are named.
func (t TypeRef) Key() string {
	var b strings.Builder
	if t.PkgPath != "" {
		b.WriteString(t.PkgPath)
		b.WriteByte('.')
	}
	b.WriteString(t.Name)

	switch {
	case t.IsClosed():
		b.WriteByte('[')
		for i, arg := range t.Args {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(arg.Key())
		}
		b.WriteByte(']')
	case t.IsOpen():
		b.WriteByte('[')
		b.WriteString(strings.Repeat("_,", len(t.Params)-1))
		b.WriteString("_]")
	}

	return b.String()
}

// Equal reports whether t and other identify the same type
func (t TypeRef) Equal(other TypeRef) bool {
	return t.Key() == other.Key()
}

// String returns the reference as it would be written in the declaring
// package's importer, e.g. "repo.Store[T]".
func (t TypeRef) String() string {
	var b strings.Builder
	if t.PkgPath != "" {
		b.WriteString(path.Base(t.PkgPath))
		b.WriteByte('.')
	}
	b.WriteString(t.Name)

	switch {
	case t.IsClosed():
		args := make([]string, len(t.Args))
		for i, arg := range t.Args {
			args[i] = arg.String()
		}
		b.WriteString("[" + strings.Join(args, ", ") + "]")
	case t.IsOpen():
		b.WriteString("[" + strings.Join(t.Params, ", ") + "]")
	}

	return b.String()
}

// Normalize rewrites a closed generic instantiation to its open definition.
// Non-generic references and open definitions are returned unchanged, so
// Normalize is idempotent.
func Normalize(t TypeRef) TypeRef {
	if !t.IsGeneric() || t.IsOpen() {
		return t
	}
	return t.Definition()
}
