package loader

import (
	"go/types"

	"github.com/toyz/autoinject/pkg/autoinject"
)

// refFor converts a named type to the engine's TypeRef. Uninstantiated
// generic types become open definitions and instantiations become closed
// references carrying their type arguments.
func refFor(named *types.Named) autoinject.TypeRef {
	obj := named.Obj()
	pkgPath := ""
	if obj.Pkg() != nil {
		pkgPath = obj.Pkg().Path()
	}

	tparams := named.Origin().TypeParams()
	if tparams.Len() == 0 {
		return autoinject.NewTypeRef(pkgPath, obj.Name())
	}

	definition := autoinject.GenericDefinition(pkgPath, obj.Name(), typeParamNames(tparams)...)
	targs := named.TypeArgs()
	if targs.Len() == 0 {
		return definition
	}

	args := make([]autoinject.TypeRef, targs.Len())
	for i := 0; i < targs.Len(); i++ {
		args[i] = typeArgRef(targs.At(i))
	}
	return definition.Instantiate(args...)
}

func typeArgRef(t types.Type) autoinject.TypeRef {
	switch t := types.Unalias(t).(type) {
	case *types.TypeParam:
		return autoinject.TypeParam(t.Obj().Name())
	case *types.Named:
		return refFor(t)
	case *types.Basic:
		return autoinject.NewTypeRef("", t.Name())
	default:
		return autoinject.NewTypeRef("", types.TypeString(t, nil))
	}
}

func typeParamNames(tparams *types.TypeParamList) []string {
	names := make([]string, tparams.Len())
	for i := 0; i < tparams.Len(); i++ {
		names[i] = tparams.At(i).Obj().Name()
	}
	return names
}

// selfInstance instantiates a generic type with its own type parameters so
// its method set can be compared against interfaces. Non-generic types are
// returned unchanged.
func selfInstance(named *types.Named) types.Type {
	tparams := named.TypeParams()
	if tparams.Len() == 0 {
		return named
	}
	inst, err := types.Instantiate(nil, named, typeParamArgs(tparams), false)
	if err != nil {
		return named
	}
	return inst
}

func typeParamArgs(tparams *types.TypeParamList) []types.Type {
	args := make([]types.Type, tparams.Len())
	for i := 0; i < tparams.Len(); i++ {
		args[i] = tparams.At(i)
	}
	return args
}

// hasTypeParam reports whether any type argument of named is, or contains,
// a type parameter
func hasTypeParam(named *types.Named) bool {
	targs := named.TypeArgs()
	for i := 0; i < targs.Len(); i++ {
		switch arg := types.Unalias(targs.At(i)).(type) {
		case *types.TypeParam:
			return true
		case *types.Named:
			if hasTypeParam(arg) {
				return true
			}
		}
	}
	return false
}

// implements reports whether t, or a pointer to t, satisfies iface
func implements(t types.Type, iface *types.Interface) bool {
	if types.Implements(t, iface) {
		return true
	}
	if types.IsInterface(t) {
		return false
	}
	return types.Implements(types.NewPointer(t), iface)
}
