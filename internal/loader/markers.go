package loader

import (
	"go/token"
	"go/types"

	"github.com/toyz/autoinject/pkg/autoinject"
)

// markerSet holds the marker interfaces of the autoinject package as seen by
// the type checker. A zero markerSet matches nothing.
type markerSet struct {
	pkg        *types.Package
	interfaces []*types.Interface
	refs       []autoinject.TypeRef
}

var markerNames = []string{"Injectable", "TransientService", "ScopedService", "SingletonService"}

func newMarkerSet(pkg *types.Package) markerSet {
	set := markerSet{pkg: pkg}
	if pkg == nil {
		return set
	}
	for _, name := range markerNames {
		obj, ok := pkg.Scope().Lookup(name).(*types.TypeName)
		if !ok {
			continue
		}
		iface, ok := obj.Type().Underlying().(*types.Interface)
		if !ok {
			continue
		}
		set.interfaces = append(set.interfaces, iface)
		set.refs = append(set.refs, autoinject.NewTypeRef(autoinject.PkgPath, name))
	}
	return set
}

// matching returns the markers t implements, in markerNames order
func (m markerSet) matching(t types.Type) []autoinject.TypeRef {
	var refs []autoinject.TypeRef
	for i, iface := range m.interfaces {
		if implements(t, iface) {
			refs = append(refs, m.refs[i])
		}
	}
	return refs
}

// findMarkerPackage walks the import graph of pkgs looking for the
// autoinject package
func findMarkerPackage(pkgs []*types.Package) *types.Package {
	seen := make(map[*types.Package]bool)
	var walk func(*types.Package) *types.Package
	walk = func(pkg *types.Package) *types.Package {
		if pkg == nil || seen[pkg] {
			return nil
		}
		seen[pkg] = true
		if pkg.Path() == autoinject.PkgPath {
			return pkg
		}
		for _, imported := range pkg.Imports() {
			if found := walk(imported); found != nil {
				return found
			}
		}
		return nil
	}

	for _, pkg := range pkgs {
		if found := walk(pkg); found != nil {
			return found
		}
	}
	return nil
}

// newMarkerPackage builds the type information of the autoinject marker
// interfaces without loading the package from disk
func newMarkerPackage() *types.Package {
	pkg := types.NewPackage(autoinject.PkgPath, "autoinject")
	injectable := declareMarker(pkg, "Injectable", "injectable", nil)
	declareMarker(pkg, "TransientService", "transient", injectable)
	declareMarker(pkg, "ScopedService", "scoped", injectable)
	declareMarker(pkg, "SingletonService", "singleton", injectable)
	pkg.MarkComplete()
	return pkg
}

func declareMarker(pkg *types.Package, name, method string, embedded types.Type) *types.Named {
	obj := types.NewTypeName(token.NoPos, pkg, name, nil)
	named := types.NewNamed(obj, nil, nil)

	sig := types.NewSignatureType(nil, nil, nil, nil, nil, false)
	methods := []*types.Func{types.NewFunc(token.NoPos, pkg, method, sig)}
	var embeddeds []types.Type
	if embedded != nil {
		embeddeds = append(embeddeds, embedded)
	}

	named.SetUnderlying(types.NewInterfaceType(methods, embeddeds).Complete())
	pkg.Scope().Insert(obj)
	return named
}

// sourceImporter serves the marker package from memory and defers every
// other import to the default importer
type sourceImporter struct {
	markers  *types.Package
	fallback types.Importer
}

func (i *sourceImporter) Import(path string) (*types.Package, error) {
	if path == autoinject.PkgPath {
		return i.markers, nil
	}
	return i.fallback.Import(path)
}
