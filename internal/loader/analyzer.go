package loader

import (
	"go/ast"
	"go/token"
	"go/types"
	"sort"
	"strings"

	"github.com/toyz/autoinject/internal/annotations"
	"github.com/toyz/autoinject/internal/errors"
	"github.com/toyz/autoinject/internal/models"
	"github.com/toyz/autoinject/pkg/autoinject"
)

// sourcePackage is a type-checked package together with its syntax
type sourcePackage struct {
	path  string
	name  string
	dir   string
	types *types.Package
	files []*ast.File
	info  *types.Info
}

// declaredType is a package-level named type found in a scanned file
type declaredType struct {
	pkg         *sourcePackage
	meta        *models.PackageMetadata
	file        *ast.File
	spec        *ast.TypeSpec
	named       *types.Named
	annotations []models.Annotation
}

func (d *declaredType) lifetimes() []autoinject.Lifetime {
	var lifetimes []autoinject.Lifetime
	for _, annotation := range d.annotations {
		switch annotation.Type {
		case annotations.TransientAnnotation:
			lifetimes = append(lifetimes, autoinject.Transient)
		case annotations.ScopedAnnotation:
			lifetimes = append(lifetimes, autoinject.Scoped)
		case annotations.SingletonAnnotation:
			lifetimes = append(lifetimes, autoinject.Singleton)
		}
	}
	return lifetimes
}

// capability is an interface a scanned type may be bound to
type capability struct {
	named     *types.Named
	iface     *types.Interface
	ref       autoinject.TypeRef
	arity     int // type parameters still to bind, zero for closed or plain interfaces
	lifetimes []autoinject.Lifetime
}

type analysis struct {
	fset         *token.FileSet
	parser       annotations.ParserEngine
	markers      markerSet
	decls        []*declaredType
	capabilities []*capability
	errs         *errors.MultipleErrors
}

func (l *Loader) analyze(pkgs []*sourcePackage) (*Result, error) {
	typesPkgs := make([]*types.Package, len(pkgs))
	for i, pkg := range pkgs {
		typesPkgs[i] = pkg.types
	}

	a := &analysis{
		fset:    l.fileSet,
		parser:  l.parser,
		markers: newMarkerSet(findMarkerPackage(typesPkgs)),
		errs:    errors.NewMultipleErrors(),
	}

	result := &Result{}
	for _, pkg := range pkgs {
		result.Packages = append(result.Packages, a.collect(pkg))
	}
	a.collectCapabilities(pkgs)

	for _, d := range a.decls {
		a.describe(d)
		a.exclusions(d)
	}

	if err := a.errs.ErrOrNil(); err != nil {
		return nil, err
	}
	return result, nil
}

// collect records every package-level named type of pkg in declaration order
func (a *analysis) collect(pkg *sourcePackage) *models.PackageMetadata {
	meta := &models.PackageMetadata{
		PackageName: pkg.name,
		PackagePath: pkg.path,
		Dir:         pkg.dir,
	}

	for _, file := range pkg.files {
		meta.Files = append(meta.Files, a.fset.Position(file.Package).Filename)

		for _, decl := range file.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}
			for _, spec := range gen.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok || ts.Assign.IsValid() {
					continue
				}
				obj, ok := pkg.info.Defs[ts.Name].(*types.TypeName)
				if !ok {
					continue
				}
				named, ok := obj.Type().(*types.Named)
				if !ok {
					continue
				}

				d := &declaredType{pkg: pkg, meta: meta, file: file, spec: ts, named: named}
				d.annotations = a.parseAnnotations(ts.Name.Name, docFor(gen, ts))
				a.decls = append(a.decls, d)
			}
		}
	}
	return meta
}

func docFor(gen *ast.GenDecl, spec *ast.TypeSpec) *ast.CommentGroup {
	if spec.Doc != nil {
		return spec.Doc
	}
	if !gen.Lparen.IsValid() {
		return gen.Doc
	}
	return nil
}

func (a *analysis) parseAnnotations(typeName string, doc *ast.CommentGroup) []models.Annotation {
	if doc == nil {
		return nil
	}

	var parsed []models.Annotation
	for _, comment := range doc.List {
		if !annotations.IsAnnotation(comment.Text) {
			continue
		}
		pos := a.fset.Position(comment.Pos())
		loc := annotations.SourceLocation{File: pos.Filename, Line: pos.Line, Column: pos.Column}

		annotation, err := a.parser.ParseAnnotation(comment.Text, loc)
		if err != nil {
			a.errs.Add(errors.WrapParseError("annotation on "+typeName, toolLocation(loc), err))
			continue
		}
		parsed = append(parsed, models.Annotation{ParsedAnnotation: annotation, TypeName: typeName})
	}
	return parsed
}

func toolLocation(loc annotations.SourceLocation) errors.SourceLocation {
	return errors.SourceLocation{File: loc.File, Line: loc.Line, Column: loc.Column}
}

// collectCapabilities gathers the interfaces declared in the scanned
// packages, followed by the closed instantiations of generic ones that the
// scanned code mentions.
func (a *analysis) collectCapabilities(pkgs []*sourcePackage) {
	byOrigin := make(map[*types.TypeName]*capability)

	for _, d := range a.decls {
		iface, ok := bindable(d.named)
		if !ok {
			continue
		}
		ref := refFor(d.named)
		if autoinject.IsMarker(ref) {
			continue
		}
		c := &capability{
			named:     d.named,
			iface:     iface,
			ref:       ref,
			arity:     d.named.TypeParams().Len(),
			lifetimes: d.lifetimes(),
		}
		a.capabilities = append(a.capabilities, c)
		byOrigin[d.named.Obj()] = c
	}

	seen := make(map[string]bool)
	for _, pkg := range pkgs {
		idents := make([]*ast.Ident, 0, len(pkg.info.Instances))
		for ident := range pkg.info.Instances {
			idents = append(idents, ident)
		}
		sort.Slice(idents, func(i, j int) bool { return idents[i].Pos() < idents[j].Pos() })

		for _, ident := range idents {
			inst, ok := types.Unalias(pkg.info.Instances[ident].Type).(*types.Named)
			if !ok || hasTypeParam(inst) {
				continue
			}
			origin, ok := byOrigin[inst.Origin().Obj()]
			if !ok {
				continue
			}
			ref := refFor(inst)
			if seen[ref.Key()] {
				continue
			}
			seen[ref.Key()] = true

			iface, ok := inst.Underlying().(*types.Interface)
			if !ok {
				continue
			}
			a.capabilities = append(a.capabilities, &capability{
				named:     inst,
				iface:     iface,
				ref:       ref,
				lifetimes: origin.lifetimes,
			})
		}
	}
}

// bindable reports whether named is an interface that can serve as a
// service: it must have methods and must not be a type constraint
func bindable(named *types.Named) (*types.Interface, bool) {
	iface, ok := named.Underlying().(*types.Interface)
	if !ok || !iface.IsMethodSet() || iface.NumMethods() == 0 {
		return nil, false
	}
	return iface, true
}

// describe builds the TypeMetadata of d and appends it to its package
func (a *analysis) describe(d *declaredType) {
	pos := a.fset.Position(d.spec.Pos())
	meta := models.TypeMetadata{
		Name:        d.named.Obj().Name(),
		Kind:        kindOf(d.named),
		TypeParams:  typeParamNames(d.named.TypeParams()),
		Ref:         refFor(d.named),
		Annotations: d.annotations,
		FileName:    pos.Filename,
		Line:        pos.Line,
	}
	if len(meta.TypeParams) == 0 {
		meta.TypeParams = nil
	}
	meta.Capabilities = a.capabilitiesOf(d)

	if candidate := meta.Candidate(); candidate.Injectable() {
		lifetime := autoinject.NewScanner().Classify(candidate).Lifetime
		meta.Lifetime = &lifetime
	}

	d.meta.Types = append(d.meta.Types, meta)
}

func kindOf(named *types.Named) models.TypeKind {
	switch named.Underlying().(type) {
	case *types.Struct:
		return models.TypeKindStruct
	case *types.Interface:
		return models.TypeKindInterface
	default:
		return models.TypeKindOther
	}
}

// capabilitiesOf lists, in discovery order, the interfaces d implements,
// the marker interfaces it implements structurally, and the lifetime
// markers declared by annotations on d or on the interfaces it implements.
func (a *analysis) capabilitiesOf(d *declaredType) []autoinject.TypeRef {
	subject := selfInstance(d.named)
	arity := d.named.TypeParams().Len()
	lifetimes := d.lifetimes()

	var refs []autoinject.TypeRef
	for _, c := range a.capabilities {
		if c.named.Origin().Obj() == d.named.Obj() {
			continue
		}

		iface, ref := c.iface, c.ref
		if c.arity > 0 {
			if c.arity != arity {
				continue
			}
			inst, err := types.Instantiate(nil, c.named, typeParamArgs(d.named.TypeParams()), false)
			if err != nil {
				continue
			}
			instIface, ok := inst.Underlying().(*types.Interface)
			if !ok {
				continue
			}
			iface, ref = instIface, refFor(inst.(*types.Named))
		}

		if implements(subject, iface) {
			refs = append(refs, ref)
			lifetimes = append(lifetimes, c.lifetimes...)
		}
	}

	if d.pkg.types != a.markers.pkg {
		refs = append(refs, a.markers.matching(subject)...)
	}

	for _, lifetime := range lifetimes {
		marker := autoinject.LifetimeMarker(lifetime)
		if !containsRef(refs, marker) {
			refs = append(refs, marker)
		}
	}
	return refs
}

func containsRef(refs []autoinject.TypeRef, ref autoinject.TypeRef) bool {
	for _, r := range refs {
		if r.Equal(ref) {
			return true
		}
	}
	return false
}

// exclusions turns the ignore annotations on d into exclusion rules
func (a *analysis) exclusions(d *declaredType) {
	annotated := refFor(d.named)

	for _, annotation := range d.annotations {
		if annotation.Type != annotations.IgnoreAnnotation {
			continue
		}

		rule := autoinject.ExclusionRule{
			Annotated: annotated,
			Reason:    annotation.GetString("Reason"),
		}
		if annotation.HasTarget() {
			target, ok := a.resolve(d, annotation.Target)
			if !ok {
				a.errs.Add(errors.UnresolvedTargetError(annotated.String(), annotation.Target, toolLocation(annotation.Location)))
				continue
			}
			rule.Target = &target
		}
		d.meta.Exclusions = append(d.meta.Exclusions, rule)
	}
}

// resolve looks up an ignore target. Plain names are resolved in the
// annotated type's package, qualified names through the imports of its file.
func (a *analysis) resolve(d *declaredType, name string) (autoinject.TypeRef, bool) {
	var obj types.Object
	if pkgName, typeName, qualified := strings.Cut(name, "."); qualified {
		imported := importedAs(d.pkg.info, d.file, pkgName)
		if imported == nil {
			return autoinject.TypeRef{}, false
		}
		obj = imported.Scope().Lookup(typeName)
	} else {
		obj = d.pkg.types.Scope().Lookup(name)
		if obj == nil {
			obj = types.Universe.Lookup(name)
		}
	}

	typeName, ok := obj.(*types.TypeName)
	if !ok {
		return autoinject.TypeRef{}, false
	}
	named, ok := types.Unalias(typeName.Type()).(*types.Named)
	if !ok {
		return autoinject.TypeRef{}, false
	}
	return refFor(named), true
}

func importedAs(info *types.Info, file *ast.File, localName string) *types.Package {
	for _, spec := range file.Imports {
		pkgName := info.PkgNameOf(spec)
		if pkgName != nil && pkgName.Name() == localName {
			return pkgName.Imported()
		}
	}
	return nil
}
