package loader

import (
	"context"
	"fmt"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"path/filepath"
	"sort"

	"golang.org/x/tools/go/packages"

	"github.com/toyz/autoinject/internal/annotations"
	"github.com/toyz/autoinject/internal/errors"
	"github.com/toyz/autoinject/internal/models"
	"github.com/toyz/autoinject/pkg/autoinject"
)

// Loader discovers injectable candidates and exclusion rules in Go packages
type Loader struct {
	fileSet *token.FileSet
	parser  annotations.ParserEngine
	filter  func(pkgPath string) bool
}

// Option configures a Loader
type Option func(*Loader)

// WithFilter keeps only the packages whose import path satisfies keep
func WithFilter(keep func(pkgPath string) bool) Option {
	return func(l *Loader) {
		l.filter = keep
	}
}

// NewLoader creates a loader that validates annotations against the
// built-in schemas
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		fileSet: token.NewFileSet(),
		parser:  annotations.NewParser(annotations.DefaultRegistry()),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// FileSet returns the file set positions are reported against
func (l *Loader) FileSet() *token.FileSet {
	return l.fileSet
}

// Result holds the metadata of every scanned package, in load order
type Result struct {
	Packages []*models.PackageMetadata
}

// Modules converts each package into an engine module
func (r *Result) Modules() []autoinject.Module {
	modules := make([]autoinject.Module, 0, len(r.Packages))
	for _, pkg := range r.Packages {
		modules = append(modules, pkg.Module())
	}
	return modules
}

// Candidates flattens the candidates of every package
func (r *Result) Candidates() []autoinject.Candidate {
	candidates := make([]autoinject.Candidate, 0)
	for _, pkg := range r.Packages {
		candidates = append(candidates, pkg.Candidates()...)
	}
	return candidates
}

// Exclusions builds a store holding every rule found, evaluated with policy
func (r *Result) Exclusions(policy autoinject.ExclusionPolicy) *autoinject.ExclusionStore {
	store := autoinject.NewExclusionStore(policy)
	for _, pkg := range r.Packages {
		for _, rule := range pkg.Exclusions {
			store.Add(rule)
		}
	}
	return store
}

// Package returns the metadata for an import path, or nil
func (r *Result) Package(pkgPath string) *models.PackageMetadata {
	for _, pkg := range r.Packages {
		if pkg.PackagePath == pkgPath {
			return pkg
		}
	}
	return nil
}

// ParseSource parses and type-checks a single file. The package name is
// used as its import path.
func (l *Loader) ParseSource(filename, source string) (*Result, error) {
	file, err := parser.ParseFile(l.fileSet, filename, source, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}
	return l.check(file.Name.Name, "", []*ast.File{file})
}

// ParseFiles parses and type-checks files as one package with import path
// pkgPath. Files are processed in name order.
func (l *Loader) ParseFiles(pkgPath string, files map[string]string) (*Result, error) {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	parsed := make([]*ast.File, 0, len(names))
	for _, name := range names {
		file, err := parser.ParseFile(l.fileSet, name, files[name], parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		parsed = append(parsed, file)
	}
	if len(parsed) == 0 {
		return &Result{}, nil
	}
	return l.check(pkgPath, "", parsed)
}

func (l *Loader) check(pkgPath, dir string, files []*ast.File) (*Result, error) {
	info := newInfo()
	var typeErrs []error
	conf := types.Config{
		Importer: &sourceImporter{
			markers:  newMarkerPackage(),
			fallback: importer.Default(),
		},
		Error: func(err error) {
			typeErrs = append(typeErrs, err)
		},
	}

	pkg, _ := conf.Check(pkgPath, l.fileSet, files, info)
	if len(typeErrs) > 0 {
		return nil, errors.WrapTypeCheckError(pkgPath, typeErrs[0]).
			WithContext("errors", len(typeErrs))
	}

	return l.analyze([]*sourcePackage{{
		path:  pkgPath,
		name:  pkg.Name(),
		dir:   dir,
		types: pkg,
		files: files,
		info:  info,
	}})
}

func newInfo() *types.Info {
	return &types.Info{
		Types:     make(map[ast.Expr]types.TypeAndValue),
		Defs:      make(map[*ast.Ident]types.Object),
		Uses:      make(map[*ast.Ident]types.Object),
		Implicits: make(map[ast.Node]types.Object),
		Instances: make(map[*ast.Ident]types.Instance),
	}
}

// loadMode is what the analysis needs: syntax and full type information for
// the matched packages, export data for their dependencies
const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// LoadPackages loads the packages matching patterns, relative to dir, and
// analyzes them together so interfaces declared in one package are
// discovered on implementations in another.
func (l *Loader) LoadPackages(ctx context.Context, dir string, patterns ...string) (*Result, error) {
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	cfg := &packages.Config{
		Context: ctx,
		Mode:    loadMode,
		Dir:     dir,
		Fset:    l.fileSet,
	}

	loaded, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, errors.WrapLoadError(fmt.Sprint(patterns), err)
	}

	loadErrs := errors.NewMultipleErrors()
	var pkgs []*sourcePackage
	for _, pkg := range loaded {
		for _, pkgErr := range pkg.Errors {
			loadErrs.Add(errors.WrapTypeCheckError(pkg.PkgPath, pkgErr))
		}
		if len(pkg.Errors) > 0 || len(pkg.Syntax) == 0 || pkg.Types == nil {
			continue
		}
		if l.filter != nil && !l.filter(pkg.PkgPath) {
			continue
		}
		pkgs = append(pkgs, &sourcePackage{
			path:  pkg.PkgPath,
			name:  pkg.Name,
			dir:   packageDir(pkg),
			types: pkg.Types,
			files: pkg.Syntax,
			info:  pkg.TypesInfo,
		})
	}
	if err := loadErrs.ErrOrNil(); err != nil {
		return nil, err
	}

	sort.SliceStable(pkgs, func(i, j int) bool { return pkgs[i].path < pkgs[j].path })
	return l.analyze(pkgs)
}

func packageDir(pkg *packages.Package) string {
	if len(pkg.GoFiles) > 0 {
		return filepath.Dir(pkg.GoFiles[0])
	}
	return ""
}
