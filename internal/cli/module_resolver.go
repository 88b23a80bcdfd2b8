package cli

import (
	"fmt"
	"path/filepath"

	"github.com/toyz/autoinject/internal/utils"
)

// ModuleInfo describes the module being scanned
type ModuleInfo struct {
	Path string // module path used for imports
	Root string // directory holding go.mod
}

// ModuleResolver handles resolving Go module information
type ModuleResolver struct {
	goModParser *utils.GoModParser
}

// NewModuleResolver creates a new module resolver
func NewModuleResolver() *ModuleResolver {
	return NewModuleResolverWithReader(utils.NewFileReader())
}

// NewModuleResolverWithReader creates a module resolver sharing reader's cache
func NewModuleResolverWithReader(reader *utils.FileReader) *ModuleResolver {
	return &ModuleResolver{
		goModParser: utils.NewGoModParser(reader),
	}
}

// ResolveModule finds the module containing dir. A non-empty customModule
// replaces the path read from go.mod; the root is still taken from go.mod
// when one exists, otherwise dir itself is the root.
func (r *ModuleResolver) ResolveModule(customModule, dir string) (ModuleInfo, error) {
	modulePath, root, err := r.goModParser.ModuleForDir(dir)
	if err != nil {
		if customModule == "" {
			return ModuleInfo{}, fmt.Errorf("failed to determine module name: %w (consider using -module flag)", err)
		}
		absDir, absErr := filepath.Abs(dir)
		if absErr != nil {
			return ModuleInfo{}, fmt.Errorf("failed to resolve %s: %w", dir, absErr)
		}
		return ModuleInfo{Path: customModule, Root: absDir}, nil
	}

	if customModule != "" {
		modulePath = customModule
	}
	return ModuleInfo{Path: modulePath, Root: root}, nil
}

// BuildPackagePath builds the full import path for a package directory
func (r *ModuleResolver) BuildPackagePath(module ModuleInfo, packageDir string) (string, error) {
	absPackageDir, err := filepath.Abs(packageDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve package directory: %w", err)
	}
	return utils.ImportPathFor(module.Path, module.Root, absPackageDir)
}
