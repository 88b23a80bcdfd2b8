package cli

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/toyz/autoinject/internal/errors"
	"github.com/toyz/autoinject/internal/utils"
)

// PackageDir is a directory holding one Go package
type PackageDir struct {
	Dir        string // absolute directory
	ImportPath string // import path derived from the module
}

// DirectoryScanner expands directory patterns into package directories
type DirectoryScanner struct {
	fileProcessor *utils.FileProcessor
	resolver      *ModuleResolver
}

// NewDirectoryScanner creates a new directory scanner
func NewDirectoryScanner(resolver *ModuleResolver) *DirectoryScanner {
	return &DirectoryScanner{
		fileProcessor: utils.NewFileProcessor(),
		resolver:      resolver,
	}
}

// SplitPattern separates a Go-style "dir/..." pattern into its base
// directory and whether it recurses
func SplitPattern(pattern string) (string, bool) {
	if pattern == "..." {
		return ".", true
	}
	if strings.HasSuffix(pattern, "/...") {
		base := strings.TrimSuffix(pattern, "/...")
		if base == "" {
			base = "/"
		}
		return base, true
	}
	return pattern, false
}

// MatchGlob reports whether importPath, or its last element, matches glob.
// An empty glob matches everything.
func MatchGlob(glob, importPath string) bool {
	if glob == "" {
		return true
	}
	if ok, _ := path.Match(glob, importPath); ok {
		return true
	}
	ok, _ := path.Match(glob, path.Base(importPath))
	return ok
}

// ScanDirectories resolves patterns against baseDir and returns the package
// directories inside module whose import path matches glob. Each directory
// appears once, in the order first reached.
func (s *DirectoryScanner) ScanDirectories(baseDir string, patterns []string, module ModuleInfo, glob string) ([]PackageDir, error) {
	seen := make(map[string]bool)
	var result []PackageDir

	for _, pattern := range patterns {
		dir, recursive := SplitPattern(pattern)
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(baseDir, dir)
		}

		dirs, err := s.fileProcessor.PackageDirs(dir, recursive)
		if err != nil {
			return nil, err
		}

		for _, packageDir := range dirs {
			if seen[packageDir] {
				continue
			}
			seen[packageDir] = true

			importPath, err := s.resolver.BuildPackagePath(module, packageDir)
			if err != nil {
				return nil, errors.WrapFileSystemError("resolve import path for", packageDir, err)
			}
			if !MatchGlob(glob, importPath) {
				continue
			}
			result = append(result, PackageDir{Dir: packageDir, ImportPath: importPath})
		}
	}

	return result, nil
}
