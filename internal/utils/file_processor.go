package utils

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/toyz/autoinject/internal/errors"
)

// GeneratedFileName is the file written into each package by the go output
const GeneratedFileName = "autogen_registrations.go"

// FileProcessor provides utilities for common file processing operations
type FileProcessor struct {
	fileReader *FileReader
}

// NewFileProcessor creates a new file processor
func NewFileProcessor() *FileProcessor {
	return &FileProcessor{
		fileReader: NewFileReader(),
	}
}

// NewFileProcessorWithReader creates a file processor with an existing FileReader
func NewFileProcessorWithReader(reader *FileReader) *FileProcessor {
	return &FileProcessor{
		fileReader: reader,
	}
}

// FileReader returns the underlying reader
func (fp *FileProcessor) FileReader() *FileReader {
	return fp.fileReader
}

// FileFilter defines a function that determines whether a file should be processed
type FileFilter func(path string, info os.DirEntry) bool

// DirectoryFilter defines a function that determines whether a directory should be processed
type DirectoryFilter func(path string, info os.DirEntry) bool

// FileWalkOptions configures file walking behavior
type FileWalkOptions struct {
	FileFilter      FileFilter
	DirectoryFilter DirectoryFilter
	SkipErrors      bool
}

// DefaultGoFileFilter filters for .go files, excluding tests and autogen files
func DefaultGoFileFilter() FileFilter {
	return func(path string, info os.DirEntry) bool {
		if info.IsDir() {
			return false
		}

		name := info.Name()
		return strings.HasSuffix(name, ".go") &&
			!strings.HasSuffix(name, "_test.go") &&
			!strings.HasPrefix(name, "autogen_")
	}
}

// GeneratedFileFilter matches the files this tool generates
func GeneratedFileFilter() FileFilter {
	return func(path string, info os.DirEntry) bool {
		return !info.IsDir() && info.Name() == GeneratedFileName
	}
}

// DefaultDirectoryFilter skips common directories that shouldn't contain source code
func DefaultDirectoryFilter() DirectoryFilter {
	skipDirs := map[string]bool{
		"vendor":       true,
		"node_modules": true,
		"testdata":     true,
		"build":        true,
		"dist":         true,
	}

	return func(path string, info os.DirEntry) bool {
		if !info.IsDir() {
			return true
		}

		name := info.Name()

		// Hidden and underscore directories are ignored by the go command too
		if len(name) > 1 && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
			return false
		}

		return !skipDirs[name]
	}
}

// WalkFiles walks a directory tree and returns the files passing the
// filters, in lexical order. The root itself is never filtered out.
func (fp *FileProcessor) WalkFiles(rootDir string, options FileWalkOptions) ([]string, error) {
	var matchedFiles []string

	err := filepath.WalkDir(rootDir, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			if options.SkipErrors {
				return nil
			}
			return err
		}

		if entry.IsDir() {
			if path != rootDir && options.DirectoryFilter != nil && !options.DirectoryFilter(path, entry) {
				return filepath.SkipDir
			}
			return nil
		}

		if options.FileFilter == nil || options.FileFilter(path, entry) {
			matchedFiles = append(matchedFiles, path)
		}
		return nil
	})

	return matchedFiles, err
}

// PackageDirs returns the directories holding Go source under root. Without
// recursive only root itself is considered. Results are sorted.
func (fp *FileProcessor) PackageDirs(root string, recursive bool) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.WrapFileSystemError("resolve", root, err)
	}

	if !recursive {
		ok, err := fp.HasGoFiles(absRoot)
		if err != nil {
			return nil, errors.WrapFileSystemError("read", absRoot, err)
		}
		if !ok {
			return nil, nil
		}
		return []string{absRoot}, nil
	}

	files, err := fp.WalkFiles(absRoot, FileWalkOptions{
		FileFilter:      DefaultGoFileFilter(),
		DirectoryFilter: DefaultDirectoryFilter(),
	})
	if err != nil {
		return nil, errors.WrapFileSystemError("walk", absRoot, err)
	}

	seen := make(map[string]bool)
	var dirs []string
	for _, file := range files {
		dir := filepath.Dir(file)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

// HasGoFiles checks if a directory contains any .go files (excluding test files and autogen files)
func (fp *FileProcessor) HasGoFiles(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, err
	}

	fileFilter := DefaultGoFileFilter()
	for _, entry := range entries {
		if fileFilter(filepath.Join(dir, entry.Name()), entry) {
			return true, nil
		}
	}

	return false, nil
}

// CleanGenerated removes generated files under root, or only in root when
// recursive is false. It returns the removed paths.
func (fp *FileProcessor) CleanGenerated(root string, recursive bool) ([]string, error) {
	var candidates []string
	if recursive {
		files, err := fp.WalkFiles(root, FileWalkOptions{
			FileFilter:      GeneratedFileFilter(),
			DirectoryFilter: DefaultDirectoryFilter(),
			SkipErrors:      true,
		})
		if err != nil {
			return nil, errors.WrapFileSystemError("walk", root, err)
		}
		candidates = files
	} else {
		candidate := filepath.Join(root, GeneratedFileName)
		if _, err := os.Stat(candidate); err == nil {
			candidates = append(candidates, candidate)
		}
	}

	var removed []string
	for _, file := range candidates {
		if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
			return removed, errors.WrapFileSystemError("remove", file, err)
		}
		fp.fileReader.InvalidateFile(file)
		removed = append(removed, file)
	}
	return removed, nil
}
