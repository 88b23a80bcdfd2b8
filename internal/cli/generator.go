package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/toyz/autoinject/internal/errors"
	"github.com/toyz/autoinject/internal/generator"
	"github.com/toyz/autoinject/internal/loader"
	"github.com/toyz/autoinject/internal/models"
	"github.com/toyz/autoinject/internal/utils"
	"github.com/toyz/autoinject/pkg/autoinject"
)

// GenerationSummary contains information about a completed scan
type GenerationSummary struct {
	Module            string
	PackagesScanned   int
	Candidates        int
	Injectable        int
	Registrations     int
	SelfBindings      int
	ExclusionsApplied int
	GeneratedFiles    []string
	RemovedFiles      []string
	Duration          time.Duration
}

// Items returns the summary in display order
func (s GenerationSummary) Items() []utils.SummaryItem {
	return []utils.SummaryItem{
		{Label: "Packages scanned", Value: s.PackagesScanned},
		{Label: "Candidates", Value: s.Candidates},
		{Label: "Injectable", Value: s.Injectable},
		{Label: "Registrations", Value: s.Registrations},
		{Label: "Self-bindings", Value: s.SelfBindings},
		{Label: "Exclusions applied", Value: s.ExclusionsApplied},
		{Label: "Files written", Value: len(s.GeneratedFiles)},
	}
}

// Generator coordinates the CLI scan: module resolution, package discovery,
// loading, registration and output
type Generator struct {
	scanner        *DirectoryScanner
	moduleResolver *ModuleResolver
	codeGenerator  generator.CodeGenerator
	diagnostics    *utils.DiagnosticSystem
	out            io.Writer
	now            func() time.Time
	summary        GenerationSummary
}

// NewGenerator creates a new CLI generator reporting through diagnostics
func NewGenerator(diagnostics *utils.DiagnosticSystem) *Generator {
	if diagnostics == nil {
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}
	resolver := NewModuleResolver()
	return &Generator{
		scanner:        NewDirectoryScanner(resolver),
		moduleResolver: resolver,
		codeGenerator:  generator.NewGenerator(),
		diagnostics:    diagnostics,
		out:            os.Stdout,
		now:            time.Now,
	}
}

// SetOutput sets where text tables and "-" manifests are written
func (g *Generator) SetOutput(w io.Writer) {
	g.out = w
}

// GetSummary returns the summary of the last run
func (g *Generator) GetSummary() GenerationSummary {
	return g.summary
}

// Run executes the complete generation process for config
func (g *Generator) Run(ctx context.Context, config *Config) error {
	startTime := g.now()
	g.summary = GenerationSummary{}

	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return err
	}

	baseDir, err := filepath.Abs(config.Dir)
	if err != nil {
		return errors.WrapFileSystemError("resolve", config.Dir, err)
	}

	g.diagnostics.Header(fmt.Sprintf("scanning %v", config.Patterns))
	g.diagnostics.SourcePath(baseDir)

	g.diagnostics.PhaseHeader("Discovery")
	module, err := g.moduleResolver.ResolveModule(config.Module, baseDir)
	if err != nil {
		return errors.Wrap(errors.ConfigurationErrorCode, "failed to resolve module", err).
			WithContext("dir", baseDir).
			WithSuggestion("Run inside a Go module or pass -module")
	}
	g.summary.Module = module.Path
	g.diagnostics.PhaseItem(fmt.Sprintf("Module %s", module.Path))
	g.diagnostics.Debug("Module root: %s", module.Root)

	packageDirs, err := g.scanner.ScanDirectories(baseDir, config.Patterns, module, config.Glob)
	if err != nil {
		return err
	}
	if len(packageDirs) == 0 {
		return errors.New(errors.LoadErrorCode, "no Go packages found").
			WithContext("patterns", config.Patterns).
			WithContext("glob", config.Glob).
			WithSuggestion("Check the patterns, or loosen -glob")
	}
	g.diagnostics.PhaseItem(fmt.Sprintf("Found %d packages", len(packageDirs)))
	for _, dir := range packageDirs {
		g.diagnostics.Verbose("Package %s (%s)", dir.ImportPath, dir.Dir)
	}

	g.diagnostics.PhaseHeader("Analysis")
	result, err := g.load(ctx, module, packageDirs)
	if err != nil {
		return err
	}
	g.summary.PackagesScanned = len(result.Packages)

	registrations, err := g.register(result, config.Policy())
	if err != nil {
		return err
	}
	g.diagnostics.PhaseItem(fmt.Sprintf("%d registrations from %d injectable types", g.summary.Registrations, g.summary.Injectable))

	g.diagnostics.PhaseHeader("Output")
	if err := g.writeOutput(config, baseDir, module, packageDirs, result, registrations); err != nil {
		return err
	}

	g.summary.Duration = g.now().Sub(startTime)
	return nil
}

// load type-checks the discovered packages together
func (g *Generator) load(ctx context.Context, module ModuleInfo, packageDirs []PackageDir) (*loader.Result, error) {
	patterns := make([]string, 0, len(packageDirs))
	for _, dir := range packageDirs {
		patterns = append(patterns, dir.Dir)
	}

	g.diagnostics.PhaseProgress(fmt.Sprintf("Loading %d packages", len(patterns)))
	result, err := loader.NewLoader().LoadPackages(ctx, module.Root, patterns...)
	if err != nil {
		return nil, err
	}

	for _, pkg := range result.Packages {
		for _, rule := range pkg.Exclusions {
			g.diagnostics.Debug("Exclusion rule %s", rule)
		}
	}
	return result, nil
}

// register runs the engine over every loaded package
func (g *Generator) register(result *loader.Result, policy autoinject.ExclusionPolicy) ([]autoinject.Registration, error) {
	trace := func(candidate autoinject.Candidate, classification autoinject.Classification) {
		g.summary.Injectable++
		g.summary.ExclusionsApplied += len(classification.Excluded)
		for _, excluded := range classification.Excluded {
			g.diagnostics.Debug("%s: not bound to %s", candidate.Type, excluded)
		}
	}

	scanner := autoinject.NewScanner(
		autoinject.WithExclusions(result.Exclusions(policy)),
		autoinject.WithTrace(trace),
	)

	collection := autoinject.NewCollection()
	registrations, err := scanner.RegisterModules(collection, result.Modules())
	if err != nil {
		return nil, errors.WrapGenerateError("registrations", err)
	}

	g.summary.Candidates = len(result.Candidates())
	g.summary.Registrations = collection.Len()
	for _, registration := range registrations {
		if registration.IsSelfBinding() {
			g.summary.SelfBindings++
		}
		g.diagnostics.Verbose("%s", registration)
	}
	return registrations, nil
}

func (g *Generator) writeOutput(config *Config, baseDir string, module ModuleInfo, packageDirs []PackageDir, result *loader.Result, registrations []autoinject.Registration) error {
	switch config.Format {
	case models.OutputFormatText:
		return g.codeGenerator.WriteTable(g.out, registrations)

	case models.OutputFormatGo:
		return g.writePackageFiles(config, packageDirs, result, registrations)

	default:
		paths := make([]string, 0, len(result.Packages))
		for _, pkg := range result.Packages {
			paths = append(paths, pkg.PackagePath)
		}
		manifest := generator.NewManifest(module.Path, config.Policy(), paths, registrations,
			generator.WithClock(g.now))

		outputPath := config.Output
		if outputPath != "-" && !filepath.IsAbs(outputPath) {
			outputPath = filepath.Join(baseDir, outputPath)
		}

		file, err := g.codeGenerator.GenerateManifest(manifest, outputPath)
		if err != nil {
			return err
		}
		if outputPath == "-" {
			_, err := g.out.Write(file.Content)
			return err
		}
		return g.writeFile(file)
	}
}

// writePackageFiles writes one file per package with registrations and
// removes stale files from scanned packages that no longer have any
func (g *Generator) writePackageFiles(config *Config, packageDirs []PackageDir, result *loader.Result, registrations []autoinject.Registration) error {
	groups := generator.GroupByPackage(result.Packages, registrations)

	written := make(map[string]bool, len(groups))
	for _, group := range groups {
		file, err := g.codeGenerator.GeneratePackageFile(group, config.Variable)
		if err != nil {
			return err
		}
		if err := g.writeFile(file); err != nil {
			return err
		}
		written[filepath.Clean(group.Package.Dir)] = true
	}

	processor := utils.NewFileProcessor()
	for _, dir := range packageDirs {
		if written[filepath.Clean(dir.Dir)] {
			continue
		}
		removed, err := processor.CleanGenerated(dir.Dir, false)
		if err != nil {
			return err
		}
		for _, file := range removed {
			g.diagnostics.PhaseProgress(fmt.Sprintf("Removing stale %s", file))
		}
		g.summary.RemovedFiles = append(g.summary.RemovedFiles, removed...)
	}
	return nil
}

func (g *Generator) writeFile(file *models.GeneratedFile) error {
	g.diagnostics.PhaseProgress(fmt.Sprintf("Writing %s", file.FilePath))

	if err := os.MkdirAll(filepath.Dir(file.FilePath), 0755); err != nil {
		return errors.WrapFileSystemError("create directory for", file.FilePath, err)
	}
	if err := os.WriteFile(file.FilePath, file.Content, 0644); err != nil {
		return errors.WrapFileSystemError("write", file.FilePath, err)
	}

	g.summary.GeneratedFiles = append(g.summary.GeneratedFiles, file.FilePath)
	return nil
}
