package main

import (
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/toyz/autoinject/internal/cli"
	"github.com/toyz/autoinject/internal/errors"
	"github.com/toyz/autoinject/internal/models"
	"github.com/toyz/autoinject/internal/utils"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	verbose  bool
	quiet    bool
	clean    bool
	help     bool
	config   string
	dir      string
	format   string
	output   string
	policy   string
	glob     string
	module   string
	variable string
}

func newFlagSet(name string, stderr io.Writer, opts *options) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.BoolVar(&opts.verbose, "verbose", false, "Enable verbose output and detailed error reporting")
	fs.BoolVar(&opts.quiet, "quiet", false, "Only show errors and final results")
	fs.BoolVar(&opts.clean, "clean", false, "Delete all autogen_registrations.go files from the matched directories")
	fs.BoolVar(&opts.help, "help", false, "Show help information")
	fs.StringVar(&opts.config, "config", "", "Path to "+cli.ConfigFileName+" (searched upwards from -dir by default)")
	fs.StringVar(&opts.dir, "dir", "", "Directory patterns are resolved against (defaults to the config file directory or .)")
	fs.StringVar(&opts.format, "format", "", "Output format: yaml, go or text")
	fs.StringVar(&opts.output, "output", "", "Manifest path for -format yaml, - for stdout")
	fs.StringVar(&opts.policy, "policy", "", "Exclusion policy: first or any")
	fs.StringVar(&opts.glob, "glob", "", "Only scan packages whose import path or name matches this glob")
	fs.StringVar(&opts.module, "module", "", "Custom module name (defaults to go.mod module)")
	fs.StringVar(&opts.variable, "variable", "", "Name of the generated registrations variable for -format go")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s [options] [package-patterns...]\n\n", name)
		fmt.Fprintf(stderr, "autoinject\n")
		fmt.Fprintf(stderr, "Scans Go packages for injectable types and emits their service registrations.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nPackage Patterns:\n")
		fmt.Fprintf(stderr, "  ./...              Scan the directory and all subdirectories (default)\n")
		fmt.Fprintf(stderr, "  ./internal/...     Scan internal and all its subdirectories\n")
		fmt.Fprintf(stderr, "  ./pkg/services     Scan only the specific directory\n")
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  %s                                  # Write %s\n", name, cli.DefaultManifestPath)
		fmt.Fprintf(stderr, "  %s -format text ./internal/...      # Print a registration table\n", name)
		fmt.Fprintf(stderr, "  %s -format go -variable Services    # Write Go registration files\n", name)
		fmt.Fprintf(stderr, "  %s -policy any -glob '*service*'    # Scan matching packages only\n", name)
		fmt.Fprintf(stderr, "  %s -clean ./...                     # Delete generated Go files\n", name)
	}
	return fs
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var opts options
	fs := newFlagSet("autoinject", stderr, &opts)
	if err := fs.Parse(args); err != nil {
		if stderrors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if opts.help {
		fs.Usage()
		return 0
	}

	var diagnostics *utils.DiagnosticSystem
	switch {
	case opts.quiet:
		diagnostics = utils.NewQuietDiagnostics()
	case opts.verbose:
		diagnostics = utils.NewVerboseDiagnostics()
	default:
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}
	if stdout != os.Stdout || stderr != os.Stderr {
		diagnostics.SetOutput(stdout, stderr)
	}

	config, err := buildConfig(fs, &opts)
	if err != nil {
		report(diagnostics, "Configuration failed", err)
		return 1
	}

	// stdout carries the table or manifest
	if config.Format == models.OutputFormatText || (config.Format == models.OutputFormatYAML && config.Output == "-") {
		diagnostics.SetOutput(stderr, stderr)
	}

	if opts.clean {
		removed, err := cli.NewCleaner().CleanGeneratedFiles(config.Dir, config.Patterns)
		if err != nil {
			report(diagnostics, "Clean operation failed", err)
			return 1
		}
		for _, file := range removed {
			diagnostics.Verbose("Removed %s", file)
		}
		diagnostics.Success("Removed %d generated files", len(removed))
		return 0
	}

	if opts.verbose {
		diagnostics.Subsection("Configuration")
		if config.ConfigPath != "" {
			diagnostics.List("Config file: %s", config.ConfigPath)
		}
		diagnostics.List("Patterns: %s", strings.Join(config.Patterns, ", "))
		diagnostics.List("Format: %s", config.Format)
		diagnostics.List("Exclusion policy: %s", config.Policy())
		if config.Glob != "" {
			diagnostics.List("Glob: %s", config.Glob)
		}
		if config.Module != "" {
			diagnostics.List("Custom module: %s", config.Module)
		}
	}

	generator := cli.NewGenerator(diagnostics)
	generator.SetOutput(stdout)
	if err := generator.Run(ctx, config); err != nil {
		report(diagnostics, "Generation failed", err)
		return 1
	}

	summary := generator.GetSummary()
	diagnostics.Summary("Scan summary", summary.Items())
	if opts.verbose {
		for _, file := range summary.RemovedFiles {
			diagnostics.List("Removed stale %s", file)
		}
	}
	diagnostics.GenerationComplete()
	return 0
}

// buildConfig layers flags over the config file over the defaults
func buildConfig(fs *flag.FlagSet, opts *options) (*cli.Config, error) {
	startDir := opts.dir
	if startDir == "" {
		startDir = "."
	}

	configPath := opts.config
	if configPath == "" {
		found, err := cli.FindConfig(startDir)
		if err != nil {
			return nil, err
		}
		configPath = found
	}

	config := cli.DefaultConfig()
	if configPath != "" {
		loaded, err := cli.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		config = loaded
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "dir":
			config.Dir = opts.dir
		case "format":
			config.Format = models.OutputFormat(opts.format)
		case "output":
			config.Output = opts.output
		case "policy":
			config.ExclusionPolicy = opts.policy
		case "glob":
			config.Glob = opts.glob
		case "module":
			config.Module = opts.module
		case "variable":
			config.Variable = opts.variable
		}
	})
	if fs.NArg() > 0 {
		config.Patterns = fs.Args()
	}

	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	dir, err := filepath.Abs(config.Dir)
	if err != nil {
		return nil, errors.WrapFileSystemError("resolve", config.Dir, err)
	}
	config.Dir = dir
	return config, nil
}

func report(diagnostics *utils.DiagnosticSystem, message string, err error) {
	diagnostics.Error("%s: %v", message, err)

	var toolErr errors.ToolError
	if stderrors.As(err, &toolErr) {
		for _, suggestion := range toolErr.Suggestions() {
			diagnostics.Info("Suggestion: %s", suggestion)
		}
	}
}
