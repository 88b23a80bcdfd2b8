package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/toyz/autoinject/internal/errors"
	"github.com/toyz/autoinject/internal/models"
	"github.com/toyz/autoinject/internal/utils"
	"github.com/toyz/autoinject/pkg/autoinject"
)

// ConfigFileName is the configuration file looked up from the working
// directory upwards
const ConfigFileName = "autoinject.yaml"

// Default values used when neither the config file nor flags set a field
const (
	DefaultPattern      = "./..."
	DefaultManifestPath = "autoinject.registrations.yaml"
	DefaultVariable     = "Registrations"
)

// Config holds the configuration for a scan
type Config struct {
	// Patterns are the directories to scan; a "/..." suffix recurses
	Patterns []string `yaml:"patterns"`

	// Glob keeps only packages whose import path or last path element
	// matches, using path.Match syntax
	Glob string `yaml:"glob"`

	// ExclusionPolicy is "first" or "any"
	ExclusionPolicy string `yaml:"exclusion_policy"`

	// Format selects the output: yaml, go or text
	Format models.OutputFormat `yaml:"format"`

	// Output is the manifest path for the yaml format; "-" writes to stdout
	Output string `yaml:"output"`

	// Module overrides the module path read from go.mod
	Module string `yaml:"module"`

	// Variable names the slice declared in generated Go files
	Variable string `yaml:"variable"`

	// Dir is the directory patterns are resolved against
	Dir string `yaml:"-"`

	// ConfigPath is the file the configuration was loaded from, if any
	ConfigPath string `yaml:"-"`
}

// DefaultConfig returns a configuration with every default applied
func DefaultConfig() *Config {
	c := &Config{}
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills every unset field
func (c *Config) ApplyDefaults() {
	if len(c.Patterns) == 0 {
		c.Patterns = []string{DefaultPattern}
	}
	if c.ExclusionPolicy == "" {
		c.ExclusionPolicy = autoinject.FirstRuleOnly.String()
	}
	if c.Format == "" {
		c.Format = models.OutputFormatYAML
	}
	if c.Output == "" {
		c.Output = DefaultManifestPath
	}
	if c.Variable == "" {
		c.Variable = DefaultVariable
	}
	if c.Dir == "" {
		c.Dir = "."
	}
}

// Validate checks every field and reports the first invalid one
func (c *Config) Validate() error {
	patterns := utils.NewValidatorChain(
		utils.SliceNotEmpty[string]("patterns"),
		utils.ValidateEach("patterns", utils.NotEmpty("pattern")),
	)
	if err := patterns.Validate(c.Patterns); err != nil {
		return errors.WrapValidationError("patterns", err)
	}

	if err := utils.IsGlob("glob")(c.Glob); err != nil {
		return errors.WrapValidationError("glob", err)
	}

	if _, err := autoinject.ParseExclusionPolicy(c.ExclusionPolicy); err != nil {
		return errors.WrapValidationError("exclusion_policy", err)
	}

	formats := utils.IsOneOf("format", models.OutputFormatYAML, models.OutputFormatGo, models.OutputFormatText)
	if err := formats(c.Format); err != nil {
		return errors.WrapValidationError("format", err)
	}

	module := utils.Conditional(func(v string) bool { return v != "" }, utils.IsModulePath("module"))
	if err := module(c.Module); err != nil {
		return errors.WrapValidationError("module", err)
	}

	if err := utils.IsValidGoIdentifier("variable")(c.Variable); err != nil {
		return errors.WrapValidationError("variable", err)
	}

	return nil
}

// Policy returns the parsed exclusion policy
func (c *Config) Policy() autoinject.ExclusionPolicy {
	policy, _ := autoinject.ParseExclusionPolicy(c.ExclusionPolicy)
	return policy
}

// LoadConfig reads a configuration file. Relative patterns stay relative to
// the file's directory.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapConfigurationError(path, "read", err)
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.WrapConfigurationError(path, "parse", err)
	}

	config.ConfigPath = path
	config.Dir = filepath.Dir(path)
	return config, nil
}

// FindConfig searches startDir and its parents for ConfigFileName. It
// returns an empty path when no file exists.
func FindConfig(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", startDir, err)
	}

	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// SaveConfig writes config as YAML to path
func SaveConfig(config *Config, path string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return errors.WrapConfigurationError(path, "marshal", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.WrapFileSystemError("write", path, err)
	}
	return nil
}
