package generator

import (
	"fmt"
	"io"
	"path/filepath"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/toyz/autoinject/internal/errors"
	"github.com/toyz/autoinject/internal/models"
	"github.com/toyz/autoinject/internal/templates"
	"github.com/toyz/autoinject/internal/utils"
	"github.com/toyz/autoinject/pkg/autoinject"
)

// Generator implements the CodeGenerator interface
type Generator struct {
	enginePath string
}

// NewGenerator creates a new code generator instance
func NewGenerator() *Generator {
	return &Generator{enginePath: autoinject.PkgPath}
}

// GeneratePackageFile renders the registrations of one package as a Go file
// placed in the package directory
func (g *Generator) GeneratePackageFile(group models.PackageRegistrations, variable string) (*models.GeneratedFile, error) {
	if group.Package == nil {
		return nil, fmt.Errorf("package metadata cannot be nil")
	}
	pkg := group.Package

	source, err := templates.GenerateRegistrationsFile(templates.RegistrationsFileData{
		PackageName:   pkg.PackageName,
		Variable:      variable,
		EnginePath:    g.enginePath,
		Registrations: group.Registrations,
	})
	if err != nil {
		return nil, errors.WrapGenerateError(pkg.PackagePath, err)
	}

	filePath := filepath.Join(pkg.Dir, utils.GeneratedFileName)
	formatted, err := utils.FormatGoCode(filePath, []byte(source))
	if err != nil {
		return nil, errors.WrapGenerateError(pkg.PackagePath, err)
	}

	return &models.GeneratedFile{
		PackagePath: pkg.PackagePath,
		FilePath:    filePath,
		Content:     formatted,
	}, nil
}

// GenerateManifest encodes manifest as YAML destined for outputPath
func (g *Generator) GenerateManifest(manifest *Manifest, outputPath string) (*models.GeneratedFile, error) {
	if manifest == nil {
		return nil, fmt.Errorf("manifest cannot be nil")
	}

	content, err := yaml.Marshal(manifest)
	if err != nil {
		return nil, errors.WrapGenerateError("manifest", err)
	}

	return &models.GeneratedFile{
		FilePath: outputPath,
		Content:  content,
	}, nil
}

// WriteTable writes registrations as an aligned SERVICE/IMPLEMENTATION/
// LIFETIME table
func (g *Generator) WriteTable(w io.Writer, registrations []autoinject.Registration) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if _, err := fmt.Fprint(tw, "SERVICE\tIMPLEMENTATION\tLIFETIME\n"); err != nil {
		return err
	}
	for _, registration := range registrations {
		row, err := templates.GenerateRegistrationRow(registration)
		if err != nil {
			return errors.WrapGenerateError("table", err)
		}
		if _, err := io.WriteString(tw, row); err != nil {
			return err
		}
	}

	return tw.Flush()
}

// GroupByPackage splits registrations by the package declaring their
// implementation. Groups follow the order of pkgs and keep registration
// order; packages without registrations are omitted.
func GroupByPackage(pkgs []*models.PackageMetadata, registrations []autoinject.Registration) []models.PackageRegistrations {
	byPath := make(map[string][]autoinject.Registration)
	for _, registration := range registrations {
		path := registration.Implementation.PkgPath
		byPath[path] = append(byPath[path], registration)
	}

	groups := make([]models.PackageRegistrations, 0, len(byPath))
	for _, pkg := range pkgs {
		if regs, ok := byPath[pkg.PackagePath]; ok {
			groups = append(groups, models.PackageRegistrations{
				Package:       pkg,
				Registrations: regs,
			})
		}
	}
	return groups
}
