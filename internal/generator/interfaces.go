package generator

import (
	"io"

	"github.com/toyz/autoinject/internal/models"
	"github.com/toyz/autoinject/pkg/autoinject"
)

// CodeGenerator turns scan results into output files
type CodeGenerator interface {
	GeneratePackageFile(group models.PackageRegistrations, variable string) (*models.GeneratedFile, error)
	GenerateManifest(manifest *Manifest, outputPath string) (*models.GeneratedFile, error)
	WriteTable(w io.Writer, registrations []autoinject.Registration) error
}
