package models

import "github.com/toyz/autoinject/pkg/autoinject"

// OutputFormat selects how registrations are written
type OutputFormat string

const (
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatGo   OutputFormat = "go"
	OutputFormatText OutputFormat = "text"
)

// GeneratedFile represents a file produced by the generator
type GeneratedFile struct {
	PackagePath string // import path the file belongs to, empty for the manifest
	FilePath    string // path where the file is written
	Content     []byte // file content
}

// PackageRegistrations groups the registrations emitted for one package
type PackageRegistrations struct {
	Package       *PackageMetadata
	Registrations []autoinject.Registration
}
