package models

import "github.com/toyz/autoinject/pkg/autoinject"

// PackageMetadata represents everything discovered in a package
type PackageMetadata struct {
	PackageName string                     // name of the Go package
	PackagePath string                     // import path of the package
	Dir         string                     // file system path to the package
	Files       []string                   // Go files that were scanned
	Types       []TypeMetadata             // named types in declaration order
	Exclusions  []autoinject.ExclusionRule // rules declared by ignore annotations
}

// Candidates returns the engine candidates for every declared type
func (p *PackageMetadata) Candidates() []autoinject.Candidate {
	candidates := make([]autoinject.Candidate, 0, len(p.Types))
	for i := range p.Types {
		candidates = append(candidates, p.Types[i].Candidate())
	}
	return candidates
}

// Module converts the package into an engine module
func (p *PackageMetadata) Module() autoinject.Module {
	return autoinject.Module{
		Path:       p.PackagePath,
		Candidates: p.Candidates(),
	}
}

// FindType returns the named type, or nil
func (p *PackageMetadata) FindType(name string) *TypeMetadata {
	for i := range p.Types {
		if p.Types[i].Name == name {
			return &p.Types[i]
		}
	}
	return nil
}
