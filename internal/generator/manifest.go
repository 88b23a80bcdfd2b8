package generator

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/toyz/autoinject/pkg/autoinject"
)

// ManifestVersion is bumped when the manifest layout changes
const ManifestVersion = 1

// Manifest is the YAML document listing every registration of one scan
type Manifest struct {
	Version         int             `yaml:"version"`
	ScanID          string          `yaml:"scan_id"`
	Module          string          `yaml:"module"`
	GeneratedAt     time.Time       `yaml:"generated_at"`
	ExclusionPolicy string          `yaml:"exclusion_policy"`
	Packages        []string        `yaml:"packages"`
	Registrations   []ManifestEntry `yaml:"registrations"`
}

// ManifestEntry is one registration in a manifest
type ManifestEntry struct {
	Service        string `yaml:"service"`
	Implementation string `yaml:"implementation"`
	Lifetime       string `yaml:"lifetime"`
	SelfBinding    bool   `yaml:"self_binding,omitempty"`
}

// ManifestOption configures NewManifest
type ManifestOption func(*Manifest)

// WithClock fixes the generation time
func WithClock(now func() time.Time) ManifestOption {
	return func(m *Manifest) {
		m.GeneratedAt = now().UTC()
	}
}

// WithScanID fixes the scan identifier
func WithScanID(id string) ManifestOption {
	return func(m *Manifest) {
		m.ScanID = id
	}
}

// NewManifest builds the manifest for a scan of module. Each scan gets a
// fresh random identifier.
func NewManifest(module string, policy autoinject.ExclusionPolicy, packages []string, registrations []autoinject.Registration, opts ...ManifestOption) *Manifest {
	m := &Manifest{
		Version:         ManifestVersion,
		ScanID:          uuid.NewString(),
		Module:          module,
		GeneratedAt:     time.Now().UTC(),
		ExclusionPolicy: policy.String(),
		Packages:        append([]string{}, packages...),
		Registrations:   make([]ManifestEntry, 0, len(registrations)),
	}

	for _, registration := range registrations {
		m.Registrations = append(m.Registrations, ManifestEntry{
			Service:        QualifiedName(registration.Service),
			Implementation: QualifiedName(registration.Implementation),
			Lifetime:       registration.Lifetime.String(),
			SelfBinding:    registration.IsSelfBinding(),
		})
	}

	for _, opt := range opts {
		opt(m)
	}
	return m
}

// QualifiedName writes ref with its full import path, e.g.
// "example.com/app/store.Repo[T]"
func QualifiedName(ref autoinject.TypeRef) string {
	name := ref.Name
	if ref.PkgPath != "" {
		name = ref.PkgPath + "." + ref.Name
	}

	switch {
	case ref.IsClosed():
		args := make([]string, len(ref.Args))
		for i, arg := range ref.Args {
			args[i] = QualifiedName(arg)
		}
		return name + "[" + strings.Join(args, ", ") + "]"
	case ref.IsOpen():
		return name + "[" + strings.Join(ref.Params, ", ") + "]"
	}
	return name
}
