package autoinject

// PkgPath is the import path of this package. Marker references are
// qualified with it.
const PkgPath = "github.com/toyz/autoinject/pkg/autoinject"

// Injectable is the base marker shared by every lifetime marker. It is never
// bound as a service.
type Injectable interface {
	injectable()
}

// TransientService marks a type for registration with the Transient
// lifetime. Embed it in a struct to opt the struct in:
//
//	type Clock struct {
//		autoinject.TransientService
//	}
type TransientService interface {
	Injectable
	transient()
}

// ScopedService marks a type for registration with the Scoped lifetime.
type ScopedService interface {
	Injectable
	scoped()
}

// SingletonService marks a type for registration with the Singleton
// lifetime.
type SingletonService interface {
	Injectable
	singleton()
}

// Marker references, as they appear in a Candidate's capability list.
var (
	InjectableMarker = NewTypeRef(PkgPath, "Injectable")
	TransientMarker  = NewTypeRef(PkgPath, "TransientService")
	ScopedMarker     = NewTypeRef(PkgPath, "ScopedService")
	SingletonMarker  = NewTypeRef(PkgPath, "SingletonService")
)

// LifetimeMarker returns the marker reference that selects l
func LifetimeMarker(l Lifetime) TypeRef {
	switch l {
	case Scoped:
		return ScopedMarker
	case Singleton:
		return SingletonMarker
	default:
		return TransientMarker
	}
}

// IsLifetimeMarker reports whether t is one of the three lifetime markers
func IsLifetimeMarker(t TypeRef) bool {
	return t.Equal(TransientMarker) || t.Equal(ScopedMarker) || t.Equal(SingletonMarker)
}

// IsMarker reports whether t is a lifetime marker or the base Injectable marker
func IsMarker(t TypeRef) bool {
	return t.Equal(InjectableMarker) || IsLifetimeMarker(t)
}
