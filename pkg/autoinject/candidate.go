package autoinject

// Candidate describes one type considered for registration.
type Candidate struct {
	// Type is the candidate's own type. Generic candidates are usually
	// given as open definitions.
	Type TypeRef

	// Abstract marks interfaces and other types that cannot be
	// registered as an implementation.
	Abstract bool

	// Capabilities lists every capability the type implements, markers
	// included, in the order they were discovered.
	Capabilities []TypeRef
}

// Implements reports whether capability is in c's capability list
func (c Candidate) Implements(capability TypeRef) bool {
	for _, have := range c.Capabilities {
		if have.Equal(capability) {
			return true
		}
	}
	return false
}

// Injectable reports whether c is concrete and carries at least one
// lifetime marker.
func (c Candidate) Injectable() bool {
	if c.Abstract {
		return false
	}
	for _, capability := range c.Capabilities {
		if IsLifetimeMarker(capability) {
			return true
		}
	}
	return false
}

// Module is a named group of candidates, such as one Go package.
type Module struct {
	Path       string
	Candidates []Candidate
}

// Classification is the outcome of classifying one candidate.
type Classification struct {
	Lifetime Lifetime

	// Capabilities are the bindable capabilities, in discovery order.
	Capabilities []TypeRef

	// Excluded are the capabilities dropped by exclusion rules.
	Excluded []TypeRef
}

// SelfBind reports whether the candidate must be registered under its own type
func (c Classification) SelfBind() bool {
	return len(c.Capabilities) == 0
}

// Registration binds a service to the implementation that satisfies it.
type Registration struct {
	Service        TypeRef
	Implementation TypeRef
	Lifetime       Lifetime
}

// IsSelfBinding reports whether the implementation is registered as itself
func (r Registration) IsSelfBinding() bool {
	return r.Service.Equal(r.Implementation)
}

// String returns "Service => Implementation (Lifetime)"
func (r Registration) String() string {
	return r.Service.String() + " => " + r.Implementation.String() + " (" + r.Lifetime.String() + ")"
}
