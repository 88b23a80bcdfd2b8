// Package autoinject turns a set of candidate types into service
// registrations for a dependency-injection container.
//
// A candidate opts in by carrying one of the lifetime markers
// (TransientService, ScopedService, SingletonService). The Scanner
// classifies every opted-in candidate, picks the capabilities it should be
// bound under, drops the ones an ExclusionStore rules out and emits one
// Registration per binding into a Container:
//
//	store := autoinject.NewExclusionStore(autoinject.FirstRuleOnly)
//	scanner := autoinject.NewScanner(autoinject.WithExclusions(store))
//	services := autoinject.NewCollection()
//	if _, err := scanner.Register(services, candidates); err != nil {
//		return err
//	}
//
// Candidates without a bindable capability are registered under their own
// type. Generic types are always registered in their open form so the
// container can build any instantiation later.
//
// In Go source a type opts in by embedding a marker interface:
//
//	type SessionStore struct {
//		autoinject.ScopedService
//	}
//
// Embedding two markers in one struct makes their marker methods ambiguous,
// so the struct implements neither. To give a type several lifetimes, and
// get the longest one, combine a marker with //autoinject:: annotations.
//
// When types come from the autoinject command, capabilities are the
// interfaces declared in the scanned packages. Interfaces from packages left
// out by the patterns or -glob are not bound.
//
// The scanner never constructs values; it only describes bindings.
package autoinject
