package autoinject

// TraceFunc observes the classification of every injectable candidate
// during a scan.
type TraceFunc func(candidate Candidate, classification Classification)

// Option configures a Scanner
type Option func(*Scanner)

// WithExclusions sets the exclusion rules consulted during classification
func WithExclusions(store *ExclusionStore) Option {
	return func(s *Scanner) {
		if store != nil {
			s.exclusions = store
		}
	}
}

// WithExclusionPolicy sets how exclusion rules are evaluated. Rules already
// configured are kept.
func WithExclusionPolicy(policy ExclusionPolicy) Option {
	return func(s *Scanner) {
		s.exclusions = s.exclusions.withPolicy(policy)
	}
}

// WithTrace registers fn to observe each classification
func WithTrace(fn TraceFunc) Option {
	return func(s *Scanner) {
		s.trace = fn
	}
}

// Scanner classifies candidates and emits their registrations. A Scanner is
// not safe for concurrent scans into the same container.
type Scanner struct {
	exclusions *ExclusionStore
	trace      TraceFunc
}

// NewScanner creates a scanner. Without WithExclusions it uses an empty
// FirstRuleOnly store.
func NewScanner(opts ...Option) *Scanner {
	s := &Scanner{
		exclusions: NewExclusionStore(FirstRuleOnly),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Exclusions returns the store consulted by the scanner
func (s *Scanner) Exclusions() *ExclusionStore {
	return s.exclusions
}

// Classify computes the lifetime and bindable capabilities of c.
//
// Markers are checked in the order Transient, Scoped, Singleton and each
// match overrides the previous one, so the longest-lived marker wins. Markers
// are never bindable. A classification without capabilities means c binds
// to itself.
func (s *Scanner) Classify(c Candidate) Classification {
	classification := Classification{Lifetime: Transient}

	if c.Implements(TransientMarker) {
		classification.Lifetime = Transient
	}
	if c.Implements(ScopedMarker) {
		classification.Lifetime = Scoped
	}
	if c.Implements(SingletonMarker) {
		classification.Lifetime = Singleton
	}

	for _, capability := range c.Capabilities {
		if IsMarker(capability) {
			continue
		}
		if s.exclusions.IsExcluded(c.Type, capability) {
			classification.Excluded = append(classification.Excluded, capability)
			continue
		}
		classification.Capabilities = append(classification.Capabilities, capability)
	}

	return classification
}

// Scan returns the registrations for candidates, in candidate order and,
// within a candidate, in capability discovery order. Both sides of every
// registration are normalized to their open generic form. Duplicate
// services are kept.
//
// A nil slice is an invalid argument; an empty one yields no registrations.
func (s *Scanner) Scan(candidates []Candidate) ([]Registration, error) {
	if candidates == nil {
		return nil, &ArgumentError{Param: "candidates"}
	}

	registrations := make([]Registration, 0, len(candidates))
	for _, candidate := range candidates {
		if !candidate.Injectable() {
			continue
		}

		classification := s.Classify(candidate)
		if s.trace != nil {
			s.trace(candidate, classification)
		}

		implementation := Normalize(candidate.Type)
		if classification.SelfBind() {
			registrations = append(registrations, Registration{
				Service:        implementation,
				Implementation: implementation,
				Lifetime:       classification.Lifetime,
			})
			continue
		}

		for _, capability := range classification.Capabilities {
			registrations = append(registrations, Registration{
				Service:        Normalize(capability),
				Implementation: implementation,
				Lifetime:       classification.Lifetime,
			})
		}
	}

	return registrations, nil
}

// Register scans candidates and adds every registration to container. The
// container is left untouched when an argument is invalid.
func (s *Scanner) Register(container Container, candidates []Candidate) ([]Registration, error) {
	if container == nil {
		return nil, &ArgumentError{Param: "container"}
	}

	registrations, err := s.Scan(candidates)
	if err != nil {
		return nil, err
	}

	for _, registration := range registrations {
		container.Add(registration)
	}

	return registrations, nil
}

// RegisterModules flattens the candidates of modules, in order, and
// registers them into container.
func (s *Scanner) RegisterModules(container Container, modules []Module) ([]Registration, error) {
	if modules == nil {
		return nil, &ArgumentError{Param: "modules"}
	}

	candidates := make([]Candidate, 0, len(modules))
	for _, module := range modules {
		candidates = append(candidates, module.Candidates...)
	}

	return s.Register(container, candidates)
}
