package autoinject

import (
	"fmt"
	"strings"
)

// Lifetime is the reuse scope of a registered service. Values are ordered:
// Transient < Scoped < Singleton.
type Lifetime int

const (
	// Transient builds a new instance for every request.
	Transient Lifetime = iota
	// Scoped shares one instance per logical unit of work.
	Scoped
	// Singleton shares one instance for the life of the process.
	Singleton
)

// String returns the canonical name of the lifetime
func (l Lifetime) String() string {
	switch l {
	case Transient:
		return "Transient"
	case Scoped:
		return "Scoped"
	case Singleton:
		return "Singleton"
	default:
		return fmt.Sprintf("Lifetime(%d)", int(l))
	}
}

// ParseLifetime converts a lifetime name (case-insensitive) to a Lifetime
func ParseLifetime(s string) (Lifetime, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "transient":
		return Transient, nil
	case "scoped":
		return Scoped, nil
	case "singleton":
		return Singleton, nil
	default:
		return Transient, fmt.Errorf("unknown lifetime %q: must be Transient, Scoped or Singleton", s)
	}
}

// MarshalText implements encoding.TextMarshaler
func (l Lifetime) MarshalText() ([]byte, error) {
	if l < Transient || l > Singleton {
		return nil, fmt.Errorf("cannot marshal %s", l)
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (l *Lifetime) UnmarshalText(text []byte) error {
	parsed, err := ParseLifetime(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
