package autoinject

import "sync"

// Container receives registrations. Add is the only primitive a scan needs.
type Container interface {
	Add(registration Registration)
}

// ContainerFunc adapts a function to the Container interface
type ContainerFunc func(Registration)

// Add calls f(registration)
func (f ContainerFunc) Add(registration Registration) {
	f(registration)
}

// Collection is an in-memory Container that keeps registrations in the
// order they were added.
type Collection struct {
	mu            sync.RWMutex
	registrations []Registration
}

// NewCollection creates an empty collection
func NewCollection() *Collection {
	return &Collection{}
}

// Add appends registration
func (c *Collection) Add(registration Registration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.registrations = append(c.registrations, registration)
}

// All returns a copy of every registration, in insertion order
func (c *Collection) All() []Registration {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]Registration, len(c.registrations))
	copy(result, c.registrations)
	return result
}

// Len returns the number of registrations
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.registrations)
}

// Lookup returns every registration for service, in insertion order.
// Closed generic services are looked up by their open definition.
func (c *Collection) Lookup(service TypeRef) []Registration {
	c.mu.RLock()
	defer c.mu.RUnlock()

	key := Normalize(service).Key()
	var result []Registration
	for _, registration := range c.registrations {
		if registration.Service.Key() == key {
			result = append(result, registration)
		}
	}
	return result
}

// Resolve returns the registration that wins for service: the last one added.
func (c *Collection) Resolve(service TypeRef) (Registration, bool) {
	matches := c.Lookup(service)
	if len(matches) == 0 {
		return Registration{}, false
	}
	return matches[len(matches)-1], true
}

// Services returns each distinct registered service once, in the order it
// was first added.
func (c *Collection) Services() []TypeRef {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seen := make(map[string]bool, len(c.registrations))
	var services []TypeRef
	for _, registration := range c.registrations {
		key := registration.Service.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		services = append(services, registration.Service)
	}
	return services
}
