package autoinject

import (
	"fmt"
	"strings"
)

// ExclusionPolicy selects how the rules gathered for one
// (implementation, capability) pair are evaluated.
type ExclusionPolicy int

const (
	// FirstRuleOnly decides on the first gathered rule alone. Rules
	// declared on the capability come before rules declared on the
	// implementation; any later rule is never consulted.
	FirstRuleOnly ExclusionPolicy = iota

	// AnyRuleMatches excludes the pair when any gathered rule matches.
	AnyRuleMatches
)

// String returns the configuration name of the policy
func (p ExclusionPolicy) String() string {
	switch p {
	case FirstRuleOnly:
		return "first"
	case AnyRuleMatches:
		return "any"
	default:
		return fmt.Sprintf("ExclusionPolicy(%d)", int(p))
	}
}

// ParseExclusionPolicy converts "first" or "any" to an ExclusionPolicy
func ParseExclusionPolicy(s string) (ExclusionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "first", "first-rule", "":
		return FirstRuleOnly, nil
	case "any", "any-rule":
		return AnyRuleMatches, nil
	default:
		return FirstRuleOnly, fmt.Errorf("unknown exclusion policy %q: must be 'first' or 'any'", s)
	}
}

// ExclusionRule forbids binding capabilities to an implementation. The rule
// is attached to Annotated, which is either a capability or an
// implementation type.
type ExclusionRule struct {
	Annotated TypeRef

	// Target is the capability the rule excludes. A nil Target excludes
	// every capability.
	Target *TypeRef

	Reason string
}

// Matches reports whether the rule excludes capability. An open generic
// target matches every instantiation of its definition.
func (r ExclusionRule) Matches(capability TypeRef) bool {
	if r.Target == nil {
		return true
	}
	if r.Target.Equal(capability) {
		return true
	}
	return r.Target.IsOpen() && capability.IsClosed() && r.Target.Equal(capability.Definition())
}

// String describes the rule for diagnostics
func (r ExclusionRule) String() string {
	target := "*"
	if r.Target != nil {
		target = r.Target.String()
	}
	return fmt.Sprintf("%s ignores %s", r.Annotated, target)
}

// ExclusionStore holds exclusion rules keyed by the type they are attached
// to. Rules attached to a generic type apply to all of its instantiations.
type ExclusionStore struct {
	policy ExclusionPolicy
	order  []string
	rules  map[string][]ExclusionRule
}

// NewExclusionStore creates an empty store evaluating rules with policy
func NewExclusionStore(policy ExclusionPolicy) *ExclusionStore {
	return &ExclusionStore{
		policy: policy,
		rules:  make(map[string][]ExclusionRule),
	}
}

// Policy returns the store's evaluation policy
func (s *ExclusionStore) Policy() ExclusionPolicy {
	return s.policy
}

func (s *ExclusionStore) withPolicy(policy ExclusionPolicy) *ExclusionStore {
	clone := NewExclusionStore(policy)
	clone.order = append(clone.order, s.order...)
	for key, rules := range s.rules {
		clone.rules[key] = append([]ExclusionRule(nil), rules...)
	}
	return clone
}

// Add attaches rule to rule.Annotated. Rules keep their insertion order.
func (s *ExclusionStore) Add(rule ExclusionRule) {
	key := Normalize(rule.Annotated).Key()
	if _, exists := s.rules[key]; !exists {
		s.order = append(s.order, key)
	}
	s.rules[key] = append(s.rules[key], rule)
}

// ExcludeAll attaches a rule to annotated that excludes every capability
func (s *ExclusionStore) ExcludeAll(annotated TypeRef) {
	s.Add(ExclusionRule{Annotated: annotated})
}

// Exclude attaches a rule to annotated that excludes capability
func (s *ExclusionStore) Exclude(annotated, capability TypeRef) {
	target := capability
	s.Add(ExclusionRule{Annotated: annotated, Target: &target})
}

// RulesFor returns the rules attached to t, in declaration order
func (s *ExclusionStore) RulesFor(t TypeRef) []ExclusionRule {
	return s.rules[Normalize(t).Key()]
}

// Rules returns every rule in the store, grouped by annotated type in the
// order the types were first seen.
func (s *ExclusionStore) Rules() []ExclusionRule {
	var all []ExclusionRule
	for _, key := range s.order {
		all = append(all, s.rules[key]...)
	}
	return all
}

// Len returns the number of rules in the store
func (s *ExclusionStore) Len() int {
	n := 0
	for _, rules := range s.rules {
		n += len(rules)
	}
	return n
}

// IsExcluded reports whether capability must not be bound to implementation.
// Rules on the capability are gathered first, then rules on the
// implementation; the store's policy decides how they are evaluated.
func (s *ExclusionStore) IsExcluded(implementation, capability TypeRef) bool {
	gathered := make([]ExclusionRule, 0, 2)
	gathered = append(gathered, s.RulesFor(capability)...)
	gathered = append(gathered, s.RulesFor(implementation)...)

	if len(gathered) == 0 {
		return false
	}

	if s.policy == FirstRuleOnly {
		return gathered[0].Matches(capability)
	}

	for _, rule := range gathered {
		if rule.Matches(capability) {
			return true
		}
	}
	return false
}
