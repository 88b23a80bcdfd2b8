package autoinject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExclusionStore_NoRulesNeverExcludes(t *testing.T) {
	store := NewExclusionStore(FirstRuleOnly)
	assert.False(t, store.IsExcluded(svc("Impl"), svc("IFoo")))
	assert.Equal(t, 0, store.Len())
}

func TestExclusionStore_TargetedRule(t *testing.T) {
	store := NewExclusionStore(FirstRuleOnly)
	store.Exclude(svc("Impl"), svc("IFoo"))

	assert.True(t, store.IsExcluded(svc("Impl"), svc("IFoo")))
	assert.False(t, store.IsExcluded(svc("Impl"), svc("IBar")))
	assert.False(t, store.IsExcluded(svc("Other"), svc("IFoo")))
}

func TestExclusionStore_UntargetedRuleExcludesEverything(t *testing.T) {
	store := NewExclusionStore(FirstRuleOnly)
	store.ExcludeAll(svc("Impl"))

	assert.True(t, store.IsExcluded(svc("Impl"), svc("IFoo")))
	assert.True(t, store.IsExcluded(svc("Impl"), svc("IBar")))
}

func TestExclusionStore_RuleOnCapabilityAppliesToEveryImplementation(t *testing.T) {
	store := NewExclusionStore(FirstRuleOnly)
	store.ExcludeAll(svc("IInternal"))

	assert.True(t, store.IsExcluded(svc("ImplA"), svc("IInternal")))
	assert.True(t, store.IsExcluded(svc("ImplB"), svc("IInternal")))
	assert.False(t, store.IsExcluded(svc("ImplA"), svc("IPublic")))
}

func TestExclusionStore_Policies(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(*ExclusionStore)
		capability TypeRef
		first      bool
		any        bool
	}{
		{
			name: "SecondRuleOnImplementation",
			setup: func(s *ExclusionStore) {
				s.Exclude(svc("Impl"), svc("IFoo"))
				s.Exclude(svc("Impl"), svc("IBar"))
			},
			capability: svc("IBar"),
			first:      false,
			any:        true,
		},
		{
			name: "FirstRuleOnImplementation",
			setup: func(s *ExclusionStore) {
				s.Exclude(svc("Impl"), svc("IFoo"))
				s.Exclude(svc("Impl"), svc("IBar"))
			},
			capability: svc("IFoo"),
			first:      true,
			any:        true,
		},
		{
			name: "CapabilityRulesComeFirst",
			setup: func(s *ExclusionStore) {
				s.Exclude(svc("IFoo"), svc("IUnrelated"))
				s.Exclude(svc("Impl"), svc("IFoo"))
			},
			capability: svc("IFoo"),
			first:      false,
			any:        true,
		},
		{
			name: "NoMatchingRule",
			setup: func(s *ExclusionStore) {
				s.Exclude(svc("Impl"), svc("IFoo"))
			},
			capability: svc("IBaz"),
			first:      false,
			any:        false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := NewExclusionStore(FirstRuleOnly)
			tt.setup(first)
			assert.Equal(t, tt.first, first.IsExcluded(svc("Impl"), tt.capability), "first policy")

			anyMatch := NewExclusionStore(AnyRuleMatches)
			tt.setup(anyMatch)
			assert.Equal(t, tt.any, anyMatch.IsExcluded(svc("Impl"), tt.capability), "any policy")
		})
	}
}

func TestExclusionStore_GenericRules(t *testing.T) {
	repo := GenericDefinition(testPkg, "IRepo", "T")
	userRepo := repo.Instantiate(svc("User"))
	orderRepo := repo.Instantiate(svc("Order"))

	t.Run("OpenTargetMatchesInstantiations", func(t *testing.T) {
		store := NewExclusionStore(FirstRuleOnly)
		store.Exclude(svc("Impl"), repo)

		assert.True(t, store.IsExcluded(svc("Impl"), userRepo))
		assert.True(t, store.IsExcluded(svc("Impl"), orderRepo))
	})

	t.Run("ClosedTargetMatchesOnlyItself", func(t *testing.T) {
		store := NewExclusionStore(FirstRuleOnly)
		store.Exclude(svc("Impl"), userRepo)

		assert.True(t, store.IsExcluded(svc("Impl"), userRepo))
		assert.False(t, store.IsExcluded(svc("Impl"), orderRepo))
	})

	t.Run("RulesOnDefinitionApplyToInstantiations", func(t *testing.T) {
		store := NewExclusionStore(FirstRuleOnly)
		store.ExcludeAll(repo)

		require.Len(t, store.RulesFor(userRepo), 1)
		assert.True(t, store.IsExcluded(svc("Impl"), userRepo))
	})
}

func TestExclusionStore_RulesKeepDeclarationOrder(t *testing.T) {
	store := NewExclusionStore(AnyRuleMatches)
	store.Exclude(svc("B"), svc("IFoo"))
	store.ExcludeAll(svc("A"))
	store.Add(ExclusionRule{Annotated: svc("B"), Reason: "legacy"})

	rules := store.Rules()
	require.Len(t, rules, 3)
	assert.Equal(t, "B", rules[0].Annotated.Name)
	assert.Equal(t, "legacy", rules[1].Reason)
	assert.Equal(t, "A", rules[2].Annotated.Name)
	assert.Equal(t, 3, store.Len())
}

func TestExclusionRule_String(t *testing.T) {
	target := svc("IFoo")
	assert.Equal(t, "services.Impl ignores services.IFoo", ExclusionRule{Annotated: svc("Impl"), Target: &target}.String())
	assert.Equal(t, "services.Impl ignores *", ExclusionRule{Annotated: svc("Impl")}.String())
}

func TestParseExclusionPolicy(t *testing.T) {
	policy, err := ParseExclusionPolicy("any")
	require.NoError(t, err)
	assert.Equal(t, AnyRuleMatches, policy)

	policy, err = ParseExclusionPolicy("")
	require.NoError(t, err)
	assert.Equal(t, FirstRuleOnly, policy)

	_, err = ParseExclusionPolicy("all")
	assert.Error(t, err)

	assert.Equal(t, "first", FirstRuleOnly.String())
	assert.Equal(t, "any", AnyRuleMatches.String())
}
