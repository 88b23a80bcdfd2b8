package autoinject

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPkg = "example.com/app/services"

func svc(name string) TypeRef {
	return NewTypeRef(testPkg, name)
}

func candidate(name string, capabilities ...TypeRef) Candidate {
	return Candidate{Type: svc(name), Capabilities: capabilities}
}

func TestScanner_SingleMarkerLifetime(t *testing.T) {
	tests := []struct {
		name     string
		marker   TypeRef
		expected Lifetime
	}{
		{"Transient", TransientMarker, Transient},
		{"Scoped", ScopedMarker, Scoped},
		{"Singleton", SingletonMarker, Singleton},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scanner := NewScanner()
			registrations, err := scanner.Scan([]Candidate{
				candidate("SelfService", InjectableMarker, tt.marker),
			})
			require.NoError(t, err)
			require.Len(t, registrations, 1)

			assert.Equal(t, tt.expected, registrations[0].Lifetime)
			assert.True(t, registrations[0].IsSelfBinding())
		})
	}
}

func TestScanner_MultipleMarkersHighestWins(t *testing.T) {
	tests := []struct {
		name     string
		markers  []TypeRef
		expected Lifetime
	}{
		{"ScopedTransient", []TypeRef{ScopedMarker, TransientMarker}, Scoped},
		{"TransientScoped", []TypeRef{TransientMarker, ScopedMarker}, Scoped},
		{"SingletonTransient", []TypeRef{SingletonMarker, TransientMarker}, Singleton},
		{"ScopedSingleton", []TypeRef{ScopedMarker, SingletonMarker}, Singleton},
		{"AllThree", []TypeRef{TransientMarker, ScopedMarker, SingletonMarker}, Singleton},
		{"AllThreeReversed", []TypeRef{SingletonMarker, ScopedMarker, TransientMarker}, Singleton},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scanner := NewScanner()
			c := candidate("MoreLifetimeService", tt.markers...)

			assert.Equal(t, tt.expected, scanner.Classify(c).Lifetime)

			registrations, err := scanner.Scan([]Candidate{c})
			require.NoError(t, err)
			require.Len(t, registrations, 1)
			assert.Equal(t, tt.expected, registrations[0].Lifetime)
		})
	}
}

func TestScanner_SkipsNonInjectableCandidates(t *testing.T) {
	scanner := NewScanner()

	registrations, err := scanner.Scan([]Candidate{
		candidate("Plain", svc("IPlain")),
		candidate("BaseMarkerOnly", InjectableMarker),
		{Type: svc("IAbstract"), Abstract: true, Capabilities: []TypeRef{TransientMarker}},
	})

	require.NoError(t, err)
	assert.Empty(t, registrations)
}

func TestScanner_OneRegistrationPerCapability(t *testing.T) {
	scanner := NewScanner()
	multi1, multi2 := svc("IMultiService1"), svc("IMultiService2")

	registrations, err := scanner.Scan([]Candidate{
		candidate("MultiService", multi1, TransientMarker, multi2),
	})
	require.NoError(t, err)
	require.Len(t, registrations, 2)

	assert.True(t, registrations[0].Service.Equal(multi1))
	assert.True(t, registrations[1].Service.Equal(multi2))
	for _, registration := range registrations {
		assert.True(t, registration.Implementation.Equal(svc("MultiService")))
		assert.Equal(t, Transient, registration.Lifetime)
	}
}

func TestScanner_PreservesOrderAndDuplicates(t *testing.T) {
	scanner := NewScanner()
	shared := svc("IShared")

	registrations, err := scanner.Scan([]Candidate{
		candidate("First", shared, SingletonMarker),
		candidate("Skipped", shared),
		candidate("Second", shared, ScopedMarker),
	})
	require.NoError(t, err)
	require.Len(t, registrations, 2)

	assert.Equal(t, "First", registrations[0].Implementation.Name)
	assert.Equal(t, "Second", registrations[1].Implementation.Name)
	assert.True(t, registrations[0].Service.Equal(registrations[1].Service))
}

func TestScanner_Scenarios(t *testing.T) {
	t.Run("A_TransientOnlySelfBinds", func(t *testing.T) {
		registrations, err := NewScanner().Scan([]Candidate{candidate("Foo", TransientMarker)})
		require.NoError(t, err)
		require.Len(t, registrations, 1)

		assert.True(t, registrations[0].Service.Equal(svc("Foo")))
		assert.True(t, registrations[0].Implementation.Equal(svc("Foo")))
		assert.Equal(t, Transient, registrations[0].Lifetime)
	})

	t.Run("B_CapabilityWithSingleton", func(t *testing.T) {
		registrations, err := NewScanner().Scan([]Candidate{
			candidate("Bar", svc("ISomething"), SingletonMarker),
		})
		require.NoError(t, err)
		require.Len(t, registrations, 1)

		assert.True(t, registrations[0].Service.Equal(svc("ISomething")))
		assert.True(t, registrations[0].Implementation.Equal(svc("Bar")))
		assert.Equal(t, Singleton, registrations[0].Lifetime)
	})

	t.Run("C_AllMarkersResolveToSingleton", func(t *testing.T) {
		registrations, err := NewScanner().Scan([]Candidate{
			candidate("Baz", TransientMarker, ScopedMarker, SingletonMarker),
		})
		require.NoError(t, err)
		require.Len(t, registrations, 1)
		assert.Equal(t, Singleton, registrations[0].Lifetime)
	})

	t.Run("D_OpenGenericBothSides", func(t *testing.T) {
		repo := GenericDefinition(testPkg, "IRepo", "T")
		qux := GenericDefinition(testPkg, "Qux", "T")

		registrations, err := NewScanner().Scan([]Candidate{{
			Type:         qux,
			Capabilities: []TypeRef{repo.Instantiate(TypeParam("T")), ScopedMarker},
		}})
		require.NoError(t, err)
		require.Len(t, registrations, 1)

		assert.True(t, registrations[0].Service.IsOpen())
		assert.True(t, registrations[0].Service.Equal(repo))
		assert.True(t, registrations[0].Implementation.IsOpen())
		assert.True(t, registrations[0].Implementation.Equal(qux))
		assert.Equal(t, Scoped, registrations[0].Lifetime)
	})

	t.Run("E_ExcludedCapabilityFallsBackToSelf", func(t *testing.T) {
		store := NewExclusionStore(FirstRuleOnly)
		store.Exclude(svc("Excluded"), svc("IFoo"))

		registrations, err := NewScanner(WithExclusions(store)).Scan([]Candidate{
			candidate("Excluded", svc("IFoo"), TransientMarker),
		})
		require.NoError(t, err)
		require.Len(t, registrations, 1)

		assert.True(t, registrations[0].IsSelfBinding())
		assert.True(t, registrations[0].Service.Equal(svc("Excluded")))
	})
}

func TestScanner_ClosedGenericImplementationIsNormalized(t *testing.T) {
	store := GenericDefinition(testPkg, "Store", "K", "V")
	closed := store.Instantiate(NewTypeRef("", "string"), svc("User"))

	registrations, err := NewScanner().Scan([]Candidate{
		{Type: closed, Capabilities: []TypeRef{SingletonMarker}},
	})
	require.NoError(t, err)
	require.Len(t, registrations, 1)

	assert.True(t, registrations[0].Implementation.Equal(store))
	assert.True(t, registrations[0].Service.Equal(store))
	assert.Equal(t, []string{"K", "V"}, registrations[0].Implementation.Params)
}

func TestScanner_ClassifyReportsExcluded(t *testing.T) {
	store := NewExclusionStore(FirstRuleOnly)
	store.Exclude(svc("Service"), svc("IHidden"))
	scanner := NewScanner(WithExclusions(store))

	classification := scanner.Classify(candidate("Service", svc("IHidden"), svc("IVisible"), ScopedMarker))

	assert.Equal(t, Scoped, classification.Lifetime)
	assert.Equal(t, []TypeRef{svc("IVisible")}, classification.Capabilities)
	assert.Equal(t, []TypeRef{svc("IHidden")}, classification.Excluded)
	assert.False(t, classification.SelfBind())
}

func TestScanner_NilArguments(t *testing.T) {
	scanner := NewScanner()

	_, err := scanner.Scan(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	var argErr *ArgumentError
	require.True(t, errors.As(err, &argErr))
	assert.Equal(t, "candidates", argErr.Param)

	_, err = scanner.RegisterModules(NewCollection(), nil)
	require.True(t, errors.As(err, &argErr))
	assert.Equal(t, "modules", argErr.Param)

	_, err = scanner.Register(nil, []Candidate{})
	require.True(t, errors.As(err, &argErr))
	assert.Equal(t, "container", argErr.Param)
}

func TestScanner_EmptyInputIsValid(t *testing.T) {
	services := NewCollection()

	registrations, err := NewScanner().Register(services, []Candidate{})
	require.NoError(t, err)
	assert.Empty(t, registrations)
	assert.Equal(t, 0, services.Len())

	registrations, err = NewScanner().RegisterModules(services, []Module{})
	require.NoError(t, err)
	assert.Empty(t, registrations)
}

func TestScanner_RegisterLeavesContainerUntouchedOnError(t *testing.T) {
	services := NewCollection()

	_, err := NewScanner().Register(services, nil)
	require.Error(t, err)
	assert.Equal(t, 0, services.Len())
}

func TestScanner_RegisterModulesFlattensInOrder(t *testing.T) {
	services := NewCollection()

	registrations, err := NewScanner().RegisterModules(services, []Module{
		{Path: "example.com/app/a", Candidates: []Candidate{candidate("A1", TransientMarker), candidate("A2", ScopedMarker)}},
		{Path: "example.com/app/empty"},
		{Path: "example.com/app/b", Candidates: []Candidate{candidate("B1", SingletonMarker)}},
	})
	require.NoError(t, err)
	require.Len(t, registrations, 3)

	all := services.All()
	require.Len(t, all, 3)
	assert.Equal(t, "A1", all[0].Implementation.Name)
	assert.Equal(t, "A2", all[1].Implementation.Name)
	assert.Equal(t, "B1", all[2].Implementation.Name)
	assert.Equal(t, registrations, all)
}

func TestScanner_TraceSeesInjectableCandidates(t *testing.T) {
	var traced []string
	scanner := NewScanner(WithTrace(func(c Candidate, classification Classification) {
		traced = append(traced, c.Type.Name+":"+classification.Lifetime.String())
	}))

	_, err := scanner.Scan([]Candidate{
		candidate("Ignored"),
		candidate("Traced", ScopedMarker),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Traced:Scoped"}, traced)
}

func TestScanner_WithNilExclusionsKeepsDefault(t *testing.T) {
	scanner := NewScanner(WithExclusions(nil))
	require.NotNil(t, scanner.Exclusions())
	assert.Equal(t, FirstRuleOnly, scanner.Exclusions().Policy())
}

func TestScanner_WithExclusionPolicyKeepsRules(t *testing.T) {
	store := NewExclusionStore(FirstRuleOnly)
	store.Exclude(svc("IFoo"), svc("IBar"))
	store.Exclude(svc("Impl"), svc("IFoo"))

	scanner := NewScanner(WithExclusions(store), WithExclusionPolicy(AnyRuleMatches))
	assert.Equal(t, AnyRuleMatches, scanner.Exclusions().Policy())
	assert.Equal(t, 2, scanner.Exclusions().Len())
	assert.Equal(t, FirstRuleOnly, store.Policy())

	c := candidate("Impl", svc("IFoo"), TransientMarker)
	assert.Equal(t, []TypeRef{svc("IFoo")}, NewScanner(WithExclusions(store)).Classify(c).Capabilities)
	assert.True(t, scanner.Classify(c).SelfBind())
}
