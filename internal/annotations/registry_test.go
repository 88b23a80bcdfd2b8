package annotations

import (
	"errors"
	"sync"
	"testing"
)

func TestNewRegistry(t *testing.T) {
	registry := NewRegistry()
	if registry == nil {
		t.Fatal("NewRegistry() returned nil")
	}

	if types := registry.ListTypes(); len(types) != 0 {
		t.Errorf("Expected empty registry, got %d types", len(types))
	}
}

func TestDefaultRegistry(t *testing.T) {
	registry1 := DefaultRegistry()
	registry2 := DefaultRegistry()

	if registry1 != registry2 {
		t.Error("DefaultRegistry() should return the same instance")
	}

	expected := []AnnotationType{TransientAnnotation, ScopedAnnotation, SingletonAnnotation, IgnoreAnnotation}
	types := registry1.ListTypes()
	if len(types) != len(expected) {
		t.Fatalf("Expected %d built-in types, got %d", len(expected), len(types))
	}
	for i, annotationType := range expected {
		if types[i] != annotationType {
			t.Errorf("ListTypes()[%d] = %s, want %s", i, types[i], annotationType)
		}
	}
}

func TestRegister(t *testing.T) {
	registry := NewRegistry()

	if err := registry.Register(IgnoreAnnotation, IgnoreAnnotationSchema); err != nil {
		t.Fatalf("Failed to register schema: %v", err)
	}
	if !registry.IsRegistered(IgnoreAnnotation) {
		t.Error("Schema should be registered")
	}

	schema, err := registry.GetSchema(IgnoreAnnotation)
	if err != nil {
		t.Fatalf("GetSchema() error = %v", err)
	}
	if !schema.AllowTarget {
		t.Error("ignore schema should allow a target")
	}

	err = registry.Register(IgnoreAnnotation, IgnoreAnnotationSchema)
	var regErr *RegistrationError
	if !errors.As(err, &regErr) {
		t.Fatalf("Expected RegistrationError for duplicate, got %v", err)
	}
	if regErr.Code() != RegistrationErrorCode {
		t.Errorf("Code() = %s, want %s", regErr.Code(), RegistrationErrorCode)
	}
}

func TestRegister_MismatchedType(t *testing.T) {
	registry := NewRegistry()

	err := registry.Register(ScopedAnnotation, TransientAnnotationSchema)
	if err == nil {
		t.Fatal("Expected error when schema type differs from registered type")
	}
	if registry.IsRegistered(ScopedAnnotation) {
		t.Error("Scoped should not be registered after a failed Register")
	}
}

func TestRegister_InvalidParameterSpec(t *testing.T) {
	registry := NewRegistry()

	schema := AnnotationSchema{
		Type: IgnoreAnnotation,
		Parameters: map[string]ParameterSpec{
			"Reason": {Type: StringType, DefaultValue: 42},
		},
	}

	if err := registry.Register(IgnoreAnnotation, schema); err == nil {
		t.Error("Expected error for mistyped default value")
	}
}

func TestGetSchema_Unregistered(t *testing.T) {
	if _, err := NewRegistry().GetSchema(SingletonAnnotation); err == nil {
		t.Error("Expected error for unregistered type")
	}
}

func TestRegistry_ConcurrentReads(t *testing.T) {
	registry := DefaultRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, annotationType := range registry.ListTypes() {
				if _, err := registry.GetSchema(annotationType); err != nil {
					t.Errorf("GetSchema(%s) error = %v", annotationType, err)
				}
			}
		}()
	}
	wg.Wait()
}
