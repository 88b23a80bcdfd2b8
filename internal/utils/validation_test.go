package utils

import (
	"errors"
	"strings"
	"testing"
)

func TestValidationError(t *testing.T) {
	withField := ValidationError{Field: "format", Message: "cannot be empty"}
	if got := withField.Error(); got != "validation error for field 'format': cannot be empty" {
		t.Errorf("unexpected message %q", got)
	}

	bare := ValidationError{Message: "bad"}
	if got := bare.Error(); got != "validation error: bad" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestValidators(t *testing.T) {
	tests := []struct {
		name    string
		check   func() error
		wantErr bool
	}{
		{"NotEmptyOK", func() error { return NotEmpty("f")("x") }, false},
		{"NotEmptyFails", func() error { return NotEmpty("f")("") }, true},
		{"IdentifierOK", func() error { return IsValidGoIdentifier("f")("Registrations") }, false},
		{"IdentifierFails", func() error { return IsValidGoIdentifier("f")("9lives") }, true},
		{"OneOfOK", func() error { return IsOneOf("f", "yaml", "go")("go") }, false},
		{"OneOfFails", func() error { return IsOneOf("f", "yaml", "go")("xml") }, true},
		{"GlobOK", func() error { return IsGlob("f")("*service?") }, false},
		{"GlobFails", func() error { return IsGlob("f")("[") }, true},
		{"ModulePathOK", func() error { return IsModulePath("f")("github.com/acme/app") }, false},
		{"ModulePathFails", func() error { return IsModulePath("f")("not a path") }, true},
		{"SliceOK", func() error { return SliceNotEmpty[string]("f")([]string{"./..."}) }, false},
		{"SliceFails", func() error { return SliceNotEmpty[string]("f")(nil) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.check()
			if tt.wantErr && err == nil {
				t.Error("expected an error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateEach(t *testing.T) {
	validator := ValidateEach("patterns", NotEmpty("pattern"))

	if err := validator([]string{"./...", "./cmd"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err := validator([]string{"./...", ""})
	var validationErr ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if validationErr.Field != "patterns[1]" {
		t.Errorf("expected field patterns[1], got %s", validationErr.Field)
	}
}

func TestValidatorChain(t *testing.T) {
	chain := NewValidatorChain(NotEmpty("module")).
		Add(Conditional(func(v string) bool { return !strings.HasPrefix(v, "local") }, IsModulePath("module")))

	if err := chain.Validate(""); err == nil {
		t.Error("expected empty value to fail")
	}
	if err := chain.Validate("local thing"); err != nil {
		t.Errorf("expected conditional validator to be skipped, got %v", err)
	}
	if err := chain.Validate("bad path"); err == nil {
		t.Error("expected invalid module path to fail")
	}
}
