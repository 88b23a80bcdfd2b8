package annotations

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLocation = SourceLocation{File: "services.go", Line: 12, Column: 1}

func TestIsAnnotation(t *testing.T) {
	tests := []struct {
		comment  string
		expected bool
	}{
		{"//autoinject::transient", true},
		{"// autoinject::ignore Notifier", true},
		{"   //autoinject::scoped", true},
		{"// Foo does things", false},
		{"//axon::core", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.comment, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsAnnotation(tt.comment))
		})
	}
}

func TestParseAnnotation_Lifetimes(t *testing.T) {
	parser := NewParser(DefaultRegistry())

	tests := []struct {
		comment  string
		expected AnnotationType
	}{
		{"//autoinject::transient", TransientAnnotation},
		{"//autoinject::scoped", ScopedAnnotation},
		{"// autoinject::singleton", SingletonAnnotation},
	}

	for _, tt := range tests {
		t.Run(tt.expected.String(), func(t *testing.T) {
			annotation, err := parser.ParseAnnotation(tt.comment, testLocation)
			require.NoError(t, err)

			assert.Equal(t, tt.expected, annotation.Type)
			assert.True(t, annotation.Type.IsLifetime())
			assert.False(t, annotation.HasTarget())
			assert.Empty(t, annotation.Parameters)
		})
	}
}

func TestParseAnnotation_Ignore(t *testing.T) {
	parser := NewParser(DefaultRegistry())

	tests := []struct {
		name    string
		comment string
		target  string
		reason  string
	}{
		{"ExcludeAll", "//autoinject::ignore", "", ""},
		{"LocalTarget", "//autoinject::ignore Notifier", "Notifier", ""},
		{"QualifiedTarget", "//autoinject::ignore io.Closer", "io.Closer", ""},
		{"WithReason", `//autoinject::ignore Repository -Reason="registered by hand"`, "Repository", "registered by hand"},
		{"ReasonWithoutTarget", `//autoinject::ignore -Reason="internal only"`, "", "internal only"},
		{"EscapedQuote", `//autoinject::ignore Cache -Reason="see \"cache.go\""`, "Cache", `see "cache.go"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			annotation, err := parser.ParseAnnotation(tt.comment, testLocation)
			require.NoError(t, err)

			assert.Equal(t, IgnoreAnnotation, annotation.Type)
			assert.Equal(t, tt.target, annotation.Target)
			assert.Equal(t, tt.reason, annotation.GetString("Reason"))
			assert.Equal(t, testLocation, annotation.Location)
		})
	}
}

func TestParseAnnotation_SyntaxErrors(t *testing.T) {
	parser := NewParser(DefaultRegistry())

	tests := []struct {
		name    string
		comment string
	}{
		{"NotAnAnnotation", "// plain comment"},
		{"MissingKind", "//autoinject::"},
		{"UnknownKind", "//autoinject::lazy"},
		{"DanglingEquals", "//autoinject::ignore Foo -Reason="},
		{"DuplicateParameter", `//autoinject::ignore -Reason="a" -Reason="b"`},
		{"TwoTargets", "//autoinject::ignore Foo Bar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.ParseAnnotation(tt.comment, testLocation)
			require.Error(t, err)

			var syntaxErr *SyntaxError
			require.True(t, errors.As(err, &syntaxErr), "expected SyntaxError, got %T: %v", err, err)
			assert.Equal(t, SyntaxErrorCode, syntaxErr.Code())
			assert.Equal(t, testLocation.File, syntaxErr.Location().File)
		})
	}
}

func TestParseAnnotation_SchemaViolations(t *testing.T) {
	parser := NewParser(DefaultRegistry())

	tests := []struct {
		name    string
		comment string
		code    ErrorCode
	}{
		{"TargetOnLifetime", "//autoinject::singleton Foo", SchemaErrorCode},
		{"UnknownParameter", "//autoinject::ignore Foo -Mode=Transient", ValidationErrorCode},
		{"BlankReason", `//autoinject::ignore Foo -Reason="  "`, ValidationErrorCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.ParseAnnotation(tt.comment, testLocation)
			require.Error(t, err)

			var multi *MultipleAnnotationErrors
			require.True(t, errors.As(err, &multi), "expected MultipleAnnotationErrors, got %T", err)
			assert.True(t, multi.HasType(tt.code))
		})
	}
}

func TestParseAnnotation_WithoutRegistrySkipsValidation(t *testing.T) {
	annotation, err := NewParser(nil).ParseAnnotation("//autoinject::singleton Foo -Custom", testLocation)
	require.NoError(t, err)

	assert.Equal(t, "Foo", annotation.Target)
	assert.True(t, annotation.GetBool("Custom"))
}

func TestParseAnnotation_ErrorColumnPointsAtParameter(t *testing.T) {
	_, err := NewParser(DefaultRegistry()).ParseAnnotation(`//autoinject::ignore -Reason="a" -Reason="b"`, testLocation)
	require.Error(t, err)

	var syntaxErr *SyntaxError
	require.True(t, errors.As(err, &syntaxErr))
	assert.Greater(t, syntaxErr.Location().Column, testLocation.Column)
}

func TestParseAnnotationType(t *testing.T) {
	for _, annotationType := range []AnnotationType{TransientAnnotation, ScopedAnnotation, SingletonAnnotation, IgnoreAnnotation} {
		parsed, err := ParseAnnotationType(annotationType.String())
		require.NoError(t, err)
		assert.Equal(t, annotationType, parsed)
	}

	_, err := ParseAnnotationType("core")
	assert.Error(t, err)
	assert.False(t, IgnoreAnnotation.IsLifetime())
}
