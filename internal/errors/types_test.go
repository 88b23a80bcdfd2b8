package errors

import (
	stderrors "errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseError_Format(t *testing.T) {
	err := New(LoadErrorCode, "boom")
	assert.Equal(t, "boom", err.Error())

	err.WithLocation(SourceLocation{File: "a.go", Line: 3, Column: 7})
	assert.Equal(t, "a.go:3:7: boom", err.Error())

	wrapped := Wrap(FileSystemErrorCode, "failed to read", fs.ErrNotExist)
	assert.Equal(t, "failed to read: file does not exist", wrapped.Error())
	assert.True(t, stderrors.Is(wrapped, fs.ErrNotExist))
}

func TestSourceLocation_String(t *testing.T) {
	assert.Equal(t, "unknown location", SourceLocation{}.String())
	assert.Equal(t, "a.go", SourceLocation{File: "a.go"}.String())
	assert.Equal(t, "a.go:4", SourceLocation{File: "a.go", Line: 4}.String())
}

func TestUnresolvedTargetError(t *testing.T) {
	err := UnresolvedTargetError("services.Mailer", "Notifer", SourceLocation{File: "mailer.go", Line: 9})

	assert.Equal(t, ExclusionErrorCode, err.ErrorCode())
	assert.Contains(t, err.Error(), "mailer.go:9")
	assert.Contains(t, err.Error(), "'Notifer'")
	assert.Equal(t, "Notifer", err.Context()["target"])
	assert.NotEmpty(t, err.Suggestions())
}

func TestMultipleErrors(t *testing.T) {
	var multi *MultipleErrors
	assert.NoError(t, multi.ErrOrNil())

	multi = NewMultipleErrors()
	assert.NoError(t, multi.ErrOrNil())

	multi.Add(WrapFileSystemError("write", "out.go", fs.ErrPermission))
	multi.Add(ConfigurationError("autoinject.yaml", "unknown format"))
	require.Error(t, multi.ErrOrNil())

	assert.Equal(t, 2, multi.Count())
	assert.Contains(t, multi.Error(), "multiple errors (2 total)")
	assert.True(t, multi.HasCode(ConfigurationErrorCode))
	assert.False(t, multi.HasCode(LoadErrorCode))
	assert.True(t, stderrors.Is(multi, fs.ErrPermission))
}

func TestHasCode(t *testing.T) {
	err := WrapGenerateError("manifest", WrapTypeCheckError("example.com/app", fs.ErrInvalid))

	assert.True(t, HasCode(err, GenerationErrorCode))
	assert.True(t, HasCode(err, TypeCheckErrorCode))
	assert.False(t, HasCode(err, SyntaxErrorCode))
	assert.False(t, HasCode(nil, SyntaxErrorCode))
}

func TestWrapValidationError(t *testing.T) {
	err := WrapValidationError("format", stderrors.New("must be one of: [yaml go text]"))

	assert.Equal(t, ConfigurationErrorCode, err.ErrorCode())
	assert.Equal(t, "format", err.Context()["field"])
	assert.Contains(t, err.Error(), "invalid value for 'format'")
	assert.Contains(t, err.Error(), "must be one of")
}
