package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestGoModParser_ModuleForDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "go.mod"), "module example.com/shop\n\ngo 1.22\n\nrequire github.com/google/uuid v1.6.0\n")
	writeFile(t, filepath.Join(root, "internal", "orders", "orders.go"), "package orders\n")

	parser := NewGoModParser(NewFileReader())
	module, moduleRoot, err := parser.ModuleForDir(filepath.Join(root, "internal", "orders"))
	require.NoError(t, err)
	assert.Equal(t, "example.com/shop", module)

	expectedRoot, err := filepath.Abs(root)
	require.NoError(t, err)
	assert.Equal(t, expectedRoot, moduleRoot)
}

func TestGoModParser_Errors(t *testing.T) {
	parser := NewGoModParser(NewFileReader())

	t.Run("NotAGoModFile", func(t *testing.T) {
		_, err := parser.ParseModuleName("/tmp/go.sum")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a go.mod file")
	})

	t.Run("MissingModuleLine", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "go.mod")
		writeFile(t, path, "go 1.22\n")

		_, err := parser.ParseModuleName(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no module declaration")
	})

	t.Run("Malformed", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "go.mod")
		writeFile(t, path, "module example.com/a example.com/b\n")

		_, err := parser.ParseModuleName(path)
		require.Error(t, err)
	})
}

func TestImportPathFor(t *testing.T) {
	root := filepath.FromSlash("/work/shop")

	tests := []struct {
		name     string
		dir      string
		expected string
		wantErr  bool
	}{
		{"ModuleRoot", root, "example.com/shop", false},
		{"Nested", filepath.Join(root, "internal", "orders"), "example.com/shop/internal/orders", false},
		{"Outside", filepath.FromSlash("/work/other"), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ImportPathFor("example.com/shop", root, tt.dir)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
