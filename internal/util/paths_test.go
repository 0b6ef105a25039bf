package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFolderName(t *testing.T) {
	testCases := []struct {
		name, input, expected string
	}{
		{"plain", "The Walking Dead", "The Walking Dead"},
		{"colon", "Batman: Year One", "Batman- Year One"},
		{"slashes", "AC/DC\\Live", "AC-DC-Live"},
		{"repeated reserved", "What?!?*", "What-!"},
		{"control characters", "Saga\x00\x1f", "Saga"},
		{"leading and trailing dots", "...Saga. ", "Saga"},
		{"windows reserved", "con", "con_"},
		{"nothing left", "???", ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, SanitizeFolderName(tc.input))
		})
	}
}

func TestEnsureWritableDir(t *testing.T) {
	base := t.TempDir()

	t.Run("creates missing directory", func(t *testing.T) {
		dir := filepath.Join(base, "library", "nested")
		require.NoError(t, EnsureWritableDir(dir))
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries, "write check file should be cleaned up")
	})

	t.Run("existing directory", func(t *testing.T) {
		assert.NoError(t, EnsureWritableDir(base))
	})

	t.Run("empty path", func(t *testing.T) {
		assert.Error(t, EnsureWritableDir("  "))
	})

	t.Run("path is a file", func(t *testing.T) {
		file := filepath.Join(base, "file.txt")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
		assert.Error(t, EnsureWritableDir(file))
	})
}
