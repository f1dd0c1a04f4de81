// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scratch

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithFile(t *testing.T) {
	tests := []struct {
		name    string
		suffix  string
		fnErr   error
		wantErr bool
	}{
		{name: "normal return", suffix: ".md"},
		{name: "suffix without dot", suffix: "html"},
		{name: "callback error", suffix: ".tex", fnErr: errors.New("pandoc failed"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			err := WithFile(tt.suffix, "# Title", func(path string) error {
				seen = path
				data, err := os.ReadFile(path)
				require.NoError(t, err)
				assert.Equal(t, "# Title", string(data))
				return tt.fnErr
			})

			if tt.wantErr {
				require.ErrorIs(t, err, tt.fnErr)
			} else {
				require.NoError(t, err)
			}

			wantSuffix := tt.suffix
			if !strings.HasPrefix(wantSuffix, ".") {
				wantSuffix = "." + wantSuffix
			}
			assert.True(t, strings.HasSuffix(seen, wantSuffix), "path %q should end in %q", seen, wantSuffix)

			_, statErr := os.Stat(seen)
			assert.True(t, os.IsNotExist(statErr), "scratch file should be removed")
		})
	}
}

func TestWithFile_RemovedOnPanic(t *testing.T) {
	var seen string
	func() {
		defer func() { _ = recover() }()
		_ = WithFile(".md", "x", func(path string) error {
			seen = path
			panic("boom")
		})
	}()

	require.NotEmpty(t, seen)
	_, err := os.Stat(seen)
	assert.True(t, os.IsNotExist(err), "scratch file should be removed after panic")
}

func TestWithFile_UniquePaths(t *testing.T) {
	paths := make(map[string]bool)
	for i := 0; i < 20; i++ {
		err := WithFile(".md", "", func(path string) error {
			paths[path] = true
			return nil
		})
		require.NoError(t, err)
	}
	assert.Len(t, paths, 20)
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "public", "downloads")

	require.NoError(t, EnsureDir(dir))
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Second call is a no-op.
	require.NoError(t, EnsureDir(dir))
}

func TestEnsureDir_FileInTheWay(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "downloads")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := EnsureDir(filepath.Join(blocker, "sub"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating directory")
}

var uniqueNameRe = regexp.MustCompile(`^\d{13}-[0-9a-z]{13}\.docx$`)

func TestUniqueName(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		name := UniqueName("docx")
		assert.Regexp(t, uniqueNameRe, name)
		assert.False(t, seen[name], "duplicate name %s", name)
		seen[name] = true
	}

	assert.True(t, strings.HasSuffix(UniqueName(".pdf"), ".pdf"))
	assert.False(t, strings.Contains(UniqueName(".pdf"), "..pdf"))
}
