package iofs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/gnidx/pkg/templates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDirs(t *testing.T) {
	home := t.TempDir()

	require.NoError(t, EnsureDirs(home))
	// idempotent
	require.NoError(t, EnsureDirs(home))

	dirs := []string{
		filepath.Join(home, ".config", "gnidx"),
		filepath.Join(home, ".cache", "gnidx"),
		filepath.Join(home, ".local", "share", "gnidx", "logs"),
		filepath.Join(home, ".local", "share", "gnidx", "index"),
		filepath.Join(home, ".local", "share", "gnidx", "matches"),
	}
	for _, d := range dirs {
		info, err := os.Stat(d)
		require.NoError(t, err, d)
		assert.True(t, info.IsDir(), d)
		assert.Equal(t, os.FileMode(0755), info.Mode().Perm(), d)
	}
}

func TestTouchDirError(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	err := touchDir(filepath.Join(file, "sub"))
	assert.Error(t, err)
}

func TestEnsureFiles(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, EnsureDirs(home))

	tests := []struct {
		msg     string
		fn      func(string) error
		path    string
		content string
	}{
		{"config", EnsureConfigFile,
			filepath.Join(home, ".config", "gnidx", "config.yaml"),
			templates.ConfigYAML},
		{"sources", EnsureSourcesFile,
			filepath.Join(home, ".config", "gnidx", "sources.yaml"),
			templates.SourcesYAML},
	}

	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			require.NoError(t, v.fn(home))
			bs, err := os.ReadFile(v.path)
			require.NoError(t, err)
			assert.Equal(t, v.content, string(bs))

			// existing files are never overwritten
			require.NoError(t, os.WriteFile(v.path, []byte("custom"), 0644))
			require.NoError(t, v.fn(home))
			bs, err = os.ReadFile(v.path)
			require.NoError(t, err)
			assert.Equal(t, "custom", string(bs))
		})
	}
}

func TestTemplatesEmbedded(t *testing.T) {
	assert.Contains(t, templates.ConfigYAML, "store:")
	assert.Contains(t, templates.ConfigYAML, "lock_stripes")
	assert.Contains(t, templates.SourcesYAML, "data_sources:")
	assert.Contains(t, templates.SourcesYAML, "trusted: true")
}
