package filex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureSubDir_CreatesAndReturnsPath(t *testing.T) {
	tmp := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmp))
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	dir, err := EnsureSubDir("data")
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, "data", filepath.Base(dir))

	// second call is idempotent
	again, err := EnsureSubDir("data")
	require.NoError(t, err)
	assert.Equal(t, dir, again)
}

func TestImageContentType(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"avatar.png", "image/png"},
		{"photo.JPG", "image/jpeg"},
		{"photo.jpeg", "image/jpeg"},
		{"anim.gif", "image/gif"},
		{"doc.pdf", ""},
		{"noext", ""},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ImageContentType(tc.name), tc.name)
	}
}
