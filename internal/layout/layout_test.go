package layout

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetPath(t *testing.T) {
	assert.Equal(t, "libx/42", TargetPath("libx", 42))
	assert.Equal(t, "liby/7", TargetPath("liby", 7))

	// Same inputs always map to the same path, independent of anything else.
	assert.Equal(t, TargetPath("libx", 42), TargetPath("libx", 42))
}

func TestMapFile(t *testing.T) {
	root := filepath.Join("/tmp", "ws", "libx")

	dest, err := MapFile(filepath.Join(root, "doc/html/guide.html"), root, "libx/42")
	require.NoError(t, err)
	assert.Equal(t, "libx/42/doc/html/guide.html", dest)

	dest, err = MapFile(filepath.Join(root, "index.html"), root, "libx/42")
	require.NoError(t, err)
	assert.Equal(t, "libx/42/index.html", dest)
}
