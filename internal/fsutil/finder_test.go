package fsutil

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestWalkTree(t *testing.T) {
	root := t.TempDir()
	for _, rel := range []string{
		"b/bread.cook",
		"a/bread.cook",
		"soup.cook",
		"notes.txt",
		".git/HEAD.cook",
		"deep/er/pie.cook",
	} {
		writeFile(t, root, rel)
	}

	tree, err := WalkTree(root, ".cook")
	require.NoError(t, err)

	var rels []string
	var depths []int
	for _, f := range tree.Files {
		rels = append(rels, f.RelPath)
		depths = append(depths, f.Depth)
	}
	assert.Equal(t, []string{"a/bread.cook", "b/bread.cook", "deep/er/pie.cook", "soup.cook"}, rels)
	assert.Equal(t, []int{1, 1, 2, 0}, depths)
	assert.Len(t, tree.Dirs, 5) // root, a, b, deep, deep/er
	assert.Empty(t, tree.Warnings)
}

func TestWalkTree_MissingRoot(t *testing.T) {
	_, err := WalkTree(filepath.Join(t.TempDir(), "nope"), ".cook")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWalkTree_UnreadableSubtree(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}
	root := t.TempDir()
	writeFile(t, root, "ok.cook")
	writeFile(t, root, "locked/hidden.cook")
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	tree, err := WalkTree(root, ".cook")
	require.NoError(t, err)
	require.Len(t, tree.Files, 1)
	require.Len(t, tree.Warnings, 1)
	assert.True(t, errors.Is(tree.Warnings[0], ErrUnreadableSubtree))
	assert.Equal(t, locked, tree.Warnings[0].Path)
}

func TestFindFilesByExtension(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "x/one.hcl")
	writeFile(t, root, "two.hcl")
	writeFile(t, root, "three.txt")

	files, err := FindFilesByExtension(root, ".hcl")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "two.hcl"), filepath.Join(root, "x", "one.hcl")}, files)
}
