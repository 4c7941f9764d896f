package watch

import (
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/cookcli/internal/testutil"
)

type counter struct{ n atomic.Int32 }

func (c *counter) Invalidate() { c.n.Add(1) }

type changes struct {
	mu    sync.Mutex
	paths []string
}

func (c *changes) add(paths []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paths = append(c.paths, paths...)
}

func (c *changes) contains(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.paths {
		if p == path {
			return true
		}
	}
	return false
}

func TestWatcher_InvalidatesOnChange(t *testing.T) {
	ctx, _ := testutil.LoggerContext(t)
	root := testutil.WriteTree(t, map[string]string{"soups/tomato.cook": "@tomato{1}"})

	target := &counter{}
	seen := &changes{}
	w, err := New(root, ".cook", target, WithDelay(20*time.Millisecond), WithOnChange(seen.add))
	require.NoError(t, err)
	require.NoError(t, w.Start(ctx))
	t.Cleanup(func() { assert.NoError(t, w.Stop()) })

	t.Run("new recipe", func(t *testing.T) {
		path := testutil.WriteFile(t, root, "soups/leek.cook", "@leek{2}")
		require.Eventually(t, func() bool { return seen.contains(path) }, 5*time.Second, 10*time.Millisecond)
		assert.GreaterOrEqual(t, target.n.Load(), int32(1))
	})

	t.Run("recipe in a new directory", func(t *testing.T) {
		testutil.WriteFile(t, root, "mains/.keep", "")
		// give the watcher time to register the directory
		require.Eventually(t, func() bool { return seen.contains(filepath.Join(root, "mains")) }, 5*time.Second, 10*time.Millisecond)

		path := testutil.WriteFile(t, root, "mains/stew.cook", "@beef{1%kg}")
		require.Eventually(t, func() bool { return seen.contains(path) }, 5*time.Second, 10*time.Millisecond)
	})
}

func TestWatcher_StopTwice(t *testing.T) {
	ctx, _ := testutil.LoggerContext(t)
	w, err := New(t.TempDir(), ".cook", &counter{})
	require.NoError(t, err)
	require.NoError(t, w.Start(ctx))
	require.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}

func TestDebouncer(t *testing.T) {
	var mu sync.Mutex
	var calls [][]string
	d := NewDebouncer(30 * time.Millisecond)
	d.SetCallback(func(paths []string) {
		sort.Strings(paths)
		mu.Lock()
		calls = append(calls, paths)
		mu.Unlock()
	})

	d.Add("b")
	d.Add("a")
	d.Add("b")

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(calls) == 1
	}, 2*time.Second, 5*time.Millisecond)

	mu.Lock()
	assert.Equal(t, []string{"a", "b"}, calls[0])
	mu.Unlock()

	d.Stop()
	d.Add("c")
	time.Sleep(60 * time.Millisecond)
	mu.Lock()
	assert.Len(t, calls, 1)
	mu.Unlock()
}
