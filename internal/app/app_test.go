package app

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/cookcli/internal/config"
	"github.com/vk/cookcli/internal/quantity"
	"github.com/vk/cookcli/internal/reporthcl"
	"github.com/vk/cookcli/internal/resolve"
	"github.com/vk/cookcli/internal/testutil"
)

func recipeTree(t *testing.T) string {
	t.Helper()
	return testutil.WriteTree(t, map[string]string{
		"tomato soup.cook":  testutil.TomatoSoup,
		"pancakes.cook":     testutil.Pancakes,
		"config/aisle.conf": "[produce]\ntomato|tomatoes\nonion\n",
	})
}

func TestNew_WiresComponents(t *testing.T) {
	root := recipeTree(t)
	a, logs := SetupAppTest(t, root)
	ctx := a.Context(context.Background())

	assert.Equal(t, root, a.Index().Root())
	assert.Equal(t, ".cook", a.Index().Extension())
	assert.Equal(t, "produce", a.Aisles().Category("Tomatoes"))
	assert.Equal(t, root, a.Config().Recipes.Root)

	res, err := a.Resolver().Resolve(ctx, "flapjacks", resolve.Options{})
	require.NoError(t, err)
	require.Equal(t, resolve.Unique, res.Kind)
	assert.Equal(t, "Pancakes", res.Document.Metadata.Title)

	def, err := reporthcl.Load(ctx, "plan.hcl", []byte(`
recipe "soup" {
  ref = "tomato soup"
}
line {
  text = "${recipe.soup.ingredient.tomato}"
}
`))
	require.NoError(t, err)
	result, err := a.Evaluator().Run(ctx, def)
	require.NoError(t, err)
	require.Len(t, result.Lines, 1)
	assert.Equal(t, "800 g", result.Lines[0].Text)

	assert.Contains(t, logs.String(), "Components wired.")
}

func TestNew_ExtendsUnitTable(t *testing.T) {
	v := config.NewViper()
	v.Set(config.KeyRoot, t.TempDir())
	v.Set("units", map[string]map[string]float64{"mass": {"stone": 6350.29318}})
	cfg, err := config.Load(v)
	require.NoError(t, err)

	a, err := New(&testutil.SafeBuffer{}, cfg)
	require.NoError(t, err)

	kg, err := a.Units().Convert(quantity.New(1, "stone"), "kg")
	require.NoError(t, err)
	assert.InDelta(t, 6.35029318, kg.Amount, 1e-9)
}

func TestNew_Errors(t *testing.T) {
	t.Run("unknown unit dimension", func(t *testing.T) {
		cfg := &config.Config{
			Recipes: config.Recipes{Root: t.TempDir()},
			Units:   map[string]map[string]float64{"length": {"m": 1}},
		}
		_, err := New(&testutil.SafeBuffer{}, cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unit table")
	})

	t.Run("missing aisle file", func(t *testing.T) {
		cfg := &config.Config{
			Recipes: config.Recipes{Root: t.TempDir()},
			Aisle:   "/nonexistent/aisle.conf",
		}
		_, err := New(&testutil.SafeBuffer{}, cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "aisle")
	})
}

func TestNewLogger(t *testing.T) {
	buf := &testutil.SafeBuffer{}
	logger := newLogger("warn", "json", buf)
	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"key":"value"`)
}

func TestStartWatcher_RefreshesStaleIndex(t *testing.T) {
	root := recipeTree(t)
	a, _ := SetupAppTest(t, root)
	ctx := a.Context(context.Background())

	require.NoError(t, a.Index().Refresh(ctx))
	snap, err := a.Index().Snapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, snap.Len())

	// A recipe added after the build but before the watcher runs.
	testutil.WriteFile(t, root, "bread.cook", testutil.Bread)
	testutil.Touch(t, root, time.Hour)

	w, err := a.startWatcher(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	snap, err = a.Index().Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Len())
}

func TestServe(t *testing.T) {
	t.Run("stops when the context ends", func(t *testing.T) {
		a, logs := SetupAppTest(t, recipeTree(t))
		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan error, 1)
		go func() { done <- a.Serve(ctx, "127.0.0.1:0") }()

		require.Eventually(t, func() bool {
			return strings.Contains(logs.String(), "Starting server.")
		}, 5*time.Second, 10*time.Millisecond)
		cancel()

		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("Serve did not return after cancel")
		}
	})

	t.Run("invalid root", func(t *testing.T) {
		a, _ := SetupAppTest(t, "/nonexistent/recipes")
		err := a.Serve(context.Background(), "127.0.0.1:0")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "recipe index")
	})
}
