package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/cookcli/internal/render"
	"github.com/vk/cookcli/internal/testutil"
)

func recipeTree(t *testing.T) string {
	t.Helper()
	return testutil.WriteTree(t, map[string]string{
		"tomato soup.cook": testutil.TomatoSoup,
		"pancakes.cook":    testutil.Pancakes,
		"a/bread.cook":     testutil.Bread,
		"b/bread.cook":     testutil.Bread,
	})
}

// runCLI executes the command line against root and returns what was
// written to stdout and stderr.
func runCLI(t *testing.T, root string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	var stdout, stderr bytes.Buffer
	full := append([]string{"--root", root}, args...)
	err := Execute(context.Background(), full, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func requireExitCode(t *testing.T, err error, code int) *ExitError {
	t.Helper()
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr), "expected *ExitError, got %T: %v", err, err)
	assert.Equal(t, code, exitErr.Code, exitErr.Message)
	return exitErr
}

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand(&bytes.Buffer{}, &bytes.Buffer{})
	assert.Equal(t, "cook", cmd.Use)

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, expected := range []string{"recipe", "list", "search", "shopping-list", "report", "server", "version"} {
		assert.Contains(t, names, expected)
	}
	for _, flag := range []string{"config", "root", "log-level", "log-format"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestRecipeCommand(t *testing.T) {
	root := recipeTree(t)

	t.Run("scaled to servings", func(t *testing.T) {
		out, _, err := runCLI(t, root, "recipe", "pancakes", "--servings", "4")
		require.NoError(t, err)
		assert.Contains(t, out, "Servings: 4\n")
		assert.Contains(t, out, "  milk   600 ml\n")
		assert.Contains(t, out, "  flour  300 g\n")
	})

	t.Run("alias with scale as json", func(t *testing.T) {
		out, _, err := runCLI(t, root, "recipe", "flapjacks", "--scale", "0.5", "--format", "json")
		require.NoError(t, err)
		var got render.RecipeJSON
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, "Pancakes", got.Title)
		assert.Equal(t, 1.0, got.Servings)
	})

	t.Run("path fragment", func(t *testing.T) {
		out, _, err := runCLI(t, root, "recipe", "a/bread")
		require.NoError(t, err)
		assert.Contains(t, out, "flour  500 g")
	})

	t.Run("fuzzy", func(t *testing.T) {
		_, _, err := runCLI(t, root, "recipe", "pancake")
		requireExitCode(t, err, ExitResolution)

		out, _, err := runCLI(t, root, "recipe", "pancake", "--fuzzy")
		require.NoError(t, err)
		assert.Contains(t, out, "Pancakes")
	})

	t.Run("ambiguous", func(t *testing.T) {
		_, _, err := runCLI(t, root, "recipe", "bread")
		exitErr := requireExitCode(t, err, ExitResolution)
		assert.Contains(t, exitErr.Message, "a/bread.cook")
		assert.Contains(t, exitErr.Message, "b/bread.cook")
	})

	t.Run("servings without declared servings", func(t *testing.T) {
		tree := testutil.WriteTree(t, map[string]string{"plain.cook": "Boil @water{1%l}.\n"})
		_, _, err := runCLI(t, tree, "recipe", "plain", "--servings", "2")
		exitErr := requireExitCode(t, err, ExitRuntime)
		assert.Contains(t, exitErr.Message, "declares no servings")
	})
}

func TestUsageErrors(t *testing.T) {
	root := recipeTree(t)
	testCases := []struct {
		name string
		args []string
	}{
		{"missing argument", []string{"recipe"}},
		{"unknown flag", []string{"recipe", "pancakes", "--bogus"}},
		{"unknown command", []string{"bake"}},
		{"servings and scale", []string{"recipe", "pancakes", "--servings", "2", "--scale", "2"}},
		{"negative scale", []string{"recipe", "pancakes", "--scale", "-1"}},
		{"unknown format", []string{"recipe", "pancakes", "--format", "pdf"}},
		{"invalid log level", []string{"--log-level", "loud", "recipe", "pancakes"}},
		{"invalid log format", []string{"--log-format", "xml", "list"}},
		{"zero factor", []string{"shopping-list", "pancakes:0"}},
		{"missing config file", []string{"--config", "/nonexistent/cook.yaml", "list"}},
		{"negative limit", []string{"search", "soup", "--limit", "-1"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := runCLI(t, root, tc.args...)
			requireExitCode(t, err, ExitUsage)
		})
	}
}

func TestListCommand(t *testing.T) {
	root := recipeTree(t)

	t.Run("table", func(t *testing.T) {
		out, _, err := runCLI(t, root, "list")
		require.NoError(t, err)
		assert.Contains(t, out, "NAME")
		assert.Contains(t, out, "tomato soup.cook")
		assert.Contains(t, out, "passata soup")
	})

	t.Run("json", func(t *testing.T) {
		out, _, err := runCLI(t, root, "list", "--json")
		require.NoError(t, err)
		var got listOutput
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		paths := make([]string, len(got.Recipes))
		for i, r := range got.Recipes {
			paths[i] = r.Path
		}
		assert.Equal(t, []string{"pancakes.cook", "tomato soup.cook", "a/bread.cook", "b/bread.cook"}, paths)
		assert.Equal(t, []string{"flapjacks"}, got.Recipes[0].Aliases)
	})

	t.Run("missing root", func(t *testing.T) {
		_, _, err := runCLI(t, filepath.Join(root, "missing"), "list")
		requireExitCode(t, err, ExitRuntime)
	})
}

func TestSearchCommand(t *testing.T) {
	root := recipeTree(t)

	out, _, err := runCLI(t, root, "search", "tomato")
	require.NoError(t, err)
	assert.Contains(t, out, "SCORE")
	assert.Contains(t, out, "0.90")
	assert.Contains(t, out, "tomato soup.cook")

	out, _, err = runCLI(t, root, "search", "zzzzzz")
	require.NoError(t, err)
	assert.Equal(t, "No recipes resemble \"zzzzzz\".\n", out)
}

func TestShoppingListCommand(t *testing.T) {
	root := recipeTree(t)

	t.Run("default aisle", func(t *testing.T) {
		out, _, err := runCLI(t, root, "shopping-list", "pancakes", "tomato soup:2")
		require.NoError(t, err)
		assert.Contains(t, out, "OTHER\n")
		assert.Contains(t, out, "1600 g")
		assert.Contains(t, out, "300 ml")
	})

	t.Run("aisle file", func(t *testing.T) {
		aisleFile := testutil.WriteFile(t, t.TempDir(), "aisle.conf", "[produce]\ntomato\nonion\n\n[dairy]\nmilk|eggs\n")
		out, _, err := runCLI(t, root, "shopping-list", "pancakes", "tomato soup", "--aisle", aisleFile, "--format", "markdown")
		require.NoError(t, err)
		assert.Contains(t, out, "## produce\n\n- [ ] onion: 1\n- [ ] tomato: 800 g\n")
		assert.Contains(t, out, "## dairy\n\n- [ ] eggs: 2\n- [ ] milk: 300 ml\n")
	})

	t.Run("not found", func(t *testing.T) {
		_, _, err := runCLI(t, root, "shopping-list", "pancakes", "lasagne")
		requireExitCode(t, err, ExitResolution)
	})
}

func TestReportCommand(t *testing.T) {
	root := recipeTree(t)
	defs := t.TempDir()
	plan := testutil.WriteFile(t, defs, "plan.hcl", `
title = "Party"

recipe "soup" {
  ref      = "tomato soup"
  servings = 8
}

line { text = "Tomatoes: ${recipe.soup.ingredient.tomato}" }
`)

	t.Run("text", func(t *testing.T) {
		out, _, err := runCLI(t, root, "report", plan)
		require.NoError(t, err)
		assert.Equal(t, "Party\n─────\nTomatoes: 1600 g\n", out)
	})

	t.Run("json", func(t *testing.T) {
		out, _, err := runCLI(t, root, "report", plan, "--format", "json")
		require.NoError(t, err)
		assert.Contains(t, out, `"text": "Tomatoes: 1600 g"`)
	})

	t.Run("invalid definition", func(t *testing.T) {
		bad := testutil.WriteFile(t, defs, "bad.hcl", "line { text = recipe.nope.title }\n")
		_, _, err := runCLI(t, root, "report", bad)
		requireExitCode(t, err, ExitUsage)
	})

	t.Run("evaluation error", func(t *testing.T) {
		failing := testutil.WriteFile(t, defs, "failing.hcl", `
recipe "soup" { ref = "tomato soup" }
line { text = "${recipe.soup.ingredient.tomato + recipe.soup.ingredient.onion}" }
`)
		_, _, err := runCLI(t, root, "report", failing)
		requireExitCode(t, err, ExitRuntime)
	})
}

func TestConfigFile(t *testing.T) {
	root := recipeTree(t)
	cfg := testutil.WriteFile(t, t.TempDir(), "cook.yaml", "log:\n  level: debug\n  format: json\n")

	_, logs, err := runCLI(t, root, "--config", cfg, "recipe", "pancakes")
	require.NoError(t, err)
	assert.Contains(t, logs, `"level":"DEBUG"`)
	assert.Contains(t, logs, `"msg":"Recipe resolved."`)
}

func TestVersionCommand(t *testing.T) {
	out, _, err := runCLI(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "cook version: dev\n")
	assert.Contains(t, out, "Go version: ")
}
