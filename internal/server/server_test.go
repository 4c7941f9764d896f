package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/cookcli/internal/cooklang"
	"github.com/vk/cookcli/internal/evaluator"
	"github.com/vk/cookcli/internal/index"
	"github.com/vk/cookcli/internal/report"
	"github.com/vk/cookcli/internal/resolve"
	"github.com/vk/cookcli/internal/shopping"
	"github.com/vk/cookcli/internal/testutil"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx, _ := testutil.LoggerContext(t)
	root := testutil.WriteTree(t, map[string]string{
		"tomato soup.cook": testutil.TomatoSoup,
		"pancakes.cook":    testutil.Pancakes,
		"a/bread.cook":     testutil.Bread,
		"b/bread.cook":     testutil.Bread,
		"broken.cook":      "Add @flour{100%g and stir.\n",
	})
	idx := index.New(root)
	res := resolve.New(idx, cooklang.New())
	srv := New(ctx, Config{}, Dependencies{
		Index:     idx,
		Resolver:  res,
		Evaluator: evaluator.New(res),
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, ts *httptest.Server, path string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func post(t *testing.T, ts *httptest.Server, path, contentType, body string, out any) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+path, contentType, strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	var body HealthResponse
	resp := get(t, ts, "/health", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, 5, body.Recipes)
}

func TestListRecipes(t *testing.T) {
	ts := newTestServer(t)
	var body RecipeList
	resp := get(t, ts, "/api/recipes", &body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	paths := make([]string, 0, len(body.Recipes))
	for _, r := range body.Recipes {
		paths = append(paths, r.Path)
	}
	assert.Equal(t, []string{"broken.cook", "pancakes.cook", "tomato soup.cook", "a/bread.cook", "b/bread.cook"}, paths)
	assert.Equal(t, []string{"passata soup"}, body.Recipes[2].Aliases)
	assert.Equal(t, 1, body.Recipes[3].Depth)
}

func TestResolve(t *testing.T) {
	ts := newTestServer(t)

	t.Run("unique and scaled", func(t *testing.T) {
		var body ResolveResponse
		resp := get(t, ts, "/api/recipes/resolve?ref="+url.QueryEscape("tomato soup")+"&servings=8", &body)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "unique", body.Kind)
		assert.Equal(t, "tomato soup.cook", body.Path)
		assert.Equal(t, "Tomato Soup", body.Recipe.Title)
		assert.Equal(t, []string{"1600 g"}, body.Recipe.Ingredients[0].Amounts)
	})

	cases := []struct {
		name   string
		query  string
		status int
		kind   string
	}{
		{name: "ambiguous", query: "?ref=bread", status: http.StatusConflict, kind: KindAmbiguous},
		{name: "not found", query: "?ref=lasagne", status: http.StatusNotFound, kind: KindNotFound},
		{name: "parse failure", query: "?ref=broken", status: http.StatusUnprocessableEntity, kind: KindParseFailed},
		{name: "missing ref", query: "", status: http.StatusBadRequest, kind: KindBadRequest},
		{name: "bad fuzzy flag", query: "?ref=bread&fuzzy=maybe", status: http.StatusBadRequest, kind: KindBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var body ErrorResponse
			resp := get(t, ts, "/api/recipes/resolve"+tc.query, &body)
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
			assert.Equal(t, tc.kind, body.Kind)
			assert.NotEmpty(t, body.Error)
		})
	}

	t.Run("ambiguous lists candidates", func(t *testing.T) {
		var body ErrorResponse
		get(t, ts, "/api/recipes/resolve?ref=bread", &body)
		require.Len(t, body.Candidates, 2)
		assert.Equal(t, "a/bread.cook", body.Candidates[0].Path)
		assert.Equal(t, "b/bread.cook", body.Candidates[1].Path)
	})
}

func TestSearch(t *testing.T) {
	ts := newTestServer(t)
	var body []CandidateJSON
	resp := get(t, ts, "/api/recipes/search?q=tomato&limit=1", &body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, body, 1)
	assert.Equal(t, "tomato soup.cook", body[0].Path)
	assert.InDelta(t, 0.9, body[0].Score, 1e-9)

	resp = get(t, ts, "/api/recipes/search?q=tomato&limit=x", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestShoppingList(t *testing.T) {
	ts := newTestServer(t)

	var list shopping.List
	resp := post(t, ts, "/api/shopping-list", "application/json", `{"recipes":["tomato soup:2","pancakes"]}`, &list)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, list.Categories, 1)
	assert.Equal(t, "other", list.Categories[0].Name)
	assert.Len(t, list.Categories[0].Items, 7)

	var errBody ErrorResponse
	resp = post(t, ts, "/api/shopping-list", "application/json", `{"recipes":["bread"]}`, &errBody)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Len(t, errBody.Candidates, 2)

	resp = post(t, ts, "/api/shopping-list", "application/json", `{"recipes":`, &errBody)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, KindBadRequest, errBody.Kind)
}

const planHCL = `
title = "Plan"

recipe "soup" {
  ref      = "tomato soup"
  servings = 8
}

line { text = "Tomatoes: ${recipe.soup.ingredient.tomato}" }
`

func TestReport(t *testing.T) {
	ts := newTestServer(t)

	t.Run("json", func(t *testing.T) {
		var res report.Result
		resp := post(t, ts, "/api/reports", "text/plain", planHCL, &res)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Plan", res.Title)
		require.Len(t, res.Lines, 1)
		assert.Equal(t, "Tomatoes: 1600 g", res.Lines[0].Text)
		assert.Equal(t, []string{"tomato soup.cook"}, res.Lines[0].Provenance.Paths)
	})

	t.Run("text", func(t *testing.T) {
		resp, err := http.Post(ts.URL+"/api/reports?format=text", "text/plain", strings.NewReader(planHCL))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "text/plain; charset=utf-8", resp.Header.Get("Content-Type"))
	})

	cases := []struct {
		name   string
		src    string
		status int
		kind   string
	}{
		{
			name:   "invalid definition",
			src:    `line { text = recipe.nope.title }`,
			status: http.StatusBadRequest,
			kind:   KindInvalidDefinition,
		},
		{
			name:   "ambiguous recipe",
			src:    "recipe \"b\" { ref = \"bread\" }\nline { text = recipe.b.title }",
			status: http.StatusConflict,
			kind:   "UnresolvedReference",
		},
		{
			name:   "unknown field",
			src:    "recipe \"s\" { ref = \"tomato soup\" }\nline { text = recipe.s.calories }",
			status: http.StatusUnprocessableEntity,
			kind:   "UnknownField",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var body ErrorResponse
			resp := post(t, ts, "/api/reports", "text/plain", tc.src, &body)
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.kind, body.Kind)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	get(t, ts, "/health", nil)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var sb strings.Builder
	_, err = io.Copy(&sb, resp.Body)
	require.NoError(t, err)
	assert.Contains(t, sb.String(), `cook_http_requests_total{method="GET",path="/health",status="200"}`)
}
