package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/vk/cookcli/internal/render"
	"github.com/vk/cookcli/internal/reporthcl"
	"github.com/vk/cookcli/internal/resolve"
	"github.com/vk/cookcli/internal/shopping"
)

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status  string    `json:"status"`
	Recipes int       `json:"recipes"`
	BuiltAt time.Time `json:"built_at"`
}

// RecipeEntry describes one indexed recipe.
type RecipeEntry struct {
	Name    string   `json:"name"`
	Path    string   `json:"path"`
	Depth   int      `json:"depth"`
	Aliases []string `json:"aliases,omitempty"`
}

// RecipeList is returned by GET /api/recipes.
type RecipeList struct {
	Recipes  []RecipeEntry `json:"recipes"`
	Warnings []string      `json:"warnings,omitempty"`
}

// CandidateJSON is a scored match.
type CandidateJSON struct {
	Name      string  `json:"name"`
	Path      string  `json:"path"`
	Score     float64 `json:"score"`
	MatchedBy string  `json:"matched_by"`
}

// ResolveResponse is returned by GET /api/recipes/resolve.
type ResolveResponse struct {
	Kind       string            `json:"kind"`
	Path       string            `json:"path"`
	Recipe     render.RecipeJSON `json:"recipe"`
	Candidates []CandidateJSON   `json:"candidates"`
}

// ShoppingRequest is the body of POST /api/shopping-list.
type ShoppingRequest struct {
	Recipes []string `json:"recipes"`
	Fuzzy   bool     `json:"fuzzy"`
}

func candidates(cs []resolve.Candidate) []CandidateJSON {
	out := make([]CandidateJSON, 0, len(cs))
	for _, c := range cs {
		out = append(out, CandidateJSON{Name: c.Entry.Name, Path: c.Entry.RelPath, Score: c.Score, MatchedBy: c.MatchedBy})
	}
	return out
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap, err := s.deps.Index.Snapshot(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, HealthResponse{Status: "ok", Recipes: snap.Len(), BuiltAt: snap.BuiltAt})
}

func (s *Server) handleListRecipes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	snap, err := s.deps.Index.Snapshot(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	snap.LoadAliases(ctx)

	resp := RecipeList{Recipes: make([]RecipeEntry, 0, snap.Len())}
	for _, e := range snap.Entries() {
		resp.Recipes = append(resp.Recipes, RecipeEntry{Name: e.Name, Path: e.RelPath, Depth: e.Depth, Aliases: e.Aliases()})
	}
	for _, warn := range snap.Warnings {
		resp.Warnings = append(resp.Warnings, warn.Error())
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ref := strings.TrimSpace(q.Get("ref"))
	if ref == "" {
		s.writeError(w, r, badRequest("query parameter ref is required"))
		return
	}
	fuzzy, err := boolParam(q.Get("fuzzy"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	scale, err := floatParam(q.Get("scale"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	servings, err := floatParam(q.Get("servings"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.deps.Resolver.Resolve(r.Context(), ref, resolve.Options{Fuzzy: fuzzy})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := res.Err(); err != nil {
		s.writeError(w, r, err)
		return
	}

	doc := res.Document
	switch {
	case servings > 0 && doc.Metadata.Servings > 0:
		doc = doc.Scale(servings / doc.Metadata.Servings)
	case servings > 0:
		s.writeError(w, r, badRequest("recipe declares no servings to scale from"))
		return
	case scale > 0:
		doc = doc.Scale(scale)
	}

	respondJSON(w, http.StatusOK, ResolveResponse{
		Kind:       res.Kind.String(),
		Path:       res.Entry.RelPath,
		Recipe:     render.RecipeView(doc),
		Candidates: candidates(res.Candidates),
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := strings.TrimSpace(q.Get("q"))
	if query == "" {
		s.writeError(w, r, badRequest("query parameter q is required"))
		return
	}
	limit := 10
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, r, badRequest("limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	found, err := s.deps.Resolver.Search(r.Context(), query, limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, candidates(found))
}

func (s *Server) handleShoppingList(w http.ResponseWriter, r *http.Request) {
	var req ShoppingRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, badRequest("invalid request body: "+err.Error()))
		return
	}
	if len(req.Recipes) == 0 {
		s.writeError(w, r, badRequest("recipes must not be empty"))
		return
	}

	inputs, err := shopping.Collect(r.Context(), s.deps.Resolver, req.Recipes, req.Fuzzy)
	if err != nil {
		if !isResolveError(err) {
			err = badRequest(err.Error())
		}
		s.writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, shopping.Build(inputs, s.deps.Units, s.deps.Aisles))
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	format := render.FormatJSON
	if v := r.URL.Query().Get("format"); v != "" {
		f, err := render.ParseFormat(v)
		if err != nil {
			s.writeError(w, r, badRequest(err.Error()))
			return
		}
		format = f
	}
	src, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes))
	if err != nil {
		s.writeError(w, r, badRequest("reading request body: "+err.Error()))
		return
	}

	ctx := r.Context()
	def, err := reporthcl.Load(ctx, "request.hcl", src)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.deps.Evaluator.Run(ctx, def)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	switch format {
	case render.FormatJSON:
		respondJSON(w, http.StatusOK, res)
	default:
		contentType := "text/plain; charset=utf-8"
		if format == render.FormatMarkdown {
			contentType = "text/markdown; charset=utf-8"
		}
		w.Header().Set("Content-Type", contentType)
		_ = render.Report(w, res, format, render.Options{})
	}
}

func isResolveError(err error) bool {
	return errors.Is(err, resolve.ErrNotFound) || errors.Is(err, resolve.ErrAmbiguous) || errors.Is(err, resolve.ErrParseFailed)
}

func boolParam(v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, badRequest("invalid boolean " + strconv.Quote(v))
	}
	return b, nil
}

func floatParam(v string) (float64, error) {
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return 0, badRequest("expected a positive number, got " + strconv.Quote(v))
	}
	return f, nil
}
