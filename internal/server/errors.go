package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/cookcli/internal/ctxlog"
	"github.com/vk/cookcli/internal/report"
	"github.com/vk/cookcli/internal/resolve"
)

// Error kinds reported alongside the message.
const (
	KindBadRequest        = "bad_request"
	KindInvalidDefinition = "invalid_definition"
	KindNotFound          = "not_found"
	KindAmbiguous         = "ambiguous"
	KindParseFailed       = "parse_failed"
	KindInternal          = "internal"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error       string          `json:"error"`
	Kind        string          `json:"kind"`
	Candidates  []CandidateJSON `json:"candidates,omitempty"`
	Diagnostics []string        `json:"diagnostics,omitempty"`
}

type badRequestError struct{ msg string }

func (e *badRequestError) Error() string { return e.msg }

func badRequest(msg string) error { return &badRequestError{msg: msg} }

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := classify(err)
	logger := ctxlog.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed.", "error", err)
	} else {
		logger.Debug("Request rejected.", "status", status, "error", err)
	}
	respondJSON(w, status, resp)
}

// classify maps an error onto a status code and response body.
func classify(err error) (int, ErrorResponse) {
	resp := ErrorResponse{Error: err.Error()}

	var diags hcl.Diagnostics
	if errors.As(err, &diags) {
		resp.Kind = KindInvalidDefinition
		for _, d := range diags {
			resp.Diagnostics = append(resp.Diagnostics, d.Error())
		}
		return http.StatusBadRequest, resp
	}

	var bad *badRequestError
	if errors.As(err, &bad) {
		resp.Kind = KindBadRequest
		return http.StatusBadRequest, resp
	}

	var amb *resolve.AmbiguousError
	if errors.As(err, &amb) {
		resp.Candidates = candidates(amb.Candidates)
	}

	status, kind := http.StatusInternalServerError, KindInternal
	switch {
	case errors.Is(err, resolve.ErrAmbiguous):
		status, kind = http.StatusConflict, KindAmbiguous
	case errors.Is(err, resolve.ErrNotFound):
		status, kind = http.StatusNotFound, KindNotFound
	case errors.Is(err, resolve.ErrParseFailed):
		status, kind = http.StatusUnprocessableEntity, KindParseFailed
	}

	var evalErr *report.EvalError
	if errors.As(err, &evalErr) {
		kind = evalErr.Kind.String()
		if status == http.StatusInternalServerError {
			status = http.StatusUnprocessableEntity
		}
	}
	resp.Kind = kind
	return status, resp
}
