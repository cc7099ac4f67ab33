package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/z9m/backdrop/pkg/buildinfo"
	"github.com/z9m/backdrop/pkg/errors"
	"github.com/z9m/backdrop/pkg/geom"
	"github.com/z9m/backdrop/pkg/pipeline"
	"github.com/z9m/backdrop/pkg/profile"
	"github.com/z9m/backdrop/pkg/scene"
)

type layoutRequest struct {
	Scene json.RawMessage `json:"scene"`
	pipeline.Options
}

type areasRequest struct {
	BlockedAreas []geom.Rect `json:"blocked_areas"`
}

type healthResponse struct {
	Status string `json:"status"`
	buildinfo.Info
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Info: buildinfo.Get()})
}

func (s *Server) layout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if !s.decode(w, r, &req) {
		return
	}
	if len(req.Scene) == 0 {
		writeError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "scene is required")
		return
	}
	sc, err := scene.Unmarshal(req.Scene)
	if err != nil {
		s.handleServiceError(w, r, err)
		return
	}

	opts := req.Options
	if s.assetTimeout > 0 {
		opts.AssetTimeout = s.assetTimeout
	}
	opts.Logger = s.logger.With("request_id", RequestIDFromContext(r.Context()))

	res, err := s.runner.Execute(r.Context(), sc, opts)
	if err != nil {
		s.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) listProfiles(w http.ResponseWriter, r *http.Request) {
	if !s.hasProfiles(w) {
		return
	}
	list, err := s.profiles.List(r.Context())
	if err != nil {
		s.handleServiceError(w, r, err)
		return
	}
	if list == nil {
		list = []profile.Profile{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	if !s.hasProfiles(w) {
		return
	}
	p, err := s.profiles.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) createProfile(w http.ResponseWriter, r *http.Request) {
	if !s.hasProfiles(w) {
		return
	}
	var req profile.Profile
	if !s.decode(w, r, &req) {
		return
	}
	req.ID = ""
	p, err := s.profiles.Add(r.Context(), req)
	if err != nil {
		s.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) updateAreas(w http.ResponseWriter, r *http.Request) {
	if !s.hasProfiles(w) {
		return
	}
	var req areasRequest
	if !s.decode(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")
	if err := s.profiles.UpdateAreas(r.Context(), id, req.BlockedAreas); err != nil {
		s.handleServiceError(w, r, err)
		return
	}
	p, err := s.profiles.Get(r.Context(), id)
	if err != nil {
		s.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) deleteProfile(w http.ResponseWriter, r *http.Request) {
	if !s.hasProfiles(w) {
		return
	}
	if err := s.profiles.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) hasProfiles(w http.ResponseWriter) bool {
	if s.profiles == nil {
		writeError(w, http.StatusNotImplemented, errors.ErrCodeUnsupported, "no profile store configured")
		return false
	}
	return true
}

// decode reads a JSON body into v, answering 400 or 413 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, errors.ErrCodeInvalidInput, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "invalid request body")
		return false
	}
	return true
}

// handleServiceError maps an error code to a status. Unknown errors are
// logged and hidden behind a generic message.
func (s *Server) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	switch {
	case errors.IsValidation(err):
		writeError(w, http.StatusBadRequest, code, errors.UserMessage(err))
	case errors.IsNotFound(err):
		writeError(w, http.StatusNotFound, code, errors.UserMessage(err))
	case code == errors.ErrCodeAssetTimeout:
		writeError(w, http.StatusGatewayTimeout, code, errors.UserMessage(err))
	case code == errors.ErrCodeUnsupported:
		writeError(w, http.StatusNotImplemented, code, errors.UserMessage(err))
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, errors.ErrCodeInternal, "request canceled")
	default:
		s.logger.Error("request failed", "error", err, "request_id", RequestIDFromContext(r.Context()))
		writeError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, code errors.Code, msg string) {
	body := map[string]string{"error": msg}
	if code != "" {
		body["code"] = string(code)
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
