package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"tonelink/internal/resolver"
)

// modeAuto triggers full resolution; modeManual means the user fills
// in links themselves and the backend has nothing to do.
const (
	modeAuto   = "auto"
	modeManual = "manual"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// resolveRequest mirrors the editor's request body. upc/isrc are
// accepted for forward compatibility but resolution is URL-driven.
type resolveRequest struct {
	URL  string `json:"url" validate:"omitempty,max=2048"`
	Mode string `json:"mode" validate:"omitempty,oneof=auto manual"`
	UPC  string `json:"upc" validate:"omitempty,max=64"`
	ISRC string `json:"isrc" validate:"omitempty,max=64"`
}

// resolveResponse is the success/failure envelope persisted verbatim
// as music block content once the user accepts it.
type resolveResponse struct {
	Success bool                 `json:"success"`
	Data    *resolver.ResultData `json:"data,omitempty"`
	Error   string               `json:"error,omitempty"`
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeResult(w, failure("invalid request body"))
		return
	}

	if req.Mode == "" {
		req.Mode = modeAuto
	}

	if err := validate.Struct(&req); err != nil {
		s.writeResult(w, failure("invalid request"))
		return
	}

	if req.Mode == modeManual || req.URL == "" {
		// Matches the legacy behavior: manual entry is handled entirely
		// by the editor, and auto mode is meaningless without a URL.
		s.writeResult(w, failure("a track URL is required"))
		return
	}

	start := time.Now()
	data, err := s.resolver.Resolve(r.Context(), req.URL)
	s.metrics.ResolveDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		s.metrics.ResolutionsTotal.WithLabelValues("failure").Inc()
		s.metrics.CacheableErrors.WithLabelValues(errorClass(err)).Inc()
		s.logger.Warn("Resolution failed",
			zap.String("url", req.URL),
			zap.Error(err))
		s.writeResult(w, failure(userMessage(err)))
		return
	}

	s.metrics.ResolutionsTotal.WithLabelValues("success").Inc()
	for _, link := range data.Platforms {
		outcome := "miss"
		if link.Matched {
			outcome = "match"
		}
		s.metrics.PlatformMatches.WithLabelValues(string(link.Platform), outcome).Inc()
	}

	s.writeResult(w, resolveResponse{Success: true, Data: data})
}

func (s *Server) writeResult(w http.ResponseWriter, resp resolveResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func failure(msg string) resolveResponse {
	return resolveResponse{Success: false, Error: msg}
}

// userMessage maps the error taxonomy to strings the editor shows
// directly. Anything unexpected collapses to a generic message rather
// than leaking internals.
func userMessage(err error) string {
	switch {
	case errors.Is(err, resolver.ErrInvalidURL):
		return "the link is not a valid URL"
	case errors.Is(err, resolver.ErrUnrecognizedPlatform):
		return "the link does not belong to a supported streaming platform"
	case errors.Is(err, resolver.ErrNoMatch):
		return "could not find this track"
	case errors.Is(err, resolver.ErrSourceUnavailable):
		return "the streaming platform did not respond, try again"
	default:
		return "could not resolve this link"
	}
}

func errorClass(err error) string {
	switch {
	case errors.Is(err, resolver.ErrInvalidURL):
		return "invalid_url"
	case errors.Is(err, resolver.ErrUnrecognizedPlatform):
		return "unrecognized_platform"
	case errors.Is(err, resolver.ErrNoMatch):
		return "no_match"
	case errors.Is(err, resolver.ErrSourceUnavailable):
		return "source_unavailable"
	default:
		return "internal"
	}
}
