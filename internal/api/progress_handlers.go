package api

import (
	"net/http"
	"strings"

	"github.com/vytor/vocabflash/internal/errors"
	"github.com/vytor/vocabflash/internal/logger"
	"github.com/vytor/vocabflash/internal/models"
)

type reviewRequest struct {
	WordID  int64 `json:"word_id"`
	Quality *int  `json:"quality"`
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.WordID <= 0 {
		handleError(w, r, errors.NewValidationError("word_id", "is required"))
		return
	}
	if req.Quality == nil {
		handleError(w, r, errors.NewValidationError("quality", "is required"))
		return
	}

	user := userFromContext(r.Context())
	logger.FromContext(r.Context()).Debug("review submitted: word_id=%d, quality=%d", req.WordID, *req.Quality)

	rec, err := s.ProgressService.SubmitReview(r.Context(), user.ID, req.WordID, *req.Quality)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, rec)
}

func (s *Server) handleDueWords(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		handleError(w, r, err)
		return
	}

	user := userFromContext(r.Context())
	due, err := s.ProgressService.DueWords(r.Context(), user.ID, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, due)
}

// handleNewWords samples unseen words. The limit defaults to the user's
// new word limit.
func (s *Server) handleNewWords(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	levels, err := models.ParseLevels(r.URL.Query().Get("level"))
	if err != nil {
		handleError(w, r, errors.NewValidationError("level", err.Error()))
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		handleError(w, r, err)
		return
	}
	if limit <= 0 {
		limit = user.Settings.NewWordLimit
	}

	words, err := s.ProgressService.NewWords(r.Context(), user.ID, levels, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, words)
}

func (s *Server) handlePracticeWords(w http.ResponseWriter, r *http.Request) {
	var level models.Level
	if raw := r.URL.Query().Get("level"); raw != "" && !strings.EqualFold(raw, "all") {
		parsed, ok := models.ParseLevel(raw)
		if !ok {
			handleError(w, r, errors.NewValidationError("level", "must be one of A1, A2, B1, B2, C1, C2"))
			return
		}
		level = parsed
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		handleError(w, r, err)
		return
	}

	user := userFromContext(r.Context())
	words, err := s.ProgressService.PracticeWords(r.Context(), user.ID, level, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, words)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	stats, err := s.ProgressService.Stats(r.Context(), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, stats)
}

func (s *Server) handleResetProgress(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if err := s.ProgressService.ResetProgress(r.Context(), user.ID); err != nil {
		handleError(w, r, err)
		return
	}
	writeMessage(w, r, http.StatusOK, "progress reset")
}
