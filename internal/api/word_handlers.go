package api

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/vocabflash/internal/errors"
	"github.com/vytor/vocabflash/internal/importer"
	"github.com/vytor/vocabflash/internal/jobs"
	"github.com/vytor/vocabflash/internal/logger"
	"github.com/vytor/vocabflash/internal/models"
	"github.com/vytor/vocabflash/internal/services"
	"github.com/vytor/vocabflash/internal/worker"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) handleListWords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := services.WordQuery{Search: q.Get("search")}

	if raw := q.Get("level"); raw != "" && !strings.EqualFold(raw, "all") {
		level, ok := models.ParseLevel(raw)
		if !ok {
			handleError(w, r, errors.NewValidationError("level", "must be one of A1, A2, B1, B2, C1, C2"))
			return
		}
		query.Level = level
	}

	var err error
	if query.Page, err = queryInt(r, "page"); err != nil {
		handleError(w, r, err)
		return
	}
	if query.Limit, err = queryInt(r, "limit"); err != nil {
		handleError(w, r, err)
		return
	}

	page, err := s.WordService.List(r.Context(), query)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, page)
}

func (s *Server) handleGetWord(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	word, err := s.WordService.Get(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, word)
}

func (s *Server) handleCreateWord(w http.ResponseWriter, r *http.Request) {
	var in models.Word
	if err := decodeJSON(r, &in); err != nil {
		handleError(w, r, err)
		return
	}

	admin := userFromContext(r.Context())
	word, err := s.WordService.Create(r.Context(), in, &admin.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, word)
}

func (s *Server) handleUpdateWord(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	var in models.Word
	if err := decodeJSON(r, &in); err != nil {
		handleError(w, r, err)
		return
	}

	word, err := s.WordService.Update(r.Context(), id, in)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, word)
}

func (s *Server) handleDeleteWord(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.WordService.Delete(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	writeMessage(w, r, http.StatusOK, "word deleted")
}

// handleBulkImport accepts a JSON array of words and imports them
// synchronously.
func (s *Server) handleBulkImport(w http.ResponseWriter, r *http.Request) {
	words, err := importer.ReadJSON(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		handleError(w, r, errors.NewBadRequestError("expected a JSON array of words"))
		return
	}
	if len(words) == 0 {
		handleError(w, r, errors.NewValidationError("words", "must not be empty"))
		return
	}

	admin := userFromContext(r.Context())
	res, err := s.WordService.BulkImport(r.Context(), words, &admin.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (s *Server) handleExportWords(w http.ResponseWriter, r *http.Request) {
	format, err := importer.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		handleError(w, r, errors.NewValidationError("format", "must be json or xlsx"))
		return
	}

	words, err := s.WordService.Export(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}

	// Encode fully before writing headers so a failure still yields a
	// proper error response.
	var buf bytes.Buffer
	if err := importer.Write(&buf, words, format); err != nil {
		handleError(w, r, errors.NewInternalError(err))
		return
	}

	contentType := "application/json"
	if format == importer.FormatXLSX {
		contentType = xlsxContentType
	}
	filename := fmt.Sprintf("words-%s.%s", time.Now().UTC().Format("20060102"), format)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logger.FromContext(r.Context()).Warn("export write interrupted: %v", err)
	}
}

// handleUploadImport queues a multipart "file" upload for background import.
func (s *Server) handleUploadImport(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		handleError(w, r, errors.NewBadRequestError("expected a multipart upload under 10MB"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		handleError(w, r, errors.NewValidationError("file", "is required"))
		return
	}
	defer file.Close()

	format, err := importer.FormatFromPath(header.Filename)
	if err != nil {
		handleError(w, r, errors.NewValidationError("file", "must be a .xlsx or .json file"))
		return
	}
	data, err := io.ReadAll(file)
	if err != nil {
		handleError(w, r, errors.NewBadRequestError("failed to read upload"))
		return
	}

	admin := userFromContext(r.Context())
	id, err := s.JobQueue.EnqueueWordImport(r.Context(), data, format, &admin.ID)
	if err != nil {
		if stderrors.Is(err, worker.ErrQueueFull) || stderrors.Is(err, worker.ErrPoolStopped) {
			handleError(w, r, &errors.AppError{
				Code:    errors.ErrCodeRateLimited,
				Message: "import queue is busy, try again later",
				Status:  http.StatusServiceUnavailable,
				Err:     err,
			})
			return
		}
		handleError(w, r, errors.NewInternalError(err))
		return
	}

	log.Info("queued import of %s (%d bytes) as job %s", header.Filename, len(data), id)
	status, err := s.JobQueue.Status(id)
	if err != nil {
		writeJSON(w, r, http.StatusAccepted, map[string]string{"id": id})
		return
	}
	writeJSON(w, r, http.StatusAccepted, status)
}

func (s *Server) handleImportStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "jobID")
	status, err := s.JobQueue.Status(id)
	if err != nil {
		if stderrors.Is(err, jobs.ErrUnknownJob) {
			handleError(w, r, errors.NewNotFoundError("import job", id))
			return
		}
		handleError(w, r, errors.NewInternalError(err))
		return
	}
	writeJSON(w, r, http.StatusOK, status)
}
