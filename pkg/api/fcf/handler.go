// Package fcf exposes the analysis pipeline and stored results over HTTP.
package fcf

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"fcf_analysis/pkg/core/pipeline"
	"fcf_analysis/pkg/core/store"
	"fcf_analysis/pkg/models"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Analyzer runs the pipeline for one company folder.
type Analyzer interface {
	Run(ctx context.Context, dir string) (*pipeline.Result, error)
}

// ResultLoader reads stored results by ticker.
type ResultLoader interface {
	Load(ctx context.Context, ticker string) (*store.Record, error)
}

// CalculateRequest names a company folder relative to the data root.
type CalculateRequest struct {
	Folder string `json:"folder"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error  string           `json:"error"`
	Result *pipeline.Result `json:"result,omitempty"` // partial result of a strict-mode failure
}

// Handler serves the FCF endpoints. Folders in requests resolve against dataRoot.
type Handler struct {
	analyzer Analyzer
	results  ResultLoader
	dataRoot string
}

// NewHandler builds the handlers. results may be nil when no store is configured.
func NewHandler(analyzer Analyzer, results ResultLoader, dataRoot string) *Handler {
	return &Handler{analyzer: analyzer, results: results, dataRoot: dataRoot}
}

// Routes mounts the endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/health", h.Health)
	r.Post("/fcf", h.Calculate)
	r.Get("/results/{ticker}", h.GetResult)
}

// Health reports liveness; it does not touch the analyzer or the store.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

// Calculate runs the full analysis for the requested folder.
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	var req CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	dir, err := h.resolveFolder(req.Folder)
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.analyzer.Run(ctx, dir)
	if err != nil {
		status := statusFor(err)
		logger.Warn().Err(err).Str("folder", req.Folder).Int("status", status).Msg("analysis failed")
		writeJSON(ctx, w, status, ErrorResponse{Error: err.Error(), Result: res})
		return
	}
	writeJSON(ctx, w, http.StatusOK, res)
}

// GetResult returns the last stored result for a ticker.
func (h *Handler) GetResult(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ticker := chi.URLParam(r, "ticker")

	if h.results == nil {
		writeError(ctx, w, http.StatusServiceUnavailable, "result store not configured")
		return
	}
	rec, err := h.results.Load(ctx, ticker)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(ctx, w, http.StatusNotFound, "no result stored for "+strings.ToUpper(ticker))
	case err != nil:
		zerolog.Ctx(ctx).Error().Err(err).Str("ticker", ticker).Msg("loading result failed")
		writeError(ctx, w, http.StatusInternalServerError, "loading result failed")
	default:
		writeJSON(ctx, w, http.StatusOK, rec)
	}
}

// resolveFolder maps a request folder onto the data root. Absolute paths and
// paths leaving the root are rejected.
func (h *Handler) resolveFolder(folder string) (string, error) {
	folder = strings.TrimSpace(folder)
	if folder == "" {
		return "", errors.New("folder is required")
	}
	folder = filepath.FromSlash(folder)
	if !filepath.IsLocal(folder) {
		return "", errors.New("folder must stay inside the data root")
	}
	return filepath.Join(h.dataRoot, folder), nil
}

func statusFor(err error) int {
	var excelErr *models.ExcelDataError
	var validationErr *models.ValidationError
	switch {
	case errors.As(err, &excelErr):
		if errors.Is(err, os.ErrNotExist) {
			return http.StatusNotFound
		}
		return http.StatusUnprocessableEntity
	case errors.As(err, &validationErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeError(ctx context.Context, w http.ResponseWriter, status int, msg string) {
	writeJSON(ctx, w, status, ErrorResponse{Error: msg})
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to encode response")
	}
}
