package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gitdrop/gitdrop/internal/batch"
)

// BatchWriter runs one batch of file writes. Implemented by *batch.Writer;
// inject a fake in tests.
type BatchWriter interface {
	Run(ctx context.Context, req batch.Request) []batch.Result
}

type Handler struct {
	writer BatchWriter
}

func NewHandler(writer BatchWriter) *Handler {
	return &Handler{writer: writer}
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (h *Handler) Tasks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed"})
		return
	}
	var req batch.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return
	}
	if len(req.Files) == 0 {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "files array required"})
		return
	}
	results := h.writer.Run(r.Context(), req)
	respondJSON(w, http.StatusOK, BatchResponse{OK: true, Results: results})
}
