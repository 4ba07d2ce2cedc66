package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/searchlabs/boolean-retrieval-platform/internal/corpus"
	"github.com/searchlabs/boolean-retrieval-platform/internal/ingestion"
	"github.com/searchlabs/boolean-retrieval-platform/internal/ingestion/publisher"
	"github.com/searchlabs/boolean-retrieval-platform/internal/ingestion/validator"
	apperrors "github.com/searchlabs/boolean-retrieval-platform/pkg/errors"
	"github.com/searchlabs/boolean-retrieval-platform/pkg/logger"
)

type Handler struct {
	publisher *publisher.Publisher
	corpus    *corpus.Store
	logger    *slog.Logger
}

func New(pub *publisher.Publisher, corpusStore *corpus.Store) *Handler {
	return &Handler{
		publisher: pub,
		corpus:    corpusStore,
		logger:    slog.Default().With("component", "ingestion-handler"),
	}
}

func (h *Handler) Ingest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)
	var req ingestion.IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := validator.ValidateIngestRequest(&req); err != nil {
		var validationErr *validator.ValidationError
		if errors.As(err, &validationErr) {
			h.writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":  "validation failed",
				"fields": validationErr.Fields,
			})
			return
		}
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.publisher.Ingest(ctx, &req)
	if err != nil {
		statusCode := apperrors.HTTPStatusCode(err)
		log.Error("ingestion failed",
			"error", err,
			"status_code", statusCode,
		)
		h.writeError(w, statusCode, "ingestion failed")
		return
	}
	log.Info("document ingested", "doc_id", resp.DocumentID)
	h.writeJSON(w, http.StatusAccepted, resp)
}

// IngestBatch accepts a JSON array of documents and persists them in order.
// Validation failures reject the whole batch before anything is persisted.
func (h *Handler) IngestBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)
	var reqs []*ingestion.IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(reqs) == 0 {
		h.writeError(w, http.StatusBadRequest, "batch must contain at least one document")
		return
	}
	for i, req := range reqs {
		if err := validator.ValidateIngestRequest(req); err != nil {
			var validationErr *validator.ValidationError
			if errors.As(err, &validationErr) {
				h.writeJSON(w, http.StatusBadRequest, map[string]any{
					"error":  "validation failed",
					"index":  i,
					"fields": validationErr.Fields,
				})
				return
			}
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	responses, err := h.publisher.IngestBatch(ctx, reqs)
	if err != nil {
		statusCode := apperrors.HTTPStatusCode(err)
		log.Error("batch ingestion failed",
			"error", err,
			"accepted", len(responses),
			"status_code", statusCode,
		)
		h.writeError(w, statusCode, "batch ingestion failed")
		return
	}
	log.Info("document batch ingested", "count", len(responses))
	h.writeJSON(w, http.StatusAccepted, map[string]any{"documents": responses})
}

// GetDocument handles GET /api/v1/documents/{id}, returning the stored
// document from the corpus.
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "document id is required")
		return
	}
	doc, err := h.corpus.GetByID(ctx, id)
	if err != nil {
		statusCode := apperrors.HTTPStatusCode(err)
		if statusCode >= http.StatusInternalServerError {
			logger.FromContext(ctx).Error("document fetch failed", "doc_id", id, "error", err)
			h.writeError(w, statusCode, "document fetch failed")
			return
		}
		h.writeError(w, statusCode, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, struct {
		ID         string    `json:"document_id"`
		Title      string    `json:"title"`
		Body       string    `json:"body"`
		IngestedAt time.Time `json:"ingested_at"`
	}{doc.ID, doc.Title, doc.Body, doc.IngestedAt})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
