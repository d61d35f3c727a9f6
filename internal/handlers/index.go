package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/BerylCAtieno/document-analysis-api/internal/utils"
	"github.com/BerylCAtieno/document-analysis-api/internal/vectorindex"
)

// IndexHandler exposes the diagnostic view of the vector index.
type IndexHandler struct {
	index  *vectorindex.Index
	logger *utils.Logger
}

func NewIndexHandler(index *vectorindex.Index, logger *utils.Logger) *IndexHandler {
	return &IndexHandler{index: index, logger: logger}
}

func (h *IndexHandler) ListIndexedDocuments(w http.ResponseWriter, r *http.Request) {
	infos := h.index.ListAll(r.Context())
	if infos == nil {
		infos = []vectorindex.DocumentInfo{}
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"document_count": len(infos),
		"documents":      infos,
	})
}

func (h *IndexHandler) ClearIndex(w http.ResponseWriter, r *http.Request) {
	cleared := h.index.Clear(r.Context())

	respondJSON(w, h.logger, http.StatusOK, map[string]bool{"cleared": cleared})
}

func respondJSON(w http.ResponseWriter, logger *utils.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode JSON response", "error", err)
	}
}
