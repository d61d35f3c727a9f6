package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/BerylCAtieno/document-analysis-api/internal/analyzer"
	"github.com/BerylCAtieno/document-analysis-api/internal/models"
	"github.com/BerylCAtieno/document-analysis-api/internal/services"
	"github.com/BerylCAtieno/document-analysis-api/internal/utils"
	"github.com/gorilla/mux"
)

type DocumentHandler struct {
	docService      *services.DocumentService
	analysisService *services.AnalysisService
	logger          *utils.Logger
}

func NewDocumentHandler(docService *services.DocumentService, analysisService *services.AnalysisService, logger *utils.Logger) *DocumentHandler {
	return &DocumentHandler{
		docService:      docService,
		analysisService: analysisService,
		logger:          logger,
	}
}

func (h *DocumentHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	var req models.CreateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, utils.NewBadRequestError("Invalid JSON body"))
		return
	}

	doc, err := h.docService.Create(r.Context(), &req)
	if err != nil {
		h.respondError(w, err)
		return
	}

	resp := &models.CreateDocumentResponse{
		ID:               doc.ID,
		Name:             doc.Name,
		CompanyID:        doc.CompanyID,
		ProcessingStatus: doc.ProcessingStatus,
		VersionID:        doc.VersionID,
		CreatedAt:        doc.CreatedAt,
		Message:          creationMessage(doc),
	}

	h.respondJSON(w, http.StatusCreated, resp)
}

func creationMessage(doc *models.Document) string {
	switch doc.ProcessingStatus {
	case models.StatusIndexed:
		return "Document created and indexed"
	case models.StatusFailed:
		return "Document created but PDF processing failed"
	default:
		return "Document created"
	}
}

func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := h.documentID(w, r)
	if !ok {
		return
	}

	doc, err := h.docService.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, doc)
}

func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := h.documentID(w, r)
	if !ok {
		return
	}

	deletedBy := r.URL.Query().Get("deleted_by")

	if err := h.docService.Delete(r.Context(), id, deletedBy); err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{"message": "Document deleted"})
}

func (h *DocumentHandler) AnalyzeDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := h.documentID(w, r)
	if !ok {
		return
	}

	force, _ := strconv.ParseBool(r.URL.Query().Get("force"))

	analysis, err := h.analysisService.Analyze(r.Context(), id, force)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, analysis)
}

func (h *DocumentHandler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	id, ok := h.documentID(w, r)
	if !ok {
		return
	}

	analysis, err := h.analysisService.GetAnalysis(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, analysis)
}

func (h *DocumentHandler) ListAnalyses(w http.ResponseWriter, r *http.Request) {
	id, ok := h.documentID(w, r)
	if !ok {
		return
	}

	analyses, err := h.analysisService.ListAnalyses(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, analyses)
}

func (h *DocumentHandler) ReindexDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := h.documentID(w, r)
	if !ok {
		return
	}

	doc, err := h.docService.Reindex(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, doc)
}

func (h *DocumentHandler) documentID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	vars := mux.Vars(r)
	id, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil || id <= 0 {
		h.respondError(w, utils.NewBadRequestError("Document ID must be a positive integer"))
		return 0, false
	}
	return id, true
}

func (h *DocumentHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", "error", err)
	}
}

func (h *DocumentHandler) respondError(w http.ResponseWriter, err error) {
	var status int
	var message string

	var appErr *utils.AppError
	var analysisErr *analyzer.AnalysisError

	switch {
	case errors.As(err, &appErr):
		status = appErr.StatusCode
		message = appErr.Message
	case errors.As(err, &analysisErr):
		status = http.StatusInternalServerError
		message = analysisErr.Error()
	default:
		status = http.StatusInternalServerError
		message = "Internal server error"
	}

	h.logger.Error("Request error", "status", status, "error", message)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
