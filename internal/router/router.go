package router

import (
	"net/http"

	"github.com/BerylCAtieno/document-analysis-api/internal/handlers"
	"github.com/BerylCAtieno/document-analysis-api/internal/middleware"
	"github.com/BerylCAtieno/document-analysis-api/internal/services"
	"github.com/BerylCAtieno/document-analysis-api/internal/utils"
	"github.com/BerylCAtieno/document-analysis-api/internal/vectorindex"

	"github.com/gorilla/mux"
)

func NewRouter(
	docService *services.DocumentService,
	analysisService *services.AnalysisService,
	index *vectorindex.Index,
	logger *utils.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Middlewares
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS())
	r.Use(middleware.Recovery(logger))

	docHandler := handlers.NewDocumentHandler(docService, analysisService, logger)
	indexHandler := handlers.NewIndexHandler(index, logger)

	// Routes
	api := r.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	// Document endpoints
	api.HandleFunc("/documents", docHandler.CreateDocument).Methods(http.MethodPost)
	api.HandleFunc("/documents/{id}", docHandler.GetDocument).Methods(http.MethodGet)
	api.HandleFunc("/documents/{id}", docHandler.DeleteDocument).Methods(http.MethodDelete)
	api.HandleFunc("/documents/{id}/analyze", docHandler.AnalyzeDocument).Methods(http.MethodPost)
	api.HandleFunc("/documents/{id}/analysis", docHandler.GetAnalysis).Methods(http.MethodGet)
	api.HandleFunc("/documents/{id}/analyses", docHandler.ListAnalyses).Methods(http.MethodGet)
	api.HandleFunc("/documents/{id}/reindex", docHandler.ReindexDocument).Methods(http.MethodPost)

	// Index diagnostics
	api.HandleFunc("/index/documents", indexHandler.ListIndexedDocuments).Methods(http.MethodGet)
	api.HandleFunc("/index", indexHandler.ClearIndex).Methods(http.MethodDelete)

	return r
}
