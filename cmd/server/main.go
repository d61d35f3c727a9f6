package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BerylCAtieno/document-analysis-api/internal/ai"
	"github.com/BerylCAtieno/document-analysis-api/internal/analyzer"
	"github.com/BerylCAtieno/document-analysis-api/internal/chunker"
	"github.com/BerylCAtieno/document-analysis-api/internal/config"
	"github.com/BerylCAtieno/document-analysis-api/internal/db"
	"github.com/BerylCAtieno/document-analysis-api/internal/extractor"
	"github.com/BerylCAtieno/document-analysis-api/internal/repository"
	"github.com/BerylCAtieno/document-analysis-api/internal/router"
	"github.com/BerylCAtieno/document-analysis-api/internal/services"
	"github.com/BerylCAtieno/document-analysis-api/internal/storage"
	"github.com/BerylCAtieno/document-analysis-api/internal/utils"
	"github.com/BerylCAtieno/document-analysis-api/internal/vectorindex"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger := utils.NewLogger(cfg.LogLevel)

	// Initialize database
	database, err := db.NewSQLiteDB(cfg.DatabasePath)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer database.Close()

	// Run migrations
	if err := db.RunMigrations(cfg.DatabasePath); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	// Repositories
	docRepo := repository.NewDocumentRepository(database)
	analysisRepo := repository.NewAnalysisRepository(database)

	// PDF archive
	store, err := storage.NewS3Storage(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize S3 storage", "error", err)
	}

	// AI client and vector index
	aiClient := ai.NewClient(cfg.OpenRouterAPIKey, cfg.OpenRouterBaseURL, cfg.OpenRouterModel, cfg.EmbeddingModel)
	index := vectorindex.NewIndex(database, aiClient, logger)

	// Analyzer selection
	var docAnalyzer analyzer.Analyzer
	switch cfg.Analyzer {
	case "heuristic":
		docAnalyzer = analyzer.NewHeuristicAnalyzer(logger)
	default:
		docAnalyzer = analyzer.NewRAGAnalyzer(index, aiClient, logger)
	}
	logger.Info("Analyzer configured", "mode", cfg.Analyzer)

	// Services
	splitter := chunker.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
	pdfExtractor := extractor.NewService(time.Duration(cfg.PDFTimeoutSeconds)*time.Second, cfg.MaxPDFSize)
	docService := services.NewDocumentService(docRepo, store, pdfExtractor, splitter, index, logger)
	analysisService := services.NewAnalysisService(docRepo, analysisRepo, docAnalyzer, logger)

	// Setup HTTP router
	handler := router.NewRouter(docService, analysisService, index, logger)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		logger.Info("Starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}
