// Package services coordinates repositories, the vector index, the PDF
// pipeline and the analyzers into the operations the HTTP handlers
// expose.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/BerylCAtieno/document-analysis-api/internal/analyzer"
	"github.com/BerylCAtieno/document-analysis-api/internal/models"
	"github.com/BerylCAtieno/document-analysis-api/internal/repository"
	"github.com/BerylCAtieno/document-analysis-api/internal/utils"
)

// AnalysisService orchestrates document analysis with caching: repeated
// requests for the same document return the stored analysis unless the
// caller forces a fresh run. A keyed mutex serializes concurrent
// requests per document so the check-then-analyze sequence cannot race
// with itself.
type AnalysisService struct {
	docRepo      repository.DocumentRepository
	analysisRepo repository.AnalysisRepository
	analyzer     analyzer.Analyzer
	locks        *utils.KeyedMutex
	logger       *utils.Logger
}

func NewAnalysisService(
	docRepo repository.DocumentRepository,
	analysisRepo repository.AnalysisRepository,
	a analyzer.Analyzer,
	logger *utils.Logger,
) *AnalysisService {
	return &AnalysisService{
		docRepo:      docRepo,
		analysisRepo: analysisRepo,
		analyzer:     a,
		locks:        utils.NewKeyedMutex(),
		logger:       logger,
	}
}

// Analyze returns the analysis for a document. Without force, a stored
// analysis is returned as-is; with force, any stored analysis is
// replaced by a fresh one. The document must exist and be analyzable.
func (s *AnalysisService) Analyze(ctx context.Context, documentID int64, force bool) (*models.DocumentAnalysis, error) {
	s.locks.Lock(documentID)
	defer s.locks.Unlock(documentID)

	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, utils.NewInternalError(fmt.Sprintf("failed to load document %d", documentID))
	}
	if doc == nil {
		return nil, utils.NewNotFoundError(fmt.Sprintf("document %d not found", documentID))
	}

	if !doc.CanBeAnalyzed() {
		return nil, utils.NewValidationError(fmt.Sprintf(
			"document %d cannot be analyzed: check that it is active, persisted and indexed", documentID))
	}

	existing, err := s.analysisRepo.GetByDocumentID(ctx, documentID)
	if err != nil {
		return nil, utils.NewInternalError(fmt.Sprintf("failed to load analysis for document %d", documentID))
	}

	if existing != nil && !force {
		s.logger.Info("Returning cached analysis", "document_id", documentID, "analysis_id", existing.ID)
		return existing, nil
	}

	analysis, err := s.analyzer.Analyze(ctx, doc)
	if err != nil {
		var appErr *utils.AppError
		var analysisErr *analyzer.AnalysisError
		if errors.As(err, &appErr) || errors.As(err, &analysisErr) {
			return nil, err
		}
		return nil, &analyzer.AnalysisError{
			Message: fmt.Sprintf("analysis failed for document %d", documentID),
			Err:     err,
		}
	}

	analysis.DocumentID = documentID

	if !analysis.HasMeaningfulAnalysis() {
		return nil, &analyzer.AnalysisError{
			Message: fmt.Sprintf("analysis produced no meaningful results for document %d", documentID),
		}
	}

	// Forced re-analysis replaces the previous record so at most one
	// current analysis exists per document.
	if existing != nil {
		if _, err := s.analysisRepo.Delete(ctx, existing.ID); err != nil {
			return nil, utils.NewInternalError(fmt.Sprintf("failed to replace analysis for document %d", documentID))
		}
	}

	if err := s.analysisRepo.Save(ctx, analysis); err != nil {
		return nil, utils.NewInternalError(fmt.Sprintf("failed to persist analysis for document %d", documentID))
	}

	s.logger.Info("Analysis stored", "document_id", documentID, "analysis_id", analysis.ID, "forced", force)
	return analysis, nil
}

// GetAnalysis returns the current stored analysis for a document
// without triggering a new one.
func (s *AnalysisService) GetAnalysis(ctx context.Context, documentID int64) (*models.DocumentAnalysis, error) {
	analysis, err := s.analysisRepo.GetByDocumentID(ctx, documentID)
	if err != nil {
		return nil, utils.NewInternalError(fmt.Sprintf("failed to load analysis for document %d", documentID))
	}
	if analysis == nil {
		return nil, utils.NewNotFoundError(fmt.Sprintf("no analysis found for document %d", documentID))
	}
	return analysis, nil
}

// ListAnalyses returns every stored analysis for a document, newest
// first.
func (s *AnalysisService) ListAnalyses(ctx context.Context, documentID int64) ([]*models.DocumentAnalysis, error) {
	analyses, err := s.analysisRepo.ListByDocumentID(ctx, documentID)
	if err != nil {
		return nil, utils.NewInternalError(fmt.Sprintf("failed to list analyses for document %d", documentID))
	}
	return analyses, nil
}
