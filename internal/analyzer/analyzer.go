// Package analyzer produces structured document analyses. Two
// implementations exist: a RAG analyzer backed by the vector index and
// a language model, and a self-contained heuristic analyzer used as a
// fallback. Both are selected at construction time behind the Analyzer
// interface.
package analyzer

import (
	"context"
	"fmt"

	"github.com/BerylCAtieno/document-analysis-api/internal/models"
	"github.com/BerylCAtieno/document-analysis-api/internal/utils"
)

type Analyzer interface {
	Analyze(ctx context.Context, doc *models.Document) (*models.DocumentAnalysis, error)
}

// AnalysisError is the typed failure for analysis production. The
// original cause is attached so callers can report it verbatim.
type AnalysisError struct {
	Message string
	Err     error
}

func (e *AnalysisError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// validateDocument is the shared analyzability gate. Both analyzers
// apply it before doing any work.
func validateDocument(doc *models.Document) error {
	if !doc.CanBeAnalyzed() {
		return utils.NewValidationError(fmt.Sprintf(
			"document %d cannot be analyzed: check that it is active, persisted and indexed", doc.ID))
	}
	return nil
}
