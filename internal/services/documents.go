package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BerylCAtieno/document-analysis-api/internal/chunker"
	"github.com/BerylCAtieno/document-analysis-api/internal/extractor"
	"github.com/BerylCAtieno/document-analysis-api/internal/models"
	"github.com/BerylCAtieno/document-analysis-api/internal/repository"
	"github.com/BerylCAtieno/document-analysis-api/internal/storage"
	"github.com/BerylCAtieno/document-analysis-api/internal/utils"
)

// Extractor turns a PDF URL into extracted text, checksum and raw bytes.
type Extractor interface {
	Extract(ctx context.Context, url string) (*extractor.Result, error)
}

// Indexer is the write side of the vector index the document lifecycle
// needs.
type Indexer interface {
	Index(ctx context.Context, documentID int64, chunks []models.Chunk) error
	Reindex(ctx context.Context, documentID int64, chunks []models.Chunk) error
	Remove(ctx context.Context, documentID int64) (bool, error)
}

// DocumentService owns the document lifecycle: creation with optional
// PDF ingestion, retrieval, soft deletion and reindexing. Ingestion
// failures never fail creation; the document is kept with a FAILED
// processing status so the caller can retry via reindex.
type DocumentService struct {
	repo      repository.DocumentRepository
	storage   storage.Storage
	extractor Extractor
	splitter  *chunker.Splitter
	index     Indexer
	logger    *utils.Logger
}

func NewDocumentService(
	repo repository.DocumentRepository,
	store storage.Storage,
	ext Extractor,
	splitter *chunker.Splitter,
	index Indexer,
	logger *utils.Logger,
) *DocumentService {
	return &DocumentService{
		repo:      repo,
		storage:   store,
		extractor: ext,
		splitter:  splitter,
		index:     index,
		logger:    logger,
	}
}

// Create persists a new document and, when a PDF URL is given, runs the
// ingestion pipeline. Pipeline errors are recorded on the document, not
// returned: creation succeeds as long as the record itself is stored.
func (s *DocumentService) Create(ctx context.Context, req *models.CreateDocumentRequest) (*models.Document, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, utils.NewBadRequestError("document name is required")
	}
	if strings.TrimSpace(req.CreatedBy) == "" {
		return nil, utils.NewBadRequestError("created_by is required")
	}

	now := time.Now().UTC()
	doc := &models.Document{
		CompanyID:        req.CompanyID,
		Name:             strings.TrimSpace(req.Name),
		Status:           "active",
		CreatedBy:        req.CreatedBy,
		URLPDF:           req.URLPDF,
		ProcessingStatus: models.StatusUploaded,
		VersionID:        uuid.NewString(),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Create(ctx, doc); err != nil {
		return nil, utils.NewInternalError("failed to create document")
	}

	if doc.URLPDF != "" {
		if err := s.processPDF(ctx, doc); err != nil {
			s.logger.Error("PDF processing failed, document kept with FAILED status",
				"document_id", doc.ID, "url", doc.URLPDF, "error", err)
		}
	}

	return doc, nil
}

// processPDF runs extract, archive, chunk and index for the document's
// PDF. Any step failure marks the document FAILED; success marks it
// INDEXED with the content checksum recorded.
func (s *DocumentService) processPDF(ctx context.Context, doc *models.Document) error {
	doc.ProcessingStatus = models.StatusProcessing
	if err := s.repo.Update(ctx, doc); err != nil {
		return err
	}

	result, err := s.extractor.Extract(ctx, doc.URLPDF)
	if err != nil {
		s.markFailed(ctx, doc)
		return err
	}

	// Archival is best effort; the index is the source for analysis.
	key := fmt.Sprintf("documents/%d/%s.pdf", doc.ID, doc.VersionID)
	if err := s.storage.Upload(ctx, key, result.Raw, "application/pdf"); err != nil {
		s.logger.Warn("PDF archival failed", "document_id", doc.ID, "key", key, "error", err)
	}

	chunks := s.buildChunks(doc, result.Text)
	if err := s.index.Index(ctx, doc.ID, chunks); err != nil {
		s.markFailed(ctx, doc)
		return err
	}

	doc.Checksum = result.Checksum
	doc.ProcessingStatus = models.StatusIndexed
	if err := s.repo.Update(ctx, doc); err != nil {
		return err
	}

	s.logger.Info("Document processed", "document_id", doc.ID, "chunk_count", len(chunks))
	return nil
}

func (s *DocumentService) buildChunks(doc *models.Document, text string) []models.Chunk {
	pieces := s.splitter.Split(text)
	chunks := make([]models.Chunk, len(pieces))
	for i, content := range pieces {
		chunks[i] = models.Chunk{
			Content:      content,
			DocumentID:   doc.ID,
			ChunkIndex:   i,
			TotalChunks:  len(pieces),
			DocumentName: doc.Name,
			Status:       doc.Status,
		}
	}
	return chunks
}

func (s *DocumentService) markFailed(ctx context.Context, doc *models.Document) {
	doc.ProcessingStatus = models.StatusFailed
	if err := s.repo.Update(ctx, doc); err != nil {
		s.logger.Error("Failed to record FAILED status", "document_id", doc.ID, "error", err)
	}
}

// Get returns the document or a not-found error.
func (s *DocumentService) Get(ctx context.Context, id int64) (*models.Document, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, utils.NewInternalError(fmt.Sprintf("failed to load document %d", id))
	}
	if doc == nil {
		return nil, utils.NewNotFoundError(fmt.Sprintf("document %d not found", id))
	}
	return doc, nil
}

// Delete soft deletes the document and removes its chunks from the
// index. Index removal failures are logged only; the soft delete is
// already durable at that point.
func (s *DocumentService) Delete(ctx context.Context, id int64, deletedBy string) error {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := doc.SoftDelete(deletedBy); err != nil {
		return utils.NewValidationError(err.Error())
	}
	if err := s.repo.Update(ctx, doc); err != nil {
		return utils.NewInternalError(fmt.Sprintf("failed to delete document %d", id))
	}

	if _, err := s.index.Remove(ctx, id); err != nil {
		s.logger.Error("Failed to remove document from index", "document_id", id, "error", err)
	}

	return nil
}

// Reindex re-runs extraction and replaces the document's chunks in the
// index. Unlike creation-time processing, failures here surface to the
// caller since reindexing is an explicit request.
func (s *DocumentService) Reindex(ctx context.Context, id int64) (*models.Document, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !doc.IsActive() {
		return nil, utils.NewValidationError(fmt.Sprintf("document %d is deleted", id))
	}
	if doc.URLPDF == "" {
		return nil, utils.NewValidationError(fmt.Sprintf("document %d has no PDF to index", id))
	}

	doc.ProcessingStatus = models.StatusProcessing
	if err := s.repo.Update(ctx, doc); err != nil {
		return nil, utils.NewInternalError(fmt.Sprintf("failed to update document %d", id))
	}

	result, err := s.extractor.Extract(ctx, doc.URLPDF)
	if err != nil {
		s.markFailed(ctx, doc)
		return nil, err
	}

	chunks := s.buildChunks(doc, result.Text)
	if err := s.index.Reindex(ctx, doc.ID, chunks); err != nil {
		s.markFailed(ctx, doc)
		return nil, err
	}

	doc.Checksum = result.Checksum
	doc.ProcessingStatus = models.StatusIndexed
	if err := s.repo.Update(ctx, doc); err != nil {
		return nil, utils.NewInternalError(fmt.Sprintf("failed to update document %d", id))
	}

	s.logger.Info("Document reindexed", "document_id", doc.ID, "chunk_count", len(chunks))
	return doc, nil
}
