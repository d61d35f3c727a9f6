package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/BerylCAtieno/document-analysis-api/internal/models"
	"github.com/jmoiron/sqlx"
)

type DocumentRepository interface {
	Create(ctx context.Context, doc *models.Document) error
	GetByID(ctx context.Context, id int64) (*models.Document, error)
	Update(ctx context.Context, doc *models.Document) error
}

type documentRepository struct {
	db *sqlx.DB
}

func NewDocumentRepository(db *sqlx.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, doc *models.Document) error {
	query := `
		INSERT INTO documents (company_id, name, status, created_by, url_pdf,
		       processing_status, checksum, version_id, is_deleted, deleted_at, deleted_by,
		       created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	res, err := r.db.ExecContext(ctx, query,
		doc.CompanyID,
		doc.Name,
		doc.Status,
		doc.CreatedBy,
		doc.URLPDF,
		doc.ProcessingStatus,
		doc.Checksum,
		doc.VersionID,
		doc.IsDeleted,
		doc.DeletedAt,
		doc.DeletedBy,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	if err != nil {
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	doc.ID = id

	return nil
}

func (r *documentRepository) GetByID(ctx context.Context, id int64) (*models.Document, error) {
	var doc models.Document

	query := `
		SELECT id, company_id, name, status, created_by, url_pdf,
		       processing_status, checksum, version_id, is_deleted, deleted_at, deleted_by,
		       created_at, updated_at
		FROM documents
		WHERE id = ?
	`

	err := r.db.GetContext(ctx, &doc, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &doc, nil
}

func (r *documentRepository) Update(ctx context.Context, doc *models.Document) error {
	query := `
		UPDATE documents
		SET name = ?, status = ?, url_pdf = ?, processing_status = ?,
		    checksum = ?, version_id = ?, is_deleted = ?, deleted_at = ?,
		    deleted_by = ?, updated_at = ?
		WHERE id = ?
	`

	doc.UpdatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, query,
		doc.Name,
		doc.Status,
		doc.URLPDF,
		doc.ProcessingStatus,
		doc.Checksum,
		doc.VersionID,
		doc.IsDeleted,
		doc.DeletedAt,
		doc.DeletedBy,
		doc.UpdatedAt,
		doc.ID,
	)

	return err
}
