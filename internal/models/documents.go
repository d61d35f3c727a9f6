package models

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrAlreadyDeleted = errors.New("document is already deleted")
	ErrNotDeleted     = errors.New("document is not deleted")
)

// ProcessingStatus tracks the content pipeline state of a document's PDF.
type ProcessingStatus string

const (
	StatusUploaded   ProcessingStatus = "UPLOADED"
	StatusProcessing ProcessingStatus = "PROCESSING"
	StatusIndexed    ProcessingStatus = "INDEXED"
	StatusFailed     ProcessingStatus = "FAILED"
)

type Document struct {
	ID               int64            `json:"id" db:"id"`
	CompanyID        int64            `json:"company_id" db:"company_id"`
	Name             string           `json:"name" db:"name"`
	Status           string           `json:"status" db:"status"`
	CreatedBy        string           `json:"created_by" db:"created_by"`
	URLPDF           string           `json:"url_pdf,omitempty" db:"url_pdf"`
	ProcessingStatus ProcessingStatus `json:"processing_status" db:"processing_status"`
	Checksum         string           `json:"checksum,omitempty" db:"checksum"`
	VersionID        string           `json:"version_id,omitempty" db:"version_id"`
	IsDeleted        bool             `json:"is_deleted" db:"is_deleted"`
	DeletedAt        *time.Time       `json:"deleted_at,omitempty" db:"deleted_at"`
	DeletedBy        string           `json:"deleted_by,omitempty" db:"deleted_by"`
	CreatedAt        time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at" db:"updated_at"`
}

// IsActive reports whether the document has not been soft deleted.
func (d *Document) IsActive() bool {
	return !d.IsDeleted
}

// CanBeAnalyzed reports whether the document is eligible for analysis.
// A document qualifies only when it is active, named, persisted and its
// PDF content has been fully indexed.
func (d *Document) CanBeAnalyzed() bool {
	return d.IsActive() &&
		strings.TrimSpace(d.Name) != "" &&
		d.ID != 0 &&
		d.ProcessingStatus == StatusIndexed
}

// SoftDelete marks the document deleted with audit information.
func (d *Document) SoftDelete(deletedBy string) error {
	if d.IsDeleted {
		return ErrAlreadyDeleted
	}
	now := time.Now().UTC()
	d.IsDeleted = true
	d.DeletedAt = &now
	d.DeletedBy = deletedBy
	return nil
}

// Restore reverses a soft delete.
func (d *Document) Restore() error {
	if !d.IsDeleted {
		return ErrNotDeleted
	}
	d.IsDeleted = false
	d.DeletedAt = nil
	d.DeletedBy = ""
	return nil
}

type CreateDocumentRequest struct {
	Name      string `json:"name"`
	CompanyID int64  `json:"company_id"`
	CreatedBy string `json:"created_by"`
	URLPDF    string `json:"url_pdf"`
}

type CreateDocumentResponse struct {
	ID               int64            `json:"id"`
	Name             string           `json:"name"`
	CompanyID        int64            `json:"company_id"`
	ProcessingStatus ProcessingStatus `json:"processing_status"`
	VersionID        string           `json:"version_id"`
	CreatedAt        time.Time        `json:"created_at"`
	Message          string           `json:"message"`
}
