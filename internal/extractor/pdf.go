package extractor

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
)

// ExtractionError is the typed failure for the PDF pipeline: download
// problems, oversize files, non-PDF payloads and unreadable structures
// all surface as this type so callers can recognize them without
// string matching.
type ExtractionError struct {
	URL string
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("pdf extraction failed for %s: %v", e.URL, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Result holds everything the ingestion pipeline needs from one PDF:
// the extracted text, the content checksum and the raw bytes for
// archival.
type Result struct {
	Text     string
	Checksum string
	Raw      []byte
}

type Service struct {
	client      *http.Client
	maxFileSize int64
}

func NewService(timeout time.Duration, maxFileSize int64) *Service {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if maxFileSize <= 0 {
		maxFileSize = 50 * 1024 * 1024
	}
	return &Service{
		client:      &http.Client{Timeout: timeout},
		maxFileSize: maxFileSize,
	}
}

// Extract downloads the PDF at url, validates it and extracts its text.
func (s *Service) Extract(ctx context.Context, url string) (*Result, error) {
	data, err := s.download(ctx, url)
	if err != nil {
		return nil, &ExtractionError{URL: url, Err: err}
	}

	if !ValidatePDF(data) {
		return nil, &ExtractionError{URL: url, Err: fmt.Errorf("not a valid PDF file")}
	}

	text, err := extractText(data)
	if err != nil {
		return nil, &ExtractionError{URL: url, Err: err}
	}

	return &Result{
		Text:     text,
		Checksum: Checksum(data),
		Raw:      data,
	}, nil
}

func (s *Service) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "document-analysis-api/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download PDF: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download returned status %d", resp.StatusCode)
	}

	// Read at most one byte over the limit so oversize is detectable.
	data, err := io.ReadAll(io.LimitReader(resp.Body, s.maxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF body: %w", err)
	}

	if int64(len(data)) > s.maxFileSize {
		return nil, fmt.Errorf("file too large: more than %d bytes", s.maxFileSize)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("downloaded file is empty")
	}

	return data, nil
}

func extractText(data []byte) (string, error) {
	reader := bytes.NewReader(data)

	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to create PDF reader: %w", err)
	}

	numPages := pdfReader.NumPage()
	if numPages == 0 {
		return "", fmt.Errorf("PDF contains no pages")
	}

	var textBuilder strings.Builder

	for i := 1; i <= numPages; i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip unreadable pages, extract what we can
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n")
	}

	extractedText := strings.TrimSpace(textBuilder.String())

	if extractedText == "" {
		return "", fmt.Errorf("no text could be extracted from PDF")
	}

	return extractedText, nil
}

// Checksum returns the SHA256 hex digest of the PDF bytes.
func Checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ValidatePDF reports whether data starts with the PDF magic bytes.
func ValidatePDF(data []byte) bool {
	return len(data) >= 4 && bytes.HasPrefix(data, []byte("%PDF"))
}
