package extractor

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePDF(t *testing.T) {
	assert.True(t, ValidatePDF([]byte("%PDF-1.7 rest of file")))
	assert.False(t, ValidatePDF([]byte("PK\x03\x04 zip archive")))
	assert.False(t, ValidatePDF([]byte("%PD")))
	assert.False(t, ValidatePDF(nil))
}

func TestChecksumDeterministic(t *testing.T) {
	a := Checksum([]byte("same bytes"))
	b := Checksum([]byte("same bytes"))
	c := Checksum([]byte("other bytes"))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}

func TestExtractRejectsNonPDF(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not a pdf</html>"))
	}))
	defer srv.Close()

	svc := NewService(5*time.Second, 1<<20)
	_, err := svc.Extract(context.Background(), srv.URL)

	var extractionErr *ExtractionError
	require.True(t, errors.As(err, &extractionErr))
	assert.Contains(t, err.Error(), "not a valid PDF")
}

func TestExtractRejectsOversizedFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("%PDF" + strings.Repeat("x", 2048)))
	}))
	defer srv.Close()

	svc := NewService(5*time.Second, 1024)
	_, err := svc.Extract(context.Background(), srv.URL)

	var extractionErr *ExtractionError
	require.True(t, errors.As(err, &extractionErr))
	assert.Contains(t, err.Error(), "too large")
}

func TestExtractRejectsEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	svc := NewService(5*time.Second, 1<<20)
	_, err := svc.Extract(context.Background(), srv.URL)

	var extractionErr *ExtractionError
	require.True(t, errors.As(err, &extractionErr))
	assert.Contains(t, err.Error(), "empty")
}

func TestExtractRejectsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	svc := NewService(5*time.Second, 1<<20)
	_, err := svc.Extract(context.Background(), srv.URL)

	var extractionErr *ExtractionError
	require.True(t, errors.As(err, &extractionErr))
	assert.Contains(t, err.Error(), "status 404")
}

func TestExtractUnreadablePDFStructure(t *testing.T) {
	// Valid magic bytes but garbage afterwards
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("%PDF-1.4 garbage that is not a real pdf body"))
	}))
	defer srv.Close()

	svc := NewService(5*time.Second, 1<<20)
	_, err := svc.Extract(context.Background(), srv.URL)

	var extractionErr *ExtractionError
	require.True(t, errors.As(err, &extractionErr))
}
