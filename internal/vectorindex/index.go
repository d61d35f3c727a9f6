// Package vectorindex persists chunk embeddings in SQLite and answers
// per-document similarity queries over them.
package vectorindex

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/BerylCAtieno/document-analysis-api/internal/models"
	"github.com/BerylCAtieno/document-analysis-api/internal/utils"
	"github.com/jmoiron/sqlx"
)

// Embedder converts text into numeric vectors for similarity
// comparison. Implementations are injected; the index never talks to
// an embedding provider directly.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Index is the per-document-scoped vector store. Chunks are stored
// with their metadata and embedding; all reads and writes are scoped
// by document id. A keyed mutex serializes the check-then-index
// sequence so concurrent callers cannot create duplicate chunk sets.
type Index struct {
	db       *sqlx.DB
	embedder Embedder
	logger   *utils.Logger
	locks    *utils.KeyedMutex
}

func NewIndex(db *sqlx.DB, embedder Embedder, logger *utils.Logger) *Index {
	return &Index{
		db:       db,
		embedder: embedder,
		logger:   logger,
		locks:    utils.NewKeyedMutex(),
	}
}

type chunkRow struct {
	ID           int64  `db:"id"`
	DocumentID   int64  `db:"document_id"`
	ChunkIndex   int    `db:"chunk_index"`
	TotalChunks  int    `db:"total_chunks"`
	DocumentName string `db:"document_name"`
	Status       string `db:"status"`
	Content      string `db:"content"`
	Embedding    string `db:"embedding"`
}

// Index embeds and stores chunks for a document. The operation is
// idempotent: when any chunks already exist for the document it does
// no work and returns nil, treating the document as already indexed.
func (idx *Index) Index(ctx context.Context, documentID int64, chunks []models.Chunk) error {
	idx.locks.Lock(documentID)
	defer idx.locks.Unlock(documentID)

	count, err := idx.countChunks(ctx, documentID)
	if err != nil {
		return fmt.Errorf("indexing failed for document %d: %w", documentID, err)
	}
	if count > 0 {
		idx.logger.Info("Document already indexed, skipping", "document_id", documentID, "chunk_count", count)
		return nil
	}

	if err := idx.addChunks(ctx, documentID, chunks); err != nil {
		return fmt.Errorf("indexing failed for document %d: %w", documentID, err)
	}

	idx.logger.Info("Document indexed", "document_id", documentID, "chunk_count", len(chunks))
	return nil
}

// Reindex removes any existing chunks for the document and indexes the
// given chunks fresh. Used to force a content refresh.
func (idx *Index) Reindex(ctx context.Context, documentID int64, chunks []models.Chunk) error {
	idx.locks.Lock(documentID)
	defer idx.locks.Unlock(documentID)

	if _, err := idx.deleteChunks(ctx, documentID); err != nil {
		return fmt.Errorf("reindexing failed for document %d: %w", documentID, err)
	}

	if err := idx.addChunks(ctx, documentID, chunks); err != nil {
		return fmt.Errorf("reindexing failed for document %d: %w", documentID, err)
	}

	idx.logger.Info("Document reindexed", "document_id", documentID, "chunk_count", len(chunks))
	return nil
}

// Remove deletes all chunks belonging to the document and reports
// whether any existed.
func (idx *Index) Remove(ctx context.Context, documentID int64) (bool, error) {
	idx.locks.Lock(documentID)
	defer idx.locks.Unlock(documentID)

	removed, err := idx.deleteChunks(ctx, documentID)
	if err != nil {
		return false, fmt.Errorf("index removal failed for document %d: %w", documentID, err)
	}

	if removed > 0 {
		idx.logger.Info("Document removed from index", "document_id", documentID, "chunk_count", removed)
	}
	return removed > 0, nil
}

// Query returns up to k chunks most similar to queryText, restricted
// to the given document. Chunks from other documents are never
// returned.
func (idx *Index) Query(ctx context.Context, documentID int64, queryText string, k int) ([]models.Chunk, error) {
	if k <= 0 {
		k = 4
	}

	vectors, err := idx.embedder.Embed(ctx, []string{queryText})
	if err != nil {
		return nil, fmt.Errorf("query failed for document %d: %w", documentID, err)
	}
	queryVector := vectors[0]

	var rows []chunkRow
	query := `
		SELECT id, document_id, chunk_index, total_chunks, document_name, status, content, embedding
		FROM document_chunks
		WHERE document_id = ?
	`
	if err := idx.db.SelectContext(ctx, &rows, query, documentID); err != nil {
		return nil, fmt.Errorf("query failed for document %d: %w", documentID, err)
	}

	type scored struct {
		row   chunkRow
		score float64
	}

	results := make([]scored, 0, len(rows))
	for _, row := range rows {
		var embedding []float32
		if err := json.Unmarshal([]byte(row.Embedding), &embedding); err != nil {
			return nil, fmt.Errorf("query failed for document %d: corrupt embedding for chunk %d: %w", documentID, row.ID, err)
		}
		results = append(results, scored{row: row, score: cosineSimilarity(queryVector, embedding)})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	if k > len(results) {
		k = len(results)
	}

	chunks := make([]models.Chunk, 0, k)
	for _, r := range results[:k] {
		chunks = append(chunks, models.Chunk{
			Content:      r.row.Content,
			DocumentID:   r.row.DocumentID,
			ChunkIndex:   r.row.ChunkIndex,
			TotalChunks:  r.row.TotalChunks,
			DocumentName: r.row.DocumentName,
			Status:       r.row.Status,
		})
	}

	return chunks, nil
}

// CountChunks returns the number of stored chunks for the document.
func (idx *Index) CountChunks(ctx context.Context, documentID int64) (int, error) {
	return idx.countChunks(ctx, documentID)
}

// IsIndexed is an existence probe. Failures are logged and reported as
// not indexed; callers use this only to decide whether to (re)index.
func (idx *Index) IsIndexed(ctx context.Context, documentID int64) bool {
	count, err := idx.countChunks(ctx, documentID)
	if err != nil {
		idx.logger.Error("Index probe failed", "document_id", documentID, "error", err)
		return false
	}
	return count > 0
}

// DocumentInfo describes one indexed document for diagnostics.
type DocumentInfo struct {
	DocumentID   int64          `json:"document_id"`
	DocumentName string         `json:"document_name"`
	Status       string         `json:"status"`
	ChunkCount   int            `json:"chunk_count"`
	Chunks       []ChunkPreview `json:"chunks"`
}

type ChunkPreview struct {
	Index          int    `json:"index"`
	ContentPreview string `json:"content_preview"`
}

// ListAll groups every stored chunk by document. It is a diagnostic
// operation: failures are logged and an empty result returned, never
// an error, so operational tooling cannot destabilize the serving path.
func (idx *Index) ListAll(ctx context.Context) []DocumentInfo {
	var rows []chunkRow
	query := `
		SELECT id, document_id, chunk_index, total_chunks, document_name, status, content, embedding
		FROM document_chunks
		ORDER BY document_id, chunk_index
	`
	if err := idx.db.SelectContext(ctx, &rows, query); err != nil {
		idx.logger.Error("Failed to list indexed documents", "error", err)
		return nil
	}

	groups := make(map[int64]*DocumentInfo)
	var order []int64
	for _, row := range rows {
		info, ok := groups[row.DocumentID]
		if !ok {
			info = &DocumentInfo{
				DocumentID:   row.DocumentID,
				DocumentName: row.DocumentName,
				Status:       row.Status,
			}
			groups[row.DocumentID] = info
			order = append(order, row.DocumentID)
		}
		info.ChunkCount++
		info.Chunks = append(info.Chunks, ChunkPreview{
			Index:          row.ChunkIndex,
			ContentPreview: preview(row.Content),
		})
	}

	infos := make([]DocumentInfo, 0, len(order))
	for _, id := range order {
		infos = append(infos, *groups[id])
	}
	return infos
}

// Clear removes every chunk from the index. Diagnostic operation with
// the same failure policy as ListAll.
func (idx *Index) Clear(ctx context.Context) bool {
	res, err := idx.db.ExecContext(ctx, `DELETE FROM document_chunks`)
	if err != nil {
		idx.logger.Error("Failed to clear index", "error", err)
		return false
	}
	removed, _ := res.RowsAffected()
	idx.logger.Info("Index cleared", "chunk_count", removed)
	return true
}

func (idx *Index) countChunks(ctx context.Context, documentID int64) (int, error) {
	var count int
	err := idx.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM document_chunks WHERE document_id = ?`, documentID)
	return count, err
}

func (idx *Index) deleteChunks(ctx context.Context, documentID int64) (int64, error) {
	res, err := idx.db.ExecContext(ctx,
		`DELETE FROM document_chunks WHERE document_id = ?`, documentID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (idx *Index) addChunks(ctx context.Context, documentID int64, chunks []models.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	vectors, err := idx.embedder.Embed(ctx, texts)
	if err != nil {
		return err
	}

	tx, err := idx.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	insert := `
		INSERT INTO document_chunks (document_id, chunk_index, total_chunks, document_name, status, content, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	for i, chunk := range chunks {
		embedding, err := json.Marshal(vectors[i])
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, insert,
			documentID, chunk.ChunkIndex, chunk.TotalChunks,
			chunk.DocumentName, chunk.Status, chunk.Content, string(embedding),
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func preview(content string) string {
	const max = 100
	if len(content) <= max {
		return content
	}
	return content[:max] + "..."
}
