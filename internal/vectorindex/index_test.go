package vectorindex

import (
	"context"
	"fmt"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/BerylCAtieno/document-analysis-api/internal/models"
	"github.com/BerylCAtieno/document-analysis-api/internal/utils"
)

const chunkTableDDL = `
	CREATE TABLE document_chunks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		document_id INTEGER NOT NULL,
		chunk_index INTEGER NOT NULL,
		total_chunks INTEGER NOT NULL,
		document_name TEXT NOT NULL,
		status TEXT NOT NULL,
		content TEXT NOT NULL,
		embedding TEXT NOT NULL
	)
`

// hashEmbedder returns deterministic vectors so similarity ordering is
// stable across runs. Identical texts get identical vectors.
type hashEmbedder struct{}

func (hashEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		v := make([]float32, 8)
		for j, r := range text {
			v[j%8] += float32(r % 31)
		}
		vectors[i] = v
	}
	return vectors, nil
}

type failingEmbedder struct{}

func (failingEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, fmt.Errorf("embedding provider unavailable")
}

func newTestIndex(t *testing.T) *Index {
	t.Helper()

	database, err := sqlx.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	_, err = database.Exec(chunkTableDDL)
	require.NoError(t, err)

	return NewIndex(database, hashEmbedder{}, utils.NewLogger("error"))
}

func chunksFor(docID int64, name string, contents ...string) []models.Chunk {
	chunks := make([]models.Chunk, len(contents))
	for i, content := range contents {
		chunks[i] = models.Chunk{
			Content:      content,
			DocumentID:   docID,
			ChunkIndex:   i,
			TotalChunks:  len(contents),
			DocumentName: name,
			Status:       "active",
		}
	}
	return chunks
}

func TestIndexStoresChunks(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	err := idx.Index(ctx, 1, chunksFor(1, "Contrato", "cláusula um", "cláusula dois"))
	require.NoError(t, err)

	count, err := idx.CountChunks(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.True(t, idx.IsIndexed(ctx, 1))
}

func TestIndexIsIdempotent(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Index(ctx, 1, chunksFor(1, "Contrato", "a", "b")))
	require.NoError(t, idx.Index(ctx, 1, chunksFor(1, "Contrato", "a", "b", "c")))

	count, err := idx.CountChunks(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestQueryScopedToDocument(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Index(ctx, 1, chunksFor(1, "Contrato", "pagamento em trinta dias")))
	require.NoError(t, idx.Index(ctx, 2, chunksFor(2, "Proposta", "pagamento em trinta dias", "cronograma do projeto")))

	chunks, err := idx.Query(ctx, 1, "pagamento", 10)
	require.NoError(t, err)

	require.Len(t, chunks, 1)
	for _, chunk := range chunks {
		assert.Equal(t, int64(1), chunk.DocumentID)
	}
}

func TestQueryReturnsTopK(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Index(ctx, 1, chunksFor(1, "Doc", "um", "dois", "três", "quatro")))

	chunks, err := idx.Query(ctx, 1, "dois", 2)
	require.NoError(t, err)
	assert.Len(t, chunks, 2)
}

func TestQueryIdenticalTextRanksFirst(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Index(ctx, 1, chunksFor(1, "Doc", "orçamento anual", "relatório de vendas")))

	chunks, err := idx.Query(ctx, 1, "orçamento anual", 1)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "orçamento anual", chunks[0].Content)
}

func TestRemoveReportsExistence(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Index(ctx, 1, chunksFor(1, "Doc", "conteúdo")))

	removed, err := idx.Remove(ctx, 1)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.False(t, idx.IsIndexed(ctx, 1))

	removed, err = idx.Remove(ctx, 1)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestReindexReplacesChunks(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Index(ctx, 1, chunksFor(1, "Doc", "velho um", "velho dois")))
	require.NoError(t, idx.Reindex(ctx, 1, chunksFor(1, "Doc", "novo")))

	count, err := idx.CountChunks(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	chunks, err := idx.Query(ctx, 1, "novo", 5)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "novo", chunks[0].Content)
}

func TestIndexEmbedderFailure(t *testing.T) {
	idx := newTestIndex(t)
	idx.embedder = failingEmbedder{}
	ctx := context.Background()

	err := idx.Index(ctx, 1, chunksFor(1, "Doc", "conteúdo"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "indexing failed for document 1")

	count, cerr := idx.CountChunks(ctx, 1)
	require.NoError(t, cerr)
	assert.Zero(t, count)
}

func TestListAllGroupsByDocument(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Index(ctx, 1, chunksFor(1, "Contrato", "a", "b")))
	require.NoError(t, idx.Index(ctx, 2, chunksFor(2, "Proposta", "c")))

	infos := idx.ListAll(ctx)

	require.Len(t, infos, 2)
	assert.Equal(t, int64(1), infos[0].DocumentID)
	assert.Equal(t, "Contrato", infos[0].DocumentName)
	assert.Equal(t, 2, infos[0].ChunkCount)
	assert.Len(t, infos[0].Chunks, 2)
	assert.Equal(t, int64(2), infos[1].DocumentID)
}

func TestClearRemovesEverything(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Index(ctx, 1, chunksFor(1, "Doc", "a")))
	require.NoError(t, idx.Index(ctx, 2, chunksFor(2, "Outro", "b")))

	assert.True(t, idx.Clear(ctx))
	assert.False(t, idx.IsIndexed(ctx, 1))
	assert.False(t, idx.IsIndexed(ctx, 2))
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 2, 3}, []float32{1, 2, 3}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.Equal(t, 0.0, cosineSimilarity([]float32{0, 0}, []float32{1, 1}))
}
