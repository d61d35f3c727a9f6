package models

// Chunk is a bounded segment of a document's extracted text. Chunks are
// not persisted as first-class entities; they live only inside the
// vector index, tagged with enough metadata for scoped retrieval.
type Chunk struct {
	Content      string `json:"content" db:"content"`
	DocumentID   int64  `json:"document_id" db:"document_id"`
	ChunkIndex   int    `json:"chunk_index" db:"chunk_index"`
	TotalChunks  int    `json:"total_chunks" db:"total_chunks"`
	DocumentName string `json:"document_name" db:"document_name"`
	Status       string `json:"status" db:"status"`
}
