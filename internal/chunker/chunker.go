// Package chunker splits extracted document text into bounded,
// overlapping segments suitable for embedding and retrieval.
package chunker

import "strings"

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// defaultSeparators are tried highest priority first; the empty string
// is the terminal fallback for text no separator can break.
var defaultSeparators = []string{"\n\n", "\n", " ", ""}

// Splitter performs recursive character splitting: it breaks text on
// the highest-priority separator present, re-splits any piece still
// larger than ChunkSize with the remaining separators, and merges
// adjacent pieces into chunks carrying ChunkOverlap trailing characters
// of each chunk into the start of the next.
type Splitter struct {
	chunkSize    int
	chunkOverlap int
	separators   []string
}

func NewSplitter(chunkSize, chunkOverlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkOverlap < 0 {
		chunkOverlap = DefaultChunkOverlap
	}
	if chunkOverlap >= chunkSize {
		chunkOverlap = chunkSize / 4
	}
	return &Splitter{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		separators:   defaultSeparators,
	}
}

// Split returns the ordered chunks of text. Identical input always
// produces identical output. Every chunk is at most ChunkSize long
// except when a single token with no remaining separator exceeds it;
// such tokens are emitted unsplit rather than truncated.
func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return s.splitText(text, s.separators)
}

func (s *Splitter) splitText(text string, separators []string) []string {
	separator := separators[len(separators)-1]
	var remaining []string
	for i, sep := range separators {
		if sep == "" || strings.Contains(text, sep) {
			separator = sep
			remaining = separators[i+1:]
			break
		}
	}

	if separator == "" {
		// No separator left: the text is one unbreakable token. Emit it
		// whole even when it exceeds ChunkSize; truncating would lose
		// content silently.
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil
		}
		return []string{trimmed}
	}

	// SplitAfter keeps each separator attached to its preceding piece,
	// so merging with plain concatenation reconstructs the original text.
	splits := strings.SplitAfter(text, separator)

	var chunks []string
	var pending []string
	for _, piece := range splits {
		if piece == "" {
			continue
		}
		if len(piece) <= s.chunkSize {
			pending = append(pending, piece)
			continue
		}
		if len(pending) > 0 {
			chunks = append(chunks, s.merge(pending)...)
			pending = nil
		}
		if len(remaining) == 0 {
			chunks = append(chunks, strings.TrimSpace(piece))
		} else {
			chunks = append(chunks, s.splitText(piece, remaining)...)
		}
	}
	if len(pending) > 0 {
		chunks = append(chunks, s.merge(pending)...)
	}

	return chunks
}

// merge concatenates adjacent pieces into chunks no larger than
// ChunkSize, re-seeding each new chunk with the trailing pieces of the
// previous one up to ChunkOverlap characters.
func (s *Splitter) merge(pieces []string) []string {
	var chunks []string
	var window []string
	total := 0

	for _, piece := range pieces {
		if total+len(piece) > s.chunkSize && total > 0 {
			if chunk := strings.TrimSpace(strings.Join(window, "")); chunk != "" {
				chunks = append(chunks, chunk)
			}
			for total > s.chunkOverlap || (total+len(piece) > s.chunkSize && total > 0) {
				total -= len(window[0])
				window = window[1:]
			}
		}
		window = append(window, piece)
		total += len(piece)
	}

	if chunk := strings.TrimSpace(strings.Join(window, "")); chunk != "" {
		chunks = append(chunks, chunk)
	}

	return chunks
}
